package actors

import (
	stdctx "context"
	"log"
	"time"

	"club-pulse/internal/database"
	"club-pulse/internal/membership"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// GetCountsMsg asks an actor how many aggregates it currently tracks.
type GetCountsMsg struct{}

// Message types for Community operations
type (
	CreateCommunityMsg struct {
		Name         string               `json:"name"`
		Description  string               `json:"description"`
		Type         models.CommunityType `json:"type"`
		ClubID       string               `json:"clubId"`
		Creator      models.UserRef       `json:"creator"`
		CreatorPhone string               `json:"creatorPhone"`
	}

	GetCommunityMsg struct {
		CommunityID uuid.UUID `json:"communityId"`
	}

	ListClubCommunitiesMsg struct {
		ClubID string `json:"clubId"`
	}

	JoinCommunityMsg struct {
		CommunityID uuid.UUID      `json:"communityId"`
		User        models.UserRef `json:"user"`
		PhoneNumber string         `json:"phoneNumber"`
	}

	ApproveMemberMsg struct {
		CommunityID  uuid.UUID `json:"communityId"`
		AdminID      uuid.UUID `json:"adminId"`
		TargetUserID uuid.UUID `json:"targetUserId"`
	}

	DenyMemberMsg struct {
		CommunityID  uuid.UUID `json:"communityId"`
		AdminID      uuid.UUID `json:"adminId"`
		TargetUserID uuid.UUID `json:"targetUserId"`
	}

	LeaveCommunityMsg struct {
		CommunityID uuid.UUID `json:"communityId"`
		UserID      uuid.UUID `json:"userId"`
	}

	ListPendingMsg struct {
		CommunityID uuid.UUID `json:"communityId"`
		AdminID     uuid.UUID `json:"adminId"`
	}

	AdminNotificationsMsg struct {
		AdminID uuid.UUID `json:"adminId"`
	}
)

// JoinRequestNotice is one entry in an admin's pending-request inbox.
type JoinRequestNotice struct {
	CommunityID   uuid.UUID `json:"communityId"`
	CommunityName string    `json:"communityName"`
	UserID        uuid.UUID `json:"userId"`
	UserName      string    `json:"userName"`
	RequestDate   time.Time `json:"requestDate"`
}

// CommunityActor owns the community aggregates and enforces the membership
// invariants: the creator is a permanent admin member, no admin may leave,
// and a user sits in at most one of members/pendingMembers.
type CommunityActor struct {
	communities map[uuid.UUID]*models.Community
	db          database.Store
	metrics     *utils.MetricsCollector
}

func NewCommunityActor(db database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &CommunityActor{
		communities: make(map[uuid.UUID]*models.Community),
		db:          db,
		metrics:     metrics,
	}
}

func (a *CommunityActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommunityActor started with PID: %v", context.Self())

	case *CreateCommunityMsg:
		a.handleCreate(context, msg)

	case *GetCommunityMsg:
		a.handleGet(context, msg)

	case *ListClubCommunitiesMsg:
		a.handleList(context, msg)

	case *JoinCommunityMsg:
		a.handleJoin(context, msg)

	case *ApproveMemberMsg:
		a.handleApprove(context, msg)

	case *DenyMemberMsg:
		a.handleDeny(context, msg)

	case *LeaveCommunityMsg:
		a.handleLeave(context, msg)

	case *ListPendingMsg:
		a.handleListPending(context, msg)

	case *AdminNotificationsMsg:
		a.handleAdminNotifications(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.communities))

	default:
		log.Printf("CommunityActor: Unknown message type %T", msg)
	}
}

func (a *CommunityActor) load(ctx stdctx.Context, id uuid.UUID) (*models.Community, error) {
	if community, ok := a.communities[id]; ok {
		return community, nil
	}

	community, err := a.db.GetCommunity(ctx, id)
	if err != nil {
		return nil, err
	}
	a.communities[id] = community
	return community, nil
}

// save persists the aggregate, evicting the cached copy on any failure so a
// half-applied mutation never survives the error.
func (a *CommunityActor) save(ctx stdctx.Context, community *models.Community) error {
	if err := a.db.SaveCommunity(ctx, community); err != nil {
		delete(a.communities, community.ID)
		return err
	}
	a.communities[community.ID] = community
	return nil
}

func (a *CommunityActor) handleCreate(context actor.Context, msg *CreateCommunityMsg) {
	startTime := time.Now()

	if msg.Name == "" || msg.Description == "" || msg.ClubID == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "name, description and clubId are required", nil))
		return
	}

	communityType := msg.Type
	if communityType == "" {
		communityType = models.CommunityPublic
	}
	if communityType != models.CommunityPublic && communityType != models.CommunityPrivate {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "type must be public or private", nil))
		return
	}

	// The creator starts as an admin-role member and an admin entry.
	community := &models.Community{
		ID:          uuid.New(),
		Name:        msg.Name,
		Description: msg.Description,
		Type:        communityType,
		ClubID:      msg.ClubID,
		CreatorID:   msg.Creator.UserID,
		Members: []models.Member{{
			UserID:      msg.Creator.UserID,
			Name:        msg.Creator.Name,
			PhoneNumber: msg.CreatorPhone,
			Role:        models.RoleAdmin,
		}},
		Admins:         []models.UserRef{{UserID: msg.Creator.UserID, Name: msg.Creator.Name}},
		PendingMembers: make([]models.PendingMember, 0),
		CreatedAt:      time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.save(ctx, community); err != nil {
		log.Printf("Error saving community: %v", err)
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_community", time.Since(startTime))
	log.Printf("CommunityActor: Created %s community %s", community.Type, community.ID)
	context.Respond(community)
}

func (a *CommunityActor) handleGet(context actor.Context, msg *GetCommunityMsg) {
	ctx := stdctx.Background()
	community, err := a.load(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(community)
}

func (a *CommunityActor) handleList(context actor.Context, msg *ListClubCommunitiesMsg) {
	ctx := stdctx.Background()
	communities, err := a.db.GetClubCommunities(ctx, msg.ClubID)
	if err != nil {
		log.Printf("Error listing communities for club %s: %v", msg.ClubID, err)
		context.Respond(err)
		return
	}
	for _, community := range communities {
		a.communities[community.ID] = community
	}
	context.Respond(communities)
}

func (a *CommunityActor) handleJoin(context actor.Context, msg *JoinCommunityMsg) {
	startTime := time.Now()

	ctx := stdctx.Background()
	community, err := a.load(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	switch membership.Decide(community, msg.User.UserID) {
	case membership.RejectAlreadyMember:
		context.Respond(utils.NewAppError(utils.ErrAlreadyMember, "already a member", nil))
		return

	case membership.RejectAlreadyPending:
		context.Respond(utils.NewAppError(utils.ErrAlreadyPending, "join request already pending", nil))
		return

	case membership.Queue:
		community.PendingMembers = append(community.PendingMembers, models.PendingMember{
			UserID:      msg.User.UserID,
			Name:        msg.User.Name,
			RequestDate: time.Now(),
		})
		log.Printf("CommunityActor: Queued join request from %s for community %s", msg.User.UserID, community.ID)

	case membership.Admit:
		community.Members = append(community.Members, models.Member{
			UserID:      msg.User.UserID,
			Name:        msg.User.Name,
			PhoneNumber: msg.PhoneNumber,
			Role:        models.RoleMember,
		})
		log.Printf("CommunityActor: User %s joined community %s", msg.User.UserID, community.ID)
	}

	if err := a.save(ctx, community); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("join_community", time.Since(startTime))
	context.Respond(community)
}

func (a *CommunityActor) handleApprove(context actor.Context, msg *ApproveMemberMsg) {
	startTime := time.Now()

	ctx := stdctx.Background()
	community, err := a.load(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	if !community.IsAdmin(msg.AdminID) {
		context.Respond(utils.NewForbiddenError("only admins can approve join requests"))
		return
	}

	idx := -1
	for i, pending := range community.PendingMembers {
		if pending.UserID == msg.TargetUserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		context.Respond(utils.NewAppError(utils.ErrNotFound, "no pending request for that user", nil))
		return
	}

	// Move from pending to members; the request date is not carried over.
	pending := community.PendingMembers[idx]
	community.Members = append(community.Members, models.Member{
		UserID: pending.UserID,
		Name:   pending.Name,
		Role:   models.RoleMember,
	})
	community.PendingMembers = append(community.PendingMembers[:idx], community.PendingMembers[idx+1:]...)

	if err := a.save(ctx, community); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("approve_member", time.Since(startTime))
	log.Printf("CommunityActor: Admin %s approved %s into community %s", msg.AdminID, msg.TargetUserID, community.ID)
	context.Respond(community)
}

func (a *CommunityActor) handleDeny(context actor.Context, msg *DenyMemberMsg) {
	ctx := stdctx.Background()
	community, err := a.load(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	if !community.IsAdmin(msg.AdminID) {
		context.Respond(utils.NewForbiddenError("only admins can deny join requests"))
		return
	}

	idx := -1
	for i, pending := range community.PendingMembers {
		if pending.UserID == msg.TargetUserID {
			idx = i
			break
		}
	}
	if idx < 0 {
		context.Respond(utils.NewAppError(utils.ErrNotFound, "no pending request for that user", nil))
		return
	}

	community.PendingMembers = append(community.PendingMembers[:idx], community.PendingMembers[idx+1:]...)

	if err := a.save(ctx, community); err != nil {
		context.Respond(err)
		return
	}

	log.Printf("CommunityActor: Admin %s denied %s for community %s", msg.AdminID, msg.TargetUserID, community.ID)
	context.Respond(community)
}

func (a *CommunityActor) handleLeave(context actor.Context, msg *LeaveCommunityMsg) {
	startTime := time.Now()

	ctx := stdctx.Background()
	community, err := a.load(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	member := community.FindMember(msg.UserID)
	if member == nil {
		context.Respond(utils.NewAppError(utils.ErrNotFound, "user is not a member", nil))
		return
	}

	// No admin may leave, creator included. This also keeps the community
	// from ever dropping to zero admins.
	if member.Role == models.RoleAdmin {
		context.Respond(utils.NewForbiddenError("admins cannot leave the community"))
		return
	}

	for i := range community.Members {
		if community.Members[i].UserID == msg.UserID {
			community.Members = append(community.Members[:i], community.Members[i+1:]...)
			break
		}
	}

	if err := a.save(ctx, community); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("leave_community", time.Since(startTime))
	log.Printf("CommunityActor: User %s left community %s", msg.UserID, community.ID)
	context.Respond(community)
}

func (a *CommunityActor) handleListPending(context actor.Context, msg *ListPendingMsg) {
	ctx := stdctx.Background()
	community, err := a.load(ctx, msg.CommunityID)
	if err != nil {
		context.Respond(err)
		return
	}

	if !community.IsAdmin(msg.AdminID) {
		context.Respond(utils.NewForbiddenError("only admins can view pending requests"))
		return
	}

	context.Respond(community.PendingMembers)
}

func (a *CommunityActor) handleAdminNotifications(context actor.Context, msg *AdminNotificationsMsg) {
	ctx := stdctx.Background()
	communities, err := a.db.GetCommunitiesAdministeredBy(ctx, msg.AdminID)
	if err != nil {
		log.Printf("Error fetching administered communities for %s: %v", msg.AdminID, err)
		context.Respond(err)
		return
	}

	notices := make([]JoinRequestNotice, 0)
	for _, community := range communities {
		for _, pending := range community.PendingMembers {
			notices = append(notices, JoinRequestNotice{
				CommunityID:   community.ID,
				CommunityName: community.Name,
				UserID:        pending.UserID,
				UserName:      pending.Name,
				RequestDate:   pending.RequestDate,
			})
		}
	}

	context.Respond(notices)
}
