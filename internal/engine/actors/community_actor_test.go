package actors

import (
	"testing"

	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnCommunityActor(t *testing.T) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	store := newMemStore()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommunityActor(store, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func createCommunity(t *testing.T, system *actor.ActorSystem, pid *actor.PID, communityType models.CommunityType, creator models.UserRef) *models.Community {
	t.Helper()
	result := ask(t, system, pid, &CreateCommunityMsg{
		Name:        "gator fans",
		Description: "for the faithful",
		Type:        communityType,
		ClubID:      "gators",
		Creator:     creator,
	})
	community, ok := result.(*models.Community)
	require.True(t, ok, "expected community, got %T: %v", result, result)
	return community
}

func TestCreateCommunityCreatorIsAdminMember(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}

	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	require.Len(t, community.Members, 1)
	assert.Equal(t, creator.UserID, community.Members[0].UserID)
	assert.Equal(t, models.RoleAdmin, community.Members[0].Role)
	assert.True(t, community.IsAdmin(creator.UserID))
	assert.Empty(t, community.PendingMembers)
	assert.Equal(t, creator.UserID, community.CreatorID)
}

func TestJoinPublicCommunityAdmitsDirectly(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPublic, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	result := ask(t, system, pid, &JoinCommunityMsg{
		CommunityID: community.ID,
		User:        fan,
	})
	updated := result.(*models.Community)

	member := updated.FindMember(fan.UserID)
	require.NotNil(t, member)
	assert.Equal(t, models.RoleMember, member.Role)
	assert.Empty(t, updated.PendingMembers)
}

func TestJoinPrivateCommunityQueuesRequest(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	result := ask(t, system, pid, &JoinCommunityMsg{
		CommunityID: community.ID,
		User:        fan,
	})
	updated := result.(*models.Community)

	assert.Nil(t, updated.FindMember(fan.UserID))
	require.Len(t, updated.PendingMembers, 1)
	assert.Equal(t, fan.UserID, updated.PendingMembers[0].UserID)
	assert.False(t, updated.PendingMembers[0].RequestDate.IsZero())
}

func TestJoinDuplicatesRejected(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	// The creator is already a member
	result := ask(t, system, pid, &JoinCommunityMsg{
		CommunityID: community.ID,
		User:        creator,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrAlreadyMember, appErr.Code)

	// A queued fan cannot queue twice
	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})
	result = ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrAlreadyPending, appErr.Code)
}

func TestApproveMovesPendingToMember(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})

	result := ask(t, system, pid, &ApproveMemberMsg{
		CommunityID:  community.ID,
		AdminID:      creator.UserID,
		TargetUserID: fan.UserID,
	})
	updated := result.(*models.Community)

	member := updated.FindMember(fan.UserID)
	require.NotNil(t, member)
	assert.Equal(t, models.RoleMember, member.Role)
	assert.Equal(t, "dave", member.Name)
	assert.Empty(t, updated.PendingMembers)
}

func TestApproveRequiresAdmin(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})

	result := ask(t, system, pid, &ApproveMemberMsg{
		CommunityID:  community.ID,
		AdminID:      uuid.New(),
		TargetUserID: fan.UserID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
}

func TestApproveWithoutPendingRequest(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	result := ask(t, system, pid, &ApproveMemberMsg{
		CommunityID:  community.ID,
		AdminID:      creator.UserID,
		TargetUserID: uuid.New(),
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestDenyDiscardsPendingRequest(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})

	result := ask(t, system, pid, &DenyMemberMsg{
		CommunityID:  community.ID,
		AdminID:      creator.UserID,
		TargetUserID: fan.UserID,
	})
	updated := result.(*models.Community)

	assert.Nil(t, updated.FindMember(fan.UserID))
	assert.Empty(t, updated.PendingMembers)

	// A denied fan may ask again
	result = ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})
	updated = result.(*models.Community)
	assert.Len(t, updated.PendingMembers, 1)
}

func TestLeaveCommunity(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPublic, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})

	result := ask(t, system, pid, &LeaveCommunityMsg{
		CommunityID: community.ID,
		UserID:      fan.UserID,
	})
	updated := result.(*models.Community)
	assert.Nil(t, updated.FindMember(fan.UserID))

	// Leaving when not a member
	result = ask(t, system, pid, &LeaveCommunityMsg{
		CommunityID: community.ID,
		UserID:      fan.UserID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestLeaveCommunityAdminForbidden(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPublic, creator)

	result := ask(t, system, pid, &LeaveCommunityMsg{
		CommunityID: community.ID,
		UserID:      creator.UserID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Still a member afterwards
	result = ask(t, system, pid, &GetCommunityMsg{CommunityID: community.ID})
	updated := result.(*models.Community)
	assert.NotNil(t, updated.FindMember(creator.UserID))
}

func TestListPendingRequiresAdmin(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})

	result := ask(t, system, pid, &ListPendingMsg{
		CommunityID: community.ID,
		AdminID:     creator.UserID,
	})
	pending := result.([]models.PendingMember)
	require.Len(t, pending, 1)
	assert.Equal(t, fan.UserID, pending[0].UserID)

	result = ask(t, system, pid, &ListPendingMsg{
		CommunityID: community.ID,
		AdminID:     fan.UserID,
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
}

func TestAdminNotificationsAcrossCommunities(t *testing.T) {
	system, pid := spawnCommunityActor(t)
	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}

	first := createCommunity(t, system, pid, models.CommunityPrivate, creator)
	second := createCommunity(t, system, pid, models.CommunityPrivate, creator)

	dave := models.UserRef{UserID: uuid.New(), Name: "dave"}
	erin := models.UserRef{UserID: uuid.New(), Name: "erin"}
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: first.ID, User: dave})
	ask(t, system, pid, &JoinCommunityMsg{CommunityID: second.ID, User: erin})

	result := ask(t, system, pid, &AdminNotificationsMsg{AdminID: creator.UserID})
	notices := result.([]JoinRequestNotice)
	require.Len(t, notices, 2)

	byUser := make(map[uuid.UUID]JoinRequestNotice)
	for _, n := range notices {
		byUser[n.UserID] = n
	}
	assert.Equal(t, first.ID, byUser[dave.UserID].CommunityID)
	assert.Equal(t, second.ID, byUser[erin.UserID].CommunityID)

	// A non-admin has an empty inbox
	result = ask(t, system, pid, &AdminNotificationsMsg{AdminID: dave.UserID})
	assert.Empty(t, result.([]JoinRequestNotice))
}

func TestJoinFailedSaveDiscardsMutation(t *testing.T) {
	system := actor.NewActorSystem()
	store := newFailingStore()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommunityActor(store, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	creator := models.UserRef{UserID: uuid.New(), Name: "carol"}
	community := createCommunity(t, system, pid, models.CommunityPublic, creator)

	// The store refuses the next write, so the join fails
	fan := models.UserRef{UserID: uuid.New(), Name: "dave"}
	store.failNextCommunitySave()
	result := ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T: %v", result, result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)

	// The failed join must not show on a later read
	result = ask(t, system, pid, &GetCommunityMsg{CommunityID: community.ID})
	assert.Nil(t, result.(*models.Community).FindMember(fan.UserID))

	// A retry must succeed rather than trip over a phantom membership
	result = ask(t, system, pid, &JoinCommunityMsg{CommunityID: community.ID, User: fan})
	joined, ok := result.(*models.Community)
	require.True(t, ok, "expected community, got %T: %v", result, result)
	require.NotNil(t, joined.FindMember(fan.UserID))
	assert.Len(t, joined.Members, 2)
}
