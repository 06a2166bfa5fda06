package actors

import (
	stdctx "context"
	"log"
	"time"

	"club-pulse/internal/database"
	"club-pulse/internal/models"
	"club-pulse/internal/thread"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for DiscussionActor
type (
	CreateDiscussionMsg struct {
		ClubID  string         `json:"clubId"`
		Title   string         `json:"title"`
		Content string         `json:"content"`
		Image   *string        `json:"image,omitempty"`
		Author  models.UserRef `json:"author"`
	}

	GetDiscussionMsg struct {
		DiscussionID uuid.UUID `json:"discussionId"`
	}

	ListClubDiscussionsMsg struct {
		ClubID string `json:"clubId"`
	}

	EditDiscussionMsg struct {
		DiscussionID uuid.UUID `json:"discussionId"`
		RequesterID  uuid.UUID `json:"requesterId"`
		Title        string    `json:"title"`
		Content      string    `json:"content"`
	}

	DeleteDiscussionMsg struct {
		DiscussionID uuid.UUID `json:"discussionId"`
		RequesterID  uuid.UUID `json:"requesterId"`
	}

	// AddCommentMsg appends a top-level comment when ParentID is nil, or a
	// nested reply under ParentID at any depth otherwise.
	AddCommentMsg struct {
		DiscussionID uuid.UUID      `json:"discussionId"`
		Author       models.UserRef `json:"author"`
		Content      string         `json:"content"`
		ParentID     *uuid.UUID     `json:"parentId,omitempty"`
	}

	// ToggleLikeMsg flips the caller's like on a comment/reply, or on the
	// discussion root when NodeID is nil.
	ToggleLikeMsg struct {
		DiscussionID uuid.UUID      `json:"discussionId"`
		NodeID       *uuid.UUID     `json:"nodeId,omitempty"`
		User         models.UserRef `json:"user"`
	}
)

// DiscussionActor owns the discussion aggregates. Every mutation passes
// through its mailbox, so a read-modify-write span is never interleaved with
// another writer.
type DiscussionActor struct {
	discussions map[uuid.UUID]*models.Discussion
	db          database.Store
	metrics     *utils.MetricsCollector
}

func NewDiscussionActor(db database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &DiscussionActor{
		discussions: make(map[uuid.UUID]*models.Discussion),
		db:          db,
		metrics:     metrics,
	}
}

func (a *DiscussionActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("DiscussionActor started with PID: %v", context.Self())

	case *CreateDiscussionMsg:
		a.handleCreate(context, msg)

	case *GetDiscussionMsg:
		a.handleGet(context, msg)

	case *ListClubDiscussionsMsg:
		a.handleList(context, msg)

	case *EditDiscussionMsg:
		a.handleEdit(context, msg)

	case *DeleteDiscussionMsg:
		a.handleDelete(context, msg)

	case *AddCommentMsg:
		a.handleAddComment(context, msg)

	case *ToggleLikeMsg:
		a.handleToggleLike(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.discussions))

	default:
		log.Printf("DiscussionActor: Unknown message type %T", msg)
	}
}

// load returns the cached aggregate or fetches it from the store.
func (a *DiscussionActor) load(ctx stdctx.Context, id uuid.UUID) (*models.Discussion, error) {
	if discussion, ok := a.discussions[id]; ok {
		return discussion, nil
	}

	discussion, err := a.db.GetDiscussion(ctx, id)
	if err != nil {
		return nil, err
	}
	a.discussions[id] = discussion
	return discussion, nil
}

// save persists the aggregate. Handlers mutate the cached copy in place, so
// any failed save leaves it holding an unpersisted change; the entry is
// evicted on every error and the next load re-reads the stored document.
func (a *DiscussionActor) save(ctx stdctx.Context, discussion *models.Discussion) error {
	if err := a.db.SaveDiscussion(ctx, discussion); err != nil {
		delete(a.discussions, discussion.ID)
		return err
	}
	a.discussions[discussion.ID] = discussion
	return nil
}

func (a *DiscussionActor) handleCreate(context actor.Context, msg *CreateDiscussionMsg) {
	startTime := time.Now()

	if msg.ClubID == "" || msg.Title == "" || msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "clubId, title and content are required", nil))
		return
	}

	discussion := &models.Discussion{
		ID:        uuid.New(),
		ClubID:    msg.ClubID,
		Title:     msg.Title,
		Content:   msg.Content,
		Image:     msg.Image,
		Author:    msg.Author,
		Likes:     make([]models.UserRef, 0),
		Comments:  make([]models.ThreadNode, 0),
		CreatedAt: time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.save(ctx, discussion); err != nil {
		log.Printf("Error saving discussion: %v", err)
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_discussion", time.Since(startTime))
	log.Printf("DiscussionActor: Created discussion %s in club %s", discussion.ID, msg.ClubID)
	context.Respond(discussion)
}

func (a *DiscussionActor) handleGet(context actor.Context, msg *GetDiscussionMsg) {
	ctx := stdctx.Background()
	discussion, err := a.load(ctx, msg.DiscussionID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(discussion)
}

func (a *DiscussionActor) handleList(context actor.Context, msg *ListClubDiscussionsMsg) {
	ctx := stdctx.Background()
	discussions, err := a.db.GetClubDiscussions(ctx, msg.ClubID)
	if err != nil {
		log.Printf("Error listing discussions for club %s: %v", msg.ClubID, err)
		context.Respond(err)
		return
	}
	// Refresh the cache with what the store returned
	for _, discussion := range discussions {
		a.discussions[discussion.ID] = discussion
	}
	context.Respond(discussions)
}

func (a *DiscussionActor) handleEdit(context actor.Context, msg *EditDiscussionMsg) {
	if msg.Title == "" || msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and content are required", nil))
		return
	}

	ctx := stdctx.Background()
	discussion, err := a.load(ctx, msg.DiscussionID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Only the author may edit; likes, comments and image stay untouched.
	if discussion.Author.UserID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the author can edit this discussion"))
		return
	}

	discussion.Title = msg.Title
	discussion.Content = msg.Content

	if err := a.save(ctx, discussion); err != nil {
		context.Respond(err)
		return
	}
	context.Respond(discussion)
}

func (a *DiscussionActor) handleDelete(context actor.Context, msg *DeleteDiscussionMsg) {
	ctx := stdctx.Background()
	discussion, err := a.load(ctx, msg.DiscussionID)
	if err != nil {
		context.Respond(err)
		return
	}

	if discussion.Author.UserID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the author can delete this discussion"))
		return
	}

	if err := a.db.DeleteDiscussion(ctx, msg.DiscussionID); err != nil {
		log.Printf("Error deleting discussion %s: %v", msg.DiscussionID, err)
		context.Respond(err)
		return
	}

	delete(a.discussions, msg.DiscussionID)
	log.Printf("DiscussionActor: Deleted discussion %s", msg.DiscussionID)
	context.Respond(&models.StatusResponse{Success: true, Message: "Discussion deleted successfully"})
}

func (a *DiscussionActor) handleAddComment(context actor.Context, msg *AddCommentMsg) {
	startTime := time.Now()

	ctx := stdctx.Background()
	discussion, err := a.load(ctx, msg.DiscussionID)
	if err != nil {
		context.Respond(err)
		return
	}

	if msg.ParentID == nil {
		thread.AddTopLevel(discussion, msg.Author, msg.Content)
	} else {
		if _, err := thread.AddReply(discussion, *msg.ParentID, msg.Author, msg.Content); err != nil {
			context.Respond(err)
			return
		}
	}

	if err := a.save(ctx, discussion); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("add_comment", time.Since(startTime))
	context.Respond(discussion)
}

func (a *DiscussionActor) handleToggleLike(context actor.Context, msg *ToggleLikeMsg) {
	startTime := time.Now()

	ctx := stdctx.Background()
	discussion, err := a.load(ctx, msg.DiscussionID)
	if err != nil {
		context.Respond(err)
		return
	}

	if err := thread.ToggleLike(discussion, msg.NodeID, msg.User); err != nil {
		context.Respond(err)
		return
	}

	if err := a.save(ctx, discussion); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("toggle_like", time.Since(startTime))
	context.Respond(discussion)
}
