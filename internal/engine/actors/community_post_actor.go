package actors

import (
	stdctx "context"
	"log"
	"time"

	"club-pulse/internal/database"
	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for community post operations
type (
	CreateCommunityPostMsg struct {
		CommunityID uuid.UUID      `json:"communityId"`
		Author      models.UserRef `json:"author"`
		Content     string         `json:"content"`
		Image       *string        `json:"image,omitempty"`
	}

	GetCommunityPostMsg struct {
		PostID uuid.UUID `json:"postId"`
	}

	ListCommunityPostsMsg struct {
		CommunityID uuid.UUID `json:"communityId"`
	}

	TogglePostLikeMsg struct {
		PostID uuid.UUID      `json:"postId"`
		User   models.UserRef `json:"user"`
	}

	AddPostCommentMsg struct {
		PostID  uuid.UUID      `json:"postId"`
		Author  models.UserRef `json:"author"`
		Content string         `json:"content"`
	}

	DeleteCommunityPostMsg struct {
		PostID      uuid.UUID `json:"postId"`
		RequesterID uuid.UUID `json:"requesterId"`
	}
)

// CommunityPostActor owns the community post aggregates. Posts carry a flat
// comment list, unlike discussions which thread.
type CommunityPostActor struct {
	posts   map[uuid.UUID]*models.CommunityPost
	db      database.Store
	metrics *utils.MetricsCollector
}

func NewCommunityPostActor(db database.Store, metrics *utils.MetricsCollector) actor.Actor {
	return &CommunityPostActor{
		posts:   make(map[uuid.UUID]*models.CommunityPost),
		db:      db,
		metrics: metrics,
	}
}

func (a *CommunityPostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommunityPostActor started with PID: %v", context.Self())

	case *CreateCommunityPostMsg:
		a.handleCreate(context, msg)

	case *GetCommunityPostMsg:
		a.handleGet(context, msg)

	case *ListCommunityPostsMsg:
		a.handleList(context, msg)

	case *TogglePostLikeMsg:
		a.handleToggleLike(context, msg)

	case *AddPostCommentMsg:
		a.handleAddComment(context, msg)

	case *DeleteCommunityPostMsg:
		a.handleDelete(context, msg)

	case *GetCountsMsg:
		context.Respond(len(a.posts))

	default:
		log.Printf("CommunityPostActor: Unknown message type %T", msg)
	}
}

func (a *CommunityPostActor) load(ctx stdctx.Context, id uuid.UUID) (*models.CommunityPost, error) {
	if post, ok := a.posts[id]; ok {
		return post, nil
	}

	post, err := a.db.GetCommunityPost(ctx, id)
	if err != nil {
		return nil, err
	}
	a.posts[id] = post
	return post, nil
}

// save persists the aggregate, evicting the cached copy on any failure so a
// half-applied mutation never survives the error.
func (a *CommunityPostActor) save(ctx stdctx.Context, post *models.CommunityPost) error {
	if err := a.db.SaveCommunityPost(ctx, post); err != nil {
		delete(a.posts, post.ID)
		return err
	}
	a.posts[post.ID] = post
	return nil
}

func (a *CommunityPostActor) handleCreate(context actor.Context, msg *CreateCommunityPostMsg) {
	startTime := time.Now()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "content is required", nil))
		return
	}

	post := &models.CommunityPost{
		ID:          uuid.New(),
		CommunityID: msg.CommunityID,
		Author:      msg.Author,
		Content:     msg.Content,
		Image:       msg.Image,
		Likes:       make([]models.UserRef, 0),
		Comments:    make([]models.PostComment, 0),
		CreatedAt:   time.Now(),
	}

	ctx := stdctx.Background()
	if err := a.save(ctx, post); err != nil {
		log.Printf("Error saving community post: %v", err)
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_community_post", time.Since(startTime))
	log.Printf("CommunityPostActor: Created post %s in community %s", post.ID, msg.CommunityID)
	context.Respond(post)
}

func (a *CommunityPostActor) handleGet(context actor.Context, msg *GetCommunityPostMsg) {
	ctx := stdctx.Background()
	post, err := a.load(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(post)
}

func (a *CommunityPostActor) handleList(context actor.Context, msg *ListCommunityPostsMsg) {
	ctx := stdctx.Background()
	posts, err := a.db.GetCommunityPosts(ctx, msg.CommunityID)
	if err != nil {
		log.Printf("Error listing posts for community %s: %v", msg.CommunityID, err)
		context.Respond(err)
		return
	}
	for _, post := range posts {
		a.posts[post.ID] = post
	}
	context.Respond(posts)
}

func (a *CommunityPostActor) handleToggleLike(context actor.Context, msg *TogglePostLikeMsg) {
	startTime := time.Now()

	ctx := stdctx.Background()
	post, err := a.load(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	if post.HasLike(msg.User.UserID) {
		for i := range post.Likes {
			if post.Likes[i].UserID == msg.User.UserID {
				post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
				break
			}
		}
	} else {
		post.Likes = append(post.Likes, msg.User)
	}

	if err := a.save(ctx, post); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("toggle_post_like", time.Since(startTime))
	context.Respond(post)
}

func (a *CommunityPostActor) handleAddComment(context actor.Context, msg *AddPostCommentMsg) {
	startTime := time.Now()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "content is required", nil))
		return
	}

	ctx := stdctx.Background()
	post, err := a.load(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	post.Comments = append(post.Comments, models.PostComment{
		ID:        uuid.New(),
		UserID:    msg.Author.UserID,
		Name:      msg.Author.Name,
		Content:   msg.Content,
		CreatedAt: time.Now(),
	})

	if err := a.save(ctx, post); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("add_post_comment", time.Since(startTime))
	context.Respond(post)
}

func (a *CommunityPostActor) handleDelete(context actor.Context, msg *DeleteCommunityPostMsg) {
	ctx := stdctx.Background()
	post, err := a.load(ctx, msg.PostID)
	if err != nil {
		context.Respond(err)
		return
	}

	if post.Author.UserID != msg.RequesterID {
		context.Respond(utils.NewForbiddenError("only the author can delete this post"))
		return
	}

	if err := a.db.DeleteCommunityPost(ctx, msg.PostID); err != nil {
		log.Printf("Error deleting post %s: %v", msg.PostID, err)
		context.Respond(err)
		return
	}

	delete(a.posts, msg.PostID)
	context.Respond(&models.StatusResponse{Success: true, Message: "Post deleted successfully"})
}
