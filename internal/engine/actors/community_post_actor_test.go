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

func spawnCommunityPostActor(t *testing.T) (*actor.ActorSystem, *actor.PID) {
	t.Helper()
	system := actor.NewActorSystem()
	store := newMemStore()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommunityPostActor(store, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)
	return system, pid
}

func TestCommunityPostLifecycle(t *testing.T) {
	system, pid := spawnCommunityPostActor(t)

	communityID := uuid.New()
	author := models.UserRef{UserID: uuid.New(), Name: "alice"}

	result := ask(t, system, pid, &CreateCommunityPostMsg{
		CommunityID: communityID,
		Author:      author,
		Content:     "Who's going to the away game?",
	})
	post, ok := result.(*models.CommunityPost)
	require.True(t, ok, "expected post, got %T: %v", result, result)
	assert.Equal(t, communityID, post.CommunityID)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)

	// Toggle like on, then off
	bob := models.UserRef{UserID: uuid.New(), Name: "bob"}
	result = ask(t, system, pid, &TogglePostLikeMsg{PostID: post.ID, User: bob})
	updated := result.(*models.CommunityPost)
	assert.Len(t, updated.Likes, 1)

	result = ask(t, system, pid, &TogglePostLikeMsg{PostID: post.ID, User: bob})
	updated = result.(*models.CommunityPost)
	assert.Empty(t, updated.Likes)

	// Flat comment
	result = ask(t, system, pid, &AddPostCommentMsg{
		PostID:  post.ID,
		Author:  bob,
		Content: "count me in",
	})
	updated = result.(*models.CommunityPost)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "count me in", updated.Comments[0].Content)
	assert.Equal(t, bob.UserID, updated.Comments[0].UserID)

	// List posts of the community
	result = ask(t, system, pid, &ListCommunityPostsMsg{CommunityID: communityID})
	posts := result.([]*models.CommunityPost)
	assert.Len(t, posts, 1)

	// Only the author can delete
	result = ask(t, system, pid, &DeleteCommunityPostMsg{PostID: post.ID, RequesterID: bob.UserID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = ask(t, system, pid, &DeleteCommunityPostMsg{PostID: post.ID, RequesterID: author.UserID})
	status := result.(*models.StatusResponse)
	assert.True(t, status.Success)

	result = ask(t, system, pid, &GetCommunityPostMsg{PostID: post.ID})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrNotFound, appErr.Code)
}

func TestCommunityPostContentRequired(t *testing.T) {
	system, pid := spawnCommunityPostActor(t)

	result := ask(t, system, pid, &CreateCommunityPostMsg{
		CommunityID: uuid.New(),
		Author:      models.UserRef{UserID: uuid.New(), Name: "alice"},
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
}

func TestPostFailedSaveDiscardsMutation(t *testing.T) {
	system := actor.NewActorSystem()
	store := newFailingStore()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewCommunityPostActor(store, utils.NewMetricsCollector())
	})
	pid := system.Root.Spawn(props)

	author := models.UserRef{UserID: uuid.New(), Name: "alice"}
	result := ask(t, system, pid, &CreateCommunityPostMsg{
		CommunityID: uuid.New(),
		Author:      author,
		Content:     "season opener",
	})
	post, ok := result.(*models.CommunityPost)
	require.True(t, ok, "expected post, got %T: %v", result, result)

	// The store refuses the next write, so the toggle fails
	bob := models.UserRef{UserID: uuid.New(), Name: "bob"}
	store.failNextPostSave()
	result = ask(t, system, pid, &TogglePostLikeMsg{PostID: post.ID, User: bob})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok, "expected error, got %T: %v", result, result)
	assert.Equal(t, utils.ErrDatabase, appErr.Code)

	// The failed like must not show on a later read
	result = ask(t, system, pid, &GetCommunityPostMsg{PostID: post.ID})
	assert.Empty(t, result.(*models.CommunityPost).Likes)
}
