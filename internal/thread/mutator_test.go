package thread

import (
	"testing"

	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newDiscussion() *models.Discussion {
	return &models.Discussion{
		ID:       uuid.New(),
		ClubID:   "gators",
		Title:    "Match thread",
		Content:  "Discuss here",
		Author:   models.UserRef{UserID: uuid.New(), Name: "author"},
		Likes:    make([]models.UserRef, 0),
		Comments: make([]models.ThreadNode, 0),
	}
}

func TestAddTopLevel(t *testing.T) {
	discussion := newDiscussion()
	author := models.UserRef{UserID: uuid.New(), Name: "alice"}

	node := AddTopLevel(discussion, author, "first!")

	assert.Len(t, discussion.Comments, 1)
	assert.Equal(t, "first!", node.Content)
	assert.Equal(t, author.UserID, node.UserID)
	assert.Equal(t, "alice", node.Name)
	assert.Empty(t, node.Likes)
	assert.Empty(t, node.Replies)
	assert.NotEqual(t, uuid.Nil, node.ID)
}

func TestAddReplyAtDepth(t *testing.T) {
	discussion := newDiscussion()
	author := models.UserRef{UserID: uuid.New(), Name: "alice"}

	top := AddTopLevel(discussion, author, "top")
	mid, err := AddReply(discussion, top.ID, author, "mid")
	assert.NoError(t, err)
	deep, err := AddReply(discussion, mid.ID, author, "deep")
	assert.NoError(t, err)

	// Reply to the deepest node, three levels down
	_, err = AddReply(discussion, deep.ID, author, "deeper still")
	assert.NoError(t, err)

	found := Locate(discussion.Comments, deep.ID)
	assert.NotNil(t, found)
	assert.Len(t, found.Replies, 1)
	assert.Equal(t, "deeper still", found.Replies[0].Content)

	// The rest of the forest is untouched
	assert.Len(t, discussion.Comments, 1)
	assert.Equal(t, "top", discussion.Comments[0].Content)
}

func TestAddReplyUnknownParent(t *testing.T) {
	discussion := newDiscussion()
	author := models.UserRef{UserID: uuid.New(), Name: "alice"}
	AddTopLevel(discussion, author, "top")

	_, err := AddReply(discussion, uuid.New(), author, "orphan")
	assert.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrThreadNodeNotFound))
	assert.Len(t, discussion.Comments, 1)
	assert.Empty(t, discussion.Comments[0].Replies)
}

func TestToggleLikeOnDiscussionRoot(t *testing.T) {
	discussion := newDiscussion()
	user := models.UserRef{UserID: uuid.New(), Name: "bob"}

	assert.NoError(t, ToggleLike(discussion, nil, user))
	assert.Len(t, discussion.Likes, 1)
	assert.Equal(t, user.UserID, discussion.Likes[0].UserID)

	// Toggling again removes the like
	assert.NoError(t, ToggleLike(discussion, nil, user))
	assert.Empty(t, discussion.Likes)
}

func TestToggleLikeOnNestedComment(t *testing.T) {
	discussion := newDiscussion()
	author := models.UserRef{UserID: uuid.New(), Name: "alice"}
	user := models.UserRef{UserID: uuid.New(), Name: "bob"}

	top := AddTopLevel(discussion, author, "top")
	reply, err := AddReply(discussion, top.ID, author, "reply")
	assert.NoError(t, err)
	replyID := reply.ID

	assert.NoError(t, ToggleLike(discussion, &replyID, user))
	found := Locate(discussion.Comments, replyID)
	assert.Len(t, found.Likes, 1)

	assert.NoError(t, ToggleLike(discussion, &replyID, user))
	found = Locate(discussion.Comments, replyID)
	assert.Empty(t, found.Likes)
}

func TestToggleLikeTwoUsersIndependent(t *testing.T) {
	discussion := newDiscussion()
	alice := models.UserRef{UserID: uuid.New(), Name: "alice"}
	bob := models.UserRef{UserID: uuid.New(), Name: "bob"}

	assert.NoError(t, ToggleLike(discussion, nil, alice))
	assert.NoError(t, ToggleLike(discussion, nil, bob))
	assert.Len(t, discussion.Likes, 2)

	// Removing alice's like leaves bob's intact
	assert.NoError(t, ToggleLike(discussion, nil, alice))
	assert.Len(t, discussion.Likes, 1)
	assert.Equal(t, bob.UserID, discussion.Likes[0].UserID)
}

func TestToggleLikeUnknownNode(t *testing.T) {
	discussion := newDiscussion()
	user := models.UserRef{UserID: uuid.New(), Name: "bob"}
	missing := uuid.New()

	err := ToggleLike(discussion, &missing, user)
	assert.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrThreadNodeNotFound))
}
