package thread

import (
	"time"

	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
)

// AddTopLevel appends a new comment to the discussion's forest and returns
// the created node. The node starts with empty likes and replies.
func AddTopLevel(discussion *models.Discussion, author models.UserRef, content string) *models.ThreadNode {
	node := newNode(author, content)
	discussion.Comments = append(discussion.Comments, node)
	return &discussion.Comments[len(discussion.Comments)-1]
}

// AddReply appends a new leaf under the node identified by parentID, which
// may sit at any depth in the forest. Fails with THREAD_NODE_NOT_FOUND when
// the parent doesn't resolve; nodes are only ever appended to parents that
// still exist.
func AddReply(discussion *models.Discussion, parentID uuid.UUID, author models.UserRef, content string) (*models.ThreadNode, error) {
	parent := Locate(discussion.Comments, parentID)
	if parent == nil {
		return nil, utils.NewAppError(utils.ErrThreadNodeNotFound, "parent comment not found", nil)
	}

	parent.Replies = append(parent.Replies, newNode(author, content))
	return &parent.Replies[len(parent.Replies)-1], nil
}

// ToggleLike flips user's membership in the like set of the target node, or
// of the discussion root when nodeID is nil. A second call with the same
// input restores the original state; the toggle is intentionally its own
// inverse, not idempotent under repetition.
func ToggleLike(discussion *models.Discussion, nodeID *uuid.UUID, user models.UserRef) error {
	if nodeID == nil {
		discussion.Likes = toggleRef(discussion.Likes, user)
		return nil
	}

	node := Locate(discussion.Comments, *nodeID)
	if node == nil {
		return utils.NewAppError(utils.ErrThreadNodeNotFound, "comment not found", nil)
	}
	node.Likes = toggleRef(node.Likes, user)
	return nil
}

func newNode(author models.UserRef, content string) models.ThreadNode {
	return models.ThreadNode{
		ID:        uuid.New(),
		UserID:    author.UserID,
		Name:      author.Name,
		Content:   content,
		CreatedAt: time.Now(),
		Likes:     make([]models.UserRef, 0),
		Replies:   make([]models.ThreadNode, 0),
	}
}

// toggleRef removes user from the set if present, otherwise adds it.
// Membership is keyed by UserID only.
func toggleRef(likes []models.UserRef, user models.UserRef) []models.UserRef {
	for i, like := range likes {
		if like.UserID == user.UserID {
			return append(likes[:i], likes[i+1:]...)
		}
	}
	return append(likes, user)
}
