package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRef identifies a user on a like or an authorship record.
type UserRef struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
}

// ThreadNode is a comment or a reply. Replies nest under another node
// instead of directly under a discussion; the shape is otherwise identical,
// so one recursive type covers both. Depth is unbounded.
type ThreadNode struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	Name      string       `json:"name"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Likes     []UserRef    `json:"likes"` // set semantics, keyed by UserID
	Replies   []ThreadNode `json:"replies"`
}

// Discussion is the aggregate root for a club discussion thread. Version
// increments on every save; the repository refuses a write whose version
// doesn't match the stored document.
type Discussion struct {
	ID        uuid.UUID    `json:"id"`
	ClubID    string       `json:"clubId"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Image     *string      `json:"image,omitempty"`
	Author    UserRef      `json:"author"`
	Likes     []UserRef    `json:"likes"`
	Comments  []ThreadNode `json:"comments"` // insertion order = display order
	CreatedAt time.Time    `json:"createdAt"`
	Version   int64        `json:"version"`
}

// HasLike reports whether userID is present in the node's like set.
func (n *ThreadNode) HasLike(userID uuid.UUID) bool {
	for _, like := range n.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}

// HasLike reports whether userID is present in the discussion root's like set.
func (d *Discussion) HasLike(userID uuid.UUID) bool {
	for _, like := range d.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}
