package models

import (
	"time"

	"github.com/google/uuid"
)

// PostComment is a flat comment on a community post. No nesting here;
// threaded replies exist only on discussions.
type PostComment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommunityPost is a simple child record of a community.
type CommunityPost struct {
	ID          uuid.UUID     `json:"id"`
	CommunityID uuid.UUID     `json:"communityId"`
	Author      UserRef       `json:"author"`
	Content     string        `json:"content"`
	Image       *string       `json:"image,omitempty"`
	Likes       []UserRef     `json:"likes"`
	Comments    []PostComment `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	Version     int64         `json:"version"`
}

// HasLike reports whether userID already liked the post.
func (p *CommunityPost) HasLike(userID uuid.UUID) bool {
	for _, like := range p.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}
