package models

import (
	"time"

	"github.com/google/uuid"
)

// CommunityType gates how join requests are handled.
type CommunityType string

const (
	CommunityPublic  CommunityType = "public"
	CommunityPrivate CommunityType = "private"
)

// MemberRole distinguishes admins from ordinary members.
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// Member is an entry in a community's member set, unique by UserID.
type Member struct {
	UserID      uuid.UUID  `json:"userId"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	Role        MemberRole `json:"role"`
}

// PendingMember is a join request awaiting admin approval. Only private
// communities accumulate these.
type PendingMember struct {
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	RequestDate time.Time `json:"requestDate"`
}

// Community is the aggregate root for a sub-community. The creator is always
// a member with role=admin and can never leave. A UserID appears in at most
// one of Members/PendingMembers at a time.
type Community struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Type           CommunityType   `json:"type"`
	ClubID         string          `json:"clubId"`
	CreatorID      uuid.UUID       `json:"creatorId"`
	Members        []Member        `json:"members"`
	Admins         []UserRef       `json:"admins"`
	PendingMembers []PendingMember `json:"pendingMembers"`
	CreatedAt      time.Time       `json:"createdAt"`
	Version        int64           `json:"version"`
}

// FindMember returns the member entry for userID, or nil.
func (c *Community) FindMember(userID uuid.UUID) *Member {
	for i := range c.Members {
		if c.Members[i].UserID == userID {
			return &c.Members[i]
		}
	}
	return nil
}

// IsAdmin reports whether userID is in the admin set.
func (c *Community) IsAdmin(userID uuid.UUID) bool {
	for _, admin := range c.Admins {
		if admin.UserID == userID {
			return true
		}
	}
	return false
}

// IsPending reports whether userID has a queued join request.
func (c *Community) IsPending(userID uuid.UUID) bool {
	for _, pending := range c.PendingMembers {
		if pending.UserID == userID {
			return true
		}
	}
	return false
}
