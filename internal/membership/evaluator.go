// Package membership holds the pure decision logic for community join
// requests. The community aggregate applies the decision; this package only
// computes it.
package membership

import (
	"club-pulse/internal/models"

	"github.com/google/uuid"
)

// Decision is the outcome of evaluating a join request.
type Decision int

const (
	// Admit adds the user to the member set immediately.
	Admit Decision = iota
	// Queue appends the user to the pending list for admin approval.
	Queue
	// RejectAlreadyMember declines because the user is already a member.
	RejectAlreadyMember
	// RejectAlreadyPending declines because a request is already queued.
	RejectAlreadyPending
)

// Decide maps a join request onto a Decision. Public communities are an open
// door; private communities queue everyone except the creator, who bypasses
// the gate. Duplicate membership and duplicate pending requests are rejected
// as distinct outcomes so callers can render them differently.
func Decide(community *models.Community, userID uuid.UUID) Decision {
	if community.FindMember(userID) != nil {
		return RejectAlreadyMember
	}

	if community.Type == models.CommunityPublic || userID == community.CreatorID {
		return Admit
	}

	if community.IsPending(userID) {
		return RejectAlreadyPending
	}
	return Queue
}
