// Package thread holds the pure tree operations for discussion threads:
// locating a node in the reply forest and applying append/like mutations.
// Nothing here touches storage; actors own persistence.
package thread

import (
	"club-pulse/internal/models"

	"github.com/google/uuid"
)

// Locate finds the node with targetID anywhere in the forest and returns a
// pointer into the backing slices, or nil if no node matches. IDs are
// globally unique, so the first match is the only match.
//
// The walk uses an explicit stack rather than recursion: a thread's depth is
// unbounded and a pathological chain of replies must not be able to blow the
// goroutine stack.
func Locate(forest []models.ThreadNode, targetID uuid.UUID) *models.ThreadNode {
	stack := make([]*models.ThreadNode, 0, len(forest))
	for i := range forest {
		stack = append(stack, &forest[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.ID == targetID {
			return node
		}
		for i := range node.Replies {
			stack = append(stack, &node.Replies[i])
		}
	}

	return nil
}
