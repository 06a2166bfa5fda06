package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record the engine trusts. The core never
// authenticates; it only carries the identity handed to it by handlers.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	PhoneNumber    string    `json:"phoneNumber"`
	HashedPassword string    `json:"-"`
	SelectedClub   string    `json:"selectedClub"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActive     time.Time `json:"lastActive"`
}
