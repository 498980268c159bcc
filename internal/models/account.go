package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the public view of a host-side account. The credential hash
// never leaves the account actor.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
