package models

import "github.com/google/uuid"

// EventType identifies a ledger event emitted on a committed call.
type EventType string

const (
	EventPostCreated     EventType = "post_created"
	EventReactionSet     EventType = "reaction_set"
	EventReactionRemoved EventType = "reaction_removed"
)

// Event is emitted by the contract when a mutating call commits. Events for
// a failed call are never surfaced.
type Event struct {
	Type    EventType    `json:"type"`
	Account uuid.UUID    `json:"account"`
	PostID  PostID       `json:"postId"`
	Kind    ReactionKind `json:"kind,omitempty"` // set for reaction events
}
