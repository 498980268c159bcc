package models

import "github.com/google/uuid"

// ReactionKind is the sentiment an account attaches to a post.
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ValidReactionKind reports whether k is one of the two supported kinds.
func ValidReactionKind(k ReactionKind) bool {
	return k == ReactionLike || k == ReactionDislike
}

// Reaction is the single sentiment record an account holds for a post.
// (PostID, Account) is the unique key.
type Reaction struct {
	PostID  PostID       `json:"postId"`
	Account uuid.UUID    `json:"account"`
	Kind    ReactionKind `json:"kind"`
}

// ReactionOutcome reports what a react call did.
type ReactionOutcome string

const (
	// ReactionCreated: the account had no reaction on the post before.
	ReactionCreated ReactionOutcome = "created"
	// ReactionChanged: the account's existing reaction switched kind.
	ReactionChanged ReactionOutcome = "changed"
	// ReactionUnchanged: same kind re-submitted, nothing happened.
	ReactionUnchanged ReactionOutcome = "unchanged"
)
