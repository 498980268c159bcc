package models

import (
	"github.com/google/uuid"
)

// PostID is assigned by the ledger, strictly increasing from 1.
type PostID uint64

// PostKind distinguishes top-level posts from comments attached to a parent.
type PostKind string

const (
	PostRegular PostKind = "regular"
	PostComment PostKind = "comment"
)

// CreationInfo records the host-supplied environment at creation time.
// Block and Time come from the host's logical clock, never the wall clock.
type CreationInfo struct {
	Account uuid.UUID `json:"account"`
	Block   uint64    `json:"block"`
	Time    uint64    `json:"time"`
}

type Post struct {
	ID           PostID       `json:"id"`
	Author       uuid.UUID    `json:"author"`
	Created      CreationInfo `json:"created"`
	Kind         PostKind     `json:"kind"`
	ParentID     *PostID      `json:"parentId,omitempty"` // set only for comments
	Content      string       `json:"content"`
	CommentIDs   []PostID     `json:"commentIds,omitempty"`
	LikeCount    uint64       `json:"likeCount"`
	DislikeCount uint64       `json:"dislikeCount"`
}
