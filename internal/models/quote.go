package models

import (
	"strings"
	"time"
)

// Quote represents a quotation submitted by a user
type Quote struct {
	ID              int        `json:"id"`
	Content         string     `json:"content"`
	Author          *string    `json:"author"`
	Source          *string    `json:"source"`
	Length          int        `json:"length"`
	PopularityCount int        `json:"popularity_count"`
	UserID          int        `json:"user_id"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Trashed reports whether the quote is soft-deleted
func (q *Quote) Trashed() bool {
	return q.DeletedAt != nil
}

// QuoteWithOwner is a quote joined with its owner's public info,
// returned by the admin listings
type QuoteWithOwner struct {
	Quote
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}

// ReactionKind names a user-quote association type
type ReactionKind string

// Reaction kinds
const (
	ReactionLike     ReactionKind = "like"
	ReactionFavorite ReactionKind = "favorite"
)

// WordCount returns the number of whitespace-separated words in content.
// The quote length invariant: Quote.Length always equals WordCount(Content)
// after any write touching Content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}
