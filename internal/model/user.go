package model

import "time"

// User represents a registered account.
//
// Email is the login identifier and is unique case-insensitively - the
// repository stores it lowercased so "Alice@Example.com" and
// "alice@example.com" are the same account.
//
// WHY PasswordHash AND NOT Password?
// The plaintext password never leaves the auth service: it arrives in the
// register/login request, gets bcrypt-hashed (or compared), and is discarded.
// The struct tag `json:"-"` ensures the hash can never leak into an API
// response even if a handler serializes the whole struct by accident.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"createdOn"`
}

// SavedItem is the server-side persisted form of a bookmark: one row per
// (user, kind, id) tuple. Bookmarks are binary membership facts - rows are
// created on save and deleted on unsave, never updated.
//
// No ordering column is persisted. Display order ("most recently saved
// first") is a client-side presentation concern; server enumeration order is
// deliberately unspecified.
type SavedItem struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	ItemKind Kind   `json:"itemKind"`
	ItemID   string `json:"itemId"`
}

// Ref returns the content reference this row bookmarks.
func (s SavedItem) Ref() ContentRef {
	return ContentRef{Kind: s.ItemKind, ID: s.ItemID}
}
