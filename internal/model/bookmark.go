package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("bookmark not found")
	// ErrInvalidSelector reports a selector that can't address anything.
	// It wraps ErrNotFound so both are reported the same way.
	ErrInvalidSelector = fmt.Errorf("%w: invalid selector", ErrNotFound)
)

// Bookmark represents a recorded directory.
type Bookmark struct {
	No      int    `json:"No"`
	Name    string `json:"Name"`
	Path    string `json:"Path"`
	ID      string `json:"Id,omitempty"`
	IsQuick bool   `json:"IsQuick,omitempty"`
	Last    bool   `json:"Last,omitempty"` // most recently selected
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Name string
	Path string
}

// NewBookmark creates an unnumbered Bookmark with a generated UUID.
// The sequence number is assigned when it is appended to a collection.
func NewBookmark(params NewBookmarkParams) Bookmark {
	return Bookmark{
		ID:   GenerateUUID(),
		Name: params.Name,
		Path: params.Path,
	}
}

// Label returns the name, or the path for unnamed bookmarks.
func (b Bookmark) Label() string {
	if b.Name == "" {
		return b.Path
	}
	return b.Name
}
