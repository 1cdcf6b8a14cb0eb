package model

import (
	"strconv"
	"strings"
)

// SelectorKind tells how a Selector addresses a bookmark.
type SelectorKind int

const (
	ByIndex SelectorKind = iota // 1-based sequence number
	ByName                      // exact, case-sensitive name
)

// Selector identifies a bookmark either by sequence number or by name.
// It is decided once when parsed and never re-inspected afterwards.
type Selector struct {
	Kind  SelectorKind
	Index int
	Name  string
}

// SelectIndex returns a selector addressing the given sequence number.
func SelectIndex(no int) Selector {
	return Selector{Kind: ByIndex, Index: no}
}

// SelectName returns a selector addressing the first bookmark with the given name.
func SelectName(name string) Selector {
	return Selector{Kind: ByName, Name: name}
}

// ParseSelector interprets raw user input.
// Anything made only of ASCII digits is an index, even when a bookmark carries
// that numeral as its name. Everything else is matched as a name.
func ParseSelector(raw string) (Selector, error) {
	if strings.TrimSpace(raw) == "" {
		return Selector{}, ErrInvalidSelector
	}

	if isDigits(raw) {
		no, err := strconv.Atoi(raw)
		if err != nil {
			// Overflow: still an index, just one that can never match.
			return SelectIndex(0), nil
		}
		return SelectIndex(no), nil
	}

	return SelectName(raw), nil
}

// String renders the selector the way a user would type it.
func (s Selector) String() string {
	if s.Kind == ByIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Matches reports whether b is addressed by the selector.
func (s Selector) Matches(b Bookmark) bool {
	switch s.Kind {
	case ByIndex:
		return b.No == s.Index
	case ByName:
		return b.Name == s.Name
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
