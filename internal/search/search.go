package search

import (
	"github.com/nikbrunner/dm/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int // indexes into Haystack(Bookmark)
	Score          int
}

// Haystack returns the text a bookmark is matched against: its name, if any,
// followed by its path.
func Haystack(b model.Bookmark) string {
	if b.Name == "" {
		return b.Path
	}
	return b.Name + " " + b.Path
}

// haystacks implements fuzzy.Source for a bookmark slice.
type haystacks []model.Bookmark

func (h haystacks) String(i int) string {
	return Haystack(h[i])
}

func (h haystacks) Len() int {
	return len(h)
}

// FuzzySearchBookmarks searches bookmarks by name and path using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchBookmarks(bookmarks []model.Bookmark, query string) []SearchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, haystacks(bookmarks))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Bookmark:       bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
