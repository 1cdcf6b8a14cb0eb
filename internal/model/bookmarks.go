package model

import "slices"

// Bookmarks is the ordered collection persisted by a store.
// Order defines sequence numbers. Every mutating method leaves the receiver
// untouched and returns a new collection.
type Bookmarks []Bookmark

// Append returns a copy with b added at the end, numbered count+1.
func (bs Bookmarks) Append(b Bookmark) (Bookmarks, Bookmark) {
	b.No = len(bs) + 1
	next := make(Bookmarks, 0, len(bs)+1)
	next = append(next, bs...)
	next = append(next, b)
	return next, b
}

// Find returns the bookmark addressed by sel and its position.
// Returns ErrNotFound if nothing matches.
func (bs Bookmarks) Find(sel Selector) (Bookmark, int, error) {
	for i, b := range bs {
		if sel.Matches(b) {
			return b, i, nil
		}
	}
	return Bookmark{}, -1, ErrNotFound
}

// Remove returns a reindexed copy without the bookmark addressed by sel,
// along with the removed bookmark.
func (bs Bookmarks) Remove(sel Selector) (Bookmarks, Bookmark, error) {
	removed, idx, err := bs.Find(sel)
	if err != nil {
		return bs, Bookmark{}, err
	}

	next := slices.Delete(slices.Clone(bs), idx, idx+1)
	return next.Reindex(), removed, nil
}

// RemoveFunc returns a reindexed copy without the bookmarks for which del
// returns true, along with the removed bookmarks in stored order.
func (bs Bookmarks) RemoveFunc(del func(Bookmark) bool) (Bookmarks, []Bookmark) {
	var removed []Bookmark
	next := make(Bookmarks, 0, len(bs))
	for _, b := range bs {
		if del(b) {
			removed = append(removed, b)
			continue
		}
		next = append(next, b)
	}
	return next.Reindex(), removed
}

// SetQuick returns a copy with the addressed bookmark flagged as quick.
// When exclusive is set the flag is cleared on every other bookmark.
func (bs Bookmarks) SetQuick(sel Selector, exclusive bool) (Bookmarks, Bookmark, error) {
	_, idx, err := bs.Find(sel)
	if err != nil {
		return bs, Bookmark{}, err
	}

	next := slices.Clone(bs)
	if exclusive {
		for i := range next {
			next[i].IsQuick = false
		}
	}
	next[idx].IsQuick = true
	return next, next[idx], nil
}

// Quick returns the first bookmark flagged as quick.
func (bs Bookmarks) Quick() (Bookmark, error) {
	for _, b := range bs {
		if b.IsQuick {
			return b, nil
		}
	}
	return Bookmark{}, ErrNotFound
}

// MarkLast returns a copy where only the addressed bookmark carries Last.
func (bs Bookmarks) MarkLast(sel Selector) (Bookmarks, Bookmark, error) {
	_, idx, err := bs.Find(sel)
	if err != nil {
		return bs, Bookmark{}, err
	}

	next := slices.Clone(bs)
	for i := range next {
		next[i].Last = i == idx
	}
	return next, next[idx], nil
}

// Last returns the first bookmark carrying the Last flag.
func (bs Bookmarks) Last() (Bookmark, error) {
	for _, b := range bs {
		if b.Last {
			return b, nil
		}
	}
	return Bookmark{}, ErrNotFound
}

// Reindex returns a copy numbered 1..N in stored order.
func (bs Bookmarks) Reindex() Bookmarks {
	next := slices.Clone(bs)
	for i := range next {
		next[i].No = i + 1
	}
	return next
}

// IsDense reports whether sequence numbers are exactly 1..N in order.
func (bs Bookmarks) IsDense() bool {
	for i, b := range bs {
		if b.No != i+1 {
			return false
		}
	}
	return true
}

// HasPath reports whether a bookmark for path already exists.
func (bs Bookmarks) HasPath(path string) bool {
	return slices.ContainsFunc(bs, func(b Bookmark) bool {
		return b.Path == path
	})
}
