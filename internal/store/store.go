// Package store implements the bookmark operations on top of a storage backend.
// Every operation loads the persisted collection, derives a new one and saves
// it; nothing is cached between calls.
package store

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/nikbrunner/dm/internal/model"
	"github.com/nikbrunner/dm/internal/storage"
)

// WarnFunc receives recoverable problems, such as an unreadable store file.
type WarnFunc func(err error)

// Store provides the bookmark operations.
type Store struct {
	backend        storage.Storage
	log            zerolog.Logger
	warn           WarnFunc
	exclusiveQuick bool
}

// Params holds parameters for creating a new Store.
type Params struct {
	Backend storage.Storage
	Logger  *zerolog.Logger // optional, disabled if nil
	Warn    WarnFunc        // optional
	// ExclusiveQuick makes SetQuick clear the flag on all other bookmarks.
	ExclusiveQuick bool
}

// New creates a Store with the given parameters.
func New(params Params) *Store {
	log := zerolog.Nop()
	if params.Logger != nil {
		log = *params.Logger
	}

	warn := params.Warn
	if warn == nil {
		warn = func(error) {}
	}

	return &Store{
		backend:        params.Backend,
		log:            log,
		warn:           warn,
		exclusiveQuick: params.ExclusiveQuick,
	}
}

// Load returns the persisted bookmarks.
// It never fails: missing or unreadable data yields an empty collection and
// unreadable data is reported through the warn callback.
func (s *Store) Load() model.Bookmarks {
	bookmarks, err := s.backend.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("treating unreadable store as empty")
		if !errors.Is(err, storage.ErrUnreadable) {
			err = errors.Join(storage.ErrUnreadable, err)
		}
		s.warn(err)
		return model.Bookmarks{}
	}

	return normalize(bookmarks)
}

// normalize repairs data written by hand or by older versions: numbering is
// made dense and missing IDs are derived from number and path, so repeated
// loads agree until the next save persists them.
func normalize(bookmarks model.Bookmarks) model.Bookmarks {
	if !bookmarks.IsDense() {
		bookmarks = bookmarks.Reindex()
	}
	for i := range bookmarks {
		if bookmarks[i].ID == "" {
			bookmarks[i].ID = model.DeriveUUID(bookmarks[i].No, bookmarks[i].Path)
		}
	}
	return bookmarks
}

// Save replaces the persisted bookmarks.
func (s *Store) Save(bookmarks model.Bookmarks) error {
	if err := s.backend.Save(bookmarks); err != nil {
		s.log.Error().Err(err).Int("count", len(bookmarks)).Msg("failed to save bookmarks")
		return err
	}
	s.log.Debug().Int("count", len(bookmarks)).Msg("saved bookmarks")
	return nil
}

// Append records path under an optional name and returns the new bookmark.
func (s *Store) Append(path, name string) (model.Bookmark, error) {
	bookmarks, added := s.Load().Append(model.NewBookmark(model.NewBookmarkParams{
		Name: name,
		Path: path,
	}))

	if err := s.Save(bookmarks); err != nil {
		return model.Bookmark{}, err
	}

	s.log.Debug().Int("no", added.No).Str("name", added.Name).Str("path", added.Path).Msg("appended bookmark")
	return added, nil
}

// Import appends every bookmark whose path isn't stored yet, in one write.
// Returns how many were added and how many were skipped as duplicates.
func (s *Store) Import(incoming []model.Bookmark) (added, skipped int, err error) {
	bookmarks := s.Load()
	for _, b := range incoming {
		if bookmarks.HasPath(b.Path) {
			skipped++
			continue
		}
		if b.ID == "" {
			b.ID = model.GenerateUUID()
		}
		b.IsQuick, b.Last = false, false
		bookmarks, _ = bookmarks.Append(b)
		added++
	}

	if added == 0 {
		return 0, skipped, nil
	}
	if err := s.Save(bookmarks); err != nil {
		return 0, 0, err
	}

	s.log.Debug().Int("added", added).Int("skipped", skipped).Msg("imported bookmarks")
	return added, skipped, nil
}

// FindByIndexOrName resolves a selector against the persisted bookmarks.
func (s *Store) FindByIndexOrName(sel model.Selector) (model.Bookmark, error) {
	b, _, err := s.Load().Find(sel)
	return b, err
}

// Remove deletes the addressed bookmark and renumbers the rest.
func (s *Store) Remove(sel model.Selector) (model.Bookmark, error) {
	bookmarks, removed, err := s.Load().Remove(sel)
	if err != nil {
		return model.Bookmark{}, err
	}

	if err := s.Save(bookmarks); err != nil {
		return model.Bookmark{}, err
	}

	s.log.Debug().Int("no", removed.No).Str("path", removed.Path).Msg("removed bookmark")
	return removed, nil
}

// RemoveFunc deletes every bookmark for which del returns true and
// renumbers the rest. Nothing is written when nothing matches.
func (s *Store) RemoveFunc(del func(model.Bookmark) bool) ([]model.Bookmark, error) {
	bookmarks, removed := s.Load().RemoveFunc(del)
	if len(removed) == 0 {
		return nil, nil
	}

	if err := s.Save(bookmarks); err != nil {
		return nil, err
	}

	s.log.Debug().Int("removed", len(removed)).Msg("removed bookmarks")
	return removed, nil
}

// SetQuick flags the addressed bookmark as a quick path.
func (s *Store) SetQuick(sel model.Selector) (model.Bookmark, error) {
	bookmarks, updated, err := s.Load().SetQuick(sel, s.exclusiveQuick)
	if err != nil {
		return model.Bookmark{}, err
	}

	if err := s.Save(bookmarks); err != nil {
		return model.Bookmark{}, err
	}

	s.log.Debug().Int("no", updated.No).Bool("exclusive", s.exclusiveQuick).Msg("set quick path")
	return updated, nil
}

// GetQuick returns the first bookmark flagged as quick.
func (s *Store) GetQuick() (model.Bookmark, error) {
	return s.Load().Quick()
}

// MarkLast flags the addressed bookmark as the most recently selected one.
func (s *Store) MarkLast(sel model.Selector) (model.Bookmark, error) {
	bookmarks, updated, err := s.Load().MarkLast(sel)
	if err != nil {
		return model.Bookmark{}, err
	}

	if err := s.Save(bookmarks); err != nil {
		return model.Bookmark{}, err
	}
	return updated, nil
}

// GetLast returns the most recently selected bookmark.
func (s *Store) GetLast() (model.Bookmark, error) {
	return s.Load().Last()
}

// Clear removes every bookmark.
func (s *Store) Clear() error {
	if err := s.Save(model.Bookmarks{}); err != nil {
		return err
	}
	s.log.Debug().Msg("cleared bookmarks")
	return nil
}
