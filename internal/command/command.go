// Package command turns user intent into store calls and performs the
// navigation side effect on the current process.
package command

import (
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/nikbrunner/dm/internal/culler"
	"github.com/nikbrunner/dm/internal/exporter"
	"github.com/nikbrunner/dm/internal/importer"
	"github.com/nikbrunner/dm/internal/model"
	"github.com/nikbrunner/dm/internal/search"
	"github.com/nikbrunner/dm/internal/store"
)

// ErrPathMissing is returned when a bookmark points at a directory that no
// longer exists. It is a kind of model.ErrNotFound.
var ErrPathMissing = fmt.Errorf("%w: directory no longer exists", model.ErrNotFound)

const checkConcurrency = 8

// Commander exposes the user-facing bookmark operations.
type Commander struct {
	store *store.Store
	fs    afero.Fs
	log   zerolog.Logger

	getwd    func() (string, error)
	chdir    func(dir string) error
	copyText func(text string) error
}

// Params holds parameters for creating a new Commander.
type Params struct {
	Store  *store.Store
	Fs     afero.Fs        // used for directory existence checks
	Logger *zerolog.Logger // optional

	// Optional process hooks, default to the os and clipboard packages.
	Getwd    func() (string, error)
	Chdir    func(dir string) error
	CopyText func(text string) error
}

// New creates a Commander with the given parameters.
func New(params Params) *Commander {
	c := &Commander{
		store:    params.Store,
		fs:       params.Fs,
		log:      zerolog.Nop(),
		getwd:    os.Getwd,
		chdir:    os.Chdir,
		copyText: clipboard.WriteAll,
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if params.Logger != nil {
		c.log = *params.Logger
	}
	if params.Getwd != nil {
		c.getwd = params.Getwd
	}
	if params.Chdir != nil {
		c.chdir = params.Chdir
	}
	if params.CopyText != nil {
		c.copyText = params.CopyText
	}
	return c
}

// Record bookmarks the current working directory.
func (c *Commander) Record(name string) (model.Bookmark, error) {
	dir, err := c.getwd()
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return c.store.Append(dir, name)
}

// List yields the stored bookmarks in order. Each range over the result
// reloads the store, so it always reflects the latest persisted state.
func (c *Commander) List() iter.Seq[model.Bookmark] {
	return func(yield func(model.Bookmark) bool) {
		for _, b := range c.store.Load() {
			if !yield(b) {
				return
			}
		}
	}
}

// Select changes the working directory to the addressed bookmark and
// remembers it as the last visited one.
func (c *Commander) Select(sel model.Selector) (model.Bookmark, error) {
	b, err := c.store.FindByIndexOrName(sel)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("%q: %w", sel.String(), err)
	}

	if err := c.navigate(b); err != nil {
		return model.Bookmark{}, err
	}

	// Navigation already happened, so a failed mark is only logged.
	if _, err := c.store.MarkLast(model.SelectIndex(b.No)); err != nil {
		c.log.Warn().Err(err).Int("no", b.No).Msg("failed to mark last bookmark")
	}
	return b, nil
}

// Remove deletes the addressed bookmark.
func (c *Commander) Remove(sel model.Selector) (model.Bookmark, error) {
	b, err := c.store.Remove(sel)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("%q: %w", sel.String(), err)
	}
	return b, nil
}

// SetQuick flags the addressed bookmark as the quick path.
func (c *Commander) SetQuick(sel model.Selector) (model.Bookmark, error) {
	b, err := c.store.SetQuick(sel)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("%q: %w", sel.String(), err)
	}
	return b, nil
}

// GetQuick changes the working directory to the quick path.
func (c *Commander) GetQuick() (model.Bookmark, error) {
	b, err := c.store.GetQuick()
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("no quick path set: %w", err)
	}
	if err := c.navigate(b); err != nil {
		return model.Bookmark{}, err
	}
	return b, nil
}

// Last changes the working directory to the most recently selected bookmark.
func (c *Commander) Last() (model.Bookmark, error) {
	b, err := c.store.GetLast()
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("nothing selected yet: %w", err)
	}
	if err := c.navigate(b); err != nil {
		return model.Bookmark{}, err
	}
	return b, nil
}

// ClearAll removes every bookmark.
func (c *Commander) ClearAll() error {
	return c.store.Clear()
}

// Find fuzzy-matches bookmarks by name and path.
func (c *Commander) Find(query string) []search.SearchResult {
	return search.FuzzySearchBookmarks(c.store.Load(), query)
}

// Yank copies the addressed bookmark's path to the clipboard.
func (c *Commander) Yank(sel model.Selector) (model.Bookmark, error) {
	b, err := c.store.FindByIndexOrName(sel)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("%q: %w", sel.String(), err)
	}
	if err := c.copyText(b.Path); err != nil {
		return model.Bookmark{}, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return b, nil
}

// Export writes all bookmarks as Netscape bookmark HTML.
func (c *Commander) Export(w io.Writer) (int, error) {
	bookmarks := c.store.Load()
	if _, err := io.WriteString(w, exporter.ExportHTML(bookmarks)); err != nil {
		return 0, err
	}
	return len(bookmarks), nil
}

// Import appends the directories listed in a Netscape bookmark HTML document,
// skipping paths that are already stored.
func (c *Commander) Import(r io.Reader) (added, skipped int, err error) {
	bookmarks, err := importer.ParseHTMLBookmarks(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse bookmarks: %w", err)
	}
	return c.store.Import(bookmarks)
}

// Check reports the health of every bookmarked directory.
func (c *Commander) Check(onProgress culler.ProgressFunc) []culler.Result {
	return culler.CheckPaths(c.fs, slices.Collect(c.List()), checkConcurrency, onProgress)
}

// Prune removes bookmarks whose directories are missing or no longer
// directories. With dryRun set it only reports what would be removed.
func (c *Commander) Prune(dryRun bool) ([]model.Bookmark, error) {
	dead := culler.Dead(c.Check(nil))
	if len(dead) == 0 {
		return nil, nil
	}

	if dryRun {
		bookmarks := make([]model.Bookmark, len(dead))
		for i, r := range dead {
			bookmarks[i] = r.Bookmark
		}
		return bookmarks, nil
	}

	paths := make(map[string]bool, len(dead))
	for _, r := range dead {
		paths[r.Bookmark.Path] = true
	}
	return c.store.RemoveFunc(func(b model.Bookmark) bool {
		return paths[b.Path]
	})
}

// navigate changes directory to b.Path if it still exists.
func (c *Commander) navigate(b model.Bookmark) error {
	exists, err := afero.DirExists(c.fs, b.Path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", b.Path, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", b.Path, ErrPathMissing)
	}

	if err := c.chdir(b.Path); err != nil {
		return fmt.Errorf("failed to change directory: %w", err)
	}

	c.log.Debug().Int("no", b.No).Str("path", b.Path).Msg("changed directory")
	return nil
}
