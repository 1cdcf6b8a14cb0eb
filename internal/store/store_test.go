package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/dm/internal/model"
	"github.com/nikbrunner/dm/internal/storage"
	"github.com/nikbrunner/dm/internal/store"
)

const storePath = "/data/dm/bookmarks.json"

type fixture struct {
	fs       afero.Fs
	store    *store.Store
	warnings []error
}

func newFixture(t *testing.T, exclusive bool) *fixture {
	t.Helper()
	f := &fixture{fs: afero.NewMemMapFs()}
	f.store = store.New(store.Params{
		Backend:        storage.NewJSONStorage(f.fs, storePath),
		Warn:           func(err error) { f.warnings = append(f.warnings, err) },
		ExclusiveQuick: exclusive,
	})
	return f
}

func sel(t *testing.T, raw string) model.Selector {
	t.Helper()
	s, err := model.ParseSelector(raw)
	assert.NilError(t, err)
	return s
}

func (f *fixture) write(t *testing.T, content string) {
	t.Helper()
	assert.NilError(t, afero.WriteFile(f.fs, storePath, []byte(content), 0o644))
}

func (f *fixture) read(t *testing.T) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, storePath)
	assert.NilError(t, err)
	return string(data)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	f := newFixture(t, false)

	assert.Check(t, is.Len(f.store.Load(), 0))
	assert.Check(t, is.Len(f.warnings, 0))

	exists, err := afero.Exists(f.fs, storePath)
	assert.NilError(t, err)
	assert.Check(t, !exists, "load must not create the store file")
}

func TestLoad_UnreadableWarnsAndReturnsEmpty(t *testing.T) {
	f := newFixture(t, false)
	f.write(t, "[{broken")

	assert.Check(t, is.Len(f.store.Load(), 0))
	assert.Assert(t, is.Len(f.warnings, 1))
	assert.Check(t, errors.Is(f.warnings[0], storage.ErrUnreadable))
}

func TestLoad_ReindexesAndAssignsIDs(t *testing.T) {
	f := newFixture(t, false)
	f.write(t, `[{"No":4,"Name":"a","Path":"/a"},{"No":9,"Name":"b","Path":"/b"}]`)

	bookmarks := f.store.Load()
	assert.Assert(t, is.Len(bookmarks, 2))
	assert.Check(t, bookmarks.IsDense())
	for _, b := range bookmarks {
		assert.Check(t, b.ID != "", "expected ID for %q", b.Name)
	}
}

func TestLoad_DerivedIDsAreStable(t *testing.T) {
	f := newFixture(t, false)
	f.write(t, `[{"No":1,"Name":"a","Path":"/a"},{"No":2,"Name":"b","Path":"/b"}]`)

	first := f.store.Load()
	second := f.store.Load()
	assert.Assert(t, is.Len(first, 2))
	assert.Check(t, is.Equal(first[0].ID, second[0].ID))
	assert.Check(t, is.Equal(first[1].ID, second[1].ID))
	assert.Check(t, first[0].ID != first[1].ID)

	b, err := f.store.FindByIndexOrName(sel(t, "b"))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(b.ID, first[1].ID))

	// The derived IDs are what a later mutation persists.
	_, err = f.store.SetQuick(sel(t, "a"))
	assert.NilError(t, err)
	assert.Check(t, is.Contains(f.read(t), first[0].ID))
	assert.Check(t, is.Equal(f.store.Load()[0].ID, first[0].ID))
}

func TestAppend_CreatesFileLazily(t *testing.T) {
	f := newFixture(t, false)

	b, err := f.store.Append("/home/alice/proj", "proj")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(b.No, 1))
	assert.Check(t, is.Equal(b.Name, "proj"))
	assert.Check(t, is.Equal(b.Path, "/home/alice/proj"))
	assert.Check(t, b.ID != "")

	assert.Check(t, is.Contains(f.read(t), `"Path": "/home/alice/proj"`))
}

func TestAppend_NumbersFromCount(t *testing.T) {
	f := newFixture(t, false)

	for i := 1; i <= 3; i++ {
		b, err := f.store.Append("/p", "")
		assert.NilError(t, err)
		assert.Check(t, is.Equal(b.No, i))
	}
	assert.Check(t, is.Len(f.store.Load(), 3))
}

func TestAppend_WriteFailure(t *testing.T) {
	s := store.New(store.Params{
		Backend: storage.NewJSONStorage(afero.NewReadOnlyFs(afero.NewMemMapFs()), storePath),
	})

	_, err := s.Append("/p", "p")
	assert.Check(t, errors.Is(err, storage.ErrWrite))
}

func TestFindByIndexOrName(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.store.Append("/home/alice/proj", "proj")
	assert.NilError(t, err)
	_, err = f.store.Append("/tmp", "1")
	assert.NilError(t, err)

	byName, err := f.store.FindByIndexOrName(sel(t, "proj"))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(byName.Path, "/home/alice/proj"))

	// "1" is an index even though bookmark 2 is named "1".
	byIndex, err := f.store.FindByIndexOrName(sel(t, "1"))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(byIndex.Path, "/home/alice/proj"))
}

func TestFindByIndexOrName_NotFoundSymmetry(t *testing.T) {
	f := newFixture(t, false)
	for _, p := range []string{"/a", "/b", "/c"} {
		_, err := f.store.Append(p, "")
		assert.NilError(t, err)
	}

	_, errIndex := f.store.FindByIndexOrName(sel(t, "99"))
	_, errName := f.store.FindByIndexOrName(sel(t, "nonexistent-name"))

	assert.Check(t, errors.Is(errIndex, model.ErrNotFound))
	assert.Check(t, errors.Is(errName, model.ErrNotFound))
}

func TestRemove_ReindexesAndPersists(t *testing.T) {
	f := newFixture(t, false)
	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		_, err := f.store.Append(p, "")
		assert.NilError(t, err)
	}

	removed, err := f.store.Remove(sel(t, "2"))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(removed.Path, "/b"))

	bookmarks := f.store.Load()
	assert.Assert(t, is.Len(bookmarks, 3))
	assert.Check(t, bookmarks.IsDense())
	assert.Check(t, is.Equal(bookmarks[1].Path, "/c"))
	assert.Check(t, is.Equal(bookmarks[1].No, 2))
}

func TestRemove_NotFoundDoesNotWrite(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.store.Append("/a", "a")
	assert.NilError(t, err)
	before := f.read(t)

	_, err = f.store.Remove(sel(t, "missing"))
	assert.Check(t, errors.Is(err, model.ErrNotFound))
	assert.Check(t, is.Equal(f.read(t), before))
}

func TestRemoveFunc(t *testing.T) {
	f := newFixture(t, false)
	for _, p := range []string{"/a", "/b", "/c"} {
		_, err := f.store.Append(p, "")
		assert.NilError(t, err)
	}

	removed, err := f.store.RemoveFunc(func(b model.Bookmark) bool { return b.Path != "/b" })
	assert.NilError(t, err)
	assert.Check(t, is.Len(removed, 2))

	bookmarks := f.store.Load()
	assert.Assert(t, is.Len(bookmarks, 1))
	assert.Check(t, is.Equal(bookmarks[0].Path, "/b"))
	assert.Check(t, is.Equal(bookmarks[0].No, 1))
}

func TestRemoveFunc_NoMatchDoesNotWrite(t *testing.T) {
	f := newFixture(t, false)

	removed, err := f.store.RemoveFunc(func(model.Bookmark) bool { return true })
	assert.NilError(t, err)
	assert.Check(t, is.Len(removed, 0))

	exists, err := afero.Exists(f.fs, storePath)
	assert.NilError(t, err)
	assert.Check(t, !exists)
}

func TestSetQuick_NonExclusiveKeepsOthers(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.store.Append("/a", "a")
	_, _ = f.store.Append("/b", "b")

	_, err := f.store.SetQuick(sel(t, "a"))
	assert.NilError(t, err)
	_, err = f.store.SetQuick(sel(t, "b"))
	assert.NilError(t, err)

	bookmarks := f.store.Load()
	assert.Check(t, bookmarks[0].IsQuick)
	assert.Check(t, bookmarks[1].IsQuick)

	quick, err := f.store.GetQuick()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(quick.Name, "a"))
}

func TestSetQuick_Exclusive(t *testing.T) {
	f := newFixture(t, true)
	_, _ = f.store.Append("/a", "a")
	_, _ = f.store.Append("/b", "b")

	_, err := f.store.SetQuick(sel(t, "a"))
	assert.NilError(t, err)
	_, err = f.store.SetQuick(sel(t, "b"))
	assert.NilError(t, err)

	quick, err := f.store.GetQuick()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(quick.Name, "b"))
	assert.Check(t, !f.store.Load()[0].IsQuick)
}

func TestGetQuick_None(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.store.Append("/a", "a")

	_, err := f.store.GetQuick()
	assert.Check(t, errors.Is(err, model.ErrNotFound))
}

func TestMarkLast(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.store.Append("/a", "a")
	_, _ = f.store.Append("/b", "b")

	_, err := f.store.MarkLast(sel(t, "1"))
	assert.NilError(t, err)
	_, err = f.store.MarkLast(sel(t, "2"))
	assert.NilError(t, err)

	last, err := f.store.GetLast()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(last.Path, "/b"))
	assert.Check(t, !f.store.Load()[0].Last)
}

func TestClear_IsAbsorbing(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.store.Append("/a", "a")
	_, _ = f.store.Append("/b", "b")
	_, _ = f.store.SetQuick(sel(t, "a"))

	assert.NilError(t, f.store.Clear())
	assert.Check(t, is.Len(f.store.Load(), 0))
	assert.Check(t, is.Equal(strings.TrimSpace(f.read(t)), "[]"))

	// Clearing an already empty store is fine too.
	assert.NilError(t, f.store.Clear())
	assert.Check(t, is.Len(f.store.Load(), 0))
}

func TestClear_AfterCorruptFile(t *testing.T) {
	f := newFixture(t, false)
	f.write(t, "garbage")

	assert.NilError(t, f.store.Clear())
	assert.Check(t, is.Len(f.store.Load(), 0))
	assert.Check(t, is.Len(f.warnings, 0), "clear must not need to read the old content")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.store.Append("/home/alice/proj", "proj")
	_, _ = f.store.Append("/tmp", "")
	_, _ = f.store.SetQuick(sel(t, "2"))
	first := f.read(t)

	assert.NilError(t, f.store.Save(f.store.Load()))
	assert.Check(t, is.Equal(f.read(t), first))
}

func TestImport_SkipsKnownPaths(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.store.Append("/a", "a")

	added, skipped, err := f.store.Import([]model.Bookmark{
		{Name: "dup", Path: "/a"},
		{Name: "b", Path: "/b", IsQuick: true},
		{Name: "c", Path: "/c"},
	})
	assert.NilError(t, err)
	assert.Check(t, is.Equal(added, 2))
	assert.Check(t, is.Equal(skipped, 1))

	bookmarks := f.store.Load()
	assert.Assert(t, is.Len(bookmarks, 3))
	assert.Check(t, bookmarks.IsDense())
	assert.Check(t, !bookmarks[1].IsQuick, "imported flags are dropped")
}

func TestStore_LogsMutations(t *testing.T) {
	var buf strings.Builder
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	s := store.New(store.Params{
		Backend: storage.NewJSONStorage(afero.NewMemMapFs(), storePath),
		Logger:  &logger,
	})
	_, err := s.Append("/a", "a")
	assert.NilError(t, err)

	assert.Check(t, is.Contains(buf.String(), "appended bookmark"))
}

func TestScenario(t *testing.T) {
	f := newFixture(t, false)

	b, err := f.store.Append("/home/alice/proj", "proj")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(b.No, 1))

	b, err = f.store.Append("/tmp", "")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(b.No, 2))
	assert.Check(t, is.Equal(b.Name, ""))

	_, err = f.store.Remove(sel(t, "1"))
	assert.NilError(t, err)

	bookmarks := f.store.Load()
	assert.Assert(t, is.Len(bookmarks, 1))
	assert.Check(t, is.Equal(bookmarks[0].No, 1))
	assert.Check(t, is.Equal(bookmarks[0].Path, "/tmp"))

	found, err := f.store.FindByIndexOrName(sel(t, "1"))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(found.Path, "/tmp"))

	_, err = f.store.SetQuick(sel(t, "1"))
	assert.NilError(t, err)
	quick, err := f.store.GetQuick()
	assert.NilError(t, err)
	assert.Check(t, is.Equal(quick.Path, "/tmp"))
	assert.Check(t, quick.IsQuick)
}

func TestSQLiteCorruptStore_LoadWarnsAndClearRepairs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bookmarks.db")
	assert.NilError(t, os.WriteFile(dbPath, []byte("not a database at all, only noise"), 0o644))

	backend := storage.NewSQLiteStorage(dbPath)
	t.Cleanup(func() { _ = backend.Close() })

	var warnings []error
	s := store.New(store.Params{
		Backend: backend,
		Warn:    func(err error) { warnings = append(warnings, err) },
	})

	assert.Check(t, is.Len(s.Load(), 0))
	assert.Assert(t, is.Len(warnings, 1))
	assert.Check(t, errors.Is(warnings[0], storage.ErrUnreadable))

	assert.NilError(t, s.Clear())
	assert.Check(t, is.Len(s.Load(), 0))
	assert.Check(t, is.Len(warnings, 1), "cleared store must load without warnings")

	b, err := s.Append("/home/alice/proj", "proj")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(b.No, 1))
	assert.Check(t, is.Len(s.Load(), 1))
}

func TestSQLiteCorruptStore_AppendOverwrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bookmarks.db")
	assert.NilError(t, os.WriteFile(dbPath, []byte("garbage garbage garbage garbage"), 0o644))

	backend := storage.NewSQLiteStorage(dbPath)
	t.Cleanup(func() { _ = backend.Close() })
	s := store.New(store.Params{Backend: backend})

	b, err := s.Append("/srv/www", "www")
	assert.NilError(t, err)
	assert.Check(t, is.Equal(b.No, 1))

	loaded := s.Load()
	assert.Assert(t, is.Len(loaded, 1))
	assert.Check(t, is.Equal(loaded[0].Path, "/srv/www"))
}
