package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/nikbrunner/dm/internal/model"
)

var (
	// ErrUnreadable means stored data exists but could not be read or parsed.
	ErrUnreadable = errors.New("bookmark storage unreadable")
	// ErrWrite means the bookmarks could not be persisted.
	ErrWrite = errors.New("bookmark storage write failed")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Storage defines the interface for persisting bookmarks.
type Storage interface {
	Load() (model.Bookmarks, error)
	Save(bookmarks model.Bookmarks) error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	fs   afero.Fs
	path string
}

// NewJSONStorage creates a new JSONStorage for the given file path.
func NewJSONStorage(fs afero.Fs, path string) *JSONStorage {
	return &JSONStorage{fs: fs, path: path}
}

// Load reads bookmarks from the JSON file.
// Returns an empty collection if the file doesn't exist.
func (s *JSONStorage) Load() (model.Bookmarks, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Bookmarks{}, nil
		}
		return model.Bookmarks{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	bookmarks, err := decode(data)
	if err != nil {
		return model.Bookmarks{}, fmt.Errorf("%w: %s: %w", ErrUnreadable, s.path, err)
	}
	return bookmarks, nil
}

// decode accepts an array of bookmarks, a single bare bookmark object, or an
// empty document.
func decode(data []byte) (model.Bookmarks, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return model.Bookmarks{}, nil
	}

	if data[0] == '{' {
		var b model.Bookmark
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return model.Bookmarks{b}, nil
	}

	var bookmarks model.Bookmarks
	if err := json.Unmarshal(data, &bookmarks); err != nil {
		return nil, err
	}
	if bookmarks == nil {
		bookmarks = model.Bookmarks{}
	}
	return bookmarks, nil
}

// Save replaces the JSON file with the given bookmarks.
// Content goes to a temp file in the same directory which is then renamed over
// the target, so readers see either the old or the new file.
func (s *JSONStorage) Save(bookmarks model.Bookmarks) error {
	if bookmarks == nil {
		bookmarks = model.Bookmarks{}
	}

	data, err := json.MarshalIndent(bookmarks, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = fs.Remove(tmpName)
		return err
	}

	if err := fs.Rename(tmpName, path); err != nil {
		_ = fs.Remove(tmpName)
		return err
	}
	return nil
}
