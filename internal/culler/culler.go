// Package culler finds bookmarks whose directories have disappeared.
package culler

import (
	"errors"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/nikbrunner/dm/internal/model"
)

// Status represents the health of a bookmarked directory.
type Status int

const (
	Healthy      Status = iota // directory exists
	Missing                    // nothing at the path
	NotDirectory               // path exists but isn't a directory
	Inaccessible               // stat failed for another reason
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "ok"
	case Missing:
		return "missing"
	case NotDirectory:
		return "not a directory"
	case Inaccessible:
		return "inaccessible"
	default:
		return "unknown"
	}
}

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark model.Bookmark
	Status   Status
	Error    string // set for Inaccessible
}

// ProgressFunc is called after each path is checked.
// completed is the number of paths checked so far, total is the total count.
type ProgressFunc func(completed, total int)

// CheckPaths stats all bookmark paths concurrently and returns results in
// the order of bookmarks.
func CheckPaths(fs afero.Fs, bookmarks []model.Bookmark, concurrency int, onProgress ProgressFunc) []Result {
	if len(bookmarks) == 0 {
		return nil
	}
	concurrency = max(concurrency, 1)

	results := make([]Result, len(bookmarks))
	jobs := make(chan int, len(bookmarks))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkPath(fs, bookmarks[idx])

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(bookmarks))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range bookmarks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func checkPath(fs afero.Fs, b model.Bookmark) Result {
	result := Result{Bookmark: b}

	info, err := fs.Stat(b.Path)
	switch {
	case err == nil && info.IsDir():
		result.Status = Healthy
	case err == nil:
		result.Status = NotDirectory
	case errors.Is(err, os.ErrNotExist):
		result.Status = Missing
	default:
		result.Status = Inaccessible
		result.Error = normalizeError(err)
	}

	return result
}

// Dead returns the results for directories that are gone: missing or
// replaced by something else. Inaccessible paths are not dead.
func Dead(results []Result) []Result {
	var dead []Result
	for _, r := range results {
		if r.Status == Missing || r.Status == NotDirectory {
			dead = append(dead, r)
		}
	}
	return dead
}

// normalizeError simplifies verbose stat errors into readable categories.
func normalizeError(err error) string {
	switch {
	case errors.Is(err, os.ErrPermission):
		return "Permission denied"
	default:
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return pathErr.Err.Error()
		}
		return err.Error()
	}
}
