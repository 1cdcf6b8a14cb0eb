package exporter

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/dm/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/dm-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("dm-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// ExportHTML exports bookmarks to Netscape bookmark HTML format with file://
// links, so the file opens in a browser and can be imported again.
func ExportHTML(bookmarks model.Bookmarks) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Directory Bookmarks</TITLE>\n")
	b.WriteString("<H1>Directory Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, bookmark := range bookmarks {
		fmt.Fprintf(&b,
			"    <DT><A HREF=\"%s\">%s</A>\n",
			html.EscapeString(FileURL(bookmark.Path)),
			html.EscapeString(bookmark.Label()),
		)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}
