package importer

import (
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nikbrunner/dm/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML and returns one unnumbered
// bookmark per directory link. Folder structure is flattened and links that
// don't point at the local filesystem are skipped.
func ParseHTMLBookmarks(r io.Reader) ([]model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var bookmarks []model.Bookmark

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.ToLower(n.Data) == "a" {
			path, ok := localPath(getAttr(n, "href"))
			if !ok {
				return
			}

			name := getTextContent(n)
			if name == path {
				// Unnamed bookmarks are exported with the path as title
				name = ""
			}

			bookmarks = append(bookmarks, model.NewBookmark(model.NewBookmarkParams{
				Name: name,
				Path: path,
			}))
			return // Don't recurse into A
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return bookmarks, nil
}

// localPath extracts an absolute path from a file:// URL or a bare path.
func localPath(href string) (string, bool) {
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	switch u.Scheme {
	case "file":
		if u.Host != "" && u.Host != "localhost" {
			return "", false
		}
	case "":
	default:
		return "", false
	}

	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) {
		return "", false
	}
	return filepath.Clean(path), true
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
