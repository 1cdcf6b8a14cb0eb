package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/dm/internal/model"
)

// createListCommand creates the list command.
func createListCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, e, func(a *app) error {
				var bookmarks []model.Bookmark
				for b := range a.commander.List() {
					bookmarks = append(bookmarks, b)
				}
				return writeTable(cmd.OutOrStdout(), bookmarks)
			})
		},
	}
}

// createFindCommand creates the find command.
func createFindCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "find QUERY...",
		Short: "Fuzzy find bookmarks by name and path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			return withApp(cmd, e, func(a *app) error {
				results := a.commander.Find(query)
				if len(results) == 0 {
					return fmt.Errorf("no bookmarks match %q: %w", query, model.ErrNotFound)
				}

				bookmarks := make([]model.Bookmark, len(results))
				for i, r := range results {
					bookmarks[i] = r.Bookmark
				}
				return writeTable(cmd.OutOrStdout(), bookmarks)
			})
		},
	}
}

// writeTable prints one aligned row per bookmark: number, quick marker,
// name and path.
func writeTable(w io.Writer, bookmarks []model.Bookmark) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range bookmarks {
		_, _ = fmt.Fprintf(tw, "%d%s\t%s\t%s\n", b.No, quickMarker(b), b.Name, b.Path)
	}
	return tw.Flush()
}

func quickMarker(b model.Bookmark) string {
	if b.IsQuick {
		return "*"
	}
	return ""
}

// formatBookmark renders a bookmark for confirmation messages.
func formatBookmark(b model.Bookmark) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(b.No))
	sb.WriteString(": ")
	if b.Name != "" {
		sb.WriteString(b.Name)
		sb.WriteString(" ")
	}
	sb.WriteString(b.Path)
	return sb.String()
}
