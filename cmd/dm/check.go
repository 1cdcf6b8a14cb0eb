package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/dm/internal/culler"
)

// createCheckCommand creates the check command.
func createCheckCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report bookmarks whose directories are gone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, e, func(a *app) error {
				var onProgress culler.ProgressFunc
				if e.isTerminal != nil && e.isTerminal() {
					errOut := cmd.ErrOrStderr()
					onProgress = func(completed, total int) {
						_, _ = fmt.Fprintf(errOut, "\rChecking %d/%d", completed, total)
						if completed == total {
							_, _ = fmt.Fprintln(errOut)
						}
					}
				}

				results := a.commander.Check(onProgress)
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				problems := 0
				for _, r := range results {
					if r.Status == culler.Healthy {
						continue
					}
					problems++
					status := r.Status.String()
					if r.Error != "" {
						status += " (" + r.Error + ")"
					}
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", r.Bookmark.No, status, r.Bookmark.Path)
				}
				if err := tw.Flush(); err != nil {
					return err
				}

				if problems == 0 {
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "All %d bookmarks OK\n", len(results))
					return err
				}
				return nil
			})
		},
	}
}

// createPruneCommand creates the prune command.
func createPruneCommand(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove bookmarks whose directories are gone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return fmt.Errorf("failed to get dry-run flag: %w", err)
			}

			return withApp(cmd, e, func(a *app) error {
				removed, err := a.commander.Prune(dryRun)
				if err != nil {
					return err
				}

				verb := "Removed"
				if dryRun {
					verb = "Would remove"
				}
				out := cmd.OutOrStdout()
				for _, b := range removed {
					_, _ = fmt.Fprintf(out, "%s %s\n", verb, formatBookmark(b))
				}
				if len(removed) == 0 {
					_, err = fmt.Fprintln(out, "Nothing to prune")
				}
				return err
			})
		},
	}

	cmd.Flags().Bool("dry-run", false, "Only list what would be removed")
	return cmd
}
