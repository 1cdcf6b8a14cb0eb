package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createRemoveCommand creates the remove command.
func createRemoveCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [SELECTOR]",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark and renumber the rest",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, e, func(a *app) error {
				sel, ok, err := a.selector(args)
				if err != nil || !ok {
					return err
				}

				b, err := a.commander.Remove(sel)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", formatBookmark(b))
				return err
			})
		},
	}
}

// createClearCommand creates the clear command.
func createClearCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, e, func(a *app) error {
				if err := a.commander.ClearAll(); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Cleared all bookmarks")
				return err
			})
		},
	}
}
