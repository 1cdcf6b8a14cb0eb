package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createSetQuickCommand creates the set-quick command.
func createSetQuickCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-quick [SELECTOR]",
		Short: "Flag a bookmark as the quick path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, e, func(a *app) error {
				sel, ok, err := a.selector(args)
				if err != nil || !ok {
					return err
				}

				b, err := a.commander.SetQuick(sel)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Quick path set to %s\n", formatBookmark(b))
				return err
			})
		},
	}
}

// createYankCommand creates the yank command.
func createYankCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "yank [SELECTOR]",
		Short: "Copy a bookmark's path to the clipboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, e, func(a *app) error {
				sel, ok, err := a.selector(args)
				if err != nil || !ok {
					return err
				}

				b, err := a.commander.Yank(sel)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Copied %s\n", b.Path)
				return err
			})
		},
	}
}
