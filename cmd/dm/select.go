package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/dm/internal/model"
)

// createSelectCommand creates the select command.
func createSelectCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:     "select [SELECTOR]",
		Aliases: []string{"go"},
		Short:   "Go to a bookmark by number or name",
		Long: `Go to a bookmark by number or name.

A selector made only of digits is a bookmark number; anything else is matched
exactly against names. Without a selector an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, e, func(a *app) error {
				sel, ok, err := a.selector(args)
				if err != nil || !ok {
					return err
				}
				b, err := a.commander.Select(sel)
				return printPath(cmd, b, err)
			})
		},
	}
}

// createGetQuickCommand creates the get-quick command.
func createGetQuickCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "get-quick",
		Short: "Go to the quick path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, e, func(a *app) error {
				b, err := a.commander.GetQuick()
				return printPath(cmd, b, err)
			})
		},
	}
}

// createLastCommand creates the last command.
func createLastCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Go to the most recently selected bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, e, func(a *app) error {
				b, err := a.commander.Last()
				return printPath(cmd, b, err)
			})
		},
	}
}

// printPath writes the directory a navigation landed in, for the shell
// wrapper to cd into.
func printPath(cmd *cobra.Command, b model.Bookmark, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), b.Path)
	return err
}
