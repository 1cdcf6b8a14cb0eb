package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createRecordCommand creates the record command.
func createRecordCommand(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Bookmark the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return fmt.Errorf("failed to get name flag: %w", err)
			}

			return withApp(cmd, e, func(a *app) error {
				b, err := a.commander.Record(name)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", formatBookmark(b))
				return err
			})
		},
	}

	cmd.Flags().StringP("name", "n", "", "Name for the bookmark")
	return cmd
}
