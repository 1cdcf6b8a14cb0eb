package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/dm/internal/exporter"
)

// createExportCommand creates the export command.
func createExportCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export bookmarks as Netscape bookmark HTML",
		Long: `Export bookmarks as Netscape bookmark HTML with file:// links.

Writes to ~/Downloads/dm-export-YYYY-MM-DD.html when FILE is omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			outputPath := ""
			if len(args) > 0 {
				outputPath = args[0]
			} else {
				outputPath, err = exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("failed to get default export path: %w", err)
				}
			}

			return withApp(cmd, e, func(a *app) error {
				f, err := e.fs.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outputPath, err)
				}

				n, err := a.commander.Export(f)
				if closeErr := f.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					return fmt.Errorf("failed to write %s: %w", outputPath, err)
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks to %s\n", n, outputPath)
				return err
			})
		},
	}
}

// createImportCommand creates the import command.
func createImportCommand(e env) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import directories from Netscape bookmark HTML",
		Long: `Import directories from Netscape bookmark HTML.

Only file:// links and absolute paths are imported; paths that are already
bookmarked are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, e, func(a *app) error {
				f, err := e.fs.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()

				added, skipped, err := a.commander.Import(f)
				if err != nil {
					return err
				}

				msg := fmt.Sprintf("Imported %d bookmarks", added)
				if skipped > 0 {
					msg += fmt.Sprintf(" (%d duplicates skipped)", skipped)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
				return err
			})
		},
	}
}
