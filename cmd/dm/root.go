package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/dm/internal/command"
	"github.com/nikbrunner/dm/internal/logging"
	"github.com/nikbrunner/dm/internal/model"
	"github.com/nikbrunner/dm/internal/picker"
	"github.com/nikbrunner/dm/internal/storage"
	"github.com/nikbrunner/dm/internal/store"
)

var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#9A6A1E", Dark: "#D7AF5F"}).
	Bold(true)

// env holds the process dependencies the commands touch.
type env struct {
	fs         afero.Fs
	isTerminal func() bool
	pick       func([]model.Bookmark) (model.Bookmark, bool, error)
	getwd      func() (string, error)
	chdir      func(dir string) error
	copyText   func(text string) error
	logWriter  io.Writer // nil writes to the rotated log file
}

func defaultEnv() env {
	return env{
		fs: afero.NewOsFs(),
		isTerminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		pick:     picker.Run,
		getwd:    os.Getwd,
		chdir:    os.Chdir,
		copyText: clipboard.WriteAll,
	}
}

// createNewRootCommand creates the main root command that shows help by default.
func createNewRootCommand() *cobra.Command {
	return newRootCommand(defaultEnv())
}

func newRootCommand(e env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dm",
		Short: "Directory bookmarks",
		Long: `dm records directories under an optional name and jumps back to them.

Commands that navigate print the target directory on stdout; run
"dm init bash" (or zsh, fish) to get a shell function that cds into it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", storage.DefaultConfigFilePath(), "Path to config file")
	rootCmd.PersistentFlags().String("store", "", "Path to bookmark store (overrides config)")

	rootCmd.AddCommand(
		createRecordCommand(e),
		createListCommand(e),
		createSelectCommand(e),
		createRemoveCommand(e),
		createClearCommand(e),
		createSetQuickCommand(e),
		createGetQuickCommand(e),
		createLastCommand(e),
		createFindCommand(e),
		createYankCommand(e),
		createCheckCommand(e),
		createPruneCommand(e),
		createExportCommand(e),
		createImportCommand(e),
		createInitCommand(),
	)

	return rootCmd
}

// app is the per-invocation wiring of config, logging, storage and commands.
type app struct {
	env       env
	commander *command.Commander
	close     func() error
}

// createAppFromCommand reads the persistent flags and builds an app.
func createAppFromCommand(cmd *cobra.Command, e env) (*app, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	storePath, err := cmd.Flags().GetString("store")
	if err != nil {
		return nil, fmt.Errorf("failed to get store flag: %w", err)
	}

	config, err := storage.LoadConfig(e.fs, configPath)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		config.Storage.Path = storePath
	}

	logger, err := logging.New(e.fs, logging.Config{
		Writer: e.logWriter,
		Path:   config.LogPath(),
		Level:  config.Logging.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	backend, closeBackend, err := storage.Open(e.fs, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open bookmark store: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	s := store.New(store.Params{
		Backend: backend,
		Logger:  &logger,
		Warn: func(err error) {
			_, _ = fmt.Fprintf(errOut, "%s %v (treating bookmarks as empty)\n", warnStyle.Render("warning:"), err)
		},
		ExclusiveQuick: config.Quick.Exclusive,
	})

	return &app{
		env: e,
		commander: command.New(command.Params{
			Store:    s,
			Fs:       e.fs,
			Logger:   &logger,
			Getwd:    e.getwd,
			Chdir:    e.chdir,
			CopyText: e.copyText,
		}),
		close: closeBackend,
	}, nil
}

// withApp builds an app for the duration of fn.
func withApp(cmd *cobra.Command, e env, fn func(a *app) error) error {
	a, err := createAppFromCommand(cmd, e)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()
	return fn(a)
}

// selector parses the positional selector. Without one it falls back to the
// picker when stdin is a terminal; ok is false if the user cancelled.
func (a *app) selector(args []string) (sel model.Selector, ok bool, err error) {
	if len(args) > 0 {
		sel, err = model.ParseSelector(args[0])
		if err != nil {
			return model.Selector{}, false, err
		}
		return sel, true, nil
	}

	if a.env.isTerminal == nil || !a.env.isTerminal() {
		return model.Selector{}, false, fmt.Errorf("no selector given: %w", model.ErrInvalidSelector)
	}

	bookmarks := slices.Collect(a.commander.List())
	if len(bookmarks) == 0 {
		return model.Selector{}, false, fmt.Errorf("no bookmarks recorded: %w", model.ErrNotFound)
	}

	b, ok, err := a.env.pick(bookmarks)
	if err != nil || !ok {
		return model.Selector{}, false, err
	}
	return model.SelectIndex(b.No), true, nil
}
