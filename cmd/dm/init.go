package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// A child process can't change its parent's directory, so the navigating
// commands print their target and these wrappers cd into it.
const posixWrapper = `dm() {
  case "$1" in
    select|go|get-quick|last)
      local dir
      dir="$(command dm "$@")" || return
      [ -n "$dir" ] && cd -- "$dir"
      ;;
    *)
      command dm "$@"
      ;;
  esac
}
`

const fishWrapper = `function dm
    switch "$argv[1]"
        case select go get-quick last
            set -l dir (command dm $argv); or return
            test -n "$dir"; and cd -- $dir
        case '*'
            command dm $argv
    end
end
`

var shellWrappers = map[string]string{
	"bash": posixWrapper,
	"zsh":  posixWrapper,
	"fish": fishWrapper,
}

// createInitCommand creates the init command.
func createInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init SHELL",
		Short: "Print the shell function that makes navigation change directory",
		Long: `Print the shell function that makes navigation change directory.

Add this to your shell config:

  eval "$(dm init bash)"   # or zsh
  dm init fish | source`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			wrapper, ok := shellWrappers[args[0]]
			if !ok {
				return fmt.Errorf("unsupported shell %q", args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), wrapper)
			return err
		},
	}
}
