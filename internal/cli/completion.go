package cli

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script for each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	shells := slices.Sorted(maps.Keys(completionGenerators))

	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for plugfetch and print it to stdout.

Load it for the current shell session:

  bash:        source <(plugfetch completion bash)
  zsh:         source <(plugfetch completion zsh)
  fish:        plugfetch completion fish | source
  powershell:  plugfetch completion powershell | Out-String | Invoke-Expression

To keep completions across sessions, redirect the output into your shell's
completion directory instead.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
