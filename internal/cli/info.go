package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// infoCommand creates the info command for resolving a package version.
func (c *CLI) infoCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <package> [version]",
		Short: "Resolve a package version without downloading it",
		Long: `Resolve a dist-tag, version or semver range and print the matching release.

The version defaults to the "latest" dist-tag. Ranges select the highest
published version that satisfies them.`,
		Example: `  plugfetch info lodash
  plugfetch info express "^4.18.0"
  plugfetch info @types/node next --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			client, err := c.newClient(logger)
			if err != nil {
				return err
			}

			name, version := args[0], optionalArg(args, 1)
			info, err := client.Get(ctx, name, version)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			printTitle(w, info.Name)
			printKeyValue(w, "Version", info.Version)
			printKeyLink(w, "Tarball", info.TarballURL)
			printKeyLink(w, "Registry", client.Scope(info.Name).Registry)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// optionalArg returns args[i], or "" when it was not given.
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
