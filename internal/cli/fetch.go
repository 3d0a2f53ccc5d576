package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fetchCommand creates the fetch command for downloading and extracting a package.
func (c *CLI) fetchCommand() *cobra.Command {
	var dest string

	cmd := &cobra.Command{
		Use:   "fetch <package> [version]",
		Short: "Download and extract a package",
		Long: `Resolve a package version, download its tarball and extract it into
<dest>/<package>. Scoped packages land in <dest>/@scope/<name>.

Existing files in the target directory are overwritten.`,
		Example: `  plugfetch fetch lodash
  plugfetch fetch @acme/widgets "~2.1" --dest ./plugins`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			client, err := c.newClient(logger)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			info, err := client.Get(ctx, args[0], optionalArg(args, 1))
			if err != nil {
				return err
			}
			logger.Info("Resolved package", "package", info.Name, "version", info.Version)

			dir, err := client.Download(ctx, dest, *info)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched %s@%s", info.Name, info.Version))

			w := cmd.OutOrStdout()
			printSuccess(w, "%s@%s", info.Name, info.Version)
			printFile(w, dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", defaultDest, "directory packages are extracted into")
	return cmd
}
