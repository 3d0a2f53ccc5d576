package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/plugfetch/pkg/config"
	"github.com/matzehuels/plugfetch/pkg/registry"
)

// configCommand creates the config command with path and show subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect plugfetch configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings, flags included",
		Long: `Print the effective settings after the config file and command-line flags
are combined. Secrets are never printed, only the kind of credential.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			f, err := c.loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				printWarning(w, "no config file at %s, using defaults", path)
			}
			printEffectiveConfig(w, f)
			return nil
		},
	})

	return cmd
}

func (c *CLI) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

func printEffectiveConfig(w io.Writer, f *config.File) {
	cfg := f.ClientConfig()
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = registry.DefaultUserAgent
	}

	printTitle(w, "default")
	printKeyLink(w, "Registry", f.RegistryURL())
	printKeyValue(w, "Auth", describeCredential(cfg.Auth))
	printKeyValue(w, "User-Agent", userAgent)

	for _, name := range slices.Sorted(maps.Keys(cfg.Scopes)) {
		s := cfg.Scopes[name]
		printTitle(w, name)
		printKeyLink(w, "Registry", s.Registry)
		printKeyValue(w, "Auth", describeCredential(s.Auth))
	}
}

// describeCredential names the kind of credential without revealing it.
func describeCredential(c registry.Credential) string {
	switch c := c.(type) {
	case registry.TokenAuth:
		if c.Header != "" {
			return "token (" + c.Header + ")"
		}
		return "bearer token"
	case registry.BasicAuth:
		return "basic (" + c.Username + ")"
	}
	return "none"
}
