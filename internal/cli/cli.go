package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plugfetch/pkg/buildinfo"
	"github.com/matzehuels/plugfetch/pkg/config"
	perrors "github.com/matzehuels/plugfetch/pkg/errors"
	"github.com/matzehuels/plugfetch/pkg/httputil"
	"github.com/matzehuels/plugfetch/pkg/observability"
	"github.com/matzehuels/plugfetch/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "plugfetch"

	// defaultDest is where fetched packages land when --dest is not given.
	defaultDest = "plugin_packages"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	overrides  config.Overrides
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "plugfetch installs packages from npm registries",
		Long: `plugfetch resolves package versions against npm-compatible registries,
downloads the matching tarball and extracts it into a local plugin directory.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/plugfetch/config.toml)")
	flags.StringVar(&c.overrides.Registry, "registry", "", "default registry URL")
	flags.StringVar(&c.overrides.Token, "token", "", "bearer token for the default registry")
	flags.StringVar(&c.overrides.UserAgent, "user-agent", "", "user-agent header sent to registries")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// PrintError reports err the way commands print their results.
func PrintError(w io.Writer, err error) {
	if code := perrors.GetCode(err); code != "" {
		printError(w, "%s %s", perrors.UserMessage(err), StyleDim.Render("("+string(code)+")"))
		return
	}
	printError(w, "%v", err)
}

// =============================================================================
// Client Factory
// =============================================================================

// loadConfig reads the config file and applies the command-line overrides.
func (c *CLI) loadConfig() (*config.File, error) {
	f, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	f = f.Apply(c.overrides)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// newClient builds a registry client whose requests are traced at debug
// level on logger.
func (c *CLI) newClient(logger *log.Logger) (*registry.Client, error) {
	f, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	transport := httputil.NewTransport(httputil.WithHooks(observability.NewLogHTTPHooks(logger)))
	return registry.New(f.RegistryURL(), f.ClientConfig(),
		registry.WithTransport(transport),
		registry.WithLogger(logger),
	), nil
}
