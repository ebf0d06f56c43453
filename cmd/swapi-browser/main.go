// main.go sets up the swapi-browser command line. The root command loads
// configuration and logging for every subcommand; serve starts the web UI
// and people/planets print collection pages to the terminal.

package main

import (
	"os"

	"github.com/Sternrassler/swapi-browser/internal/config"
	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/Sternrassler/swapi-browser/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// set by the linker
var (
	version   = "dev"
	commit    = ""
	date      = ""
	builtBy   = ""
	treeState = ""
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

// app carries state shared by the subcommands after PersistentPreRunE ran.
type app struct {
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
}

// newRootCmd creates the root command. Tests build a fresh tree per case.
func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Browse the people and planets of the Star Wars API.",
		Long: `swapi-browser pages through the people and planets collections of the
Star Wars API. "serve" starts a small web UI, "people" and "planets"
print a page (or every page with --all) to the terminal.

Configuration is read from flags, SWAPI_* environment variables and
swapi-browser.yaml, in that order of precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: swapi-browser.yaml in the user config dir)")
	pf.String("base-url", "", "API root (default "+client.DefaultBaseURL+")")
	pf.String("user-agent", "", "User-Agent sent with every request")
	pf.Duration("timeout", 0, "per-request timeout (default 30s)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-pretty", false, "human-readable console logs")

	cmd.AddCommand(
		a.newServeCmd(),
		a.newListCmd(client.ResourcePeople),
		a.newListCmd(client.ResourcePlanets),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup loads the configuration and installs the global logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := cfg.ToLogging()
	logCfg.Output = cmd.ErrOrStderr()
	logging.Setup(logCfg)

	a.logger = logging.NewLogger(logging.ComponentCLI)
	if cfg.Source != "" {
		a.logger.Debug().Str("file", cfg.Source).Msg("Config loaded")
	}
	return nil
}

func (a *app) newClient() (*client.Client, error) {
	return client.New(a.cfg.ToClient())
}
