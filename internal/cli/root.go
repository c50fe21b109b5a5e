package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/five82/panegrid/internal/app"
	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/config"
	"github.com/five82/panegrid/internal/persist"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
}

// Execute runs the panegrid CLI until ctx is cancelled.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var (
		prefsPath string
		env       string
		poll      time.Duration
	)

	root := &cobra.Command{
		Use:          "panegrid",
		Short:        "panegrid lays out dashboard panes on a grid",
		Long:         `panegrid is the terminal client of a live visualization dashboard. It places incoming panes on a fixed-column grid, keeps positions stable, and saves named views per environment.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if flags.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  prefsPath,
				Env:        env,
				PollEvery:  poll,
				Verbose:    flags.verbose,
			})
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/panegrid/config.toml)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/panegrid/prefs.toml)")
	root.Flags().StringVar(&env, "env", "", "environment to open (overrides prefs and config)")
	root.Flags().DurationVar(&poll, "poll", 0, "event poll interval (default from config)")

	root.AddCommand(newPackCmd())
	root.AddCommand(newEnvCmd(flags))
	root.AddCommand(newViewsCmd(flags))
	root.AddCommand(newLogsCmd(flags))

	return root
}

// openStore loads the config and opens the local layout database.
func openStore(flags *rootFlags) (config.Config, *persist.SQLite, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	store, err := persist.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open layout store: %w", err)
	}
	return cfg, store, nil
}

// remoteClient builds the backend client, or nil when local is set.
func remoteClient(cfg config.Config, local bool) (board.EventSource, error) {
	if local {
		return nil, nil
	}
	client, err := board.NewClient(cfg.APIBind)
	if err != nil {
		return nil, fmt.Errorf("init board client: %w", err)
	}
	return client, nil
}

func closeStore(store *persist.SQLite) {
	if err := store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close layout store: %v\n", err)
	}
}
