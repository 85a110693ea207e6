// Package cli wires configuration, logging and storage into the cobra
// command tree. Running taskflow without a subcommand starts the terminal UI.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/config"
	"github.com/tgienger/taskflow/internal/logging"
	"github.com/tgienger/taskflow/internal/storage"
	"github.com/tgienger/taskflow/internal/store"
)

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	configPath string
	backend    string
	dataDir    string
	redisAddr  string
	logLevel   string
	verbose    bool
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "taskflow",
		Short: "TaskFlow - a terminal task manager",
		Long: `TaskFlow keeps tasks with status, priority, due dates and colored tags.

Run without arguments to open the dashboard, or use the subcommands for scripting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, g)
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/taskflow/config.yaml)")
	pf.StringVar(&g.backend, "storage", "", "Storage backend: sqlite, memory or redis")
	pf.StringVar(&g.dataDir, "data-dir", "", "Directory holding the sqlite database")
	pf.StringVar(&g.redisAddr, "redis-addr", "", "Redis address for the redis backend")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newStatsCmd(g))
	rootCmd.AddCommand(newAddCmd(g))
	rootCmd.AddCommand(newDoneCmd(g))
	rootCmd.AddCommand(newRmCmd(g))
	rootCmd.AddCommand(newTagsCmd(g))
	rootCmd.AddCommand(newResetCmd(g))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads configuration and applies any flags given on the command
// line on top of it
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Backend = g.backend
	}
	if flags.Changed("data-dir") {
		cfg.Storage.DataDir = g.dataDir
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr = g.redisAddr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	return cfg, nil
}

// session is an opened store plus everything that must be released with it
type session struct {
	cfg     *config.Config
	store   *store.Store
	log     zerolog.Logger
	closers []io.Closer
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			s.log.Warn().Err(err).Msg("close")
		}
	}
}

// open loads configuration and the store for a subcommand. Logs go to
// stderr with --verbose and are discarded otherwise.
func (g *globalFlags) open(cmd *cobra.Command) (*session, error) {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if g.verbose {
		log = logging.NewConsole(cmd.ErrOrStderr(), cfg.Log.Level)
	}
	return openSession(cfg, log, nil)
}

func openSession(cfg *config.Config, log zerolog.Logger, closers []io.Closer) (*session, error) {
	s := &session{cfg: cfg, log: log, closers: closers}

	adapter, err := storage.Open(cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	s.closers = append(s.closers, adapter)
	log.Debug().Str("backend", cfg.Storage.Backend).Msg("storage opened")

	s.store = store.New(adapter, store.WithLogger(log))
	return s, nil
}
