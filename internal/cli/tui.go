package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/logging"
	"github.com/tgienger/taskflow/internal/ui"
)

// runTUI starts the terminal UI. The UI owns the terminal, so logs go to a
// file.
func runTUI(cmd *cobra.Command, g *globalFlags) error {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}

	log, logFile, err := logging.New(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	// openSession releases the log file on failure
	s, err := openSession(cfg, log, []io.Closer{logFile})
	if err != nil {
		return err
	}
	defer s.Close()

	log.Info().Str("backend", cfg.Storage.Backend).Msg("starting ui")

	// Create and run the application
	app := ui.NewApp(s.store, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
