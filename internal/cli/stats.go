package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/query"
)

func newStatsCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stats := s.store.Stats()
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(stats)
			}

			fmt.Fprintf(out, "Total:        %d\n", stats.Total)
			fmt.Fprintf(out, "To Do:        %d\n", stats.Todo)
			fmt.Fprintf(out, "In Progress:  %d\n", stats.InProgress)
			fmt.Fprintf(out, "Completed:    %d\n", stats.Completed)
			fmt.Fprintf(out, "Overdue:      %d\n", stats.Overdue)
			fmt.Fprintf(out, "Completion:   %d%%\n", query.CompletionPercent(stats))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print counts as JSON")
	return cmd
}
