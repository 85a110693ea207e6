package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(g *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every task and restore the default tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes all tasks; rerun with --yes to confirm")
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.store.Reset(); err != nil {
				return fmt.Errorf("resetting store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Store reset.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskflow %s\n", version)
		},
	}
}
