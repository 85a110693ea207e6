package cli

import (
	"fmt"
	"regexp"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/store"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func validColor(c string) error {
	if !hexColor.MatchString(c) {
		return fmt.Errorf("invalid color %q (want #RRGGBB)", c)
	}
	return nil
}

func newTagsCmd(g *globalFlags) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "List and manage tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			tasks := s.store.Tasks()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tTASKS")
			for _, t := range s.store.Tags() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", t.ID, t.Name, t.Color, len(query.TasksWithTag(tasks, t.ID)))
			}
			return tw.Flush()
		},
	}

	tagsCmd.AddCommand(newTagAddCmd(g))
	tagsCmd.AddCommand(newTagEditCmd(g))
	tagsCmd.AddCommand(newTagRmCmd(g))
	return tagsCmd
}

func newTagAddCmd(g *globalFlags) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validColor(color); err != nil {
				return err
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			tag, err := s.store.AddTag(models.TagInput{Name: args[0], Color: color})
			if err != nil {
				return fmt.Errorf("saving tag: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s %q\n", tag.ID, tag.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", models.TagPalette[0], "Tag color (#RRGGBB)")
	return cmd
}

func newTagEditCmd(g *globalFlags) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or recolor a tag, updating every task that carries it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("color") {
				return fmt.Errorf("nothing to change (use --name or --color)")
			}
			if flags.Changed("color") {
				if err := validColor(color); err != nil {
					return err
				}
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			tag, ok := findTag(s.store.Tags(), args[0])
			if !ok {
				fmt.Fprintf(out, "No tag %s.\n", args[0])
				return nil
			}

			patch := models.TagPatch{}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("color") {
				patch.Color = &color
			}
			updated := patch.Apply(tag)

			affected := len(query.TasksWithTag(s.store.Tasks(), tag.ID))
			if err := store.PropagateTagEdit(s.store, updated); err != nil {
				return fmt.Errorf("saving tag: %w", err)
			}
			fmt.Fprintf(out, "Updated tag %s on %d task(s)\n", updated.ID, affected)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&color, "color", "c", "", "New color (#RRGGBB)")
	return cmd
}

func newTagRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag and remove it from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			tag, ok := findTag(s.store.Tags(), args[0])
			if !ok {
				fmt.Fprintf(out, "No tag %s.\n", args[0])
				return nil
			}
			affected := len(query.TasksWithTag(s.store.Tasks(), tag.ID))
			if err := s.store.DeleteTag(tag.ID); err != nil {
				return fmt.Errorf("deleting tag: %w", err)
			}
			fmt.Fprintf(out, "Deleted tag %q from %d task(s)\n", tag.Name, affected)
			return nil
		},
	}
}
