package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
)

type addOptions struct {
	description string
	priority    string
	status      string
	due         string
	tags        []string
}

func newAddCmd(g *globalFlags) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, g, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&opts.priority, "priority", "p", string(models.PriorityMedium), "Priority: low, medium or high")
	cmd.Flags().StringVar(&opts.status, "status", string(models.StatusTodo), "Status: todo, in-progress or completed")
	cmd.Flags().StringVar(&opts.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVarP(&opts.tags, "tag", "t", nil, "Tag id or name (repeatable)")

	return cmd
}

func runAdd(cmd *cobra.Command, g *globalFlags, opts *addOptions, title string) error {
	priority, err := models.ParsePriority(opts.priority)
	if err != nil {
		return err
	}
	status, err := models.ParseStatus(opts.status)
	if err != nil {
		return err
	}
	if _, ok := query.ParseDueDate(opts.due); opts.due != "" && !ok {
		return fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", opts.due)
	}

	s, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	catalogue := s.store.Tags()
	tags := make([]models.Tag, 0, len(opts.tags))
	for _, ref := range opts.tags {
		tag, ok := findTag(catalogue, ref)
		if !ok {
			return fmt.Errorf("no tag %q", ref)
		}
		if !containsTagID(tags, tag.ID) {
			tags = append(tags, tag)
		}
	}

	task, err := s.store.AddTask(models.TaskInput{
		Title:       title,
		Description: opts.description,
		Status:      status,
		Priority:    priority,
		DueDate:     opts.due,
		Tags:        tags,
		Completed:   status == models.StatusCompleted,
	})
	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q\n", task.ID, task.Title)
	return nil
}

func newDoneCmd(g *globalFlags) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed (or set another status with --status)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := models.ParseStatus(status)
			if err != nil {
				return err
			}

			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			task, ok := s.store.Task(args[0])
			if !ok {
				fmt.Fprintf(out, "No task with id %s.\n", args[0])
				return nil
			}
			if err := s.store.UpdateTask(task.ID, models.StatusPatch(st)); err != nil {
				return fmt.Errorf("saving task: %w", err)
			}
			fmt.Fprintf(out, "%s %q is now %s\n", task.ID, task.Title, st.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(models.StatusCompleted), "Status to set")
	return cmd
}

func newRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			task, ok := s.store.Task(args[0])
			if !ok {
				fmt.Fprintf(out, "No task with id %s.\n", args[0])
				return nil
			}
			if err := s.store.DeleteTask(task.ID); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}
			fmt.Fprintf(out, "Deleted %s %q\n", task.ID, task.Title)
			return nil
		},
	}
}

func containsTagID(tags []models.Tag, id string) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
