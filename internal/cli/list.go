package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
)

type listOptions struct {
	status string
	sort   string
	order  string
	search string
	tag    string
	json   bool
}

func newListCmd(g *globalFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.status, "status", "all", "Filter by status: all, todo, in-progress or completed")
	cmd.Flags().StringVar(&opts.sort, "sort", "createdAt", "Sort key: createdAt, dueDate, priority, title or status")
	cmd.Flags().StringVar(&opts.order, "order", "desc", "Sort order: asc or desc")
	cmd.Flags().StringVar(&opts.search, "search", "", "Only tasks whose title or description contains this text")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "Only tasks carrying this tag (id or name)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print tasks as JSON")

	return cmd
}

func runList(cmd *cobra.Command, g *globalFlags, opts *listOptions) error {
	status, err := query.ParseStatusFilter(opts.status)
	if err != nil {
		return err
	}
	key, err := query.ParseSortKey(opts.sort)
	if err != nil {
		return err
	}
	order, err := query.ParseSortOrder(opts.order)
	if err != nil {
		return err
	}

	s, err := g.open(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	tasks := query.FilterByStatus(s.store.Tasks(), status)
	if opts.tag != "" {
		tag, ok := findTag(s.store.Tags(), opts.tag)
		if !ok {
			return fmt.Errorf("no tag %q", opts.tag)
		}
		tasks = query.FilterByTag(tasks, tag.ID)
	}
	tasks = query.Search(tasks, opts.search)
	tasks = query.SortTasks(tasks, key, order)

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}
	return printTasks(out, tasks, s.store.Now())
}

// printTasks writes one aligned row per task. Overdue due dates are marked
// with a trailing "!".
func printTasks(w io.Writer, tasks []models.Task, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE\tTAGS")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != "" {
			due = t.DueDate
			if query.IsOverdue(t.DueDate, t.Status, now) {
				due += "!"
			}
		}
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = tag.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Status, t.Priority, due, t.Title, strings.Join(names, ","))
	}
	return tw.Flush()
}

// findTag resolves a tag by id, then by case-insensitive name
func findTag(tags []models.Tag, ref string) (models.Tag, bool) {
	for _, t := range tags {
		if t.ID == ref {
			return t, true
		}
	}
	for _, t := range tags {
		if strings.EqualFold(t.Name, ref) {
			return t, true
		}
	}
	return models.Tag{}, false
}
