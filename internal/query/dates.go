package query

import (
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

const dateLayout = "2006-01-02"

// ParseDueDate reads a due date. Bare dates are midnight UTC; full RFC3339
// timestamps are also accepted. Empty or unparsable values report false.
func ParseDueDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDueDate renders a due date for display
func FormatDueDate(s string) string {
	t, ok := ParseDueDate(s)
	if !ok {
		return "No due date"
	}
	return t.Format("Jan 2, 2006")
}

// IsOverdue reports whether a task with this due date and status is past due
// at now. Completed tasks are never overdue.
func IsOverdue(dueDate string, status models.Status, now time.Time) bool {
	if status == models.StatusCompleted {
		return false
	}
	due, ok := ParseDueDate(dueDate)
	if !ok {
		return false
	}
	return due.Before(now)
}

// TasksDueOn returns tasks whose due date falls on the same calendar day as
// day, compared in day's location
func TasksDueOn(tasks []models.Task, day time.Time) []models.Task {
	y, m, d := day.Date()
	var out []models.Task
	for _, t := range tasks {
		due, ok := ParseDueDate(t.DueDate)
		if !ok {
			continue
		}
		// Bare dates are calendar days, not instants
		if len(t.DueDate) == len(dateLayout) {
			due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, day.Location())
		} else {
			due = due.In(day.Location())
		}
		dy, dm, dd := due.Date()
		if dy == y && dm == m && dd == d {
			out = append(out, t)
		}
	}
	return out
}

// WithDueDate returns the tasks that have a usable due date
func WithDueDate(tasks []models.Task) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if _, ok := ParseDueDate(t.DueDate); ok {
			out = append(out, t)
		}
	}
	return out
}
