// Package query holds pure functions that derive views from task slices.
// Nothing here mutates its input.
package query

import (
	"strings"

	"github.com/tgienger/taskflow/internal/models"
)

// StatusFilter is a status or "all"
type StatusFilter string

const FilterAll StatusFilter = "all"

// ParseStatusFilter accepts "all" (or empty) and the three statuses
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	st, err := models.ParseStatus(s)
	if err != nil {
		return "", err
	}
	return StatusFilter(st), nil
}

// FilterByStatus keeps tasks with the given status in their original order.
// FilterAll returns tasks as is.
func FilterByStatus(tasks []models.Task, f StatusFilter) []models.Task {
	if f == FilterAll {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if string(t.Status) == string(f) {
			out = append(out, t)
		}
	}
	return out
}

// Search keeps tasks whose title or description contains q, ignoring case.
// An empty query keeps everything.
func Search(tasks []models.Task, q string) []models.Task {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return tasks
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByTag keeps tasks that carry the tag. An empty id keeps everything.
func FilterByTag(tasks []models.Task, tagID string) []models.Task {
	if tagID == "" {
		return tasks
	}
	return TasksWithTag(tasks, tagID)
}
