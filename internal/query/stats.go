package query

import (
	"math"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// ComputeStats counts tasks by status and overdue state at now. A task with
// the Completed flag set is never overdue; otherwise status decides.
func ComputeStats(tasks []models.Task, now time.Time) models.TaskStats {
	stats := models.TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusTodo:
			stats.Todo++
		}
		if !t.Completed && IsOverdue(t.DueDate, t.Status, now) {
			stats.Overdue++
		}
	}
	return stats
}

// CompletionPercent is completed/total rounded to a whole percent, 0 when
// there are no tasks
func CompletionPercent(stats models.TaskStats) int {
	if stats.Total == 0 {
		return 0
	}
	return int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
}
