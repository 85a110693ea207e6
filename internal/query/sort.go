package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tgienger/taskflow/internal/models"
)

// SortKey names the task field to sort by
type SortKey string

const (
	SortByCreatedAt SortKey = "createdAt"
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByTitle     SortKey = "title"
	SortByStatus    SortKey = "status"
)

// SortOrder is asc or desc
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortByCreatedAt, SortByDueDate, SortByPriority, SortByTitle, SortByStatus:
		return k, nil
	}
	return "", fmt.Errorf("invalid sort key %q", s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case Asc, Desc:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort order %q (want asc or desc)", s)
}

// SortOption is one entry of the task list's sort menu
type SortOption struct {
	Label string
	Key   SortKey
	Order SortOrder
}

// SortOptions are the presets offered by the task list, default first
var SortOptions = []SortOption{
	{"Newest First", SortByCreatedAt, Desc},
	{"Oldest First", SortByCreatedAt, Asc},
	{"Due Date (Earliest)", SortByDueDate, Asc},
	{"Due Date (Latest)", SortByDueDate, Desc},
	{"Priority (High-Low)", SortByPriority, Desc},
	{"Priority (Low-High)", SortByPriority, Asc},
}

// SortTasks returns a sorted copy of tasks. Tasks without a due date come
// first in ascending order and last in descending order. Equal keys keep
// their input order.
func SortTasks(tasks []models.Task, key SortKey, order SortOrder) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	desc := order == Desc
	sort.SliceStable(out, func(i, j int) bool {
		if key == SortByDueDate {
			a, aok := ParseDueDate(out[i].DueDate)
			b, bok := ParseDueDate(out[j].DueDate)
			switch {
			case !aok && !bok:
				return false
			case !aok:
				return !desc
			case !bok:
				return desc
			}
			return less(compareTime(a, b), desc)
		}
		return less(compare(out[i], out[j], key), desc)
	})
	return out
}

func less(c int, desc bool) bool {
	if desc {
		return c > 0
	}
	return c < 0
}

func compare(a, b models.Task, key SortKey) int {
	switch key {
	case SortByCreatedAt:
		return compareTime(a.CreatedAt, b.CreatedAt)
	case SortByPriority:
		return compareInt(a.Priority.Rank(), b.Priority.Rank())
	case SortByStatus:
		return compareInt(a.Status.Rank(), b.Status.Rank())
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// RecentN returns the n most recently created tasks, newest first
func RecentN(tasks []models.Task, n int) []models.Task {
	sorted := SortTasks(tasks, SortByCreatedAt, Desc)
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
