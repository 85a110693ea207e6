package models

import (
	"fmt"
	"time"
)

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in workflow order
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// Label returns the human readable name of the status
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Rank orders statuses by workflow position (todo first)
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// ParseStatus validates user input. The store itself accepts any value.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (want todo, in-progress or completed)", s)
}

// Priority is the importance of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Rank orders priorities low < medium < high. Unknown values rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	}
	return -1
}

// ParsePriority validates user input
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
}

// Tag is a colored label. Tasks embed copies of tags, not references.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task represents a single task
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate"` // ISO date, empty when absent
	Tags        []Tag     `json:"tags"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasTag reports whether the task carries a copy of the tag with the given ID
func (t Task) HasTag(id string) bool {
	for _, tag := range t.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy of the task that shares no slices with t
func (t Task) Clone() Task {
	c := t
	c.Tags = CloneTags(t.Tags)
	return c
}

// CloneTags copies a tag slice. A nil slice becomes an empty one.
func CloneTags(tags []Tag) []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}

// TaskInput holds the caller supplied fields of a new task
type TaskInput struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     string
	Tags        []Tag
	Completed   bool
}

// TaskPatch is a partial update. Nil fields are left untouched; a non-nil
// empty Tags slice clears the task's tags.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *string
	Tags        []Tag
	Completed   *bool
}

// Apply shallow-merges the patch onto t
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Tags != nil {
		t.Tags = CloneTags(p.Tags)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// StatusPatch sets status and the completed flag together
func StatusPatch(s Status) TaskPatch {
	done := s == StatusCompleted
	return TaskPatch{Status: &s, Completed: &done}
}

// TagInput holds the caller supplied fields of a new tag
type TagInput struct {
	Name  string
	Color string
}

// TagPatch is a partial update of a catalogue tag
type TagPatch struct {
	Name  *string
	Color *string
}

// Apply merges the patch onto tag
func (p TagPatch) Apply(tag Tag) Tag {
	if p.Name != nil {
		tag.Name = *p.Name
	}
	if p.Color != nil {
		tag.Color = *p.Color
	}
	return tag
}

// TaskStats are counts derived from the task collection on every read
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Todo       int `json:"todo"`
	Overdue    int `json:"overdue"`
}

// DefaultTags is the tag catalogue used when nothing has been saved yet
func DefaultTags() []Tag {
	return []Tag{
		{ID: "1", Name: "Work", Color: "#3B82F6"},
		{ID: "2", Name: "Personal", Color: "#10B981"},
		{ID: "3", Name: "Urgent", Color: "#EF4444"},
	}
}

// TagPalette are the preset colors offered when creating a tag
var TagPalette = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // yellow
	"#EF4444", // red
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#F97316", // orange
}
