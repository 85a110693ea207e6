package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusAndPriority(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStatus("done")
	assert.Error(t, err)

	for _, p := range Priorities {
		got, err := ParsePriority(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err = ParsePriority("urgent")
	assert.Error(t, err)

	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
}

func TestTaskPatch_Apply(t *testing.T) {
	base := Task{
		ID:       "id",
		Title:    "old",
		Status:   StatusTodo,
		Priority: PriorityLow,
		DueDate:  "2024-01-01",
		Tags:     []Tag{{ID: "1", Name: "Work"}},
	}

	title := "new"
	none := ""
	got := TaskPatch{Title: &title, DueDate: &none}.Apply(base)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "", got.DueDate)
	assert.Equal(t, StatusTodo, got.Status)
	assert.Equal(t, base.Tags, got.Tags)
	assert.Equal(t, "old", base.Title)
}

func TestTaskClone(t *testing.T) {
	orig := Task{ID: "a", Tags: []Tag{{ID: "1", Name: "Work"}}}
	c := orig.Clone()
	c.Tags[0].Name = "changed"
	assert.Equal(t, "Work", orig.Tags[0].Name)
	assert.True(t, orig.HasTag("1"))
	assert.False(t, orig.HasTag("2"))
}

func TestDefaultTags(t *testing.T) {
	tags := DefaultTags()
	require.Len(t, tags, 3)
	assert.Equal(t, Tag{ID: "3", Name: "Urgent", Color: "#EF4444"}, tags[2])

	// Each call returns a fresh slice
	tags[0].Name = "changed"
	assert.Equal(t, "Work", DefaultTags()[0].Name)
}
