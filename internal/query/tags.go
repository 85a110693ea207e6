package query

import "github.com/tgienger/taskflow/internal/models"

// TasksWithTag returns the tasks carrying a copy of the tag
func TasksWithTag(tasks []models.Task, tagID string) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.HasTag(tagID) {
			out = append(out, t)
		}
	}
	return out
}

// ReplaceTag returns a copy of tags where the entry sharing updated's ID is
// replaced in place. Other entries and their order are untouched.
func ReplaceTag(tags []models.Tag, updated models.Tag) []models.Tag {
	out := models.CloneTags(tags)
	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
		}
	}
	return out
}

// RemoveTag returns a copy of tags without the entry with the given ID
func RemoveTag(tags []models.Tag, tagID string) []models.Tag {
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID != tagID {
			out = append(out, t)
		}
	}
	return out
}

// ToggleTag adds tag when absent and removes it when present
func ToggleTag(tags []models.Tag, tag models.Tag) []models.Tag {
	for _, t := range tags {
		if t.ID == tag.ID {
			return RemoveTag(tags, tag.ID)
		}
	}
	return append(models.CloneTags(tags), tag)
}
