package store

import (
	"errors"

	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
)

// Tags returns a copy of the tag catalogue
func (s *Store) Tags() []models.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneTags(s.tags)
}

// AddTag appends a tag with a fresh id
func (s *Store) AddTag(in models.TagInput) (models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag := models.Tag{ID: s.uniqueID(), Name: in.Name, Color: in.Color}
	s.tags = append(s.tags, tag)
	return tag, s.persist(TagsKey, s.tags)
}

// UpdateTag edits the catalogue entry only. Copies already embedded in tasks
// keep their old name and color; see PropagateTagEdit.
func (s *Store) UpdateTag(id string, patch models.TagPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tags {
		if s.tags[i].ID == id {
			s.tags[i] = patch.Apply(s.tags[i])
			return s.persist(TagsKey, s.tags)
		}
	}
	return nil
}

// DeleteTag removes the tag from the catalogue and strips its copy from
// every task
func (s *Store) DeleteTag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	before := len(s.tags)
	s.tags = query.RemoveTag(s.tags, id)
	if len(s.tags) != before {
		errs = append(errs, s.persist(TagsKey, s.tags))
	}

	touched := 0
	for i := range s.tasks {
		if s.tasks[i].HasTag(id) {
			s.tasks[i].Tags = query.RemoveTag(s.tasks[i].Tags, id)
			touched++
		}
	}
	if touched > 0 {
		errs = append(errs, s.persist(TasksKey, s.tasks))
	}
	s.log.Debug().Str("id", id).Int("tasks", touched).Msg("tag deleted")

	return errors.Join(errs...)
}

// PropagateTagEdit applies an edited tag everywhere a caller expects it:
// each task holding the tag gets its copy rewritten in place, then the
// catalogue entry is updated. Store.UpdateTag alone never does this.
func PropagateTagEdit(s TaskStore, tag models.Tag) error {
	var errs []error
	for _, t := range query.TasksWithTag(s.Tasks(), tag.ID) {
		errs = append(errs, s.UpdateTask(t.ID, models.TaskPatch{Tags: query.ReplaceTag(t.Tags, tag)}))
	}
	errs = append(errs, s.UpdateTag(tag.ID, models.TagPatch{Name: &tag.Name, Color: &tag.Color}))
	return errors.Join(errs...)
}
