package store

import (
	"github.com/tgienger/taskflow/internal/models"
)

// Tasks returns a copy of every task in insertion order
func (s *Store) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Task retrieves a task by ID
func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return models.Task{}, false
}

// AddTask appends a new task with a fresh id and the current time as its
// creation time. The input is not validated.
func (s *Store) AddTask(in models.TaskInput) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:          s.uniqueID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        models.CloneTags(in.Tags),
		Completed:   in.Completed,
		CreatedAt:   s.now().UTC(),
	}
	s.tasks = append(s.tasks, task)
	s.log.Debug().Str("id", task.ID).Msg("task added")

	return task.Clone(), s.persist(TasksKey, s.tasks)
}

// UpdateTask merges patch onto the task with the given id. Unknown ids are
// ignored. Status and Completed are not reconciled.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return nil
	}
	s.tasks[i] = patch.Apply(s.tasks[i])
	return s.persist(TasksKey, s.tasks)
}

// DeleteTask removes a task. Unknown ids are ignored.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return nil
	}
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	return s.persist(TasksKey, s.tasks)
}

// GetTasksByStatus returns the tasks with the given status in collection order
func (s *Store) GetTasksByStatus(status models.Status) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
