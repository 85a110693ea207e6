// Package store owns the task and tag collections, applies every mutation
// and mirrors both collections to a storage.Adapter after each change.
package store

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/storage"
)

// Keys under which the collections are persisted
const (
	TasksKey = "tasks"
	TagsKey  = "tags"
)

// TaskStore is the surface the UI and CLI work against
type TaskStore interface {
	Tasks() []models.Task
	Task(id string) (models.Task, bool)
	AddTask(in models.TaskInput) (models.Task, error)
	UpdateTask(id string, patch models.TaskPatch) error
	DeleteTask(id string) error
	GetTasksByStatus(status models.Status) []models.Task
	Stats() models.TaskStats

	Tags() []models.Tag
	AddTag(in models.TagInput) (models.Tag, error)
	UpdateTag(id string, patch models.TagPatch) error
	DeleteTag(id string) error

	// Now is the store's clock, used by views to evaluate overdue state
	Now() time.Time
}

// Store is the in-memory task and tag state. All methods are safe for
// concurrent use; mutations and their writes are serialized.
type Store struct {
	mu      sync.Mutex
	adapter storage.Adapter
	tasks   []models.Task
	tags    []models.Tag

	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

var _ TaskStore = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the random id generator
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for load fallbacks and write failures
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New loads the collections from adapter. Missing or unreadable blobs fall
// back to no tasks and the default tags; loading never fails.
func New(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		s.newID = NewIDGenerator()
	}

	s.tasks = s.loadTasks()
	s.tags = s.loadTags()
	s.log.Debug().Int("tasks", len(s.tasks)).Int("tags", len(s.tags)).Msg("store loaded")
	return s
}

func (s *Store) loadTasks() []models.Task {
	var tasks []models.Task
	if !s.load(TasksKey, &tasks) || tasks == nil {
		return []models.Task{}
	}
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []models.Tag{}
		}
	}
	return tasks
}

func (s *Store) loadTags() []models.Tag {
	var tags []models.Tag
	if !s.load(TagsKey, &tags) || tags == nil {
		return models.DefaultTags()
	}
	return tags
}

// load decodes the blob at key into dest, reporting false when the blob is
// absent or unusable
func (s *Store) load(key string, dest any) bool {
	raw, ok, err := s.adapter.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("read failed, using defaults")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("malformed blob, using defaults")
		return false
	}
	return true
}

// persist writes one collection. Callers hold s.mu.
func (s *Store) persist(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Str("op", "encode").Msg("write-through failed")
		return &storage.StorageError{Op: "encode", Key: key, Err: err}
	}
	if err := s.adapter.Set(key, string(data)); err != nil {
		s.log.Error().Err(err).Str("key", key).Str("op", "set").Msg("write-through failed")
		return err
	}
	return nil
}

// Now returns the store's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// Stats counts the current tasks at call time
func (s *Store) Stats() models.TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return query.ComputeStats(s.tasks, s.now())
}

// Reset drops every task and restores the default tags
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []models.Task{}
	s.tags = models.DefaultTags()
	return errors.Join(s.persist(TasksKey, s.tasks), s.persist(TagsKey, s.tags))
}

// uniqueID draws ids until one is unused by any task or tag. Callers hold s.mu.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if !s.idInUse(id) {
			return id
		}
		s.log.Debug().Str("id", id).Msg("id collision, redrawing")
	}
}

func (s *Store) idInUse(id string) bool {
	for _, t := range s.tasks {
		if t.ID == id {
			return true
		}
	}
	for _, t := range s.tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
