package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/storage"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// failingAdapter fails every Set after armed is true, or only Sets of
// failKey when it is non-empty
type failingAdapter struct {
	*storage.Memory
	armed   bool
	failKey string
}

func (f *failingAdapter) Set(key, value string) error {
	if f.armed && (f.failKey == "" || f.failKey == key) {
		return &storage.StorageError{Op: "set", Key: key, Err: errors.New("quota exceeded")}
	}
	return f.Memory.Set(key, value)
}

// brokenReader fails every Get
type brokenReader struct {
	*storage.Memory
}

func (b brokenReader) Get(key string) (string, bool, error) {
	return "", false, &storage.StorageError{Op: "get", Key: key, Err: errors.New("disk gone")}
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return New(mem, opts...), mem
}

func TestNew_Defaults(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.Tasks())
	assert.Equal(t, models.DefaultTags(), s.Tags())
}

func TestNew_MalformedBlobsFallBack(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(TasksKey, "{not json"))
	require.NoError(t, mem.Set(TagsKey, "null"))

	s := New(mem)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, models.DefaultTags(), s.Tags())
}

func TestNew_ReadErrorFallsBack(t *testing.T) {
	s := New(brokenReader{storage.NewMemory()})
	assert.Empty(t, s.Tasks())
	assert.Len(t, s.Tags(), 3)
}

func TestNew_LoadsLegacyBlob(t *testing.T) {
	mem := storage.NewMemory()
	blob := `[{"id":"k2j4x9a1b","title":"Ship it","description":"","status":"todo","priority":"high",` +
		`"dueDate":null,"tags":[{"id":"1","name":"Work","color":"#3B82F6"}],"completed":false,` +
		`"createdAt":"2024-05-01T10:00:00.000Z"}]`
	require.NoError(t, mem.Set(TasksKey, blob))

	s := New(mem)
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship it", tasks[0].Title)
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
	assert.Empty(t, tasks[0].DueDate)
	assert.True(t, tasks[0].HasTag("1"))
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), tasks[0].CreatedAt.UTC())
}

func TestAddTask(t *testing.T) {
	s, mem := newTestStore(t)
	start := fixedNow

	existing, err := s.AddTask(models.TaskInput{Title: "first", Status: models.StatusTodo, Priority: models.PriorityLow})
	require.NoError(t, err)

	task, err := s.AddTask(models.TaskInput{
		Title:    "second",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
		DueDate:  "2024-07-01",
		Tags:     []models.Tag{models.DefaultTags()[0]},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Len(t, task.ID, IDLength)
	assert.NotEqual(t, existing.ID, task.ID)
	for _, tag := range s.Tags() {
		assert.NotEqual(t, tag.ID, task.ID)
	}
	assert.False(t, task.CreatedAt.Before(start))

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, []string{"first", "second"}, []string{tasks[0].Title, tasks[1].Title})
	assert.Equal(t, task, tasks[1])

	raw, ok, err := mem.Get(TasksKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"second"`)
}

func TestAddTask_AcceptsEmptyTitle(t *testing.T) {
	s, _ := newTestStore(t)

	task, err := s.AddTask(models.TaskInput{})
	require.NoError(t, err)
	assert.Equal(t, "", task.Title)
	assert.NotNil(t, task.Tags)
	assert.Len(t, s.Tasks(), 1)
}

func TestAddTask_RedrawsCollidingIDs(t *testing.T) {
	// "1" collides with the default Work tag
	draws := []string{"1", "1", "fresh"}
	s, _ := newTestStore(t, WithIDGenerator(func() string {
		id := draws[0]
		draws = draws[1:]
		return id
	}))

	task, err := s.AddTask(models.TaskInput{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", task.ID)
}

func TestUpdateTask(t *testing.T) {
	s, _ := newTestStore(t)
	before, err := s.AddTask(models.TaskInput{
		Title:       "write docs",
		Description: "all of them",
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     "2024-06-20",
		Tags:        []models.Tag{models.DefaultTags()[1]},
	})
	require.NoError(t, err)

	completed := models.StatusCompleted
	require.NoError(t, s.UpdateTask(before.ID, models.TaskPatch{Status: &completed}))

	after, ok := s.Task(before.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, after.Status)

	// Everything outside the patch is unchanged, including the unsynced flag
	expected := before
	expected.Status = models.StatusCompleted
	assert.Equal(t, expected, after)
	assert.False(t, after.Completed)
}

func TestUpdateTask_StatusPatchSetsBothFields(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.AddTask(models.TaskInput{Title: "t", Status: models.StatusTodo})
	require.NoError(t, err)

	require.NoError(t, s.UpdateTask(task.ID, models.StatusPatch(models.StatusCompleted)))
	got, _ := s.Task(task.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.Completed)

	require.NoError(t, s.UpdateTask(task.ID, models.StatusPatch(models.StatusInProgress)))
	got, _ = s.Task(task.ID)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.False(t, got.Completed)
}

func TestUpdateTask_ClearsTagsWithEmptySlice(t *testing.T) {
	s, _ := newTestStore(t)
	task, err := s.AddTask(models.TaskInput{Title: "t", Tags: models.DefaultTags()})
	require.NoError(t, err)

	title := "renamed"
	require.NoError(t, s.UpdateTask(task.ID, models.TaskPatch{Title: &title}))
	got, _ := s.Task(task.ID)
	assert.Len(t, got.Tags, 3, "nil Tags leaves tags alone")

	require.NoError(t, s.UpdateTask(task.ID, models.TaskPatch{Tags: []models.Tag{}}))
	got, _ = s.Task(task.ID)
	assert.Empty(t, got.Tags)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s, mem := newTestStore(t)
	title := "x"

	assert.NoError(t, s.UpdateTask("missing", models.TaskPatch{Title: &title}))
	assert.NoError(t, s.DeleteTask("missing"))
	assert.NoError(t, s.UpdateTag("missing", models.TagPatch{Name: &title}))
	assert.NoError(t, s.DeleteTag("missing"))

	_, ok, _ := mem.Get(TasksKey)
	assert.False(t, ok, "no-ops must not write")
}

func TestDeleteTask(t *testing.T) {
	s, _ := newTestStore(t, WithIDGenerator(sequentialIDs("t")))
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.AddTask(models.TaskInput{Title: title})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteTask("t2"))

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "t3", tasks[1].ID)
}

func TestGetTasksByStatus(t *testing.T) {
	s, _ := newTestStore(t)
	for _, st := range []models.Status{models.StatusTodo, models.StatusCompleted, models.StatusTodo} {
		_, err := s.AddTask(models.TaskInput{Title: string(st), Status: st})
		require.NoError(t, err)
	}

	todo := s.GetTasksByStatus(models.StatusTodo)
	assert.Len(t, todo, 2)
	assert.Empty(t, s.GetTasksByStatus(models.StatusInProgress))
}

func TestSnapshotsDoNotAliasState(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddTask(models.TaskInput{Title: "t", Tags: []models.Tag{models.DefaultTags()[0]}})
	require.NoError(t, err)

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	tasks[0].Tags[0].Name = "mutated"

	again := s.Tasks()
	assert.Equal(t, "t", again[0].Title)
	assert.Equal(t, "Work", again[0].Tags[0].Name)
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)
	inputs := []models.TaskInput{
		{Title: "1", Status: models.StatusTodo},
		{Title: "2", Status: models.StatusInProgress},
		{Title: "3", Status: models.StatusCompleted, Completed: true},
		{Title: "4", Status: models.StatusTodo, DueDate: "2024-06-01"},
	}
	for _, in := range inputs {
		_, err := s.AddTask(in)
		require.NoError(t, err)
	}

	assert.Equal(t, models.TaskStats{Total: 4, Todo: 2, InProgress: 1, Completed: 1, Overdue: 1}, s.Stats())
}

func TestStats_EvaluatedAtCallTime(t *testing.T) {
	current := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := New(storage.NewMemory(), WithClock(func() time.Time { return current }))
	_, err := s.AddTask(models.TaskInput{Title: "due", Status: models.StatusTodo, DueDate: "2024-06-10"})
	require.NoError(t, err)

	assert.Equal(t, 0, s.Stats().Overdue)
	current = current.AddDate(0, 0, 30)
	assert.Equal(t, 1, s.Stats().Overdue)
}

func TestAddTag(t *testing.T) {
	s, mem := newTestStore(t)

	tag, err := s.AddTag(models.TagInput{Name: "Errands", Color: "#F59E0B"})
	require.NoError(t, err)
	assert.Len(t, tag.ID, IDLength)

	tags := s.Tags()
	require.Len(t, tags, 4)
	assert.Equal(t, tag, tags[3])

	raw, ok, err := mem.Get(TagsKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "Errands")
}

func TestDeleteTag_Cascades(t *testing.T) {
	s, _ := newTestStore(t, WithIDGenerator(sequentialIDs("id")))
	work, personal, urgent := models.DefaultTags()[0], models.DefaultTags()[1], models.DefaultTags()[2]

	_, err := s.AddTask(models.TaskInput{Title: "both", Tags: []models.Tag{work, personal, urgent}})
	require.NoError(t, err)
	_, err = s.AddTask(models.TaskInput{Title: "personal only", Tags: []models.Tag{personal}})
	require.NoError(t, err)
	_, err = s.AddTask(models.TaskInput{Title: "untagged"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTag(personal.ID))

	for _, tag := range s.Tags() {
		assert.NotEqual(t, personal.ID, tag.ID)
	}
	tasks := s.Tasks()
	assert.Equal(t, []models.Tag{work, urgent}, tasks[0].Tags)
	assert.Empty(t, tasks[1].Tags)
	assert.Empty(t, tasks[2].Tags)
}

func TestUpdateTag_DoesNotPropagate(t *testing.T) {
	s, _ := newTestStore(t)
	work := models.DefaultTags()[0]
	task, err := s.AddTask(models.TaskInput{Title: "t", Tags: []models.Tag{work}})
	require.NoError(t, err)

	name := "Job"
	require.NoError(t, s.UpdateTag(work.ID, models.TagPatch{Name: &name}))

	assert.Equal(t, "Job", s.Tags()[0].Name)
	got, _ := s.Task(task.ID)
	assert.Equal(t, "Work", got.Tags[0].Name, "embedded copy is stale until propagated")
}

func TestPropagateTagEdit(t *testing.T) {
	s, _ := newTestStore(t)
	work, urgent := models.DefaultTags()[0], models.DefaultTags()[2]
	tagged, err := s.AddTask(models.TaskInput{Title: "t", Tags: []models.Tag{urgent, work}})
	require.NoError(t, err)
	other, err := s.AddTask(models.TaskInput{Title: "o", Tags: []models.Tag{urgent}})
	require.NoError(t, err)

	edited := models.Tag{ID: work.ID, Name: "Job", Color: "#8B5CF6"}
	require.NoError(t, PropagateTagEdit(s, edited))

	got, _ := s.Task(tagged.ID)
	assert.Equal(t, []models.Tag{urgent, edited}, got.Tags)
	got, _ = s.Task(other.ID)
	assert.Equal(t, []models.Tag{urgent}, got.Tags)
	assert.Equal(t, edited, s.Tags()[0])
	assert.Len(t, s.Tags(), 3, "edit must not add a catalogue entry")
}

func TestWriteFailureIsReported(t *testing.T) {
	adapter := &failingAdapter{Memory: storage.NewMemory()}
	s := New(adapter, WithClock(fixedClock))
	adapter.armed = true

	_, err := s.AddTask(models.TaskInput{Title: "t"})
	require.Error(t, err)

	var se *storage.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "set", se.Op)
	assert.Equal(t, TasksKey, se.Key)

	// The in-memory mutation stays applied
	assert.Len(t, s.Tasks(), 1)

	err = s.DeleteTag(models.DefaultTags()[0].ID)
	require.Error(t, err)
	assert.True(t, errors.As(err, &se))
}

func TestRoundTrip(t *testing.T) {
	mem := storage.NewMemory()
	s := New(mem, WithClock(time.Now))

	_, err := s.AddTask(models.TaskInput{
		Title:    "a",
		Status:   models.StatusTodo,
		Priority: models.PriorityLow,
		DueDate:  "2024-06-20",
		Tags:     []models.Tag{models.DefaultTags()[2]},
	})
	require.NoError(t, err)
	_, err = s.AddTask(models.TaskInput{Title: "b", Status: models.StatusCompleted, Priority: models.PriorityHigh, Completed: true})
	require.NoError(t, err)
	_, err = s.AddTag(models.TagInput{Name: "Home", Color: "#06B6D4"})
	require.NoError(t, err)

	reloaded := New(mem)
	assert.Equal(t, s.Tasks(), reloaded.Tasks())
	assert.Equal(t, s.Tags(), reloaded.Tags())

	raw, _, err := mem.Get(TasksKey)
	require.NoError(t, err)
	var decoded []models.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	assert.Equal(t, s.Tasks(), decoded)
}

func TestReset(t *testing.T) {
	s, mem := newTestStore(t)
	_, err := s.AddTask(models.TaskInput{Title: "t"})
	require.NoError(t, err)
	_, err = s.AddTag(models.TagInput{Name: "x"})
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	assert.Empty(t, s.Tasks())
	assert.Equal(t, models.DefaultTags(), s.Tags())

	reloaded := New(mem)
	assert.Empty(t, reloaded.Tasks())
}

func TestReset_WritesTagsWhenTasksWriteFails(t *testing.T) {
	adapter := &failingAdapter{Memory: storage.NewMemory()}
	s := New(adapter, WithClock(fixedClock))
	_, err := s.AddTag(models.TagInput{Name: "Home", Color: "#8B5CF6"})
	require.NoError(t, err)

	adapter.armed = true
	adapter.failKey = TasksKey

	err = s.Reset()
	var se *storage.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, TasksKey, se.Key)

	reloaded := New(adapter.Memory)
	assert.Equal(t, models.DefaultTags(), reloaded.Tags())
	assert.Equal(t, s.Tags(), reloaded.Tags())
}

func TestPersist_EncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	s, mem := newTestStore(t, WithLogger(zerolog.New(&buf).Level(zerolog.ErrorLevel)))

	err := s.persist("broken", make(chan int))
	var se *storage.StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "encode", se.Op)
	assert.Equal(t, "broken", se.Key)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "broken", entry["key"])
	assert.Equal(t, "encode", entry["op"])

	_, ok, err := mem.Get("broken")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewIDGenerator(t *testing.T) {
	gen := NewIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		require.Len(t, id, IDLength)
		for _, c := range id {
			require.Contains(t, idAlphabet, string(c))
		}
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
