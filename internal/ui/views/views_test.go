package views

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/storage"
	"github.com/tgienger/taskflow/internal/store"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	clock := testNow
	return store.New(storage.NewMemory(), store.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
}

func addTask(t *testing.T, s *store.Store, in models.TaskInput) models.Task {
	t.Helper()
	task, err := s.AddTask(in)
	require.NoError(t, err)
	return task
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashboard_CompleteRecentTask(t *testing.T) {
	s := newTestStore(t)
	older := addTask(t, s, models.TaskInput{Title: "older", Status: models.StatusTodo})
	newer := addTask(t, s, models.TaskInput{Title: "newer", Status: models.StatusTodo})

	v := NewDashboardView(s)
	v.Update(v.load())
	require.Len(t, v.recent, 2)
	assert.Equal(t, newer.ID, v.recent[0].ID)

	v.Update(runes("c"))
	got, _ := s.Task(newer.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.Completed)

	v.Update(v.load())
	v.Update(runes("j"))
	v.Update(runes("s"))
	got, _ = s.Task(older.ID)
	assert.Equal(t, models.StatusInProgress, got.Status)
}

func TestDashboard_CardOpensFilteredTasks(t *testing.T) {
	v := NewDashboardView(newTestStore(t))
	v.Update(v.load())

	v.Update(runes("l"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, Navigate{To: PageTasks, Status: query.StatusFilter(models.StatusInProgress)}, cmd())
}

func TestDashboard_ShowsCounts(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, models.TaskInput{Title: "late", Status: models.StatusTodo, DueDate: "2024-01-01"})
	addTask(t, s, models.TaskInput{Title: "done", Status: models.StatusCompleted, Completed: true})

	v := NewDashboardView(s)
	v.Update(v.load())

	assert.Equal(t, models.TaskStats{Total: 2, Completed: 1, Todo: 1, Overdue: 1}, v.stats)
	assert.Contains(t, v.View(), "50%")
}

func TestTaskList_FilterSearchAndSort(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, models.TaskInput{Title: "Alpha report", Status: models.StatusInProgress, Priority: models.PriorityLow})
	addTask(t, s, models.TaskInput{Title: "Beta", Status: models.StatusTodo, Priority: models.PriorityHigh})
	addTask(t, s, models.TaskInput{Title: "Gamma report", Status: models.StatusInProgress, Priority: models.PriorityHigh})

	v := NewTaskListView(s)
	v.Update(v.loadTasks()())
	assert.Equal(t, []string{"Gamma report", "Beta", "Alpha report"}, taskTitles(v.tasks))

	v.SetStatusFilter(query.StatusFilter(models.StatusInProgress))
	v.Update(v.loadTasks()())
	assert.Equal(t, []string{"Gamma report", "Alpha report"}, taskTitles(v.tasks))

	v.SetStatusFilter(query.FilterAll)
	v.searchInput.SetValue("REPORT")
	v.Update(v.loadTasks()())
	assert.Equal(t, []string{"Gamma report", "Alpha report"}, taskTitles(v.tasks))

	// o cycles to Oldest First
	v.searchInput.SetValue("")
	_, cmd := v.Update(runes("o"))
	v.Update(cmd())
	assert.Equal(t, []string{"Alpha report", "Beta", "Gamma report"}, taskTitles(v.tasks))
}

func TestTaskList_CreateFromForm(t *testing.T) {
	s := newTestStore(t)
	v := NewTaskListView(s)
	v.Update(v.loadTags())

	v.Update(runes("n"))
	require.True(t, v.Capturing())

	v.Update(runes("Plan trip"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.False(t, v.editing)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Plan trip", tasks[0].Title)
	assert.Equal(t, models.StatusTodo, tasks[0].Status)
	assert.Equal(t, models.PriorityMedium, tasks[0].Priority)
	assert.NotNil(t, tasks[0].Tags)
}

func TestTaskList_FormRejectsEmptyTitleAndBadDate(t *testing.T) {
	s := newTestStore(t)
	v := NewTaskListView(s)

	v.Update(runes("n"))
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, v.editing)
	assert.Equal(t, "Title is required", v.formErr)

	v.editTitle.SetValue("x")
	v.editDue.SetValue("tomorrow")
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, v.editing)
	assert.Empty(t, s.Tasks())
}

func TestTaskList_StatusKeysAndDelete(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, models.TaskInput{Title: "Fix bug", Status: models.StatusTodo})

	v := NewTaskListView(s)
	v.Update(v.loadTasks()())

	_, cmd := v.Update(runes("c"))
	v.Update(cmd())
	got, _ := s.Task(task.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.True(t, got.Completed)

	_, cmd = v.Update(runes("r"))
	v.Update(cmd())
	got, _ = s.Task(task.ID)
	assert.Equal(t, models.StatusTodo, got.Status)
	assert.False(t, got.Completed)

	v.Update(runes("d"))
	require.True(t, v.confirmingDelete)
	v.Update(runes("n"))
	assert.Len(t, s.Tasks(), 1)

	v.Update(runes("d"))
	v.Update(runes("y"))
	assert.Empty(t, s.Tasks())
}

func TestTaskList_ToggleTag(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, models.TaskInput{Title: "Tag me"})

	v := NewTaskListView(s)
	v.Update(v.loadTags())
	v.Update(v.loadTasks()())

	v.Update(runes("t"))
	require.True(t, v.assigningTags)
	v.Update(runes("j"))
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := s.Task(task.ID)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Personal", got.Tags[0].Name)

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got, _ = s.Task(task.ID)
	assert.Empty(t, got.Tags)
}

func TestTagList_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, models.TaskInput{Title: "Work item", Tags: []models.Tag{models.DefaultTags()[0]}})

	v := NewTagListView(s)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	v.Update(v.loadTags())

	v.Update(runes("d"))
	require.True(t, v.confirming)
	assert.Equal(t, 1, v.deleteUsage)
	assert.Contains(t, v.View(), "removed from 1 task")

	v.Update(runes("y"))
	assert.Len(t, s.Tags(), 2)
	got, _ := s.Task(task.ID)
	assert.Empty(t, got.Tags)
}

func TestTagList_EditPropagates(t *testing.T) {
	s := newTestStore(t)
	task := addTask(t, s, models.TaskInput{Title: "Work item", Tags: []models.Tag{models.DefaultTags()[0]}})

	v := NewTagListView(s)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	v.Update(v.loadTags())

	v.Update(runes("e"))
	require.True(t, v.Capturing())
	v.name.SetValue("Job")
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	got, _ := s.Task(task.ID)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Job", got.Tags[0].Name)
	assert.Equal(t, "Job", s.Tags()[0].Name)
}

func TestCalendar_Counts(t *testing.T) {
	s := newTestStore(t)
	addTask(t, s, models.TaskInput{Title: "today", DueDate: "2024-06-15"})
	addTask(t, s, models.TaskInput{Title: "later", DueDate: "2024-07-01"})
	addTask(t, s, models.TaskInput{Title: "someday"})

	v := NewCalendarView(s)
	v.Update(v.load())

	view := v.View()
	assert.Contains(t, view, "You have 2 tasks with due dates")
	assert.Contains(t, view, "1 task due today")
}

func taskTitles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
