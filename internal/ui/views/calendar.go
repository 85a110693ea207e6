package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/store"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// CalendarView is a placeholder that summarizes due dates
type CalendarView struct {
	store  store.TaskStore
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	withDue  int
	dueToday int
}

func NewCalendarView(s store.TaskStore) *CalendarView {
	return &CalendarView{store: s, styles: styles.NewStyles(), keys: keys.DefaultKeyMap()}
}

type calendarLoadedMsg struct {
	withDue  int
	dueToday int
}

func (v *CalendarView) Init() tea.Cmd { return v.load }

func (v *CalendarView) load() tea.Msg {
	tasks := v.store.Tasks()
	return calendarLoadedMsg{
		withDue:  len(query.WithDueDate(tasks)),
		dueToday: len(query.TasksDueOn(tasks, v.store.Now())),
	}
}

func (v *CalendarView) Capturing() bool { return false }

func (v *CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case calendarLoadedMsg:
		v.withDue = msg.withDue
		v.dueToday = msg.dueToday
	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Quit) {
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *CalendarView) View() string {
	s := v.styles
	body := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Calendar View Coming Soon"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("You have %s with due dates", pluralTasks(v.withDue))),
		s.TitleMuted.Render(fmt.Sprintf("%s due today", pluralTasks(v.dueToday))),
	)
	box := s.FilterBar.Padding(1, 4).Render(body)
	return styles.CenterView(box, v.width, v.height)
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
