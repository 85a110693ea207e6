package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tgienger/taskflow/internal/store"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
	"github.com/tgienger/taskflow/internal/ui/views"
)

// navHeight is the number of rows taken by the navigation bar
const navHeight = 2

// page is implemented by every top level view
type page interface {
	tea.Model
	// Capturing reports whether the view is consuming typed text, in which
	// case the page switch keys are passed through
	Capturing() bool
}

type App struct {
	store       store.TaskStore
	log         zerolog.Logger
	keys        keys.KeyMap
	styles      *styles.Styles
	currentPage views.Page
	dashboard   *views.DashboardView
	taskList    *views.TaskListView
	tagList     *views.TagListView
	calendar    *views.CalendarView
	width       int
	height      int
}

// Creates a new application
func NewApp(s store.TaskStore, log zerolog.Logger) *App {
	return &App{
		store:       s,
		log:         log,
		keys:        keys.DefaultKeyMap(),
		styles:      styles.NewStyles(),
		currentPage: views.PageDashboard,
		dashboard:   views.NewDashboardView(s),
		taskList:    views.NewTaskListView(s),
		tagList:     views.NewTagListView(s),
		calendar:    views.NewCalendarView(s),
	}
}

// CurrentPage returns the page being shown
func (a *App) CurrentPage() views.Page {
	return a.currentPage
}

func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func (a *App) pageFor(p views.Page) page {
	switch p {
	case views.PageTasks:
		return a.taskList
	case views.PageTags:
		return a.tagList
	case views.PageCalendar:
		return a.calendar
	}
	return a.dashboard
}

// switchTo shows p, reloading it from the store
func (a *App) switchTo(p views.Page) tea.Cmd {
	a.log.Debug().Str("page", p.Title()).Msg("switch page")
	a.currentPage = p

	// Initialize with window size
	return tea.Batch(
		a.pageFor(p).Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-navHeight, 0)}
		// Every page keeps its size so switching does not flicker
		var cmds []tea.Cmd
		for _, p := range views.Pages {
			_, cmd := a.pageFor(p).Update(inner)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case views.Navigate:
		if msg.To == views.PageTasks {
			a.taskList.SetStatusFilter(msg.Status)
		}
		return a, a.switchTo(msg.To)

	case tea.KeyMsg:
		if !a.pageFor(a.currentPage).Capturing() {
			switch {
			case key.Matches(msg, a.keys.Dashboard):
				return a, a.switchTo(views.PageDashboard)
			case key.Matches(msg, a.keys.Tasks):
				return a, a.switchTo(views.PageTasks)
			case key.Matches(msg, a.keys.Tags):
				return a, a.switchTo(views.PageTags)
			case key.Matches(msg, a.keys.Calendar):
				return a, a.switchTo(views.PageCalendar)
			}
		}
	}

	_, cmd := a.pageFor(a.currentPage).Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, a.renderNav(), a.pageFor(a.currentPage).View())
}

func (a *App) renderNav() string {
	s := a.styles
	tabs := make([]string, len(views.Pages))
	for i, p := range views.Pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == a.currentPage {
			tabs[i] = s.NavTabActive.Render(label)
		} else {
			tabs[i] = s.NavTab.Render(label)
		}
	}
	nav := s.Nav.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	return styles.CenterView(nav, a.width, 0)
}
