package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/store"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// recentCount is how many tasks the dashboard lists
const recentCount = 5

// statCard is one of the counters at the top of the dashboard. Selecting a
// card opens the task list with its filter applied.
type statCard struct {
	label  string
	filter query.StatusFilter
	value  func(models.TaskStats) int
}

var statCards = []statCard{
	{"Total", query.FilterAll, func(s models.TaskStats) int { return s.Total }},
	{"In Progress", query.StatusFilter(models.StatusInProgress), func(s models.TaskStats) int { return s.InProgress }},
	{"Completed", query.StatusFilter(models.StatusCompleted), func(s models.TaskStats) int { return s.Completed }},
	{"Overdue", query.FilterAll, func(s models.TaskStats) int { return s.Overdue }},
}

// DashboardView shows counters, completion progress and the latest tasks
type DashboardView struct {
	store  store.TaskStore
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	stats  models.TaskStats
	recent []models.Task

	cardCursor int
	cursor     int
	onCards    bool
	err        error
}

// NewDashboardView creates the dashboard
func NewDashboardView(s store.TaskStore) *DashboardView {
	return &DashboardView{
		store:  s,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

type dashboardLoadedMsg struct {
	stats  models.TaskStats
	recent []models.Task
}

// Init loads the dashboard data
func (v *DashboardView) Init() tea.Cmd {
	return v.load
}

func (v *DashboardView) load() tea.Msg {
	return dashboardLoadedMsg{
		stats:  v.store.Stats(),
		recent: query.RecentN(v.store.Tasks(), recentCount),
	}
}

// Capturing is always false; the dashboard has no text inputs
func (v *DashboardView) Capturing() bool { return false }

// Update handles messages
func (v *DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case dashboardLoadedMsg:
		v.stats = msg.stats
		v.recent = msg.recent
		if v.cursor >= len(v.recent) {
			v.cursor = max(0, len(v.recent)-1)
		}
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *DashboardView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Tab):
		v.onCards = !v.onCards
		return v, nil

	case key.Matches(msg, v.keys.Left):
		v.onCards = true
		if v.cardCursor > 0 {
			v.cardCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Right):
		v.onCards = true
		if v.cardCursor < len(statCards)-1 {
			v.cardCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.onCards = false
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.onCards = false
		if v.cursor < len(v.recent)-1 {
			v.cursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.onCards {
			to := Navigate{To: PageTasks, Status: statCards[v.cardCursor].filter}
			return v, func() tea.Msg { return to }
		}
		return v, func() tea.Msg { return Navigate{To: PageTasks, Status: query.FilterAll} }

	case key.Matches(msg, v.keys.Complete):
		if task, ok := v.selected(); ok && task.Status != models.StatusCompleted {
			v.err = v.store.UpdateTask(task.ID, models.StatusPatch(models.StatusCompleted))
			return v, v.load
		}
		return v, nil

	case key.Matches(msg, v.keys.Start):
		if task, ok := v.selected(); ok && task.Status == models.StatusTodo {
			v.err = v.store.UpdateTask(task.ID, models.StatusPatch(models.StatusInProgress))
			return v, v.load
		}
		return v, nil
	}
	return v, nil
}

func (v *DashboardView) selected() (models.Task, bool) {
	if v.onCards || len(v.recent) == 0 {
		return models.Task{}, false
	}
	return v.recent[v.cursor], true
}

// View renders the dashboard
func (v *DashboardView) View() string {
	s := v.styles

	var b strings.Builder
	b.WriteString(s.Title.Render("Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(v.renderCards())
	b.WriteString("\n\n")
	b.WriteString(v.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(s.Title.Render("Recent Tasks"))
	b.WriteString("\n")
	b.WriteString(v.renderRecent())
	b.WriteString(renderError(s, v.err))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		s.HelpKey.Render("←/→") + s.HelpDesc.Render(" cards  ") +
			s.HelpKey.Render("enter") + s.HelpDesc.Render(" open  ") +
			s.HelpKey.Render("c") + s.HelpDesc.Render(" complete  ") +
			s.HelpKey.Render("s") + s.HelpDesc.Render(" start  ") +
			s.HelpKey.Render("q") + s.HelpDesc.Render(" quit")))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *DashboardView) renderCards() string {
	s := v.styles
	cards := make([]string, len(statCards))
	for i, c := range statCards {
		st := s.StatCard
		if v.onCards && i == v.cardCursor {
			st = st.BorderForeground(styles.Current.BorderFocus)
		}
		value := s.StatValue.Render(fmt.Sprintf("%d", c.value(v.stats)))
		if c.label == "Overdue" && v.stats.Overdue > 0 {
			value = s.TaskOverdue.Render(fmt.Sprintf("%d", v.stats.Overdue))
		}
		cards[i] = st.Render(s.TitleMuted.Render(c.label) + "\n" + value)
	}

	// Two rows of two on narrow terminals
	if styles.ContentWidth(v.width) < 4*18 {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3]),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (v *DashboardView) renderProgress() string {
	s := v.styles
	pct := query.CompletionPercent(v.stats)
	width := clamp(styles.ContentWidth(v.width)-20, 10, 50)
	filled := width * pct / 100

	bar := s.ProgressFull.Render(strings.Repeat("█", filled)) +
		s.ProgressEmpty.Render(strings.Repeat("░", width-filled))
	return s.TitleMuted.Render("Completion ") + bar + fmt.Sprintf(" %d%%", pct)
}

func (v *DashboardView) renderRecent() string {
	s := v.styles
	if len(v.recent) == 0 {
		return s.TitleMuted.Render("No tasks yet. Press 2 then 'n' to add one.")
	}

	now := v.store.Now()
	lines := make([]string, len(v.recent))
	for i, task := range v.recent {
		titleStyle := s.TaskTitle
		if task.Status == models.StatusCompleted {
			titleStyle = s.TaskDone
		}
		due := ""
		if task.DueDate != "" {
			due = "  " + s.TitleMuted.Render(query.FormatDueDate(task.DueDate))
			if query.IsOverdue(task.DueDate, task.Status, now) {
				due = "  " + s.TaskOverdue.Render("overdue")
			}
		}
		line := priorityDot(task.Priority) + " " + titleStyle.Render(task.Title) +
			"  " + renderStatus(task.Status) + due

		itemStyle := s.ListItem
		if !v.onCards && i == v.cursor {
			itemStyle = s.ListSelected
		}
		lines[i] = itemStyle.Render(line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
