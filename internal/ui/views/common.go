package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// Page identifies a top level view
type Page int

const (
	PageDashboard Page = iota
	PageTasks
	PageTags
	PageCalendar
)

// Pages in navigation order
var Pages = []Page{PageDashboard, PageTasks, PageTags, PageCalendar}

func (p Page) Title() string {
	switch p {
	case PageDashboard:
		return "Dashboard"
	case PageTasks:
		return "Tasks"
	case PageTags:
		return "Tags"
	case PageCalendar:
		return "Calendar"
	}
	return ""
}

// Navigate asks the app to switch pages. Status preselects the task list
// filter when To is PageTasks.
type Navigate struct {
	To     Page
	Status query.StatusFilter
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// renderTagChips renders tags in their own colors
func renderTagChips(s *styles.Styles, tags []models.Tag) string {
	if len(tags) == 0 {
		return s.TitleMuted.Render("no tags")
	}
	chips := make([]string, len(tags))
	for i, tag := range tags {
		chips[i] = s.Tag.Foreground(lipgloss.Color(tag.Color)).Render("#" + tag.Name)
	}
	return strings.Join(chips, "")
}

// renderStatus renders a status label in its badge color
func renderStatus(st models.Status) string {
	return lipgloss.NewStyle().Foreground(styles.StatusColor(st)).Render(st.Label())
}

// priorityDot renders the colored priority indicator
func priorityDot(p models.Priority) string {
	return lipgloss.NewStyle().Foreground(styles.PriorityColor(p)).Render("●")
}

// renderError renders the last failed store call, if any
func renderError(s *styles.Styles, err error) string {
	if err == nil {
		return ""
	}
	return "\n" + s.Error.Render("! "+err.Error())
}
