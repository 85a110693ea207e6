package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/store"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

type tagItem struct {
	tag   models.Tag
	usage int
}

func (i tagItem) Title() string { return i.tag.Name }
func (i tagItem) Description() string {
	if i.usage == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", i.usage)
}
func (i tagItem) FilterValue() string { return i.tag.Name }

type tagDelegate struct {
	styles *styles.Styles
	width  int
}

func (d tagDelegate) Height() int                               { return 2 }
func (d tagDelegate) Spacing() int                              { return 1 }
func (d tagDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d tagDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	t, ok := item.(tagItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.tag.Color)).Render("●")
	title := titleStyle.Render(dot + " " + t.Title())
	desc := descStyle.Render(t.tag.Color + " • " + t.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// TagListView manages the tag catalogue
type TagListView struct {
	store    store.TaskStore
	list     list.Model
	delegate *tagDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int

	// Create/edit form
	editing    bool
	editingID  string // "" when creating
	name       textinput.Model
	colorIdx   int
	focusIdx   int // 0=name, 1=color, 2=save
	formErr    string
	customHex  string // color of an edited tag that is not in the palette
	confirming bool

	// Delete confirmation
	deleteTargetID   string
	deleteTargetName string
	deleteUsage      int

	showHelpPopup bool
	err           error
}

// NewTagListView creates the tag manager
func NewTagListView(s store.TaskStore) *TagListView {
	st := styles.NewStyles()

	name := textinput.New()
	name.Placeholder = "Tag name"
	name.CharLimit = 40

	delegate := &tagDelegate{styles: st, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Tags"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.Title
	l.SetShowHelp(false)

	return &TagListView{
		store:    s,
		list:     l,
		delegate: delegate,
		styles:   st,
		keys:     keys.DefaultKeyMap(),
		name:     name,
	}
}

type tagListLoadedMsg struct {
	items []list.Item
}

// Init loads the catalogue
func (v *TagListView) Init() tea.Cmd {
	return v.loadTags
}

func (v *TagListView) loadTags() tea.Msg {
	tasks := v.store.Tasks()
	tags := v.store.Tags()
	items := make([]list.Item, len(tags))
	for i, t := range tags {
		items[i] = tagItem{tag: t, usage: len(query.TasksWithTag(tasks, t.ID))}
	}
	return tagListLoadedMsg{items: items}
}

// Capturing reports whether keystrokes are going into a text field
func (v *TagListView) Capturing() bool {
	return v.editing || v.list.FilterState() == list.Filtering
}

// Update handles messages
func (v *TagListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case tagListLoadedMsg:
		v.list.SetItems(msg.items)
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirming {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		// Let the list own keys while its filter is being typed
		if v.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, v.keys.Quit):
				return v, tea.Quit
			case key.Matches(msg, v.keys.Back) && v.list.FilterState() == list.Unfiltered:
				return v, nil
			case key.Matches(msg, v.keys.New):
				v.startForm(models.Tag{})
				return v, textinput.Blink
			case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
				if item, ok := v.list.SelectedItem().(tagItem); ok {
					v.startForm(item.tag)
					return v, textinput.Blink
				}
				return v, nil
			case key.Matches(msg, v.keys.Delete):
				if item, ok := v.list.SelectedItem().(tagItem); ok {
					v.confirming = true
					v.deleteTargetID = item.tag.ID
					v.deleteTargetName = item.tag.Name
					v.deleteUsage = item.usage
				}
				return v, nil
			case msg.String() == "?":
				v.showHelpPopup = true
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *TagListView) startForm(tag models.Tag) {
	v.editing = true
	v.editingID = tag.ID
	v.focusIdx = 0
	v.formErr = ""
	v.customHex = ""
	v.colorIdx = 0
	v.name.SetValue(tag.Name)
	if tag.ID != "" {
		v.colorIdx = -1
		for i, c := range models.TagPalette {
			if strings.EqualFold(c, tag.Color) {
				v.colorIdx = i
			}
		}
		if v.colorIdx < 0 {
			v.customHex = tag.Color
		}
	}
	v.updateFocus()
}

func (v *TagListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirming = false
		v.err = v.store.DeleteTag(v.deleteTargetID)
		return v, v.loadTags
	case "n", "N", "esc":
		v.confirming = false
		return v, nil
	}
	return v, nil
}

func (v *TagListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.save()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == 2 {
			return v, v.save()
		}
		v.focusIdx++
		v.updateFocus()
		return v, nil

	case v.focusIdx == 1 && (key.Matches(msg, v.keys.Left) || key.Matches(msg, v.keys.Right)):
		dir := 1
		if key.Matches(msg, v.keys.Left) {
			dir = -1
		}
		n := len(models.TagPalette)
		if v.colorIdx < 0 {
			v.colorIdx = 0
		} else {
			v.colorIdx = (v.colorIdx + dir + n) % n
		}
		v.customHex = ""
		return v, nil
	}

	if v.focusIdx != 0 {
		return v, nil
	}
	var cmd tea.Cmd
	v.name, cmd = v.name.Update(msg)
	return v, cmd
}

func (v *TagListView) updateFocus() {
	v.name.Blur()
	if v.focusIdx == 0 {
		v.name.Focus()
	}
}

func (v *TagListView) color() string {
	if v.colorIdx < 0 {
		return v.customHex
	}
	return models.TagPalette[v.colorIdx]
}

// save creates a tag, or edits one and rewrites the copies on its tasks
func (v *TagListView) save() tea.Cmd {
	name := strings.TrimSpace(v.name.Value())
	if name == "" {
		v.formErr = "Name is required"
		return nil
	}

	if v.editingID == "" {
		_, v.err = v.store.AddTag(models.TagInput{Name: name, Color: v.color()})
	} else {
		v.err = store.PropagateTagEdit(v.store, models.Tag{ID: v.editingID, Name: name, Color: v.color()})
	}
	v.editing = false
	return v.loadTags
}

// View renders the view
func (v *TagListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirming {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderForm()
	}

	s := v.styles
	var b strings.Builder
	if len(v.list.Items()) == 0 {
		b.WriteString(s.Title.Render("Tags"))
		b.WriteString("\n\n")
		b.WriteString(s.TitleMuted.Render("No tags. Press 'n' to create one."))
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString(renderError(s, v.err))
	b.WriteString("\n")
	b.WriteString(s.Help.Render(
		s.HelpKey.Render("n") + s.HelpDesc.Render(" new  ") +
			s.HelpKey.Render("e") + s.HelpDesc.Render(" edit  ") +
			s.HelpKey.Render("d") + s.HelpDesc.Render(" delete  ") +
			s.HelpKey.Render("/") + s.HelpDesc.Render(" filter  ") +
			s.HelpKey.Render("?") + s.HelpDesc.Render(" more")))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TagListView) renderForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	header := "New Tag"
	if v.editingID != "" {
		header = "Edit Tag"
	}

	nameStyle := s.Input
	if v.focusIdx == 0 {
		nameStyle = s.InputFocused
	}
	nameBox := nameStyle.Width(clamp(contentWidth-8, 20, 40)).Render(v.name.View())

	swatches := make([]string, len(models.TagPalette))
	for i, c := range models.TagPalette {
		mark := " ● "
		if i == v.colorIdx {
			mark = "[●]"
		}
		swatches[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(mark)
	}
	palette := strings.Join(swatches, "")
	if v.colorIdx < 0 {
		palette += lipgloss.NewStyle().Foreground(lipgloss.Color(v.customHex)).Render(" [●] " + v.customHex)
	}

	colorLabel := s.TitleMuted
	if v.focusIdx == 1 {
		colorLabel = s.Title
	}
	saveStyle := s.Button
	if v.focusIdx == 2 {
		saveStyle = s.ButtonFocused
	}

	parts := []string{
		s.Title.Render(header),
		"",
		nameBox,
		colorLabel.Render("Color (←/→)"),
		palette,
		"",
		saveStyle.Render("Save"),
	}
	if v.editingID != "" {
		parts = append(parts, s.TitleMuted.Render("Saving updates the tag on every task that carries it."))
	}
	if v.formErr != "" {
		parts = append(parts, s.Error.Render(v.formErr))
	}
	parts = append(parts, s.Help.Render("tab: next • ctrl+s: save • esc: cancel"))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, parts...), v.width, v.height)
}

func (v *TagListView) renderDeleteConfirm() string {
	s := v.styles
	usage := "It is not used by any task."
	switch v.deleteUsage {
	case 0:
	case 1:
		usage = "It will be removed from 1 task."
	default:
		usage = fmt.Sprintf("It will be removed from %d tasks.", v.deleteUsage)
	}
	msg := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Delete tag?"),
		"",
		s.TaskTitle.Render(v.deleteTargetName),
		s.TitleMuted.Render(usage),
		"",
		s.Help.Render("y: delete • n: cancel"),
	)
	return styles.CenterView(s.FilterBar.Render(msg), v.width, v.height)
}

func (v *TagListView) renderHelpPopup() string {
	s := v.styles
	rows := [][2]string{
		{"j/k ↑/↓", "move"},
		{"n", "new tag"},
		{"enter / e", "edit tag"},
		{"d", "delete tag"},
		{"/", "filter"},
		{"1-4", "switch page"},
		{"q", "quit"},
	}
	lines := []string{s.Title.Render("Tag keys"), ""}
	for _, r := range rows {
		lines = append(lines, s.HelpKey.Width(12).Render(r[0])+s.HelpDesc.Render(r[1]))
	}
	lines = append(lines, "", s.TitleMuted.Render("press any key to close"))
	return styles.CenterView(s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)), v.width, v.height)
}
