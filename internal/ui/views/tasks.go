package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskflow/internal/models"
	"github.com/tgienger/taskflow/internal/query"
	"github.com/tgienger/taskflow/internal/store"
	"github.com/tgienger/taskflow/internal/ui/keys"
	"github.com/tgienger/taskflow/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusSearchInput FocusArea = iota
	FocusStatusDropdown
	FocusTagDropdown
	FocusTaskList
)

const focusAreas = 4

// Edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldStatus
	fieldPriority
	fieldDue
	fieldTags
	fieldSave
	fieldCount
)

// statusFilters are the entries of the status dropdown
var statusFilters = []query.StatusFilter{
	query.FilterAll,
	query.StatusFilter(models.StatusTodo),
	query.StatusFilter(models.StatusInProgress),
	query.StatusFilter(models.StatusCompleted),
}

func statusFilterLabel(f query.StatusFilter) string {
	if f == query.FilterAll {
		return "All Tasks"
	}
	return models.Status(f).Label()
}

// TaskListView lists, filters, sorts and edits tasks
type TaskListView struct {
	store  store.TaskStore
	tasks  []models.Task // filtered and sorted
	tags   []models.Tag
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	focus        FocusArea
	cursor       int
	scrollY      int
	searchInput  textinput.Model
	statusFilter query.StatusFilter
	selectedTag  string // "" = no tag filter
	sortIdx      int    // index into query.SortOptions

	// Dropdowns
	statusDropdownOpen bool
	tagDropdownOpen    bool
	dropdownCursor     int

	// Task creation/editing
	editing       bool
	editingNew    bool
	editingID     string
	editTitle     textinput.Model
	editDesc      textarea.Model
	editDue       textinput.Model
	editStatus    models.Status
	editPriority  models.Priority
	editTags      []models.Tag
	editFocusIdx  int
	editTagCursor int
	formErr       string

	// Tag assignment mode
	assigningTags   bool
	assignTagCursor int
	assigningTaskID string

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	showHelpPopup bool
	err           error
}

// NewTaskListView creates a new task list view
func NewTaskListView(s store.TaskStore) *TaskListView {
	st := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD (optional)"
	editDue.CharLimit = 25

	return &TaskListView{
		store:        s,
		styles:       st,
		keys:         keys.DefaultKeyMap(),
		focus:        FocusTaskList,
		searchInput:  search,
		statusFilter: query.FilterAll,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editDue:      editDue,
	}
}

// SetStatusFilter preselects the status filter, used when navigating from
// the dashboard
func (v *TaskListView) SetStatusFilter(f query.StatusFilter) {
	if f == "" {
		f = query.FilterAll
	}
	v.statusFilter = f
	v.cursor = 0
	v.scrollY = 0
}

// Capturing reports whether keystrokes are going into a text field
func (v *TaskListView) Capturing() bool {
	return v.editing || v.focus == FocusSearchInput
}

// Init loads tasks and tags
func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks(), v.loadTags)
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type tagsLoadedMsg struct {
	tags []models.Tag
}

// loadTasks snapshots the current filters and returns a command producing
// the visible task list
func (v *TaskListView) loadTasks() tea.Cmd {
	status := v.statusFilter
	tagID := v.selectedTag
	search := v.searchInput.Value()
	opt := query.SortOptions[v.sortIdx]

	return func() tea.Msg {
		tasks := query.FilterByStatus(v.store.Tasks(), status)
		tasks = query.FilterByTag(tasks, tagID)
		tasks = query.Search(tasks, search)
		return tasksLoadedMsg{tasks: query.SortTasks(tasks, opt.Key, opt.Order)}
	}
}

func (v *TaskListView) loadTags() tea.Msg {
	return tagsLoadedMsg{tags: v.store.Tags()}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		if v.assigningTags {
			if _, ok := v.store.Task(v.assigningTaskID); !ok {
				v.assigningTags = false
				v.assigningTaskID = ""
			}
		}
		return v, nil

	case tagsLoadedMsg:
		v.tags = msg.tags
		if v.selectedTag != "" && !containsTag(v.tags, v.selectedTag) {
			// Filtered tag was deleted elsewhere
			v.selectedTag = ""
			return v, v.loadTasks()
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.assigningTags {
			return v.updateAssigningTags(msg)
		}

		if v.statusDropdownOpen || v.tagDropdownOpen {
			return v.updateDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't process hotkeys while typing a search
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, v.loadTasks()
		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			v.cursor = 0
			v.scrollY = 0
			return v, tea.Batch(cmd, v.loadTasks())
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if v.searchInput.Value() != "" {
			v.searchInput.Reset()
			return v, v.loadTasks()
		}
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusStatusDropdown:
			v.openStatusDropdown()
		case FocusTagDropdown:
			v.openTagDropdown()
		case FocusTaskList:
			if task, ok := v.selected(); ok {
				v.startEditTask(task)
				return v, textinput.Blink
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Complete):
		return v, v.setStatus(models.StatusCompleted)

	case key.Matches(msg, v.keys.Start):
		return v, v.setStatus(models.StatusInProgress)

	case key.Matches(msg, v.keys.Reopen):
		return v, v.setStatus(models.StatusTodo)

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusStatusDropdown
		v.openStatusDropdown()
		return v, nil

	case key.Matches(msg, v.keys.Sort):
		v.sortIdx = (v.sortIdx + 1) % len(query.SortOptions)
		return v, v.loadTasks()

	case msg.String() == "t":
		if task, ok := v.selected(); ok {
			v.assigningTags = true
			v.assignTagCursor = 0
			v.assigningTaskID = task.ID
		}
		return v, nil

	case msg.String() == "?":
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.focus != FocusTaskList || len(v.tasks) == 0 {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// setStatus changes the selected task's status, keeping the completed flag
// in step
func (v *TaskListView) setStatus(st models.Status) tea.Cmd {
	task, ok := v.selected()
	if !ok || task.Status == st {
		return nil
	}
	v.err = v.store.UpdateTask(task.ID, models.StatusPatch(st))
	return v.loadTasks()
}

func (v *TaskListView) openStatusDropdown() {
	v.statusDropdownOpen = true
	v.dropdownCursor = 0
	for i, f := range statusFilters {
		if f == v.statusFilter {
			v.dropdownCursor = i
		}
	}
}

func (v *TaskListView) openTagDropdown() {
	v.tagDropdownOpen = true
	v.dropdownCursor = 0
	for i, t := range v.tags {
		if t.ID == v.selectedTag {
			v.dropdownCursor = i + 1
		}
	}
}

func (v *TaskListView) updateDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Tag dropdown has a leading "None" entry
	entries := len(statusFilters)
	if v.tagDropdownOpen {
		entries = len(v.tags) + 1
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.statusDropdownOpen = false
		v.tagDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.dropdownCursor > 0 {
			v.dropdownCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.dropdownCursor < entries-1 {
			v.dropdownCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.statusDropdownOpen {
			v.statusFilter = statusFilters[v.dropdownCursor]
		} else if v.dropdownCursor == 0 {
			v.selectedTag = ""
		} else {
			v.selectedTag = v.tags[v.dropdownCursor-1].ID
		}
		v.statusDropdownOpen = false
		v.tagDropdownOpen = false
		v.focus = FocusTaskList
		v.cursor = 0
		v.scrollY = 0
		return v, v.loadTasks()
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.err = v.store.DeleteTask(v.deleteTargetID)
		return v, v.loadTasks()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateAssigningTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.assigningTags = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.assignTagCursor > 0 {
			v.assignTagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.assignTagCursor < len(v.tags)-1 {
			v.assignTagCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == " ":
		if v.assignTagCursor >= len(v.tags) {
			return v, nil
		}
		task, ok := v.store.Task(v.assigningTaskID)
		if !ok {
			v.assigningTags = false
			return v, v.loadTasks()
		}
		tags := query.ToggleTag(task.Tags, v.tags[v.assignTagCursor])
		v.err = v.store.UpdateTask(task.ID, models.TaskPatch{Tags: tags})
		return v, v.loadTasks()
	}

	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldTags:
			v.toggleEditTag()
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		case fieldDesc:
			// Newlines are allowed in the description
		default:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}

	case msg.String() == " " && v.editFocusIdx == fieldTags:
		v.toggleEditTag()
		return v, nil

	case msg.String() == "left" || msg.String() == "right":
		dir := 1
		if msg.String() == "left" {
			dir = -1
		}
		switch v.editFocusIdx {
		case fieldStatus:
			v.editStatus = cycle(models.Statuses, v.editStatus, dir)
			return v, nil
		case fieldPriority:
			v.editPriority = cycle(models.Priorities, v.editPriority, dir)
			return v, nil
		}

	case key.Matches(msg, v.keys.Up) && v.editFocusIdx == fieldTags:
		if v.editTagCursor > 0 {
			v.editTagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down) && v.editFocusIdx == fieldTags:
		if v.editTagCursor < len(v.tags)-1 {
			v.editTagCursor++
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

// cycle steps through values, wrapping at both ends
func cycle[T comparable](values []T, current T, dir int) T {
	for i, val := range values {
		if val == current {
			return values[(i+dir+len(values))%len(values)]
		}
	}
	return values[0]
}

// toggleEditTag toggles the tag under the cursor in the edit form
func (v *TaskListView) toggleEditTag() {
	if v.editTagCursor >= len(v.tags) {
		return
	}
	v.editTags = query.ToggleTag(v.editTags, v.tags[v.editTagCursor])
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + focusAreas) % focusAreas)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin
	return max((v.height-12)/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editingID = ""
	v.editFocusIdx = fieldTitle
	v.editTagCursor = 0
	v.editTags = []models.Tag{}
	v.editStatus = models.StatusTodo
	v.editPriority = models.PriorityMedium
	v.formErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editingID = task.ID
	v.editFocusIdx = fieldTitle
	v.editTagCursor = 0
	v.editTags = models.CloneTags(task.Tags)
	v.editStatus = task.Status
	v.editPriority = task.Priority
	v.formErr = ""
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editDue.SetValue(task.DueDate)
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldDue:
		v.editDue.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.formErr = "Title is required"
		return nil
	}
	due := strings.TrimSpace(v.editDue.Value())
	if _, ok := query.ParseDueDate(due); due != "" && !ok {
		v.formErr = "Due date must look like 2024-06-30"
		return nil
	}

	desc := strings.TrimSpace(v.editDesc.Value())
	completed := v.editStatus == models.StatusCompleted

	if v.editingNew {
		_, v.err = v.store.AddTask(models.TaskInput{
			Title:       title,
			Description: desc,
			Status:      v.editStatus,
			Priority:    v.editPriority,
			DueDate:     due,
			Tags:        v.editTags,
			Completed:   completed,
		})
	} else {
		v.err = v.store.UpdateTask(v.editingID, models.TaskPatch{
			Title:       &title,
			Description: &desc,
			Status:      &v.editStatus,
			Priority:    &v.editPriority,
			DueDate:     &due,
			Tags:        models.CloneTags(v.editTags),
			Completed:   &completed,
		})
	}

	v.editing = false
	return v.loadTasks()
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.assigningTags {
		return v.renderTagAssignment()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString(renderError(v.styles, v.err))
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 24)).Render(v.searchInput.View())

	statusStyle := s.Button
	if v.focus == FocusStatusDropdown {
		statusStyle = s.ButtonFocused
	}
	statusBtn := statusStyle.Render(statusFilterLabel(v.statusFilter) + " ▼")

	tagStyle := s.Button
	if v.focus == FocusTagDropdown {
		tagStyle = s.ButtonFocused
	}
	tagLabel := "All"
	for _, t := range v.tags {
		if t.ID == v.selectedTag {
			tagLabel = t.Name
			break
		}
	}
	if !isNarrow {
		tagLabel = "Tags: " + tagLabel
	}
	tagBtn := tagStyle.Render(tagLabel + " ▼")

	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		s.Title.Render(statusFilterLabel(v.statusFilter)),
		"  ",
		s.TitleMuted.Render(fmt.Sprintf("%d shown • sort: %s", len(v.tasks), query.SortOptions[v.sortIdx].Label)),
	)

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, statusBtn, tagBtn)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center, searchBox, "  ", statusBtn, "  ", tagBtn)
	}

	dropdown := ""
	if v.statusDropdownOpen || v.tagDropdownOpen {
		dropdown = "\n" + v.renderDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown)
}

func (v *TaskListView) renderDropdown() string {
	s := v.styles
	var items []string

	if v.statusDropdownOpen {
		for i, f := range statusFilters {
			itemStyle := s.ListItem
			if v.dropdownCursor == i {
				itemStyle = s.ListSelected
			}
			items = append(items, itemStyle.Render(statusFilterLabel(f)))
		}
	} else {
		noneStyle := s.ListItem
		if v.dropdownCursor == 0 {
			noneStyle = s.ListSelected
		}
		items = append(items, noneStyle.Render("None"))
		for i, tag := range v.tags {
			itemStyle := s.ListItem
			if v.dropdownCursor == i+1 {
				itemStyle = s.ListSelected
			}
			dot := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("●")
			items = append(items, itemStyle.Render(dot+" "+tag.Name))
		}
	}

	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		if v.statusFilter == query.FilterAll && v.selectedTag == "" && v.searchInput.Value() == "" {
			return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
		}
		return s.TitleMuted.Render("No tasks match the current filters.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	now := v.store.Now()

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList, now))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, now time.Time) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.TaskTitle
	if task.Status == models.StatusCompleted {
		titleStyle = s.TaskDone
	}
	title := task.Title
	if title == "" {
		title = "(untitled)"
	}
	if maxLen := contentWidth - 10; maxLen > 3 && len(title) > maxLen {
		title = title[:maxLen-3] + "..."
	}
	line1 := priorityDot(task.Priority) + " " + titleStyle.Render(title)

	due := query.FormatDueDate(task.DueDate)
	if query.IsOverdue(task.DueDate, task.Status, now) {
		due = s.TaskOverdue.Render("Overdue: " + due)
	} else {
		due = s.TitleMuted.Render(due)
	}
	line2 := "  " + lipgloss.JoinHorizontal(lipgloss.Left,
		renderStatus(task.Status), "  ", due, "  ", renderTagChips(s, task.Tags))

	itemStyle := s.ListItem.MarginBottom(1)
	if selected {
		itemStyle = s.ListSelected.MarginBottom(1)
	}
	return itemStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2))
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	header := "New Task"
	if !v.editingNew {
		header = "Edit Task"
	}

	field := func(idx int, label, body string) string {
		labelStyle := s.TitleMuted
		if v.editFocusIdx == idx {
			labelStyle = s.Title
		}
		return labelStyle.Render(label) + "\n" + body
	}
	input := func(idx int, body string) string {
		st := s.Input
		if v.editFocusIdx == idx {
			st = s.InputFocused
		}
		return st.Width(clamp(contentWidth-8, 20, 56)).Render(body)
	}

	status := "◀ " + renderStatus(v.editStatus) + " ▶"
	priority := "◀ " + priorityDot(v.editPriority) + " " + string(v.editPriority) + " ▶"

	var tagLines []string
	for i, tag := range v.tags {
		check := "[ ]"
		if containsTag(v.editTags, tag.ID) {
			check = "[x]"
		}
		itemStyle := s.ListItem
		if v.editFocusIdx == fieldTags && i == v.editTagCursor {
			itemStyle = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("●")
		tagLines = append(tagLines, itemStyle.Render(check+" "+dot+" "+tag.Name))
	}
	if len(tagLines) == 0 {
		tagLines = append(tagLines, s.TitleMuted.Render("  no tags defined"))
	}

	saveStyle := s.Button
	if v.editFocusIdx == fieldSave {
		saveStyle = s.ButtonFocused
	}

	parts := []string{
		s.Title.Render(header),
		"",
		field(fieldTitle, "Title", input(fieldTitle, v.editTitle.View())),
		field(fieldDesc, "Description", input(fieldDesc, v.editDesc.View())),
		field(fieldStatus, "Status", "  "+status),
		field(fieldPriority, "Priority", "  "+priority),
		field(fieldDue, "Due date", input(fieldDue, v.editDue.View())),
		field(fieldTags, "Tags", lipgloss.JoinVertical(lipgloss.Left, tagLines...)),
		"",
		saveStyle.Render("Save"),
	}
	if v.formErr != "" {
		parts = append(parts, s.Error.Render(v.formErr))
	}
	parts = append(parts, s.Help.Render("tab: next • ←/→: change • space: toggle tag • ctrl+s: save • esc: cancel"))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, parts...), v.width, v.height)
}

func (v *TaskListView) renderTagAssignment() string {
	s := v.styles

	task, ok := v.store.Task(v.assigningTaskID)
	if !ok {
		return s.TitleMuted.Render("Task no longer exists")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Tags for: " + task.Title))
	b.WriteString("\n\n")

	if len(v.tags) == 0 {
		b.WriteString(s.TitleMuted.Render("No tags defined. Create some on the Tags page (3)."))
	}
	for i, tag := range v.tags {
		check := "[ ]"
		if task.HasTag(tag.ID) {
			check = "[x]"
		}
		itemStyle := s.ListItem
		if i == v.assignTagCursor {
			itemStyle = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("●")
		b.WriteString(itemStyle.Render(check + " " + dot + " " + tag.Name))
		b.WriteString("\n")
	}

	b.WriteString(renderError(s, v.err))
	b.WriteString(s.Help.Render("enter/space: toggle • esc: done"))
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	msg := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Delete task?"),
		"",
		s.TaskTitle.Render(v.deleteTargetName),
		"",
		s.Help.Render("y: delete • n: cancel"),
	)
	return styles.CenterView(s.FilterBar.Render(msg), v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	if v.focus == FocusSearchInput {
		return s.Help.Render("type to search • enter/esc: done • tab: next")
	}
	return s.Help.Render(
		s.HelpKey.Render("n") + s.HelpDesc.Render(" new  ") +
			s.HelpKey.Render("e") + s.HelpDesc.Render(" edit  ") +
			s.HelpKey.Render("c") + s.HelpDesc.Render(" complete  ") +
			s.HelpKey.Render("/") + s.HelpDesc.Render(" search  ") +
			s.HelpKey.Render("o") + s.HelpDesc.Render(" sort  ") +
			s.HelpKey.Render("?") + s.HelpDesc.Render(" more"))
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	rows := [][2]string{
		{"j/k ↑/↓", "move"},
		{"tab", "cycle focus"},
		{"enter / e", "edit task"},
		{"n", "new task"},
		{"d", "delete task"},
		{"c", "mark completed"},
		{"s", "start (in progress)"},
		{"r", "reopen (to do)"},
		{"t", "assign tags"},
		{"/", "search"},
		{"f", "status filter"},
		{"o", "cycle sort"},
		{"1-4", "switch page"},
		{"q", "quit"},
	}
	lines := []string{s.Title.Render("Task keys"), ""}
	for _, r := range rows {
		lines = append(lines, s.HelpKey.Width(12).Render(r[0])+s.HelpDesc.Render(r[1]))
	}
	lines = append(lines, "", s.TitleMuted.Render("press any key to close"))
	return styles.CenterView(s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)), v.width, v.height)
}

func containsTag(tags []models.Tag, id string) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
