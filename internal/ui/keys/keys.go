package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings shared by every view
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Enter  key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Filter key.Binding
	Sort   key.Binding

	// Status shortcuts
	Complete key.Binding
	Start    key.Binding
	Reopen   key.Binding

	// Page switching
	Dashboard key.Binding
	Tasks     key.Binding
	Tags      key.Binding
	Calendar  key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Sort:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),

		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Reopen:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reopen")),

		Dashboard: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "dashboard")),
		Tasks:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tasks")),
		Tags:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "tags")),
		Calendar:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "calendar")),
	}
}
