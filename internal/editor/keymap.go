package editor

import "github.com/charmbracelet/bubbles/key"

// keyMap declares the editor's keybindings. It satisfies help.KeyMap so the
// footer help line renders straight from the bindings.
type keyMap struct {
	Quit        key.Binding
	Save        key.Binding
	ToolSelect  key.Binding
	ToolTap     key.Binding
	ToolHold    key.Binding
	Deselect    key.Binding
	Delete      key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	SnapFiner   key.Binding
	SnapCoarser key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		ToolSelect:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "select")),
		ToolTap:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "tap")),
		ToolHold:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "hold")),
		Deselect:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "deselect")),
		Delete:      key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "delete")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "scroll")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		PageUp:      key.NewBinding(key.WithKeys("pgup")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		SnapFiner:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "snap")),
		SnapCoarser: key.NewBinding(key.WithKeys("-", "_")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToolSelect, k.ToolTap, k.ToolHold, k.Delete, k.SnapFiner, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToolSelect, k.ToolTap, k.ToolHold},
		{k.Up, k.Top, k.Deselect, k.Delete},
		{k.SnapFiner, k.Save, k.Quit},
	}
}
