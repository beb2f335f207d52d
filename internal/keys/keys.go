// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// FieldKeyMap defines the keybindings handled by a focused masked field.
// Printable keys that match no binding are typed into the field.
type FieldKeyMap struct {
	// Movement
	Left         key.Binding
	Right        key.Binding
	WordLeft     key.Binding
	WordRight    key.Binding
	Home         key.Binding
	End          key.Binding
	NextFillable key.Binding
	PrevFillable key.Binding

	// Selection
	SelectLeft      key.Binding
	SelectRight     key.Binding
	SelectWordLeft  key.Binding
	SelectWordRight key.Binding
	SelectHome      key.Binding
	SelectEnd       key.Binding
	SelectAll       key.Binding

	// Editing
	Backspace key.Binding
	Delete    key.Binding
	Clear     key.Binding
	Overwrite key.Binding
}

// Field is the default field keymap.
var Field = DefaultFieldKeyMap()

// DefaultFieldKeyMap returns the default field keybindings.
func DefaultFieldKeyMap() FieldKeyMap {
	return FieldKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "right"),
		),
		WordLeft: key.NewBinding(
			key.WithKeys("ctrl+left", "alt+left", "alt+b"),
			key.WithHelp("ctrl+←", "previous section"),
		),
		WordRight: key.NewBinding(
			key.WithKeys("ctrl+right", "alt+right", "alt+f"),
			key.WithHelp("ctrl+→", "next section"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
			key.WithHelp("home", "start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
			key.WithHelp("end", "end"),
		),
		NextFillable: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next slot"),
		),
		PrevFillable: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "previous slot"),
		),

		SelectLeft: key.NewBinding(
			key.WithKeys("shift+left"),
			key.WithHelp("shift+←", "select left"),
		),
		SelectRight: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("shift+→", "select right"),
		),
		SelectWordLeft: key.NewBinding(
			key.WithKeys("ctrl+shift+left"),
			key.WithHelp("ctrl+shift+←", "select section left"),
		),
		SelectWordRight: key.NewBinding(
			key.WithKeys("ctrl+shift+right"),
			key.WithHelp("ctrl+shift+→", "select section right"),
		),
		SelectHome: key.NewBinding(
			key.WithKeys("shift+home"),
			key.WithHelp("shift+home", "select to start"),
		),
		SelectEnd: key.NewBinding(
			key.WithKeys("shift+end"),
			key.WithHelp("shift+end", "select to end"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "select all"),
		),

		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "delete back"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "ctrl+d"),
			key.WithHelp("del", "delete"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear"),
		),
		Overwrite: key.NewBinding(
			key.WithKeys("insert"),
			key.WithHelp("ins", "overwrite"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k FieldKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.WordRight, k.SelectAll, k.Clear, k.Overwrite}
}

// FullHelp returns keybindings for the full help view.
func (k FieldKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.WordLeft, k.WordRight, k.Home, k.End, k.NextFillable, k.PrevFillable},                  // Movement
		{k.SelectLeft, k.SelectRight, k.SelectWordLeft, k.SelectWordRight, k.SelectHome, k.SelectEnd, k.SelectAll}, // Selection
		{k.Backspace, k.Delete, k.Clear, k.Overwrite},                                                              // Editing
	}
}

// FormKeyMap defines the keybindings of the demo form.
type FormKeyMap struct {
	NextField  key.Binding
	PrevField  key.Binding
	Commit     key.Binding
	Save       key.Binding
	NextLocale key.Binding
	ToggleLog  key.Binding
	LogLevel   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// Form is the default form keymap.
var Form = DefaultFormKeyMap()

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "commit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save values"),
		),
		NextLocale: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "next locale"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle log"),
		),
		LogLevel: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "log level"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Commit, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Commit, k.Save},
		{k.NextLocale, k.ToggleLog, k.LogLevel, k.Help, k.Quit},
	}
}
