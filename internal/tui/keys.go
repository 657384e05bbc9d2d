package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Views
	TopWatched key.Binding
	Collection key.Binding
	Moods      key.Binding

	// Actions
	Quit       key.Binding
	Help       key.Binding
	Escape     key.Binding
	Search     key.Binding
	MoodSearch key.Binding
	Filter     key.Binding
	Refresh    key.Binding
	Add        key.Binding
	Remove     key.Binding
	Genre      key.Binding
	Director   key.Binding
	ClearCache key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),

		// Views
		TopWatched: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "top watched"),
		),
		Collection: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "my collection"),
		),
		Moods: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "mood"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search title"),
		),
		MoodSearch: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "describe mood"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "save"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove"),
		),
		Genre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "same genre"),
		),
		Director: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "same director"),
		),
		ClearCache: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear cache"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
