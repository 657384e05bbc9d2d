package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cinematch/internal/suggest"
	"github.com/mmcdole/cinematch/internal/tui/styles"
)

// SearchMode selects what the search box submits
type SearchMode int

const (
	// SearchTitle recommends by movie title, with suggestions
	SearchTitle SearchMode = iota
	// SearchMood classifies a free-text mood description
	SearchMood
)

// MaxSuggestions caps the dropdown rows
const MaxSuggestions = 8

// SearchBox is the title/mood input with its suggestion dropdown
type SearchBox struct {
	input   textinput.Model
	session suggest.Session
	mode    SearchMode
	width   int
}

// NewSearchBox creates a new search box in title mode
func NewSearchBox() SearchBox {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	s := SearchBox{input: ti, session: suggest.NewSession()}
	s.SetMode(SearchTitle)
	return s
}

// SetMode switches between title and mood entry, clearing the input
func (s *SearchBox) SetMode(mode SearchMode) {
	s.mode = mode
	s.input.SetValue("")
	s.session = s.session.Clear()
	switch mode {
	case SearchMood:
		s.input.Prompt = "☺ "
		s.input.Placeholder = "Describe your mood..."
	default:
		s.input.Prompt = "⌕ "
		s.input.Placeholder = "Search a movie you like..."
	}
}

// Mode returns the current mode
func (s SearchBox) Mode() SearchMode {
	return s.mode
}

// Focus focuses the input
func (s *SearchBox) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur blurs the input and hides the dropdown
func (s *SearchBox) Blur() {
	s.input.Blur()
	s.session = s.session.Hide()
}

// Focused reports whether the input has focus
func (s SearchBox) Focused() bool {
	return s.input.Focused()
}

// SetWidth updates the component width
func (s *SearchBox) SetWidth(width int) {
	s.width = width
	s.input.Width = width - 4
}

// Value returns the typed text
func (s SearchBox) Value() string {
	return s.input.Value()
}

// Session returns the suggestion state
func (s SearchBox) Session() suggest.Session {
	return s.session
}

// Update routes a message to the text input. When the text changes in
// title mode it returns the suggestion request to issue, if any.
func (s *SearchBox) Update(msg tea.Msg) (tea.Cmd, *suggest.Request) {
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	after := s.input.Value()
	if after == before || s.mode != SearchTitle {
		return cmd, nil
	}
	var req *suggest.Request
	s.session, req = s.session.Input(after)
	return cmd, req
}

// Resolve applies a suggestion response. It reports whether the response
// was current.
func (s *SearchBox) Resolve(r suggest.Result) bool {
	var applied bool
	s.session, applied = s.session.Resolve(r)
	return applied
}

// Move shifts the dropdown highlight
func (s *SearchBox) Move(delta int) {
	s.session = s.session.Move(delta)
}

// DropdownVisible reports whether suggestions are showing
func (s SearchBox) DropdownVisible() bool {
	return s.session.Visible()
}

// HideDropdown closes the dropdown without touching the text
func (s *SearchBox) HideDropdown() {
	s.session = s.session.Hide()
}

// Submit returns the text to search for: the highlighted suggestion if
// any, else the typed text. A picked suggestion replaces the input text.
func (s *SearchBox) Submit() string {
	q := strings.TrimSpace(s.input.Value())
	if s.mode == SearchTitle {
		q = s.session.Pick()
	}
	if q != strings.TrimSpace(s.input.Value()) {
		s.input.SetValue(q)
		s.input.CursorEnd()
	}
	s.session = s.session.Hide()
	return q
}

// PickAt highlights suggestion i and submits it
func (s *SearchBox) PickAt(i int) string {
	if i >= 0 && i < len(s.session.Suggestions) {
		s.session.Highlighted = i
	}
	return s.Submit()
}

// View renders the input line
func (s SearchBox) View() string {
	return s.input.View()
}

// DropdownView renders the suggestion dropdown, or "" when hidden
func (s SearchBox) DropdownView() string {
	if !s.session.Visible() {
		return ""
	}

	width := s.width - BorderWidth - 2
	if width < 10 {
		width = 10
	}
	var rows []string
	for i, sug := range s.session.Suggestions {
		if i >= MaxSuggestions {
			break
		}
		rows = append(rows, renderSuggestion(s.session.Query, sug, i == s.session.Highlighted, width))
	}
	return styles.DropdownStyle.Render(strings.Join(rows, "\n"))
}

func renderSuggestion(query, sug string, active bool, width int) string {
	base := styles.SuggestionStyle
	match := styles.MatchHighlightStyle
	if active {
		base = styles.SuggestionActiveStyle
		match = match.Background(styles.SlateLight)
	}

	text := styles.Truncate(sug, width)
	hits := suggest.Highlight(query, text)
	if len(hits) == 0 {
		return base.Width(width).Render(text)
	}

	marked := make(map[int]bool, len(hits))
	for _, h := range hits {
		marked[h] = true
	}
	var b strings.Builder
	for i, r := range text {
		if marked[i] {
			b.WriteString(match.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	if pad := width - lipgloss.Width(text); pad > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", pad)))
	}
	return b.String()
}
