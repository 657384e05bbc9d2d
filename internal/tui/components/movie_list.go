package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/cinematch/internal/animlist"
	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/tui/styles"
)

// Layout constants for list panels
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Title line plus the top and bottom fade rows
	ListChromeLines = 3

	// Columns an entering row slides in from
	entranceIndent = 4
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderSpinner renders a spinner frame
func RenderSpinner(frame int) string {
	return styles.SpinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}

// movieSource adapts movies to sahilm/fuzzy.Source
type movieSource []domain.Movie

func (s movieSource) String(i int) string { return strings.ToLower(s[i].Title) }
func (s movieSource) Len() int            { return len(s) }

// MovieList renders an animlist.List of movies as a bordered panel. List
// geometry is in list units; lineUnits converts terminal lines to units.
type MovieList struct {
	list      *animlist.List[domain.Movie]
	cfg       animlist.Config
	opts      []animlist.Option[domain.Movie]
	lineUnits float64

	all    []domain.Movie
	picked *domain.Movie

	title        string
	width        int
	height       int
	focused      bool
	loading      bool
	spinnerFrame int

	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
}

// NewMovieList creates an empty list panel
func NewMovieList(cfg animlist.Config, lineUnits float64, opts ...animlist.Option[domain.Movie]) *MovieList {
	if lineUnits <= 0 {
		lineUnits = 1
	}
	fi := textinput.New()
	fi.Prompt = "/ "
	fi.PromptStyle = styles.AccentStyle
	fi.Placeholder = "filter..."
	fi.CharLimit = 60

	c := &MovieList{
		cfg:         cfg,
		opts:        opts,
		lineUnits:   lineUnits,
		filterInput: fi,
	}
	c.list = c.newList()
	return c
}

func (c *MovieList) newList() *animlist.List[domain.Movie] {
	opts := append([]animlist.Option[domain.Movie]{
		animlist.WithSelect(func(_ int, m domain.Movie) {
			picked := m
			c.picked = &picked
		}),
	}, c.opts...)
	l := animlist.New(c.cfg, domain.Movie.Key, opts...)
	l.SetViewport(c.viewportUnits())
	return l
}

// Mount replaces the list with fresh content. Scroll, focus and entrance
// latches start over.
func (c *MovieList) Mount(title string, movies []domain.Movie) {
	c.title = title
	c.all = movies
	c.loading = false
	c.picked = nil
	c.clearFilter()
	c.list = c.newList()
	c.list.SetItems(movies)
}

// Refresh swaps the items in place, keeping latches for movies that stay
func (c *MovieList) Refresh(movies []domain.Movie) {
	c.all = movies
	c.refilter()
}

// List exposes the underlying view state
func (c *MovieList) List() *animlist.List[domain.Movie] {
	return c.list
}

// Movies returns every movie, ignoring the filter
func (c *MovieList) Movies() []domain.Movie {
	return c.all
}

// Title returns the panel title
func (c *MovieList) Title() string {
	return c.title
}

// SetLoading shows a spinner in place of the rows
func (c *MovieList) SetLoading(loading bool) {
	c.loading = loading
}

// IsLoading reports whether the spinner is showing
func (c *MovieList) IsLoading() bool {
	return c.loading
}

// SetSpinnerFrame advances the loading spinner
func (c *MovieList) SetSpinnerFrame(frame int) {
	c.spinnerFrame = frame
}

// SetFocused toggles the active border
func (c *MovieList) SetFocused(focused bool) {
	c.focused = focused
}

// SetSize updates the panel dimensions
func (c *MovieList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.list.SetViewport(c.viewportUnits())
}

func (c *MovieList) bodyLines() int {
	n := c.height - BorderHeight - ListChromeLines
	if c.filterActive {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (c *MovieList) viewportUnits() float64 {
	return float64(c.bodyLines()) * c.lineUnits
}

func (c *MovieList) linesPerItem() int {
	n := int(math.Round(c.list.Config().ItemHeight / c.lineUnits))
	if n < 1 {
		n = 1
	}
	return n
}

// RowAt maps a panel-relative line to an item index, or -1
func (c *MovieList) RowAt(y int) int {
	body := y - 1 - 2 // border, title, top fade
	if body < 0 || body >= c.bodyLines() || c.loading {
		return -1
	}
	offset := c.list.Scroll() + float64(body)*c.lineUnits
	i := int(offset / c.list.Config().ItemHeight)
	if i < 0 || i >= c.list.Len() {
		return -1
	}
	return i
}

// HandleKey applies a navigation key and returns the picked movie on Enter
func (c *MovieList) HandleKey(k animlist.Key) (domain.Movie, bool) {
	c.picked = nil
	c.list.HandleKey(k)
	return c.takePicked()
}

// Click focuses and picks row i
func (c *MovieList) Click(i int) (domain.Movie, bool) {
	c.picked = nil
	c.list.Click(i)
	return c.takePicked()
}

func (c *MovieList) takePicked() (domain.Movie, bool) {
	if c.picked == nil {
		return domain.Movie{}, false
	}
	m := *c.picked
	c.picked = nil
	return m, true
}

// PageBy scrolls by whole pages without moving focus
func (c *MovieList) PageBy(pages float64) {
	c.list.ScrollBy(pages * c.list.Viewport())
}

// Wheel scrolls by a few lines
func (c *MovieList) Wheel(lines int) {
	c.list.ScrollBy(float64(lines) * c.lineUnits)
}

// === Filter ===

// ToggleFilter activates the filter input
func (c *MovieList) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.list.SetViewport(c.viewportUnits())
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *MovieList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// IsFiltering returns true if filter mode is active
func (c *MovieList) IsFiltering() bool {
	return c.filterActive
}

// ClearFilter deactivates the filter and shows all items
func (c *MovieList) ClearFilter() {
	c.clearFilter()
	c.list.SetItems(c.all)
}

// UpdateFilter routes a key to the filter input
func (c *MovieList) UpdateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		c.ClearFilter()
		return nil
	case "enter":
		c.filterInput.Blur()
		return nil
	case "backspace":
		if c.filterInput.Value() == "" {
			c.ClearFilter()
			return nil
		}
	}

	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	c.applyFilter()
	return cmd
}

func (c *MovieList) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.list.SetViewport(c.viewportUnits())
}

func (c *MovieList) applyFilter() {
	query := c.filterInput.Value()
	if query == c.filterQuery {
		return
	}
	c.filterQuery = query
	c.refilter()
	c.list.SetFocus(0)
	c.list.ScrollTo(0)
}

func (c *MovieList) refilter() {
	if c.filterQuery == "" {
		c.list.SetItems(c.all)
		return
	}
	matches := fuzzy.FindFrom(strings.ToLower(c.filterQuery), movieSource(c.all))
	filtered := make([]domain.Movie, len(matches))
	for i, match := range matches {
		filtered[i] = c.all[match.Index]
	}
	c.list.SetItems(filtered)
}

// === Rendering ===

// View renders the panel
func (c *MovieList) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(c.renderContent())
}

func (c *MovieList) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	title := c.title
	if n := c.list.Len(); n > 0 {
		title = fmt.Sprintf("%s (%d)", c.title, n)
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, itemWidth))

	if c.loading {
		spinner := spinnerFrames[c.spinnerFrame%len(spinnerFrames)]
		return titleLine + "\n \n" + styles.DimStyle.Render(spinner+" Loading...")
	}
	if c.list.Len() == 0 {
		empty := "No movies"
		if c.filterQuery != "" {
			empty = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(empty)
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	top, bottom := c.list.Fades()
	lines := make([]string, 0, c.bodyLines()+ListChromeLines+1)
	lines = append(lines, titleLine, renderFade("▲", top, itemWidth))
	lines = append(lines, c.renderBody(itemWidth)...)
	lines = append(lines, renderFade("▼", bottom, itemWidth))
	if c.filterActive {
		lines = append(lines, c.renderFilterBar())
	}
	return strings.Join(lines, "\n")
}

// renderBody cuts the visible window out of the rendered rows, honoring a
// fractional scroll position
func (c *MovieList) renderBody(width int) []string {
	per := c.linesPerItem()
	start, end := c.list.VisibleRange(1)
	nodes := animlist.Window(c.list, start, end, func(m domain.Movie, st animlist.ViewState) []string {
		return renderMovieRow(m, st, per, width)
	})

	var rendered []string
	for _, n := range nodes {
		rendered = append(rendered, n.View...)
	}

	first := int(math.Round(c.list.Scroll()/c.lineUnits)) - start*per
	if first < 0 {
		first = 0
	}
	body := make([]string, c.bodyLines())
	for i := range body {
		if j := first + i; j < len(rendered) {
			body[i] = rendered[j]
		}
	}
	return body
}

func renderMovieRow(m domain.Movie, st animlist.ViewState, lines, width int) []string {
	out := make([]string, lines)
	if st.Progress <= 0 {
		return out
	}

	indent := strings.Repeat(" ", int(math.Round((1-st.Progress)*entranceIndent)))
	fg := styles.FadeColor(st.Progress)
	if st.Progress >= 1 {
		fg = styles.White
	}

	rating := m.FormattedRating()
	titleWidth := width - len(indent) - 4
	if rating != "" {
		titleWidth -= len(rating) + 3
	}
	parts := []styles.RowPart{
		{Text: indent + styles.Truncate(m.Title, titleWidth), Foreground: &fg},
	}
	if rating != "" {
		gold := styles.Gold
		parts = append(parts, styles.RowPart{Text: "  ★ " + rating, Foreground: &gold})
	}
	out[0] = styles.RenderListRow(parts, st.Focused, width)

	if lines > 1 {
		dim := styles.FadeColor(st.Progress * 0.7)
		desc := indent + styles.Truncate(m.GetDescription(), width-len(indent)-4)
		out[1] = styles.RenderListRow([]styles.RowPart{{Text: desc, Foreground: &dim}}, st.Focused, width)
	}
	return out
}

func renderFade(glyph string, opacity float64, width int) string {
	if opacity <= 0 {
		return " "
	}
	bar := strings.Repeat("╌", max(0, width-4))
	return lipgloss.NewStyle().Foreground(styles.FadeColor(opacity)).Render(" " + glyph + bar)
}

func (c *MovieList) renderFilterBar() string {
	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.list.Len(), len(c.all)))
	}
	return c.filterInput.View() + countStr
}
