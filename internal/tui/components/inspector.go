package components

import (
	"fmt"
	"strings"

	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2

	maxCredits = 8
	maxReviews = 3
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Peek is the hover summary of one list row
type Peek struct {
	Movie   domain.Movie
	Text    string
	Loading bool
}

// Inspector shows the hover summary of a row, or the full detail page
type Inspector struct {
	peek    *Peek
	detail  *domain.MovieDetail
	related []domain.Movie
	loading bool
	err     string

	saved        bool
	spinnerFrame int
	width        int
	height       int
	offset       int // scroll offset
	maxVisible   int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetPeek shows a hover summary; nil clears it
func (i *Inspector) SetPeek(p *Peek) {
	i.peek = p
}

// ShowDetailLoading switches to the detail page while it loads
func (i *Inspector) ShowDetailLoading() {
	i.detail = nil
	i.related = nil
	i.err = ""
	i.loading = true
	i.offset = 0
}

// SetDetail shows a loaded detail page
func (i *Inspector) SetDetail(d *domain.MovieDetail, err error) {
	i.loading = false
	i.detail = d
	i.err = ""
	if err != nil {
		i.err = err.Error()
	}
}

// SetRelated sets the franchise list on the detail page
func (i *Inspector) SetRelated(movies []domain.Movie) {
	i.related = movies
}

// SetSaved marks whether the detail movie is in the collection
func (i *Inspector) SetSaved(saved bool) {
	i.saved = saved
}

// CloseDetail returns to hover summaries
func (i *Inspector) CloseDetail() {
	i.detail = nil
	i.related = nil
	i.loading = false
	i.err = ""
	i.offset = 0
}

// InDetail reports whether the detail page is showing
func (i Inspector) InDetail() bool {
	return i.loading || i.detail != nil || i.err != ""
}

// Detail returns the loaded detail, if any
func (i Inspector) Detail() *domain.MovieDetail {
	return i.detail
}

// SetSpinnerFrame advances the loading spinner
func (i *Inspector) SetSpinnerFrame(frame int) {
	i.spinnerFrame = frame
}

// ScrollBy moves the body scroll offset
func (i *Inspector) ScrollBy(lines int) {
	i.offset += lines
	if i.offset < 0 {
		i.offset = 0
	}
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve space for border, scroll indicators, title and blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	if i.InDetail() {
		style = styles.ActiveBorder
	}

	contentWidth := i.width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}
	content := i.render(contentWidth)

	title := "Summary"
	if i.InDetail() {
		title = "Details"
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate(title, contentWidth))

	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := i.maxVisible - len(headerLines) - len(footerLines)
	if availableForBody < 1 {
		availableForBody = 1
	}

	maxOffset := len(bodyLines) - availableForBody
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := min(i.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if content.header != "" {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if content.footer != "" {
		parts = append(parts, footerLines...)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	switch {
	case i.loading:
		spinner := spinnerFrames[i.spinnerFrame%len(spinnerFrames)]
		return inspectorContent{body: styles.DimStyle.Render(spinner + " Loading details...")}
	case i.err != "":
		return inspectorContent{
			body:   styles.ErrorStyle.Render(wordWrap(i.err, width)),
			footer: styles.DimStyle.Render("esc: back"),
		}
	case i.detail != nil:
		return i.renderDetail(*i.detail, width)
	case i.peek != nil:
		return renderPeek(*i.peek, width)
	default:
		return inspectorContent{body: styles.DimStyle.Render("Hover a movie to see its summary")}
	}
}

func renderPeek(p Peek, width int) inspectorContent {
	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(styles.Truncate(p.Movie.Title, width)))
	if desc := p.Movie.GetDescription(); desc != "" {
		header.WriteString("\n")
		header.WriteString(styles.SubtitleStyle.Render(styles.Truncate(desc, width)))
	}

	body := ""
	switch {
	case p.Loading:
		body = styles.DimStyle.Render("Loading summary...")
	case p.Text != "":
		body = wordWrap(p.Text, width)
	}
	return inspectorContent{header: header.String(), body: body}
}

func (i Inspector) renderDetail(d domain.MovieDetail, width int) inspectorContent {
	var header strings.Builder
	header.WriteString(styles.TitleStyle.Render(styles.Truncate(d.Title, width)))
	header.WriteString("\n")

	var meta []string
	if d.Year != "" {
		meta = append(meta, d.Year)
	}
	if rt := d.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if d.Language != "" {
		meta = append(meta, strings.ToUpper(d.Language))
	}
	header.WriteString(styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	if r := d.FormattedRating(); r != "" {
		header.WriteString("  ")
		header.WriteString(styles.RatingStyle.Render(fmt.Sprintf("★ %s", r)))
		if d.VoteCount > 0 {
			header.WriteString(styles.DimStyle.Render(fmt.Sprintf(" (%d votes)", d.VoteCount)))
		}
	}
	if i.saved {
		header.WriteString("  ")
		header.WriteString(styles.BadgeStyle.Render("SAVED"))
	}

	var body strings.Builder
	if len(d.Genres) > 0 {
		body.WriteString(styles.DimStyle.Render(wordWrap(strings.Join(d.Genres, ", "), width)))
		body.WriteString("\n\n")
	}
	overview := d.Overview
	if overview == "" {
		overview = domain.PlaceholderOverview
	}
	body.WriteString(wordWrap(overview, width))
	body.WriteString("\n")

	if len(d.Directors) > 0 {
		body.WriteString("\n")
		body.WriteString(styles.AccentStyle.Render("Directed by"))
		body.WriteString("\n")
		body.WriteString(wordWrap(strings.Join(d.Directors, ", "), width))
		body.WriteString("\n")
	}

	if len(d.Credits) > 0 {
		body.WriteString("\n")
		body.WriteString(styles.AccentStyle.Render("Cast"))
		body.WriteString("\n")
		for n, c := range d.Credits {
			if n >= maxCredits {
				break
			}
			name := styles.Truncate(c.Name, width)
			body.WriteString(name)
			if c.Character != "" {
				rest := width - len([]rune(name)) - 4
				if rest > 0 {
					body.WriteString(styles.DimStyle.Render(" as " + styles.Truncate(c.Character, rest)))
				}
			}
			body.WriteString("\n")
		}
	} else if len(d.Cast) > 0 {
		body.WriteString("\n")
		body.WriteString(styles.AccentStyle.Render("Cast"))
		body.WriteString("\n")
		body.WriteString(wordWrap(strings.Join(d.Cast, ", "), width))
		body.WriteString("\n")
	}

	if len(d.Reviews) > 0 {
		body.WriteString("\n")
		body.WriteString(styles.AccentStyle.Render("Reviews"))
		body.WriteString("\n")
		for n, r := range d.Reviews {
			if n >= maxReviews {
				break
			}
			author := r.Author
			if r.HasRating {
				author += fmt.Sprintf(" (%.0f/10)", r.Rating)
			}
			body.WriteString(styles.SubtitleStyle.Render(author))
			body.WriteString("\n")
			body.WriteString(wordWrap(firstParagraph(r.Content), width))
			body.WriteString("\n\n")
		}
	}

	if len(i.related) > 0 {
		body.WriteString("\n")
		body.WriteString(styles.AccentStyle.Render("More like this"))
		body.WriteString("\n")
		for _, m := range i.related {
			body.WriteString(styles.Truncate("• "+m.Title, width))
			body.WriteString("\n")
		}
	}

	footer := styles.DimStyle.Render("esc: back  a: save  x: remove  g: genre  p: director")
	return inspectorContent{
		header: header.String(),
		body:   strings.TrimRight(body.String(), "\n"),
		footer: footer,
	}
}

func firstParagraph(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "\n\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
