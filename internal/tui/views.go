package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/tui/components"
	"github.com/mmcdole/cinematch/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.State == StateHelp {
		return m.renderHelp()
	}

	list := m.List.View()
	if m.Focus == PaneSearch {
		list = overlayTop(list, m.Search.DropdownView())
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		list,
		m.Inspector.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

// overlayTop replaces the first lines of base with overlay
func overlayTop(base, overlay string) string {
	if overlay == "" {
		return base
	}
	lines := strings.Split(base, "\n")
	for i, l := range strings.Split(overlay, "\n") {
		if i >= len(lines) {
			break
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}

// renderHeader renders the brand, the search input and the mood chips
func (m Model) renderHeader() string {
	brand := styles.TitleStyle.Render("🎬 CineMatch")

	var chips []string
	for i, mood := range domain.MoodCategories {
		label := fmt.Sprintf("%d %s", i+1, mood)
		if mood == m.activeMood {
			chips = append(chips, styles.BadgeStyle.Render(label))
		} else {
			chips = append(chips, styles.DimBadgeStyle.Render(label))
		}
	}

	header := brand + " " + m.Search.View() + "  " + strings.Join(chips, " ")
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(header)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	var left string
	if m.Loading {
		left = components.RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	}

	center := m.renderHints()
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func (m Model) renderHints() string {
	var pairs [][2]string
	switch {
	case m.Focus == PaneSearch:
		pairs = [][2]string{{"enter", "search"}, {"↑/↓", "pick"}, {"esc", "close"}}
	case m.Inspector.InDetail():
		pairs = [][2]string{{"a", "save"}, {"x", "remove"}, {"g", "genre"}, {"p", "director"}, {"esc", "back"}}
	case m.listKind == ListCollection:
		pairs = [][2]string{{"enter", "details"}, {"x", "remove"}, {"/", "filter"}}
	default:
		pairs = [][2]string{{"s", "search"}, {"m", "mood"}, {"enter", "details"}}
	}

	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = styles.AccentStyle.Render(p[0]) + styles.DimStyle.Render(" "+p[1])
	}
	return strings.Join(parts, "  ")
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSE                          SEARCH
  j/k        Up/down               s      Search by title
  Tab        Next movie            m      Describe a mood
  Enter      Movie details         1-5    Preset moods
  PgUp/PgDn  Scroll page           /      Filter this list
  Esc        Back / Cancel         t      Most watched

COLLECTION                      OTHER
  c          Show collection       g      Same genre
  a          Add movie             p      Same director
  x          Remove movie          r      Reload list
                                   Ctrl+l Clear cache
                                   q      Quit

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
