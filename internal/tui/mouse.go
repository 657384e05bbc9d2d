package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const wheelLines = 3

// handleMouseMsg handles wheel scrolling, hover tracking and clicks
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		return m, nil
	}

	// Wheel events report as presses, so check them first
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		delta := wheelLines
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -delta
		}
		if msg.X >= m.listWidth {
			m.Inspector.ScrollBy(delta)
			return m, nil
		}
		m.List.Wheel(delta)
		cmd := m.startAnim()
		return m, cmd
	}

	if i, ok := m.suggestionAt(msg.X, msg.Y); ok {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			cmd := m.submitSearch(m.Search.PickAt(i))
			return m, cmd
		}
		return m, nil
	}

	row := -1
	if msg.X < m.listWidth {
		row = m.List.RowAt(msg.Y - HeaderHeight)
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if row < 0 {
			cmd := m.moveHover("")
			return m, cmd
		}
		m.List.List().Hover(row)
		mv, _ := m.List.List().Item(row)
		cmd := m.moveHover(mv.Key())
		return m, cmd

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || row < 0 {
			return m, nil
		}
		if m.Focus == PaneSearch {
			m.focusList()
		}
		mv, ok := m.List.Click(row)
		cmds := []tea.Cmd{m.startAnim()}
		if ok {
			cmds = append(cmds, m.openDetail(mv))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// suggestionAt maps a screen position to a dropdown row. The dropdown
// overlays the top of the list panel, one line below its border.
func (m Model) suggestionAt(x, y int) (int, bool) {
	if m.Focus != PaneSearch || !m.Search.DropdownVisible() {
		return 0, false
	}
	dd := m.Search.DropdownView()
	if x >= lipgloss.Width(dd) {
		return 0, false
	}
	i := y - HeaderHeight - 1
	n := lipgloss.Height(dd) - 2
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
