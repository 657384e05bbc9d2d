package tui

// contentHeight is the height left for the list and inspector columns
func (m Model) contentHeight() int {
	h := m.Height - ChromeHeight
	if h < 3 {
		h = 3
	}
	return h
}

// updateLayout recalculates component sizes from the window dimensions
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.listWidth = m.Width * ListColumnPercent / 100
	if m.listWidth < MinColumnWidth {
		m.listWidth = MinColumnWidth
	}
	inspectorWidth := m.Width - m.listWidth
	if inspectorWidth < MinColumnWidth {
		inspectorWidth = MinColumnWidth
	}

	h := m.contentHeight()
	m.List.SetSize(m.listWidth, h)
	m.Inspector.SetSize(inspectorWidth, h)
	m.Search.SetWidth(m.listWidth)
}
