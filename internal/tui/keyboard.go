package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinematch/internal/animlist"
	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.Focus == PaneSearch {
		return m.handleSearchKey(msg)
	}
	if m.List.IsFilterTyping() {
		cmd := m.List.UpdateFilter(msg)
		cmd = tea.Batch(cmd, m.hoverFocused(), m.startAnim())
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Inspector.InDetail() {
			m.closeDetail()
			m.syncPeek()
			return m, nil
		}
		if m.List.IsFiltering() {
			m.List.ClearFilter()
			cmd := tea.Batch(m.hoverFocused(), m.startAnim())
			return m, cmd
		}
		cmd := m.moveHover("")
		return m, cmd

	case key.Matches(msg, Keys.Search):
		cmd := m.focusSearch(components.SearchTitle)
		return m, cmd

	case key.Matches(msg, Keys.MoodSearch):
		cmd := m.focusSearch(components.SearchMood)
		return m, cmd

	case key.Matches(msg, Keys.Filter):
		m.List.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.TopWatched):
		m.closeDetail()
		cmd := m.loadList(func(seq uint64) tea.Cmd {
			return LoadTopWatchedCmd(m.svc.Catalog, seq)
		})
		return m, cmd

	case key.Matches(msg, Keys.Collection):
		m.closeDetail()
		cmd := m.loadList(func(seq uint64) tea.Cmd {
			return LoadCollectionCmd(m.svc.Collection, seq)
		})
		return m, cmd

	case key.Matches(msg, Keys.Moods):
		i := int(msg.String()[0] - '1')
		if i < 0 || i >= len(domain.MoodCategories) {
			return m, nil
		}
		m.closeDetail()
		cmd := m.toggleMood(domain.MoodCategories[i])
		return m, cmd

	case key.Matches(msg, Keys.Refresh):
		cmd := m.loadList(m.reload)
		return m, cmd

	case key.Matches(msg, Keys.Add):
		if mv, ok := m.target(); ok {
			cmd := m.addToCollection(mv)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.Remove):
		if mv, ok := m.target(); ok {
			cmd := m.removeFromCollection(mv)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, Keys.Genre):
		cmd := m.browseGenre()
		return m, cmd

	case key.Matches(msg, Keys.Director):
		cmd := m.browseDirector()
		return m, cmd

	case key.Matches(msg, Keys.ClearCache):
		m.svc.Session.Reset()
		cmd := m.setStatus("Cache cleared", false)
		return m, cmd

	case key.Matches(msg, Keys.PageUp):
		if m.Inspector.InDetail() {
			m.Inspector.ScrollBy(-m.contentHeight() / 2)
			return m, nil
		}
		m.List.PageBy(-1)
		cmd := m.startAnim()
		return m, cmd

	case key.Matches(msg, Keys.PageDown):
		if m.Inspector.InDetail() {
			m.Inspector.ScrollBy(m.contentHeight() / 2)
			return m, nil
		}
		m.List.PageBy(1)
		cmd := m.startAnim()
		return m, cmd
	}

	if m.Inspector.InDetail() {
		switch {
		case key.Matches(msg, Keys.Up):
			m.Inspector.ScrollBy(-1)
		case key.Matches(msg, Keys.Down):
			m.Inspector.ScrollBy(1)
		}
		return m, nil
	}

	var k animlist.Key
	switch {
	case key.Matches(msg, Keys.Up):
		k = animlist.KeyUp
	case key.Matches(msg, Keys.Down):
		k = animlist.KeyDown
	case key.Matches(msg, Keys.Tab):
		k = animlist.KeyTab
	case key.Matches(msg, Keys.ShiftTab):
		k = animlist.KeyShiftTab
	case key.Matches(msg, Keys.Enter):
		k = animlist.KeyEnter
	default:
		return m, nil
	}
	cmd := m.listKey(k)
	return m, cmd
}

// listKey applies a navigation key to the list; Enter opens the detail page
func (m *Model) listKey(k animlist.Key) tea.Cmd {
	picked, ok := m.List.HandleKey(k)
	cmds := []tea.Cmd{m.hoverFocused(), m.startAnim()}
	if ok {
		cmds = append(cmds, m.openDetail(picked))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.Search.DropdownVisible() {
			m.Search.HideDropdown()
			return m, nil
		}
		m.focusList()
		return m, nil

	case "tab":
		m.focusList()
		return m, nil

	case "up":
		m.Search.Move(-1)
		return m, nil

	case "down":
		m.Search.Move(1)
		return m, nil

	case "enter":
		cmd := m.submitSearch(m.Search.Submit())
		return m, cmd
	}

	gen := m.Search.Session().Generation
	cmd, req := m.Search.Update(msg)
	if req != nil {
		return m, tea.Batch(cmd, FetchSuggestionsCmd(m.svc.Suggest, *req))
	}
	if s := m.Search.Session(); s.Blocked && s.Generation != gen {
		statusCmd := m.setStatus("Inappropriate search term blocked.", true)
		return m, tea.Batch(cmd, statusCmd)
	}
	return m, cmd
}

// submitSearch runs the search box query as a primary load
func (m *Model) submitSearch(q string) tea.Cmd {
	mode := m.Search.Mode()
	m.focusList()
	m.closeDetail()

	if mode == components.SearchMood {
		m.activeMood = ""
		return m.loadList(func(seq uint64) tea.Cmd {
			return MoodTextCmd(m.svc.Catalog, seq, q)
		})
	}
	return m.loadList(func(seq uint64) tea.Cmd {
		return RecommendCmd(m.svc.Catalog, seq, q)
	})
}

// toggleMood loads a preset mood; choosing the active mood again returns
// to the most watched list
func (m *Model) toggleMood(category string) tea.Cmd {
	if m.activeMood == category {
		m.activeMood = ""
		return m.loadList(func(seq uint64) tea.Cmd {
			return LoadTopWatchedCmd(m.svc.Catalog, seq)
		})
	}
	m.activeMood = category
	return m.loadList(func(seq uint64) tea.Cmd {
		return MoodCmd(m.svc.Catalog, seq, category)
	})
}

func (m *Model) browseGenre() tea.Cmd {
	mv, ok := m.target()
	if !ok {
		return nil
	}
	genres := mv.Genres
	if d := m.Inspector.Detail(); d != nil && len(d.Genres) > 0 {
		genres = d.Genres
	}
	if len(genres) == 0 {
		return m.setStatus("No genre listed for this movie", true)
	}
	genre := genres[0]
	m.closeDetail()
	return m.loadList(func(seq uint64) tea.Cmd {
		return GenreCmd(m.svc.Catalog, seq, genre)
	})
}

func (m *Model) browseDirector() tea.Cmd {
	mv, ok := m.target()
	if !ok {
		return nil
	}
	directors := mv.Directors
	if d := m.Inspector.Detail(); d != nil && len(d.Directors) > 0 {
		directors = d.Directors
	}
	if len(directors) == 0 {
		return m.setStatus("No director listed for this movie", true)
	}
	name := directors[0]
	m.closeDetail()
	return m.loadList(func(seq uint64) tea.Cmd {
		return PersonCmd(m.svc.Catalog, seq, domain.RoleDirector, name)
	})
}

func (m *Model) focusSearch(mode components.SearchMode) tea.Cmd {
	if m.Search.Mode() != mode {
		m.Search.SetMode(mode)
	}
	m.Focus = PaneSearch
	m.List.SetFocused(false)
	return m.Search.Focus()
}

func (m *Model) focusList() {
	m.Search.Blur()
	m.Focus = PaneList
	m.List.SetFocused(true)
}
