package tui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinematch/internal/animlist"
	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/hover"
	"github.com/mmcdole/cinematch/internal/service"
	"github.com/mmcdole/cinematch/internal/suggest"
	"github.com/mmcdole/cinematch/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Pane is the component receiving keys
type Pane int

const (
	PaneList Pane = iota
	PaneSearch
)

// Layout proportions
const (
	ListColumnPercent = 55
	MinColumnWidth    = 24

	// Vertical layout: header line and footer line
	HeaderHeight = 1
	ChromeHeight = 2

	statusTimeout = 2500 * time.Millisecond
)

// SuggestRecorder counts suggestion responses as applied or discarded
type SuggestRecorder interface {
	RecordSuggestion(applied bool)
}

// Services bundles what the TUI calls into
type Services struct {
	Catalog    *service.CatalogService
	Collection *service.CollectionService
	Detail     *service.DetailService
	Session    *service.SessionService
	Suggest    *suggest.Fetcher
	Recorder   SuggestRecorder // may be nil
}

// Options tunes the TUI
type Options struct {
	List      animlist.Config
	LineUnits float64
	Hover     hover.Config
	Logger    *slog.Logger
	Clock     func() time.Time // nil uses time.Now
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool
	Focus Pane

	svc    Services
	logger *slog.Logger
	now    func() time.Time

	// UI Components
	List      *components.MovieList
	Search    components.SearchBox
	Inspector components.Inspector

	// Primary list
	listKind   ListKind
	activeMood string
	byKey      map[string]domain.Movie
	loadSeq    uint64
	reload     func(seq uint64) tea.Cmd

	// Hover
	hover    *hover.Tracker
	hoverKey string

	// Detail page
	detailSeq   uint64
	detailMovie domain.Movie

	// Dimensions
	Width     int
	Height    int
	listWidth int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	statusID     int
	Loading      bool
	SpinnerFrame int
	animating    bool
}

// NewModel creates a new application model. A cached most watched list is
// painted immediately while the network load runs.
func NewModel(svc Services, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	var listOpts []animlist.Option[domain.Movie]
	if opts.Clock != nil {
		listOpts = append(listOpts, animlist.WithClock[domain.Movie](opts.Clock))
	}

	m := Model{
		State:     StateBrowsing,
		Focus:     PaneList,
		svc:       svc,
		logger:    logger,
		now:       now,
		List:      components.NewMovieList(opts.List, opts.LineUnits, listOpts...),
		Search:    components.NewSearchBox(),
		Inspector: components.NewInspector(),
		byKey:     make(map[string]domain.Movie),
		hover:     hover.NewTracker(opts.Hover),
	}
	m.List.SetFocused(true)

	m.loadSeq = 1
	m.Loading = true
	m.reload = func(seq uint64) tea.Cmd { return LoadTopWatchedCmd(m.svc.Catalog, seq) }

	if cached, ok := svc.Catalog.CachedTopWatched(); ok && len(cached) > 0 {
		m.mount(ListTopWatched, "Top Watched", cached)
		m.animating = m.List.List().Animating()
	} else {
		m.List.Mount("Top Watched", nil)
		m.List.SetLoading(true)
	}
	if _, ok := svc.Collection.Cached(); ok {
		m.logger.Debug("collection painted from cache")
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.reload(m.loadSeq),
		SyncCollectionCmd(m.svc.Collection),
		TickCmd(100 * time.Millisecond),
	}
	if m.animating {
		cmds = append(cmds, AnimTickCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		cmd := m.startAnim()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.List.SetSpinnerFrame(m.SpinnerFrame)
		m.Inspector.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case AnimTickMsg:
		if m.List.List().Tick() {
			return m, AnimTickCmd()
		}
		m.animating = false
		return m, nil

	case ListLoadedMsg:
		return m.handleListLoaded(msg)

	case CollectionLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn("collection sync failed", "error", msg.Err)
			return m, nil
		}
		if m.listKind == ListCollection {
			m.refreshList(msg.Movies)
		}
		m.syncSaved()
		cmd := m.startAnim()
		return m, cmd

	case CollectionDoneMsg:
		return m.handleCollectionDone(msg)

	case SuggestionsMsg:
		applied := m.Search.Resolve(msg.Result)
		if m.svc.Recorder != nil {
			m.svc.Recorder.RecordSuggestion(applied)
		}
		if !applied {
			m.logger.Debug("discarded stale suggestions",
				"generation", msg.Result.Generation, "query", msg.Result.Query)
		}
		return m, nil

	case HoverTimerMsg:
		var ev hover.Event = hover.ArmFired{Token: msg.Token}
		if msg.Hide {
			ev = hover.HideFired{Token: msg.Token}
		}
		cmd := m.runHoverEffects(m.hover.Dispatch(msg.Key, ev))
		m.syncPeek()
		return m, cmd

	case OverviewLoadedMsg:
		if msg.Err != nil {
			m.logger.Debug("hover summary failed", "key", msg.Key, "error", msg.Err)
		}
		m.hover.Dispatch(msg.Key, hover.Loaded{Detail: msg.Text, Err: msg.Err})
		m.syncPeek()
		return m, nil

	case DetailLoadedMsg:
		if msg.Seq != m.detailSeq || !m.Inspector.InDetail() {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("detail load failed", "movie", m.detailMovie.Title, "error", msg.Err)
		}
		m.Inspector.SetDetail(msg.Detail, msg.Err)
		return m, nil

	case RelatedLoadedMsg:
		if msg.Seq != m.detailSeq || !m.Inspector.InDetail() {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Debug("related movies failed", "error", msg.Err)
			return m, nil
		}
		m.Inspector.SetRelated(msg.Movies)
		return m, nil

	case StatusMsg:
		cmd := m.setStatus(msg.Message, msg.IsError)
		return m, cmd

	case ClearStatusMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil

	case ErrMsg:
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd
	}

	return m, nil
}

// === Primary list ===

// loadList starts a primary load. Responses from earlier loads are dropped
// when they arrive.
func (m *Model) loadList(fn func(seq uint64) tea.Cmd) tea.Cmd {
	m.loadSeq++
	m.reload = fn
	m.Loading = true
	if m.List.List().Len() == 0 {
		m.List.SetLoading(true)
	}
	return fn(m.loadSeq)
}

func (m Model) handleListLoaded(msg ListLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.loadSeq {
		m.logger.Debug("dropped superseded list", "seq", msg.Seq, "current", m.loadSeq)
		return m, nil
	}
	m.Loading = false
	m.List.SetLoading(false)

	if msg.Err != nil {
		m.logger.Warn("list load failed", "kind", msg.Kind, "error", msg.Err)
		cmd := m.setStatus(loadErrorText(msg.Kind, msg.Err), true)
		return m, cmd
	}
	if msg.Kind == ListMood && msg.Mood != "" && m.activeMood == "" {
		m.activeMood = msg.Mood
	}
	cmd := m.mount(msg.Kind, msg.Title, msg.Movies)
	if len(msg.Movies) == 0 {
		cmd = tea.Batch(cmd, m.setStatus("No movies found", false))
		return m, cmd
	}
	return m, cmd
}

func loadErrorText(kind ListKind, err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery) && kind == ListMood:
		return "Please describe your mood"
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Please enter a movie title"
	case errors.Is(err, domain.ErrBlockedTerm) && kind == ListMood:
		return "Inappropriate content blocked."
	case errors.Is(err, domain.ErrBlockedTerm):
		return "Inappropriate search term blocked."
	}
	return err.Error()
}

// mount shows a new primary list. Hover sessions of the previous list are
// disposed and known summaries are seeded so they never refetch.
func (m *Model) mount(kind ListKind, title string, movies []domain.Movie) tea.Cmd {
	m.listKind = kind
	if kind != ListMood {
		m.activeMood = ""
	}
	m.List.Mount(title, movies)
	m.List.SetSize(m.listWidth, m.contentHeight())

	m.hover.Reset()
	m.hoverKey = ""
	m.byKey = make(map[string]domain.Movie, len(movies))
	for _, mv := range movies {
		m.index(mv)
	}
	m.Inspector.SetPeek(nil)
	return m.startAnim()
}

// refreshList swaps the items of the current list in place
func (m *Model) refreshList(movies []domain.Movie) {
	m.List.Refresh(movies)
	for _, mv := range movies {
		m.index(mv)
	}
}

func (m *Model) index(mv domain.Movie) {
	k := mv.Key()
	m.byKey[k] = mv
	if mv.Overview != "" {
		m.hover.Seed(k, mv.Overview)
	} else if text, ok := m.svc.Detail.Cached(mv.ID); ok {
		m.hover.Seed(k, text)
	}
}

// startAnim begins frame ticks if the list has work to animate
func (m *Model) startAnim() tea.Cmd {
	if m.animating || !m.List.List().Animating() {
		return nil
	}
	m.animating = true
	return AnimTickCmd()
}

// === Hover ===

// moveHover points hover at key ("" for none), leaving the previous item
func (m *Model) moveHover(key string) tea.Cmd {
	if key == m.hoverKey {
		return nil
	}
	var effects []hover.Effect
	if m.hoverKey != "" {
		effects = append(effects, m.hover.Dispatch(m.hoverKey, hover.Leave{})...)
	}
	m.hoverKey = key
	if key != "" {
		effects = append(effects, m.hover.Dispatch(key, hover.Enter{At: m.now()})...)
	}
	cmd := m.runHoverEffects(effects)
	m.syncPeek()
	return cmd
}

// hoverFocused points hover at the keyboard-focused row
func (m *Model) hoverFocused() tea.Cmd {
	mv, ok := m.List.List().Focused()
	if !ok {
		return m.moveHover("")
	}
	return m.moveHover(mv.Key())
}

func (m *Model) runHoverEffects(effects []hover.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e.Kind {
		case hover.ArmTimer:
			cmds = append(cmds, HoverTimerCmd(e.ItemID, e.Token, e.Delay, false))
		case hover.HideTimer:
			cmds = append(cmds, HoverTimerCmd(e.ItemID, e.Token, e.Delay, true))
		case hover.FetchDetail:
			if mv, ok := m.byKey[e.ItemID]; ok {
				cmds = append(cmds, FetchOverviewCmd(m.svc.Detail, mv))
			}
		case hover.CancelTimer:
			// tea.Tick cannot be stopped; the superseded token is inert
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) syncPeek() {
	s, ok := m.hover.Open()
	if !ok {
		m.Inspector.SetPeek(nil)
		return
	}
	m.Inspector.SetPeek(&components.Peek{
		Movie:   m.byKey[s.ItemID],
		Text:    s.Text(),
		Loading: s.Loading(),
	})
}

// === Detail page ===

func (m *Model) openDetail(mv domain.Movie) tea.Cmd {
	m.detailSeq++
	m.detailMovie = mv
	m.Inspector.ShowDetailLoading()
	m.Inspector.SetSaved(m.svc.Collection.Contains(mv))
	return tea.Batch(
		LoadDetailCmd(m.svc.Catalog, m.detailSeq, mv),
		LoadRelatedCmd(m.svc.Catalog, m.detailSeq, mv),
	)
}

func (m *Model) closeDetail() {
	m.detailSeq++
	m.Inspector.CloseDetail()
}

// target returns the movie actions apply to: the open detail page, else
// the focused row
func (m Model) target() (domain.Movie, bool) {
	if m.Inspector.InDetail() {
		return m.detailMovie, true
	}
	return m.List.List().Focused()
}

// === Collection ===

func (m *Model) addToCollection(mv domain.Movie) tea.Cmd {
	if m.svc.Collection.Contains(mv) {
		return m.setStatus("This movie is already in your collection!", true)
	}
	if m.listKind == ListCollection {
		m.refreshList(append(append([]domain.Movie(nil), m.List.Movies()...), mv))
	}
	return AddToCollectionCmd(m.svc.Collection, mv)
}

func (m *Model) removeFromCollection(mv domain.Movie) tea.Cmd {
	if !m.svc.Collection.Contains(mv) {
		return m.setStatus("This movie is not in your collection", true)
	}
	if m.listKind == ListCollection {
		var kept []domain.Movie
		for _, it := range m.List.Movies() {
			if it.Key() != mv.Key() {
				kept = append(kept, it)
			}
		}
		m.refreshList(kept)
	}
	return RemoveFromCollectionCmd(m.svc.Collection, mv)
}

func (m Model) handleCollectionDone(msg CollectionDoneMsg) (tea.Model, tea.Cmd) {
	if m.listKind == ListCollection {
		m.refreshList(m.svc.Collection.Items())
	}
	m.syncSaved()

	var text string
	isErr := msg.Err != nil
	switch {
	case msg.Op == OpAdd && msg.Err == nil:
		text = "Added to collection"
	case msg.Op == OpAdd && errors.Is(msg.Err, domain.ErrAlreadyInCollection):
		text = "This movie is already in your collection!"
	case msg.Op == OpAdd:
		text = "Failed to add movie to collection. Please try again."
	case msg.Err == nil:
		text = "Removed from collection"
	default:
		text = "Failed to remove. Refreshed collection."
	}
	if isErr {
		m.logger.Warn("collection write failed", "op", msg.Op, "movie", msg.Movie.Title, "error", msg.Err)
	}
	cmd := tea.Batch(m.setStatus(text, isErr), m.startAnim())
	return m, cmd
}

func (m *Model) syncSaved() {
	if m.Inspector.InDetail() {
		m.Inspector.SetSaved(m.svc.Collection.Contains(m.detailMovie))
	}
}

// === Status ===

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusID++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusID, statusTimeout)
}
