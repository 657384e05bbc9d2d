package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinematch/internal/animlist"
	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/hover"
	"github.com/mmcdole/cinematch/internal/log"
	"github.com/mmcdole/cinematch/internal/service"
	"github.com/mmcdole/cinematch/internal/suggest"
	"github.com/mmcdole/cinematch/internal/tui/components"
)

// stubCatalog serves canned movies and counts network calls
type stubCatalog struct {
	mu       sync.Mutex
	calls    int
	movies   []domain.Movie
	overview string
}

func (s *stubCatalog) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubCatalog) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubCatalog) TopWatched(ctx context.Context) ([]domain.Movie, error) {
	s.hit()
	return s.movies, nil
}

func (s *stubCatalog) Collection(ctx context.Context) ([]domain.Movie, error) {
	s.hit()
	return nil, nil
}

func (s *stubCatalog) AddToCollection(ctx context.Context, m domain.Movie) error {
	s.hit()
	return nil
}

func (s *stubCatalog) RemoveFromCollection(ctx context.Context, movieID string) error {
	s.hit()
	return nil
}

func (s *stubCatalog) MoviesByMood(ctx context.Context, category string) (domain.MoodResult, error) {
	s.hit()
	return domain.MoodResult{Movies: s.movies, Mood: category}, nil
}

func (s *stubCatalog) MoviesByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	s.hit()
	return s.movies, nil
}

func (s *stubCatalog) MoviesByPerson(ctx context.Context, role domain.PersonRole, name string) ([]domain.Movie, error) {
	s.hit()
	return s.movies, nil
}

func (s *stubCatalog) MoodText(ctx context.Context, text string) (domain.MoodResult, error) {
	s.hit()
	return domain.MoodResult{Movies: s.movies}, nil
}

func (s *stubCatalog) Recommend(ctx context.Context, title string) ([]domain.Movie, error) {
	s.hit()
	return s.movies, nil
}

func (s *stubCatalog) RecommendFranchise(ctx context.Context, title string) ([]domain.Movie, error) {
	s.hit()
	return s.movies, nil
}

func (s *stubCatalog) Suggestions(ctx context.Context, query string) ([]string, error) {
	s.hit()
	return []string{"Heat"}, nil
}

func (s *stubCatalog) SamplePosters(ctx context.Context, limit int) ([]string, error) {
	s.hit()
	return nil, nil
}

func (s *stubCatalog) Overview(ctx context.Context, movieID, title string) (string, error) {
	s.hit()
	return s.overview, nil
}

func (s *stubCatalog) Details(ctx context.Context, movieID, title string) (*domain.MovieDetail, error) {
	s.hit()
	return &domain.MovieDetail{Movie: domain.Movie{ID: movieID, Title: title}}, nil
}

type suggestionCounter struct {
	applied, discarded int
}

func (c *suggestionCounter) RecordSuggestion(applied bool) {
	if applied {
		c.applied++
	} else {
		c.discarded++
	}
}

var testMovies = []domain.Movie{
	{ID: "949", Title: "Heat", Year: "1995"},
	{ID: "8195", Title: "Ronin", Year: "1998"},
}

func newTestModel(t *testing.T, cat *stubCatalog) (Model, *suggestionCounter) {
	t.Helper()
	logger := log.NullLogger()
	rec := &suggestionCounter{}
	svc := Services{
		Catalog:    service.NewCatalogService(cat, nil, logger),
		Collection: service.NewCollectionService(cat, nil, logger),
		Detail:     service.NewDetailService(cat, nil, nil, logger),
		Session:    service.NewSessionService(nil),
		Suggest:    suggest.NewFetcher(cat, 0, logger),
		Recorder:   rec,
	}
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	m := NewModel(svc, Options{
		List:      animlist.DefaultConfig(),
		LineUnits: 25,
		Hover:     hover.DefaultConfig(),
		Logger:    logger,
		Clock:     clock,
	})
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}), rec
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestSupersededListIsDropped(t *testing.T) {
	m, _ := newTestModel(t, &stubCatalog{})

	stale := m.loadSeq
	cmd := m.loadList(func(seq uint64) tea.Cmd { return nil })
	if cmd != nil {
		t.Fatal("expected nil command from stub loader")
	}

	m = update(t, m, ListLoadedMsg{Seq: stale, Kind: ListTopWatched, Title: "Top Watched", Movies: testMovies})
	if got := m.List.List().Len(); got != 0 {
		t.Fatalf("stale response mounted %d movies", got)
	}

	m = update(t, m, ListLoadedMsg{Seq: m.loadSeq, Kind: ListRecommend, Title: "Because you like Heat", Movies: testMovies[:1]})
	if got := m.List.List().Len(); got != 1 {
		t.Fatalf("current response mounted %d movies, want 1", got)
	}
	if m.Loading {
		t.Error("still loading after current response")
	}
}

func TestStaleSuggestionsDiscarded(t *testing.T) {
	m, rec := newTestModel(t, &stubCatalog{})
	m.focusSearch(components.SearchTitle)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("he")})
	first := m.Search.Session().Generation
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	m = update(t, m, SuggestionsMsg{Result: suggest.Result{Generation: first, Query: "he", Suggestions: []string{"Hereditary"}}})
	if m.Search.DropdownVisible() {
		t.Fatal("stale suggestions were shown")
	}

	current := m.Search.Session().Generation
	m = update(t, m, SuggestionsMsg{Result: suggest.Result{Generation: current, Query: "hea", Suggestions: []string{"Heat"}}})
	if !m.Search.DropdownVisible() {
		t.Fatal("current suggestions not shown")
	}
	if rec.applied != 1 || rec.discarded != 1 {
		t.Errorf("applied=%d discarded=%d, want 1/1", rec.applied, rec.discarded)
	}
}

func TestHoverPeekAfterDwell(t *testing.T) {
	cat := &stubCatalog{overview: "A crew of thieves pulls one last job."}
	m, _ := newTestModel(t, cat)
	m = update(t, m, ListLoadedMsg{Seq: m.loadSeq, Kind: ListTopWatched, Movies: testMovies})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	key := testMovies[0].Key()
	if m.hoverKey != key {
		t.Fatalf("hoverKey = %q, want %q", m.hoverKey, key)
	}
	if _, open := m.hover.Open(); open {
		t.Fatal("peek open before dwell elapsed")
	}

	token := m.hover.Session(key).Token
	next, cmd := m.Update(HoverTimerMsg{Key: key, Token: token})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected overview fetch after dwell")
	}
	s, open := m.hover.Open()
	if !open || !s.Loading() {
		t.Fatalf("session = %+v, want open and loading", s)
	}

	loaded, ok := findMsg[OverviewLoadedMsg](cmd)
	if !ok {
		t.Fatal("fetch command did not return an overview")
	}
	m = update(t, m, loaded)
	s, _ = m.hover.Open()
	if s.Text() != cat.overview {
		t.Errorf("peek text = %q", s.Text())
	}

	// Leaving and coming back reuses the fetched summary
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	m = next.(Model)
	if _, refetched := findMsg[OverviewLoadedMsg](cmd); refetched {
		t.Error("summary was fetched twice")
	}
	if got := m.hover.Session(key); got.Fetch != hover.Fetched || got.Text() != cat.overview {
		t.Errorf("session = %+v", got)
	}
}

// findMsg runs cmd, descending into batches, and returns the first message
// of type T
func findMsg[T tea.Msg](cmd tea.Cmd) (T, bool) {
	var zero T
	if cmd == nil {
		return zero, false
	}
	switch msg := cmd().(type) {
	case T:
		return msg, true
	case tea.BatchMsg:
		for _, c := range msg {
			if found, ok := findMsg[T](c); ok {
				return found, true
			}
		}
	}
	return zero, false
}

func TestBlockedSearchShowsStatusWithoutNetwork(t *testing.T) {
	cat := &stubCatalog{}
	m, _ := newTestModel(t, cat)
	before := cat.count()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if m.Focus != PaneSearch {
		t.Fatal("search not focused")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("porn")})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	m = update(t, m, cmd())

	if m.StatusMsg != "Inappropriate search term blocked." || !m.StatusIsErr {
		t.Errorf("status = %q (err=%v)", m.StatusMsg, m.StatusIsErr)
	}
	if cat.count() != before {
		t.Errorf("network calls = %d, want %d", cat.count(), before)
	}
}

func TestTypingBlockedTermShowsStatus(t *testing.T) {
	cat := &stubCatalog{}
	m, _ := newTestModel(t, cat)
	before := cat.count()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if m.Focus != PaneSearch {
		t.Fatal("search not focused")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("porn")})

	if m.StatusMsg != "Inappropriate search term blocked." || !m.StatusIsErr {
		t.Errorf("status = %q (err=%v)", m.StatusMsg, m.StatusIsErr)
	}
	if !m.Search.Session().Blocked {
		t.Error("session not marked blocked")
	}
	if cat.count() != before {
		t.Errorf("network calls = %d, want %d", cat.count(), before)
	}
}

func TestLoadErrorText(t *testing.T) {
	tests := []struct {
		kind ListKind
		err  error
		want string
	}{
		{ListRecommend, domain.ErrEmptyQuery, "Please enter a movie title"},
		{ListMood, domain.ErrEmptyQuery, "Please describe your mood"},
		{ListMood, domain.ErrBlockedTerm, "Inappropriate content blocked."},
		{ListTopWatched, errors.New("catalog unavailable"), "catalog unavailable"},
	}
	for _, tt := range tests {
		if got := loadErrorText(tt.kind, tt.err); got != tt.want {
			t.Errorf("loadErrorText(%v, %v) = %q, want %q", tt.kind, tt.err, got, tt.want)
		}
	}
}

func TestToggleMoodReturnsToTopWatched(t *testing.T) {
	m, _ := newTestModel(t, &stubCatalog{movies: testMovies})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	if m.activeMood != domain.MoodCategories[0] {
		t.Fatalf("activeMood = %q", m.activeMood)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m = next.(Model)
	if m.activeMood != "" {
		t.Errorf("activeMood = %q after toggle, want empty", m.activeMood)
	}
	msg, ok := cmd().(ListLoadedMsg)
	if !ok || msg.Kind != ListTopWatched {
		t.Errorf("toggle loaded %+v, want top watched", msg)
	}
}
