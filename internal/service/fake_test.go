package service

import (
	"context"
	"errors"
	"sync"

	"github.com/mmcdole/cinematch/internal/domain"
)

var errBoom = errors.New("boom")

// fakeCatalog records calls and serves canned results
type fakeCatalog struct {
	mu    sync.Mutex
	calls []string

	top        []domain.Movie
	collection []domain.Movie
	recommend  []domain.Movie
	overview   string
	posters    []string
	err        error
	addErr     error
	removeErr  error

	lastTitle string
	lastLimit int
}

var _ domain.Catalog = (*fakeCatalog)(nil)

func (f *fakeCatalog) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeCatalog) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeCatalog) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCatalog) TopWatched(ctx context.Context) ([]domain.Movie, error) {
	f.record("top")
	return f.top, f.err
}

func (f *fakeCatalog) Collection(ctx context.Context) ([]domain.Movie, error) {
	f.record("collection")
	return f.collection, f.err
}

func (f *fakeCatalog) AddToCollection(ctx context.Context, m domain.Movie) error {
	f.record("add")
	return f.addErr
}

func (f *fakeCatalog) RemoveFromCollection(ctx context.Context, movieID string) error {
	f.record("remove")
	return f.removeErr
}

func (f *fakeCatalog) MoviesByMood(ctx context.Context, category string) (domain.MoodResult, error) {
	f.record("mood")
	return domain.MoodResult{Movies: f.top, Mood: category}, f.err
}

func (f *fakeCatalog) MoviesByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	f.record("genre")
	return f.top, f.err
}

func (f *fakeCatalog) MoviesByPerson(ctx context.Context, role domain.PersonRole, name string) ([]domain.Movie, error) {
	f.record("person")
	return f.top, f.err
}

func (f *fakeCatalog) MoodText(ctx context.Context, text string) (domain.MoodResult, error) {
	f.record("mood_text")
	return domain.MoodResult{Movies: f.top, Mood: "Happy"}, f.err
}

func (f *fakeCatalog) Recommend(ctx context.Context, title string) ([]domain.Movie, error) {
	f.record("recommend")
	f.lastTitle = title
	return f.recommend, f.err
}

func (f *fakeCatalog) RecommendFranchise(ctx context.Context, title string) ([]domain.Movie, error) {
	f.record("recommend_franchise")
	f.lastTitle = title
	return f.recommend, f.err
}

func (f *fakeCatalog) Suggestions(ctx context.Context, query string) ([]string, error) {
	f.record("suggestions")
	return nil, f.err
}

func (f *fakeCatalog) SamplePosters(ctx context.Context, limit int) ([]string, error) {
	f.record("posters")
	f.mu.Lock()
	f.lastLimit = limit
	f.mu.Unlock()
	return f.posters, f.err
}

func (f *fakeCatalog) Overview(ctx context.Context, movieID, title string) (string, error) {
	f.record("overview")
	return f.overview, f.err
}

func (f *fakeCatalog) Details(ctx context.Context, movieID, title string) (*domain.MovieDetail, error) {
	f.record("details")
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MovieDetail{Movie: domain.Movie{ID: movieID, Title: title}}, nil
}

type countingRecorder struct {
	hits, misses int
}

func (r *countingRecorder) RecordCacheLookup(cache string, hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}
