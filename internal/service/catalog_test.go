package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/store"
)

func newMemoryStore(t *testing.T) *store.MovieStore {
	t.Helper()
	s, err := store.NewMovieStore("", "http://test")
	if err != nil {
		t.Fatalf("NewMovieStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGuardedQueriesSkipNetwork(t *testing.T) {
	fake := &fakeCatalog{}
	svc := NewCatalogService(fake, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  error
	}{
		{"blank", "   ", domain.ErrEmptyQuery},
		{"empty", "", domain.ErrEmptyQuery},
		{"blocked", "Adult comedy", domain.ErrBlockedTerm},
		{"blocked mixed case", "PORN", domain.ErrBlockedTerm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Recommend(ctx, tt.query); !errors.Is(err, tt.want) {
				t.Errorf("Recommend(%q) err = %v, want %v", tt.query, err, tt.want)
			}
			if _, err := svc.MoodText(ctx, tt.query); !errors.Is(err, tt.want) {
				t.Errorf("MoodText(%q) err = %v, want %v", tt.query, err, tt.want)
			}
		})
	}

	if n := fake.total(); n != 0 {
		t.Errorf("network calls = %d, want 0", n)
	}
}

func TestRecommendTrimsQuery(t *testing.T) {
	fake := &fakeCatalog{recommend: []domain.Movie{{ID: "1", Title: "Heat"}}}
	svc := NewCatalogService(fake, nil, nil)

	movies, err := svc.Recommend(context.Background(), "  Ronin ")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(movies) != 1 || fake.lastTitle != "Ronin" {
		t.Errorf("movies = %v, title sent = %q", movies, fake.lastTitle)
	}
}

func TestTopWatchedSavesSnapshot(t *testing.T) {
	st := newMemoryStore(t)
	fake := &fakeCatalog{top: []domain.Movie{{ID: "27205", Title: "Inception"}}}
	svc := NewCatalogService(fake, st, nil)

	if _, ok := svc.CachedTopWatched(); ok {
		t.Fatal("expected no snapshot before first load")
	}
	if _, err := svc.TopWatched(context.Background()); err != nil {
		t.Fatalf("TopWatched: %v", err)
	}
	cached, ok := svc.CachedTopWatched()
	if !ok || len(cached) != 1 || cached[0].Title != "Inception" {
		t.Errorf("cached = %v, %v", cached, ok)
	}
}

func TestTopWatchedSurfacesError(t *testing.T) {
	st := newMemoryStore(t)
	fake := &fakeCatalog{err: errBoom}
	svc := NewCatalogService(fake, st, nil)

	if _, err := svc.TopWatched(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok := svc.CachedTopWatched(); ok {
		t.Error("failed load must not write a snapshot")
	}
}

func TestRelatedUsesFranchiseAndExcludesSelf(t *testing.T) {
	fake := &fakeCatalog{recommend: []domain.Movie{
		{ID: "11", Title: "Star Wars"},
		{ID: "1891", Title: "The Empire Strikes Back"},
		{ID: "1892", Title: "Return of the Jedi"},
	}}
	svc := NewCatalogService(fake, nil, nil)

	related, err := svc.Related(context.Background(), domain.Movie{ID: "1891", Title: "Star Wars: The Empire Strikes Back"})
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if fake.lastTitle != "Star Wars" {
		t.Errorf("franchise query = %q", fake.lastTitle)
	}
	if len(related) != 2 {
		t.Fatalf("related = %v", related)
	}
	for _, m := range related {
		if m.ID == "1891" {
			t.Error("related list contains the movie itself")
		}
	}
}

func TestDetailsRequiresIdentity(t *testing.T) {
	fake := &fakeCatalog{}
	svc := NewCatalogService(fake, nil, nil)

	if _, err := svc.Details(context.Background(), domain.Movie{}); !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("err = %v", err)
	}
	d, err := svc.Details(context.Background(), domain.Movie{ID: "603", Title: "The Matrix"})
	if err != nil || d.ID != "603" {
		t.Errorf("detail = %+v, err = %v", d, err)
	}
}

func TestSamplePostersRequestsSampleSize(t *testing.T) {
	fake := &fakeCatalog{posters: []string{"https://img/a.jpg", "https://img/b.jpg"}}
	svc := NewCatalogService(fake, nil, nil)

	posters, err := svc.SamplePosters(context.Background())
	if err != nil {
		t.Fatalf("SamplePosters: %v", err)
	}
	if fake.lastLimit != PosterSampleSize {
		t.Errorf("limit = %d, want %d", fake.lastLimit, PosterSampleSize)
	}
	if len(posters) != 2 {
		t.Errorf("posters = %v", posters)
	}
}
