package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/guard"
)

// PosterSampleSize is how many poster URLs the landing backdrop asks for
const PosterSampleSize = 120

// CatalogService loads primary lists and guards free-text queries before
// they reach the network
type CatalogService struct {
	catalog domain.Catalog
	store   domain.Store
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service. store may be nil.
func NewCatalogService(catalog domain.Catalog, store domain.Store, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{catalog: catalog, store: store, logger: logger}
}

// TopWatched fetches the most watched list and refreshes its snapshot
func (s *CatalogService) TopWatched(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.catalog.TopWatched(ctx)
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(domain.ViewTopWatched, movies)
	return movies, nil
}

// CachedTopWatched returns the last saved most watched list, if any
func (s *CatalogService) CachedTopWatched() ([]domain.Movie, bool) {
	if s.store == nil {
		return nil, false
	}
	snap, ok := s.store.GetList(domain.ViewTopWatched)
	if !ok {
		return nil, false
	}
	return snap.Movies, true
}

func (s *CatalogService) saveSnapshot(view string, movies []domain.Movie) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveList(view, movies); err != nil {
		s.logger.Warn("failed to save list snapshot", "view", view, "error", err)
	}
}

// Mood fetches movies for a preset mood category
func (s *CatalogService) Mood(ctx context.Context, category string) (domain.MoodResult, error) {
	return s.catalog.MoviesByMood(ctx, category)
}

// Genre fetches movies for a genre
func (s *CatalogService) Genre(ctx context.Context, genre string) ([]domain.Movie, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.catalog.MoviesByGenre(ctx, genre)
}

// Person fetches movies credited to an actor or director
func (s *CatalogService) Person(ctx context.Context, role domain.PersonRole, name string) ([]domain.Movie, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.catalog.MoviesByPerson(ctx, role, name)
}

// MoodText classifies a free-text mood description and returns matching movies.
// Blank or blocked text never reaches the network.
func (s *CatalogService) MoodText(ctx context.Context, text string) (domain.MoodResult, error) {
	text, err := checkQuery(text)
	if err != nil {
		s.logger.Debug("mood text rejected", "error", err)
		return domain.MoodResult{}, err
	}
	return s.catalog.MoodText(ctx, text)
}

// Recommend returns movies similar to title. Blank or blocked titles never
// reach the network.
func (s *CatalogService) Recommend(ctx context.Context, title string) ([]domain.Movie, error) {
	title, err := checkQuery(title)
	if err != nil {
		s.logger.Debug("recommend query rejected", "error", err)
		return nil, err
	}
	return s.catalog.Recommend(ctx, title)
}

// Related returns recommendations for the franchise of m, excluding m itself
func (s *CatalogService) Related(ctx context.Context, m domain.Movie) ([]domain.Movie, error) {
	prefix := domain.FranchisePrefix(m.Title)
	if prefix == "" {
		return nil, domain.ErrEmptyQuery
	}
	movies, err := s.catalog.RecommendFranchise(ctx, prefix)
	if err != nil {
		return nil, err
	}

	related := movies[:0]
	for _, r := range movies {
		if r.Key() == m.Key() {
			continue
		}
		related = append(related, r)
	}
	return related, nil
}

// Details fetches the full record for a movie
func (s *CatalogService) Details(ctx context.Context, m domain.Movie) (*domain.MovieDetail, error) {
	if m.ID == "" && strings.TrimSpace(m.Title) == "" {
		return nil, domain.ErrEmptyQuery
	}
	return s.catalog.Details(ctx, m.ID, m.Title)
}

// SamplePosters fetches poster URLs for the landing backdrop
func (s *CatalogService) SamplePosters(ctx context.Context) ([]string, error) {
	return s.catalog.SamplePosters(ctx, PosterSampleSize)
}

// checkQuery trims q and rejects blank or blocked input
func checkQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", domain.ErrEmptyQuery
	}
	if guard.IsInappropriate(q) {
		return "", domain.ErrBlockedTerm
	}
	return q, nil
}
