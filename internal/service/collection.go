package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/cinematch/internal/domain"
)

// CollectionService keeps the saved-movies list. Writes are applied locally
// first and reconciled with the server afterwards.
type CollectionService struct {
	catalog domain.Catalog
	store   domain.Store
	logger  *slog.Logger

	mu     sync.RWMutex
	items  []domain.Movie
	loaded bool
}

// NewCollectionService creates a new collection service. store may be nil.
func NewCollectionService(catalog domain.Catalog, store domain.Store, logger *slog.Logger) *CollectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionService{catalog: catalog, store: store, logger: logger}
}

// Load fetches the collection from the server and replaces the local copy
func (s *CollectionService) Load(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.catalog.Collection(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items = append([]domain.Movie(nil), movies...)
	s.loaded = true
	s.mu.Unlock()

	s.persist()
	return s.Items(), nil
}

// Cached seeds the local copy from the last snapshot. It does nothing once
// the collection was loaded from the server.
func (s *CollectionService) Cached() ([]domain.Movie, bool) {
	if s.store == nil {
		return nil, false
	}
	snap, ok := s.store.GetList(domain.ViewCollection)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	if !s.loaded {
		s.items = append([]domain.Movie(nil), snap.Movies...)
	}
	s.mu.Unlock()
	return s.Items(), true
}

// Items returns a copy of the current collection
func (s *CollectionService) Items() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Movie(nil), s.items...)
}

// Contains reports whether a movie with the same key is saved
func (s *CollectionService) Contains(m domain.Movie) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(m.Key()) >= 0
}

func (s *CollectionService) indexOf(key string) int {
	for i, it := range s.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

// Add saves m. The movie appears in Items immediately and is removed again
// if the server rejects it.
func (s *CollectionService) Add(ctx context.Context, m domain.Movie) error {
	s.mu.Lock()
	if s.indexOf(m.Key()) >= 0 {
		s.mu.Unlock()
		return domain.ErrAlreadyInCollection
	}
	s.items = append(s.items, m)
	s.mu.Unlock()

	if err := s.catalog.AddToCollection(ctx, m); err != nil {
		s.logger.Warn("add to collection failed, rolling back", "movie", m.Title, "error", err)
		s.mu.Lock()
		if i := s.indexOf(m.Key()); i >= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.mu.Unlock()
		return err
	}

	s.persist()
	return nil
}

// Remove deletes the movie with the given id. The movie disappears from
// Items immediately; on failure the collection is reloaded from the server.
func (s *CollectionService) Remove(ctx context.Context, movieID string) error {
	s.mu.Lock()
	i := s.indexOf(movieID)
	if i < 0 {
		s.mu.Unlock()
		return domain.ErrNotInCollection
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.mu.Unlock()

	if err := s.catalog.RemoveFromCollection(ctx, movieID); err != nil {
		s.logger.Warn("remove from collection failed, reloading", "movie_id", movieID, "error", err)
		if _, rerr := s.Load(ctx); rerr != nil {
			s.logger.Warn("collection reload failed", "error", rerr)
		}
		return err
	}

	s.persist()
	return nil
}

// Find returns saved movies whose titles fuzzily match query, best first
func (s *CollectionService) Find(query string) []domain.Movie {
	items := s.Items()
	if query == "" {
		return items
	}

	titles := make([]string, len(items))
	for i, m := range items {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.Stable(ranks)

	found := make([]domain.Movie, 0, len(ranks))
	for _, r := range ranks {
		found = append(found, items[r.OriginalIndex])
	}
	return found
}

func (s *CollectionService) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveList(domain.ViewCollection, s.Items()); err != nil {
		s.logger.Warn("failed to save collection snapshot", "error", err)
	}
}
