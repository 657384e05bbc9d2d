package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/cinematch/internal/domain"
)

// CacheRecorder counts local cache lookups
type CacheRecorder interface {
	RecordCacheLookup(cache string, hit bool)
}

// DetailService resolves hover overviews, preferring the local cache
type DetailService struct {
	catalog  domain.Catalog
	store    domain.Store
	recorder CacheRecorder
	logger   *slog.Logger
}

// NewDetailService creates a new detail service. store and recorder may be nil.
func NewDetailService(catalog domain.Catalog, store domain.Store, recorder CacheRecorder, logger *slog.Logger) *DetailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailService{catalog: catalog, store: store, recorder: recorder, logger: logger}
}

// Cached returns a stored overview without touching the network
func (s *DetailService) Cached(movieID string) (string, bool) {
	if s.store == nil || movieID == "" {
		return "", false
	}
	return s.store.GetOverview(movieID)
}

// Overview returns the summary for m. A list row that already carries an
// overview is returned as is; otherwise the cache is consulted before the
// network, and fresh results are written back.
func (s *DetailService) Overview(ctx context.Context, m domain.Movie) (string, error) {
	if m.Overview != "" {
		return m.Overview, nil
	}

	cached, ok := s.Cached(m.ID)
	s.record(ok)
	if ok {
		return cached, nil
	}

	overview, err := s.catalog.Overview(ctx, m.ID, m.Title)
	if err != nil {
		return "", err
	}
	if overview != "" && m.ID != "" && s.store != nil {
		if err := s.store.SaveOverview(m.ID, overview); err != nil {
			s.logger.Warn("failed to cache overview", "movie_id", m.ID, "error", err)
		}
	}
	return overview, nil
}

func (s *DetailService) record(hit bool) {
	if s.recorder != nil {
		s.recorder.RecordCacheLookup("overview", hit)
	}
}
