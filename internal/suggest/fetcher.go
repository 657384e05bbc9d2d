package suggest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Source returns title suggestions for a query (catalog.Client)
type Source interface {
	Suggestions(ctx context.Context, query string) ([]string, error)
}

// Fetcher executes suggestion requests. It never inspects generations;
// staleness is decided by Session.Resolve.
type Fetcher struct {
	source  Source
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFetcher creates a fetcher. A positive minInterval spaces outgoing
// requests at least that far apart; zero disables throttling.
func NewFetcher(source Source, minInterval time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{source: source, logger: logger}
	if minInterval > 0 {
		f.limiter = rate.NewLimiter(rate.Every(minInterval), 1)
	}
	return f
}

// Fetch runs req and tags the result with its generation
func (f *Fetcher) Fetch(ctx context.Context, req Request) Result {
	res := Result{Generation: req.Generation, Query: req.Query}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			res.Err = err
			return res
		}
	}

	suggestions, err := f.source.Suggestions(ctx, req.Query)
	if err != nil {
		f.logger.Debug("suggestions unavailable", "query", req.Query, "generation", req.Generation, "error", err)
		res.Err = err
		return res
	}
	res.Suggestions = suggestions
	return res
}
