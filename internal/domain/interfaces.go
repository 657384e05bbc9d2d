package domain

import "context"

// Catalog is the remote movie API. Implementations resolve every call
// through the resilient request client.
type Catalog interface {
	TopWatched(ctx context.Context) ([]Movie, error)
	Collection(ctx context.Context) ([]Movie, error)
	AddToCollection(ctx context.Context, m Movie) error
	RemoveFromCollection(ctx context.Context, movieID string) error

	MoviesByMood(ctx context.Context, category string) (MoodResult, error)
	MoviesByGenre(ctx context.Context, genre string) ([]Movie, error)
	MoviesByPerson(ctx context.Context, role PersonRole, name string) ([]Movie, error)
	MoodText(ctx context.Context, text string) (MoodResult, error)
	Recommend(ctx context.Context, title string) ([]Movie, error)
	RecommendFranchise(ctx context.Context, title string) ([]Movie, error)

	Suggestions(ctx context.Context, query string) ([]string, error)
	SamplePosters(ctx context.Context, limit int) ([]string, error)
	Overview(ctx context.Context, movieID, title string) (string, error)
	Details(ctx context.Context, movieID, title string) (*MovieDetail, error)
}
