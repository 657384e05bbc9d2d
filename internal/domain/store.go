package domain

import "time"

// ListSnapshot is a cached copy of a primary list
type ListSnapshot struct {
	Movies  []Movie
	SavedAt time.Time
}

// Store handles the local cache (BoltDB + memory).
// The TUI paints cached lists from it before the network answers.
type Store interface {
	// === Overviews ===
	GetOverview(movieID string) (string, bool)
	SaveOverview(movieID, overview string) error

	// === List snapshots ===
	GetList(view string) (ListSnapshot, bool)
	SaveList(view string, movies []Movie) error

	// === Invalidation ===
	InvalidateList(view string)
	InvalidateAll()

	Close() error
}

// Snapshot view keys
const (
	ViewTopWatched = "top_watched"
	ViewCollection = "collection"
)
