package tui

import (
	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/suggest"
)

// ListKind names the primary list being shown
type ListKind int

const (
	ListTopWatched ListKind = iota
	ListCollection
	ListRecommend
	ListMood
	ListGenre
	ListPerson
)

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// ListLoadedMsg carries a primary list. Seq tags the load that produced it;
// responses for superseded loads are dropped.
type ListLoadedMsg struct {
	Seq    uint64
	Kind   ListKind
	Title  string
	Movies []domain.Movie
	Mood   string
	Err    error
}

// SuggestionsMsg carries a generation-tagged suggestion response
type SuggestionsMsg struct {
	Result suggest.Result
}

// HoverTimerMsg is delivered when a hover timer elapses
type HoverTimerMsg struct {
	Key   string
	Token uint64
	Hide  bool
}

// OverviewLoadedMsg carries a hover summary fetch result
type OverviewLoadedMsg struct {
	Key  string
	Text string
	Err  error
}

// DetailLoadedMsg carries the detail page for the open movie
type DetailLoadedMsg struct {
	Seq    uint64
	Detail *domain.MovieDetail
	Err    error
}

// RelatedLoadedMsg carries franchise recommendations for the detail page
type RelatedLoadedMsg struct {
	Seq    uint64
	Movies []domain.Movie
	Err    error
}

// CollectionOp names a collection write
type CollectionOp int

const (
	OpAdd CollectionOp = iota
	OpRemove
)

// CollectionDoneMsg reports the outcome of a collection write
type CollectionDoneMsg struct {
	Op    CollectionOp
	Movie domain.Movie
	Err   error
}

// CollectionLoadedMsg carries the saved collection
type CollectionLoadedMsg struct {
	Movies []domain.Movie
	Err    error
}

// AnimTickMsg drives list animation frames
type AnimTickMsg struct{}

// TickMsg drives the loading spinner
type TickMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message if it is still the one
// identified by ID
type ClearStatusMsg struct {
	ID int
}
