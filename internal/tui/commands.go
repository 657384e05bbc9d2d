package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/service"
	"github.com/mmcdole/cinematch/internal/suggest"
)

// Outer deadlines for whole operations. Each outlasts the default retry
// schedule: 4 attempts of 10s plus 7s of backoff.
const (
	loadTimeout    = 60 * time.Second
	writeTimeout   = 50 * time.Second
	suggestTimeout = 50 * time.Second
	hoverTimeout   = 50 * time.Second

	animFrame = 16 * time.Millisecond
)

// Command factories for async operations

// LoadTopWatchedCmd loads the most watched list
func LoadTopWatchedCmd(svc *service.CatalogService, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.TopWatched(ctx)
		return ListLoadedMsg{Seq: seq, Kind: ListTopWatched, Title: "Top Watched", Movies: movies, Err: err}
	}
}

// LoadCollectionCmd loads the saved collection as the primary list
func LoadCollectionCmd(svc *service.CollectionService, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.Load(ctx)
		return ListLoadedMsg{Seq: seq, Kind: ListCollection, Title: "My Collection", Movies: movies, Err: err}
	}
}

// SyncCollectionCmd loads the collection in the background, for the saved
// badge and duplicate checks
func SyncCollectionCmd(svc *service.CollectionService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.Load(ctx)
		return CollectionLoadedMsg{Movies: movies, Err: err}
	}
}

// RecommendCmd loads recommendations for a title
func RecommendCmd(svc *service.CatalogService, seq uint64, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.Recommend(ctx, title)
		return ListLoadedMsg{Seq: seq, Kind: ListRecommend, Title: "Because you like " + title, Movies: movies, Err: err}
	}
}

// MoodCmd loads movies for a preset mood
func MoodCmd(svc *service.CatalogService, seq uint64, category string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res, err := svc.Mood(ctx, category)
		return ListLoadedMsg{Seq: seq, Kind: ListMood, Title: "Mood: " + category, Movies: res.Movies, Mood: category, Err: err}
	}
}

// MoodTextCmd classifies a mood description and loads matching movies
func MoodTextCmd(svc *service.CatalogService, seq uint64, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res, err := svc.MoodText(ctx, text)
		title := "Mood"
		if res.Mood != "" {
			title = "Mood: " + res.Mood
		}
		return ListLoadedMsg{Seq: seq, Kind: ListMood, Title: title, Movies: res.Movies, Mood: res.Mood, Err: err}
	}
}

// GenreCmd loads movies for a genre
func GenreCmd(svc *service.CatalogService, seq uint64, genre string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.Genre(ctx, genre)
		return ListLoadedMsg{Seq: seq, Kind: ListGenre, Title: "Genre: " + genre, Movies: movies, Err: err}
	}
}

// PersonCmd loads movies credited to a person
func PersonCmd(svc *service.CatalogService, seq uint64, role domain.PersonRole, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.Person(ctx, role, name)
		return ListLoadedMsg{Seq: seq, Kind: ListPerson, Title: "Directed by " + name, Movies: movies, Err: err}
	}
}

// FetchSuggestionsCmd resolves one suggestion request
func FetchSuggestionsCmd(f *suggest.Fetcher, req suggest.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()

		return SuggestionsMsg{Result: f.Fetch(ctx, req)}
	}
}

// HoverTimerCmd delivers a hover timer after d
func HoverTimerCmd(key string, token uint64, d time.Duration, hide bool) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return HoverTimerMsg{Key: key, Token: token, Hide: hide}
	})
}

// FetchOverviewCmd loads the hover summary for a movie
func FetchOverviewCmd(svc *service.DetailService, m domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), hoverTimeout)
		defer cancel()

		text, err := svc.Overview(ctx, m)
		return OverviewLoadedMsg{Key: m.Key(), Text: text, Err: err}
	}
}

// LoadDetailCmd loads the detail page for a movie
func LoadDetailCmd(svc *service.CatalogService, seq uint64, m domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		d, err := svc.Details(ctx, m)
		return DetailLoadedMsg{Seq: seq, Detail: d, Err: err}
	}
}

// LoadRelatedCmd loads franchise recommendations for the detail page
func LoadRelatedCmd(svc *service.CatalogService, seq uint64, m domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		movies, err := svc.Related(ctx, m)
		return RelatedLoadedMsg{Seq: seq, Movies: movies, Err: err}
	}
}

// AddToCollectionCmd saves a movie
func AddToCollectionCmd(svc *service.CollectionService, m domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		return CollectionDoneMsg{Op: OpAdd, Movie: m, Err: svc.Add(ctx, m)}
	}
}

// RemoveFromCollectionCmd removes a saved movie
func RemoveFromCollectionCmd(svc *service.CollectionService, m domain.Movie) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		return CollectionDoneMsg{Op: OpRemove, Movie: m, Err: svc.Remove(ctx, m.Key())}
	}
}

// AnimTickCmd schedules the next animation frame
func AnimTickCmd() tea.Cmd {
	return tea.Tick(animFrame, func(time.Time) tea.Msg {
		return AnimTickMsg{}
	})
}

// TickCmd creates a tick command for the spinner
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears status message id after d
func ClearStatusCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}
