package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/cinematch/internal/animlist"
	"github.com/mmcdole/cinematch/internal/catalog"
	"github.com/mmcdole/cinematch/internal/config"
	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/hover"
	"github.com/mmcdole/cinematch/internal/log"
	"github.com/mmcdole/cinematch/internal/metrics"
	"github.com/mmcdole/cinematch/internal/request"
	"github.com/mmcdole/cinematch/internal/service"
	"github.com/mmcdole/cinematch/internal/store"
	"github.com/mmcdole/cinematch/internal/suggest"
	"github.com/mmcdole/cinematch/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

type flags struct {
	top        bool
	suggest    string
	mood       string
	recommend  string
	posters    bool
	clearCache bool
}

func (f flags) printMode() bool {
	return f.top || f.suggest != "" || f.mood != "" || f.recommend != "" || f.posters
}

func main() {
	var (
		showVersion bool
		f           flags
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&f.top, "top", false, "print the most watched movies and exit")
	flag.StringVar(&f.suggest, "suggest", "", "print title suggestions for a prefix and exit")
	flag.StringVar(&f.mood, "mood", "", "print movies for a mood (preset or free text) and exit")
	flag.StringVar(&f.recommend, "recommend", "", "print recommendations for a title and exit")
	flag.BoolVar(&f.posters, "posters", false, "print a sample of poster URLs and exit")
	flag.BoolVar(&f.clearCache, "clear-cache", false, "remove the local cache before starting")
	flag.Parse()

	if showVersion {
		fmt.Printf("cinematch %s\n", Version)
		return
	}

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Piped output gets print mode even without a query flag
	interactive := term.IsTerminal(int(os.Stdout.Fd())) && !f.printMode()

	var logger *slog.Logger
	if interactive {
		var closer io.Closer
		logger, closer, err = log.SetupLogger(&cfg.Logging)
		if err != nil {
			logger = log.NullLogger()
		} else {
			defer closer.Close()
		}
	} else {
		noColor := !term.IsTerminal(int(os.Stderr.Fd()))
		logger = log.ConsoleLogger(os.Stderr, cfg.Logging.Level, noColor)
	}
	slog.SetDefault(logger)

	logger.Info("starting cinematch", "version", Version, "api", cfg.API.URL)

	if f.clearCache {
		if err := cfg.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		logger.Info("cache cleared", "dir", cfg.Cache.Dir)
	}

	st := openStore(cfg, logger)
	if st != nil {
		defer st.Close()
	}

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		stop := serveMetrics(cfg.Metrics.Listen, m, logger)
		defer stop()
	}

	reqClient := request.NewClient(request.Config{
		BaseURL:    cfg.API.URL,
		Timeout:    cfg.API.Timeout,
		MaxRetries: request.Retries(cfg.API.MaxRetries),
		BaseDelay:  cfg.API.BaseDelay,
	}, logger, request.WithObserver(m))
	client := catalog.NewClient(reqClient, logger)

	var cache domain.Store
	if st != nil {
		cache = st
	}

	svc := tui.Services{
		Catalog:    service.NewCatalogService(client, cache, logger),
		Collection: service.NewCollectionService(client, cache, logger),
		Detail:     service.NewDetailService(client, cache, m, logger),
		Session:    service.NewSessionService(cache),
		Suggest:    suggest.NewFetcher(client, cfg.Suggest.MinInterval, logger),
		Recorder:   m,
	}

	if !interactive {
		return runPrint(f, svc, os.Stdout)
	}

	model := tui.NewModel(svc, tui.Options{
		List: animlist.Config{
			StaggerDelay:        cfg.List.StaggerDelay,
			VisibilityThreshold: cfg.List.VisibilityThreshold,
			ScrollMargin:        cfg.List.ScrollMargin,
			FadeDistance:        cfg.List.FadeDistance,
			ItemHeight:          cfg.List.ItemHeight,
		},
		LineUnits: cfg.List.LineUnits,
		Hover: hover.Config{
			Dwell: cfg.Hover.Dwell,
			Hide:  cfg.Hover.Hide,
		},
		Logger: logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// openStore opens the on-disk cache, falling back to memory when the
// directory is unusable
func openStore(cfg *config.Config, logger *slog.Logger) *store.MovieStore {
	st, err := store.NewMovieStore(cfg.Cache.Dir, cfg.API.URL)
	if err == nil {
		return st
	}
	logger.Warn("cache unavailable, using memory", "dir", cfg.Cache.Dir, "error", err)

	st, err = store.NewMovieStore("", cfg.API.URL)
	if err != nil {
		logger.Warn("memory cache unavailable", "error", err)
		return nil
	}
	return st
}

// serveMetrics exposes /metrics until the returned stop func is called
func serveMetrics(addr string, m *metrics.Metrics, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// runPrint answers one query on stdout
func runPrint(f flags, svc tui.Services, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch {
	case f.suggest != "":
		res := svc.Suggest.Fetch(ctx, suggest.Request{Query: f.suggest, Generation: 1})
		if res.Err != nil {
			return res.Err
		}
		for _, s := range res.Suggestions {
			fmt.Fprintln(w, s)
		}
		return nil

	case f.mood != "":
		var (
			res domain.MoodResult
			err error
		)
		if preset, ok := presetMood(f.mood); ok {
			res, err = svc.Catalog.Mood(ctx, preset)
		} else {
			res, err = svc.Catalog.MoodText(ctx, f.mood)
		}
		if err != nil {
			return err
		}
		if res.Mood != "" {
			fmt.Fprintf(w, "Mood: %s\n\n", res.Mood)
		}
		printMovies(w, res.Movies)
		return nil

	case f.recommend != "":
		movies, err := svc.Catalog.Recommend(ctx, f.recommend)
		if err != nil {
			return err
		}
		printMovies(w, movies)
		return nil

	case f.posters:
		posters, err := svc.Catalog.SamplePosters(ctx)
		if err != nil {
			return err
		}
		for _, p := range posters {
			fmt.Fprintln(w, p)
		}
		return nil
	}

	movies, err := svc.Catalog.TopWatched(ctx)
	if err != nil {
		return err
	}
	printMovies(w, movies)
	return nil
}

func presetMood(s string) (string, bool) {
	for _, c := range domain.MoodCategories {
		if strings.EqualFold(c, strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

func printMovies(w io.Writer, movies []domain.Movie) {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found")
		return
	}
	for _, m := range movies {
		line := m.Title
		if m.Year != "" {
			line += " (" + m.Year + ")"
		}
		if r := m.FormattedRating(); r != "" {
			line += "  ★ " + r
		}
		fmt.Fprintln(w, line)
	}
}
