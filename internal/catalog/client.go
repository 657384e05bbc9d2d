package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mmcdole/cinematch/internal/domain"
	"github.com/mmcdole/cinematch/internal/request"
)

// Caller is the resilient request entry point (request.Client)
type Caller interface {
	Call(ctx context.Context, path string, opts request.Options) (*request.Response, error)
}

// APIError is a failed catalog call. Message carries the server's
// {"error": "..."} text when it sent one.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client implements domain.Catalog over the CineMatch JSON API
type Client struct {
	caller Caller
	logger *slog.Logger
}

// NewClient creates a catalog bound to a request client
func NewClient(caller Caller, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{caller: caller, logger: logger}
}

var _ domain.Catalog = (*Client)(nil)

// do performs one logical call and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, op, path string, opts request.Options, out any) error {
	resp, err := c.caller.Call(ctx, path, opts)
	if err != nil {
		return c.wrapError(op, err)
	}
	if !resp.OK() {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: serverMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		c.logger.Error("JSON parse error", "op", op, "error", err, "bodyLen", len(resp.Body))
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	return nil
}

func (c *Client) wrapError(op string, err error) error {
	var reqErr *request.Error
	if !errors.As(err, &reqErr) {
		return err
	}
	apiErr := &APIError{Op: op, StatusCode: request.StatusCode(err), Err: err}
	apiErr.Message = serverMessage(reqErr.Body)
	return apiErr
}

func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Error)
}

// TopWatched returns the most watched movies
func (c *Client) TopWatched(ctx context.Context) ([]domain.Movie, error) {
	var resp moviesResponse
	if err := c.do(ctx, "top_watched", "/top_watched", request.Options{}, &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Movies), nil
}

// Collection returns the user's saved movies
func (c *Client) Collection(ctx context.Context) ([]domain.Movie, error) {
	var resp collectionResponse
	if err := c.do(ctx, "get_collection", "/get_collection", request.Options{}, &resp); err != nil {
		return nil, err
	}
	return MapMovies(resp.Collection), nil
}

// AddToCollection saves a movie
func (c *Client) AddToCollection(ctx context.Context, m domain.Movie) error {
	var resp messageResponse
	err := c.do(ctx, "add_to_collection", "/add_to_collection", request.Options{
		Method: http.MethodPost,
		Body:   toDTO(m),
	}, &resp)
	if err != nil {
		return err
	}
	c.logger.Debug("added to collection", "movie_id", m.ID, "message", resp.Message)
	return nil
}

// RemoveFromCollection deletes a saved movie
func (c *Client) RemoveFromCollection(ctx context.Context, movieID string) error {
	var resp messageResponse
	err := c.do(ctx, "remove_from_collection", "/remove_from_collection", request.Options{
		Method: http.MethodPost,
		Body:   movieIDRequest{MovieID: flexID(movieID)},
	}, &resp)
	if err != nil {
		return err
	}
	c.logger.Debug("removed from collection", "movie_id", movieID, "message", resp.Message)
	return nil
}

// MoviesByMood returns movies for a preset mood category
func (c *Client) MoviesByMood(ctx context.Context, category string) (domain.MoodResult, error) {
	var resp moviesResponse
	err := c.do(ctx, "get_movies_by_mood_category", "/get_movies_by_mood_category", request.Options{
		Method: http.MethodPost,
		Body:   categoryRequest{Category: category},
	}, &resp)
	if err != nil {
		return domain.MoodResult{}, err
	}
	mood := resp.MoodDetected
	if mood == "" {
		mood = category
	}
	return domain.MoodResult{Movies: MapMovies(resp.Movies), Mood: mood}, nil
}

// MoviesByGenre returns movies tagged with genre
func (c *Client) MoviesByGenre(ctx context.Context, genre string) ([]domain.Movie, error) {
	var resp moviesResponse
	err := c.do(ctx, "get_movies_by_genre", "/get_movies_by_genre", request.Options{
		Method: http.MethodPost,
		Body:   genreRequest{Genre: genre},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return MapMovies(resp.Movies), nil
}

// MoviesByPerson returns movies crediting name in role
func (c *Client) MoviesByPerson(ctx context.Context, role domain.PersonRole, name string) ([]domain.Movie, error) {
	var resp moviesResponse
	err := c.do(ctx, "get_movies_by_person", "/get_movies_by_person", request.Options{
		Method: http.MethodPost,
		Body:   personRequest{Role: string(role), Name: name},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return MapMovies(resp.Movies), nil
}

// MoodText classifies free text into a mood and returns matching movies
func (c *Client) MoodText(ctx context.Context, text string) (domain.MoodResult, error) {
	var resp moviesResponse
	err := c.do(ctx, "moodwise_text_input", "/moodwise_text_input", request.Options{
		Method: http.MethodPost,
		Body:   textRequest{Text: text},
	}, &resp)
	if err != nil {
		return domain.MoodResult{}, err
	}
	return domain.MoodResult{Movies: MapMovies(resp.Movies), Mood: resp.MoodDetected}, nil
}

// Recommend returns movies similar to title
func (c *Client) Recommend(ctx context.Context, title string) ([]domain.Movie, error) {
	return c.recommend(ctx, titleRequest{Title: title})
}

// RecommendFranchise returns movies similar to title, asking the server to
// include other entries of the same franchise
func (c *Client) RecommendFranchise(ctx context.Context, title string) ([]domain.Movie, error) {
	return c.recommend(ctx, titleRequest{Title: title, IncludeFranchise: true})
}

func (c *Client) recommend(ctx context.Context, body titleRequest) ([]domain.Movie, error) {
	var resp recommendResponse
	err := c.do(ctx, "recommend", "/recommend", request.Options{
		Method: http.MethodPost,
		Body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return MapMovies(resp.Recommendations), nil
}

// Suggestions returns title completions for a partial query
func (c *Client) Suggestions(ctx context.Context, query string) ([]string, error) {
	var resp []string
	err := c.do(ctx, "search_suggestions", "/search_suggestions", request.Options{
		Query: url.Values{"q": {query}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SamplePosters returns up to limit poster URLs for the landing backdrop
func (c *Client) SamplePosters(ctx context.Context, limit int) ([]string, error) {
	opts := request.Options{}
	if limit > 0 {
		opts.Query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var resp postersResponse
	if err := c.do(ctx, "sample_posters", "/sample_posters", opts, &resp); err != nil {
		return nil, err
	}
	return resp.Posters, nil
}

// Overview returns the plot summary for a movie
func (c *Client) Overview(ctx context.Context, movieID, title string) (string, error) {
	var resp overviewResponse
	err := c.do(ctx, "movie_overview", "/movie_overview", request.Options{
		Method: http.MethodPost,
		Body:   overviewRequest{MovieID: flexID(movieID), Title: title},
	}, &resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Overview), nil
}

// Details returns the full record for a movie, looked up by id when known
// and by title otherwise
func (c *Client) Details(ctx context.Context, movieID, title string) (*domain.MovieDetail, error) {
	query := url.Values{}
	switch {
	case movieID != "":
		query.Set("movie_id", movieID)
	case title != "":
		query.Set("title", title)
	default:
		return nil, domain.ErrEmptyQuery
	}

	var resp DetailDTO
	err := c.do(ctx, "movie_details", "/movie_details", request.Options{Query: query}, &resp)
	if err != nil {
		if request.StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %v", domain.ErrMovieNotFound, err)
		}
		return nil, err
	}
	return MapDetail(resp), nil
}
