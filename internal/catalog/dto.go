package catalog

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// flexID accepts a JSON number, string or null. The API emits integer ids
// for catalog rows and occasionally strings or null for hand-added entries.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so the server sees the
// same type it issued.
func (f flexID) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// flexString accepts a JSON string or number (years arrive both ways)
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

// MovieDTO is a list row as served by every movie list endpoint
type MovieDTO struct {
	MovieID     flexID     `json:"movie_id"`
	Title       string     `json:"title"`
	PosterURL   string     `json:"poster_url,omitempty"`
	Year        flexString `json:"year,omitempty"`
	Genres      []string   `json:"genres,omitempty"`
	VoteAverage *float64   `json:"vote_average"`
	Language    string     `json:"language,omitempty"`
	Cast        []string   `json:"cast,omitempty"`
	Directors   []string   `json:"directors,omitempty"`
	Overview    string     `json:"overview,omitempty"`

	SimilarityScore      *float64 `json:"similarity_score,omitempty"`
	RecommendationReason string   `json:"recommendation_reason,omitempty"`
}

// CastDTO is a credited actor on the detail endpoint
type CastDTO struct {
	ID         flexID `json:"id"`
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// ReviewDTO is a user review on the detail endpoint
type ReviewDTO struct {
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"created_at,omitempty"`
	URL       string   `json:"url,omitempty"`
	Rating    *float64 `json:"rating"`
}

// DetailDTO is the /movie_details payload
type DetailDTO struct {
	MovieID     flexID      `json:"movie_id"`
	Title       string      `json:"title"`
	PosterURL   string      `json:"poster_url,omitempty"`
	BackdropURL string      `json:"backdrop_url,omitempty"`
	Year        flexString  `json:"year,omitempty"`
	Genres      []string    `json:"genres,omitempty"`
	Runtime     int         `json:"runtime,omitempty"`
	VoteAverage *float64    `json:"vote_average"`
	VoteCount   int         `json:"vote_count,omitempty"`
	Language    string      `json:"language,omitempty"`
	Homepage    string      `json:"homepage,omitempty"`
	Overview    string      `json:"overview,omitempty"`
	Cast        []CastDTO   `json:"cast,omitempty"`
	Directors   []string    `json:"directors,omitempty"`
	Reviews     []ReviewDTO `json:"reviews,omitempty"`
}

type moviesResponse struct {
	Movies       []MovieDTO `json:"movies"`
	MoodDetected string     `json:"mood_detected,omitempty"`
	Genre        string     `json:"genre,omitempty"`
	Person       string     `json:"person,omitempty"`
	Role         string     `json:"role,omitempty"`
}

type collectionResponse struct {
	Collection []MovieDTO `json:"collection"`
}

type recommendResponse struct {
	Recommendations []MovieDTO `json:"recommendations"`
}

type postersResponse struct {
	Posters []string `json:"posters"`
}

type overviewResponse struct {
	Overview string `json:"overview"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Request bodies

type categoryRequest struct {
	Category string `json:"category"`
}

type genreRequest struct {
	Genre string `json:"genre"`
}

type personRequest struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type textRequest struct {
	Text string `json:"text"`
}

type titleRequest struct {
	Title            string `json:"title"`
	IncludeFranchise bool   `json:"include_franchise,omitempty"`
}

type movieIDRequest struct {
	MovieID flexID `json:"movie_id"`
}

type overviewRequest struct {
	MovieID flexID `json:"movie_id"`
	Title   string `json:"title"`
}
