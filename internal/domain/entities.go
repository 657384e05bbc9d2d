package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MoodCategories are the preset moods offered by the catalog
var MoodCategories = []string{"Happy", "Romcom", "Horror", "Action/Adventure", "Intense/Mystery"}

// PersonRole selects which credit a person lookup matches
type PersonRole string

const (
	RoleActor    PersonRole = "actor"
	RoleDirector PersonRole = "director"
)

// Movie is a catalog entry as returned by list endpoints
type Movie struct {
	ID        string   // Server movie id, normalized to a string ("" when unknown)
	Title     string   // Display title
	PosterURL string   // Poster image URL
	Year      string   // Release year as reported by the server
	Genres    []string // Genre names
	Rating    float64  // Vote average (0-10)
	HasRating bool     // False when the server reported no rating
	Language  string   // Original language
	Cast      []string // Leading cast names
	Directors []string // Director names
	Overview  string   // Plot synopsis, may be empty for list endpoints

	// Recommendation-only fields
	SimilarityScore      float64
	RecommendationReason string
}

// Key identifies the movie within a list. Movies without an id fall back
// to their title.
func (m Movie) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return "title:" + m.Title
}

// GetTitle returns the display title
func (m Movie) GetTitle() string { return m.Title }

// GetDescription returns the secondary line shown under the title
func (m Movie) GetDescription() string {
	var parts []string
	if m.Year != "" {
		parts = append(parts, m.Year)
	}
	if len(m.Genres) > 0 {
		parts = append(parts, strings.Join(m.Genres, ", "))
	}
	if r := m.FormattedRating(); r != "" {
		parts = append(parts, r)
	}
	return strings.Join(parts, " · ")
}

// FormattedRating returns the rating as "7.8", or "" when absent
func (m Movie) FormattedRating() string {
	if !m.HasRating {
		return ""
	}
	return fmt.Sprintf("%.1f", m.Rating)
}

var franchiseSep = regexp.MustCompile(`[:\-–—]`)

// FranchisePrefix returns the part of a title before the first subtitle
// separator ("Star Wars: A New Hope" → "Star Wars").
func FranchisePrefix(title string) string {
	prefix := strings.TrimSpace(franchiseSep.Split(title, 2)[0])
	if prefix == "" {
		return strings.TrimSpace(title)
	}
	return prefix
}

// CastMember is a credited actor on the detail page
type CastMember struct {
	ID         string
	Name       string
	Character  string
	ProfileURL string
}

// Review is a user review attached to a movie
type Review struct {
	Author    string
	Content   string
	CreatedAt string
	URL       string
	Rating    float64
	HasRating bool
}

// MovieDetail is the full record served by the detail endpoint
type MovieDetail struct {
	Movie
	BackdropURL string
	Runtime     int // Minutes
	VoteCount   int
	Homepage    string
	Credits     []CastMember
	Reviews     []Review
}

// FormattedRuntime returns the runtime as "2h 28m"
func (d MovieDetail) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := d.Runtime / 60
	mins := d.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// MoodResult is a mood-classified movie list
type MoodResult struct {
	Movies []Movie
	Mood   string // Mood detected or echoed by the server
}

// PlaceholderOverview is shown when no summary could be loaded
const PlaceholderOverview = "No summary available."
