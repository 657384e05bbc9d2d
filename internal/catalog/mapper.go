package catalog

import (
	"github.com/mmcdole/cinematch/internal/domain"
)

// MapMovies converts list rows to domain movies, dropping untitled rows
func MapMovies(rows []MovieDTO) []domain.Movie {
	movies := make([]domain.Movie, 0, len(rows))
	for _, r := range rows {
		if r.Title == "" {
			continue
		}
		movies = append(movies, mapMovie(r))
	}
	return movies
}

func mapMovie(r MovieDTO) domain.Movie {
	m := domain.Movie{
		ID:                   string(r.MovieID),
		Title:                r.Title,
		PosterURL:            r.PosterURL,
		Year:                 string(r.Year),
		Genres:               r.Genres,
		Language:             r.Language,
		Cast:                 r.Cast,
		Directors:            r.Directors,
		Overview:             r.Overview,
		RecommendationReason: r.RecommendationReason,
	}
	if r.VoteAverage != nil {
		m.Rating = *r.VoteAverage
		m.HasRating = true
	}
	if r.SimilarityScore != nil {
		m.SimilarityScore = *r.SimilarityScore
	}
	return m
}

// toDTO converts a domain movie back to the wire shape for collection writes
func toDTO(m domain.Movie) MovieDTO {
	d := MovieDTO{
		MovieID:   flexID(m.ID),
		Title:     m.Title,
		PosterURL: m.PosterURL,
		Year:      flexString(m.Year),
		Genres:    m.Genres,
		Language:  m.Language,
		Cast:      m.Cast,
		Directors: m.Directors,
		Overview:  m.Overview,
	}
	if m.HasRating {
		r := m.Rating
		d.VoteAverage = &r
	}
	return d
}

// MapDetail converts the detail payload to a domain record
func MapDetail(d DetailDTO) *domain.MovieDetail {
	detail := &domain.MovieDetail{
		Movie: domain.Movie{
			ID:        string(d.MovieID),
			Title:     d.Title,
			PosterURL: d.PosterURL,
			Year:      string(d.Year),
			Genres:    d.Genres,
			Language:  d.Language,
			Directors: d.Directors,
			Overview:  d.Overview,
		},
		BackdropURL: d.BackdropURL,
		Runtime:     d.Runtime,
		VoteCount:   d.VoteCount,
		Homepage:    d.Homepage,
	}
	if d.VoteAverage != nil {
		detail.Rating = *d.VoteAverage
		detail.HasRating = true
	}

	for _, c := range d.Cast {
		detail.Credits = append(detail.Credits, domain.CastMember{
			ID:         string(c.ID),
			Name:       c.Name,
			Character:  c.Character,
			ProfileURL: c.ProfileURL,
		})
		detail.Cast = append(detail.Cast, c.Name)
	}

	for _, r := range d.Reviews {
		review := domain.Review{
			Author:    r.Author,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
			URL:       r.URL,
		}
		if r.Rating != nil {
			review.Rating = *r.Rating
			review.HasRating = true
		}
		detail.Reviews = append(detail.Reviews, review)
	}

	return detail
}
