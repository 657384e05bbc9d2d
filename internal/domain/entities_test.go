package domain

import "testing"

func TestFranchisePrefix(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Star Wars: A New Hope", "Star Wars"},
		{"Mission: Impossible – Fallout", "Mission"},
		{"Alien — Covenant", "Alien"},
		{"Heat", "Heat"},
		{"  Heat  ", "Heat"},
		{": Subtitle Only", ": Subtitle Only"},
	}
	for _, tt := range tests {
		if got := FranchisePrefix(tt.title); got != tt.want {
			t.Errorf("FranchisePrefix(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMovieKey(t *testing.T) {
	if got := (Movie{ID: "949", Title: "Heat"}).Key(); got != "949" {
		t.Errorf("Key = %q", got)
	}
	if got := (Movie{Title: "Heat"}).Key(); got != "title:Heat" {
		t.Errorf("Key without id = %q", got)
	}
}

func TestMovieDescription(t *testing.T) {
	m := Movie{Year: "1995", Genres: []string{"Crime", "Thriller"}, Rating: 7.9, HasRating: true}
	if got := m.GetDescription(); got != "1995 · Crime, Thriller · 7.9" {
		t.Errorf("GetDescription = %q", got)
	}
	if got := (Movie{Year: "1995"}).GetDescription(); got != "1995" {
		t.Errorf("GetDescription without rating = %q", got)
	}
	if got := (Movie{Rating: 0, HasRating: true}).FormattedRating(); got != "0.0" {
		t.Errorf("FormattedRating = %q", got)
	}
}

func TestFormattedRuntime(t *testing.T) {
	tests := map[int]string{
		0:   "",
		45:  "45m",
		60:  "1h 0m",
		148: "2h 28m",
	}
	for runtime, want := range tests {
		d := MovieDetail{Runtime: runtime}
		if got := d.FormattedRuntime(); got != want {
			t.Errorf("FormattedRuntime(%d) = %q, want %q", runtime, got, want)
		}
	}
}
