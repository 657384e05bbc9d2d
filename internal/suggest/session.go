// Package suggest drives the type-ahead dropdown. Every keystroke starts a
// new generation; a response only reaches the dropdown when its generation
// is still current, so the last input always wins regardless of arrival
// order.
package suggest

import (
	"strings"

	"github.com/mmcdole/cinematch/internal/guard"
)

// Status is the fetcher state for the current generation
type Status int

const (
	// Idle means nothing is in flight; suggestions are empty
	Idle Status = iota
	// Pending means a request tagged with the current generation is in flight
	Pending
	// Applied means the current generation's response has been applied
	Applied
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Applied:
		return "applied"
	default:
		return "unknown"
	}
}

// NoHighlight marks an empty keyboard highlight
const NoHighlight = -1

// Session is the visible type-ahead state. It is a value: every transition
// returns a new Session.
type Session struct {
	Query       string
	Generation  uint64
	Suggestions []string
	Status      Status

	// Blocked is set when the query was rejected by the content guard
	Blocked bool

	// Highlighted is the keyboard-selected row, or NoHighlight
	Highlighted int

	// Hidden suppresses the dropdown without discarding suggestions
	Hidden bool
}

// NewSession returns an idle session
func NewSession() Session {
	return Session{Highlighted: NoHighlight}
}

// Request asks for suggestions for Query on behalf of Generation
type Request struct {
	Query      string
	Generation uint64
}

// Result is a completed request. Err is set when the fetch failed.
type Result struct {
	Generation  uint64
	Query       string
	Suggestions []string
	Err         error
}

// Input records a keystroke. It always advances the generation, which makes
// any in-flight response stale. Empty and blocked queries go straight to
// Idle with no request; otherwise the returned Request must be executed.
func (s Session) Input(query string) (Session, *Request) {
	next := Session{
		Query:       query,
		Generation:  s.Generation + 1,
		Highlighted: NoHighlight,
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		next.Status = Idle
		return next, nil
	}
	if guard.IsInappropriate(trimmed) {
		next.Status = Idle
		next.Blocked = true
		return next, nil
	}

	next.Status = Pending
	return next, &Request{Query: trimmed, Generation: next.Generation}
}

// Resolve applies r if it belongs to the current generation and reports
// whether it did. Stale results leave the session untouched. Failures clear
// the suggestions without surfacing an error.
func (s Session) Resolve(r Result) (Session, bool) {
	if r.Generation != s.Generation || s.Status != Pending {
		return s, false
	}

	next := s
	next.Status = Applied
	next.Highlighted = NoHighlight
	if r.Err != nil {
		next.Suggestions = nil
		return next, true
	}
	next.Suggestions = r.Suggestions
	next.Hidden = false
	return next, true
}

// Clear resets to an empty query, invalidating anything in flight
func (s Session) Clear() Session {
	next, _ := s.Input("")
	return next
}

// Visible reports whether the dropdown should render
func (s Session) Visible() bool {
	return !s.Hidden && len(s.Suggestions) > 0
}

// Move shifts the keyboard highlight by delta, clamped to the list. Moving
// up from the first row removes the highlight.
func (s Session) Move(delta int) Session {
	if !s.Visible() {
		return s
	}
	next := s
	h := s.Highlighted + delta
	switch {
	case h < NoHighlight:
		h = NoHighlight
	case h >= len(s.Suggestions):
		h = len(s.Suggestions) - 1
	}
	next.Highlighted = h
	return next
}

// Pick returns the highlighted suggestion, or the typed query when nothing
// is highlighted
func (s Session) Pick() string {
	if s.Visible() && s.Highlighted >= 0 && s.Highlighted < len(s.Suggestions) {
		return s.Suggestions[s.Highlighted]
	}
	return strings.TrimSpace(s.Query)
}

// Hide closes the dropdown (Esc, blur, or a pick)
func (s Session) Hide() Session {
	next := s
	next.Hidden = true
	next.Highlighted = NoHighlight
	return next
}
