// Package hover defers supplementary detail fetches until the pointer (or
// keyboard focus) has dwelled on an item. Each item has an explicit state
// machine driven by events; the reducer returns timer and fetch effects for
// the caller to execute.
package hover

import (
	"time"

	"github.com/mmcdole/cinematch/internal/domain"
)

// Default dwell timings
const (
	DefaultDwell = 300 * time.Millisecond
	DefaultHide  = 200 * time.Millisecond
)

// Dwell is the pointer state of one item
type Dwell int

const (
	AtRest Dwell = iota
	Armed
	Cancelled
	Expanded
	Collapsing
)

func (d Dwell) String() string {
	switch d {
	case AtRest:
		return "at_rest"
	case Armed:
		return "armed"
	case Cancelled:
		return "cancelled"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	default:
		return "unknown"
	}
}

// FetchState tracks the detail payload of one item
type FetchState int

const (
	NotFetched FetchState = iota
	Fetching
	Fetched
)

func (f FetchState) String() string {
	switch f {
	case NotFetched:
		return "not_fetched"
	case Fetching:
		return "fetching"
	case Fetched:
		return "fetched"
	default:
		return "unknown"
	}
}

// Config holds the dwell timings
type Config struct {
	Dwell time.Duration // Enter → expand
	Hide  time.Duration // Leave → collapse, once expanded
}

// DefaultConfig returns the stock timings
func DefaultConfig() Config {
	return Config{Dwell: DefaultDwell, Hide: DefaultHide}
}

// Session is the hover state of a single item
type Session struct {
	ItemID  string
	Dwell   Dwell
	Fetch   FetchState
	Detail  string    // Cached detail; empty until a fetch succeeds or a seed is given
	ArmedAt time.Time // Time of the last Enter that armed the timer

	// Token identifies the one pending timer; fired timers carrying any
	// other token are ignored
	Token uint64
}

// Open reports whether the detail panel is showing
func (s Session) Open() bool {
	return s.Dwell == Expanded || s.Dwell == Collapsing
}

// Loading reports whether the panel is waiting for its payload
func (s Session) Loading() bool {
	return s.Fetch == Fetching
}

// Text returns the panel body: the detail, or the placeholder once a fetch
// has settled without one
func (s Session) Text() string {
	if s.Detail != "" {
		return s.Detail
	}
	if s.Fetch == Fetched {
		return domain.PlaceholderOverview
	}
	return ""
}

// Event drives a Session
type Event interface {
	isEvent()
}

// Enter is pointer-enter (or keyboard focus)
type Enter struct {
	At time.Time
}

// Leave is pointer-leave (or focus moving away)
type Leave struct{}

// ArmFired is delivered when the dwell timer with Token elapses
type ArmFired struct {
	Token uint64
}

// HideFired is delivered when the hide timer with Token elapses
type HideFired struct {
	Token uint64
}

// Loaded carries the fetch result
type Loaded struct {
	Detail string
	Err    error
}

func (Enter) isEvent()     {}
func (Leave) isEvent()     {}
func (ArmFired) isEvent()  {}
func (HideFired) isEvent() {}
func (Loaded) isEvent()    {}

// EffectKind names a side effect the caller must perform
type EffectKind int

const (
	// ArmTimer schedules ArmFired{Token} after Delay
	ArmTimer EffectKind = iota + 1
	// HideTimer schedules HideFired{Token} after Delay
	HideTimer
	// CancelTimer drops the timer with Token; callers that cannot stop a
	// timer may ignore it since a superseded token is inert
	CancelTimer
	// FetchDetail requests the item's detail; deliver Loaded when done
	FetchDetail
)

func (k EffectKind) String() string {
	switch k {
	case ArmTimer:
		return "arm_timer"
	case HideTimer:
		return "hide_timer"
	case CancelTimer:
		return "cancel_timer"
	case FetchDetail:
		return "fetch_detail"
	default:
		return "unknown"
	}
}

// Effect is one side effect produced by a transition
type Effect struct {
	Kind   EffectKind
	ItemID string
	Token  uint64
	Delay  time.Duration
}

// reduce computes the next state for ev. newToken issues a fresh timer token.
func (s Session) reduce(ev Event, cfg Config, newToken func() uint64) (Session, []Effect) {
	switch ev := ev.(type) {
	case Enter:
		switch s.Dwell {
		case AtRest, Cancelled:
			s.Dwell = Armed
			s.ArmedAt = ev.At
			s.Token = newToken()
			return s, []Effect{{Kind: ArmTimer, ItemID: s.ItemID, Token: s.Token, Delay: cfg.Dwell}}
		case Collapsing:
			// Drift back in before the hide timer fired
			old := s.Token
			s.Dwell = Expanded
			s.Token = 0
			return s, []Effect{{Kind: CancelTimer, ItemID: s.ItemID, Token: old}}
		}
		return s, nil

	case Leave:
		switch s.Dwell {
		case Armed:
			old := s.Token
			s.Dwell = Cancelled
			s.Token = 0
			return s, []Effect{{Kind: CancelTimer, ItemID: s.ItemID, Token: old}}
		case Expanded:
			s.Dwell = Collapsing
			s.Token = newToken()
			return s, []Effect{{Kind: HideTimer, ItemID: s.ItemID, Token: s.Token, Delay: cfg.Hide}}
		}
		return s, nil

	case ArmFired:
		if s.Dwell != Armed || ev.Token != s.Token {
			return s, nil
		}
		s.Dwell = Expanded
		s.Token = 0
		if s.Fetch != NotFetched {
			return s, nil
		}
		if s.Detail != "" {
			s.Fetch = Fetched
			return s, nil
		}
		s.Fetch = Fetching
		return s, []Effect{{Kind: FetchDetail, ItemID: s.ItemID}}

	case HideFired:
		if s.Dwell != Collapsing || ev.Token != s.Token {
			return s, nil
		}
		s.Dwell = AtRest
		s.Token = 0
		return s, nil

	case Loaded:
		if s.Fetch != Fetching {
			return s, nil
		}
		s.Fetch = Fetched
		if ev.Err == nil {
			s.Detail = ev.Detail
		}
		return s, nil
	}
	return s, nil
}
