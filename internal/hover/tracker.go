package hover

// Tracker owns the hover sessions of one mounted list. It is not safe for
// concurrent use; the TUI drives it from its update loop.
type Tracker struct {
	cfg       Config
	sessions  map[string]Session
	lastToken uint64
}

// NewTracker creates a tracker. Zero timings fall back to the defaults.
func NewTracker(cfg Config) *Tracker {
	if cfg.Dwell <= 0 {
		cfg.Dwell = DefaultDwell
	}
	if cfg.Hide <= 0 {
		cfg.Hide = DefaultHide
	}
	return &Tracker{
		cfg:      cfg,
		sessions: make(map[string]Session),
	}
}

// Config returns the effective timings
func (t *Tracker) Config() Config {
	return t.cfg
}

func (t *Tracker) newToken() uint64 {
	t.lastToken++
	return t.lastToken
}

// Seed records a detail already known for id (list payload or local
// cache), so arming the item never fetches
func (t *Tracker) Seed(id, detail string) {
	if detail == "" {
		return
	}
	s := t.session(id)
	if s.Detail == "" {
		s.Detail = detail
		t.sessions[id] = s
	}
}

func (t *Tracker) session(id string) Session {
	if s, ok := t.sessions[id]; ok {
		return s
	}
	return Session{ItemID: id}
}

// Session returns the current state for id
func (t *Tracker) Session(id string) Session {
	return t.session(id)
}

// Dispatch feeds ev to the session for id and returns the effects to run.
// Timer and load events for items that were never entered are ignored.
func (t *Tracker) Dispatch(id string, ev Event) []Effect {
	s, ok := t.sessions[id]
	if !ok {
		if _, entering := ev.(Enter); !entering {
			return nil
		}
		s = Session{ItemID: id}
	}
	next, effects := s.reduce(ev, t.cfg, t.newToken)
	t.sessions[id] = next
	return effects
}

// Open returns the session whose panel is showing, preferring the most
// recently armed one
func (t *Tracker) Open() (Session, bool) {
	var (
		best  Session
		found bool
	)
	for _, s := range t.sessions {
		if !s.Open() {
			continue
		}
		if !found || s.ArmedAt.After(best.ArmedAt) {
			best = s
			found = true
		}
	}
	return best, found
}

// Reset disposes every session (list unmount or new content) and returns
// CancelTimer effects for all pending timers. Tokens are never reused, so
// timers already in flight stay inert.
func (t *Tracker) Reset() []Effect {
	var effects []Effect
	for id, s := range t.sessions {
		if s.Token != 0 {
			effects = append(effects, Effect{Kind: CancelTimer, ItemID: id, Token: s.Token})
		}
	}
	t.sessions = make(map[string]Session)
	return effects
}
