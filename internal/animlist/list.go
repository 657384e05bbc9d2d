// Package animlist schedules rendering work over an ordered item list:
// one-time staggered entrance animations gated on viewport visibility,
// clamped keyboard focus with margin-keeping smooth scroll, scroll-edge
// fades, and the visible window for virtualized rendering.
//
// Geometry is expressed in abstract units. The TUI maps units to terminal
// lines; nothing here depends on the renderer.
package animlist

import (
	"math"
	"time"
)

// Default tuning
const (
	DefaultStaggerDelay        = 50 * time.Millisecond
	DefaultEntranceDuration    = 500 * time.Millisecond
	DefaultVisibilityThreshold = 0.1
	DefaultScrollMargin        = 50.0
	DefaultFadeDistance        = 50.0
	DefaultItemHeight          = 50.0
	DefaultSmoothFactor        = 0.35
)

// Config tunes a List. Zero fields fall back to the defaults; a negative
// StaggerDelay or ScrollMargin means none.
type Config struct {
	StaggerDelay        time.Duration
	EntranceDuration    time.Duration
	VisibilityThreshold float64 // Fraction of an item's height that must be inside the viewport
	ScrollMargin        float64 // Gap kept between the focused item and the viewport edge
	FadeDistance        float64 // Scroll travel at which an edge fade saturates
	ItemHeight          float64 // Uniform item height
	SmoothFactor        float64 // Fraction of the remaining scroll distance covered per Tick
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		StaggerDelay:        DefaultStaggerDelay,
		EntranceDuration:    DefaultEntranceDuration,
		VisibilityThreshold: DefaultVisibilityThreshold,
		ScrollMargin:        DefaultScrollMargin,
		FadeDistance:        DefaultFadeDistance,
		ItemHeight:          DefaultItemHeight,
		SmoothFactor:        DefaultSmoothFactor,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	switch {
	case c.StaggerDelay == 0:
		c.StaggerDelay = d.StaggerDelay
	case c.StaggerDelay < 0:
		c.StaggerDelay = 0
	}
	if c.EntranceDuration <= 0 {
		c.EntranceDuration = d.EntranceDuration
	}
	if c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1 {
		c.VisibilityThreshold = d.VisibilityThreshold
	}
	switch {
	case c.ScrollMargin == 0:
		c.ScrollMargin = d.ScrollMargin
	case c.ScrollMargin < 0:
		c.ScrollMargin = 0
	}
	if c.FadeDistance <= 0 {
		c.FadeDistance = d.FadeDistance
	}
	if c.ItemHeight <= 0 {
		c.ItemHeight = d.ItemHeight
	}
	if c.SmoothFactor <= 0 || c.SmoothFactor > 1 {
		c.SmoothFactor = d.SmoothFactor
	}
	return c
}

// NoFocus is the focus index before any item has been focused
const NoFocus = -1

// Key is a navigation input
type Key int

const (
	KeyDown Key = iota + 1
	KeyUp
	KeyTab
	KeyShiftTab
	KeyEnter
)

// entry is the latched entrance of one item
type entry struct {
	at    time.Time
	delay time.Duration
}

// List is the view state of an ordered item collection. It is not safe for
// concurrent use.
type List[T any] struct {
	cfg   Config
	items []T
	key   func(T) string

	// entered is the one-way latch, keyed by item key
	entered map[string]entry

	focus    int
	scroll   float64
	target   float64
	viewport float64

	onSelect func(index int, item T)
	now      func() time.Time
}

// Option customizes a List
type Option[T any] func(*List[T])

// WithClock replaces time.Now (tests)
func WithClock[T any](now func() time.Time) Option[T] {
	return func(l *List[T]) {
		l.now = now
	}
}

// WithSelect installs the selection callback (Enter or click)
func WithSelect[T any](fn func(index int, item T)) Option[T] {
	return func(l *List[T]) {
		l.onSelect = fn
	}
}

// New creates an empty list. key must return a stable identity per item.
func New[T any](cfg Config, key func(T) string, opts ...Option[T]) *List[T] {
	l := &List[T]{
		cfg:     cfg.withDefaults(),
		key:     key,
		entered: make(map[string]entry),
		focus:   NoFocus,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the effective tuning
func (l *List[T]) Config() Config {
	return l.cfg
}

// SetItems replaces the items. Entrance latches survive for items whose
// key is still present; focus is clamped to the new length.
func (l *List[T]) SetItems(items []T) {
	l.items = items

	keep := make(map[string]entry, len(items))
	for _, it := range items {
		k := l.key(it)
		if e, ok := l.entered[k]; ok {
			keep[k] = e
		}
	}
	l.entered = keep

	if l.focus >= len(items) {
		l.focus = len(items) - 1
	}
	l.clampScroll()
	l.Observe()
}

// Items returns the current items
func (l *List[T]) Items() []T {
	return l.items
}

// Len returns the item count
func (l *List[T]) Len() int {
	return len(l.items)
}

// Item returns the item at i
func (l *List[T]) Item(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(l.items) {
		return zero, false
	}
	return l.items[i], true
}

// SetViewport sets the visible height
func (l *List[T]) SetViewport(height float64) {
	if height < 0 {
		height = 0
	}
	l.viewport = height
	l.clampScroll()
	l.Observe()
}

// Viewport returns the visible height
func (l *List[T]) Viewport() float64 {
	return l.viewport
}

// ContentHeight is the total height of all items
func (l *List[T]) ContentHeight() float64 {
	return float64(len(l.items)) * l.cfg.ItemHeight
}

// Overflowing reports whether the content is taller than the viewport
func (l *List[T]) Overflowing() bool {
	return l.ContentHeight() > l.viewport
}

// MaxScroll is the largest valid scroll offset
func (l *List[T]) MaxScroll() float64 {
	return math.Max(0, l.ContentHeight()-l.viewport)
}

// Scroll returns the current (possibly mid-animation) scroll offset
func (l *List[T]) Scroll() float64 {
	return l.scroll
}

// ScrollTo jumps to offset immediately (wheel, page keys)
func (l *List[T]) ScrollTo(offset float64) {
	l.scroll = clamp(offset, 0, l.MaxScroll())
	l.target = l.scroll
	l.Observe()
}

// ScrollBy jumps by delta
func (l *List[T]) ScrollBy(delta float64) {
	l.ScrollTo(l.target + delta)
}

func (l *List[T]) clampScroll() {
	limit := l.MaxScroll()
	l.scroll = clamp(l.scroll, 0, limit)
	l.target = clamp(l.target, 0, limit)
}

// Focus returns the focused index, or NoFocus
func (l *List[T]) Focus() int {
	return l.focus
}

// Focused returns the focused item
func (l *List[T]) Focused() (T, bool) {
	return l.Item(l.focus)
}

// SetFocus moves focus without scrolling (pointer hover)
func (l *List[T]) SetFocus(i int) {
	if len(l.items) == 0 {
		l.focus = NoFocus
		return
	}
	l.focus = int(clamp(float64(i), 0, float64(len(l.items)-1)))
}

// Hover is pointer-enter on item i: it takes focus
func (l *List[T]) Hover(i int) {
	if i < 0 || i >= len(l.items) {
		return
	}
	l.SetFocus(i)
}

// Click focuses and selects item i
func (l *List[T]) Click(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	l.SetFocus(i)
	return l.selectFocused()
}

// HandleKey applies a navigation key. It reports whether the key was
// consumed. Down/Tab and Up/Shift+Tab clamp to the list; Enter selects.
func (l *List[T]) HandleKey(k Key) bool {
	n := len(l.items)
	if n == 0 {
		return false
	}
	switch k {
	case KeyDown, KeyTab:
		next := l.focus + 1
		if next > n-1 {
			next = n - 1
		}
		l.focus = next
		l.ensureVisible()
		return true
	case KeyUp, KeyShiftTab:
		next := l.focus - 1
		if next < 0 {
			next = 0
		}
		l.focus = next
		l.ensureVisible()
		return true
	case KeyEnter:
		return l.selectFocused()
	}
	return false
}

func (l *List[T]) selectFocused() bool {
	if l.focus < 0 || l.focus >= len(l.items) {
		return false
	}
	if l.onSelect != nil {
		l.onSelect(l.focus, l.items[l.focus])
	}
	return true
}

// ensureVisible sets the smooth-scroll target so the focused item keeps
// ScrollMargin from both viewport edges
func (l *List[T]) ensureVisible() {
	if l.focus < 0 || l.viewport <= 0 {
		return
	}
	top := float64(l.focus) * l.cfg.ItemHeight
	bottom := top + l.cfg.ItemHeight
	margin := l.cfg.ScrollMargin

	switch {
	case top < l.target+margin:
		l.target = top - margin
	case bottom > l.target+l.viewport-margin:
		l.target = bottom - l.viewport + margin
	}
	l.target = clamp(l.target, 0, l.MaxScroll())
}

// Tick advances smooth scrolling one frame and re-checks visibility.
// It reports whether another frame is needed.
func (l *List[T]) Tick() bool {
	if l.scroll != l.target {
		diff := l.target - l.scroll
		if math.Abs(diff) < 0.5 {
			l.scroll = l.target
		} else {
			l.scroll += diff * l.cfg.SmoothFactor
		}
		l.Observe()
	}
	return l.Animating()
}

// Scrolling reports whether a smooth scroll is in progress
func (l *List[T]) Scrolling() bool {
	return l.scroll != l.target
}

// Animating reports whether any frame-driven work remains
func (l *List[T]) Animating() bool {
	if l.Scrolling() {
		return true
	}
	now := l.now()
	for _, e := range l.entered {
		if now.Before(e.at.Add(e.delay + l.cfg.EntranceDuration)) {
			return true
		}
	}
	return false
}

// VisibleFraction returns how much of item i's height lies inside the viewport
func (l *List[T]) VisibleFraction(i int) float64 {
	if i < 0 || i >= len(l.items) || l.viewport <= 0 {
		return 0
	}
	top := float64(i) * l.cfg.ItemHeight
	bottom := top + l.cfg.ItemHeight
	overlap := math.Min(bottom, l.scroll+l.viewport) - math.Max(top, l.scroll)
	if overlap <= 0 {
		return 0
	}
	return overlap / l.cfg.ItemHeight
}

// Observe latches every item that has crossed the visibility threshold
func (l *List[T]) Observe() {
	start, end := l.VisibleRange(0)
	if start >= end {
		return
	}
	now := l.now()
	for i := start; i < end; i++ {
		k := l.key(l.items[i])
		if _, ok := l.entered[k]; ok {
			continue
		}
		if l.VisibleFraction(i) >= l.cfg.VisibilityThreshold {
			l.entered[k] = entry{at: now, delay: l.staggerFor(i)}
		}
	}
}

func (l *List[T]) staggerFor(i int) time.Duration {
	return time.Duration(i) * l.cfg.StaggerDelay
}

// Entered reports whether item i has been latched
func (l *List[T]) Entered(i int) bool {
	if i < 0 || i >= len(l.items) {
		return false
	}
	_, ok := l.entered[l.key(l.items[i])]
	return ok
}

// VisibleRange returns the half-open index range intersecting the viewport,
// widened by overscan items on each side
func (l *List[T]) VisibleRange(overscan int) (start, end int) {
	n := len(l.items)
	if n == 0 || l.viewport <= 0 {
		return 0, 0
	}
	h := l.cfg.ItemHeight
	start = int(math.Floor(l.scroll / h))
	end = int(math.Ceil((l.scroll + l.viewport) / h))

	if overscan > 0 {
		start -= overscan
		end += overscan
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	return start, end
}

// Fades returns the top and bottom edge-fade opacities in [0,1]
func (l *List[T]) Fades() (top, bottom float64) {
	d := l.cfg.FadeDistance
	top = math.Min(l.scroll/d, 1)
	if !l.Overflowing() {
		return top, 0
	}
	remaining := l.ContentHeight() - (l.scroll + l.viewport)
	bottom = clamp(remaining/d, 0, 1)
	return top, bottom
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
