package animlist

import "time"

// ViewState is everything a render function needs to draw one item
type ViewState struct {
	Index   int
	Entered bool
	Focused bool

	// Delay is the entrance delay: Index × StaggerDelay until the item has
	// entered, zero afterwards
	Delay time.Duration

	// Progress is the entrance animation in [0,1]; 0 before entry, 1 once
	// the animation has completed
	Progress float64
}

// Node is one rendered item
type Node[R any] struct {
	Key   string
	State ViewState
	View  R
}

// State returns the view state of item i at the list's current time
func (l *List[T]) State(i int) ViewState {
	st := ViewState{
		Index:   i,
		Focused: i == l.focus,
	}
	if i < 0 || i >= len(l.items) {
		return st
	}

	e, ok := l.entered[l.key(l.items[i])]
	if !ok {
		st.Delay = l.staggerFor(i)
		return st
	}

	st.Entered = true
	elapsed := l.now().Sub(e.at) - e.delay
	switch {
	case elapsed <= 0:
		st.Progress = 0
	case elapsed >= l.cfg.EntranceDuration:
		st.Progress = 1
	default:
		st.Progress = float64(elapsed) / float64(l.cfg.EntranceDuration)
	}
	return st
}

// Nodes renders every item. render must be pure.
func Nodes[T, R any](l *List[T], render func(item T, st ViewState) R) []Node[R] {
	return Window(l, 0, l.Len(), render)
}

// Window renders items in [start,end) only
func Window[T, R any](l *List[T], start, end int, render func(item T, st ViewState) R) []Node[R] {
	if start < 0 {
		start = 0
	}
	if end > l.Len() {
		end = l.Len()
	}
	if start >= end {
		return nil
	}
	nodes := make([]Node[R], 0, end-start)
	for i := start; i < end; i++ {
		item := l.items[i]
		st := l.State(i)
		nodes = append(nodes, Node[R]{
			Key:   l.key(item),
			State: st,
			View:  render(item, st),
		})
	}
	return nodes
}
