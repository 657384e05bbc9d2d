package hover

import (
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/cinematch/internal/domain"
)

func findEffect(effects []Effect, kind EffectKind) (Effect, bool) {
	for _, e := range effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

func countFetches(effects []Effect) int {
	n := 0
	for _, e := range effects {
		if e.Kind == FetchDetail {
			n++
		}
	}
	return n
}

func TestEnterThenLeaveBeforeDwellNeverFetches(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	effects := tr.Dispatch("603", Enter{At: time.Now()})
	arm, ok := findEffect(effects, ArmTimer)
	if !ok {
		t.Fatalf("expected ArmTimer, got %v", effects)
	}
	if arm.Delay != DefaultDwell {
		t.Errorf("arm delay = %v, want %v", arm.Delay, DefaultDwell)
	}

	effects = tr.Dispatch("603", Leave{})
	if cancel, ok := findEffect(effects, CancelTimer); !ok || cancel.Token != arm.Token {
		t.Errorf("expected CancelTimer for token %d, got %v", arm.Token, effects)
	}

	// The timer fires anyway (it could not be stopped in time)
	effects = tr.Dispatch("603", ArmFired{Token: arm.Token})
	if countFetches(effects) != 0 {
		t.Fatal("cancelled arm timer issued a fetch")
	}
	if s := tr.Session("603"); s.Dwell != Cancelled || s.Open() {
		t.Errorf("session = %+v", s)
	}
}

func TestDwellFetchesOnce(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	effects := tr.Dispatch("1", Enter{})
	arm, _ := findEffect(effects, ArmTimer)
	effects = tr.Dispatch("1", ArmFired{Token: arm.Token})
	if countFetches(effects) != 1 {
		t.Fatalf("expected one fetch, got %v", effects)
	}
	if s := tr.Session("1"); !s.Open() || !s.Loading() {
		t.Errorf("session = %+v", s)
	}

	// Leave and re-enter while the fetch is still in flight
	effects = tr.Dispatch("1", Leave{})
	hide, ok := findEffect(effects, HideTimer)
	if !ok || hide.Delay != DefaultHide {
		t.Fatalf("expected HideTimer, got %v", effects)
	}
	tr.Dispatch("1", HideFired{Token: hide.Token})

	effects = tr.Dispatch("1", Enter{})
	arm, _ = findEffect(effects, ArmTimer)
	effects = tr.Dispatch("1", ArmFired{Token: arm.Token})
	if countFetches(effects) != 0 {
		t.Fatal("re-entry during Fetching issued a duplicate fetch")
	}

	tr.Dispatch("1", Loaded{Detail: "A thief who steals secrets."})
	s := tr.Session("1")
	if s.Fetch != Fetched || s.Text() != "A thief who steals secrets." {
		t.Errorf("session = %+v", s)
	}

	// Later hovers are served from the cached detail
	tr.Dispatch("1", Leave{})
	effects = tr.Dispatch("1", Enter{})
	if len(effects) != 1 || effects[0].Kind != CancelTimer {
		t.Errorf("re-enter while collapsing should only cancel the hide timer, got %v", effects)
	}
}

func TestReenterCancelsHideTimer(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	tr.Seed("7", "cached")

	arm, _ := findEffect(tr.Dispatch("7", Enter{}), ArmTimer)
	if effects := tr.Dispatch("7", ArmFired{Token: arm.Token}); countFetches(effects) != 0 {
		t.Fatal("seeded item fetched")
	}

	hide, _ := findEffect(tr.Dispatch("7", Leave{}), HideTimer)
	effects := tr.Dispatch("7", Enter{})
	if c, ok := findEffect(effects, CancelTimer); !ok || c.Token != hide.Token {
		t.Fatalf("expected hide timer cancel, got %v", effects)
	}

	tr.Dispatch("7", HideFired{Token: hide.Token})
	if s := tr.Session("7"); s.Dwell != Expanded {
		t.Errorf("stale hide timer collapsed the panel: %+v", s)
	}
}

func TestFetchFailureShowsPlaceholder(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	arm, _ := findEffect(tr.Dispatch("9", Enter{}), ArmTimer)
	tr.Dispatch("9", ArmFired{Token: arm.Token})
	tr.Dispatch("9", Loaded{Err: errors.New("timeout")})

	s := tr.Session("9")
	if s.Detail != "" {
		t.Errorf("Detail = %q, want empty", s.Detail)
	}
	if s.Text() != domain.PlaceholderOverview {
		t.Errorf("Text = %q", s.Text())
	}

	tr.Dispatch("9", Leave{})
	tr.Dispatch("9", HideFired{Token: tr.Session("9").Token})
	arm, _ = findEffect(tr.Dispatch("9", Enter{}), ArmTimer)
	if effects := tr.Dispatch("9", ArmFired{Token: arm.Token}); countFetches(effects) != 0 {
		t.Error("failed item was fetched again within the same mount")
	}
}

func TestResetCancelsPendingTimers(t *testing.T) {
	tr := NewTracker(DefaultConfig())
	a, _ := findEffect(tr.Dispatch("a", Enter{}), ArmTimer)
	tr.Dispatch("b", Enter{})
	tr.Dispatch("b", Leave{})

	effects := tr.Reset()
	if len(effects) != 1 || effects[0].Token != a.Token {
		t.Fatalf("Reset effects = %v", effects)
	}

	if effects := tr.Dispatch("a", ArmFired{Token: a.Token}); len(effects) != 0 {
		t.Errorf("timer from previous mount acted: %v", effects)
	}
	if _, open := tr.Open(); open {
		t.Error("no panel should be open after reset")
	}
}

func TestOpenPrefersLatestArmed(t *testing.T) {
	tr := NewTracker(Config{Dwell: time.Millisecond, Hide: time.Millisecond})
	t0 := time.Now()

	a, _ := findEffect(tr.Dispatch("a", Enter{At: t0}), ArmTimer)
	tr.Dispatch("a", ArmFired{Token: a.Token})
	tr.Dispatch("a", Leave{})

	b, _ := findEffect(tr.Dispatch("b", Enter{At: t0.Add(time.Second)}), ArmTimer)
	tr.Dispatch("b", ArmFired{Token: b.Token})

	s, ok := tr.Open()
	if !ok || s.ItemID != "b" {
		t.Errorf("Open = %+v, %v", s, ok)
	}
}
