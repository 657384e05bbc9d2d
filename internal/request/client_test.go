package request

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingObserver struct {
	mu       sync.Mutex
	attempts []OutcomeKind
	retries  []time.Duration
	done     int
	lastErr  error
}

func (o *recordingObserver) OnAttempt(method, path string, attempt int, outcome OutcomeKind, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attempts = append(o.attempts, outcome)
}

func (o *recordingObserver) OnRetry(method, path string, retry int, delay time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.retries = append(o.retries, delay)
}

func (o *recordingObserver) OnDone(method, path string, err error, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done++
	o.lastErr = err
}

func TestCallServerErrorExhaustsRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: Retries(3), BaseDelay: time.Millisecond}, quietLogger(), WithObserver(obs))

	_, err := c.Call(context.Background(), "/top_watched", Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if !errors.Is(err, ErrServerError) {
		t.Errorf("expected last cause to be a server error, got %v", err)
	}
	if got := hits.Load(); got != 4 {
		t.Errorf("attempts = %d, want 4", got)
	}
	if got := StatusCode(err); got != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", got)
	}

	var reqErr *Error
	if !errors.As(err, &reqErr) || reqErr.Attempts != 4 {
		t.Errorf("expected Attempts=4 on returned error, got %+v", reqErr)
	}

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	if len(obs.retries) != len(want) {
		t.Fatalf("retries = %v, want %v", obs.retries, want)
	}
	for i := range want {
		if obs.retries[i] != want[i] {
			t.Errorf("retry %d delay = %v, want %v", i+1, obs.retries[i], want[i])
		}
	}
	if obs.done != 1 {
		t.Errorf("OnDone called %d times, want 1", obs.done)
	}
}

func TestCallClientErrorIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Movie not found"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: Retries(3), BaseDelay: time.Millisecond}, quietLogger())

	_, err := c.Call(context.Background(), "/movie_details", Options{})
	if !errors.Is(err, ErrClientError) {
		t.Fatalf("expected client error, got %v", err)
	}
	if errors.Is(err, ErrExhaustedRetries) {
		t.Error("client error should not be reported as exhausted retries")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
	if err.Error() != "Client error: 404 Not Found" {
		t.Errorf("message = %q", err.Error())
	}

	var reqErr *Error
	if errors.As(err, &reqErr) && string(reqErr.Body) != `{"error":"Movie not found"}` {
		t.Errorf("body = %q", reqErr.Body)
	}
}

func TestCallRecoversAfterTransientFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"movies":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: Retries(3), BaseDelay: time.Millisecond}, quietLogger())

	resp, err := c.Call(context.Background(), "/top_watched", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", resp.Attempts)
	}
	if !resp.OK() {
		t.Errorf("expected OK response, got %d", resp.StatusCode)
	}
}

func TestCallTimeoutAbortsAttempt(t *testing.T) {
	var (
		hits      atomic.Int32
		cancelled atomic.Int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-r.Context().Done():
			cancelled.Add(1)
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond, MaxRetries: Retries(1), BaseDelay: time.Millisecond}, quietLogger())

	start := time.Now()
	_, err := c.Call(context.Background(), "/slow", Options{})
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected timeout in chain, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("call took %v, timeout did not abort the attempt", elapsed)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestCallParentCancelStopsRetrying(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: Retries(3), BaseDelay: time.Hour}, quietLogger())

	done := make(chan error, 1)
	go func() {
		_, err := c.Call(ctx, "/top_watched", Options{})
		done <- err
	}()

	// Wait for the first attempt, then cancel during the backoff sleep
	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("call did not return after cancel")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestCallResolvesPathsAgainstBase(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/"}, quietLogger())

	tests := []struct {
		in   string
		want string
	}{
		{"/top_watched", srv.URL + "/top_watched"},
		{"top_watched", srv.URL + "/top_watched"},
		{"https://example.com/x", "https://example.com/x"},
		{"http://example.com/y?z=1", "http://example.com/y?z=1"},
	}
	for _, tt := range tests {
		if got := c.ResolveURL(tt.in); got != tt.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	_, err := c.Call(context.Background(), "/search_suggestions", Options{Query: map[string][]string{"q": {"star wars"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/search_suggestions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "q=star+wars" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestCallEncodesJSONBody(t *testing.T) {
	var (
		mu          sync.Mutex
		contentType []string
		bodies      []string
		requestIDs  []string
		hits        int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		hits++
		n := hits
		contentType = append(contentType, r.Header.Get("Content-Type"))
		bodies = append(bodies, string(b))
		requestIDs = append(requestIDs, r.Header.Get("X-Request-ID"))
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"recommendations":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, MaxRetries: Retries(2), BaseDelay: time.Millisecond}, quietLogger())

	_, err := c.Call(context.Background(), "/recommend", Options{
		Method: http.MethodPost,
		Body:   map[string]string{"title": "Inception"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(bodies))
	}
	for i := range bodies {
		if contentType[i] != "application/json" {
			t.Errorf("attempt %d Content-Type = %q", i, contentType[i])
		}
		if bodies[i] != `{"title":"Inception"}` {
			t.Errorf("attempt %d body = %q", i, bodies[i])
		}
	}
	if requestIDs[0] == "" || requestIDs[0] != requestIDs[1] {
		t.Errorf("request id should be stable across attempts: %v", requestIDs)
	}
}

func TestCallWithoutBodyHasNoContentType(t *testing.T) {
	var ct string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, quietLogger())
	if _, err := c.Call(context.Background(), "/get_collection", Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct != "" {
		t.Errorf("Content-Type = %q, want empty", ct)
	}
}

func TestCallTransportFailureIsRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: addr, MaxRetries: Retries(2), BaseDelay: time.Millisecond}, quietLogger())
	_, err := c.Call(context.Background(), "/top_watched", Options{})
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected transport failure in chain, got %v", err)
	}
	var reqErr *Error
	if errors.As(err, &reqErr) && reqErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", reqErr.Attempts)
	}
}

func TestZeroConfigUsesDefaultRetrySchedule(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, quietLogger())
	if c.policy.MaxRetries != DefaultMaxRetries || c.policy.BaseDelay != DefaultBaseDelay {
		t.Fatalf("policy = %+v, want %d retries at %v", c.policy, DefaultMaxRetries, DefaultBaseDelay)
	}

	var scheduled []time.Duration
	for n := 1; n <= c.policy.MaxRetries; n++ {
		scheduled = append(scheduled, c.policy.Delay(n))
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, d := range want {
		if scheduled[i] != d {
			t.Errorf("delay %d = %v, want %v", i+1, scheduled[i], d)
		}
	}

	// The default retry count applies to a real call; only the wait is shortened
	obs := &recordingObserver{}
	c = NewClient(Config{BaseURL: srv.URL}, quietLogger(), WithObserver(obs))
	_, err := c.Call(context.Background(), "/top_watched", Options{BaseDelay: time.Millisecond})
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("expected exhausted retries, got %v", err)
	}
	if got := hits.Load(); got != 4 {
		t.Errorf("attempts = %d, want 4", got)
	}
	wantRetries := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	if len(obs.retries) != len(wantRetries) {
		t.Fatalf("retries = %v, want %v", obs.retries, wantRetries)
	}
	for i := range wantRetries {
		if obs.retries[i] != wantRetries[i] {
			t.Errorf("retry %d delay = %v, want %v", i+1, obs.retries[i], wantRetries[i])
		}
	}
}

func TestNegativeMaxRetriesMeansNone(t *testing.T) {
	c := NewClient(Config{MaxRetries: Retries(-2)}, quietLogger())
	if c.policy.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", c.policy.MaxRetries)
	}
}
