package request

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultMaxRetries is the number of retries after the initial attempt
	DefaultMaxRetries = 3

	// DefaultBaseDelay is the wait before the first retry
	DefaultBaseDelay = time.Second
)

// Policy re-invokes an attempt on retryable outcomes with exponential
// backoff: the wait before attempt n (n >= 1) is BaseDelay * 2^(n-1).
// There is no jitter; waits saturate at the largest time.Duration.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration

	// OnRetry, if set, is called before each backoff wait with the 1-based
	// retry number, the failure that triggered it and the wait.
	OnRetry func(retry int, err error, delay time.Duration)
}

// DefaultPolicy returns the stock retry policy (3 retries, 1s base)
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

// Delay returns the wait before attempt n. Attempt 0 never waits.
func (p Policy) Delay(n int) time.Duration {
	if n <= 0 || p.BaseDelay <= 0 {
		return 0
	}
	// Saturate instead of overflowing into a negative wait
	shift := n - 1
	if shift >= 63 || p.BaseDelay > time.Duration(math.MaxInt64>>shift) {
		return time.Duration(math.MaxInt64)
	}
	return p.BaseDelay << shift
}

// Budget returns the longest a call can take when every attempt runs to
// perAttempt and every retry is taken
func (p Policy) Budget(perAttempt time.Duration) time.Duration {
	total := time.Duration(0)
	add := func(d time.Duration) {
		if d > time.Duration(math.MaxInt64)-total {
			total = time.Duration(math.MaxInt64)
			return
		}
		total += d
	}
	add(perAttempt)
	for n := 1; n <= p.MaxRetries; n++ {
		add(perAttempt)
		add(p.Delay(n))
	}
	return total
}

// backoff builds a fresh go-retry backoff for one call. The state lives only
// as long as that call.
func (p Policy) backoff(lastErr *error) retry.Backoff {
	n := 0
	exp := retry.BackoffFunc(func() (time.Duration, bool) {
		n++
		d := p.Delay(n)
		if p.OnRetry != nil {
			p.OnRetry(n, *lastErr, d)
		}
		return d, false
	})
	maxRetries := p.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return retry.WithMaxRetries(uint64(maxRetries), exp)
}

// Do executes attempts 0..MaxRetries, classifying each outcome with
// Classify. Success returns immediately; a fatal outcome is surfaced
// without consuming further budget; when the budget runs out the last
// failure is returned wrapped in a KindExhaustedRetries error.
func (p Policy) Do(ctx context.Context, url string, attempt AttemptFunc) (*Response, error) {
	var (
		result   *Response
		lastErr  error
		attempts int
	)

	err := retry.Do(ctx, p.backoff(&lastErr), func(ctx context.Context) error {
		attempts++
		resp, err := attempt(ctx)

		outcome := Classify(url, resp, err)
		switch outcome.Kind {
		case OutcomeSuccess:
			result = outcome.Response
			result.Attempts = attempts
			return nil
		case OutcomeRetryable:
			lastErr = outcome.Err
			return retry.RetryableError(outcome.Err)
		default:
			lastErr = outcome.Err
			return outcome.Err
		}
	})
	if err == nil {
		return result, nil
	}

	var reqErr *Error
	if errors.As(err, &reqErr) {
		reqErr.Attempts = attempts
		if reqErr.Retryable() {
			return nil, &Error{
				Kind:       KindExhaustedRetries,
				URL:        url,
				StatusCode: reqErr.StatusCode,
				Status:     reqErr.Status,
				Attempts:   attempts,
				Body:       reqErr.Body,
				Cause:      reqErr,
			}
		}
	}
	return nil, err
}
