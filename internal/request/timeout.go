package request

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single attempt
const DefaultTimeout = 10 * time.Second

// AttemptFunc performs one network attempt. It must honor ctx: when ctx is
// cancelled the underlying transport is expected to abort.
type AttemptFunc func(ctx context.Context) (*Response, error)

// WithTimeout runs attempt under a deadline of d. Exactly one timer is armed
// per call and it is released on every return path. When the deadline fires
// first, the attempt's context is cancelled (aborting the transport) and a
// KindTimeout error is returned. Cancellation of the parent context is
// returned unchanged so callers can tell the two apart.
func WithTimeout(ctx context.Context, d time.Duration, attempt AttemptFunc) (*Response, error) {
	if d <= 0 {
		d = DefaultTimeout
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	resp, err := attempt(attemptCtx)
	if err == nil {
		return resp, nil
	}

	if parentErr := ctx.Err(); parentErr != nil {
		return nil, parentErr
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return nil, &Error{Kind: KindTimeout, Cause: err}
	}
	return nil, err
}
