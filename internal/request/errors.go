package request

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a call failed
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindTransport
	KindClientError
	KindServerError
	KindExhaustedRetries
)

// String returns the taxonomy name used in logs and metric labels
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindClientError:
		return "client_error"
	case KindServerError:
		return "server_error"
	case KindExhaustedRetries:
		return "exhausted_retries"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is matching against an *Error
var (
	// ErrTimeout indicates an attempt did not finish before its deadline
	ErrTimeout = errors.New("request timeout")

	// ErrTransport indicates the network round-trip itself failed (DNS, refused, reset)
	ErrTransport = errors.New("transport failure")

	// ErrClientError indicates a 4xx response; never retried
	ErrClientError = errors.New("client error")

	// ErrServerError indicates a 5xx response
	ErrServerError = errors.New("server error")

	// ErrExhaustedRetries indicates the retry budget was spent
	ErrExhaustedRetries = errors.New("retries exhausted")
)

// Error is the typed failure returned by Client.Call.
// For KindExhaustedRetries, Cause holds the last attempt's *Error.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Status     string
	Attempts   int
	Body       []byte
	Cause      error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindClientError:
		return fmt.Sprintf("Client error: %s", e.statusText())
	case KindServerError:
		return fmt.Sprintf("Server error: %s", e.statusText())
	case KindTimeout:
		return "Request timeout"
	case KindTransport:
		if e.Cause != nil {
			return fmt.Sprintf("transport failure: %v", e.Cause)
		}
		return "transport failure"
	case KindExhaustedRetries:
		if e.Cause != nil {
			return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Cause)
		}
		return fmt.Sprintf("gave up after %d attempts", e.Attempts)
	default:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return "request failed"
	}
}

func (e *Error) statusText() string {
	status := strings.TrimSpace(e.Status)
	if status == "" {
		return fmt.Sprintf("%d", e.StatusCode)
	}
	// net/http Status already carries the code ("404 Not Found")
	if strings.HasPrefix(status, fmt.Sprintf("%d", e.StatusCode)) {
		return status
	}
	return fmt.Sprintf("%d %s", e.StatusCode, status)
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for this error's Kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrClientError:
		return e.Kind == KindClientError
	case ErrServerError:
		return e.Kind == KindServerError
	case ErrExhaustedRetries:
		return e.Kind == KindExhaustedRetries
	}
	return false
}

// Retryable reports whether the failure kind may be retried
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindTransport, KindServerError:
		return true
	default:
		return false
	}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode returns the HTTP status carried by err (last attempt for exhausted calls), or 0
func StatusCode(err error) int {
	var e *Error
	for errors.As(err, &e) {
		if e.StatusCode != 0 {
			return e.StatusCode
		}
		if e.Cause == nil {
			return 0
		}
		err = e.Cause
		e = nil
	}
	return 0
}
