package request

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
)

// Descriptor describes one logical request. It is immutable for the
// lifetime of a call; every attempt replays the same method, URL, headers
// and encoded body.
type Descriptor struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully buffered HTTP response
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	Attempts   int
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// OutcomeKind is the classification of a single attempt
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeRetryable
	OutcomeFatal
)

// String returns a label for logs and metrics
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one attempt: exactly one of Response
// (Success) or Err (RetryableFailure / FatalFailure) is meaningful.
type Outcome struct {
	Kind     OutcomeKind
	Response *Response
	Err      error
}

// Classify maps an attempt result onto Success, RetryableFailure or FatalFailure.
//
//	[200,400)  success
//	[400,500)  fatal client error
//	>= 500     retryable server error
//	transport and timeout failures are retryable; parent cancellation is fatal
func Classify(url string, resp *Response, err error) Outcome {
	if err != nil {
		var reqErr *Error
		if errors.As(err, &reqErr) {
			if reqErr.URL == "" {
				reqErr.URL = url
			}
			if reqErr.Retryable() {
				return Outcome{Kind: OutcomeRetryable, Err: reqErr}
			}
			return Outcome{Kind: OutcomeFatal, Err: reqErr}
		}
		// The caller's own context ending is not a network failure
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Outcome{Kind: OutcomeFatal, Err: err}
		}
		return Outcome{Kind: OutcomeRetryable, Err: &Error{Kind: KindTransport, URL: url, Cause: err}}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		return Outcome{Kind: OutcomeSuccess, Response: resp}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Outcome{Kind: OutcomeFatal, Err: &Error{
			Kind:       KindClientError,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.Body,
		}}
	default:
		return Outcome{Kind: OutcomeRetryable, Err: &Error{
			Kind:       KindServerError,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       resp.Body,
		}}
	}
}
