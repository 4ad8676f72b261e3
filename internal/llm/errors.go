package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Failure classifies a provider error.
type Failure int

const (
	// FailureUnavailable covers outages, network errors and any status the
	// other kinds do not.
	FailureUnavailable Failure = iota
	FailureRateLimited
	// FailureInvalid means the output did not satisfy the request schema.
	FailureInvalid
	// FailureTruncated means structured output stopped at MaxTokens.
	FailureTruncated
)

func (f Failure) String() string {
	switch f {
	case FailureRateLimited:
		return "rate limited"
	case FailureInvalid:
		return "invalid response"
	case FailureTruncated:
		return "truncated at max tokens"
	default:
		return "provider unavailable"
	}
}

// Error is the error type of every provider in this package.
type Error struct {
	Failure  Failure
	Provider string

	// RetryAfter is the server-requested pause for FailureRateLimited.
	RetryAfter time.Duration

	// Content is the rejected output for FailureInvalid and FailureTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("llm")
	if e.Provider != "" {
		b.WriteString(": ")
		b.WriteString(e.Provider)
	}
	b.WriteString(": ")
	b.WriteString(e.Failure.String())
	if e.RetryAfter > 0 {
		fmt.Fprintf(&b, " (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// FailureOf reports the classification of err when it wraps an *Error.
func FailureOf(err error) (Failure, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Failure, true
}

func invalid(content json.RawMessage, err error) *Error {
	return &Error{Failure: FailureInvalid, Content: content, Err: err}
}

// statusError maps an HTTP status from a provider API.
func statusError(provider string, status int, header http.Header, err error) *Error {
	e := &Error{Failure: FailureUnavailable, Provider: provider, Err: err}
	if status == http.StatusTooManyRequests {
		e.Failure = FailureRateLimited
		e.RetryAfter = retryAfter(header)
	}
	return e
}

// retryAfter reads a Retry-After header given in seconds. Dates are ignored.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
