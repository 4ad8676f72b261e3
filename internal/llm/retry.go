package llm

import (
	"context"
	"errors"
	"time"
)

// WithRetry wraps p so transient failures are retried according to policy.
// Rate limits, outages and network errors are retried up to
// policy.MaxAttempts in total; an invalid response is retried once and
// truncated output never.
func WithRetry(p Provider, policy RetryConfig) Provider {
	return &retrying{next: p, policy: policy}
}

type retrying struct {
	next   Provider
	policy RetryConfig
}

func (r *retrying) ModelID() string { return r.next.ModelID() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.policy.MaxAttempts, 1)
	invalidSeen := false

	for attempt := 0; ; attempt++ {
		resp, err := r.next.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt+1 >= attempts || !retryable(err, &invalidSeen) {
			return nil, err
		}

		t := time.NewTimer(r.pause(attempt, err))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// pause prefers the provider's Retry-After over the policy backoff.
func (r *retrying) pause(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	return r.policy.Delay(attempt)
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	failure, ok := FailureOf(err)
	if !ok {
		return true
	}
	switch failure {
	case FailureTruncated:
		return false
	case FailureInvalid:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}
