package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}
}

func failWith(f Failure) MockResponse {
	return MockResponse{Err: &Error{Failure: f, Err: errors.New(f.String())}}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		failWith(FailureUnavailable),
		failWith(FailureRateLimited),
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if n := mock.CallCount(); n != 3 {
		t.Fatalf("calls = %d, want 3", n)
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(
		failWith(FailureUnavailable), failWith(FailureUnavailable),
		failWith(FailureUnavailable), failWith(FailureUnavailable),
	)
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	if f, ok := FailureOf(err); !ok || f != FailureUnavailable {
		t.Fatalf("err = %v, want unavailable", err)
	}
	if n := mock.CallCount(); n != 3 {
		t.Fatalf("calls = %d, want 3", n)
	}
}

func TestRetry_PlainErrorsAreRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: errors.New("connection reset")},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	if _, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := mock.CallCount(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestRetry_NotRetried(t *testing.T) {
	tests := map[string]error{
		"truncated": &Error{Failure: FailureTruncated, Content: json.RawMessage(`{"summ`)},
		"canceled":  context.Canceled,
		"deadline":  fmt.Errorf("call: %w", context.DeadlineExceeded),
	}
	for name, failure := range tests {
		t.Run(name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: failure}, MockResponse{Content: json.RawMessage(`{}`)})
			if _, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{}); err == nil {
				t.Fatal("expected error")
			}
			if n := mock.CallCount(); n != 1 {
				t.Fatalf("calls = %d, want 1", n)
			}
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	mock := NewMockProvider(
		failWith(FailureInvalid),
		failWith(FailureInvalid),
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	if f, _ := FailureOf(err); f != FailureInvalid {
		t.Fatalf("err = %v, want invalid response", err)
	}
	if n := mock.CallCount(); n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	mock := NewMockProvider(failWith(FailureUnavailable), MockResponse{Content: json.RawMessage(`{}`)})
	policy := fastRetry()
	policy.InitialWait = time.Hour
	policy.MaxWait = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := WithRetry(mock, policy).Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRetryPause(t *testing.T) {
	r := &retrying{policy: RetryConfig{
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}}

	limited := &Error{Failure: FailureRateLimited, RetryAfter: 7 * time.Second}
	if got := r.pause(0, limited); got != 7*time.Second {
		t.Fatalf("Retry-After ignored: %s", got)
	}
	for attempt, base := range []time.Duration{100, 200, 300, 300} {
		base *= time.Millisecond
		got := r.pause(attempt, errors.New("x"))
		if lo, hi := base*8/10, base*12/10; got < lo || got > hi {
			t.Errorf("attempt %d: pause %s outside [%s, %s]", attempt, got, lo, hi)
		}
	}
}
