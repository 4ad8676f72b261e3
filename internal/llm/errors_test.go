package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Failure:    FailureRateLimited,
		Provider:   ProviderGemini,
		RetryAfter: 2 * time.Second,
		Err:        errors.New("quota"),
	}
	assert.Equal(t, "llm: gemini: rate limited (retry after 2s): quota", err.Error())
	assert.Equal(t, "llm: provider unavailable", (&Error{}).Error())
}

func TestFailureOf(t *testing.T) {
	wrapped := fmt.Errorf("commentary: %w", &Error{Failure: FailureTruncated})
	f, ok := FailureOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, FailureTruncated, f)

	_, ok = FailureOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestStatusError(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "12")

	limited := statusError(ProviderAnthropic, http.StatusTooManyRequests, h, errors.New("429"))
	assert.Equal(t, FailureRateLimited, limited.Failure)
	assert.Equal(t, 12*time.Second, limited.RetryAfter)

	down := statusError(ProviderAnthropic, http.StatusBadGateway, h, errors.New("502"))
	assert.Equal(t, FailureUnavailable, down.Failure)
	assert.Zero(t, down.RetryAfter)

	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, statusError("", http.StatusTooManyRequests, h, nil).RetryAfter)
	assert.Zero(t, statusError("", http.StatusTooManyRequests, nil, nil).RetryAfter)
}

func TestComplete(t *testing.T) {
	req := Request{Schema: noteSchema}

	_, err := complete(ProviderOpenAI, req, []byte(`{"summary":"o`), true, "gpt-4o-mini", Usage{})
	f, _ := FailureOf(err)
	assert.Equal(t, FailureTruncated, f)

	_, err = complete(ProviderOpenAI, req, []byte(`{"tips":[]}`), false, "gpt-4o-mini", Usage{})
	var e *Error
	if assert.ErrorAs(t, err, &e) {
		assert.Equal(t, FailureInvalid, e.Failure)
		assert.Equal(t, ProviderOpenAI, e.Provider)
	}

	resp, err := complete(ProviderOpenAI, Request{}, []byte("long text"), true, "gpt-4o-mini", Usage{TotalTokens: 9})
	assert.NoError(t, err)
	assert.Equal(t, StopMaxTokens, resp.StopReason)
	assert.Equal(t, 9, resp.Usage.TotalTokens)
}
