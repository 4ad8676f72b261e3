package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/sovbot/internal/store"
)

func TestLoggingRecordsRequests(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	repo := st.EventRepo()

	mock := NewMockProvider(
		MockResponse{
			Content: json.RawMessage(`{"summary":"ok"}`),
			Usage:   Usage{InputTokens: 12, OutputTokens: 5, TotalTokens: 17},
		},
		MockResponse{Err: &Error{Failure: FailureRateLimited, Provider: ProviderMock, Err: errors.New("429")}},
	)
	p := WithLogging(mock, ProviderMock, repo, zaptest.NewLogger(t))

	ctx := WithPurpose(context.Background(), "commentary")
	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   noteSchema,
	}
	_, err = p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	byOK := map[bool]store.LLMEvent{}
	for _, ev := range events {
		byOK[ev.Success] = ev
	}
	ok, failed := byOK[true], byOK[false]

	assert.Equal(t, "commentary", ok.Purpose)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, 12, ok.InputTokens)
	assert.Equal(t, 5, ok.OutputTokens)
	assert.Equal(t, `{"summary":"ok"}`, ok.ResponseBody)
	assert.Contains(t, ok.RequestBody, "[system]\nsys")
	assert.Contains(t, ok.RequestBody, "[user]\nhello")
	assert.Contains(t, ok.RequestBody, "[schema: test-note]")

	assert.Contains(t, failed.ErrorMessage, "rate limited")
	assert.Empty(t, failed.ResponseBody)
}

func TestLoggingSurvivesCanceledContext(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	repo := st.EventRepo()

	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), ProviderMock, repo, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Generate(ctx, Request{})
	require.NoError(t, err)

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
