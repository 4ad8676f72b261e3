package commentary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/llm"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var ranking = []diagnosis.Ranked{
	{TopicID: 0, Name: "Спасатель", Score: 12},
	{TopicID: 2, Name: "Отличница", Score: 10},
	{TopicID: 5, Name: "Недостойность", Score: 9},
}

const validJSON = `{
	"summary": "Ты привыкла держать всё под контролем.",
	"programs": [
		{"name": "Спасатель", "influence": "Берёшь на себя чужое."},
		{"name": "Выдумка", "influence": "Не из списка."}
	],
	"first_step": "Откажи один раз на этой неделе."
}`

func TestGenerator(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	g := NewGenerator(mock, DefaultGeneratorConfig())

	c, err := g.Generate(context.Background(), Request{SessionID: "s1", FirstName: "Аня", Ranking: ranking})
	require.NoError(t, err)
	assert.Equal(t, "Ты привыкла держать всё под контролем.", c.Summary)
	assert.Equal(t, []Note{{Name: "Спасатель", Influence: "Берёшь на себя чужое."}}, c.Programs,
		"notes for unknown programs are dropped")
	assert.Equal(t, "Откажи один раз на этой неделе.", c.FirstStep)

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Same(t, Schema, reqs[0].Schema)
	assert.Equal(t, systemPrompt, reqs[0].System)
	msg := reqs[0].Messages[0].Content
	assert.Contains(t, msg, "Name: Аня")
	assert.Contains(t, msg, "1. Спасатель: 12\n2. Отличница: 10\n3. Недостойность: 9\n")
}

func TestGeneratorErrors(t *testing.T) {
	t.Run("empty ranking", func(t *testing.T) {
		g := NewGenerator(llm.NewMockProvider(), DefaultGeneratorConfig())
		_, err := g.Generate(context.Background(), Request{})
		assert.Error(t, err)
	})
	t.Run("provider failure", func(t *testing.T) {
		g := NewGenerator(llm.NewMockProvider(), DefaultGeneratorConfig())
		_, err := g.Generate(context.Background(), Request{Ranking: ranking})
		f, ok := llm.FailureOf(err)
		assert.True(t, ok)
		assert.Equal(t, llm.FailureUnavailable, f)
	})
}

func TestBuildMessageWithoutName(t *testing.T) {
	msg, err := buildMessage(Request{Ranking: ranking[:1]})
	require.NoError(t, err)
	assert.False(t, strings.Contains(msg, "Name:"))
	assert.True(t, strings.HasPrefix(msg, "Strongest programs"))
}

func TestServiceDisabled(t *testing.T) {
	s := NewService(nil, DefaultConfig(), zaptest.NewLogger(t))
	assert.False(t, s.Enabled())
	assert.False(t, s.Submit(Request{Ranking: ranking}, nil))
}

func runService(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestServiceDelivers(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.Error{Failure: llm.FailureInvalid, Err: errors.New("bad")}},
		llm.MockResponse{Content: json.RawMessage(validJSON)},
	)
	s := NewService(mock, DefaultConfig(), zaptest.NewLogger(t))
	runService(t, s)

	var (
		mu  sync.Mutex
		got []*Commentary
	)
	deliver := func(_ context.Context, c *Commentary) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
		return nil
	}

	// The first job fails and is skipped; the second is delivered.
	require.True(t, s.Submit(Request{SessionID: "a", Ranking: ranking}, deliver))
	require.True(t, s.Submit(Request{SessionID: "b", Ranking: ranking}, deliver))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, mock.CallCount())
}

func TestServiceQueueFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueSize = 1
	s := NewService(llm.NewMockProvider(), cfg, zaptest.NewLogger(t))

	// Not running, so the queue fills up.
	assert.True(t, s.Submit(Request{Ranking: ranking}, nil))
	assert.False(t, s.Submit(Request{Ranking: ranking}, nil))
}

func TestServiceDeliveryError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validJSON)})
	s := NewService(mock, DefaultConfig(), zaptest.NewLogger(t))
	runService(t, s)

	called := make(chan struct{})
	s.Submit(Request{Ranking: ranking}, func(context.Context, *Commentary) error {
		close(called)
		return errors.New("telegram down")
	})

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("deliver was not called")
	}
}
