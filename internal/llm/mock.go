package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply of a MockProvider. A non-nil Err is
// returned instead of a response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and keeps every request it
// receives. Once the script is used up each call fails as unavailable, so
// the "mock" provider setting never produces commentary.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	seen   []Request
}

// NewMockProvider returns a MockProvider that will reply with script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) ModelID() string { return ProviderMock }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen = append(m.seen, req)
	if len(m.script) == 0 {
		return nil, &Error{Failure: FailureUnavailable, Provider: ProviderMock}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: ProviderMock, StopReason: StopEnd}, nil
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.seen)
}

// Requests returns the requests received so far, oldest first.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.seen...)
}
