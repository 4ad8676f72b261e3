// Package llm is the provider-neutral client used to generate result
// commentary. Providers return JSON conforming to a request schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate returns the model output for req. With a Schema the output is
	// JSON that has already been validated.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model identifier, not the configured alias.
	ModelID() string
}

// Role is the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Schema names a JSON Schema document the output must satisfy. Name keys
// the compiled form, so two schemas must not share one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Request is a single completion request.
type Request struct {
	System   string
	Messages []Message

	// Schema switches the provider to structured output. Without it Content
	// holds plain text.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 keeps the provider default
}

// Response is a successful completion.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Usage is the token accounting of one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// complete turns raw provider output into a Response. Truncated output is
// an error only when a schema was requested.
func complete(provider string, req Request, content json.RawMessage, truncated bool, model string, usage Usage) (*Response, error) {
	if truncated && req.Schema != nil {
		return nil, &Error{Failure: FailureTruncated, Provider: provider, Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		if e, ok := err.(*Error); ok {
			e.Provider = provider
		}
		return nil, err
	}
	stop := StopEnd
	if truncated {
		stop = StopMaxTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

type purposeKey struct{}

// WithPurpose tags the calls made with ctx for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
