package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/sovbot/internal/store"
)

// WithLogging records every call made through p in repo and logs it at
// debug level. Recording failures are logged and otherwise ignored.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger *zap.Logger) Provider {
	return &recorder{next: p, name: providerName, repo: repo, logger: logger.Named("llm")}
}

type recorder struct {
	next   Provider
	name   string
	repo   store.EventRepo
	logger *zap.Logger
}

func (r *recorder) ModelID() string { return r.next.ModelID() }

func (r *recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.next.Generate(ctx, req)
	r.record(ctx, req, resp, err, time.Since(start))
	return resp, err
}

func (r *recorder) record(ctx context.Context, req Request, resp *Response, callErr error, took time.Duration) {
	ev := store.LLMRequestEventData{
		Provider:    r.name,
		Model:       r.next.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   took.Milliseconds(),
		Success:     callErr == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Duration("took", took),
		zap.Int("tokens", ev.InputTokens+ev.OutputTokens),
	}
	if callErr != nil {
		ev.ErrorMessage = callErr.Error()
		fields = append(fields, zap.Error(callErr))
	}
	r.logger.Debug("llm call", fields...)

	// The event outlives a canceled request.
	if err := r.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); err != nil {
		r.logger.Warn("llm event not recorded", zap.Error(err))
	}
}

// transcript is the human-readable prompt shown by "sovbot llm view".
func transcript(req Request) string {
	var b strings.Builder
	section := func(title, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", title, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			def = []byte(err.Error())
		}
		section("schema: "+req.Schema.Name, string(def))
	}
	return b.String()
}
