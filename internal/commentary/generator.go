package commentary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"text/template"

	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/llm"
)

// Purpose labels commentary calls in the LLM event log.
const Purpose = "result-commentary"

// GeneratorConfig holds the sampling settings for commentary requests.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultGeneratorConfig returns the settings used by the bot.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   700,
		Temperature: 0.6,
	}
}

// Generator asks an LLM to interpret a final ranking.
type Generator struct {
	provider llm.Provider
	cfg      GeneratorConfig
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.Provider, cfg GeneratorConfig) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// Request is a completed diagnosis to comment on.
type Request struct {
	SessionID string
	FirstName string
	Ranking   []diagnosis.Ranked
}

// Note is the commentary on one program.
type Note struct {
	Name      string `json:"name"`
	Influence string `json:"influence"`
}

// Commentary is the model's interpretation of a result.
type Commentary struct {
	Summary   string `json:"summary"`
	Programs  []Note `json:"programs"`
	FirstStep string `json:"first_step"`
}

// Generate requests commentary for req. Notes about programs that are not in
// the ranking are dropped.
func (g *Generator) Generate(ctx context.Context, req Request) (*Commentary, error) {
	if len(req.Ranking) == 0 {
		return nil, fmt.Errorf("commentary: empty ranking")
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	userMsg, err := buildMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build commentary prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      Schema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate commentary: %w", err)
	}

	var c Commentary
	if err := json.Unmarshal(resp.Content, &c); err != nil {
		return nil, fmt.Errorf("parse commentary: %w", err)
	}
	c.Programs = slices.DeleteFunc(c.Programs, func(n Note) bool {
		return !slices.ContainsFunc(req.Ranking, func(r diagnosis.Ranked) bool { return r.Name == n.Name })
	})
	return &c, nil
}

const systemPrompt = `You are a warm, grounded coach. A user has just finished a self-reflection questionnaire about hidden behavioral "programs" (recurring patterns such as people-pleasing or perfectionism). You receive their strongest programs with scores.

Instructions:
- Answer in Russian, addressing the user informally ("ты").
- Describe patterns, never diagnose. Do not mention illness, therapy or medication.
- Use the program names exactly as given.
- Keep every field short: the whole answer must fit in one chat message.`

var userTemplate = template.Must(template.New("commentary").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`{{if .FirstName}}Name: {{.FirstName}}
{{end}}Strongest programs (higher score is stronger):
{{range $i, $r := .Ranking}}{{inc $i}}. {{$r.Name}}: {{$r.Score}}
{{end}}`))

func buildMessage(req Request) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
