package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var noteSchema = &Schema{
	Name: "test-note",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "minLength": 1},
			"tips": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required":             []string{"summary"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"nil schema accepts text", nil, "plain text", false},
		{"valid", noteSchema, `{"summary":"ok","tips":["a"]}`, false},
		{"not json", noteSchema, `{"summary":`, true},
		{"missing required", noteSchema, `{"tips":[]}`, true},
		{"wrong type", noteSchema, `{"summary":3}`, true},
		{"extra field", noteSchema, `{"summary":"ok","x":1}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var inv *Error
			if !errors.As(err, &inv) || inv.Failure != FailureInvalid {
				t.Fatalf("expected invalid response, got %v", err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("content not preserved: %s", inv.Content)
			}
		})
	}
}
