package commentary

import "github.com/abhisek/sovbot/internal/llm"

// Schema is the structured output the model must return.
var Schema = &llm.Schema{
	Name:        "result-commentary",
	Description: "Short interpretation of the user's strongest hidden programs",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences on how the programs together shape the user's life",
			},
			"programs": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "Program name exactly as given",
						},
						"influence": map[string]any{
							"type":        "string",
							"description": "One sentence on how this program shows up day to day",
						},
					},
					"required":             []any{"name", "influence"},
					"additionalProperties": false,
				},
			},
			"first_step": map[string]any{
				"type":        "string",
				"description": "One small, concrete first step the user can take this week",
			},
		},
		"required":             []any{"summary", "programs", "first_step"},
		"additionalProperties": false,
	},
}
