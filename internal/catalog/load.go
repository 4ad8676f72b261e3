package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// document is the YAML shape of a catalog file.
type document struct {
	Version int `yaml:"version"`
	Scales  struct {
		First  []choiceDoc `yaml:"first"`
		Second []choiceDoc `yaml:"second"`
	} `yaml:"scales"`
	Topics []topicDoc `yaml:"topics"`
	Second []string   `yaml:"second"`
}

type choiceDoc struct {
	Label  string `yaml:"label"`
	Weight int    `yaml:"weight"`
}

type topicDoc struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	First string `yaml:"first"`
}

// Default returns the catalog embedded in the binary.
// It panics if the embedded document is invalid, which is a build defect.
func Default() *Catalog {
	c, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path yields the default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version %d", doc.Version)
	}

	firstScale := toScale(doc.Scales.First)
	secondScale := toScale(doc.Scales.Second)

	topics := make([]Topic, len(doc.Topics))
	first := make([]Question, len(doc.Topics))
	for i, td := range doc.Topics {
		topics[i] = Topic{ID: i, Key: td.Key, Name: td.Name}
		first[i] = Question{TopicID: i, Prompt: td.First, Scale: firstScale}
	}
	second := make([]Question, len(doc.Second))
	for i, prompt := range doc.Second {
		second[i] = Question{TopicID: Unbound, Prompt: prompt, Scale: secondScale}
	}
	return New(topics, first, second)
}

func toScale(docs []choiceDoc) []Choice {
	scale := make([]Choice, len(docs))
	for i, d := range docs {
		scale[i] = Choice{Label: d.Label, Weight: d.Weight}
	}
	return scale
}
