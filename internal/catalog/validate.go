package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// validate performs all structural checks on a catalog's parts.
// Returns a combined error describing all problems found, or nil if valid.
func validate(topics []Topic, first, second []Question) error {
	var errs []string

	keys := make(map[string]bool, len(topics))
	names := make(map[string]bool, len(topics))
	for i, t := range topics {
		if t.ID != i {
			errs = append(errs, fmt.Sprintf("topic %q has ID %d, want ordinal %d", t.Key, t.ID, i))
		}
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Sprintf("topic %d has empty name", i))
		}
		if t.Key == "" {
			errs = append(errs, fmt.Sprintf("topic %d has empty key", i))
		} else if keys[t.Key] {
			errs = append(errs, fmt.Sprintf("duplicate topic key: %q", t.Key))
		}
		keys[t.Key] = true
		if names[t.Name] {
			errs = append(errs, fmt.Sprintf("duplicate topic name: %q", t.Name))
		}
		names[t.Name] = true
	}

	if len(first) != len(topics) {
		errs = append(errs, fmt.Sprintf("stage-one bank has %d questions for %d topics", len(first), len(topics)))
	}
	for i, q := range first {
		if q.TopicID != i {
			errs = append(errs, fmt.Sprintf("stage-one question %d scores topic %d", i, q.TopicID))
		}
	}
	errs = append(errs, validateBank("stage-one", first)...)
	errs = append(errs, validateBank("stage-two", second)...)

	if len(errs) > 0 {
		return errors.New("invalid catalog:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}

func validateBank(name string, bank []Question) []string {
	var errs []string
	for i, q := range bank {
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, fmt.Sprintf("%s question %d has empty prompt", name, i))
		}
		if len(q.Scale) == 0 {
			errs = append(errs, fmt.Sprintf("%s question %d has empty scale", name, i))
		}
		seen := make(map[int]bool, len(q.Scale))
		for _, c := range q.Scale {
			if seen[c.Weight] {
				errs = append(errs, fmt.Sprintf("%s question %d repeats weight %d", name, i, c.Weight))
			}
			seen[c.Weight] = true
		}
	}
	return errs
}
