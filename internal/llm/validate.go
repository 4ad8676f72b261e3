package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds every Schema compiled so far, keyed by Schema.Name.
var compiledSchemas = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: make(map[string]*jsonschema.Schema)}

// validateResponse checks raw against schema and reports a mismatch as a
// FailureInvalid *Error carrying raw. A nil schema accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	compiled, err := compile(schema)
	if err != nil {
		return invalid(raw, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(raw, fmt.Errorf("decode output: %w", err))
	}
	if err := compiled.Validate(doc); err != nil {
		return invalid(raw, err)
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	compiledSchemas.Lock()
	defer compiledSchemas.Unlock()

	if s, ok := compiledSchemas.byName[schema.Name]; ok {
		return s, nil
	}

	// Round-trip through JSON so typed Go slices in Definition become the
	// generic values the compiler expects.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", schema.Name, err)
	}

	loc := "schema://sovbot/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("schema %s: %w", schema.Name, err)
	}
	s, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", schema.Name, err)
	}
	compiledSchemas.byName[schema.Name] = s
	return s, nil
}
