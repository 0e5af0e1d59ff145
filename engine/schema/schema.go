package schema

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"

	"github.com/agentforge/agentforge/engine/core"
)

// -----------------------------------------------------------------------------
// Schema
// -----------------------------------------------------------------------------

// Schema is a JSON-schema document as discovered from a live integration.
// The configuration author never writes one by hand; the harness attaches
// them to skills after introspection.
type Schema map[string]any

func (s *Schema) String() string {
	bytes, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(bytes)
}

func (s *Schema) Compile() (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiled, err := compiler.Compile(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return compiled, nil
}

// Validate checks value against the schema. A nil schema accepts everything.
func (s *Schema) Validate(value any) error {
	compiled, err := s.Compile()
	if err != nil {
		return err
	}
	if compiled == nil {
		return nil
	}
	result := compiled.Validate(value)
	if result.Valid {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

// Equal reports structural equality between two schemas: order-insensitive
// over object members, order-sensitive over arrays. A nil schema only equals
// another nil schema.
func Equal(a, b *Schema) bool {
	aAbsent := a == nil || *a == nil
	bAbsent := b == nil || *b == nil
	if aAbsent || bAbsent {
		return aAbsent == bAbsent
	}
	return core.Equal(map[string]any(*a), map[string]any(*b))
}
