// Package schemavalidate optionally validates an extracted payload against
// a role's schema_hint, when that hint is itself a JSON-schema document
// rather than free-text guidance.
package schemavalidate

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Cache compiles each role's schema_hint at most once per run and reuses
// the compiled schema for every turn on that role.
type Cache struct {
	mu      sync.Mutex
	schemas map[string]*jsonschema.Schema
}

// NewCache constructs an empty schema cache.
func NewCache() *Cache {
	return &Cache{schemas: make(map[string]*jsonschema.Schema)}
}

// LooksLikeSchema reports whether hint parses as a JSON object carrying a
// "$schema" or "type" key — the signal that it is a JSON-schema document
// rather than prose guidance for the assistant.
func LooksLikeSchema(hint string) bool {
	var generic map[string]any
	if err := json.Unmarshal([]byte(hint), &generic); err != nil {
		return false
	}
	_, hasSchemaKey := generic["$schema"]
	_, hasTypeKey := generic["type"]
	return hasSchemaKey || hasTypeKey
}

// Validate compiles (once, cached by roleName) and validates payload
// against the role's schema_hint. Returns nil when the hint is not a
// schema document — the common case of plain-prose guidance.
func (c *Cache) Validate(roleName, schemaHint string, payload map[string]any) error {
	if !LooksLikeSchema(schemaHint) {
		return nil
	}

	schema, err := c.compile(roleName, schemaHint)
	if err != nil {
		return fmt.Errorf("schemavalidate: compile schema for role %q: %w", roleName, err)
	}

	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("schemavalidate: payload for role %q: %w", roleName, err)
	}
	return nil
}

func (c *Cache) compile(roleName, schemaHint string) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if schema, ok := c.schemas[roleName]; ok {
		return schema, nil
	}

	compiler := jsonschema.NewCompiler()
	url := "mem://" + roleName + "/schema.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaHint)); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, err
	}
	c.schemas[roleName] = schema
	return schema, nil
}
