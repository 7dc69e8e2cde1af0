package schemavalidate

import "testing"

func TestLooksLikeSchema_True(t *testing.T) {
	if !LooksLikeSchema(`{"$schema": "http://json-schema.org/draft-07/schema#", "type": "object"}`) {
		t.Error("expected true for a document carrying $schema")
	}
}

func TestLooksLikeSchema_False(t *testing.T) {
	if LooksLikeSchema("Return a JSON object with a status field.") {
		t.Error("expected false for prose guidance")
	}
}

func TestValidate_NoOpWhenHintIsProse(t *testing.T) {
	c := NewCache()
	err := c.Validate("planner", "Respond with a status field.", map[string]any{"anything": 1})
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_AcceptsConformingPayload(t *testing.T) {
	c := NewCache()
	schema := `{
		"type": "object",
		"required": ["status"],
		"properties": {"status": {"type": "string"}}
	}`
	err := c.Validate("implementer", schema, map[string]any{"status": "DONE"})
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_RejectsNonConformingPayload(t *testing.T) {
	c := NewCache()
	schema := `{
		"type": "object",
		"required": ["status"],
		"properties": {"status": {"type": "string"}}
	}`
	err := c.Validate("implementer", schema, map[string]any{"no_status": true})
	if err == nil {
		t.Error("expected validation error for missing required field")
	}
}

func TestValidate_CachesCompiledSchemaPerRole(t *testing.T) {
	c := NewCache()
	schema := `{"type": "object"}`
	if err := c.Validate("role-a", schema, map[string]any{}); err != nil {
		t.Fatalf("first Validate() error: %v", err)
	}
	if _, ok := c.schemas["role-a"]; !ok {
		t.Error("expected compiled schema to be cached under role name")
	}
	if err := c.Validate("role-a", schema, map[string]any{}); err != nil {
		t.Fatalf("second Validate() error: %v", err)
	}
}
