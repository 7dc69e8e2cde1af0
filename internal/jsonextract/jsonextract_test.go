package jsonextract

import (
	"reflect"
	"testing"
)

func TestExtract_WholeString(t *testing.T) {
	got, err := Extract(`{"status":"DONE","n":1}`)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	want := map[string]any{"status": "DONE", "n": float64(1)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_NoisyPrefixAndSuffix(t *testing.T) {
	text := `Sure, here is the result: {"status":"DONE"} Let me know if you need anything else.`
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got["status"] != "DONE" {
		t.Errorf("status = %v, want DONE", got["status"])
	}
}

func TestExtract_FencedCodeBlock(t *testing.T) {
	text := "Here you go:\n```json\n{\"status\": \"DONE\"}\n```\n"
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got["status"] != "DONE" {
		t.Errorf("status = %v, want DONE", got["status"])
	}
}

func TestExtract_NestedBracesWithStringContainingBrace(t *testing.T) {
	text := `{"status": "DONE", "note": "use a { in prose", "nested": {"a": 1}}`
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got["note"] != "use a { in prose" {
		t.Errorf("note = %v", got["note"])
	}
}

func TestExtract_ArrayRootWrapped(t *testing.T) {
	got, err := Extract(`[1,2,3]`)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	items, ok := got["items"].([]any)
	if !ok || len(items) != 3 {
		t.Errorf("items = %v", got["items"])
	}
}

func TestExtract_ScalarRootWrapped(t *testing.T) {
	got, err := Extract(`"just a string"`)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got["value"] != "just a string" {
		t.Errorf("value = %v", got["value"])
	}
}

func TestExtract_NoObjectFound(t *testing.T) {
	_, err := Extract("no json here at all")
	if err != ErrNoObject {
		t.Errorf("err = %v, want ErrNoObject", err)
	}
}

func TestExtract_MultipleTopLevelObjectsPicksFirstParseable(t *testing.T) {
	text := `{"a":1} trailing junk {not json`
	got, err := Extract(text)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if got["a"] != float64(1) {
		t.Errorf("a = %v, want 1", got["a"])
	}
}
