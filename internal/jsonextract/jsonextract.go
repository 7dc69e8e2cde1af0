// Package jsonextract pulls a single well-formed JSON object out of
// possibly-noisy assistant text, trying a whole-string parse, then a
// brace-depth-aware substring scan, then a fenced-code-block extraction.
package jsonextract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencePattern matches a fenced code block with an optional language tag,
// capturing its inner content.
var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\s*\\n?(.*?)```")

// ErrNoObject is returned when no JSON object could be extracted by any of
// the three strategies.
var ErrNoObject = fmt.Errorf("jsonextract: no JSON object found")

// Extract runs the extraction pipeline against text and returns a
// normalized JSON object (array roots wrapped under "items", scalar roots
// under "value").
func Extract(text string) (map[string]any, error) {
	if v, ok := tryParse(text); ok {
		return normalize(v), nil
	}

	if v, ok := tryBraceScan(text); ok {
		return normalize(v), nil
	}

	if inner, ok := extractFence(text); ok {
		if v, ok := tryParse(inner); ok {
			return normalize(v), nil
		}
		if v, ok := tryBraceScan(inner); ok {
			return normalize(v), nil
		}
	}

	return nil, ErrNoObject
}

// tryParse attempts a whole-string JSON parse.
func tryParse(text string) (any, bool) {
	var v any
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, false
	}
	return v, true
}

// tryBraceScan locates the first '{' and scans forward tracking brace
// depth with string/escape awareness, trying the first matching '}' and
// falling back to the last matching '}' if that substring fails to parse.
func tryBraceScan(text string) (any, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return nil, false
	}

	type candidate struct{ end int }
	var candidates []candidate

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidates = append(candidates, candidate{end: i})
			}
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	first := candidates[0]
	if v, ok := tryParse(text[start : first.end+1]); ok {
		return v, true
	}
	last := candidates[len(candidates)-1]
	if v, ok := tryParse(text[start : last.end+1]); ok {
		return v, true
	}
	return nil, false
}

// extractFence returns the inner content of the first fenced code block,
// if any.
func extractFence(text string) (string, bool) {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// normalize ensures the returned value is a JSON object: arrays are
// wrapped as {"items": <array>}, scalars as {"value": <scalar>}.
func normalize(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case []any:
		return map[string]any{"items": t}
	default:
		return map[string]any{"value": t}
	}
}
