// Package canon renders JSON in RFC 8785 canonical form so that two writes
// of logically-identical data produce bytewise-identical files.
package canon

import (
	"encoding/json"
	"fmt"

	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Marshal encodes v as JSON and then canonicalizes the result. Use this for
// any artifact that must satisfy the bytewise-identical-on-repeat property
// (controller_state.json, handoff.json); plain text artifacts should not go
// through this path.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal: %w", err)
	}
	out, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canon: canonicalize: %w", err)
	}
	return out, nil
}

// MarshalIndent behaves like Marshal but re-indents the canonicalized data
// for human-readable on-disk artifacts. Its output is deterministic, but it
// is not byte-for-byte RFC 8785 apart from whitespace: encoding/json escapes
// the characters <, > and & as Unicode escape sequences, and re-sorts keys
// as noted below.
func MarshalIndent(v any, indent string) ([]byte, error) {
	canonical, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(canonical, &generic); err != nil {
		return nil, fmt.Errorf("canon: reparse canonical form: %w", err)
	}
	// json.MarshalIndent on a map re-sorts keys by their UTF-8 bytes. RFC
	// 8785 orders members by UTF-16 code units; the two orders agree unless
	// keys contain characters above U+FFFF.
	out, err := json.MarshalIndent(generic, "", indent)
	if err != nil {
		return nil, fmt.Errorf("canon: indent: %w", err)
	}
	return out, nil
}
