// Package rsc recovers the search payload embedded in a React Server
// Components flight response. The body interleaves framing tokens with JSON
// fragments and is not parseable as a single JSON document, so the payload is
// located by a fixed marker and carved out with a brace-depth scan.
package rsc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Marker is the structural prefix of the payload object within the stream.
// The query field is always serialized first by the upstream framework.
const Marker = `{"query":"`

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrPayloadNotFound reports that the marker is absent from the body. This is
// not a decode failure; it is the expected outcome for unauthenticated
// sessions and for upstream format changes, and callers fall back to a raw
// preview of the body.
var ErrPayloadNotFound = errors.New("payload marker not found in stream body")

// DecodeError reports a located payload that could not be parsed.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode stream payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode stream payload: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Payload is the object carved out of the stream, kept loosely typed so the
// normalizer can apply per-field defaults.
type Payload struct {
	Query     string
	Images    []map[string]any
	UsageData map[string]any
	// Keys lists the payload's top-level field names, sorted, for schema
	// discovery in raw mode.
	Keys []string
}

// Extract locates the payload object in body and returns its exact text span.
// Returns ErrPayloadNotFound when the marker is absent and a *DecodeError
// when the object never closes.
func Extract(body string) (string, error) {
	start := strings.Index(body, Marker)
	if start < 0 {
		return "", ErrPayloadNotFound
	}

	// Single forward pass from the marker. Braces inside string literals do
	// not affect the depth counter; a title containing "}" must not end the
	// scan early.
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(body); i++ {
		c := body[i]
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
				return body[start : i+1], nil
			}
		}
	}
	return "", &DecodeError{Reason: "unbalanced braces, payload object never closes"}
}

// Decode extracts and parses the payload object from body.
func Decode(body string) (*Payload, error) {
	span, err := Extract(body)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.UnmarshalFromString(span, &raw); err != nil {
		return nil, &DecodeError{Reason: "extracted span is not valid JSON", Err: err}
	}

	p := &Payload{}
	if q, ok := raw["query"].(string); ok {
		p.Query = q
	}
	if imgs, ok := raw["images"].([]any); ok {
		for _, el := range imgs {
			if m, ok := el.(map[string]any); ok {
				p.Images = append(p.Images, m)
			} else {
				// Non-object entries still occupy their slot so server
				// ordering is preserved.
				p.Images = append(p.Images, map[string]any{})
			}
		}
	}
	if usage, ok := raw["usageData"].(map[string]any); ok {
		p.UsageData = usage
	}
	for k := range raw {
		p.Keys = append(p.Keys, k)
	}
	sort.Strings(p.Keys)
	return p, nil
}
