package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/clbanning/mxj/v2"
)

// decodeBody parses an upstream body into a generic map. JSON is preferred
// (the client always asks for it via the query injection) but the legacy
// webservice falls back to XML for some error pages and misconfigured
// resources, so both are handled.
func decodeBody(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	switch trimmed[0] {
	case '{':
		var out map[string]any
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		return out, nil
	case '[':
		var arr []any
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		// Bare arrays show up on empty collections ("[]"); re-root them so
		// callers always see a map.
		return map[string]any{"items": arr}, nil
	case '<':
		mv, err := mxj.NewMapXml(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode xml body: %w", err)
		}
		return map[string]any(mv), nil
	default:
		return nil, fmt.Errorf("unrecognized body (starts with %q)", trimmed[0])
	}
}
