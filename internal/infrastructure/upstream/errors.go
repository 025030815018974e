package upstream

// probeErrorMessage digs a human-readable message out of an upstream error
// body. The legacy webservice has emitted at least three envelope shapes over
// the years, so each known nesting is probed in order; an empty string means
// none matched and the caller falls back to the HTTP status text.
func probeErrorMessage(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	root := unwrapEnvelope(payload)

	// {"errors": [{"message": "..."} | "..."]}
	if errs, ok := root["errors"]; ok {
		if msg := firstMessage(errs); msg != "" {
			return msg
		}
	}
	// {"error": {"message": "..."}} and XML <error><message>...</message>
	if e, ok := root["error"]; ok {
		if msg := firstMessage(e); msg != "" {
			return msg
		}
	}
	// {"message": "..."}
	if msg, ok := root["message"].(string); ok {
		return msg
	}
	return ""
}

func firstMessage(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		for _, item := range t {
			if msg := firstMessage(item); msg != "" {
				return msg
			}
		}
	case map[string]any:
		if msg, ok := t["message"].(string); ok {
			return msg
		}
		// XML decoding nests one level deeper: <errors><error>...</error></errors>
		if inner, ok := t["error"]; ok {
			return firstMessage(inner)
		}
	}
	return ""
}
