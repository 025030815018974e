package upstream

// The legacy webservice wraps every payload differently depending on the
// output format: JSON responses may or may not carry the envelope root, list
// containers hold either an array or a single object, and each collection
// names its items in the singular. Normalization flattens all of that into
// []map[string]any before any domain mapping happens.

// envelopeRoot is the wire-level wrapper key used by the legacy webservice.
const envelopeRoot = "prestashop"

// itemNames maps a collection resource to its singular item key inside the
// list container.
var itemNames = map[string]string{
	"categories":                "category",
	"products":                  "product",
	"customers":                 "customer",
	"groups":                    "group",
	"content_management_system": "content",
	"images":                    "image",
	"stock_availables":          "stock_available",
	"addresses":                 "address",
	"manufacturers":             "manufacturer",
}

func itemName(resource string) string {
	if name, ok := itemNames[resource]; ok {
		return name
	}
	// Naive singularization covers unmapped resources.
	if len(resource) > 1 && resource[len(resource)-1] == 's' {
		return resource[:len(resource)-1]
	}
	return resource
}

// unwrapEnvelope strips the wire envelope when present.
func unwrapEnvelope(payload map[string]any) map[string]any {
	if inner, ok := payload[envelopeRoot].(map[string]any); ok {
		return inner
	}
	return payload
}

// ExtractList normalizes a collection response into a slice of item maps.
// An absent or empty container yields an empty slice, never nil access.
func ExtractList(resource string, payload map[string]any) []map[string]any {
	if payload == nil {
		return nil
	}
	root := unwrapEnvelope(payload)
	container, ok := root[resource]
	if !ok {
		return nil
	}
	switch c := container.(type) {
	case []any:
		return toItemMaps(c)
	case map[string]any:
		switch inner := c[itemName(resource)].(type) {
		case []any:
			return toItemMaps(inner)
		case map[string]any:
			return []map[string]any{inner}
		}
		return nil
	default:
		return nil
	}
}

// ExtractItem normalizes a single-entity response. The webservice answers
// by-id GETs with either a singular wrapper or a one-element collection.
func ExtractItem(resource string, payload map[string]any) (map[string]any, bool) {
	if payload == nil {
		return nil, false
	}
	root := unwrapEnvelope(payload)
	if item, ok := root[itemName(resource)].(map[string]any); ok {
		return item, true
	}
	if list := ExtractList(resource, payload); len(list) > 0 {
		return list[0], true
	}
	return nil, false
}

func toItemMaps(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
