package upstream

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The legacy webservice is loosely typed: numbers arrive as strings, flags
// as "0"/"1", and localized fields either as plain strings or as nested
// language envelopes. The helpers below coerce all observed shapes.

// AsString renders any scalar as its string form. Maps and slices yield "".
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// AsInt64 parses ids and counts that may arrive as JSON numbers or strings.
func AsInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			// "12.000000" style decimals show up on quantity fields.
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	default:
		return 0, false
	}
}

// AsBool interprets the webservice truthiness convention: "1", 1 and true
// are set, everything else is not.
func AsBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t == 1
	case string:
		return strings.TrimSpace(t) == "1"
	default:
		return false
	}
}

// AsDecimal parses monetary fields, tolerating both string and numeric
// encodings. Returns nil when absent or unparseable.
func AsDecimal(v any) *decimal.Decimal {
	var s string
	switch t := v.(type) {
	case float64:
		d := decimal.NewFromFloat(t)
		return &d
	case string:
		s = strings.TrimSpace(t)
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// LocalizedValue unwraps a possibly language-indexed field. Observed shapes:
//
//	"plain text"
//	{"language": {"#text": "..."}}
//	{"language": [{"#text": "...", "@id": "2"}, ...]}
//	{"language": {"value": "..."}}
//
// When several language entries are present the first one wins; the client
// already pins the language via the query injection, so upstream rarely
// returns more than one.
func LocalizedValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		lang, ok := t["language"]
		if !ok {
			return ""
		}
		return languageText(lang)
	default:
		return AsString(v)
	}
}

func languageText(lang any) string {
	switch l := lang.(type) {
	case string:
		return l
	case []any:
		if len(l) == 0 {
			return ""
		}
		return languageText(l[0])
	case map[string]any:
		for _, key := range []string{"#text", "value", "_"} {
			if s, ok := l[key].(string); ok {
				return s
			}
		}
		return ""
	default:
		return AsString(lang)
	}
}

// ResourceID digs the id out of an association entry, which arrives either
// as {"id": "5"} or as a bare scalar.
func ResourceID(v any) (int64, bool) {
	if m, ok := v.(map[string]any); ok {
		return AsInt64(m["id"])
	}
	return AsInt64(v)
}
