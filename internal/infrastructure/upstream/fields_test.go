package upstream

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsInt64(t *testing.T) {
	tests := []struct {
		in     any
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{float64(7), 7, true},
		{"12.000000", 12, true},
		{" 5 ", 5, true},
		{"", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := AsInt64(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %v", tt.in)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
	}
}

func TestAsBool(t *testing.T) {
	assert.True(t, AsBool("1"))
	assert.True(t, AsBool(float64(1)))
	assert.True(t, AsBool(true))
	assert.False(t, AsBool("0"))
	assert.False(t, AsBool(""))
	assert.False(t, AsBool(nil))
	assert.False(t, AsBool("yes"))
}

func TestAsDecimal(t *testing.T) {
	d := AsDecimal("19.900000")
	require.NotNil(t, d)
	assert.True(t, d.Equal(decimal.RequireFromString("19.9")))

	assert.Nil(t, AsDecimal(""))
	assert.Nil(t, AsDecimal(nil))
	assert.Nil(t, AsDecimal("free"))

	f := AsDecimal(float64(5.5))
	require.NotNil(t, f)
	assert.True(t, f.Equal(decimal.RequireFromString("5.5")))
}

func TestLocalizedValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain string", "Hand tools", "Hand tools"},
		{
			"single language object",
			map[string]any{"language": map[string]any{"#text": "Verktyg"}},
			"Verktyg",
		},
		{
			"language array picks first",
			map[string]any{"language": []any{
				map[string]any{"#text": "Greek", "@id": "2"},
				map[string]any{"#text": "English", "@id": "1"},
			}},
			"Greek",
		},
		{
			"value key variant",
			map[string]any{"language": map[string]any{"value": "Anchors"}},
			"Anchors",
		},
		{"bare language string", map[string]any{"language": "Bolts"}, "Bolts"},
		{"missing language key", map[string]any{"other": "x"}, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalizedValue(tt.in))
		})
	}
}

func TestResourceID(t *testing.T) {
	id, ok := ResourceID(map[string]any{"id": "15"})
	assert.True(t, ok)
	assert.Equal(t, int64(15), id)

	id, ok = ResourceID("9")
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	_, ok = ResourceID(nil)
	assert.False(t, ok)
}
