package upstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestExtractList(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		body     string
		wantIDs  []string
	}{
		{
			name:     "bare array container",
			resource: "categories",
			body:     `{"categories": [{"id": "1"}, {"id": "2"}]}`,
			wantIDs:  []string{"1", "2"},
		},
		{
			name:     "enveloped singular item list",
			resource: "categories",
			body:     `{"prestashop": {"categories": {"category": [{"id": "3"}, {"id": "4"}]}}}`,
			wantIDs:  []string{"3", "4"},
		},
		{
			name:     "single object collapses to one-element list",
			resource: "products",
			body:     `{"prestashop": {"products": {"product": {"id": "9"}}}}`,
			wantIDs:  []string{"9"},
		},
		{
			name:     "empty container",
			resource: "products",
			body:     `{"products": []}`,
			wantIDs:  []string{},
		},
		{
			name:     "missing container",
			resource: "groups",
			body:     `{}`,
			wantIDs:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ExtractList(tt.resource, decodeJSON(t, tt.body))
			ids := make([]string, 0, len(items))
			for _, item := range items {
				ids = append(ids, AsString(item["id"]))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestExtractItem(t *testing.T) {
	t.Run("singular wrapper", func(t *testing.T) {
		item, ok := ExtractItem("products", decodeJSON(t, `{"product": {"id": "7", "reference": "SKU-7"}}`))
		require.True(t, ok)
		assert.Equal(t, "SKU-7", AsString(item["reference"]))
	})

	t.Run("enveloped singular wrapper", func(t *testing.T) {
		item, ok := ExtractItem("customers", decodeJSON(t, `{"prestashop": {"customer": {"id": "12"}}}`))
		require.True(t, ok)
		assert.Equal(t, "12", AsString(item["id"]))
	})

	t.Run("one-element collection", func(t *testing.T) {
		item, ok := ExtractItem("customers", decodeJSON(t, `{"customers": [{"id": "3"}]}`))
		require.True(t, ok)
		assert.Equal(t, "3", AsString(item["id"]))
	})

	t.Run("empty payload", func(t *testing.T) {
		_, ok := ExtractItem("customers", decodeJSON(t, `{"customers": []}`))
		assert.False(t, ok)
	})
}

func TestItemNameFallback(t *testing.T) {
	assert.Equal(t, "content", itemName("content_management_system"))
	assert.Equal(t, "stock_available", itemName("stock_availables"))
	assert.Equal(t, "widget", itemName("widgets"))
}
