package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitParam(t *testing.T) {
	assert.Equal(t, "0,20", LimitParam(1, 20))
	assert.Equal(t, "10,10", LimitParam(2, 10))
	assert.Equal(t, "100,50", LimitParam(3, 50))
	assert.Equal(t, "0,20", LimitParam(0, 20), "pages below 1 clamp to the first window")
}

func TestSortToken(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"id_desc", "[id_DESC]", true},
		{"id_asc", "[id_ASC]", true},
		{"price_asc", "[price_ASC]", true},
		{"date_add_desc", "[date_add_DESC]", true},
		{"id_DESC", "", false},
		{"id", "", false},
		{"", "", false},
		{"id_desc; DROP", "", false},
		{"_desc", "", false},
	}
	for _, tt := range tests {
		got, ok := SortToken(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFilterIDs(t *testing.T) {
	assert.Equal(t, "[5]", FilterIDs([]int64{5}))
	assert.Equal(t, "[1|2|3]", FilterIDs([]int64{1, 2, 3}))
}

func TestChunkIDs(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	chunks := ChunkIDs(ids, 2)
	assert.Equal(t, [][]int64{{1, 2}, {3, 4}, {5}}, chunks)
	assert.Nil(t, ChunkIDs(nil, 2))
	assert.Len(t, ChunkIDs(ids, 20), 1)
}
