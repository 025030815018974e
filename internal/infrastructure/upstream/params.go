package upstream

import (
	"fmt"
	"regexp"
	"strings"
)

// LimitParam renders a 1-based page into the webservice "offset,count"
// window, e.g. page 1 size 20 -> "0,20", page 2 size 10 -> "10,10".
func LimitParam(page, pageSize int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("%d,%d", (page-1)*pageSize, pageSize)
}

var sortTokenRe = regexp.MustCompile(`^([a-z][a-z0-9_]*)_(asc|desc)$`)

// SortToken translates the public "field_dir" sort syntax into the
// webservice "[field_DIR]" token, e.g. "id_desc" -> "[id_DESC]". Malformed
// input yields ok=false and the caller omits the sort parameter entirely.
func SortToken(sort string) (string, bool) {
	m := sortTokenRe.FindStringSubmatch(strings.TrimSpace(sort))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("[%s_%s]", m[1], strings.ToUpper(m[2])), true
}

// FilterIDs renders a set of ids as the multi-value filter syntax
// "[1|2|3]". A single id renders without the separator as "[1]".
func FilterIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "[" + strings.Join(parts, "|") + "]"
}

// ChunkIDs splits ids into batches of at most size, preserving order.
func ChunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	chunks := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
