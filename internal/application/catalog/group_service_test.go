package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
)

type stubCounter struct {
	counts map[int64]int
	err    error
	calls  []int64
}

func (s *stubCounter) GroupMembersCount(_ context.Context, _ shop.Context, groupID int64) (int, error) {
	s.calls = append(s.calls, groupID)
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[groupID], nil
}

func TestGroupListEnrichesMemberCounts(t *testing.T) {
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"groups": [
			{"id": "3", "name": "Wholesale", "reduction": "12.50", "show_prices": "1", "date_add": "2021-03-01 10:00:00"},
			{"id": "4", "name": "Retail", "reduction": "0.00", "show_prices": "0"}
		]}`)
	}))
	counter := &stubCounter{counts: map[int64]int{3: 217, 4: 12}}
	svc := NewGroupService(factory, testCache(t), time.Minute, counter, nil)

	page, err := svc.List(context.Background(), shop.NewContext(4, nil), ListQuery{Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	wholesale := page.Items[0]
	assert.Equal(t, "Wholesale", wholesale.Name)
	assert.Equal(t, 217, wholesale.Members)
	assert.True(t, wholesale.ShowPrices)
	require.NotNil(t, wholesale.DiscountPercent)
	assert.Equal(t, "12.5", wholesale.DiscountPercent.String())
	require.NotNil(t, wholesale.CreationDate)
	assert.Equal(t, "2021-03-01 10:00:00", *wholesale.CreationDate)

	assert.Equal(t, 12, page.Items[1].Members)
	assert.Equal(t, []int64{3, 4}, counter.calls, "one membership scan per group")
}

func TestGroupListSurvivesCountFailures(t *testing.T) {
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"groups": [{"id": "3", "name": "Wholesale", "show_prices": "1"}]}`)
	}))
	counter := &stubCounter{err: errors.New("scan failed")}
	svc := NewGroupService(factory, testCache(t), time.Minute, counter, nil)

	page, err := svc.List(context.Background(), shop.NewContext(4, nil), ListQuery{Page: 1, PageSize: 50})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Zero(t, page.Items[0].Members)
}

func TestGroupListCaches(t *testing.T) {
	calls := 0
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"groups": [{"id": "3", "name": "Wholesale", "show_prices": "1"}]}`)
	}))
	counter := &stubCounter{counts: map[int64]int{3: 5}}
	svc := NewGroupService(factory, testCache(t), time.Minute, counter, nil)
	sc := shop.NewContext(4, nil)

	_, err := svc.List(context.Background(), sc, ListQuery{Page: 1, PageSize: 50})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), sc, ListQuery{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, counter.calls, 1, "cached pages skip the member scans")
}
