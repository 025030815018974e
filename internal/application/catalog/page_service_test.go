package catalog

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
)

func TestPageListReturnsActivePages(t *testing.T) {
	var gotQuery map[string][]string
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/content_management_system", r.URL.Path)
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"content_management_system": [
			{"id": "3", "meta_title": "Delivery terms", "head_seo_title": "Delivery", "content": "<p>48 hours</p>", "active": "1"},
			{"id": "4", "meta_title": "About us", "content": "<p>Since 1987</p>", "active": "1"}
		]}`)
	}))
	svc := NewPageService(factory, testCache(t), time.Minute, nil)

	list, err := svc.List(context.Background(), shop.NewContext(4, nil), ListQuery{Page: 1, PageSize: 50})
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, gotQuery["filter[active]"])
	assert.Equal(t, []string{"0,50"}, gotQuery["limit"])
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Delivery", list.Items[0].Title)
	assert.Equal(t, "About us", list.Items[1].Title)
}

func TestPageGetMapsContent(t *testing.T) {
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/content_management_system/3", r.URL.Path)
		fmt.Fprint(w, `{"content": {
			"id": "3",
			"meta_title": {"language": {"#text": "Delivery terms"}},
			"head_seo_title": "Delivery",
			"content": "<p>We ship within 48 hours.</p>",
			"active": "1"
		}}`)
	}))
	svc := NewPageService(factory, testCache(t), time.Minute, nil)

	page, err := svc.Get(context.Background(), shop.NewContext(4, nil), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.ID)
	assert.Equal(t, "Delivery", page.Title)
	assert.Equal(t, "Delivery terms", page.MetaTitle)
	assert.Contains(t, page.Content, "48 hours")
	assert.True(t, page.Active)
}

func TestPageGetInactiveReadsAsAbsent(t *testing.T) {
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": {"id": "3", "meta_title": "Old page", "active": "0"}}`)
	}))
	svc := NewPageService(factory, testCache(t), time.Minute, nil)

	_, err := svc.Get(context.Background(), shop.NewContext(4, nil), 3)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPageGetMissingReadsAsAbsent(t *testing.T) {
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	svc := NewPageService(factory, testCache(t), time.Minute, nil)

	_, err := svc.Get(context.Background(), shop.NewContext(4, nil), 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPageGetCaches(t *testing.T) {
	calls := 0
	factory, _ := testBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"content": {"id": "3", "meta_title": "Terms", "content": "x", "active": "1"}}`)
	}))
	svc := NewPageService(factory, testCache(t), time.Minute, nil)
	sc := shop.NewContext(4, nil)

	_, err := svc.Get(context.Background(), sc, 3)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), sc, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
