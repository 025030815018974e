package catalog

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/catalog"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/cache"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/telemetry"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/upstream"
)

const categoryDisplay = "[id,id_parent,name,position,active,link_rewrite]"

// ListQuery is the common pagination and ordering input of list endpoints.
type ListQuery struct {
	Page     int
	PageSize int
	Sort     string
}

// CategoryPage is one page of the category tree. The forest is built from
// the window only: a child whose parent falls outside the page is promoted
// to a root of this page.
type CategoryPage struct {
	Items    []*catalog.CategoryTreeNode `json:"items"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"pageSize"`
}

// CategoryService serves the active category tree.
type CategoryService struct {
	clients *upstream.Factory
	cache   cache.Store
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(clients *upstream.Factory, store cache.Store, ttl time.Duration, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{clients: clients, cache: store, ttl: ttl, logger: logger}
}

// List returns one page of active categories arranged as a forest.
func (s *CategoryService) List(ctx context.Context, sc shop.Context, q ListQuery) (*CategoryPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_categories")
	defer span.End()

	key := cache.BuildKey("categories", listDims(sc, q))
	var cached CategoryPage
	if cacheLoad(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	params := map[string]string{
		"display":        categoryDisplay,
		"filter[active]": "1",
		"limit":          upstream.LimitParam(q.Page, q.PageSize),
	}
	if token, ok := upstream.SortToken(q.Sort); ok {
		params["sort"] = token
	}

	payload, err := s.clients.For(sc).Get(ctx, "categories", params)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items := upstream.ExtractList("categories", payload)
	categories := make([]catalog.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, mapCategory(item))
	}

	page := &CategoryPage{
		Items:    catalog.BuildCategoryForest(categories),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	cacheStore(ctx, s.cache, s.logger, key, page, s.ttl)
	return page, nil
}

func mapCategory(item map[string]any) catalog.Category {
	c := catalog.Category{
		Name:   upstream.LocalizedValue(item["name"]),
		Slug:   upstream.LocalizedValue(item["link_rewrite"]),
		Active: upstream.AsBool(item["active"]),
	}
	if id, ok := upstream.AsInt64(item["id"]); ok {
		c.ID = id
	}
	if parent, ok := upstream.AsInt64(item["id_parent"]); ok && parent > 0 {
		c.ParentID = &parent
	}
	if pos, ok := upstream.AsInt64(item["position"]); ok {
		c.Position = int(pos)
	}
	return c
}

func listDims(sc shop.Context, q ListQuery) map[string]string {
	dims := map[string]string{
		"shop":     strconv.FormatInt(sc.ShopID, 10),
		"page":     strconv.Itoa(q.Page),
		"pageSize": strconv.Itoa(q.PageSize),
		"sort":     q.Sort,
	}
	if sc.LanguageID != nil {
		dims["lang"] = strconv.FormatInt(*sc.LanguageID, 10)
	}
	return dims
}
