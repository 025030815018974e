package catalog

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/catalog"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/cache"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/telemetry"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/upstream"
)

const (
	cmsResource = "content_management_system"
	cmsDisplay  = "[id,meta_title,head_seo_title,content,active]"
)

// PageList is one page of content pages.
type PageList struct {
	Items    []catalog.CmsPage `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// PageService serves content pages (terms, delivery info and the like)
// from the legacy CMS.
type PageService struct {
	clients *upstream.Factory
	cache   cache.Store
	ttl     time.Duration
	logger  *zap.Logger
}

// NewPageService creates a new content page service.
func NewPageService(clients *upstream.Factory, store cache.Store, ttl time.Duration, logger *zap.Logger) *PageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageService{clients: clients, cache: store, ttl: ttl, logger: logger}
}

// List returns one page of active content pages.
func (s *PageService) List(ctx context.Context, sc shop.Context, q ListQuery) (*PageList, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_pages")
	defer span.End()

	key := cache.BuildKey("pages", listDims(sc, q))
	var cached PageList
	if cacheLoad(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	params := map[string]string{
		"display":        cmsDisplay,
		"filter[active]": "1",
		"limit":          upstream.LimitParam(q.Page, q.PageSize),
	}
	if token, ok := upstream.SortToken(q.Sort); ok {
		params["sort"] = token
	}

	payload, err := s.clients.For(sc).Get(ctx, cmsResource, params)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items := upstream.ExtractList(cmsResource, payload)
	pages := make([]catalog.CmsPage, 0, len(items))
	for _, item := range items {
		pages = append(pages, mapCmsPage(item))
	}

	list := &PageList{Items: pages, Page: q.Page, PageSize: q.PageSize}
	cacheStore(ctx, s.cache, s.logger, key, list, s.ttl)
	return list, nil
}

// Get returns one active content page. Inactive pages read as absent.
func (s *PageService) Get(ctx context.Context, sc shop.Context, pageID int64) (*catalog.CmsPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_page")
	defer span.End()

	key := cache.BuildKey("cms", map[string]string{
		"shop": strconv.FormatInt(sc.ShopID, 10),
		"id":   strconv.FormatInt(pageID, 10),
		"lang": languageDim(sc),
	})
	var cached catalog.CmsPage
	if cacheLoad(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	payload, err := s.clients.For(sc).GetByID(ctx, cmsResource, pageID, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	item, ok := upstream.ExtractItem(cmsResource, payload)
	if !ok {
		return nil, shared.ErrNotFound.WithDetail("content page %d", pageID)
	}
	if !upstream.AsBool(item["active"]) {
		return nil, shared.ErrNotFound.WithDetail("content page %d is inactive", pageID)
	}

	page := mapCmsPage(item)
	cacheStore(ctx, s.cache, s.logger, key, &page, s.ttl)
	return &page, nil
}

// mapCmsPage maps one normalized CMS record. The display title prefers the
// SEO head title over the meta title.
func mapCmsPage(item map[string]any) catalog.CmsPage {
	page := catalog.CmsPage{
		Title:     upstream.LocalizedValue(item["meta_title"]),
		MetaTitle: upstream.LocalizedValue(item["meta_title"]),
		Content:   upstream.LocalizedValue(item["content"]),
		Active:    true,
	}
	if id, ok := upstream.AsInt64(item["id"]); ok {
		page.ID = id
	}
	if head := upstream.LocalizedValue(item["head_seo_title"]); head != "" {
		page.Title = head
	}
	return page
}
