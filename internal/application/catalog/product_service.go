package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
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
	productListDisplay = "[id,name,price,reference,active,id_default_image]"

	// fallbackChunkSize bounds one filter[id] batch when listing products
	// through the category association fallback.
	fallbackChunkSize = 20
)

// PriceResolver decides price visibility for a customer.
type PriceResolver interface {
	Allowed(ctx context.Context, sc shop.Context, customerID int64) bool
}

// ProductListQuery narrows a product listing.
type ProductListQuery struct {
	ListQuery
	CategoryID *int64
}

// ProductPage is one page of product summaries. Prices are always redacted
// on listings; only the detail endpoint resolves per-customer visibility.
type ProductPage struct {
	Items    []catalog.ProductSummary `json:"items"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"pageSize"`
}

// ProductService serves product listings and details.
type ProductService struct {
	clients *upstream.Factory
	dir     *shop.Directory
	cache   cache.Store
	ttl     time.Duration
	prices  PriceResolver
	logger  *zap.Logger
}

// NewProductService creates a new product service.
func NewProductService(clients *upstream.Factory, dir *shop.Directory, store cache.Store, ttl time.Duration, prices PriceResolver, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		clients: clients,
		dir:     dir,
		cache:   store,
		ttl:     ttl,
		prices:  prices,
		logger:  logger,
	}
}

// List returns one page of active products, optionally narrowed to a
// category. Category filtering tries the direct webservice filter first;
// when that yields nothing (older installations do not index the category
// filter) it falls back to the category's product associations.
func (s *ProductService) List(ctx context.Context, sc shop.Context, q ProductListQuery) (*ProductPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_products")
	defer span.End()

	dims := listDims(sc, q.ListQuery)
	if q.CategoryID != nil {
		dims["category"] = strconv.FormatInt(*q.CategoryID, 10)
	}
	key := cache.BuildKey("products", dims)
	var cached ProductPage
	if cacheLoad(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	summaries, err := s.listDirect(ctx, sc, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(summaries) == 0 && q.CategoryID != nil {
		summaries, err = s.listByCategoryAssociations(ctx, sc, q)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	for i := range summaries {
		summaries[i].RedactPrice(false)
	}

	page := &ProductPage{Items: summaries, Page: q.Page, PageSize: q.PageSize}
	cacheStore(ctx, s.cache, s.logger, key, page, s.ttl)
	return page, nil
}

func (s *ProductService) listDirect(ctx context.Context, sc shop.Context, q ProductListQuery) ([]catalog.ProductSummary, error) {
	params := map[string]string{
		"display":        productListDisplay,
		"filter[active]": "1",
		"limit":          upstream.LimitParam(q.Page, q.PageSize),
	}
	if token, ok := upstream.SortToken(q.Sort); ok {
		params["sort"] = token
	}
	if q.CategoryID != nil {
		params["filter[id_category_default]"] = strconv.FormatInt(*q.CategoryID, 10)
	}

	payload, err := s.clients.For(sc).Get(ctx, "products", params)
	if err != nil {
		return nil, err
	}
	return s.mapSummaries(sc, upstream.ExtractList("products", payload)), nil
}

// listByCategoryAssociations loads the category record, windows its product
// association ids to the requested page, and fetches the window in id-filter
// batches. The merged result preserves association order.
func (s *ProductService) listByCategoryAssociations(ctx context.Context, sc shop.Context, q ProductListQuery) ([]catalog.ProductSummary, error) {
	client := s.clients.For(sc)

	payload, err := client.GetByID(ctx, "categories", *q.CategoryID, map[string]string{
		"display": "[id,associations]",
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	item, ok := upstream.ExtractItem("categories", payload)
	if !ok {
		return nil, nil
	}
	ids := associationIDs(item, "products")
	if len(ids) == 0 {
		return nil, nil
	}

	// Window the ids locally; the webservice cannot paginate an id filter.
	start := (q.Page - 1) * q.PageSize
	if start >= len(ids) {
		return nil, nil
	}
	end := start + q.PageSize
	if end > len(ids) {
		end = len(ids)
	}
	window := ids[start:end]

	byID := make(map[int64]catalog.ProductSummary, len(window))
	for _, chunk := range upstream.ChunkIDs(window, fallbackChunkSize) {
		payload, err := client.Get(ctx, "products", map[string]string{
			"display":    productListDisplay,
			"filter[id]": upstream.FilterIDs(chunk),
		})
		if err != nil {
			return nil, err
		}
		for _, p := range s.mapSummaries(sc, upstream.ExtractList("products", payload)) {
			byID[p.ID] = p
		}
	}

	out := make([]catalog.ProductSummary, 0, len(window))
	for _, id := range window {
		if p, ok := byID[id]; ok && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get returns the full product detail. Price visibility is decided per
// customer; anonymous callers never see prices.
func (s *ProductService) Get(ctx context.Context, sc shop.Context, productID int64, customerID *int64) (*catalog.ProductDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_product")
	defer span.End()

	key := cache.BuildKey("product", map[string]string{
		"shop": strconv.FormatInt(sc.ShopID, 10),
		"id":   strconv.FormatInt(productID, 10),
		"lang": languageDim(sc),
	})

	var detail catalog.ProductDetail
	if !cacheLoad(ctx, s.cache, key, &detail) {
		loaded, err := s.loadDetail(ctx, sc, productID)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		detail = *loaded
		cacheStore(ctx, s.cache, s.logger, key, detail, s.ttl)
	}

	allowed := false
	if customerID != nil {
		allowed = s.prices.Allowed(ctx, sc, *customerID)
	}
	detail.RedactPrice(allowed)
	return &detail, nil
}

func (s *ProductService) loadDetail(ctx context.Context, sc shop.Context, productID int64) (*catalog.ProductDetail, error) {
	client := s.clients.For(sc)

	payload, err := client.GetByID(ctx, "products", productID, nil)
	if err != nil {
		return nil, err
	}
	item, ok := upstream.ExtractItem("products", payload)
	if !ok {
		return nil, shared.ErrNotFound.WithDetail("product %d", productID)
	}
	if !upstream.AsBool(item["active"]) {
		return nil, shared.ErrNotFound.WithDetail("product %d is inactive", productID)
	}

	detail := &catalog.ProductDetail{
		Name:             upstream.LocalizedValue(item["name"]),
		DescriptionShort: upstream.LocalizedValue(item["description_short"]),
		Description:      upstream.LocalizedValue(item["description"]),
		Reference:        upstream.AsString(item["reference"]),
		Price:            upstream.AsDecimal(item["price"]),
		Active:           true,
	}
	if id, ok := upstream.AsInt64(item["id"]); ok {
		detail.ID = id
	}

	base := s.dir.BaseURL(sc.ShopID)
	for _, imageID := range associationIDs(item, "images") {
		detail.Images = append(detail.Images, catalog.ImageRef{
			ID:  imageID,
			URL: productImageURL(base, detail.ID, imageID),
		})
	}
	for _, categoryID := range associationIDs(item, "categories") {
		detail.Categories = append(detail.Categories, catalog.CategoryRef{ID: categoryID})
	}

	if manufacturerID, ok := upstream.AsInt64(item["id_manufacturer"]); ok && manufacturerID > 0 {
		detail.Manufacturer = &catalog.ManufacturerRef{
			ID:   manufacturerID,
			Name: upstream.AsString(item["manufacturer_name"]),
		}
	}

	// Stock is best effort: a failing stock lookup degrades the detail
	// rather than failing it.
	if stock, err := s.loadStock(ctx, sc, detail.ID); err != nil {
		s.logger.Warn("stock lookup failed",
			zap.Int64("product_id", detail.ID),
			zap.Int64("shop_id", sc.ShopID),
			zap.Error(err))
	} else {
		detail.Stock = stock
	}

	return detail, nil
}

// loadStock reads the single-warehouse stock entry of a product.
func (s *ProductService) loadStock(ctx context.Context, sc shop.Context, productID int64) (*catalog.StockSnapshot, error) {
	payload, err := s.clients.For(sc).Get(ctx, "stock_availables", map[string]string{
		"display":            "[id,quantity]",
		"filter[id_product]": strconv.FormatInt(productID, 10),
	})
	if err != nil {
		return nil, err
	}
	items := upstream.ExtractList("stock_availables", payload)
	if len(items) == 0 {
		return nil, nil
	}
	snapshot := &catalog.StockSnapshot{}
	if qty, ok := upstream.AsInt64(items[0]["quantity"]); ok {
		snapshot.Quantity = &qty
	}
	return snapshot, nil
}

func (s *ProductService) mapSummaries(sc shop.Context, items []map[string]any) []catalog.ProductSummary {
	base := s.dir.BaseURL(sc.ShopID)
	out := make([]catalog.ProductSummary, 0, len(items))
	for _, item := range items {
		p := catalog.ProductSummary{
			Name:      upstream.LocalizedValue(item["name"]),
			Reference: upstream.AsString(item["reference"]),
			Price:     upstream.AsDecimal(item["price"]),
			Active:    upstream.AsBool(item["active"]),
		}
		if id, ok := upstream.AsInt64(item["id"]); ok {
			p.ID = id
		}
		if imageID, ok := upstream.AsInt64(item["id_default_image"]); ok && imageID > 0 {
			p.DefaultImage = &catalog.ImageRef{
				ID:  imageID,
				URL: productImageURL(base, p.ID, imageID),
			}
		}
		out = append(out, p)
	}
	return out
}

// associationIDs extracts the id list of one association block, tolerating
// both the keyed and the bare-array encodings.
func associationIDs(item map[string]any, name string) []int64 {
	assoc, ok := item["associations"].(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := assoc[name]
	if !ok {
		return nil
	}

	var raw []any
	switch e := entries.(type) {
	case []any:
		raw = e
	case map[string]any:
		// {"products": {"product": [...]}}
		singular := strings.TrimSuffix(name, "s")
		switch inner := e[singular].(type) {
		case []any:
			raw = inner
		case map[string]any:
			raw = []any{inner}
		}
	}

	ids := make([]int64, 0, len(raw))
	for _, entry := range raw {
		if id, ok := upstream.ResourceID(entry); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func productImageURL(base string, productID, imageID int64) string {
	return fmt.Sprintf("%s/images/products/%d/%d",
		strings.TrimRight(base, "/"), productID, imageID)
}

func languageDim(sc shop.Context) string {
	if sc.LanguageID == nil {
		return ""
	}
	return strconv.FormatInt(*sc.LanguageID, 10)
}
