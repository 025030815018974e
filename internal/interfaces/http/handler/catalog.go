package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/grifons-arch/grifon-eshop-sub000/internal/application/catalog"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/logger"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/dto"
)

// categoryDefaultSort keeps the tree in the merchant's configured order.
const categoryDefaultSort = "position_asc"

// CatalogHandler serves the read-only storefront catalog.
type CatalogHandler struct {
	BaseHandler
	dir        *shop.Directory
	categories *appcatalog.CategoryService
	products   *appcatalog.ProductService
	groups     *appcatalog.GroupService
	pages      *appcatalog.PageService
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(
	base BaseHandler,
	dir *shop.Directory,
	categories *appcatalog.CategoryService,
	products *appcatalog.ProductService,
	groups *appcatalog.GroupService,
	pages *appcatalog.PageService,
) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		dir:         dir,
		categories:  categories,
		products:    products,
		groups:      groups,
		pages:       pages,
	}
}

// shopContext resolves the tenant scope of a request. A missing shopId uses
// the default shop; an unrouted one is a validation error, not a silent
// fallback.
func (h *CatalogHandler) shopContext(c *gin.Context, req dto.TenantRequest) (shop.Context, bool) {
	id := h.dir.DefaultID()
	if req.ShopID != nil {
		if _, err := h.dir.ByID(*req.ShopID); err != nil {
			h.Error(c, dto.ErrCodeValidation, "Unknown shopId")
			return shop.Context{}, false
		}
		id = *req.ShopID
	}
	c.Set("shop_id", id)
	ctx, _ := logger.WithShopID(c.Request.Context(), logger.FromContext(c.Request.Context()), id)
	c.Request = c.Request.WithContext(ctx)
	return shop.NewContext(id, req.LanguageID), true
}

// ListCategories handles GET /v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	if req.Sort == "" {
		req.Sort = categoryDefaultSort
	}
	req.ApplyDefaults(dto.DefaultCategorySize)

	sc, ok := h.shopContext(c, req.TenantRequest)
	if !ok {
		return
	}

	page, err := h.categories.List(c.Request.Context(), sc, appcatalog.ListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Sort:     req.Sort,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListCategoryProducts handles GET /v1/categories/:id/products
func (h *CatalogHandler) ListCategoryProducts(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.ApplyDefaults(dto.DefaultProductSize)

	sc, ok := h.shopContext(c, req.TenantRequest)
	if !ok {
		return
	}

	page, err := h.products.List(c.Request.Context(), sc, appcatalog.ProductListQuery{
		ListQuery: appcatalog.ListQuery{
			Page:     req.Page,
			PageSize: req.PageSize,
			Sort:     req.Sort,
		},
		CategoryID: &uri.ID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListProducts handles GET /v1/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req dto.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.ApplyDefaults(dto.DefaultProductSize)

	sc, ok := h.shopContext(c, req.TenantRequest)
	if !ok {
		return
	}

	page, err := h.products.List(c.Request.Context(), sc, appcatalog.ProductListQuery{
		ListQuery: appcatalog.ListQuery{
			Page:     req.Page,
			PageSize: req.PageSize,
			Sort:     req.Sort,
		},
		CategoryID: req.CategoryID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// GetProduct handles GET /v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.ProductDetailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	sc, ok := h.shopContext(c, req.TenantRequest)
	if !ok {
		return
	}

	detail, err := h.products.Get(c.Request.Context(), sc, uri.ID, req.CustomerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// ListGroups handles GET /v1/customer-groups
func (h *CatalogHandler) ListGroups(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.ApplyDefaults(dto.DefaultGroupSize)

	sc, ok := h.shopContext(c, req.TenantRequest)
	if !ok {
		return
	}

	page, err := h.groups.List(c.Request.Context(), sc, appcatalog.ListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Sort:     req.Sort,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// ListPages handles GET /v1/pages
func (h *CatalogHandler) ListPages(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.ApplyDefaults(dto.DefaultCategorySize)

	sc, ok := h.shopContext(c, req.TenantRequest)
	if !ok {
		return
	}

	list, err := h.pages.List(c.Request.Context(), sc, appcatalog.ListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
		Sort:     req.Sort,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// GetPage handles GET /v1/pages/:id
func (h *CatalogHandler) GetPage(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	var req dto.TenantRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	sc, ok := h.shopContext(c, req)
	if !ok {
		return
	}

	page, err := h.pages.Get(c.Request.Context(), sc, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}
