package handler

import (
	"github.com/gin-gonic/gin"

	appcustomer "github.com/grifons-arch/grifon-eshop-sub000/internal/application/customer"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/dto"
)

// CustomerHandler serves per-customer authorization lookups.
type CustomerHandler struct {
	BaseHandler
	dir    *shop.Directory
	prices *appcustomer.PriceAccessService
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(base BaseHandler, dir *shop.Directory, prices *appcustomer.PriceAccessService) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, dir: dir, prices: prices}
}

// GetPriceAccess handles GET /v1/customers/:id/price-access
//
// The decision always renders with 200; an unresolvable customer is a denial,
// not an error, so storefront clients need no special casing.
func (h *CustomerHandler) GetPriceAccess(c *gin.Context) {
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

	id := h.dir.DefaultID()
	if req.ShopID != nil {
		if _, err := h.dir.ByID(*req.ShopID); err != nil {
			h.Error(c, dto.ErrCodeValidation, "Unknown shopId")
			return
		}
		id = *req.ShopID
	}
	c.Set("shop_id", id)

	decision := h.prices.Resolve(c.Request.Context(), shop.NewContext(id, req.LanguageID), uri.ID)
	h.Success(c, decision)
}
