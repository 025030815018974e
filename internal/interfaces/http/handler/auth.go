package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/application/registration"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/dto"
)

// AuthHandler serves the wholesale onboarding endpoint.
type AuthHandler struct {
	BaseHandler
	registrations *registration.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base BaseHandler, registrations *registration.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, registrations: registrations}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.registrations.Register(c.Request.Context(), registration.Input{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Company:       req.Company,
		VATNumber:     req.VATNumber,
		IBAN:          req.IBAN,
		Phone:         req.Phone,
		Street:        req.Street,
		City:          req.City,
		PostalCode:    req.PostalCode,
		CountryISO:    req.CountryISO,
		Newsletter:    req.Newsletter,
		PartnerOffers: req.PartnerOffers,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
