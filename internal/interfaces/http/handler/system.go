package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shop"
)

// SystemHandler serves the health probe and the static shop directory.
type SystemHandler struct {
	BaseHandler
	dir     *shop.Directory
	appName string
	env     string
}

// NewSystemHandler creates a system handler.
func NewSystemHandler(base BaseHandler, dir *shop.Directory, appName, env string) *SystemHandler {
	return &SystemHandler{BaseHandler: base, dir: dir, appName: appName, env: env}
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "ok",
		"name":   h.appName,
		"env":    h.env,
	})
}

// Shops handles GET /v1/shops
func (h *SystemHandler) Shops(c *gin.Context) {
	h.Success(c, gin.H{
		"items":     h.dir.All(),
		"defaultId": h.dir.DefaultID(),
	})
}
