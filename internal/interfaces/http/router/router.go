package router

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/logger"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/handler"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/middleware"
)

// Options configures the middleware chain around the route table.
type Options struct {
	Logger          *zap.Logger
	CORS            middleware.CORSConfig
	BodyLimit       int64
	RateLimiter     *middleware.RateLimiter // nil disables the global limiter
	AuthRateLimiter *middleware.RateLimiter // nil disables the register limiter
	TracingEnabled  bool
	ServiceName     string
	TrustedProxies  []string
}

// Handlers groups the route handlers wired into the engine.
type Handlers struct {
	System   *handler.SystemHandler
	Catalog  *handler.CatalogHandler
	Customer *handler.CustomerHandler
	Auth     *handler.AuthHandler
}

// New builds the gin engine with the full middleware chain and route table.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	registerTagNameFunc()

	engine := gin.New()
	_ = engine.SetTrustedProxies(opts.TrustedProxies)

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if opts.TracingEnabled {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(opts.CORS))
	if opts.BodyLimit > 0 {
		engine.Use(middleware.BodyLimit(opts.BodyLimit))
	}
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/health", h.System.Health)

	v1 := engine.Group("/v1")
	{
		v1.GET("/shops", h.System.Shops)
		v1.GET("/categories", h.Catalog.ListCategories)
		v1.GET("/categories/:id/products", h.Catalog.ListCategoryProducts)
		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id", h.Catalog.GetProduct)
		v1.GET("/pages", h.Catalog.ListPages)
		v1.GET("/pages/:id", h.Catalog.GetPage)
		v1.GET("/customer-groups", h.Catalog.ListGroups)
		v1.GET("/customers/:id/price-access", h.Customer.GetPriceAccess)
	}

	auth := engine.Group("/auth")
	if opts.AuthRateLimiter != nil {
		auth.Use(middleware.RateLimit(opts.AuthRateLimiter))
	}
	auth.POST("/register", h.Auth.Register)

	return engine
}

// registerTagNameFunc makes validation errors report json/form field names
// instead of Go struct field names.
func registerTagNameFunc() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}
