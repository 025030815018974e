package handler

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/infrastructure/logger"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/dto"
)

// BaseHandler provides common response and error mapping helpers shared by
// all HTTP handlers.
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler.
func NewBaseHandler(log *zap.Logger) BaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return BaseHandler{logger: log}
}

func (h *BaseHandler) getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.Writer.Header().Get("X-Request-ID")
}

// Success sends a 200 response with the standard envelope.
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response with the standard envelope.
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response; the status derives from the error code.
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, h.getRequestID(c)))
}

// HandleError maps a domain error onto the HTTP contract. Unknown error
// types never leak their text to the client.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	log := logger.GetGinLogger(c)

	var gw *shared.GatewayError
	if errors.As(err, &gw) {
		code := dto.NormalizeErrorCode(gw.Code)
		if dto.GetHTTPStatus(code) >= http.StatusInternalServerError {
			log.Error("request failed", zap.String("code", code), zap.Error(err))
		} else {
			log.Debug("request rejected", zap.String("code", code), zap.Error(err))
		}
		h.Error(c, code, gw.Message)
		return
	}

	log.Error("unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// ValidationError renders a 400 listing every offending field of a failed
// binding.
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	details := validationDetails(err)
	message := "Request validation failed"
	if len(details) == 0 {
		message = "Malformed request"
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, h.getRequestID(c), details))
}

func validationDetails(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   lowerFirst(fe.Field()),
			Message: validationMessage(fe),
		})
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "iso3166_1_alpha2":
		return "must be a 2-letter country code"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
