package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grifons-arch/grifon-eshop-sub000/internal/domain/shared"
	"github.com/grifons-arch/grifon-eshop-sub000/internal/interfaces/http/dto"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Set("request_id", "req-1")
	return c, rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestHandleErrorMapsGatewayCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"upstream", shared.ErrUpstreamUnreachable, http.StatusBadGateway, "ERR_UPSTREAM"},
		{"timeout", shared.ErrUpstreamTimeout, http.StatusGatewayTimeout, "ERR_UPSTREAM_TIMEOUT"},
		{"conflict", shared.ErrEmailExists, http.StatusConflict, "ERR_EMAIL_EXISTS"},
		{"config", shared.ErrSyncSecretMissing, http.StatusInternalServerError, "ERR_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext()
			h := NewBaseHandler(nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestHandleErrorMapsDetailedCopies(t *testing.T) {
	c, rec := newTestContext()
	h := NewBaseHandler(nil)

	h.HandleError(c, shared.ErrNotFound.WithDetail("product %d", 42))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "ERR_NOT_FOUND", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "42", "detail stays out of client messages")
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	c, rec := newTestContext()
	h := NewBaseHandler(nil)

	h.HandleError(c, errors.New("dial tcp 10.0.0.9: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "ERR_INTERNAL", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "10.0.0.9")
}

func TestValidationErrorWithoutFieldErrors(t *testing.T) {
	c, rec := newTestContext()
	h := NewBaseHandler(nil)

	h.ValidationError(c, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
