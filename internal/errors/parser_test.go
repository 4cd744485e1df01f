package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"nil", nil, "", http.StatusInternalServerError, InternalServerError, ""},
		{"invalid quantity", service.ErrInvalidQuantity, "add to cart", http.StatusBadRequest, CartInvalidQuantity, ""},
		{"wrapped empty cart", fmt.Errorf("checkout: %w", service.ErrEmptyCart), "checkout", http.StatusBadRequest, CartEmpty, ""},
		{"out of stock", service.ErrOutOfStock, "", http.StatusConflict, ProductOutOfStock, ""},
		{"duplicate favorite", service.ErrAlreadyFavorite, "", http.StatusConflict, FavoriteAlreadyExists, ""},
		{"admin invalid input keeps detail", fmt.Errorf("%w: %s", service.ErrInvalidInput, "price is required"), "create product", http.StatusBadRequest, ValidationInvalidInput, "price is required"},
		{"backend bad request detail", backend.NewAPIError(422, "bad order_index"), "update banner", http.StatusBadRequest, ValidationInvalidInput, "bad order_index"},
		{"backend not found uses context", backend.NewAPIError(404, ""), "delete banner", http.StatusNotFound, ResourceNotFound, "Banner not found"},
		{"backend 5xx", backend.NewAPIError(500, "boom"), "", http.StatusBadGateway, InternalExternalAPI, ""},
		{"breaker open", fmt.Errorf("get products: %w", backend.ErrUnavailable), "", http.StatusServiceUnavailable, InternalUnavailable, ""},
		{"cart unreadable", fmt.Errorf("%w: %w", service.ErrCartUnavailable, errors.New("redis: i/o timeout")), "load cart", http.StatusServiceUnavailable, InternalStoreError, ""},
		{"store down", errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"), "", http.StatusServiceUnavailable, InternalStoreError, ""},
		{"unknown", errors.New("boom"), "update product", http.StatusInternalServerError, InternalServerError, "Could not update. Please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, info.Message)
			}
		})
	}
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, service.ErrSessionExpired, "favorites")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, AuthSessionExpired, body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, service.ErrAdminRequired, "authenticate admin")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, AuthzAdminOnly, body.Error)
}
