package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutBody() map[string]string {
	return map[string]string{
		"customer_name":     "  Ada Lovelace ",
		"customer_email":    "ada@example.com",
		"customer_phone":    "+977-1-5550100",
		"customer_location": "Kathmandu",
	}
}

func TestOrderController_Checkout_Guest(t *testing.T) {
	app := setupTestApp(t)
	app.request(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1, "quantity": 2})
	app.request(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 3})

	w := app.request(t, http.MethodPost, "/api/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "45.48", body["total"])
	assert.Len(t, body["items"], 2)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "1", order["id"])
	assert.Equal(t, "Ada Lovelace", order["customer_name"])

	orders, auth := app.api.submitted()
	require.Len(t, orders, 1)
	submitted := orders[0]
	assert.Equal(t, 45.48, submitted.TotalAmount)
	assert.Equal(t, "Kathmandu", submitted.CustomerLocation)
	require.Len(t, submitted.Items, 2)
	assert.Equal(t, uint(1), submitted.Items[0].ID)
	assert.Equal(t, 2, submitted.Items[0].Quantity)
	assert.Equal(t, []string{""}, auth)

	w = app.request(t, http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decodeCart(t, w).Items)
}

func TestOrderController_Checkout_SignedIn(t *testing.T) {
	app := setupTestApp(t)
	app.login(t)
	app.request(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 3})

	w := app.request(t, http.MethodPost, "/api/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, auth := app.api.submitted()
	assert.Equal(t, []string{"Bearer " + userToken}, auth)
}

func TestOrderController_Checkout_BackendFailureKeepsCart(t *testing.T) {
	app := setupTestApp(t)
	app.api.failOrders(http.StatusServiceUnavailable)
	app.request(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 1})

	w := app.request(t, http.MethodPost, "/api/checkout", checkoutBody())
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, apperrors.InternalExternalAPI, errorCode(t, w))

	cart := app.cart(t)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// The shopper can retry once the backend recovers.
	app.api.failOrders(0)
	w = app.request(t, http.MethodPost, "/api/checkout", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, app.cart(t).IsEmpty())
}

func TestOrderController_Checkout_Rejections(t *testing.T) {
	app := setupTestApp(t)

	w := app.request(t, http.MethodPost, "/api/checkout", checkoutBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CartEmpty, errorCode(t, w))

	app.request(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 3})

	missing := checkoutBody()
	delete(missing, "customer_phone")
	w = app.request(t, http.MethodPost, "/api/checkout", missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.OrderInvalidCustomer, errorCode(t, w))

	blank := checkoutBody()
	blank["customer_location"] = "   "
	w = app.request(t, http.MethodPost, "/api/checkout", blank)
	assert.Equal(t, apperrors.OrderInvalidCustomer, errorCode(t, w))

	badEmail := checkoutBody()
	badEmail["customer_email"] = "not-an-email"
	w = app.request(t, http.MethodPost, "/api/checkout", badEmail)
	assert.Equal(t, apperrors.OrderInvalidCustomer, errorCode(t, w))

	orders, _ := app.api.submitted()
	assert.Empty(t, orders)
	raw, err := app.store.Read(context.Background(), model.CartKey(testSessionID))
	require.NoError(t, err)
	assert.Contains(t, raw, `"id":3`)
}

func TestOrderController_ListMyOrders(t *testing.T) {
	app := setupTestApp(t)

	w := app.request(t, http.MethodGet, "/api/profile/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthUnauthorized, errorCode(t, w))

	app.login(t)
	w = app.request(t, http.MethodGet, "/api/profile/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
}
