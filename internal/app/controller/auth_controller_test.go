package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_LoginMeLogout(t *testing.T) {
	app := setupTestApp(t)

	w := app.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])

	token, err := app.store.Read(context.Background(), model.TokenKey(testSessionID))
	require.NoError(t, err)
	assert.Equal(t, userToken, token)

	w = app.request(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user = decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "Ada", user["name"])
	assert.Equal(t, "7", user["id"])

	w = app.request(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthUnauthorized, errorCode(t, w))

	_, err = app.store.Read(context.Background(), model.TokenKey(testSessionID))
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestAuthController_LogoutKeepsCart(t *testing.T) {
	app := setupTestApp(t)
	app.login(t)
	app.request(t, http.MethodPost, "/api/cart/items", map[string]interface{}{"product_id": 3, "quantity": 4})

	w := app.request(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(t, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, 4, decodeCart(t, w).ItemCount)
}

func TestAuthController_Login_Rejections(t *testing.T) {
	app := setupTestApp(t)

	w := app.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthInvalidCredentials, errorCode(t, w))

	w = app.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "not-an-email", "password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))

	_, err := app.store.Read(context.Background(), model.TokenKey(testSessionID))
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}
