package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/backend"
	"gorm.io/gorm"
)

// ErrorInfo is the response derived from an error.
type ErrorInfo struct {
	Status  int
	Code    string // see codes.go
	Message string
}

type knownError struct {
	target error
	info   ErrorInfo
}

// Checked in order; service errors come before the backend kinds they wrap.
var knownErrors = []knownError{
	{service.ErrInvalidQuantity, ErrorInfo{http.StatusBadRequest, CartInvalidQuantity, "Quantity must be at least 1"}},
	{service.ErrInvalidProduct, ErrorInfo{http.StatusBadRequest, CartInvalidProduct, "A product is required"}},
	{service.ErrCartUnavailable, ErrorInfo{http.StatusServiceUnavailable, InternalStoreError, "Your cart is temporarily unavailable. Please try again shortly"}},
	{service.ErrEmptyCart, ErrorInfo{http.StatusBadRequest, CartEmpty, "Your cart is empty"}},
	{service.ErrInvalidCustomer, ErrorInfo{http.StatusBadRequest, OrderInvalidCustomer, "Name, email, phone and location are required"}},

	{service.ErrProductNotFound, ErrorInfo{http.StatusNotFound, ProductNotFound, "Product not found"}},
	{service.ErrCategoryNotFound, ErrorInfo{http.StatusNotFound, CategoryNotFound, "Category not found"}},
	{service.ErrOutOfStock, ErrorInfo{http.StatusConflict, ProductOutOfStock, "This product is out of stock"}},
	{service.ErrInsufficientStock, ErrorInfo{http.StatusConflict, ProductStockExceeded, "Not enough stock for the requested quantity"}},

	{service.ErrInvalidCredentials, ErrorInfo{http.StatusUnauthorized, AuthInvalidCredentials, "Invalid email or password"}},
	{service.ErrEmailAlreadyExists, ErrorInfo{http.StatusConflict, AuthEmailAlreadyExists, "This email is already registered"}},
	{service.ErrNotSignedIn, ErrorInfo{http.StatusUnauthorized, AuthUnauthorized, "Please sign in to continue"}},
	{service.ErrSessionExpired, ErrorInfo{http.StatusUnauthorized, AuthSessionExpired, "Your session has expired. Please sign in again"}},
	{service.ErrAdminRequired, ErrorInfo{http.StatusUnauthorized, AuthzAdminOnly, "Admin sign-in required"}},

	{service.ErrAlreadyFavorite, ErrorInfo{http.StatusConflict, FavoriteAlreadyExists, "Already in your favorites"}},
	{service.ErrResourceNotFound, ErrorInfo{http.StatusNotFound, ResourceNotFound, ""}},
	{service.ErrInvalidInput, ErrorInfo{http.StatusBadRequest, ValidationInvalidInput, ""}},

	{storage.ErrContentTypeNotAllowed, ErrorInfo{http.StatusBadRequest, UploadInvalidFileType, "Only JPEG, PNG, GIF and WebP images are allowed"}},
	{storage.ErrFolderNotAllowed, ErrorInfo{http.StatusBadRequest, UploadInvalidFolder, "Unknown upload folder"}},

	{backend.ErrUnavailable, ErrorInfo{http.StatusServiceUnavailable, InternalUnavailable, "The shop is temporarily unavailable. Please try again shortly"}},
	{backend.ErrNetwork, ErrorInfo{http.StatusServiceUnavailable, InternalUnavailable, "The shop is temporarily unavailable. Please try again shortly"}},
	{backend.ErrServer, ErrorInfo{http.StatusBadGateway, InternalExternalAPI, "The shop backend returned an error. Please try again later"}},
	{backend.ErrUnauthorized, ErrorInfo{http.StatusUnauthorized, AuthSessionExpired, "Your session has expired. Please sign in again"}},
	{backend.ErrNotFound, ErrorInfo{http.StatusNotFound, ResourceNotFound, ""}},
	{backend.ErrBadRequest, ErrorInfo{http.StatusBadRequest, ValidationInvalidInput, ""}},

	{repository.ErrKeyNotFound, ErrorInfo{http.StatusNotFound, ResourceNotFound, ""}},
	{gorm.ErrRecordNotFound, ErrorInfo{http.StatusNotFound, ResourceNotFound, ""}},
}

// ParseError converts err into a status, code and message safe to show the
// shopper. context names the operation, e.g. "create product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	for _, known := range knownErrors {
		if !errors.Is(err, known.target) {
			continue
		}
		info := known.info
		if info.Message == "" {
			info.Message = detailOr(err, known.target, info, context)
		}
		return info
	}

	// Store connection failures (redis, postgres) surface as plain errors.
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalStoreError,
			Message: "Session storage is unavailable. Please try again shortly",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// detailOr prefers the backend's own detail for validation errors.
func detailOr(err, target error, info ErrorInfo, context string) string {
	if info.Status == http.StatusBadRequest {
		if detail := backend.Detail(err); detail != "" {
			return detail
		}
		prefix := target.Error() + ": "
		if msg := err.Error(); strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
		return "The request is invalid"
	}
	return getNotFoundMessage(context)
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "banner"):
		return "Banner not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	}
	return "The requested item was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Could not save. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "Could not update. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "Could not delete. Please try again later"
	}
	if strings.Contains(contextLower, "checkout") || strings.Contains(contextLower, "order") {
		return "Could not place your order. Please try again later"
	}
	return "Something went wrong. Please try again later"
}
