package controller

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

// parseIDParam reads a positive numeric path parameter and answers 400 when
// it is not one.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// productFilterFromQuery reads ?category_id=&search=&sort=.
func productFilterFromQuery(c *gin.Context) (service.ProductFilter, bool) {
	filter := service.ProductFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   service.ProductSort(c.Query("sort")),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category_id")
			return filter, false
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}
	return filter, true
}

// sessionCart returns the request's cart and answers 503 when it cannot be
// loaded.
func sessionCart(c *gin.Context, sessions service.SessionService) (service.CartManager, bool) {
	cart, err := sessions.Cart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to load session cart", err)
		apperrors.Respond(c, err, "load cart")
		return nil, false
	}
	return cart, true
}
