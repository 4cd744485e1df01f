package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
	sessions        service.SessionService
}

func NewFavoriteController(favoriteService service.FavoriteService, sessions service.SessionService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
		sessions:        sessions,
	}
}

// ListFavorites returns the shopper's favorite products
// GET /api/favorites
func (ctrl *FavoriteController) ListFavorites(c *gin.Context) {
	products, err := ctrl.favoriteService.List(c.Request.Context(), middleware.GetUserToken(c))
	if err != nil {
		apperrors.Respond(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"favorites": products,
		"count":     len(products),
	})
}

// AddFavorite adds a product to favorites. A duplicate is reported with 409
// and leaves favorites unchanged.
// POST /api/favorites/:id
func (ctrl *FavoriteController) AddFavorite(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.favoriteService.Add(c.Request.Context(), middleware.GetUserToken(c), productID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyFavorite) {
			middleware.GetLoggerFromContext(c).Info("Product already in favorites", map[string]interface{}{
				"product_id": productID,
			})
		}
		apperrors.Respond(c, err, "add favorite")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Added to favorites",
		"product_id": productID,
	})
}

// RemoveFavorite removes a product from favorites
// DELETE /api/favorites/:id
func (ctrl *FavoriteController) RemoveFavorite(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.favoriteService.Remove(c.Request.Context(), middleware.GetUserToken(c), productID); err != nil {
		apperrors.Respond(c, err, "remove favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Removed from favorites",
	})
}

// MoveToCart adds a favorite product to the session cart with quantity 1
// POST /api/favorites/:id/cart
func (ctrl *FavoriteController) MoveToCart(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}
	if err := ctrl.favoriteService.MoveToCart(c.Request.Context(), cart, productID); err != nil {
		apperrors.Respond(c, err, "add product to cart")
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart.Snapshot()))
}
