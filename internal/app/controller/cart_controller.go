package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type CartController struct {
	sessions service.SessionService
	catalog  service.CatalogService
}

func NewCartController(sessions service.SessionService, catalog service.CatalogService) *CartController {
	return &CartController{
		sessions: sessions,
		catalog:  catalog,
	}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity"` // defaults to 1
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse is the JSON view of a cart.
type CartResponse struct {
	Items     []model.LineItem `json:"items"`
	ItemCount int              `json:"item_count"`
	Subtotal  string           `json:"subtotal"`
}

func newCartResponse(cart model.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []model.LineItem{}
	}
	return CartResponse{
		Items:     items,
		ItemCount: cart.TotalItemCount(),
		Subtotal:  cart.Subtotal().StringFixed(2),
	}
}

// GetCart returns the session's cart
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart.Snapshot()))
}

// AddItem adds a product to the cart, merging with an existing line
// POST /api/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 {
		apperrors.Respond(c, service.ErrInvalidQuantity, "add to cart")
		return
	}

	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}

	// Stock covers what is already in the cart plus the new quantity.
	inCart := 0
	snapshot := cart.Snapshot()
	if i := snapshot.IndexOf(req.ProductID); i >= 0 {
		inCart = snapshot.Items[i].Quantity
	}

	product, err := ctrl.catalog.ProductSnapshot(c.Request.Context(), req.ProductID, inCart+quantity)
	if err != nil {
		log.Warn("Cannot add product to cart", map[string]interface{}{
			"product_id": req.ProductID,
			"quantity":   quantity,
			"error":      err.Error(),
		})
		apperrors.Respond(c, err, "add product to cart")
		return
	}

	if err := cart.Add(c.Request.Context(), product, quantity); err != nil {
		apperrors.Respond(c, err, "add to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id": req.ProductID,
		"quantity":   quantity,
	})
	c.JSON(http.StatusOK, newCartResponse(cart.Snapshot()))
}

// UpdateItem sets a line quantity; 0 or less removes the line
// PUT /api/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "quantity is required")
		return
	}

	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}
	cart.SetQuantity(c.Request.Context(), productID, *req.Quantity)

	middleware.GetLoggerFromContext(c).Info("Cart quantity updated", map[string]interface{}{
		"product_id": productID,
		"quantity":   *req.Quantity,
	})
	c.JSON(http.StatusOK, newCartResponse(cart.Snapshot()))
}

// RemoveItem drops a line; unknown ids are not an error
// DELETE /api/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}
	cart.Remove(c.Request.Context(), productID)
	c.JSON(http.StatusOK, newCartResponse(cart.Snapshot()))
}

// ClearCart empties the cart
// DELETE /api/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}
	cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, newCartResponse(cart.Snapshot()))
}
