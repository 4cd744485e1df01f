package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
	sessions     service.SessionService
}

func NewOrderController(orderService service.OrderService, sessions service.SessionService) *OrderController {
	return &OrderController{
		orderService: orderService,
		sessions:     sessions,
	}
}

type CheckoutRequest struct {
	Name     string `json:"customer_name" binding:"required"`
	Email    string `json:"customer_email" binding:"required"`
	Phone    string `json:"customer_phone" binding:"required"`
	Location string `json:"customer_location" binding:"required"`
}

// Checkout submits the session's cart as an order. Guests may check out.
// POST /api/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, service.ErrInvalidCustomer, "checkout")
		return
	}

	cart, ok := sessionCart(c, ctrl.sessions)
	if !ok {
		return
	}
	confirmation, err := ctrl.orderService.PlaceOrder(c.Request.Context(), cart, middleware.GetUserToken(c), model.Customer{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		apperrors.Respond(c, err, "checkout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed",
		"order":   confirmation.Order,
		"items":   confirmation.Items,
		"total":   confirmation.Total.StringFixed(2),
	})
}

// ListMyOrders returns the signed-in shopper's order history
// GET /api/profile/orders
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	orders, err := ctrl.orderService.UserOrders(c.Request.Context(), middleware.GetUserToken(c))
	if err != nil {
		apperrors.Respond(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
