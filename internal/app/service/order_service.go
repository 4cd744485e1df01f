package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/backend"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidCustomer = errors.New("customer name, email, phone and location are required")
)

// OrderBackend is the part of the backend API that places and lists orders.
type OrderBackend interface {
	SubmitOrder(ctx context.Context, token string, order backend.OrderRequest) (*backend.Order, error)
	ListUserOrders(ctx context.Context, token string) ([]backend.Order, error)
}

// OrderConfirmation is what the shopper sees after a successful checkout.
type OrderConfirmation struct {
	Order *backend.Order   `json:"order"`
	Items []model.LineItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type OrderService interface {
	// PlaceOrder submits the current cart and, on success, removes the
	// ordered lines from it. Checkouts of one cart run one at a time.
	// token may be empty for guest checkout.
	PlaceOrder(ctx context.Context, cart CartManager, token string, customer model.Customer) (*OrderConfirmation, error)
	UserOrders(ctx context.Context, token string) ([]backend.Order, error)
}

type orderService struct {
	backend OrderBackend
}

func NewOrderService(backend OrderBackend) OrderService {
	return &orderService{backend: backend}
}

// NormalizeCustomer trims every field and checks that all are present and the
// email parses.
func NormalizeCustomer(customer model.Customer) (model.Customer, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	customer.Phone = strings.TrimSpace(customer.Phone)
	customer.Location = strings.TrimSpace(customer.Location)

	if customer.Name == "" || customer.Email == "" || customer.Phone == "" || customer.Location == "" {
		return customer, ErrInvalidCustomer
	}
	if _, err := mail.ParseAddress(customer.Email); err != nil {
		return customer, ErrInvalidCustomer
	}
	return customer, nil
}

// BuildOrderRequest turns a cart snapshot into the order payload.
func BuildOrderRequest(cart model.Cart, customer model.Customer) backend.OrderRequest {
	items := make([]backend.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, backend.OrderItem{
			ID:       item.ProductID,
			Name:     item.Name,
			Price:    item.UnitPrice.InexactFloat64(),
			Quantity: item.Quantity,
		})
	}
	return backend.OrderRequest{
		CustomerName:     customer.Name,
		CustomerEmail:    customer.Email,
		CustomerPhone:    customer.Phone,
		CustomerLocation: customer.Location,
		Items:            items,
		TotalAmount:      cart.Subtotal().InexactFloat64(),
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, cart CartManager, token string, customer model.Customer) (*OrderConfirmation, error) {
	customer, err := NormalizeCustomer(customer)
	if err != nil {
		return nil, err
	}

	unlock, err := cart.LockCheckout(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snapshot := cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}

	logger.Info("Placing order", map[string]interface{}{
		"items": snapshot.TotalItemCount(),
		"total": snapshot.Subtotal().String(),
		"guest": token == "",
		"email": customer.Email,
	})

	order, err := s.backend.SubmitOrder(ctx, token, BuildOrderRequest(snapshot, customer))
	if err != nil {
		// The cart is left untouched so the shopper can retry.
		logger.Error("Order submission failed", err, map[string]interface{}{
			"email": customer.Email,
		})
		return nil, err
	}

	// The order exists now; the cart update must reach the store.
	cart.RemoveOrdered(context.WithoutCancel(ctx), snapshot)

	logger.Info("Order placed", map[string]interface{}{
		"order_id": order.ID,
		"total":    snapshot.Subtotal().String(),
	})
	return &OrderConfirmation{
		Order: order,
		Items: snapshot.Items,
		Total: snapshot.Subtotal(),
	}, nil
}

func (s *orderService) UserOrders(ctx context.Context, token string) ([]backend.Order, error) {
	orders, err := s.backend.ListUserOrders(ctx, token)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, ErrSessionExpired
		}
		logger.Error("Failed to fetch order history", err)
		return nil, err
	}
	return orders, nil
}
