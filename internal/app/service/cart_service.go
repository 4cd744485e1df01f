package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product id is required")
	// ErrCartUnavailable means the saved cart could not be read. The cart
	// is not started empty so the durable copy survives.
	ErrCartUnavailable = errors.New("cart storage is unavailable")
)

// CartHook runs after every cart mutation with a copy of the new state.
type CartHook func(ctx context.Context, cart model.Cart)

// CartManager owns the cart of one session. Mutations are serialized and each
// one runs the post-mutation hooks before returning.
type CartManager interface {
	Add(ctx context.Context, product model.ProductSnapshot, quantity int) error
	SetQuantity(ctx context.Context, productID uint, quantity int)
	Remove(ctx context.Context, productID uint)
	Clear(ctx context.Context)
	// RemoveOrdered takes the quantities of ordered out of the cart. Lines
	// added or increased since ordered was taken stay.
	RemoveOrdered(ctx context.Context, ordered model.Cart)

	// LockCheckout holds the cart's checkout lock until the returned func is
	// called. It waits for a running checkout or ctx.
	LockCheckout(ctx context.Context) (func(), error)
	CheckoutInProgress() bool

	Items() []model.LineItem
	Snapshot() model.Cart
	TotalItemCount() int
	Subtotal() decimal.Decimal
}

type cartManager struct {
	mu    sync.Mutex
	cart  model.Cart
	hooks []CartHook

	checkout chan struct{}
}

// NewCartManager creates a manager over an initial cart. An initial cart that
// breaks the invariants is replaced by an empty one.
func NewCartManager(initial model.Cart, hooks ...CartHook) CartManager {
	if !initial.Valid() {
		initial = model.Cart{}
	}
	return &cartManager{
		cart:     initial.Clone(),
		hooks:    hooks,
		checkout: make(chan struct{}, 1),
	}
}

// LoadCartManager restores the cart saved under key and installs the
// write-through hook ahead of the extra hooks. Missing or malformed data
// starts an empty cart; a failed read returns ErrCartUnavailable.
func LoadCartManager(ctx context.Context, store repository.Store, key string, hooks ...CartHook) (CartManager, error) {
	initial, err := loadCart(ctx, store, key)
	if err != nil {
		return nil, err
	}
	all := append([]CartHook{PersistCartHook(store, key)}, hooks...)
	return NewCartManager(initial, all...), nil
}

func loadCart(ctx context.Context, store repository.Store, key string) (model.Cart, error) {
	raw, err := store.Read(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return model.Cart{}, nil
	}
	if err != nil {
		logger.Warn("Failed to read saved cart", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return model.Cart{}, fmt.Errorf("%w: %w", ErrCartUnavailable, err)
	}

	cart, err := DecodeCart(raw)
	if err != nil {
		logger.Debug("Discarding malformed saved cart", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return model.Cart{}, nil
	}
	return cart, nil
}

// EncodeCart serializes the line items as a JSON array.
func EncodeCart(cart model.Cart) (string, error) {
	items := cart.Items
	if items == nil {
		items = []model.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

var errInvalidSavedCart = errors.New("saved cart violates cart invariants")

// DecodeCart parses a saved cart and checks its invariants.
func DecodeCart(raw string) (model.Cart, error) {
	var items []model.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return model.Cart{}, err
	}
	cart := model.Cart{Items: items}
	if !cart.Valid() {
		return model.Cart{}, errInvalidSavedCart
	}
	return cart, nil
}

// PersistCartHook writes every new cart state to store. Write failures are
// logged and swallowed; the cart keeps working in memory.
func PersistCartHook(store repository.Store, key string) CartHook {
	return func(ctx context.Context, cart model.Cart) {
		raw, err := EncodeCart(cart)
		if err != nil {
			logger.Warn("Failed to encode cart", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			return
		}
		if err := store.Write(ctx, key, raw); err != nil {
			logger.Warn("Failed to persist cart, continuing in memory", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

// Add appends the product or increments its quantity. The snapshot of an
// existing line item is never overwritten.
func (m *cartManager) Add(ctx context.Context, product model.ProductSnapshot, quantity int) error {
	if product.ProductID == 0 {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.cart.IndexOf(product.ProductID); i >= 0 {
		m.cart.Items[i].Quantity += quantity
	} else {
		m.cart.Items = append(m.cart.Items, model.LineItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}
	m.afterMutation(ctx)
	return nil
}

// SetQuantity sets an absolute quantity. Zero or less removes the item.
func (m *cartManager) SetQuantity(ctx context.Context, productID uint, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if quantity <= 0 {
		m.removeLocked(productID)
	} else if i := m.cart.IndexOf(productID); i >= 0 {
		m.cart.Items[i].Quantity = quantity
	}
	m.afterMutation(ctx)
}

func (m *cartManager) Remove(ctx context.Context, productID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(productID)
	m.afterMutation(ctx)
}

func (m *cartManager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cart = model.Cart{}
	m.afterMutation(ctx)
}

func (m *cartManager) RemoveOrdered(ctx context.Context, ordered model.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range ordered.Items {
		i := m.cart.IndexOf(item.ProductID)
		if i < 0 {
			continue
		}
		if left := m.cart.Items[i].Quantity - item.Quantity; left > 0 {
			m.cart.Items[i].Quantity = left
		} else {
			m.removeLocked(item.ProductID)
		}
	}
	m.afterMutation(ctx)
}

func (m *cartManager) LockCheckout(ctx context.Context) (func(), error) {
	select {
	case m.checkout <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-m.checkout }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *cartManager) CheckoutInProgress() bool {
	return len(m.checkout) > 0
}

func (m *cartManager) removeLocked(productID uint) {
	i := m.cart.IndexOf(productID)
	if i < 0 {
		return
	}
	items := make([]model.LineItem, 0, len(m.cart.Items)-1)
	items = append(items, m.cart.Items[:i]...)
	items = append(items, m.cart.Items[i+1:]...)
	m.cart.Items = items
}

// afterMutation must be called with mu held.
func (m *cartManager) afterMutation(ctx context.Context) {
	for _, hook := range m.hooks {
		hook(ctx, m.cart.Clone())
	}
}

func (m *cartManager) Items() []model.LineItem {
	return m.Snapshot().Items
}

func (m *cartManager) Snapshot() model.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

func (m *cartManager) TotalItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.TotalItemCount()
}

func (m *cartManager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Subtotal()
}
