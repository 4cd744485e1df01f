package backend

import (
	"context"
	"fmt"
)

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", "", creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/signup", "", creds, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &resp, nil
}

func (c *Client) AdminLogin(ctx context.Context, creds AdminCredentials) (*AdminLoginResponse, error) {
	var resp AdminLoginResponse
	if err := c.post(ctx, "/admin/login", "", creds, &resp); err != nil {
		return nil, fmt.Errorf("admin login: %w", err)
	}
	return &resp, nil
}

func (c *Client) ListFavorites(ctx context.Context, token string) ([]Product, error) {
	var products []Product
	if err := c.get(ctx, "/favorites", nil, token, &products); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return products, nil
}

// AddFavorite returns an error wrapping ErrBadRequest when the product is
// already a favorite.
func (c *Client) AddFavorite(ctx context.Context, token string, productID uint) error {
	if err := c.post(ctx, fmt.Sprintf("/favorites/%d", productID), token, struct{}{}, nil); err != nil {
		return fmt.Errorf("add favorite %d: %w", productID, err)
	}
	return nil
}

func (c *Client) RemoveFavorite(ctx context.Context, token string, productID uint) error {
	if err := c.delete(ctx, fmt.Sprintf("/favorites/%d", productID), token); err != nil {
		return fmt.Errorf("remove favorite %d: %w", productID, err)
	}
	return nil
}

// SubmitOrder places an order. token may be empty for guest checkout.
func (c *Client) SubmitOrder(ctx context.Context, token string, order OrderRequest) (*Order, error) {
	var placed Order
	if err := c.post(ctx, "/orders", token, order, &placed); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	return &placed, nil
}

func (c *Client) ListUserOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/orders/user", nil, token, &orders); err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}
