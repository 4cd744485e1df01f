package backend

import (
	"context"
	"fmt"
)

// Admin endpoints. Every call takes the admin bearer token.

func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*Product, error) {
	var product Product
	if err := c.post(ctx, "/products", token, in, &product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id uint, in ProductInput) (*Product, error) {
	var product Product
	if err := c.put(ctx, fmt.Sprintf("/products/%d", id), token, in, &product); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id uint) error {
	if err := c.delete(ctx, fmt.Sprintf("/products/%d", id), token); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

func (c *Client) CreateCategory(ctx context.Context, token string, in CategoryInput) (*Category, error) {
	var category Category
	if err := c.post(ctx, "/categories", token, in, &category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, token string, id uint, in CategoryInput) (*Category, error) {
	var category Category
	if err := c.put(ctx, fmt.Sprintf("/categories/%d", id), token, in, &category); err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id uint) error {
	if err := c.delete(ctx, fmt.Sprintf("/categories/%d", id), token); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (c *Client) CreateBanner(ctx context.Context, token string, in BannerInput) (*Banner, error) {
	var banner Banner
	if err := c.post(ctx, "/banners", token, in, &banner); err != nil {
		return nil, fmt.Errorf("create banner: %w", err)
	}
	return &banner, nil
}

func (c *Client) UpdateBanner(ctx context.Context, token string, id uint, in BannerInput) (*Banner, error) {
	var banner Banner
	if err := c.put(ctx, fmt.Sprintf("/banners/%d", id), token, in, &banner); err != nil {
		return nil, fmt.Errorf("update banner %d: %w", id, err)
	}
	return &banner, nil
}

func (c *Client) DeleteBanner(ctx context.Context, token string, id uint) error {
	if err := c.delete(ctx, fmt.Sprintf("/banners/%d", id), token); err != nil {
		return fmt.Errorf("delete banner %d: %w", id, err)
	}
	return nil
}

func (c *Client) UpdateAbout(ctx context.Context, token string, in About) (*About, error) {
	var about About
	if err := c.put(ctx, "/about", token, in, &about); err != nil {
		return nil, fmt.Errorf("update about: %w", err)
	}
	return &about, nil
}

// ListAllOrders returns every order placed in the shop.
func (c *Client) ListAllOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/orders", nil, token, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
