package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListProducts returns the catalog, optionally restricted to one category.
func (c *Client) ListProducts(ctx context.Context, categoryID *uint) ([]Product, error) {
	query := url.Values{}
	if categoryID != nil {
		query.Set("category_id", strconv.FormatUint(uint64(*categoryID), 10))
	}

	var products []Product
	if err := c.get(ctx, "/products", query, "", &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), nil, "", &product); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.get(ctx, "/categories", nil, "", &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListBanners returns banners; activeOnly asks the backend to drop inactive ones.
func (c *Client) ListBanners(ctx context.Context, activeOnly bool) ([]Banner, error) {
	query := url.Values{}
	if activeOnly {
		query.Set("active_only", "true")
	}

	var banners []Banner
	if err := c.get(ctx, "/banners", query, "", &banners); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

func (c *Client) GetAbout(ctx context.Context) (*About, error) {
	var about About
	if err := c.get(ctx, "/about", nil, "", &about); err != nil {
		return nil, fmt.Errorf("get about: %w", err)
	}
	return &about, nil
}
