package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/pkg/backend"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	featuredLimit = 6
	relatedLimit  = 4
)

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceLow  ProductSort = "price_low"
	ProductSortPriceHigh ProductSort = "price_high"
)

// ProductFilter narrows a product list locally.
type ProductFilter struct {
	CategoryID *uint
	Search     string
	Sort       ProductSort
}

// CatalogBackend is the part of the backend API the catalog pages read.
type CatalogBackend interface {
	ListProducts(ctx context.Context, categoryID *uint) ([]backend.Product, error)
	GetProduct(ctx context.Context, id uint) (*backend.Product, error)
	ListCategories(ctx context.Context) ([]backend.Category, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]backend.Banner, error)
	GetAbout(ctx context.Context) (*backend.About, error)
}

type HomePage struct {
	Banners    []backend.Banner   `json:"banners"`
	Categories []backend.Category `json:"categories"`
	Featured   []backend.Product  `json:"featured"`
	Products   []backend.Product  `json:"products"`
}

type CategoryPage struct {
	Category backend.Category  `json:"category"`
	Products []backend.Product `json:"products"`
}

type ProductPage struct {
	Product backend.Product   `json:"product"`
	Related []backend.Product `json:"related"`
}

type CatalogService interface {
	Home(ctx context.Context, filter ProductFilter) (*HomePage, error)
	Categories(ctx context.Context) ([]backend.Category, error)
	CategoryPage(ctx context.Context, categoryID uint, filter ProductFilter) (*CategoryPage, error)
	ProductPage(ctx context.Context, productID uint) (*ProductPage, error)
	About(ctx context.Context) (*backend.About, error)
	// ProductSnapshot fetches the product and checks quantity against stock.
	ProductSnapshot(ctx context.Context, productID uint, quantity int) (model.ProductSnapshot, error)
}

type catalogService struct {
	backend CatalogBackend
}

func NewCatalogService(backend CatalogBackend) CatalogService {
	return &catalogService{backend: backend}
}

// Home loads banners, categories and products concurrently. Featured products
// come from the unfiltered list; the filter applies to Products only.
func (s *catalogService) Home(ctx context.Context, filter ProductFilter) (*HomePage, error) {
	var page HomePage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		banners, err := s.backend.ListBanners(gctx, true)
		page.Banners = banners
		return err
	})
	g.Go(func() error {
		categories, err := s.backend.ListCategories(gctx)
		page.Categories = categories
		return err
	})
	g.Go(func() error {
		products, err := s.backend.ListProducts(gctx, nil)
		page.Products = products
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to load home page", err)
		return nil, err
	}

	page.Featured = FeaturedProducts(page.Products, featuredLimit)
	page.Products = FilterProducts(page.Products, filter)
	return &page, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]backend.Category, error) {
	return s.backend.ListCategories(ctx)
}

func (s *catalogService) CategoryPage(ctx context.Context, categoryID uint, filter ProductFilter) (*CategoryPage, error) {
	var (
		categories []backend.Category
		products   []backend.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.backend.ListCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.backend.ListProducts(gctx, &categoryID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to load category page", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}

	for _, category := range categories {
		if category.ID == categoryID {
			filter.CategoryID = nil
			return &CategoryPage{
				Category: category,
				Products: FilterProducts(products, filter),
			}, nil
		}
	}

	logger.Warn("Category not found", map[string]interface{}{
		"category_id": categoryID,
	})
	return nil, ErrCategoryNotFound
}

func (s *catalogService) ProductPage(ctx context.Context, productID uint) (*ProductPage, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{Product: *product, Related: []backend.Product{}}
	if product.CategoryID == nil {
		return page, nil
	}

	siblings, err := s.backend.ListProducts(ctx, product.CategoryID)
	if err != nil {
		// Related products are decoration; the page still renders.
		logger.Warn("Failed to load related products", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return page, nil
	}
	page.Related = RelatedProducts(siblings, productID, relatedLimit)
	return page, nil
}

func (s *catalogService) About(ctx context.Context) (*backend.About, error) {
	return s.backend.GetAbout(ctx)
}

func (s *catalogService) ProductSnapshot(ctx context.Context, productID uint, quantity int) (model.ProductSnapshot, error) {
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return model.ProductSnapshot{}, err
	}
	if product.Stock <= 0 {
		return model.ProductSnapshot{}, ErrOutOfStock
	}
	if quantity > product.Stock {
		return model.ProductSnapshot{}, ErrInsufficientStock
	}
	return SnapshotOf(*product), nil
}

func (s *catalogService) getProduct(ctx context.Context, productID uint) (*backend.Product, error) {
	product, err := s.backend.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return product, nil
}

// SnapshotOf copies the display fields of a catalog product.
func SnapshotOf(product backend.Product) model.ProductSnapshot {
	return model.ProductSnapshot{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: decimal.NewFromFloat(product.Price),
		ImageURL:  product.ImageURL,
	}
}

// FilterProducts applies category, search and sort without touching the input.
// Search is a case-insensitive substring match over name or description.
// Sorting is stable; an unknown sort keeps backend order.
func FilterProducts(products []backend.Product, filter ProductFilter) []backend.Product {
	query := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]backend.Product, 0, len(products))
	for _, p := range products {
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		if query != "" && !matchesSearch(p, query) {
			continue
		}
		out = append(out, p)
	}

	by := filter.Sort
	if by == "" {
		by = ProductSortNewest
	}
	sortProducts(out, by)
	return out
}

func matchesSearch(p backend.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Name), query) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), query)
}

func sortProducts(products []backend.Product, by ProductSort) {
	switch by {
	case ProductSortNewest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt.Time)
		})
	case ProductSortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case ProductSortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	}
}

// FeaturedProducts returns the first limit products flagged featured.
func FeaturedProducts(products []backend.Product, limit int) []backend.Product {
	out := make([]backend.Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}

// RelatedProducts returns up to limit products other than productID.
func RelatedProducts(siblings []backend.Product, productID uint, limit int) []backend.Product {
	out := make([]backend.Product, 0, limit)
	for _, p := range siblings {
		if len(out) == limit {
			break
		}
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}
