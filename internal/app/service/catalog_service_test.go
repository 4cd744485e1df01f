package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/storefront/pkg/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func catalogFixture() *fakeBackend {
	f := newFakeBackend()
	jewelry, home := uintPtr(1), uintPtr(2)

	f.categories = []backend.Category{{ID: 1, Name: "Jewelry"}, {ID: 2, Name: "Home"}}
	f.banners = []backend.Banner{
		{ID: 1, Title: "Spring sale", IsActive: true},
		{ID: 2, Title: "Old promo", IsActive: false},
	}
	f.products = []backend.Product{
		product(1, "Silver Ring", 40, jewelry, baseTime.Add(1*time.Hour)),
		product(2, "Gold Necklace", 120, jewelry, baseTime.Add(3*time.Hour)),
		product(3, "Table Lamp", 25, home, baseTime.Add(2*time.Hour)),
		product(4, "Floor Lamp", 25, home, baseTime.Add(2*time.Hour)),
		product(5, "Loose Bead", 1, nil, baseTime),
	}
	f.products[1].Description = strPtr("Handmade 18k GOLD chain")
	f.products[0].IsFeatured = true
	f.products[2].IsFeatured = true
	f.about = backend.About{Content: "Family shop since 1990"}
	return f
}

func ids(products []backend.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterProducts(t *testing.T) {
	products := catalogFixture().products

	tests := []struct {
		name   string
		filter ProductFilter
		want   []uint
	}{
		{"default sort is newest", ProductFilter{}, []uint{2, 3, 4, 1, 5}},
		{"newest explicitly", ProductFilter{Sort: ProductSortNewest}, []uint{2, 3, 4, 1, 5}},
		{"price low is stable", ProductFilter{Sort: ProductSortPriceLow}, []uint{5, 3, 4, 1, 2}},
		{"price high is stable", ProductFilter{Sort: ProductSortPriceHigh}, []uint{2, 1, 3, 4, 5}},
		{"unknown sort keeps order", ProductFilter{Sort: "popular"}, []uint{1, 2, 3, 4, 5}},
		{"category", ProductFilter{CategoryID: uintPtr(2), Sort: "none"}, []uint{3, 4}},
		{"search name case-insensitive", ProductFilter{Search: "LAMP", Sort: ProductSortPriceLow}, []uint{3, 4}},
		{"search description", ProductFilter{Search: "gold chain"}, []uint{2}},
		{"search and category", ProductFilter{Search: "lamp", CategoryID: uintPtr(1)}, []uint{}},
		{"whitespace search matches all", ProductFilter{Search: "   ", Sort: "none"}, []uint{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterProducts(products, tt.filter)))
		})
	}

	// Input is never reordered.
	assert.Equal(t, []uint{1, 2, 3, 4, 5}, ids(products))
}

func TestFeaturedAndRelatedLimits(t *testing.T) {
	var products []backend.Product
	for i := uint(1); i <= 10; i++ {
		p := product(i, "p", 1, uintPtr(1), baseTime)
		p.IsFeatured = i%2 == 0 || i > 6
		products = append(products, p)
	}

	assert.Equal(t, []uint{2, 4, 6, 7, 8, 9}, ids(FeaturedProducts(products, 6)))
	assert.Equal(t, []uint{1, 2, 4, 5}, ids(RelatedProducts(products, 3, 4)))
	assert.Empty(t, RelatedProducts(products[:1], 1, 4))
}

func TestCatalogService_Home(t *testing.T) {
	svc := NewCatalogService(catalogFixture())

	page, err := svc.Home(context.Background(), ProductFilter{Search: "ring"})
	require.NoError(t, err)

	require.Len(t, page.Banners, 1)
	assert.Equal(t, "Spring sale", page.Banners[0].Title)
	assert.Len(t, page.Categories, 2)
	assert.Equal(t, []uint{1, 3}, ids(page.Featured))
	assert.Equal(t, []uint{1}, ids(page.Products))
}

func TestCatalogService_HomeFailure(t *testing.T) {
	f := catalogFixture()
	f.fail("ListCategories", apiErr(500, ""))

	_, err := NewCatalogService(f).Home(context.Background(), ProductFilter{})
	assert.ErrorIs(t, err, backend.ErrServer)
}

func TestCatalogService_CategoryPage(t *testing.T) {
	svc := NewCatalogService(catalogFixture())

	page, err := svc.CategoryPage(context.Background(), 1, ProductFilter{Sort: ProductSortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, "Jewelry", page.Category.Name)
	assert.Equal(t, []uint{1, 2}, ids(page.Products))

	_, err = svc.CategoryPage(context.Background(), 99, ProductFilter{})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_ProductPage(t *testing.T) {
	svc := NewCatalogService(catalogFixture())
	ctx := context.Background()

	page, err := svc.ProductPage(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Table Lamp", page.Product.Name)
	assert.Equal(t, []uint{4}, ids(page.Related))

	page, err = svc.ProductPage(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Related)

	_, err = svc.ProductPage(ctx, 404)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_ProductPageRelatedFailureStillRenders(t *testing.T) {
	f := catalogFixture()
	svc := NewCatalogService(f)
	f.fail("ListProducts", apiErr(502, ""))

	page, err := svc.ProductPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), page.Product.ID)
	assert.Empty(t, page.Related)
}

func TestCatalogService_ProductSnapshot(t *testing.T) {
	f := catalogFixture()
	f.products[0].Stock = 0
	f.products[1].Stock = 3
	f.products[1].ImageURL = "/necklace.png"
	f.products[1].Price = 19.99
	svc := NewCatalogService(f)
	ctx := context.Background()

	snap, err := svc.ProductSnapshot(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint(2), snap.ProductID)
	assert.Equal(t, "Gold Necklace", snap.Name)
	assert.Equal(t, "/necklace.png", snap.ImageURL)
	assert.Equal(t, "19.99", snap.UnitPrice.String())

	_, err = svc.ProductSnapshot(ctx, 2, 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.ProductSnapshot(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = svc.ProductSnapshot(ctx, 77, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_About(t *testing.T) {
	about, err := NewCatalogService(catalogFixture()).About(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Family shop since 1990", about.Content)
}
