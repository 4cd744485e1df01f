package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront/pkg/backend"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
)

const ordersSheet = "Orders"

// ProductSheetHeader is the column layout of product import workbooks.
var ProductSheetHeader = []string{"name", "description", "price", "category_id", "image_url", "stock", "is_featured", "specs"}

// AdminBackend is the part of the backend API the admin panel manages.
type AdminBackend interface {
	CreateProduct(ctx context.Context, token string, in backend.ProductInput) (*backend.Product, error)
	UpdateProduct(ctx context.Context, token string, id uint, in backend.ProductInput) (*backend.Product, error)
	DeleteProduct(ctx context.Context, token string, id uint) error
	CreateCategory(ctx context.Context, token string, in backend.CategoryInput) (*backend.Category, error)
	UpdateCategory(ctx context.Context, token string, id uint, in backend.CategoryInput) (*backend.Category, error)
	DeleteCategory(ctx context.Context, token string, id uint) error
	CreateBanner(ctx context.Context, token string, in backend.BannerInput) (*backend.Banner, error)
	UpdateBanner(ctx context.Context, token string, id uint, in backend.BannerInput) (*backend.Banner, error)
	DeleteBanner(ctx context.Context, token string, id uint) error
	UpdateAbout(ctx context.Context, token string, in backend.About) (*backend.About, error)
	ListAllOrders(ctx context.Context, token string) ([]backend.Order, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]backend.Banner, error)
}

type AdminService interface {
	CreateProduct(ctx context.Context, token string, in backend.ProductInput) (*backend.Product, error)
	UpdateProduct(ctx context.Context, token string, id uint, in backend.ProductInput) (*backend.Product, error)
	DeleteProduct(ctx context.Context, token string, id uint) error

	CreateCategory(ctx context.Context, token string, in backend.CategoryInput) (*backend.Category, error)
	UpdateCategory(ctx context.Context, token string, id uint, in backend.CategoryInput) (*backend.Category, error)
	DeleteCategory(ctx context.Context, token string, id uint) error

	// Banners lists every banner, inactive ones included.
	Banners(ctx context.Context) ([]backend.Banner, error)
	CreateBanner(ctx context.Context, token string, in backend.BannerInput) (*backend.Banner, error)
	UpdateBanner(ctx context.Context, token string, id uint, in backend.BannerInput) (*backend.Banner, error)
	DeleteBanner(ctx context.Context, token string, id uint) error

	UpdateAbout(ctx context.Context, token string, in backend.About) (*backend.About, error)

	Orders(ctx context.Context, token string) ([]backend.Order, error)
	ExportOrders(ctx context.Context, token string) (*bytes.Buffer, error)
}

type adminService struct {
	backend AdminBackend
}

func NewAdminService(backend AdminBackend) AdminService {
	return &adminService{backend: backend}
}

func ValidateProductInput(in backend.ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *adminService) CreateProduct(ctx context.Context, token string, in backend.ProductInput) (*backend.Product, error) {
	if err := ValidateProductInput(in); err != nil {
		return nil, err
	}
	product, err := s.backend.CreateProduct(ctx, token, in)
	if err != nil {
		return nil, adminError("create product", err)
	}
	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, token string, id uint, in backend.ProductInput) (*backend.Product, error) {
	if err := ValidateProductInput(in); err != nil {
		return nil, err
	}
	product, err := s.backend.UpdateProduct(ctx, token, id, in)
	if err != nil {
		return nil, adminError("update product", err)
	}
	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, token string, id uint) error {
	if err := s.backend.DeleteProduct(ctx, token, id); err != nil {
		return adminError("delete product", err)
	}
	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *adminService) CreateCategory(ctx context.Context, token string, in backend.CategoryInput) (*backend.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	category, err := s.backend.CreateCategory(ctx, token, in)
	if err != nil {
		return nil, adminError("create category", err)
	}
	return category, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, token string, id uint, in backend.CategoryInput) (*backend.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}
	category, err := s.backend.UpdateCategory(ctx, token, id, in)
	if err != nil {
		return nil, adminError("update category", err)
	}
	return category, nil
}

func (s *adminService) DeleteCategory(ctx context.Context, token string, id uint) error {
	if err := s.backend.DeleteCategory(ctx, token, id); err != nil {
		return adminError("delete category", err)
	}
	return nil
}

func (s *adminService) Banners(ctx context.Context) ([]backend.Banner, error) {
	return s.backend.ListBanners(ctx, false)
}

func (s *adminService) CreateBanner(ctx context.Context, token string, in backend.BannerInput) (*backend.Banner, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, fmt.Errorf("%w: banner image is required", ErrInvalidInput)
	}
	banner, err := s.backend.CreateBanner(ctx, token, in)
	if err != nil {
		return nil, adminError("create banner", err)
	}
	return banner, nil
}

func (s *adminService) UpdateBanner(ctx context.Context, token string, id uint, in backend.BannerInput) (*backend.Banner, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, fmt.Errorf("%w: banner image is required", ErrInvalidInput)
	}
	banner, err := s.backend.UpdateBanner(ctx, token, id, in)
	if err != nil {
		return nil, adminError("update banner", err)
	}
	return banner, nil
}

func (s *adminService) DeleteBanner(ctx context.Context, token string, id uint) error {
	if err := s.backend.DeleteBanner(ctx, token, id); err != nil {
		return adminError("delete banner", err)
	}
	return nil
}

func (s *adminService) UpdateAbout(ctx context.Context, token string, in backend.About) (*backend.About, error) {
	about, err := s.backend.UpdateAbout(ctx, token, in)
	if err != nil {
		return nil, adminError("update about", err)
	}
	return about, nil
}

func (s *adminService) Orders(ctx context.Context, token string) ([]backend.Order, error) {
	orders, err := s.backend.ListAllOrders(ctx, token)
	if err != nil {
		return nil, adminError("list orders", err)
	}
	return orders, nil
}

func (s *adminService) ExportOrders(ctx context.Context, token string) (*bytes.Buffer, error) {
	orders, err := s.Orders(ctx, token)
	if err != nil {
		return nil, err
	}
	buf, err := WriteOrdersXLSX(orders)
	if err != nil {
		logger.Error("Failed to build orders workbook", err)
		return nil, err
	}
	logger.Info("Orders exported", map[string]interface{}{
		"orders": len(orders),
	})
	return buf, nil
}

// adminError maps backend failures onto admin service errors. Validation
// errors keep the backend's detail for the admin to read.
func adminError(op string, err error) error {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		return ErrAdminRequired
	case errors.Is(err, backend.ErrNotFound):
		return ErrResourceNotFound
	case errors.Is(err, backend.ErrBadRequest):
		return fmt.Errorf("%w: %s", ErrInvalidInput, backend.Detail(err))
	default:
		logger.Error("Admin request failed", err, map[string]interface{}{
			"operation": op,
		})
		return err
	}
}

// WriteOrdersXLSX renders one row per order line item.
func WriteOrdersXLSX(orders []backend.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ordersSheet); err != nil {
		return nil, err
	}

	header := []interface{}{
		"order_id", "created_at", "status", "customer_name", "customer_email",
		"customer_phone", "customer_location", "product_id", "product_name",
		"unit_price", "quantity", "order_total",
	}
	if err := f.SetSheetRow(ordersSheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, order := range orders {
		created := ""
		if !order.CreatedAt.IsZero() {
			created = order.CreatedAt.Format("2006-01-02 15:04:05")
		}
		for _, item := range order.Items {
			values := []interface{}{
				string(order.ID), created, order.Status, order.CustomerName, order.CustomerEmail,
				order.CustomerPhone, order.CustomerLocation, item.ID, item.Name,
				item.Price, item.Quantity, order.TotalAmount,
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(ordersSheet, cell, &values); err != nil {
				return nil, err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ProductRowError describes a skipped import row.
type ProductRowError struct {
	Row    int    `json:"row,omitempty"` // 0 when the backend rejected the row
	Reason string `json:"reason"`
}

// ReadProductsXLSX parses the first sheet of a product workbook. The first
// row is the header; specs are "key=value" pairs separated by ";".
func ReadProductsXLSX(r io.Reader) ([]backend.ProductInput, []ProductRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var (
		products []backend.ProductInput
		skipped  []ProductRowError
	)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		in, err := parseProductRow(row)
		if err != nil {
			skipped = append(skipped, ProductRowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		products = append(products, in)
	}
	return products, skipped, nil
}

func parseProductRow(row []string) (backend.ProductInput, error) {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	in := backend.ProductInput{
		Name:        col(0),
		Description: col(1),
		ImageURL:    col(4),
		Specs:       map[string]string{},
	}

	price, err := strconv.ParseFloat(col(2), 64)
	if err != nil {
		return in, fmt.Errorf("invalid price %q", col(2))
	}
	in.Price = price

	if raw := col(3); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return in, fmt.Errorf("invalid category_id %q", raw)
		}
		categoryID := uint(id)
		in.CategoryID = &categoryID
	}

	if raw := col(5); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid stock %q", raw)
		}
		in.Stock = stock
	}

	if raw := strings.ToLower(col(6)); raw != "" {
		in.IsFeatured = raw == "true" || raw == "yes" || raw == "1"
	}

	for _, pair := range strings.Split(col(7), ";") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		in.Specs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if err := ValidateProductInput(in); err != nil {
		return in, err
	}
	return in, nil
}
