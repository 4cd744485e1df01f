package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ikkim/storefront/pkg/backend"
)

// fakeBackend is an in-memory stand-in for the backend API client.
type fakeBackend struct {
	mu sync.Mutex

	products   []backend.Product
	categories []backend.Category
	banners    []backend.Banner
	about      backend.About
	orders     []backend.Order
	favorites  map[uint]bool

	// err, when set for a method name, is returned instead of the result.
	errs map[string]error

	// onSubmit, when set, runs inside SubmitOrder before the order is recorded.
	onSubmit func()

	lastToken string
	submitted []backend.OrderRequest
	created   []backend.ProductInput
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		favorites: map[uint]bool{},
		errs:      map[string]error{},
	}
}

func (f *fakeBackend) fail(method string, err error) {
	f.mu.Lock()
	f.errs[method] = err
	f.mu.Unlock()
}

func (f *fakeBackend) check(method, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	return f.errs[method]
}

func apiErr(status int, detail string) error {
	return fmt.Errorf("call: %w", backend.NewAPIError(status, detail))
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func product(id uint, name string, price float64, category *uint, created time.Time) backend.Product {
	return backend.Product{
		ID:         id,
		Name:       name,
		Price:      price,
		Stock:      10,
		CategoryID: category,
		CreatedAt:  backend.Time{Time: created},
	}
}

func (f *fakeBackend) ListProducts(ctx context.Context, categoryID *uint) ([]backend.Product, error) {
	if err := f.check("ListProducts", ""); err != nil {
		return nil, err
	}
	var out []backend.Product
	for _, p := range f.products {
		if categoryID == nil || (p.CategoryID != nil && *p.CategoryID == *categoryID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetProduct(ctx context.Context, id uint) (*backend.Product, error) {
	if err := f.check("GetProduct", ""); err != nil {
		return nil, err
	}
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, apiErr(404, "Product not found")
}

func (f *fakeBackend) ListCategories(ctx context.Context) ([]backend.Category, error) {
	if err := f.check("ListCategories", ""); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeBackend) ListBanners(ctx context.Context, activeOnly bool) ([]backend.Banner, error) {
	if err := f.check("ListBanners", ""); err != nil {
		return nil, err
	}
	var out []backend.Banner
	for _, b := range f.banners {
		if !activeOnly || b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetAbout(ctx context.Context) (*backend.About, error) {
	if err := f.check("GetAbout", ""); err != nil {
		return nil, err
	}
	about := f.about
	return &about, nil
}

func (f *fakeBackend) Login(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error) {
	if err := f.check("Login", ""); err != nil {
		return nil, err
	}
	return &backend.AuthResponse{
		User:  backend.User{ID: "1", Name: "Ada", Email: creds.Email},
		Token: "user-token",
	}, nil
}

func (f *fakeBackend) Signup(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error) {
	if err := f.check("Signup", ""); err != nil {
		return nil, err
	}
	return &backend.AuthResponse{
		User:  backend.User{ID: "2", Name: creds.Name, Email: creds.Email},
		Token: "new-user-token",
	}, nil
}

func (f *fakeBackend) AdminLogin(ctx context.Context, creds backend.AdminCredentials) (*backend.AdminLoginResponse, error) {
	if err := f.check("AdminLogin", ""); err != nil {
		return nil, err
	}
	return &backend.AdminLoginResponse{Token: "admin-token"}, nil
}

func (f *fakeBackend) ListFavorites(ctx context.Context, token string) ([]backend.Product, error) {
	if err := f.check("ListFavorites", token); err != nil {
		return nil, err
	}
	var out []backend.Product
	for _, p := range f.products {
		if f.favorites[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) AddFavorite(ctx context.Context, token string, productID uint) error {
	if err := f.check("AddFavorite", token); err != nil {
		return err
	}
	if f.favorites[productID] {
		return apiErr(400, "Already in favorites")
	}
	f.favorites[productID] = true
	return nil
}

func (f *fakeBackend) RemoveFavorite(ctx context.Context, token string, productID uint) error {
	if err := f.check("RemoveFavorite", token); err != nil {
		return err
	}
	if !f.favorites[productID] {
		return apiErr(404, "Not in favorites")
	}
	delete(f.favorites, productID)
	return nil
}

func (f *fakeBackend) SubmitOrder(ctx context.Context, token string, order backend.OrderRequest) (*backend.Order, error) {
	if err := f.check("SubmitOrder", token); err != nil {
		return nil, err
	}
	if f.onSubmit != nil {
		f.onSubmit()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, order)
	placed := backend.Order{
		ID:               backend.ID(fmt.Sprintf("ord-%d", len(f.submitted))),
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		CustomerPhone:    order.CustomerPhone,
		CustomerLocation: order.CustomerLocation,
		Items:            order.Items,
		TotalAmount:      order.TotalAmount,
		Status:           "pending",
	}
	f.orders = append(f.orders, placed)
	return &placed, nil
}

func (f *fakeBackend) ListUserOrders(ctx context.Context, token string) ([]backend.Order, error) {
	if err := f.check("ListUserOrders", token); err != nil {
		return nil, err
	}
	return f.orders, nil
}

func (f *fakeBackend) ListAllOrders(ctx context.Context, token string) ([]backend.Order, error) {
	if err := f.check("ListAllOrders", token); err != nil {
		return nil, err
	}
	return f.orders, nil
}

func (f *fakeBackend) CreateProduct(ctx context.Context, token string, in backend.ProductInput) (*backend.Product, error) {
	if err := f.check("CreateProduct", token); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	p := backend.Product{ID: uint(100 + len(f.created)), Name: in.Name, Price: in.Price, Stock: in.Stock}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, token string, id uint, in backend.ProductInput) (*backend.Product, error) {
	if err := f.check("UpdateProduct", token); err != nil {
		return nil, err
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products[i].Name = in.Name
			f.products[i].Price = in.Price
			updated := f.products[i]
			return &updated, nil
		}
	}
	return nil, apiErr(404, "Product not found")
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, token string, id uint) error {
	if err := f.check("DeleteProduct", token); err != nil {
		return err
	}
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return apiErr(404, "Product not found")
}

func (f *fakeBackend) CreateCategory(ctx context.Context, token string, in backend.CategoryInput) (*backend.Category, error) {
	if err := f.check("CreateCategory", token); err != nil {
		return nil, err
	}
	c := backend.Category{ID: uint(len(f.categories) + 1), Name: in.Name, ImageURL: in.ImageURL}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeBackend) UpdateCategory(ctx context.Context, token string, id uint, in backend.CategoryInput) (*backend.Category, error) {
	if err := f.check("UpdateCategory", token); err != nil {
		return nil, err
	}
	return &backend.Category{ID: id, Name: in.Name, ImageURL: in.ImageURL}, nil
}

func (f *fakeBackend) DeleteCategory(ctx context.Context, token string, id uint) error {
	return f.check("DeleteCategory", token)
}

func (f *fakeBackend) CreateBanner(ctx context.Context, token string, in backend.BannerInput) (*backend.Banner, error) {
	if err := f.check("CreateBanner", token); err != nil {
		return nil, err
	}
	b := backend.Banner{ID: uint(len(f.banners) + 1), Title: in.Title, ImageURL: in.ImageURL, IsActive: in.IsActive}
	f.banners = append(f.banners, b)
	return &b, nil
}

func (f *fakeBackend) UpdateBanner(ctx context.Context, token string, id uint, in backend.BannerInput) (*backend.Banner, error) {
	if err := f.check("UpdateBanner", token); err != nil {
		return nil, err
	}
	return &backend.Banner{ID: id, Title: in.Title, ImageURL: in.ImageURL, IsActive: in.IsActive}, nil
}

func (f *fakeBackend) DeleteBanner(ctx context.Context, token string, id uint) error {
	return f.check("DeleteBanner", token)
}

func (f *fakeBackend) UpdateAbout(ctx context.Context, token string, in backend.About) (*backend.About, error) {
	if err := f.check("UpdateAbout", token); err != nil {
		return nil, err
	}
	f.about = in
	return &in, nil
}
