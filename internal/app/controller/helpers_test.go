package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/backend"
	"github.com/stretchr/testify/require"
)

const (
	testSessionID = "0d6f1f5e-2b7a-4c59-9a43-8b1f3f0c2e11"
	testPassword  = "secret"
	userToken     = "user-token"
	adminToken    = "admin-token"
)

// fakeAPI serves the subset of the backend API the storefront calls.
type fakeAPI struct {
	mu sync.Mutex

	products  map[uint]backend.Product
	favorites map[uint]bool
	orders    []backend.OrderRequest
	created   []backend.ProductInput

	// orderStatus, when set, is returned by POST /orders.
	orderStatus int
	// orderAuth records the Authorization header of each order submission.
	orderAuth []string
}

func newFakeAPI() *fakeAPI {
	jewelry := uint(1)
	created := backend.Time{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	return &fakeAPI{
		products: map[uint]backend.Product{
			1: {ID: 1, Name: "Silver Ring", Price: 19.99, Stock: 5, CategoryID: &jewelry, IsFeatured: true, CreatedAt: created},
			2: {ID: 2, Name: "Gold Chain", Price: 40, Stock: 0, CategoryID: &jewelry, CreatedAt: created},
			3: {ID: 3, Name: "Mug", Price: 5.5, Stock: 100, CreatedAt: created},
		},
		favorites: map[uint]bool{},
	}
}

func (f *fakeAPI) submitted() ([]backend.OrderRequest, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.OrderRequest(nil), f.orders...), append([]string(nil), f.orderAuth...)
}

func (f *fakeAPI) createdProducts() []backend.ProductInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.ProductInput(nil), f.created...)
}

func (f *fakeAPI) failOrders(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderStatus = status
}

func writeAPIJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func apiDetail(w http.ResponseWriter, status int, detail string) {
	writeAPIJSON(w, status, backend.ErrorResponse{Detail: detail})
}

func (f *fakeAPI) bearer(r *http.Request, token string) bool {
	return r.Header.Get("Authorization") == "Bearer "+token
}

func (f *fakeAPI) pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(r.PathValue("id"), 10, 64)
	return uint(id)
}

func (f *fakeAPI) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		category := r.URL.Query().Get("category_id")
		out := []backend.Product{}
		for id := uint(1); id <= uint(len(f.products)+10); id++ {
			p, ok := f.products[id]
			if !ok {
				continue
			}
			if category != "" && (p.CategoryID == nil || strconv.FormatUint(uint64(*p.CategoryID), 10) != category) {
				continue
			}
			out = append(out, p)
		}
		writeAPIJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		p, ok := f.products[f.pathID(r)]
		if !ok {
			apiDetail(w, http.StatusNotFound, "Product not found")
			return
		}
		writeAPIJSON(w, http.StatusOK, p)
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeAPIJSON(w, http.StatusOK, []backend.Category{{ID: 1, Name: "Jewelry"}})
	})
	mux.HandleFunc("GET /api/banners", func(w http.ResponseWriter, r *http.Request) {
		writeAPIJSON(w, http.StatusOK, []backend.Banner{{ID: 1, Title: "Sale", ImageURL: "/b.png", IsActive: true}})
	})
	mux.HandleFunc("GET /api/about", func(w http.ResponseWriter, r *http.Request) {
		writeAPIJSON(w, http.StatusOK, backend.About{Content: "Since 1990"})
	})

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds backend.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != testPassword {
			apiDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeAPIJSON(w, http.StatusOK, backend.AuthResponse{
			User:  backend.User{ID: "7", Name: "Ada", Email: creds.Email},
			Token: userToken,
		})
	})
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var creds backend.AdminCredentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != testPassword {
			apiDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeAPIJSON(w, http.StatusOK, backend.AdminLoginResponse{Token: adminToken})
	})

	mux.HandleFunc("GET /api/favorites", func(w http.ResponseWriter, r *http.Request) {
		if !f.bearer(r, userToken) {
			apiDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []backend.Product{}
		for id := range f.favorites {
			out = append(out, f.products[id])
		}
		writeAPIJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /api/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.bearer(r, userToken) {
			apiDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		id := f.pathID(r)
		if f.favorites[id] {
			apiDetail(w, http.StatusBadRequest, "Product already in favorites")
			return
		}
		f.favorites[id] = true
		writeAPIJSON(w, http.StatusCreated, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("DELETE /api/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.favorites, f.pathID(r))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.orderAuth = append(f.orderAuth, r.Header.Get("Authorization"))
		if f.orderStatus != 0 {
			apiDetail(w, f.orderStatus, "Order service unavailable")
			return
		}
		var order backend.OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&order)
		f.orders = append(f.orders, order)
		writeAPIJSON(w, http.StatusCreated, backend.Order{
			ID:           backend.ID(strconv.Itoa(len(f.orders))),
			CustomerName: order.CustomerName,
			Items:        order.Items,
			TotalAmount:  order.TotalAmount,
			Status:       "pending",
		})
	})
	mux.HandleFunc("GET /api/orders/user", func(w http.ResponseWriter, r *http.Request) {
		if !f.bearer(r, userToken) {
			apiDetail(w, http.StatusUnauthorized, "Token expired")
			return
		}
		writeAPIJSON(w, http.StatusOK, []backend.Order{{ID: "1", Status: "delivered"}})
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		if !f.bearer(r, adminToken) {
			apiDetail(w, http.StatusForbidden, "Admin only")
			return
		}
		writeAPIJSON(w, http.StatusOK, []backend.Order{{
			ID: "1", CustomerName: "Ada", Status: "pending", TotalAmount: 19.99,
			Items: []backend.OrderItem{{ID: 1, Name: "Silver Ring", Price: 19.99, Quantity: 1}},
		}})
	})
	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		if !f.bearer(r, adminToken) {
			apiDetail(w, http.StatusForbidden, "Admin only")
			return
		}
		var in backend.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.created = append(f.created, in)
		writeAPIJSON(w, http.StatusCreated, backend.Product{ID: uint(100 + len(f.created)), Name: in.Name, Price: in.Price})
	})

	return mux
}

type stubUploader struct{}

func (stubUploader) PresignImageUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedURLResponse, error) {
	if err := storage.ValidateContentType(contentType, storage.ImageContentTypes); err != nil {
		return nil, err
	}
	if folder == "" {
		folder = "products"
	}
	key := folder + "/fixed.png"
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.example/" + key + "?sig=1",
		FileURL:   "https://cdn.example/" + key,
		Key:       key,
	}, nil
}

// testApp wires every controller against the fake API.
type testApp struct {
	router   *gin.Engine
	api      *fakeAPI
	store    repository.Store
	sessions service.SessionService
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := newFakeAPI()
	server := httptest.NewServer(api.routes())
	t.Cleanup(server.Close)

	client, err := backend.NewClient(backend.Config{BaseURL: server.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	store := repository.NewMemoryStore()
	sessions := service.NewSessionService(store, nil)
	catalog := service.NewCatalogService(client)
	auth := service.NewAuthService(client, store)

	cartCtrl := NewCartController(sessions, catalog)
	catalogCtrl := NewCatalogController(catalog)
	orderCtrl := NewOrderController(service.NewOrderService(client), sessions)
	authCtrl := NewAuthController(auth)
	favoriteCtrl := NewFavoriteController(service.NewFavoriteService(client, catalog), sessions)
	adminCtrl := NewAdminController(service.NewAdminService(client), auth)
	uploadCtrl := NewUploadController(stubUploader{})
	authMW := middleware.NewAuthMiddleware(auth)

	r := gin.New()
	r.Use(middleware.SessionMiddleware(config.SessionConfig{CookieName: "sf_session", CookieMaxAge: time.Hour}))

	routes := r.Group("/api")
	routes.GET("/home", catalogCtrl.Home)
	routes.GET("/products", catalogCtrl.ListProducts)
	routes.GET("/products/:id", catalogCtrl.GetProduct)
	routes.GET("/categories", catalogCtrl.ListCategories)
	routes.GET("/categories/:id", catalogCtrl.GetCategory)
	routes.GET("/about", catalogCtrl.GetAbout)

	routes.GET("/cart", cartCtrl.GetCart)
	routes.DELETE("/cart", cartCtrl.ClearCart)
	routes.POST("/cart/items", cartCtrl.AddItem)
	routes.PUT("/cart/items/:id", cartCtrl.UpdateItem)
	routes.DELETE("/cart/items/:id", cartCtrl.RemoveItem)

	routes.POST("/checkout", authMW.OptionalUser(), orderCtrl.Checkout)

	routes.POST("/auth/login", authCtrl.Login)
	routes.POST("/auth/logout", authCtrl.Logout)
	routes.GET("/auth/me", authMW.RequireUser(), authCtrl.GetMe)
	routes.GET("/profile/orders", authMW.RequireUser(), orderCtrl.ListMyOrders)

	fav := routes.Group("/favorites", authMW.RequireUser())
	fav.GET("", favoriteCtrl.ListFavorites)
	fav.POST("/:id", favoriteCtrl.AddFavorite)
	fav.DELETE("/:id", favoriteCtrl.RemoveFavorite)
	fav.POST("/:id/cart", favoriteCtrl.MoveToCart)

	routes.POST("/admin/login", adminCtrl.Login)
	admin := routes.Group("/admin", authMW.RequireAdmin())
	admin.POST("/logout", adminCtrl.Logout)
	admin.POST("/products", adminCtrl.CreateProduct)
	admin.POST("/products/import", adminCtrl.ImportProducts)
	admin.GET("/orders", adminCtrl.ListOrders)
	admin.GET("/orders/export", adminCtrl.ExportOrders)
	admin.POST("/upload/presigned-url", uploadCtrl.GeneratePresignedURL)

	return &testApp{router: r, api: api, store: store, sessions: sessions}
}

func (a *testApp) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req)
}

// cart returns the current cart of the test session.
func (a *testApp) cart(t *testing.T) model.Cart {
	t.Helper()
	cart, err := a.sessions.Cart(context.Background(), testSessionID)
	require.NoError(t, err)
	return cart.Snapshot()
}

func (a *testApp) send(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: testSessionID})
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	w := a.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var cart CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart), w.Body.String())
	return cart
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return fmt.Sprint(decodeBody(t, w)["error"])
}
