package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/pkg/backend"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminController struct {
	adminService service.AdminService
	authService  service.AuthService
}

func NewAdminController(adminService service.AdminService, authService service.AuthService) *AdminController {
	return &AdminController{
		adminService: adminService,
		authService:  authService,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login stores an admin token on the session
// POST /api/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "username and password are required")
		return
	}

	if err := ctrl.authService.AdminLogin(c.Request.Context(), middleware.GetSessionID(c), req.Username, req.Password); err != nil {
		apperrors.Respond(c, err, "admin login")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Admin signed in",
	})
}

// Logout drops the admin token
// POST /api/admin/logout
func (ctrl *AdminController) Logout(c *gin.Context) {
	if err := ctrl.authService.AdminLogout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		apperrors.Respond(c, err, "admin logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Admin signed out",
	})
}

// CreateProduct POST /api/admin/products
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	var req backend.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.adminService.CreateProduct(c.Request.Context(), middleware.GetAdminToken(c), req)
	if err != nil {
		apperrors.Respond(c, err, "create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct PUT /api/admin/products/:id
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req backend.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product data")
		return
	}

	product, err := ctrl.adminService.UpdateProduct(c.Request.Context(), middleware.GetAdminToken(c), id, req)
	if err != nil {
		apperrors.Respond(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct DELETE /api/admin/products/:id
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.adminService.DeleteProduct(c.Request.Context(), middleware.GetAdminToken(c), id); err != nil {
		apperrors.Respond(c, err, "delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// ImportProducts creates products from an uploaded .xlsx workbook. Invalid
// rows are skipped and reported.
// POST /api/admin/products/import (multipart field "file")
func (ctrl *AdminController) ImportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "An .xlsx file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	inputs, skipped, err := service.ReadProductsXLSX(file)
	if err != nil {
		log.Warn("Rejected product workbook", map[string]interface{}{
			"filename": header.Filename,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	token := middleware.GetAdminToken(c)
	created := 0
	for _, in := range inputs {
		if _, err := ctrl.adminService.CreateProduct(c.Request.Context(), token, in); err != nil {
			// An expired admin token fails every remaining row.
			if info := apperrors.ParseError(err, "create product"); info.Status == http.StatusUnauthorized {
				apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
				return
			}
			skipped = append(skipped, service.ProductRowError{Reason: fmt.Sprintf("%s: %v", in.Name, err)})
			continue
		}
		created++
	}

	log.Info("Products imported", map[string]interface{}{
		"filename": header.Filename,
		"created":  created,
		"skipped":  len(skipped),
	})
	if skipped == nil {
		skipped = []service.ProductRowError{}
	}
	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"skipped": skipped,
	})
}

// CreateCategory POST /api/admin/categories
func (ctrl *AdminController) CreateCategory(c *gin.Context) {
	var req backend.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}
	category, err := ctrl.adminService.CreateCategory(c.Request.Context(), middleware.GetAdminToken(c), req)
	if err != nil {
		apperrors.Respond(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory PUT /api/admin/categories/:id
func (ctrl *AdminController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req backend.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category data")
		return
	}
	category, err := ctrl.adminService.UpdateCategory(c.Request.Context(), middleware.GetAdminToken(c), id, req)
	if err != nil {
		apperrors.Respond(c, err, "update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory DELETE /api/admin/categories/:id
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.adminService.DeleteCategory(c.Request.Context(), middleware.GetAdminToken(c), id); err != nil {
		apperrors.Respond(c, err, "delete category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted",
	})
}

// ListBanners returns all banners, inactive included
// GET /api/admin/banners
func (ctrl *AdminController) ListBanners(c *gin.Context) {
	banners, err := ctrl.adminService.Banners(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err, "list banners")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"banners": banners,
	})
}

// CreateBanner POST /api/admin/banners
func (ctrl *AdminController) CreateBanner(c *gin.Context) {
	var req backend.BannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid banner data")
		return
	}
	banner, err := ctrl.adminService.CreateBanner(c.Request.Context(), middleware.GetAdminToken(c), req)
	if err != nil {
		apperrors.Respond(c, err, "create banner")
		return
	}
	c.JSON(http.StatusCreated, banner)
}

// UpdateBanner PUT /api/admin/banners/:id
func (ctrl *AdminController) UpdateBanner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req backend.BannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid banner data")
		return
	}
	banner, err := ctrl.adminService.UpdateBanner(c.Request.Context(), middleware.GetAdminToken(c), id, req)
	if err != nil {
		apperrors.Respond(c, err, "update banner")
		return
	}
	c.JSON(http.StatusOK, banner)
}

// DeleteBanner DELETE /api/admin/banners/:id
func (ctrl *AdminController) DeleteBanner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.adminService.DeleteBanner(c.Request.Context(), middleware.GetAdminToken(c), id); err != nil {
		apperrors.Respond(c, err, "delete banner")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Banner deleted",
	})
}

// UpdateAbout PUT /api/admin/about
func (ctrl *AdminController) UpdateAbout(c *gin.Context) {
	var req backend.About
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid about content")
		return
	}
	about, err := ctrl.adminService.UpdateAbout(c.Request.Context(), middleware.GetAdminToken(c), req)
	if err != nil {
		apperrors.Respond(c, err, "update about")
		return
	}
	c.JSON(http.StatusOK, about)
}

// ListOrders GET /api/admin/orders
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	orders, err := ctrl.adminService.Orders(c.Request.Context(), middleware.GetAdminToken(c))
	if err != nil {
		apperrors.Respond(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// ExportOrders downloads all orders as a workbook
// GET /api/admin/orders/export
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	buf, err := ctrl.adminService.ExportOrders(c.Request.Context(), middleware.GetAdminToken(c))
	if err != nil {
		apperrors.Respond(c, err, "export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
