package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// Home returns banners, categories, featured and filtered products
// GET /api/home?category_id=&search=&sort=
func (ctrl *CatalogController) Home(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter, ok := productFilterFromQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.catalogService.Home(c.Request.Context(), filter)
	if err != nil {
		log.Error("Failed to load home page", err)
		apperrors.Respond(c, err, "load home")
		return
	}

	log.Debug("Home page loaded", map[string]interface{}{
		"products": len(page.Products),
		"featured": len(page.Featured),
	})
	c.JSON(http.StatusOK, page)
}

// ListProducts returns the filtered product list
// GET /api/products?category_id=&search=&sort=
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	filter, ok := productFilterFromQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.catalogService.Home(c.Request.Context(), filter)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch products", err)
		apperrors.Respond(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": page.Products,
		"count":    len(page.Products),
	})
}

// GetProduct returns a product and its related products
// GET /api/products/:id
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, err := ctrl.catalogService.ProductPage(c.Request.Context(), productID)
	if err != nil {
		apperrors.Respond(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListCategories returns all categories
// GET /api/categories
func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	categories, err := ctrl.catalogService.Categories(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch categories", err)
		apperrors.Respond(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetCategory returns a category with its filtered products
// GET /api/categories/:id?search=&sort=
func (ctrl *CatalogController) GetCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := productFilterFromQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.catalogService.CategoryPage(c.Request.Context(), categoryID, filter)
	if err != nil {
		apperrors.Respond(c, err, "get category")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAbout returns the about page content
// GET /api/about
func (ctrl *CatalogController) GetAbout(c *gin.Context) {
	about, err := ctrl.catalogService.About(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err, "get about")
		return
	}
	c.JSON(http.StatusOK, about)
}
