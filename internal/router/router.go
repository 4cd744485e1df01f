package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/controller"
	"github.com/ikkim/storefront/internal/middleware"
)

type Router struct {
	catalogController    *controller.CatalogController
	cartController       *controller.CartController
	cartEventsController *controller.CartEventsController
	orderController      *controller.OrderController
	authController       *controller.AuthController
	favoriteController   *controller.FavoriteController
	adminController      *controller.AdminController
	uploadController     *controller.UploadController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	cartEventsController *controller.CartEventsController,
	orderController *controller.OrderController,
	authController *controller.AuthController,
	favoriteController *controller.FavoriteController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		catalogController:    catalogController,
		cartController:       cartController,
		cartEventsController: cartEventsController,
		orderController:      orderController,
		authController:       authController,
		favoriteController:   favoriteController,
		adminController:      adminController,
		uploadController:     uploadController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware(r.config.Session))
	{
		api.GET("/home", r.catalogController.Home)
		api.GET("/products", r.catalogController.ListProducts)
		api.GET("/products/:id", r.catalogController.GetProduct)
		api.GET("/categories", r.catalogController.ListCategories)
		api.GET("/categories/:id", r.catalogController.GetCategory)
		api.GET("/about", r.catalogController.GetAbout)

		cart := api.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.GET("/events", r.cartEventsController.Subscribe)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		api.POST("/checkout", r.authMiddleware.OptionalUser(), r.orderController.Checkout)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", r.authController.Signup)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.RequireUser(), r.authController.GetMe)
		}

		api.GET("/profile/orders", r.authMiddleware.RequireUser(), r.orderController.ListMyOrders)

		favorites := api.Group("/favorites")
		favorites.Use(r.authMiddleware.RequireUser())
		{
			favorites.GET("", r.favoriteController.ListFavorites)
			favorites.POST("/:id", r.favoriteController.AddFavorite)
			favorites.DELETE("/:id", r.favoriteController.RemoveFavorite)
			favorites.POST("/:id/cart", r.favoriteController.MoveToCart)
		}

		api.POST("/admin/login", r.adminController.Login)

		admin := api.Group("/admin")
		admin.Use(r.authMiddleware.RequireAdmin())
		{
			admin.POST("/logout", r.adminController.Logout)

			admin.POST("/products", r.adminController.CreateProduct)
			admin.POST("/products/import", r.adminController.ImportProducts)
			admin.PUT("/products/:id", r.adminController.UpdateProduct)
			admin.DELETE("/products/:id", r.adminController.DeleteProduct)

			admin.POST("/categories", r.adminController.CreateCategory)
			admin.PUT("/categories/:id", r.adminController.UpdateCategory)
			admin.DELETE("/categories/:id", r.adminController.DeleteCategory)

			admin.GET("/banners", r.adminController.ListBanners)
			admin.POST("/banners", r.adminController.CreateBanner)
			admin.PUT("/banners/:id", r.adminController.UpdateBanner)
			admin.DELETE("/banners/:id", r.adminController.DeleteBanner)

			admin.PUT("/about", r.adminController.UpdateAbout)

			admin.GET("/orders", r.adminController.ListOrders)
			admin.GET("/orders/export", r.adminController.ExportOrders)

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
