package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup registers with the backend and signs the session in
// POST /api/auth/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Name, a valid email and password are required")
		return
	}

	user, err := ctrl.authService.Signup(c.Request.Context(), middleware.GetSessionID(c), req.Name, req.Email, req.Password)
	if err != nil {
		apperrors.Respond(c, err, "signup")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Signed up",
		"user":    user,
	})
}

// Login signs the session in
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email and password are required")
		return
	}

	user, err := ctrl.authService.Login(c.Request.Context(), middleware.GetSessionID(c), req.Email, req.Password)
	if err != nil {
		apperrors.Respond(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in",
		"user":    user,
	})
}

// Logout forgets the session identity. The cart is kept.
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.authService.Logout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to sign out", err)
		apperrors.Respond(c, err, "logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out",
	})
}

// GetMe returns the signed-in shopper
// GET /api/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": identity.User,
	})
}
