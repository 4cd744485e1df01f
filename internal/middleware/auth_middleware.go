package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
)

// Context keys for identity information
const (
	IdentityKey   = "identity"
	AdminTokenKey = "admin_token"
)

// AuthMiddleware resolves the session's backend tokens. It must run after
// SessionMiddleware.
type AuthMiddleware struct {
	auth service.AuthService
}

func NewAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// OptionalUser attaches the shopper identity when the session is signed in
// and continues as guest otherwise.
func (m *AuthMiddleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity, err := m.auth.CurrentIdentity(c.Request.Context(), GetSessionID(c))
		switch {
		case err == nil:
			c.Set(IdentityKey, identity)
		case errors.Is(err, service.ErrNotSignedIn), errors.Is(err, service.ErrSessionExpired):
			log.Debug("Continuing as guest", map[string]interface{}{
				"reason": err.Error(),
			})
		default:
			log.Warn("Failed to resolve session identity", map[string]interface{}{
				"error": err.Error(),
			})
		}
		c.Next()
	}
}

// RequireUser rejects guests with 401.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		identity, err := m.auth.CurrentIdentity(c.Request.Context(), GetSessionID(c))
		if err != nil {
			log.Warn("Sign-in required", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			apperrors.Abort(c, err, "authenticate")
			return
		}

		c.Set(IdentityKey, identity)
		log.Debug("User authenticated", map[string]interface{}{
			"user_id": identity.User.ID,
		})
		c.Next()
	}
}

// RequireAdmin rejects sessions without an admin token.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := m.auth.AdminToken(c.Request.Context(), GetSessionID(c))
		if err != nil {
			log.Warn("Admin sign-in required", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Abort(c, err, "authenticate admin")
			return
		}

		c.Set(AdminTokenKey, token)
		c.Next()
	}
}

// GetIdentity returns the signed-in shopper, if any.
func GetIdentity(c *gin.Context) (*service.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*service.Identity)
	return identity, ok
}

// GetUserToken returns the shopper's backend token or "" for guests.
func GetUserToken(c *gin.Context) string {
	if identity, ok := GetIdentity(c); ok {
		return identity.Token
	}
	return ""
}

// GetAdminToken returns the admin token set by RequireAdmin.
func GetAdminToken(c *gin.Context) string {
	return c.GetString(AdminTokenKey)
}
