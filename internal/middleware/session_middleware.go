package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/storefront/config"
)

const SessionIDKey = "session_id"

// SessionMiddleware ties every request to a browser session. The id lives in
// a cookie; a missing or malformed cookie starts a new session.
func SessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		var sessionID string
		raw, err := c.Cookie(cfg.CookieName)
		if err == nil {
			var parsed uuid.UUID
			// Braced, urn and uppercase forms all name the same session.
			if parsed, err = uuid.Parse(raw); err == nil {
				sessionID = parsed.String()
			}
		}
		if err != nil {
			sessionID = uuid.NewString()
			log.Debug("Starting new session", map[string]interface{}{
				"session_id": sessionID,
			})
		}

		// Refreshed on every request so the cookie expiry slides.
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(cfg.CookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   cfg.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session of the current request.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
