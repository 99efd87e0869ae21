// Package middleware contains the session gate placed in front of protected routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriapp/internal/feature/auth/usecase"
)

// ContextUserID is the gin context key holding the authenticated user's ID.
const ContextUserID = "userID"

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "session"

const (
	msgUnauthorized = "No autorizado"
	msgInternal     = "Error interno del servidor"
)

// SessionResolver maps a session token to the user that owns it.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uint, error)
}

// SessionRequired rejects requests whose session cookie is missing or does not resolve
// to a live session with 401. A session store failure is a 500, so outages do not
// log clients out. On success the user ID is stored under ContextUserID.
func SessionRequired(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
			return
		}

		userID, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if !usecase.IsStaleSession(err) {
				slog.Error("session lookup failed", "error", err, "path", c.FullPath())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
				return
			}
			slog.Debug("session rejected", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// UserID returns the user ID stored by SessionRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
