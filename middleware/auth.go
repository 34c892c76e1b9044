package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitebank/backend/internal/auth"
)

// identityKey is the gin context key the verified session identity is
// stored under.
const identityKey = "session_identity"

// RequireSession gates a route group behind the session cookie. The token
// is verified cryptographically; on success the embedded identity is
// attached to the request context for downstream handlers.
//
// Missing cookie, malformed token, bad signature and expiry all produce
// the same 401 response, so the failure cause never leaks to the client.
func RequireSession(tokens *auth.TokenManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil || raw == "" {
			rejectUnauthorized(c)
			return
		}

		ident, err := tokens.Verify(raw)
		if err != nil {
			rejectUnauthorized(c)
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

func rejectUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// IdentityFromContext returns the identity attached by RequireSession.
// Handlers must take the user id from here and never from request input.
func IdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*auth.Identity)
	return ident, ok
}
