package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/bookings/internal/auth"
)

// TokenVerifier is kept small so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth rejects requests without a valid bearer token: a missing
// token is 401, a present-but-bad one is 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No token provided",
			})
			return
		}

		claims, err := m.jwt.Verify(raw)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(ctxClaimsKey, claims)

		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid. Some routes are public yet want identity
// when the caller offers one.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)

		if raw == "" {
			c.Next()
			return
		}

		claims, err := m.jwt.Verify(raw)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(ctxClaimsKey, claims)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")

	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
}

// ClaimsFromContext returns the verified identity, when one was attached.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ctxClaimsKey)

	if !ok {
		return nil, false
	}

	claims, ok := v.(*auth.Claims)

	return claims, ok
}
