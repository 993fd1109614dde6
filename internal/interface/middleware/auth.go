package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourplaces/backend/pkg/apperr"
	"github.com/yourplaces/backend/pkg/helpers"
)

const (
	// CtxUserIDKey holds the verified caller identity for downstream handlers.
	CtxUserIDKey = "userID"
	// CtxUserEmailKey holds the verified caller email.
	CtxUserEmailKey = "userEmail"
)

// Auth verifies the bearer token and injects the caller identity into the
// Gin context. It only establishes WHO is calling; ownership of a specific
// resource is checked by the handler that knows which resource is targeted.
// Pre-flight requests pass through unverified.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			abortWithError(c, apperr.Authentication("authentication failed", nil))
			return
		}

		claims, err := jwt.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abortWithError(c, apperr.Authentication("authentication failed", err))
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
