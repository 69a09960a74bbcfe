package middleware

import (
	"net/http"
	"strings"

	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	UserKey   = "user"
	TokenKey  = "token"
)

// AuthMiddleware validates the bearer token against the signing secret and
// the user's active-token list, then stores the loaded user in the context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}
		token := parts[1]

		user, err := authService.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Next()
	}
}
