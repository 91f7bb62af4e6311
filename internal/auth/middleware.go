package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/moodtracker/internal/storage"
)

// Middleware resolves the Bearer token to a user and stores it on the
// context under "user".
func Middleware(tokens *TokenService, users storage.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if userID, err := tokens.Validate(token); err == nil {
				if user, err := users.GetByID(c.Request.Context(), userID); err == nil {
					c.Set("user", user)
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
