package delivery

import (
	"net/http"
	"strings"

	"github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the resolved user on
// the context under "user" and "userID".
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			abortUnauthorized(c, "bearer token required")
			return
		}

		user, err := authUsecase.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}
