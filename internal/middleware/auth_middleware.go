package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OussemaBenslimene/Tasker/internal/auth"
)

// Context keys populated by AuthRequired.
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
)

// AuthRequired authenticates the request from the accessToken cookie, falling
// back to an Authorization Bearer header for clients without a cookie jar.
// An expired token gets 410 so the client knows to call the refresh endpoint
// instead of logging the user out.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("accessToken")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized! (Token not found)"})
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header format must be Bearer {token}"})
				return
			}
			tokenStr = parts[1]
		}

		claims, err := tokens.ParseAccessToken(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusGone, gin.H{"message": "Need to refresh token."})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized! Please login."})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID in token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}
