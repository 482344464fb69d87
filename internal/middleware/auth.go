package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tailor_shop/internal/models"
	"tailor_shop/internal/redis"
	"tailor_shop/internal/services"
)

const currentUserKey = "current_user"

// RequireAuth resolves the Bearer token to a Redis session and loads
// the user behind it into the request context. Role checks stay in the
// core; this middleware only establishes identity.
func RequireAuth(sessions *redis.Client, userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "Authorization token required")
			return
		}

		session, err := sessions.GetSession(token)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Session expired or invalid")
			return
		}

		user, err := userService.GetUserByID(session.UserID)
		if err != nil || !user.IsActive {
			abortUnauthorized(c, "INVALID_TOKEN", "Session user no longer valid")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed in the context by
// RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, error) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil, errors.New("no authenticated user in context")
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil, errors.New("unexpected user type in context")
	}
	return user, nil
}

// SetCurrentUser injects a user directly, bypassing session lookup.
// Used by handler tests.
func SetCurrentUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}
