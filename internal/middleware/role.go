package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/officialid/officialid-api/internal/database"
	apierrors "github.com/officialid/officialid-api/internal/errors"
	"github.com/officialid/officialid-api/internal/models"
)

const contextKeyCurrentUser = "current_user"

// RequireRole loads the authenticated user and checks their role against the
// allowed set. The loaded user is stored in context for handlers.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		allowed := false
		for _, role := range roles {
			if user.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}

		c.Set(contextKeyCurrentUser, user)
		c.Next()
	}
}

// GetCurrentUser retrieves the user loaded by RequireRole or LoadUser.
func GetCurrentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get(contextKeyCurrentUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := userInterface.(models.User)
	return user, ok
}

// LoadUser loads the authenticated user into context without a role check.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(contextKeyCurrentUser, user)
		c.Next()
	}
}
