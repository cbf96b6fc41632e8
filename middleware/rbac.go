package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/accreditation-data-backend/internal/auth"
)

// RBACMiddleware allows the request through only when the user holds one of
// the listed roles. Runs after AuthMiddleware.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		user, ok := userVal.(auth.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user object"})
			return
		}

		for _, role := range allowedRoles {
			if user.Role.RoleName == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	}
}

// RequireDepartment rejects users that are not attached to any department.
// Data-entry routes run behind this so a misconfigured account fails fast.
func RequireDepartment() gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		user, ok := userVal.(auth.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user object"})
			return
		}

		// admins and reviewers operate across departments
		if user.Role.RoleName == auth.RoleAdmin || user.Role.RoleName == auth.RoleIQACDirector {
			c.Next()
			return
		}

		if user.DepartmentID == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no department assigned to this account"})
			return
		}

		c.Next()
	}
}
