package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
	"github.com/trth/performance-api/pkg/response"
)

// PermissionChecker resolves whether an employee currently holds a delegated
// permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool
}

// RequirePermission blocks requests unless the caller is the system admin or
// holds an active delegation for the permission. Missing claims deny.
func RequirePermission(checker PermissionChecker, permission models.DelegationPermission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.IsAdmin || checker.HasPermission(c.Request.Context(), claims.EmpCode, permission) {
			c.Next()
			return
		}
		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireAdmin blocks requests from everyone but the system admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.IsAdmin {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
