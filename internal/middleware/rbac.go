package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/znlumins/webkalenderaihmpsti/internal/models"
	appErrors "github.com/znlumins/webkalenderaihmpsti/pkg/errors"
	"github.com/znlumins/webkalenderaihmpsti/pkg/response"
)

// RBAC admits only callers holding one of the allowed roles. With no roles
// listed any authenticated admin passes. It must run after JWT.
func RBAC(allowed ...models.Role) gin.HandlerFunc {
	roles := make(map[models.Role]struct{}, len(allowed))
	for _, r := range allowed {
		roles[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.Role.Valid() {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		if len(roles) > 0 {
			if _, ok := roles[claims.Role]; !ok {
				response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "super admin only"))
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
