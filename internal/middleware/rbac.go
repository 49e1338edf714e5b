package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academics-api/internal/models"
	appErrors "github.com/noah-isme/academics-api/pkg/errors"
	"github.com/noah-isme/academics-api/pkg/response"
)

// RequireRoles lets through clients whose token carries one of roles.
func RequireRoles(roles ...models.ClientRole) gin.HandlerFunc {
	allowed := make(map[models.ClientRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := ClientFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "token scope does not allow this operation"))
			return
		}
		c.Next()
	}
}
