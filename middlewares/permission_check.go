package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluewave/tablepos/services"
	"github.com/bluewave/tablepos/utils"
)

// RequirePermission aborts the request when the authenticated user lacks
// the permission codename. Superusers always pass.
func RequirePermission(users *services.UserService, codename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, exists := c.Get("userID")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		userID, ok := userIDValue.(uint)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		allowed, err := users.HasPermission(userID, codename)
		if err != nil || !allowed {
			utils.RespondError(c, http.StatusForbidden, errors.New(codename+" permission required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
