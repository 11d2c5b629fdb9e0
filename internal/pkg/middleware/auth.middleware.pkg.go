package middleware

import (
	"net/http"

	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		send := c.MustGet("send").(func(r *types.Response))
		if token == "" {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "token not found"}))
			return
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "invalid token", Error: err}))
			return
		}

		c.Set("claims", claims)
		c.Set("auth", *claims)
		c.Next()
	}
}

// RequireRole gates a route group on the role carried in the token. Must run
// after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		send := c.MustGet("send").(func(r *types.Response))

		auth, ok := c.MustGet("auth").(types.UserWithAuth)
		if !ok || auth.Role != role {
			send(helper.ParseResponse(&types.Response{Code: http.StatusForbidden, Message: "insufficient role"}))
			return
		}

		c.Next()
	}
}
