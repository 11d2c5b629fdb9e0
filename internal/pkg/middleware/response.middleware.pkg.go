package middleware

import (
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/logger"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestInit stamps a start time on the context and logs the request line once it
// completes.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.HTTP.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// ResponseInit installs the "send" function handlers and middleware use to emit the
// API envelope. Aborts the chain so a handler cannot double-write after sending.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("send", func(r *types.Response) {
			if r == nil {
				r = &types.Response{Code: http.StatusInternalServerError, Message: "Internal server error"}
			}

			body := types.ResponseAPI{
				Code:    r.Code,
				Message: r.Message,
				Data:    r.Data,
			}
			if r.Error != nil {
				body.Error = r.Error.Error()
			}

			c.AbortWithStatusJSON(r.Code, body)
		})
		c.Next()
	}
}

// CorsMiddleware allows the dashboard frontend to call the API from another origin.
func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
