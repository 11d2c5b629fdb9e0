package coupon

import (
	"endurance-api/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	coupons := e.Group("/v1/coupons")

	coupons.POST("/validate", h.Validate)

	admin := coupons.Group("", middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.POST("", h.Create)
	admin.GET("", h.List)
	admin.PATCH("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}
