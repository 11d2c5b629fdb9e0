package checkout

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	checkout := e.Group("/v1/checkout")

	checkout.POST("/create", h.CreateCheckout)
	checkout.GET("/status/:order_id", h.CheckStatus)
	checkout.POST("/callback", h.GatewayCallback)

	e.GET("/v1/plans", h.ListPlans)
}
