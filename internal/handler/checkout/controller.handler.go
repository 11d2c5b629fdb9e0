package checkout

import (
	"context"
	"net/http"

	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/validation"
	checkoutService "endurance-api/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	checkoutService checkoutService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, checkoutService checkoutService.IService) IHandler {
	return &Handler{
		ctx:             ctx,
		checkoutService: checkoutService,
	}
}

// CreateCheckout godoc
// @Summary      Create a plan checkout
// @Description  Charges the selected plan through PIX, boleto or credit card and returns the method-specific payment payload
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request  body      checkoutService.CreateCheckoutRequest  true  "Checkout request"
// @Success      201      {object}  types.ResponseAPI{data=checkoutService.PaymentResult}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      422      {object}  types.ResponseAPI
// @Router       /v1/checkout/create [post]
func (h *Handler) CreateCheckout(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	if err := validation.Validate(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.CreateCheckout(&req))
}

// CheckStatus godoc
// @Summary      Check checkout status
// @Description  Returns the transaction status and, while pending, the seconds left before it expires
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        order_id  path      string  true  "Order ID"
// @Success      200       {object}  types.ResponseAPI{data=checkoutService.StatusResponse}
// @Failure      404       {object}  types.ResponseAPI
// @Router       /v1/checkout/status/{order_id} [get]
func (h *Handler) CheckStatus(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	orderID := c.Param("order_id")
	if orderID == "" {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "order_id is required",
		}))
		return
	}

	send(h.checkoutService.CheckStatus(orderID))
}

// GatewayCallback godoc
// @Summary      Payment gateway notification webhook
// @Description  Receives the provider's status notification and flips pending transactions to paid after checking the signature
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request  body      map[string]interface{}  true  "Gateway notification payload"
// @Success      200      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /v1/checkout/callback [post]
func (h *Handler) GatewayCallback(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
		return
	}

	result := h.checkoutService.HandleCallback(payload)
	c.JSON(result.Code, gin.H{"status": "ok"})
}

// ListPlans godoc
// @Summary      List active plans
// @Description  Returns the plan catalog with per-period prices for the purchase intro step
// @Tags         Checkout
// @Produce      json
// @Success      200  {object}  types.ResponseAPI
// @Router       /v1/plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	send(h.checkoutService.ListPlans())
}
