package coupon

import (
	"context"
	"net/http"

	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/validation"
	couponService "endurance-api/internal/service/coupon"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx           context.Context
	couponService couponService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, couponService couponService.IService) IHandler {
	return &Handler{
		ctx:           ctx,
		couponService: couponService,
	}
}

// Validate godoc
// @Summary      Validate a coupon code
// @Description  Public check the checkout form calls; an unusable coupon comes back valid=false, never as an error
// @Tags         Coupons
// @Accept       json
// @Produce      json
// @Param        request  body      map[string]string  true  "Payload with the code field"
// @Success      200      {object}  types.ResponseAPI{data=couponService.ValidateResult}
// @Router       /v1/coupons/validate [post]
func (h *Handler) Validate(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.couponService.Validate(req.Code))
}

// Create godoc
// @Summary      Create a coupon
// @Tags         Coupons
// @Accept       json
// @Produce      json
// @Param        request  body      couponService.CreateCouponRequest  true  "Coupon"
// @Success      201      {object}  types.ResponseAPI
// @Failure      400      {object}  types.ResponseAPI
// @Security     BearerAuth
// @Router       /v1/coupons [post]
func (h *Handler) Create(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req couponService.CreateCouponRequest
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

	send(h.couponService.Create(&req))
}

// List godoc
// @Summary      List coupons
// @Tags         Coupons
// @Produce      json
// @Param        sort    query     string  false  "Sort by creation date"  Enums(asc, desc)
// @Param        active  query     string  false  "Filter by active flag"
// @Success      200     {object}  types.ResponseAPI
// @Failure      400     {object}  types.ResponseAPI
// @Security     BearerAuth
// @Router       /v1/coupons [get]
func (h *Handler) List(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var query couponService.ListCouponsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid query parameters",
			Error:   err,
		}))
		return
	}

	if err := validation.Validate(&query); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
			Error:   err,
		}))
		return
	}

	send(h.couponService.List(&query))
}

// Update godoc
// @Summary      Update a coupon
// @Tags         Coupons
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Coupon ID"
// @Param        request  body      couponService.UpdateCouponRequest  true  "Fields to update"
// @Success      200      {object}  types.ResponseAPI
// @Failure      400      {object}  types.ResponseAPI
// @Security     BearerAuth
// @Router       /v1/coupons/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req couponService.UpdateCouponRequest
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

	send(h.couponService.Update(c.Param("id"), &req))
}

// Delete godoc
// @Summary      Delete a coupon
// @Tags         Coupons
// @Produce      json
// @Param        id   path      string  true  "Coupon ID"
// @Success      200  {object}  types.ResponseAPI
// @Security     BearerAuth
// @Router       /v1/coupons/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	send(h.couponService.Delete(c.Param("id")))
}
