package coupon

import (
	"context"
	"net/http"
	"strings"
	"time"

	"endurance-api/internal/common/models"
	types "endurance-api/internal/common/type"
	database "endurance-api/internal/pkg/db"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/repository"
)

type Service struct {
	ctx context.Context
	rp  repository.IRepository
}

type IService interface {
	Validate(code string) *types.Response
	Create(req *CreateCouponRequest) *types.Response
	List(q *ListCouponsRequest) *types.Response
	Update(id string, req *UpdateCouponRequest) *types.Response
	Delete(id string) *types.Response
}

func NewService(ctx context.Context, rp repository.IRepository) IService {
	return &Service{ctx: ctx, rp: rp}
}

// ListCouponsRequest carries the query-string filters, so booleans arrive as the
// strings browsers send.
type ListCouponsRequest struct {
	Sort   string `form:"sort" json:"sort" validate:"omitempty,oneof=asc desc"`
	Active string `form:"active" json:"active" validate:"omitempty,stringToBool"`
}

type CreateCouponRequest struct {
	Code        string     `json:"code" validate:"required,min=3,max=50"`
	Description string     `json:"description"`
	Percentage  int        `json:"percentage" validate:"required,gte=1,lte=100"`
	MaxUses     int        `json:"max_uses" validate:"gte=0"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type UpdateCouponRequest struct {
	Description *string    `json:"description"`
	Percentage  *int       `json:"percentage" validate:"omitempty,gte=1,lte=100"`
	Active      *bool      `json:"active"`
	MaxUses     *int       `json:"max_uses" validate:"omitempty,gte=0"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type ValidateResult struct {
	Valid      bool   `json:"valid"`
	Message    string `json:"message,omitempty"`
	Code       string `json:"code,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

// Validate is the public coupon check the checkout form calls as the user types.
// An unusable coupon is a valid response with Valid false, never an error.
func (s *Service) Validate(code string) *types.Response {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: ValidateResult{Valid: false, Message: "informe um cupom"},
		})
	}

	coupon, err := s.rp.Coupon.FindByCode(s.ctx, code)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: ValidateResult{Valid: false, Message: "cupom não encontrado"},
		})
	}

	if msg := usability(coupon); msg != "" {
		return helper.ParseResponse(&types.Response{
			Code: http.StatusOK,
			Data: ValidateResult{Valid: false, Message: msg},
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: ValidateResult{
			Valid:      true,
			Code:       coupon.Code,
			Percentage: coupon.Percentage,
		},
	})
}

func usability(c *models.Coupon) string {
	switch {
	case !c.Active:
		return "cupom inativo"
	case c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()):
		return "cupom expirado"
	case c.MaxUses > 0 && c.UsedCount >= c.MaxUses:
		return "cupom esgotado"
	}
	return ""
}

func (s *Service) Create(req *CreateCouponRequest) *types.Response {
	coupon := &models.Coupon{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		Percentage:  req.Percentage,
		Active:      true,
		MaxUses:     req.MaxUses,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := s.rp.Coupon.Create(s.ctx, coupon); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Falha ao criar cupom",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusCreated,
		Data: coupon,
	})
}

func (s *Service) List(q *ListCouponsRequest) *types.Response {
	var active *bool
	if q.Active != "" {
		b := q.Active == "true" || q.Active == "1"
		active = &b
	}

	coupons, err := s.rp.Coupon.List(s.ctx, database.DirectionEnum(q.Sort), active)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao listar cupons",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: coupons,
	})
}

func (s *Service) Update(id string, req *UpdateCouponRequest) *types.Response {
	updates := map[string]any{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Percentage != nil {
		updates["percentage"] = *req.Percentage
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.MaxUses != nil {
		updates["max_uses"] = *req.MaxUses
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = req.ExpiresAt
	}

	if len(updates) == 0 {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Nenhum campo para atualizar",
		})
	}

	if err := s.rp.Coupon.Update(s.ctx, id, updates); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Falha ao atualizar cupom",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{Code: http.StatusOK})
}

func (s *Service) Delete(id string) *types.Response {
	if err := s.rp.Coupon.Delete(s.ctx, id); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Falha ao remover cupom",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{Code: http.StatusOK})
}
