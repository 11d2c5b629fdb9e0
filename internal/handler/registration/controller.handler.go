package registration

import (
	"context"
	"net/http"

	"endurance-api/internal/common/enum"
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/brdoc"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/validation"
	registrationService "endurance-api/internal/service/registration"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx                 context.Context
	registrationService registrationService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, registrationService registrationService.IService) IHandler {
	return &Handler{
		ctx:                 ctx,
		registrationService: registrationService,
	}
}

// draftFlow resolves the :flow path segment; empty response means it was invalid
// and the request was already answered.
func draftFlow(c *gin.Context, send func(r *types.Response)) (enum.WizardFlowEnum, bool) {
	flow := enum.WizardFlowEnum(c.Param("flow"))
	if !flow.IsValid() {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "unknown wizard flow",
		}))
		return "", false
	}
	return flow, true
}

// CreateDraft godoc
// @Summary      Start a wizard draft
// @Description  Creates an empty draft for the purchase or signup wizard and returns its id and first step
// @Tags         Registration
// @Produce      json
// @Param        flow  path      string  true  "Wizard flow (purchase or signup)"
// @Success      201   {object}  types.ResponseAPI{data=registrationService.DraftResponse}
// @Failure      400   {object}  types.ResponseAPI
// @Router       /v1/registration/{flow}/drafts [post]
func (h *Handler) CreateDraft(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	send(h.registrationService.CreateDraft(flow))
}

// GetDraft godoc
// @Summary      Resume a wizard draft
// @Description  Returns the persisted draft so a reloaded client picks up where it stopped
// @Tags         Registration
// @Produce      json
// @Param        flow  path      string  true  "Wizard flow"
// @Param        id    path      string  true  "Draft ID"
// @Success      200   {object}  types.ResponseAPI{data=registrationService.DraftResponse}
// @Failure      404   {object}  types.ResponseAPI
// @Router       /v1/registration/{flow}/drafts/{id} [get]
func (h *Handler) GetDraft(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	send(h.registrationService.GetDraft(flow, c.Param("id")))
}

// UpdateDraft godoc
// @Summary      Update draft fields
// @Description  Patches the supplied fields onto the draft, applying CPF/phone/CEP masks, and persists write-through
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        flow     path      string                           true  "Wizard flow"
// @Param        id       path      string                           true  "Draft ID"
// @Param        request  body      registrationService.FormPatch    true  "Fields to update"
// @Success      200      {object}  types.ResponseAPI{data=registrationService.DraftResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      404      {object}  types.ResponseAPI
// @Router       /v1/registration/{flow}/drafts/{id} [patch]
func (h *Handler) UpdateDraft(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	var patch registrationService.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.registrationService.UpdateDraft(flow, c.Param("id"), &patch))
}

// Next godoc
// @Summary      Advance the wizard
// @Description  Validates the current step and moves the draft forward; a failing step returns 422 with the field message
// @Tags         Registration
// @Produce      json
// @Param        flow  path      string  true  "Wizard flow"
// @Param        id    path      string  true  "Draft ID"
// @Success      200   {object}  types.ResponseAPI{data=registrationService.DraftResponse}
// @Failure      422   {object}  types.ResponseAPI
// @Router       /v1/registration/{flow}/drafts/{id}/next [post]
func (h *Handler) Next(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	send(h.registrationService.Next(flow, c.Param("id")))
}

// Back godoc
// @Summary      Step the wizard back
// @Tags         Registration
// @Produce      json
// @Param        flow  path      string  true  "Wizard flow"
// @Param        id    path      string  true  "Draft ID"
// @Success      200   {object}  types.ResponseAPI{data=registrationService.DraftResponse}
// @Router       /v1/registration/{flow}/drafts/{id}/back [post]
func (h *Handler) Back(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	send(h.registrationService.Back(flow, c.Param("id")))
}

// PrefillAddress godoc
// @Summary      Prefill address from CEP
// @Description  Looks the draft's CEP up and fills street, neighborhood, city and state
// @Tags         Registration
// @Produce      json
// @Param        flow  path      string  true  "Wizard flow"
// @Param        id    path      string  true  "Draft ID"
// @Success      200   {object}  types.ResponseAPI{data=registrationService.DraftResponse}
// @Failure      422   {object}  types.ResponseAPI
// @Router       /v1/registration/{flow}/drafts/{id}/prefill-address [post]
func (h *Handler) PrefillAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	send(h.registrationService.PrefillAddress(flow, c.Param("id")))
}

// Submit godoc
// @Summary      Finish the wizard
// @Description  Registers the account and, in the purchase flow, runs the plan checkout. A failed checkout keeps the draft resumable with the account already created
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        flow     path      string                             true   "Wizard flow"
// @Param        id       path      string                             true   "Draft ID"
// @Param        request  body      registrationService.SubmitRequest  false  "Submission payload (card data for credit card checkouts)"
// @Success      201      {object}  types.ResponseAPI{data=registrationService.SubmitResponse}
// @Failure      409      {object}  types.ResponseAPI
// @Failure      422      {object}  types.ResponseAPI
// @Router       /v1/registration/{flow}/drafts/{id}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	flow, ok := draftFlow(c, send)
	if !ok {
		return
	}

	var req registrationService.SubmitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			send(helper.ParseResponse(&types.Response{
				Code:    http.StatusBadRequest,
				Message: "Invalid request body",
				Error:   err,
			}))
			return
		}
	}

	send(h.registrationService.Submit(flow, c.Param("id"), &req))
}

// LookupCEP godoc
// @Summary      Look a postal code up
// @Description  Standalone CEP lookup mirroring the draft prefill, usable before a draft exists
// @Tags         Registration
// @Produce      json
// @Param        cep  path      string  true  "Postal code, masked or digits"
// @Success      200  {object}  types.ResponseAPI
// @Router       /v1/address/cep/{cep} [get]
func (h *Handler) LookupCEP(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	cep := brdoc.DigitsOnly(c.Param("cep"))
	send(h.registrationService.LookupCEP(cep))
}

// ValidateAddress godoc
// @Summary      Validate an address
// @Description  Runs the full geocode check on an address without creating a draft
// @Tags         Registration
// @Accept       json
// @Produce      json
// @Param        request  body      registrationService.AddressValidationRequest  true  "Address to validate"
// @Success      200      {object}  types.ResponseAPI
// @Failure      400      {object}  types.ResponseAPI
// @Failure      422      {object}  types.ResponseAPI
// @Router       /v1/address/validate [post]
func (h *Handler) ValidateAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req registrationService.AddressValidationRequest
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

	send(h.registrationService.ValidateAddress(&req))
}
