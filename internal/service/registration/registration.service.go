package registration

import (
	"net/http"
	"strings"
	"time"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/common/models"
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/brdoc"
	"endurance-api/internal/pkg/geocode"
	checkoutSvc "endurance-api/internal/service/checkout"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) CreateDraft(flow enum.WizardFlowEnum) *types.Response {
	if !flow.IsValid() {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Fluxo inválido",
		})
	}

	now := time.Now()
	draft := &Draft{
		ID:        uuid.NewString(),
		Flow:      flow,
		Step:      firstStep(flow),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store(flow).Save(draft.ID, draft); err != nil {
		logger.Warning.Printf("Failed to persist new draft %s: %v", draft.ID, err)
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusCreated,
		Data: DraftResponse{Draft: draft},
	})
}

func (s *Service) GetDraft(flow enum.WizardFlowEnum, id string) *types.Response {
	draft, resp := s.loadDraft(flow, id)
	if resp != nil {
		return resp
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: DraftResponse{Draft: draft},
	})
}

func (s *Service) UpdateDraft(flow enum.WizardFlowEnum, id string, patch *FormPatch) *types.Response {
	draft, resp := s.loadDraft(flow, id)
	if resp != nil {
		return resp
	}

	applyPatch(draft, patch)
	s.persist(draft)

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: DraftResponse{Draft: draft},
	})
}

func (s *Service) Next(flow enum.WizardFlowEnum, id string) *types.Response {
	draft, resp := s.loadDraft(flow, id)
	if resp != nil {
		return resp
	}

	if draft.Step >= terminalStep(flow) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Última etapa, finalize o cadastro",
			Data:    DraftResponse{Draft: draft},
		})
	}

	if err := s.validateStep(draft); err != nil {
		// a failed address validation may still have touched the cache flag
		s.persist(draft)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
			Data:    DraftResponse{Draft: draft, Message: err.Error()},
		})
	}

	draft.Step++
	s.persist(draft)

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: DraftResponse{Draft: draft},
	})
}

func (s *Service) Back(flow enum.WizardFlowEnum, id string) *types.Response {
	draft, resp := s.loadDraft(flow, id)
	if resp != nil {
		return resp
	}

	if draft.Step > firstStep(flow) {
		draft.Step--
		s.persist(draft)
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: DraftResponse{Draft: draft},
	})
}

// PrefillAddress resolves the draft's CEP and fills the address fields the lookup
// returns, leaving number and complement for the user.
func (s *Service) PrefillAddress(flow enum.WizardFlowEnum, id string) *types.Response {
	draft, resp := s.loadDraft(flow, id)
	if resp != nil {
		return resp
	}

	result := s.resolver.LookupCEP(s.ctx, draft.Data.PostalCode)
	if !result.Valid {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: result.Message,
			Data:    DraftResponse{Draft: draft, Message: result.Message},
		})
	}

	draft.Data.Street = result.Street
	draft.Data.Neighborhood = result.Neighborhood
	draft.Data.City = result.City
	draft.Data.State = result.State
	draft.AddressValidated = false
	s.persist(draft)

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: DraftResponse{Draft: draft},
	})
}

// LookupCEP resolves a postal code without touching any draft.
func (s *Service) LookupCEP(cep string) *types.Response {
	result := s.resolver.LookupCEP(s.ctx, cep)

	code := http.StatusOK
	if !result.Valid {
		code = http.StatusUnprocessableEntity
	}

	return helper.ParseResponse(&types.Response{
		Code:    code,
		Message: result.Message,
		Data:    result,
	})
}

// ValidateAddress runs the geocode check on a caller-supplied address without
// touching any draft.
func (s *Service) ValidateAddress(req *AddressValidationRequest) *types.Response {
	result := s.resolver.ValidateAddress(s.ctx, &geocode.Address{
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        strings.ToUpper(req.State),
		PostalCode:   brdoc.DigitsOnly(req.PostalCode),
	})

	code := http.StatusOK
	if !result.Valid {
		code = http.StatusUnprocessableEntity
	}

	return helper.ParseResponse(&types.Response{
		Code:    code,
		Message: result.Message,
		Data:    result,
	})
}

// Submit finishes the wizard in two phases. Registration runs first and its user
// id is saved on the draft, so when the purchase flow's checkout fails the draft
// stays resumable and a retried submit goes straight to payment.
func (s *Service) Submit(flow enum.WizardFlowEnum, id string, req *SubmitRequest) *types.Response {
	draft, resp := s.loadDraft(flow, id)
	if resp != nil {
		return resp
	}

	if draft.Step < terminalStep(flow) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Complete as etapas anteriores antes de finalizar",
		})
	}
	if err := s.validateStep(draft); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	if draft.UserID == "" {
		userID, regResp := s.registerUser(draft)
		if regResp != nil {
			return regResp
		}
		draft.UserID = userID
		s.persist(draft)
	}

	if flow == enum.FLOW_SIGNUP {
		s.clear(draft)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusCreated,
			Message: "Cadastro concluído",
			Data:    SubmitResponse{UserID: draft.UserID},
		})
	}

	checkoutResp := s.checkout.CreateCheckout(&checkoutSvc.CreateCheckoutRequest{
		UserID:        draft.UserID,
		PlanID:        draft.Data.PlanID,
		CoachID:       draft.Data.CoachID,
		BillPeriod:    draft.Data.BillPeriod,
		PaymentMethod: draft.Data.PaymentMethod,
		PaymentOption: draft.Data.PaymentOption,
		Installments:  draft.Data.Installments,
		CouponCode:    draft.Data.CouponCode,
		Card:          req.Card,
	})
	if checkoutResp.Code >= http.StatusBadRequest {
		// draft keeps the registered user and stays resumable
		return checkoutResp
	}

	s.clear(draft)

	payment, _ := checkoutResp.Data.(checkoutSvc.PaymentResult)
	return helper.ParseResponse(&types.Response{
		Code:    checkoutResp.Code,
		Message: checkoutResp.Message,
		Data:    SubmitResponse{UserID: draft.UserID, Payment: &payment},
	})
}

func (s *Service) registerUser(draft *Draft) (string, *types.Response) {
	data := &draft.Data

	email := brdoc.ValidateEmail(data.Email)
	exists, err := s.rp.User.EmailExists(s.ctx, email.Formatted)
	if err != nil {
		return "", helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao verificar e-mail",
			Error:   err,
		})
	}
	if exists {
		return "", helper.ParseResponse(&types.Response{
			Code:    http.StatusConflict,
			Message: "E-mail já cadastrado",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao registrar usuário",
			Error:   err,
		})
	}

	user := &models.User{
		Name:         data.Name,
		Email:        email.Formatted,
		PasswordHash: string(hash),
		CPF:          brdoc.DigitsOnly(data.CPF),
		Phone:        brdoc.DigitsOnly(data.Phone),
		BirthDate:    data.BirthDate,
		Gender:       data.Gender,
		CoachID:      data.CoachID,
		Street:       data.Street,
		Number:       data.Number,
		Complement:   data.Complement,
		Neighborhood: data.Neighborhood,
		City:         data.City,
		State:        data.State,
		PostalCode:   brdoc.DigitsOnly(data.PostalCode),
		Latitude:     draft.Latitude,
		Longitude:    draft.Longitude,
	}

	if err := s.rp.User.Create(s.ctx, user); err != nil {
		return "", helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao registrar usuário",
			Error:   err,
		})
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEvent(eventsQueue, "registration.created", user); err != nil {
			logger.Warning.Printf("Failed to publish registration.created for %s: %v", user.ID, err)
		}
	}

	return user.ID, nil
}

func (s *Service) loadDraft(flow enum.WizardFlowEnum, id string) (*Draft, *types.Response) {
	draft := &Draft{}
	found, err := s.store(flow).Load(id, draft)
	if err != nil || !found {
		return nil, helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Rascunho não encontrado",
			Error:   err,
		})
	}
	return draft, nil
}

func (s *Service) persist(draft *Draft) {
	draft.UpdatedAt = time.Now()
	if err := s.store(draft.Flow).Save(draft.ID, draft); err != nil {
		logger.Warning.Printf("Failed to persist draft %s: %v", draft.ID, err)
	}
}

func (s *Service) clear(draft *Draft) {
	if err := s.store(draft.Flow).Clear(draft.ID); err != nil {
		logger.Warning.Printf("Failed to clear draft %s: %v", draft.ID, err)
	}
}

// applyPatch copies every set field onto the draft, masking document fields as it
// goes. Touching any address component drops the cached geocode verdict.
func applyPatch(draft *Draft, patch *FormPatch) {
	data := &draft.Data

	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setStr(&data.Email, patch.Email)
	setStr(&data.Password, patch.Password)
	setStr(&data.ConfirmPassword, patch.ConfirmPassword)
	setStr(&data.Name, patch.Name)
	setStr(&data.BirthDate, patch.BirthDate)
	setStr(&data.Gender, patch.Gender)
	setStr(&data.CoachID, patch.CoachID)
	setStr(&data.PlanID, patch.PlanID)
	setStr(&data.CouponCode, patch.CouponCode)

	if patch.CPF != nil {
		data.CPF = brdoc.FormatCPF(*patch.CPF)
	}
	if patch.Phone != nil {
		data.Phone = brdoc.FormatPhone(*patch.Phone)
	}

	addressTouched := false
	setAddr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			addressTouched = true
		}
	}
	setAddr(&data.Street, patch.Street)
	setAddr(&data.Number, patch.Number)
	setAddr(&data.Complement, patch.Complement)
	setAddr(&data.Neighborhood, patch.Neighborhood)
	setAddr(&data.City, patch.City)
	setAddr(&data.State, patch.State)
	if patch.PostalCode != nil {
		data.PostalCode = brdoc.FormatCEP(*patch.PostalCode)
		addressTouched = true
	}
	if addressTouched {
		draft.AddressValidated = false
		draft.Latitude = nil
		draft.Longitude = nil
	}

	if patch.BillPeriod != nil {
		data.BillPeriod = *patch.BillPeriod
	}
	if patch.PaymentMethod != nil {
		data.PaymentMethod = *patch.PaymentMethod
	}
	if patch.PaymentOption != nil {
		data.PaymentOption = *patch.PaymentOption
	}
	if patch.Installments != nil {
		data.Installments = *patch.Installments
	}
}
