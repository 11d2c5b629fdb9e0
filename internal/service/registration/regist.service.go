package registration

import (
	"context"
	"time"

	"endurance-api/internal/common/enum"
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/formstore"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/pkg/geocode"
	"endurance-api/internal/pkg/rabbitmq"
	checkoutSvc "endurance-api/internal/service/checkout"
	"endurance-api/internal/repository"
)

const eventsQueue = "endurance.events"

type Service struct {
	ctx       context.Context
	rp        repository.IRepository
	resolver  *geocode.Resolver
	checkout  checkoutSvc.IService
	publisher *rabbitmq.Publisher

	// one draft store per wizard so purchase and signup drafts never collide
	purchaseStore formstore.Store
	signupStore   formstore.Store
}

type IService interface {
	CreateDraft(flow enum.WizardFlowEnum) *types.Response
	GetDraft(flow enum.WizardFlowEnum, id string) *types.Response
	UpdateDraft(flow enum.WizardFlowEnum, id string, patch *FormPatch) *types.Response
	Next(flow enum.WizardFlowEnum, id string) *types.Response
	Back(flow enum.WizardFlowEnum, id string) *types.Response
	PrefillAddress(flow enum.WizardFlowEnum, id string) *types.Response
	Submit(flow enum.WizardFlowEnum, id string, req *SubmitRequest) *types.Response
	LookupCEP(cep string) *types.Response
	ValidateAddress(req *AddressValidationRequest) *types.Response
}

func NewService(
	ctx context.Context,
	rp repository.IRepository,
	resolver *geocode.Resolver,
	checkout checkoutSvc.IService,
	publisher *rabbitmq.Publisher,
	purchaseStore formstore.Store,
	signupStore formstore.Store,
) IService {
	return &Service{
		ctx:           ctx,
		rp:            rp,
		resolver:      resolver,
		checkout:      checkout,
		publisher:     publisher,
		purchaseStore: purchaseStore,
		signupStore:   signupStore,
	}
}

func (s *Service) store(flow enum.WizardFlowEnum) formstore.Store {
	if flow == enum.FLOW_SIGNUP {
		return s.signupStore
	}
	return s.purchaseStore
}

// FormData is the draft record the wizard mutates field by field. It is persisted
// write-through so a client reload resumes where it left off.
type FormData struct {
	Email           string `json:"email,omitempty"`
	Password        string `json:"password,omitempty"`
	ConfirmPassword string `json:"confirm_password,omitempty"`

	Name      string `json:"name,omitempty"`
	CPF       string `json:"cpf,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
	Gender    string `json:"gender,omitempty"`

	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`

	CoachID string `json:"coach_id,omitempty"`

	PlanID        string                 `json:"plan_id,omitempty"`
	BillPeriod    enum.BillPeriodEnum    `json:"bill_period,omitempty"`
	PaymentMethod enum.PaymentMethodEnum `json:"payment_method,omitempty"`
	PaymentOption enum.PaymentOptionEnum `json:"payment_option,omitempty"`
	Installments  int                    `json:"installments,omitempty"`
	CouponCode    string                 `json:"coupon_code,omitempty"`
}

// Draft wraps the form data with wizard position and server-side progress. UserID
// is set once registration succeeds so a retried submit never registers twice.
type Draft struct {
	ID   string              `json:"id"`
	Flow enum.WizardFlowEnum `json:"flow"`
	Step int                 `json:"step"`
	Data FormData            `json:"data"`

	UserID string `json:"user_id,omitempty"`

	AddressValidated bool     `json:"address_validated"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormPatch updates a subset of draft fields. Nil means untouched; editing any
// address component invalidates the cached geocode verdict.
type FormPatch struct {
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirm_password"`

	Name      *string `json:"name"`
	CPF       *string `json:"cpf"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
	Gender    *string `json:"gender"`

	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postal_code"`

	CoachID *string `json:"coach_id"`

	PlanID        *string                 `json:"plan_id"`
	BillPeriod    *enum.BillPeriodEnum    `json:"bill_period"`
	PaymentMethod *enum.PaymentMethodEnum `json:"payment_method"`
	PaymentOption *enum.PaymentOptionEnum `json:"payment_option"`
	Installments  *int                    `json:"installments"`
	CouponCode    *string                 `json:"coupon_code"`
}

// AddressValidationRequest validates a full address outside any draft, so the
// client can check an address before starting the wizard.
type AddressValidationRequest struct {
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required,brstate"`
	PostalCode   string `json:"postal_code" validate:"required,cep"`
}

type SubmitRequest struct {
	// Card is supplied only at submission and never persisted with the draft.
	Card *gateway.CardDetails `json:"card,omitempty"`
}

type SubmitResponse struct {
	UserID  string                     `json:"user_id"`
	Payment *checkoutSvc.PaymentResult `json:"payment,omitempty"`
}

type DraftResponse struct {
	Draft   *Draft `json:"draft"`
	Message string `json:"message,omitempty"`
}
