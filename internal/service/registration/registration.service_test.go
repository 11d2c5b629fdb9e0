package registration

import (
	"context"
	"net/http"
	"testing"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/common/models"
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/formstore"
	"endurance-api/internal/pkg/geocode"
	checkoutSvc "endurance-api/internal/service/checkout"
	"endurance-api/internal/repository"
)

type stubUserRepo struct {
	created []*models.User
	exists  bool
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = "user-1"
	s.created = append(s.created, user)
	return nil
}
func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return nil, nil
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, nil
}
func (s *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists, nil
}

type stubCheckout struct {
	calls []*checkoutSvc.CreateCheckoutRequest
	resp  *types.Response
}

func (s *stubCheckout) CreateCheckout(req *checkoutSvc.CreateCheckoutRequest) *types.Response {
	s.calls = append(s.calls, req)
	return s.resp
}
func (s *stubCheckout) CheckStatus(orderID string) *types.Response             { return nil }
func (s *stubCheckout) HandleCallback(payload map[string]any) *types.Response  { return nil }
func (s *stubCheckout) ExpireSweep() (int, error)                              { return 0, nil }
func (s *stubCheckout) ListPlans() *types.Response                             { return nil }

func newWizard(t *testing.T, checkout checkoutSvc.IService, users *stubUserRepo) IService {
	t.Helper()
	rp := repository.IRepository{User: users}
	resolver := geocode.NewResolver(&geocode.Config{})
	return NewService(
		context.Background(), rp, resolver, checkout, nil,
		formstore.NewMemoryStore(), formstore.NewMemoryStore(),
	)
}

func strPtr(s string) *string { return &s }

func startDraft(t *testing.T, svc IService, flow enum.WizardFlowEnum) *Draft {
	t.Helper()
	resp := svc.CreateDraft(flow)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create draft failed: %d %s", resp.Code, resp.Message)
	}
	return resp.Data.(DraftResponse).Draft
}

func fillAccess(t *testing.T, svc IService, flow enum.WizardFlowEnum, id string) {
	t.Helper()
	resp := svc.UpdateDraft(flow, id, &FormPatch{
		Email:           strPtr("ana@example.com"),
		Password:        strPtr("segredo1"),
		ConfirmPassword: strPtr("segredo1"),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", resp.Code, resp.Message)
	}
}

func fillPersonal(t *testing.T, svc IService, flow enum.WizardFlowEnum, id string) {
	t.Helper()
	resp := svc.UpdateDraft(flow, id, &FormPatch{
		Name:  strPtr("Ana Souza"),
		CPF:   strPtr("52998224725"),
		Phone: strPtr("11987654321"),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", resp.Code, resp.Message)
	}
}

func fillAddress(t *testing.T, svc IService, flow enum.WizardFlowEnum, id string) {
	t.Helper()
	resp := svc.UpdateDraft(flow, id, &FormPatch{
		Street:       strPtr("Avenida Paulista"),
		Number:       strPtr("1000"),
		Neighborhood: strPtr("Bela Vista"),
		City:         strPtr("São Paulo"),
		State:        strPtr("SP"),
		PostalCode:   strPtr("01310100"),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", resp.Code, resp.Message)
	}
}

func mustAdvance(t *testing.T, svc IService, flow enum.WizardFlowEnum, id string, wantStep int) {
	t.Helper()
	resp := svc.Next(flow, id)
	if resp.Code != http.StatusOK {
		t.Fatalf("next failed: %d %s", resp.Code, resp.Message)
	}
	if got := resp.Data.(DraftResponse).Draft.Step; got != wantStep {
		t.Fatalf("expected step %d, got %d", wantStep, got)
	}
}

func TestWizardBlocksInvalidStep(t *testing.T) {
	svc := newWizard(t, &stubCheckout{}, &stubUserRepo{})
	draft := startDraft(t, svc, enum.FLOW_SIGNUP)

	// empty access step must not advance
	resp := svc.Next(enum.FLOW_SIGNUP, draft.ID)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if got := resp.Data.(DraftResponse).Draft.Step; got != StepAccess {
		t.Fatalf("step must not move on failure, got %d", got)
	}

	// bad CPF on the personal step
	fillAccess(t, svc, enum.FLOW_SIGNUP, draft.ID)
	mustAdvance(t, svc, enum.FLOW_SIGNUP, draft.ID, StepPersonal)

	_ = svc.UpdateDraft(enum.FLOW_SIGNUP, draft.ID, &FormPatch{
		Name:  strPtr("Ana Souza"),
		CPF:   strPtr("52998224726"),
		Phone: strPtr("11987654321"),
	})
	resp = svc.Next(enum.FLOW_SIGNUP, draft.ID)
	if resp.Code != http.StatusUnprocessableEntity || resp.Message != "CPF inválido" {
		t.Fatalf("expected CPF rejection, got %d %q", resp.Code, resp.Message)
	}
}

func TestWizardSignupFullFlow(t *testing.T) {
	users := &stubUserRepo{}
	svc := newWizard(t, &stubCheckout{}, users)
	draft := startDraft(t, svc, enum.FLOW_SIGNUP)

	fillAccess(t, svc, enum.FLOW_SIGNUP, draft.ID)
	mustAdvance(t, svc, enum.FLOW_SIGNUP, draft.ID, StepPersonal)
	fillPersonal(t, svc, enum.FLOW_SIGNUP, draft.ID)
	mustAdvance(t, svc, enum.FLOW_SIGNUP, draft.ID, StepAddress)
	fillAddress(t, svc, enum.FLOW_SIGNUP, draft.ID)

	resp := svc.Submit(enum.FLOW_SIGNUP, draft.ID, &SubmitRequest{})
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit failed: %d %s", resp.Code, resp.Message)
	}
	if len(users.created) != 1 {
		t.Fatalf("expected one registered user, got %d", len(users.created))
	}

	user := users.created[0]
	if user.CPF != "52998224725" {
		t.Errorf("expected digits-only CPF, got %q", user.CPF)
	}
	if user.PostalCode != "01310100" {
		t.Errorf("expected digits-only CEP, got %q", user.PostalCode)
	}
	if user.PasswordHash == "" || user.PasswordHash == "segredo1" {
		t.Error("expected hashed password")
	}
	if user.Latitude == nil || user.Longitude == nil {
		t.Error("expected geocoded coordinates on the user")
	}

	// draft is cleared on success
	if got := svc.GetDraft(enum.FLOW_SIGNUP, draft.ID); got.Code != http.StatusNotFound {
		t.Fatalf("expected draft cleared, got %d", got.Code)
	}
}

func TestWizardDraftSurvivesReload(t *testing.T) {
	svc := newWizard(t, &stubCheckout{}, &stubUserRepo{})
	draft := startDraft(t, svc, enum.FLOW_SIGNUP)

	fillAccess(t, svc, enum.FLOW_SIGNUP, draft.ID)
	mustAdvance(t, svc, enum.FLOW_SIGNUP, draft.ID, StepPersonal)

	// a fresh GetDraft plays the role of a page reload
	resp := svc.GetDraft(enum.FLOW_SIGNUP, draft.ID)
	if resp.Code != http.StatusOK {
		t.Fatalf("get draft failed: %d", resp.Code)
	}
	restored := resp.Data.(DraftResponse).Draft
	if restored.Step != StepPersonal {
		t.Fatalf("expected restored step %d, got %d", StepPersonal, restored.Step)
	}
	if restored.Data.Email != "ana@example.com" {
		t.Fatalf("expected restored field, got %q", restored.Data.Email)
	}
}

func TestWizardAddressEditInvalidatesValidation(t *testing.T) {
	svc := newWizard(t, &stubCheckout{}, &stubUserRepo{})
	draft := startDraft(t, svc, enum.FLOW_PURCHASE)

	_ = svc.UpdateDraft(enum.FLOW_PURCHASE, draft.ID, &FormPatch{
		PlanID:     strPtr("plan-1"),
		BillPeriod: billPtr(enum.MONTHLY),
	})
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepAccess)
	fillAccess(t, svc, enum.FLOW_PURCHASE, draft.ID)
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepPersonal)
	fillPersonal(t, svc, enum.FLOW_PURCHASE, draft.ID)
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepAddress)
	fillAddress(t, svc, enum.FLOW_PURCHASE, draft.ID)

	// advancing past the address step validates and caches the verdict
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepCoach)
	got := svc.GetDraft(enum.FLOW_PURCHASE, draft.ID)
	if !got.Data.(DraftResponse).Draft.AddressValidated {
		t.Fatal("expected address validation to be cached")
	}

	resp := svc.UpdateDraft(enum.FLOW_PURCHASE, draft.ID, &FormPatch{City: strPtr("Campinas")})
	restored := resp.Data.(DraftResponse).Draft
	if restored.AddressValidated {
		t.Fatal("editing an address field must drop the cached validation")
	}
	if restored.Latitude != nil || restored.Longitude != nil {
		t.Fatal("editing an address field must drop the cached coordinates")
	}
}

func TestWizardPurchaseBackReturnsToIntro(t *testing.T) {
	svc := newWizard(t, &stubCheckout{}, &stubUserRepo{})
	draft := startDraft(t, svc, enum.FLOW_PURCHASE)

	if draft.Step != StepIntro {
		t.Fatalf("purchase flow must start at intro, got %d", draft.Step)
	}

	_ = svc.UpdateDraft(enum.FLOW_PURCHASE, draft.ID, &FormPatch{
		PlanID:     strPtr("plan-1"),
		BillPeriod: billPtr(enum.MONTHLY),
	})
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepAccess)

	resp := svc.Back(enum.FLOW_PURCHASE, draft.ID)
	if got := resp.Data.(DraftResponse).Draft.Step; got != StepIntro {
		t.Fatalf("expected back to intro, got %d", got)
	}

	// backing out of the first step stays put
	resp = svc.Back(enum.FLOW_PURCHASE, draft.ID)
	if got := resp.Data.(DraftResponse).Draft.Step; got != StepIntro {
		t.Fatalf("expected to stay at intro, got %d", got)
	}
}

func billPtr(p enum.BillPeriodEnum) *enum.BillPeriodEnum          { return &p }
func methodPtr(m enum.PaymentMethodEnum) *enum.PaymentMethodEnum  { return &m }

func TestWizardTwoPhaseSubmit(t *testing.T) {
	users := &stubUserRepo{}
	checkout := &stubCheckout{resp: &types.Response{
		Code:    http.StatusBadGateway,
		Message: "Falha ao processar pagamento, tente novamente",
	}}
	svc := newWizard(t, checkout, users)
	draft := startDraft(t, svc, enum.FLOW_PURCHASE)

	_ = svc.UpdateDraft(enum.FLOW_PURCHASE, draft.ID, &FormPatch{
		PlanID:     strPtr("plan-1"),
		BillPeriod: billPtr(enum.MONTHLY),
	})
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepAccess)
	fillAccess(t, svc, enum.FLOW_PURCHASE, draft.ID)
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepPersonal)
	fillPersonal(t, svc, enum.FLOW_PURCHASE, draft.ID)
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepAddress)
	fillAddress(t, svc, enum.FLOW_PURCHASE, draft.ID)
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepCoach)
	_ = svc.UpdateDraft(enum.FLOW_PURCHASE, draft.ID, &FormPatch{CoachID: strPtr("coach-1")})
	mustAdvance(t, svc, enum.FLOW_PURCHASE, draft.ID, StepCheckout)
	_ = svc.UpdateDraft(enum.FLOW_PURCHASE, draft.ID, &FormPatch{PaymentMethod: methodPtr(enum.PIX)})

	// first submit: registration succeeds, checkout fails
	resp := svc.Submit(enum.FLOW_PURCHASE, draft.ID, &SubmitRequest{})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected checkout failure surfaced, got %d", resp.Code)
	}
	if len(users.created) != 1 {
		t.Fatalf("expected user registered, got %d", len(users.created))
	}

	// draft survives, holding the registered user
	got := svc.GetDraft(enum.FLOW_PURCHASE, draft.ID)
	if got.Code != http.StatusOK {
		t.Fatal("draft must stay resumable after a failed checkout")
	}
	if got.Data.(DraftResponse).Draft.UserID != "user-1" {
		t.Fatal("draft must remember the registered user")
	}

	// retried submit skips registration and completes
	checkout.resp = &types.Response{
		Code: http.StatusCreated,
		Data: checkoutSvc.PaymentResult{OrderID: "ord_1", PaymentMethod: enum.PIX},
	}
	resp = svc.Submit(enum.FLOW_PURCHASE, draft.ID, &SubmitRequest{})
	if resp.Code != http.StatusCreated {
		t.Fatalf("retried submit failed: %d %s", resp.Code, resp.Message)
	}
	if len(users.created) != 1 {
		t.Fatalf("retry must not register twice, got %d users", len(users.created))
	}
	if len(checkout.calls) != 2 {
		t.Fatalf("expected two checkout attempts, got %d", len(checkout.calls))
	}
	if checkout.calls[1].UserID != "user-1" {
		t.Fatalf("checkout must receive the registered user id, got %q", checkout.calls[1].UserID)
	}

	// success clears the draft
	if got := svc.GetDraft(enum.FLOW_PURCHASE, draft.ID); got.Code != http.StatusNotFound {
		t.Fatalf("expected draft cleared, got %d", got.Code)
	}
}

func TestSubmitRejectsDuplicateEmail(t *testing.T) {
	users := &stubUserRepo{exists: true}
	svc := newWizard(t, &stubCheckout{}, users)
	draft := startDraft(t, svc, enum.FLOW_SIGNUP)

	fillAccess(t, svc, enum.FLOW_SIGNUP, draft.ID)
	mustAdvance(t, svc, enum.FLOW_SIGNUP, draft.ID, StepPersonal)
	fillPersonal(t, svc, enum.FLOW_SIGNUP, draft.ID)
	mustAdvance(t, svc, enum.FLOW_SIGNUP, draft.ID, StepAddress)
	fillAddress(t, svc, enum.FLOW_SIGNUP, draft.ID)

	resp := svc.Submit(enum.FLOW_SIGNUP, draft.ID, &SubmitRequest{})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate e-mail, got %d", resp.Code)
	}
}

func TestValidateAddressStandalone(t *testing.T) {
	svc := newWizard(t, &stubCheckout{}, &stubUserRepo{})

	resp := svc.ValidateAddress(&AddressValidationRequest{
		Street:     "Avenida Paulista",
		Number:     "1000",
		City:       "São Paulo",
		State:      "sp",
		PostalCode: "01310-100",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.Code, resp.Message)
	}

	resp = svc.ValidateAddress(&AddressValidationRequest{
		Street:     "Avenida Paulista",
		Number:     "1000",
		City:       "São Paulo",
		State:      "XX",
		PostalCode: "01310-100",
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown state, got %d", resp.Code)
	}
}
