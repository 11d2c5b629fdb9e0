package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/common/models"
	database "endurance-api/internal/pkg/db"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/repository"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}
func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.user, nil
}
func (s *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type stubCheckoutRepo struct {
	created []*models.Transaction
	updates map[string]map[string]any
}

func newStubCheckoutRepo() *stubCheckoutRepo {
	return &stubCheckoutRepo{updates: map[string]map[string]any{}}
}

func (s *stubCheckoutRepo) Create(ctx context.Context, trx *models.Transaction) error {
	s.created = append(s.created, trx)
	return nil
}

func (s *stubCheckoutRepo) FindByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	for _, trx := range s.created {
		if trx.OrderID == orderID {
			return trx, nil
		}
	}
	return nil, gormErrNotFound
}

func (s *stubCheckoutRepo) FindPendingExpiredBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, trx := range s.created {
		if trx.Status == enum.TRX_PENDING && trx.ExpiresAt != nil && trx.ExpiresAt.Before(cutoff) {
			out = append(out, *trx)
		}
	}
	return out, nil
}

func (s *stubCheckoutRepo) UpdateStatus(ctx context.Context, orderID string, updates map[string]any) error {
	s.updates[orderID] = updates
	for _, trx := range s.created {
		if trx.OrderID == orderID {
			if status, ok := updates["status"].(enum.TransactionStatusEnum); ok {
				trx.Status = status
			}
		}
	}
	return nil
}

func (s *stubCheckoutRepo) FindLastPendingByUser(ctx context.Context, userID string) (*models.Transaction, error) {
	for i := len(s.created) - 1; i >= 0; i-- {
		if s.created[i].UserID == userID && s.created[i].Status == enum.TRX_PENDING {
			return s.created[i], nil
		}
	}
	return nil, gormErrNotFound
}

type stubCouponRepo struct {
	coupon      *models.Coupon
	incremented []string
}

func (s *stubCouponRepo) Create(ctx context.Context, c *models.Coupon) error { return nil }
func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if s.coupon == nil || s.coupon.Code != code {
		return nil, gormErrNotFound
	}
	return s.coupon, nil
}
func (s *stubCouponRepo) List(ctx context.Context, dir database.DirectionEnum, active *bool) ([]models.Coupon, error) {
	return nil, nil
}
func (s *stubCouponRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	return nil
}
func (s *stubCouponRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubCouponRepo) IncrementUsed(ctx context.Context, code string) error {
	s.incremented = append(s.incremented, code)
	return nil
}

type stubPlanRepo struct {
	plan *models.Plan
}

func (s *stubPlanRepo) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	return s.plan, nil
}
func (s *stubPlanRepo) ListActive(ctx context.Context) ([]models.Plan, error) {
	return []models.Plan{*s.plan}, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

var gormErrNotFound = notFoundError{}

func testPlan() *models.Plan {
	prices, _ := json.Marshal(map[string]int64{
		"MONTHLY": 10000,
		"YEARLY":  100000,
	})
	return &models.Plan{ID: "plan-1", Name: "Performance", PeriodPrices: models.JSONB(prices), Active: true}
}

func testUser() *models.User {
	return &models.User{ID: "user-1", Name: "Ana Souza", Email: "ana@example.com", CPF: "52998224725", Phone: "11987654321"}
}

func pixGatewayServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/charges/pix":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"charge_id":"ch_1","qr_code":"data:image/png;base64,QR","copy_paste":"00020126pix"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestService(t *testing.T, gwURL string, checkoutRepo *stubCheckoutRepo, couponRepo *stubCouponRepo) IService {
	t.Helper()
	rp := repository.IRepository{
		User:     &stubUserRepo{user: testUser()},
		Checkout: checkoutRepo,
		Coupon:   couponRepo,
		Plan:     &stubPlanRepo{plan: testPlan()},
	}
	gw := gateway.Setup(&gateway.Config{BaseURL: gwURL, APIKey: "test", CallbackSecret: "secret"})
	return NewService(context.Background(), rp, gw, nil, nil, 3*time.Minute)
}

func TestNormalizeInstallments(t *testing.T) {
	cases := []struct {
		period     enum.BillPeriodEnum
		option     enum.PaymentOptionEnum
		count      int
		wantOption enum.PaymentOptionEnum
		wantCount  int
	}{
		{enum.MONTHLY, enum.PARCELADO, 6, enum.AVISTA, 0},
		{enum.WEEKLY, enum.PARCELADO, 2, enum.AVISTA, 0},
		{enum.MONTHLY, enum.AVISTA, 0, enum.AVISTA, 0},
		{enum.YEARLY, enum.PARCELADO, 6, enum.PARCELADO, 6},
		{enum.YEARLY, enum.PARCELADO, 1, enum.PARCELADO, 2},
		{enum.YEARLY, enum.PARCELADO, 24, enum.PARCELADO, 12},
		{enum.BIWEEKLY, enum.PARCELADO, 5, enum.PARCELADO, 2},
		{enum.QUARTERLY, enum.PARCELADO, 5, enum.PARCELADO, 3},
		{enum.SEMIANNUAL, enum.PARCELADO, 12, enum.PARCELADO, 6},
	}

	for _, c := range cases {
		option, count := NormalizeInstallments(c.period, c.option, c.count)
		if option != c.wantOption || count != c.wantCount {
			t.Errorf("NormalizeInstallments(%s, %s, %d) = (%s, %d), want (%s, %d)",
				c.period, c.option, c.count, option, count, c.wantOption, c.wantCount)
		}
	}
}

func TestCreateCheckoutPix(t *testing.T) {
	srv := pixGatewayServer(t)
	defer srv.Close()

	checkoutRepo := newStubCheckoutRepo()
	svc := newTestService(t, srv.URL, checkoutRepo, &stubCouponRepo{})

	resp := svc.CreateCheckout(&CreateCheckoutRequest{
		UserID:        "user-1",
		PlanID:        "plan-1",
		BillPeriod:    enum.MONTHLY,
		PaymentMethod: enum.PIX,
	})

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Code, resp.Message)
	}

	result, ok := resp.Data.(PaymentResult)
	if !ok {
		t.Fatalf("unexpected data type %T", resp.Data)
	}
	if result.PixQRCode == "" || result.PixCopyPaste == "" {
		t.Fatal("expected PIX payload in result")
	}
	if result.ExpiresInSeconds != 180 {
		t.Fatalf("expected 180s expiry window, got %d", result.ExpiresInSeconds)
	}
	if result.AmountCents != 10000 {
		t.Fatalf("expected plan price 10000, got %d", result.AmountCents)
	}

	if len(checkoutRepo.created) != 1 {
		t.Fatalf("expected one persisted transaction, got %d", len(checkoutRepo.created))
	}
	trx := checkoutRepo.created[0]
	if trx.Status != enum.TRX_PENDING {
		t.Fatalf("expected pending transaction, got %s", trx.Status)
	}
	if trx.ExpiresAt == nil {
		t.Fatal("expected expiry to be set")
	}
	if until := time.Until(*trx.ExpiresAt); until > 3*time.Minute || until < 2*time.Minute {
		t.Fatalf("expected roughly 3 minute expiry, got %v", until)
	}
}

func TestCreateCheckoutPixWithCoupon(t *testing.T) {
	srv := pixGatewayServer(t)
	defer srv.Close()

	couponRepo := &stubCouponRepo{coupon: &models.Coupon{Code: "PROMO10", Percentage: 10, Active: true}}
	svc := newTestService(t, srv.URL, newStubCheckoutRepo(), couponRepo)

	resp := svc.CreateCheckout(&CreateCheckoutRequest{
		UserID:        "user-1",
		PlanID:        "plan-1",
		BillPeriod:    enum.MONTHLY,
		PaymentMethod: enum.PIX,
		CouponCode:    "PROMO10",
	})

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Code, resp.Message)
	}
	result := resp.Data.(PaymentResult)
	if result.AmountCents != 9000 || result.DiscountCents != 1000 {
		t.Fatalf("expected 10%% discount, got amount=%d discount=%d", result.AmountCents, result.DiscountCents)
	}
}

func TestCreateCheckoutRejectsUnusableCoupon(t *testing.T) {
	srv := pixGatewayServer(t)
	defer srv.Close()

	couponRepo := &stubCouponRepo{coupon: &models.Coupon{Code: "OLD", Percentage: 10, Active: false}}
	svc := newTestService(t, srv.URL, newStubCheckoutRepo(), couponRepo)

	resp := svc.CreateCheckout(&CreateCheckoutRequest{
		UserID:        "user-1",
		PlanID:        "plan-1",
		BillPeriod:    enum.MONTHLY,
		PaymentMethod: enum.PIX,
		CouponCode:    "OLD",
	})

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestCreateCheckoutResumesPending(t *testing.T) {
	srv := pixGatewayServer(t)
	defer srv.Close()

	checkoutRepo := newStubCheckoutRepo()
	svc := newTestService(t, srv.URL, checkoutRepo, &stubCouponRepo{})

	req := &CreateCheckoutRequest{
		UserID:        "user-1",
		PlanID:        "plan-1",
		BillPeriod:    enum.MONTHLY,
		PaymentMethod: enum.PIX,
	}

	first := svc.CreateCheckout(req)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	second := svc.CreateCheckout(req)
	if second.Code != http.StatusOK {
		t.Fatalf("expected pending charge to be resumed with 200, got %d", second.Code)
	}
	if len(checkoutRepo.created) != 1 {
		t.Fatalf("expected no second charge, got %d transactions", len(checkoutRepo.created))
	}
	if second.Data.(PaymentResult).OrderID != first.Data.(PaymentResult).OrderID {
		t.Fatal("expected the same order to be returned")
	}
}

func TestExpireSweep(t *testing.T) {
	checkoutRepo := newStubCheckoutRepo()
	svc := newTestService(t, "http://gateway.invalid", checkoutRepo, &stubCouponRepo{})

	past := time.Now().Add(-time.Minute)
	checkoutRepo.created = append(checkoutRepo.created, &models.Transaction{
		OrderID:   "ord_stale",
		UserID:    "user-1",
		Status:    enum.TRX_PENDING,
		ExpiresAt: &past,
	})

	expired, err := svc.ExpireSweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expected one expired transaction, got %d", expired)
	}
	if checkoutRepo.created[0].Status != enum.TRX_EXPIRED {
		t.Fatalf("expected transaction marked expired, got %s", checkoutRepo.created[0].Status)
	}
}

func TestCheckStatusCountsDown(t *testing.T) {
	checkoutRepo := newStubCheckoutRepo()
	svc := newTestService(t, "http://gateway.invalid", checkoutRepo, &stubCouponRepo{})

	future := time.Now().Add(2 * time.Minute)
	checkoutRepo.created = append(checkoutRepo.created, &models.Transaction{
		OrderID:       "ord_live",
		PaymentMethod: enum.PIX,
		Status:        enum.TRX_PENDING,
		AmountCents:   10000,
		ExpiresAt:     &future,
	})

	resp := svc.CheckStatus("ord_live")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	status := resp.Data.(StatusResponse)
	if status.ExpiresInSeconds <= 0 || status.ExpiresInSeconds > 120 {
		t.Fatalf("unexpected countdown %d", status.ExpiresInSeconds)
	}
}
