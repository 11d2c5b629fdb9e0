package coupon

import (
	"context"
	"net/http"
	"testing"
	"time"

	"endurance-api/internal/common/models"
	database "endurance-api/internal/pkg/db"
	"endurance-api/internal/repository"
)

type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

type stubCouponRepo struct {
	coupons    map[string]*models.Coupon
	updates    map[string]map[string]any
	lastDir    database.DirectionEnum
	lastActive *bool
}

func newStubCouponRepo(coupons ...*models.Coupon) *stubCouponRepo {
	s := &stubCouponRepo{coupons: map[string]*models.Coupon{}, updates: map[string]map[string]any{}}
	for _, c := range coupons {
		s.coupons[c.Code] = c
	}
	return s
}

func (s *stubCouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	s.coupons[c.Code] = c
	return nil
}
func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	if c, ok := s.coupons[code]; ok {
		return c, nil
	}
	return nil, notFoundError{}
}
func (s *stubCouponRepo) List(ctx context.Context, dir database.DirectionEnum, active *bool) ([]models.Coupon, error) {
	s.lastDir = dir
	s.lastActive = active

	var out []models.Coupon
	for _, c := range s.coupons {
		out = append(out, *c)
	}
	return out, nil
}
func (s *stubCouponRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	s.updates[id] = updates
	return nil
}
func (s *stubCouponRepo) Delete(ctx context.Context, id string) error { return nil }
func (s *stubCouponRepo) IncrementUsed(ctx context.Context, code string) error {
	s.coupons[code].UsedCount++
	return nil
}

func newTestService(repo *stubCouponRepo) IService {
	return NewService(context.Background(), repository.IRepository{Coupon: repo})
}

func TestValidateCoupon(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)

	repo := newStubCouponRepo(
		&models.Coupon{Code: "PROMO10", Percentage: 10, Active: true},
		&models.Coupon{Code: "OFF", Percentage: 20, Active: false},
		&models.Coupon{Code: "OLD", Percentage: 20, Active: true, ExpiresAt: &yesterday},
		&models.Coupon{Code: "FULL", Percentage: 20, Active: true, MaxUses: 5, UsedCount: 5},
	)
	svc := newTestService(repo)

	cases := []struct {
		code    string
		valid   bool
		message string
	}{
		{"PROMO10", true, ""},
		{"promo10", true, ""},
		{" PROMO10 ", true, ""},
		{"NOPE", false, "cupom não encontrado"},
		{"OFF", false, "cupom inativo"},
		{"OLD", false, "cupom expirado"},
		{"FULL", false, "cupom esgotado"},
		{"", false, "informe um cupom"},
	}

	for _, c := range cases {
		resp := svc.Validate(c.code)
		if resp.Code != http.StatusOK {
			t.Fatalf("Validate(%q) status = %d, want 200", c.code, resp.Code)
		}
		result := resp.Data.(ValidateResult)
		if result.Valid != c.valid {
			t.Errorf("Validate(%q) valid = %v, want %v", c.code, result.Valid, c.valid)
		}
		if result.Message != c.message {
			t.Errorf("Validate(%q) message = %q, want %q", c.code, result.Message, c.message)
		}
	}
}

func TestValidateCouponCarriesPercentage(t *testing.T) {
	svc := newTestService(newStubCouponRepo(&models.Coupon{Code: "PROMO10", Percentage: 10, Active: true}))

	result := svc.Validate("PROMO10").Data.(ValidateResult)
	if result.Percentage != 10 || result.Code != "PROMO10" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCreateCouponUppercasesCode(t *testing.T) {
	repo := newStubCouponRepo()
	svc := newTestService(repo)

	resp := svc.Create(&CreateCouponRequest{Code: " promo10 ", Percentage: 10})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if _, ok := repo.coupons["PROMO10"]; !ok {
		t.Fatal("expected code stored uppercase")
	}
}

func TestUpdateCouponRequiresFields(t *testing.T) {
	svc := newTestService(newStubCouponRepo())

	resp := svc.Update("c1", &UpdateCouponRequest{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", resp.Code)
	}
}

func TestListCouponsPassesFilters(t *testing.T) {
	repo := newStubCouponRepo(&models.Coupon{Code: "PROMO10", Percentage: 10, Active: true})
	svc := newTestService(repo)

	resp := svc.List(&ListCouponsRequest{Sort: "asc", Active: "true"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if repo.lastDir != database.ASC {
		t.Errorf("dir = %q, want asc", repo.lastDir)
	}
	if repo.lastActive == nil || !*repo.lastActive {
		t.Error("expected active filter true")
	}

	svc.List(&ListCouponsRequest{})
	if repo.lastActive != nil {
		t.Error("expected no active filter when query omits it")
	}
}
