package checkout

import (
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"testing"
	"time"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/common/models"
)

func signCallback(orderID, statusCode, grossAmount, secret string) string {
	h := sha512.New()
	h.Write([]byte(orderID + statusCode + grossAmount + secret))
	return hex.EncodeToString(h.Sum(nil))
}

func TestHandleCallbackMarksPaid(t *testing.T) {
	checkoutRepo := newStubCheckoutRepo()
	couponRepo := &stubCouponRepo{coupon: &models.Coupon{Code: "PROMO10", Percentage: 10, Active: true}}
	svc := newTestService(t, "http://gateway.invalid", checkoutRepo, couponRepo)

	future := time.Now().Add(2 * time.Minute)
	checkoutRepo.created = append(checkoutRepo.created, &models.Transaction{
		OrderID:     "ord_cb",
		UserID:      "user-1",
		CouponCode:  "PROMO10",
		AmountCents: 9000,
		Status:      enum.TRX_PENDING,
		ExpiresAt:   &future,
	})

	resp := svc.HandleCallback(map[string]any{
		"order_id":           "ord_cb",
		"status_code":        "200",
		"gross_amount":       "90,00",
		"transaction_status": "paid",
		"signature_key":      signCallback("ord_cb", "200", "90,00", "secret"),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if checkoutRepo.created[0].Status != enum.TRX_PAID {
		t.Fatalf("expected transaction paid, got %s", checkoutRepo.created[0].Status)
	}
	// coupon redemption happens on payment, not at checkout creation
	if len(couponRepo.incremented) != 1 || couponRepo.incremented[0] != "PROMO10" {
		t.Fatalf("expected coupon redeemed once, got %v", couponRepo.incremented)
	}
}

func TestHandleCallbackRejectsBadSignature(t *testing.T) {
	checkoutRepo := newStubCheckoutRepo()
	svc := newTestService(t, "http://gateway.invalid", checkoutRepo, &stubCouponRepo{})

	resp := svc.HandleCallback(map[string]any{
		"order_id":           "ord_cb",
		"status_code":        "200",
		"gross_amount":       "90,00",
		"transaction_status": "paid",
		"signature_key":      "forged",
	})

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestHandleCallbackIgnoresNonPaidStatus(t *testing.T) {
	checkoutRepo := newStubCheckoutRepo()
	svc := newTestService(t, "http://gateway.invalid", checkoutRepo, &stubCouponRepo{})

	future := time.Now().Add(2 * time.Minute)
	checkoutRepo.created = append(checkoutRepo.created, &models.Transaction{
		OrderID:     "ord_cb",
		AmountCents: 9000,
		Status:      enum.TRX_PENDING,
		ExpiresAt:   &future,
	})

	resp := svc.HandleCallback(map[string]any{
		"order_id":           "ord_cb",
		"status_code":        "201",
		"gross_amount":       "90,00",
		"transaction_status": "pending",
		"signature_key":      signCallback("ord_cb", "201", "90,00", "secret"),
	})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if checkoutRepo.created[0].Status != enum.TRX_PENDING {
		t.Fatalf("transaction must stay pending, got %s", checkoutRepo.created[0].Status)
	}
}
