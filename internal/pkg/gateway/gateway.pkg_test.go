package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sign(orderID, statusCode, grossAmount, secret string) string {
	h := sha512.New()
	h.Write([]byte(orderID + statusCode + grossAmount + secret))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	c := Setup(&Config{CallbackSecret: "secret"})

	good := sign("ord_1", "200", "90,00", "secret")
	if !c.VerifySignature("ord_1", "200", "90,00", good) {
		t.Error("expected valid signature to verify")
	}

	forged := sign("ord_1", "200", "90,00", "wrong-secret")
	if c.VerifySignature("ord_1", "200", "90,00", forged) {
		t.Error("expected signature with wrong secret to fail")
	}

	if c.VerifySignature("ord_2", "200", "90,00", good) {
		t.Error("expected signature for another order to fail")
	}
}

func TestCreatePixChargeSendsAuthAndDecodes(t *testing.T) {
	var gotAuth string
	var gotBody ChargeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/charges/pix" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"charge_id":"ch_1","qr_code":"qr-data","copy_paste":"000201pix"}`))
	}))
	defer srv.Close()

	c := Setup(&Config{BaseURL: srv.URL, APIKey: "key-1"})

	charge, err := c.CreatePixCharge(context.Background(), &ChargeRequest{
		OrderID:     "ord_1",
		AmountCents: 10000,
		ExpiresIn:   180,
	})
	if err != nil {
		t.Fatalf("CreatePixCharge: %v", err)
	}

	if gotAuth != "Bearer key-1" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if gotBody.OrderID != "ord_1" || gotBody.AmountCents != 10000 || gotBody.ExpiresIn != 180 {
		t.Errorf("unexpected request body %+v", gotBody)
	}
	if charge.ChargeID != "ch_1" || charge.QRCode != "qr-data" || charge.CopyPaste != "000201pix" {
		t.Errorf("unexpected charge %+v", charge)
	}
}

func TestChargeCardSurfacesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"cartão recusado pelo emissor"}`))
	}))
	defer srv.Close()

	c := Setup(&Config{BaseURL: srv.URL, APIKey: "key-1"})

	_, err := c.ChargeCard(context.Background(), &CardChargeRequest{
		ChargeRequest: ChargeRequest{OrderID: "ord_2", AmountCents: 5000},
		Card:          CardDetails{Number: "4111111111111111"},
	})
	if err == nil {
		t.Fatal("expected error for rejected charge")
	}

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %T", err)
	}
	if gwErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d", gwErr.StatusCode)
	}
	if gwErr.Message != "cartão recusado pelo emissor" {
		t.Errorf("Message = %q", gwErr.Message)
	}
}

func TestFetchDocumentNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := Setup(&Config{APIKey: "key-1"})

	if _, err := c.FetchDocument(context.Background(), srv.URL+"/slip.pdf"); err == nil {
		t.Fatal("expected error for missing document")
	}
}
