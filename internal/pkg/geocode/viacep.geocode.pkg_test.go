package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testResolver(baseURL string) *Resolver {
	return NewResolver(&Config{ViaCEPBaseURL: baseURL})
}

func TestLookupCEPFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/01310100/json/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	}))
	defer srv.Close()

	res := testResolver(srv.URL).LookupCEP(context.Background(), "01310-100")
	if !res.Valid {
		t.Fatalf("expected valid lookup, got message %q", res.Message)
	}
	if res.Street != "Avenida Paulista" || res.City != "São Paulo" || res.State != "SP" {
		t.Errorf("unexpected address: %+v", res)
	}
	if res.CEP != "01310-100" {
		t.Errorf("expected masked CEP, got %q", res.CEP)
	}
}

func TestLookupCEPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	res := testResolver(srv.URL).LookupCEP(context.Background(), "99999999")
	if res.Valid {
		t.Fatal("expected lookup to fail")
	}
	if res.Message != "CEP não encontrado" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestLookupCEPMalformedSkipsRemote(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	res := testResolver(srv.URL).LookupCEP(context.Background(), "1234")
	if called {
		t.Fatal("remote service must not be called for malformed CEP")
	}
	if res.Valid || res.Message != "CEP deve ter 8 dígitos" {
		t.Fatalf("expected length error, got valid=%v message=%q", res.Valid, res.Message)
	}
}

func TestLookupCEPServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := testResolver(srv.URL).LookupCEP(context.Background(), "01310100")
	if res.Valid {
		t.Fatal("expected lookup to fail")
	}
	if res.Message != "erro ao consultar CEP, tente novamente" {
		t.Errorf("unexpected message %q", res.Message)
	}
}
