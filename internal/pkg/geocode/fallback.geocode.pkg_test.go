package geocode

import (
	"context"
	"math"
	"testing"
)

func offlineResolver() *Resolver {
	// no Google API key configured, validation must run offline
	return NewResolver(&Config{})
}

func sampleAddress() *Address {
	return &Address{
		Street:       "Avenida Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		PostalCode:   "01310-100",
	}
}

func TestValidateAddressOffline(t *testing.T) {
	res := offlineResolver().ValidateAddress(context.Background(), sampleAddress())
	if !res.Valid {
		t.Fatalf("expected valid address, got message %q", res.Message)
	}
	if !res.Approximate {
		t.Fatal("offline validation must be flagged approximate")
	}
	if res.Latitude == nil || res.Longitude == nil {
		t.Fatal("expected synthesized coordinates")
	}

	// accent-folded city hit: coordinates must stay near São Paulo
	if math.Abs(*res.Latitude-(-23.5505)) > 0.02 {
		t.Errorf("latitude %f too far from city base", *res.Latitude)
	}
	if math.Abs(*res.Longitude-(-46.6333)) > 0.02 {
		t.Errorf("longitude %f too far from city base", *res.Longitude)
	}
}

func TestValidateAddressOfflineDeterministic(t *testing.T) {
	r := offlineResolver()
	a := r.ValidateAddress(context.Background(), sampleAddress())
	b := r.ValidateAddress(context.Background(), sampleAddress())

	if *a.Latitude != *b.Latitude || *a.Longitude != *b.Longitude {
		t.Fatalf("same address must synthesize the same coordinates: (%f,%f) vs (%f,%f)",
			*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
	}
}

func TestValidateAddressOfflineRejects(t *testing.T) {
	r := offlineResolver()

	bad := sampleAddress()
	bad.State = "XX"
	if res := r.ValidateAddress(context.Background(), bad); res.Valid || res.Message != "estado inválido" {
		t.Fatalf("expected state rejection, got valid=%v message=%q", res.Valid, res.Message)
	}

	bad = sampleAddress()
	bad.Number = ""
	if res := r.ValidateAddress(context.Background(), bad); res.Valid || res.Message != "número é obrigatório" {
		t.Fatalf("expected number rejection, got valid=%v message=%q", res.Valid, res.Message)
	}

	bad = sampleAddress()
	bad.PostalCode = "123"
	if res := r.ValidateAddress(context.Background(), bad); res.Valid {
		t.Fatal("expected CEP rejection")
	}
}

func TestValidateAddressOfflineStateFallback(t *testing.T) {
	addr := sampleAddress()
	addr.City = "Uberlândia"
	addr.State = "MG"

	res := offlineResolver().ValidateAddress(context.Background(), addr)
	if !res.Valid {
		t.Fatalf("expected valid address, got message %q", res.Message)
	}
	// unknown city falls back to the state centroid with a wider spread
	if math.Abs(*res.Latitude-(-18.5122)) > 0.5 {
		t.Errorf("latitude %f too far from state base", *res.Latitude)
	}
}
