package brdoc

import "testing"

func TestFormatCPFProgressive(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"5", "5"},
		{"529", "529"},
		{"5299", "529.9"},
		{"5299822", "529.982.2"},
		{"5299822472", "529.982.247-2"},
		{"52998224725", "529.982.247-25"},
		{"529982247259999", "529.982.247-25"},
		{"529.982.247-25", "529.982.247-25"},
		{"abc529def982", "529.982"},
	}

	for _, c := range cases {
		if got := FormatCPF(c.in); got != c.want {
			t.Errorf("FormatCPF(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCPFIdempotent(t *testing.T) {
	once := FormatCPF("52998224725")
	if twice := FormatCPF(once); twice != once {
		t.Fatalf("expected idempotent mask, got %q then %q", once, twice)
	}
	if len(once) > 14 {
		t.Fatalf("expected masked CPF no longer than 14 chars, got %d", len(once))
	}
}

func TestValidateCPF(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		res := ValidateCPF("529.982.247-25")
		if !res.Valid {
			t.Fatalf("expected valid CPF, got message %q", res.Message)
		}
		if res.Formatted != "529.982.247-25" {
			t.Errorf("expected formatted CPF, got %q", res.Formatted)
		}
	})

	t.Run("bad check digit", func(t *testing.T) {
		res := ValidateCPF("52998224726")
		if res.Valid || res.Message != "CPF inválido" {
			t.Fatalf("expected invalid CPF, got valid=%v message=%q", res.Valid, res.Message)
		}
	})

	t.Run("all same digits", func(t *testing.T) {
		res := ValidateCPF("00000000000")
		if res.Valid || res.Message != "CPF inválido" {
			t.Fatalf("expected repeated digits rejected, got valid=%v message=%q", res.Valid, res.Message)
		}
	})

	t.Run("partial input is not an error", func(t *testing.T) {
		res := ValidateCPF("5299822")
		if res.Valid {
			t.Fatal("partial CPF must not be valid")
		}
		if res.Message != "" {
			t.Fatalf("partial CPF must not carry an error, got %q", res.Message)
		}
	})

	t.Run("too many digits", func(t *testing.T) {
		res := ValidateCPF("529982247251")
		if res.Valid || res.Message != "CPF deve ter 11 dígitos" {
			t.Fatalf("expected length error, got valid=%v message=%q", res.Valid, res.Message)
		}
	})
}
