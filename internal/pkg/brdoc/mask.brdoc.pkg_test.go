package brdoc

import "testing"

func TestFormatPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1", "(1"},
		{"11", "(11"},
		{"119", "(11) 9"},
		{"11987654321", "(11) 98765-4321"},
		{"119876543219", "(11) 98765-4321"},
		{"(11) 98765-4321", "(11) 98765-4321"},
	}

	for _, c := range cases {
		if got := FormatPhone(c.in); got != c.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCEP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"01310", "01310"},
		{"013101", "01310-1"},
		{"01310100", "01310-100"},
		{"013101009", "01310-100"},
		{"01310-100", "01310-100"},
	}

	for _, c := range cases {
		if got := FormatCEP(c.in); got != c.want {
			t.Errorf("FormatCEP(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidCEP(t *testing.T) {
	for cep, want := range map[string]bool{
		"01310-100": true,
		"01310100":  true,
		"0131010":   false,
		"abcde-fgh": false,
		"":          false,
	} {
		if got := ValidCEP(cep); got != want {
			t.Errorf("ValidCEP(%q) = %v, want %v", cep, got, want)
		}
	}
}
