package geocode

import (
	"time"

	"endurance-api/internal/pkg/helper"
)

type Config struct {
	ViaCEPBaseURL string
	GoogleAPIKey  string
	GoogleBaseURL string
	Timeout       time.Duration
}

// Resolver answers the two address questions the registration wizard asks: what
// address belongs to a postal code, and is this full address real. Lookup and
// validation failures come back as structured results, never as Go errors, so a
// flaky upstream cannot take the wizard down.
type Resolver struct {
	cfg  *Config
	http *helper.HTTPClient
}

func NewResolver(cfg *Config) *Resolver {
	if cfg.ViaCEPBaseURL == "" {
		cfg.ViaCEPBaseURL = "https://viacep.com.br/ws"
	}
	if cfg.GoogleBaseURL == "" {
		cfg.GoogleBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Resolver{
		cfg:  cfg,
		http: helper.NewHTTPClient(cfg.Timeout),
	}
}

type CEPResult struct {
	Valid        bool   `json:"valid"`
	Message      string `json:"message,omitempty"`
	CEP          string `json:"cep,omitempty"`
	Street       string `json:"street,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

type AddressValidation struct {
	Valid            bool     `json:"valid"`
	Message          string   `json:"message,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	// Approximate marks results produced by the offline fallback rather than a
	// real geocoding provider.
	Approximate bool `json:"approximate,omitempty"`
}
