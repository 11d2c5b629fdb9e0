package geocode

import (
	"context"
	"fmt"
	"net/http"

	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/logger"
)

type googleGeocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// ValidateAddress checks a complete address and returns coordinates. With a
// configured API key it asks the Google Geocoding API; without one it falls back
// to the offline approximation in fallback.geocode.pkg.go.
func (r *Resolver) ValidateAddress(ctx context.Context, addr *Address) *AddressValidation {
	if r.cfg.GoogleAPIKey == "" {
		return r.validateOffline(addr)
	}

	query := fmt.Sprintf("%s, %s, %s, %s, %s, Brasil",
		addr.Street, addr.Number, addr.Neighborhood, addr.City, addr.State)

	resp, err := r.http.Request(&helper.HTTPRequestPayload{
		Method: helper.GET,
		URL:    r.cfg.GoogleBaseURL,
		Params: map[string]string{
			"address": query,
			"key":     r.cfg.GoogleAPIKey,
		},
	}, &helper.HTTPRequestConfig{Ctx: ctx})
	if err != nil {
		logger.Warning.Printf("Geocoding request failed: %v", err)
		return &AddressValidation{Message: "erro ao validar endereço, tente novamente"}
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warning.Printf("Geocoding returned status %d", resp.StatusCode)
		return &AddressValidation{Message: "erro ao validar endereço, tente novamente"}
	}

	data, err := helper.Decode[googleGeocodeResponse](resp)
	if err != nil {
		return &AddressValidation{Message: "erro ao validar endereço, tente novamente"}
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		return &AddressValidation{Message: "endereço não encontrado"}
	}

	first := data.Results[0]
	lat := first.Geometry.Location.Lat
	lng := first.Geometry.Location.Lng

	return &AddressValidation{
		Valid:            true,
		Latitude:         &lat,
		Longitude:        &lng,
		FormattedAddress: first.FormattedAddress,
	}
}
