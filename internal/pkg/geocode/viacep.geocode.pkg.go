package geocode

import (
	"context"
	"fmt"
	"net/http"

	"endurance-api/internal/pkg/brdoc"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/logger"
)

type viaCEPResponse struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	Erro         bool   `json:"erro"`
}

// LookupCEP resolves a postal code to its street/neighborhood/city/state so the
// wizard can pre-fill the address step. The remote service is only called when
// the input cleans to exactly 8 digits.
func (r *Resolver) LookupCEP(ctx context.Context, code string) *CEPResult {
	digits := brdoc.DigitsOnly(code)
	if len(digits) != 8 {
		return &CEPResult{Message: "CEP deve ter 8 dígitos"}
	}

	resp, err := r.http.Request(&helper.HTTPRequestPayload{
		Method: helper.GET,
		URL:    fmt.Sprintf("%s/%s/json/", r.cfg.ViaCEPBaseURL, digits),
	}, &helper.HTTPRequestConfig{Ctx: ctx})
	if err != nil {
		logger.Warning.Printf("CEP lookup failed for %s: %v", digits, err)
		return &CEPResult{Message: "erro ao consultar CEP, tente novamente"}
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warning.Printf("CEP lookup returned status %d for %s", resp.StatusCode, digits)
		return &CEPResult{Message: "erro ao consultar CEP, tente novamente"}
	}

	data, err := helper.Decode[viaCEPResponse](resp)
	if err != nil {
		return &CEPResult{Message: "erro ao consultar CEP, tente novamente"}
	}

	if data.Erro {
		return &CEPResult{Message: "CEP não encontrado"}
	}

	return &CEPResult{
		Valid:        true,
		CEP:          brdoc.FormatCEP(data.CEP),
		Street:       data.Street,
		Neighborhood: data.Neighborhood,
		City:         data.City,
		State:        data.State,
	}
}
