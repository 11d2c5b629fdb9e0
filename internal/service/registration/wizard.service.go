package registration

import (
	"fmt"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/pkg/brdoc"
	"endurance-api/internal/pkg/geocode"
)

// Wizard steps. The purchase flow opens on a plan-selection intro before the
// shared steps; signup starts straight at access.
const (
	StepIntro    = -1
	StepAccess   = 0
	StepPersonal = 1
	StepAddress  = 2
	StepCoach    = 3
	StepCheckout = 4
)

func firstStep(flow enum.WizardFlowEnum) int {
	if flow == enum.FLOW_PURCHASE {
		return StepIntro
	}
	return StepAccess
}

func terminalStep(flow enum.WizardFlowEnum) int {
	if flow == enum.FLOW_PURCHASE {
		return StepCheckout
	}
	return StepAddress
}

// validateStep gates advancement: the draft may not move past a step while that
// step's fields fail validation. Returns nil when the step is complete.
func (s *Service) validateStep(draft *Draft) error {
	data := &draft.Data

	switch draft.Step {
	case StepIntro:
		if data.PlanID == "" {
			return fmt.Errorf("selecione um plano")
		}
		if !data.BillPeriod.IsValid() {
			return fmt.Errorf("selecione um período de cobrança")
		}
		return nil

	case StepAccess:
		email := brdoc.ValidateEmail(data.Email)
		if !email.Valid {
			return fmt.Errorf("%s", email.Message)
		}
		if len(data.Password) < 6 {
			return fmt.Errorf("a senha deve ter no mínimo 6 caracteres")
		}
		if data.Password != data.ConfirmPassword {
			return fmt.Errorf("as senhas não conferem")
		}
		return nil

	case StepPersonal:
		if data.Name == "" {
			return fmt.Errorf("nome é obrigatório")
		}
		cpf := brdoc.ValidateCPF(data.CPF)
		if !cpf.Valid {
			if cpf.Message != "" {
				return fmt.Errorf("%s", cpf.Message)
			}
			return fmt.Errorf("CPF inválido")
		}
		if len(brdoc.DigitsOnly(data.Phone)) < 10 {
			return fmt.Errorf("telefone inválido")
		}
		return nil

	case StepAddress:
		return s.validateAddressStep(draft)

	case StepCoach:
		if data.CoachID == "" {
			return fmt.Errorf("selecione um treinador")
		}
		return nil

	case StepCheckout:
		if !data.PaymentMethod.IsValid() {
			return fmt.Errorf("selecione um método de pagamento")
		}
		return nil
	}

	return nil
}

// validateAddressStep checks required fields then geocodes the address, caching
// a successful verdict on the draft so repeated Next calls skip the remote hop.
func (s *Service) validateAddressStep(draft *Draft) error {
	data := &draft.Data

	switch {
	case !brdoc.ValidCEP(data.PostalCode):
		return fmt.Errorf("CEP inválido")
	case data.Street == "":
		return fmt.Errorf("rua é obrigatória")
	case data.Number == "":
		return fmt.Errorf("número é obrigatório")
	case data.Neighborhood == "":
		return fmt.Errorf("bairro é obrigatório")
	case data.City == "":
		return fmt.Errorf("cidade é obrigatória")
	case data.State == "":
		return fmt.Errorf("estado é obrigatório")
	}

	if draft.AddressValidated {
		return nil
	}

	result := s.resolver.ValidateAddress(s.ctx, &geocode.Address{
		Street:       data.Street,
		Number:       data.Number,
		Complement:   data.Complement,
		Neighborhood: data.Neighborhood,
		City:         data.City,
		State:        data.State,
		PostalCode:   brdoc.DigitsOnly(data.PostalCode),
	})
	if !result.Valid {
		if result.Message != "" {
			return fmt.Errorf("%s", result.Message)
		}
		return fmt.Errorf("endereço não pôde ser validado")
	}

	draft.AddressValidated = true
	draft.Latitude = result.Latitude
	draft.Longitude = result.Longitude
	return nil
}
