package enum

/*----------- WizardFlowEnum -----------*/

// WizardFlowEnum selects which step machine a draft runs: the public plan
// purchase flow (with intro and checkout steps) or the plain self-registration
// flow.
type WizardFlowEnum string

const (
	FLOW_PURCHASE WizardFlowEnum = "purchase"
	FLOW_SIGNUP   WizardFlowEnum = "signup"
)

func (e WizardFlowEnum) ToString() string {
	switch e {
	case FLOW_PURCHASE:
		return "purchase"
	case FLOW_SIGNUP:
		return "signup"
	}
	return ""
}

func (e WizardFlowEnum) IsValid() bool {
	switch e {
	case FLOW_PURCHASE, FLOW_SIGNUP:
		return true
	}
	return false
}
