package enum

/*----------- PaymentMethodEnum -----------*/

type PaymentMethodEnum string

const (
	PIX         PaymentMethodEnum = "PIX"
	BOLETO      PaymentMethodEnum = "BOLETO"
	CREDIT_CARD PaymentMethodEnum = "CREDIT_CARD"
)

func (e PaymentMethodEnum) ToString() string {
	switch e {
	case PIX:
		return "PIX"
	case BOLETO:
		return "BOLETO"
	case CREDIT_CARD:
		return "CREDIT_CARD"
	}
	return ""
}

func (e PaymentMethodEnum) IsValid() bool {
	switch e {
	case PIX, BOLETO, CREDIT_CARD:
		return true
	}
	return false
}

/*----------- BillPeriodEnum -----------*/

type BillPeriodEnum string

const (
	WEEKLY     BillPeriodEnum = "WEEKLY"
	BIWEEKLY   BillPeriodEnum = "BIWEEKLY"
	MONTHLY    BillPeriodEnum = "MONTHLY"
	QUARTERLY  BillPeriodEnum = "QUARTERLY"
	SEMIANNUAL BillPeriodEnum = "SEMIANNUALLY"
	YEARLY     BillPeriodEnum = "YEARLY"
)

func (e BillPeriodEnum) ToString() string {
	return string(e)
}

func (e BillPeriodEnum) IsValid() bool {
	switch e {
	case WEEKLY, BIWEEKLY, MONTHLY, QUARTERLY, SEMIANNUAL, YEARLY:
		return true
	}
	return false
}

// MaxInstallments returns how many installments the billing period may be split
// into. Weekly and monthly plans are charged in full, single payment.
func (e BillPeriodEnum) MaxInstallments() int {
	switch e {
	case BIWEEKLY:
		return 2
	case QUARTERLY:
		return 3
	case SEMIANNUAL:
		return 6
	case YEARLY:
		return 12
	}
	return 1
}

/*----------- PaymentOptionEnum -----------*/

type PaymentOptionEnum string

const (
	AVISTA    PaymentOptionEnum = "AVISTA"
	PARCELADO PaymentOptionEnum = "PARCELADO"
)

func (e PaymentOptionEnum) ToString() string {
	switch e {
	case AVISTA:
		return "AVISTA"
	case PARCELADO:
		return "PARCELADO"
	}
	return ""
}

func (e PaymentOptionEnum) IsValid() bool {
	switch e {
	case AVISTA, PARCELADO:
		return true
	}
	return false
}

/*----------- TransactionStatusEnum -----------*/

type TransactionStatusEnum string

const (
	TRX_PENDING TransactionStatusEnum = "pending"
	TRX_PAID    TransactionStatusEnum = "paid"
	TRX_EXPIRED TransactionStatusEnum = "expired"
	TRX_FAILED  TransactionStatusEnum = "failed"
)

func (e TransactionStatusEnum) ToString() string {
	return string(e)
}

func (e TransactionStatusEnum) IsValid() bool {
	switch e {
	case TRX_PENDING, TRX_PAID, TRX_EXPIRED, TRX_FAILED:
		return true
	}
	return false
}
