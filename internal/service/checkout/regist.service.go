package checkout

import (
	"context"
	"sync"
	"time"

	"endurance-api/internal/common/enum"
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/countdown"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/pkg/rabbitmq"
	s3aws "endurance-api/internal/pkg/storage/s3"
	"endurance-api/internal/repository"
)

const eventsQueue = "endurance.events"

type Service struct {
	ctx       context.Context
	rp        repository.IRepository
	gw        *gateway.Client
	publisher *rabbitmq.Publisher
	s3        s3aws.Is3
	expiry    time.Duration

	// timers holds one countdown per pending PIX/boleto order so expiry fires
	// exactly once even before the sweep worker runs.
	timers   map[string]*countdown.Timer
	timersMu sync.Mutex
}

type IService interface {
	CreateCheckout(req *CreateCheckoutRequest) *types.Response
	CheckStatus(orderID string) *types.Response
	HandleCallback(payload map[string]any) *types.Response
	ExpireSweep() (int, error)
	ListPlans() *types.Response
}

func NewService(
	ctx context.Context,
	rp repository.IRepository,
	gw *gateway.Client,
	publisher *rabbitmq.Publisher,
	s3 s3aws.Is3,
	expiry time.Duration,
) IService {
	if expiry == 0 {
		expiry = 3 * time.Minute
	}

	return &Service{
		ctx:       ctx,
		rp:        rp,
		gw:        gw,
		publisher: publisher,
		s3:        s3,
		expiry:    expiry,
		timers:    map[string]*countdown.Timer{},
	}
}

// Request/Response DTOs

type CreateCheckoutRequest struct {
	UserID        string                 `json:"user_id" validate:"required"`
	PlanID        string                 `json:"plan_id" validate:"required"`
	CoachID       string                 `json:"coach_id"`
	BillPeriod    enum.BillPeriodEnum    `json:"bill_period" validate:"required,enum"`
	PaymentMethod enum.PaymentMethodEnum `json:"payment_method" validate:"required,enum"`
	PaymentOption enum.PaymentOptionEnum `json:"payment_option"`
	Installments  int                    `json:"installments"`
	CouponCode    string                 `json:"coupon_code"`
	Card          *gateway.CardDetails   `json:"card,omitempty"`
	// Metadata is stored verbatim on the transaction, for campaign and
	// attribution tags the client wants echoed back later.
	Metadata map[string]interface{} `json:"metadata,omitempty" validate:"omitempty,mapStringInterface"`
}

type PaymentResult struct {
	OrderID          string                 `json:"order_id"`
	PaymentMethod    enum.PaymentMethodEnum `json:"payment_method"`
	AmountCents      int64                  `json:"amount_cents"`
	DiscountCents    int64                  `json:"discount_cents"`
	Installments     int                    `json:"installments"`
	PixQRCode        string                 `json:"pix_qr_code,omitempty"`
	PixCopyPaste     string                 `json:"pix_copy_paste,omitempty"`
	BoletoURL        string                 `json:"boleto_url,omitempty"`
	BoletoDueDate    string                 `json:"boleto_due_date,omitempty"`
	Approved         bool                   `json:"approved"`
	ExpiresInSeconds int                    `json:"expires_in_seconds,omitempty"`
}

type StatusResponse struct {
	OrderID          string                     `json:"order_id"`
	Status           enum.TransactionStatusEnum `json:"status"`
	PaymentMethod    enum.PaymentMethodEnum     `json:"payment_method"`
	AmountCents      int64                      `json:"amount_cents"`
	ExpiresInSeconds int                        `json:"expires_in_seconds,omitempty"`
	BoletoSlipURL    string                     `json:"boleto_slip_url,omitempty"`
}
