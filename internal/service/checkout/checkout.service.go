package checkout

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"endurance-api/internal/common/enum"
	"endurance-api/internal/common/models"
	types "endurance-api/internal/common/type"
	"endurance-api/internal/pkg/brdoc"
	"endurance-api/internal/pkg/countdown"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/pkg/helper"
	"endurance-api/internal/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NormalizeInstallments enforces the billing period's financing rules. Periods
// that cannot be financed silently fall back to a single payment; eligible
// periods clamp the count into [2, max].
func NormalizeInstallments(period enum.BillPeriodEnum, option enum.PaymentOptionEnum, count int) (enum.PaymentOptionEnum, int) {
	if option != enum.PARCELADO {
		return enum.AVISTA, 0
	}

	max := period.MaxInstallments()
	if max <= 1 {
		return enum.AVISTA, 0
	}

	if count < 2 {
		count = 2
	}
	if count > max {
		count = max
	}
	return enum.PARCELADO, count
}

func (s *Service) CreateCheckout(req *CreateCheckoutRequest) *types.Response {
	user, err := s.rp.User.FindByID(s.ctx, req.UserID)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Usuário não encontrado",
			Error:   err,
		})
	}

	plan, err := s.rp.Plan.FindByID(s.ctx, req.PlanID)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Plano não encontrado",
			Error:   err,
		})
	}

	amount, err := planPrice(plan, req.BillPeriod)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Plano não disponível para o período selecionado",
			Error:   err,
		})
	}

	// a still-pending charge for the same plan and method is returned as-is
	// instead of charging the user twice
	if pending, pErr := s.rp.Checkout.FindLastPendingByUser(s.ctx, user.ID); pErr == nil && pending != nil {
		if resp := s.resumePending(pending, req); resp != nil {
			return resp
		}
	}

	var discount int64
	if req.CouponCode != "" {
		coupon, cErr := s.redeemableCoupon(req.CouponCode)
		if cErr != nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusUnprocessableEntity,
				Message: cErr.Error(),
			})
		}
		discount = amount * int64(coupon.Percentage) / 100
	}
	total := amount - discount

	_, installments := NormalizeInstallments(req.BillPeriod, req.PaymentOption, req.Installments)

	orderID, err := gonanoid.New()
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao gerar pedido",
			Error:   err,
		})
	}
	orderID = fmt.Sprintf("ord_%s", orderID)

	charge := &gateway.ChargeRequest{
		OrderID:     orderID,
		AmountCents: total,
		Customer: gateway.Customer{
			Name:  user.Name,
			Email: user.Email,
			CPF:   user.CPF,
			Phone: brdoc.FormatPhone(user.Phone),
		},
	}

	trx := &models.Transaction{
		OrderID:       orderID,
		UserID:        user.ID,
		PlanID:        plan.ID,
		CoachID:       req.CoachID,
		BillPeriod:    req.BillPeriod,
		PaymentMethod: req.PaymentMethod,
		Installments:  installments,
		CouponCode:    req.CouponCode,
		AmountCents:   total,
		DiscountCents: discount,
		Status:        enum.TRX_PENDING,
	}

	if len(req.Metadata) > 0 {
		raw, mErr := json.Marshal(req.Metadata)
		if mErr != nil {
			return helper.ParseResponse(&types.Response{
				Code:    http.StatusBadRequest,
				Message: "Metadados inválidos",
				Error:   mErr,
			})
		}
		trx.Metadata = models.JSONB(raw)
	}

	switch req.PaymentMethod {
	case enum.PIX:
		return s.checkoutPix(charge, trx)
	case enum.BOLETO:
		return s.checkoutBoleto(charge, trx)
	case enum.CREDIT_CARD:
		return s.checkoutCard(charge, trx, req.Card)
	default:
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Método de pagamento inválido",
		})
	}
}

func (s *Service) resumePending(pending *models.Transaction, req *CreateCheckoutRequest) *types.Response {
	if pending.PlanID != req.PlanID || pending.PaymentMethod != req.PaymentMethod {
		return nil
	}
	if pending.ExpiresAt == nil || !pending.ExpiresAt.After(time.Now()) {
		return nil
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Pagamento pendente em andamento",
		Data: PaymentResult{
			OrderID:          pending.OrderID,
			PaymentMethod:    pending.PaymentMethod,
			AmountCents:      pending.AmountCents,
			DiscountCents:    pending.DiscountCents,
			Installments:     pending.Installments,
			PixQRCode:        pending.PixQRCode,
			PixCopyPaste:     pending.PixCopyPaste,
			BoletoURL:        pending.BoletoURL,
			ExpiresInSeconds: int(time.Until(*pending.ExpiresAt) / time.Second),
		},
	})
}

func (s *Service) checkoutPix(charge *gateway.ChargeRequest, trx *models.Transaction) *types.Response {
	charge.ExpiresIn = int(s.expiry / time.Second)

	pix, err := s.gw.CreatePixCharge(s.ctx, charge)
	if err != nil {
		return s.gatewayFailure(err)
	}

	expiresAt := time.Now().Add(s.expiry)
	trx.GatewayRef = pix.ChargeID
	trx.PixQRCode = pix.QRCode
	trx.PixCopyPaste = pix.CopyPaste
	trx.ExpiresAt = &expiresAt

	if resp := s.persistPending(trx); resp != nil {
		return resp
	}
	s.armExpiry(trx.OrderID)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Pagamento PIX criado",
		Data: PaymentResult{
			OrderID:          trx.OrderID,
			PaymentMethod:    enum.PIX,
			AmountCents:      trx.AmountCents,
			DiscountCents:    trx.DiscountCents,
			PixQRCode:        pix.QRCode,
			PixCopyPaste:     pix.CopyPaste,
			ExpiresInSeconds: int(s.expiry / time.Second),
		},
	})
}

func (s *Service) checkoutBoleto(charge *gateway.ChargeRequest, trx *models.Transaction) *types.Response {
	boleto, err := s.gw.IssueBoleto(s.ctx, charge)
	if err != nil {
		return s.gatewayFailure(err)
	}

	expiresAt := time.Now().Add(s.expiry)
	trx.GatewayRef = boleto.ChargeID
	trx.BoletoURL = boleto.URL
	trx.ExpiresAt = &expiresAt
	if due, dErr := time.Parse("2006-01-02", boleto.DueDate); dErr == nil {
		trx.BoletoDueDate = &due
	}

	trx.BoletoSlipKey = s.archiveBoletoSlip(trx.OrderID, boleto)

	if resp := s.persistPending(trx); resp != nil {
		return resp
	}
	s.armExpiry(trx.OrderID)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Boleto emitido",
		Data: PaymentResult{
			OrderID:          trx.OrderID,
			PaymentMethod:    enum.BOLETO,
			AmountCents:      trx.AmountCents,
			DiscountCents:    trx.DiscountCents,
			BoletoURL:        boleto.URL,
			BoletoDueDate:    boleto.DueDate,
			ExpiresInSeconds: int(s.expiry / time.Second),
		},
	})
}

func (s *Service) checkoutCard(charge *gateway.ChargeRequest, trx *models.Transaction, card *gateway.CardDetails) *types.Response {
	if card == nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Dados do cartão são obrigatórios",
		})
	}
	card.Installments = trx.Installments

	result, err := s.gw.ChargeCard(s.ctx, &gateway.CardChargeRequest{
		ChargeRequest: *charge,
		Card:          *card,
	})
	if err != nil {
		return s.gatewayFailure(err)
	}

	trx.GatewayRef = result.ChargeID
	if result.Status != "approved" {
		trx.Status = enum.TRX_FAILED
		trx.FailureMessage = result.Message
		if err := s.rp.Checkout.Create(s.ctx, trx); err != nil {
			logger.Error.Printf("Failed to save declined transaction: %v", err)
		}

		message := result.Message
		if message == "" {
			message = "Pagamento recusado"
		}
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: message,
		})
	}

	now := time.Now()
	trx.Status = enum.TRX_PAID
	trx.PaidAt = &now

	if resp := s.persistPending(trx); resp != nil {
		return resp
	}
	s.redeemCoupon(trx.CouponCode)
	s.publishEvent("checkout.paid", trx)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Pagamento aprovado",
		Data: PaymentResult{
			OrderID:       trx.OrderID,
			PaymentMethod: enum.CREDIT_CARD,
			AmountCents:   trx.AmountCents,
			DiscountCents: trx.DiscountCents,
			Installments:  trx.Installments,
			Approved:      true,
		},
	})
}

func (s *Service) persistPending(trx *models.Transaction) *types.Response {
	if err := s.rp.Checkout.Create(s.ctx, trx); err != nil {
		logger.Error.Printf("Failed to save transaction %s: %v", trx.OrderID, err)
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao salvar transação",
			Error:   err,
		})
	}

	if trx.Status == enum.TRX_PENDING {
		s.publishEvent("checkout.pending", trx)
	}
	return nil
}

// armExpiry schedules the in-process countdown for a pending order. The sweep
// worker covers orders whose timer was lost to a restart.
func (s *Service) armExpiry(orderID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	s.timers[orderID] = countdown.Start(s.expiry, func() {
		if err := s.expireOrder(orderID); err != nil {
			logger.Warning.Printf("Failed to expire order %s: %v", orderID, err)
		}
	})
}

func (s *Service) disarmExpiry(orderID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[orderID]; ok {
		t.Stop()
		delete(s.timers, orderID)
	}
}

func (s *Service) expireOrder(orderID string) error {
	trx, err := s.rp.Checkout.FindByOrderID(s.ctx, orderID)
	if err != nil {
		return err
	}
	if trx.Status != enum.TRX_PENDING {
		return nil
	}

	if err := s.rp.Checkout.UpdateStatus(s.ctx, orderID, map[string]any{
		"status": enum.TRX_EXPIRED,
	}); err != nil {
		return err
	}

	s.disarmExpiry(orderID)
	trx.Status = enum.TRX_EXPIRED
	s.publishEvent("checkout.expired", trx)
	return nil
}

// ExpireSweep times out pending transactions past their window. Safety net for
// countdowns lost to a process restart.
func (s *Service) ExpireSweep() (int, error) {
	trxs, err := s.rp.Checkout.FindPendingExpiredBefore(s.ctx, time.Now(), 100)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, trx := range trxs {
		if err := s.expireOrder(trx.OrderID); err != nil {
			logger.Warning.Printf("Sweep failed to expire %s: %v", trx.OrderID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *Service) CheckStatus(orderID string) *types.Response {
	trx, err := s.rp.Checkout.FindByOrderID(s.ctx, orderID)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Transação não encontrada",
			Error:   err,
		})
	}

	status := StatusResponse{
		OrderID:       trx.OrderID,
		Status:        trx.Status,
		PaymentMethod: trx.PaymentMethod,
		AmountCents:   trx.AmountCents,
	}
	if trx.Status == enum.TRX_PENDING && trx.ExpiresAt != nil {
		if left := time.Until(*trx.ExpiresAt); left > 0 {
			status.ExpiresInSeconds = int(left / time.Second)
		}
	}
	if trx.BoletoSlipKey != "" && s.s3 != nil {
		url, sErr := s.s3.GetPresignedURL(trx.BoletoSlipKey)
		if sErr != nil {
			logger.Warning.Printf("Failed to presign slip for %s: %v", trx.OrderID, sErr)
		} else {
			status.BoletoSlipURL = url
		}
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: status,
	})
}

// HandleCallback processes the gateway's payment notification. The payload is
// never trusted without its signature.
func (s *Service) HandleCallback(payload map[string]any) *types.Response {
	orderID := helper.GetMapStringValue(payload, "order_id")
	statusCode := helper.GetMapStringValue(payload, "status_code")
	grossAmount := helper.GetMapStringValue(payload, "gross_amount")
	signature := helper.GetMapStringValue(payload, "signature_key")
	txStatus := helper.GetMapStringValue(payload, "transaction_status")

	if !s.gw.VerifySignature(*orderID, *statusCode, *grossAmount, *signature) {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusForbidden,
			Message: "Assinatura inválida",
		})
	}

	trx, err := s.rp.Checkout.FindByOrderID(s.ctx, *orderID)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusNotFound,
			Message: "Transação não encontrada",
			Error:   err,
		})
	}

	amount, err := helper.StringToFloat64(*grossAmount)
	if err != nil || int64(math.Round(*amount*100)) != trx.AmountCents {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnprocessableEntity,
			Message: "Valor divergente",
		})
	}

	if *txStatus != "paid" || trx.Status != enum.TRX_PENDING {
		return helper.ParseResponse(&types.Response{Code: http.StatusOK})
	}

	now := time.Now()
	if err := s.rp.Checkout.UpdateStatus(s.ctx, *orderID, map[string]any{
		"status":  enum.TRX_PAID,
		"paid_at": &now,
	}); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao atualizar transação",
			Error:   err,
		})
	}

	s.disarmExpiry(*orderID)
	s.redeemCoupon(trx.CouponCode)
	trx.Status = enum.TRX_PAID
	s.publishEvent("checkout.paid", trx)

	return helper.ParseResponse(&types.Response{Code: http.StatusOK})
}

func (s *Service) ListPlans() *types.Response {
	plans, err := s.rp.Plan.ListActive(s.ctx)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Falha ao listar planos",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: plans,
	})
}

func (s *Service) redeemableCoupon(code string) (*models.Coupon, error) {
	coupon, err := s.rp.Coupon.FindByCode(s.ctx, code)
	if err != nil {
		return nil, fmt.Errorf("cupom não encontrado")
	}
	if !coupon.Active {
		return nil, fmt.Errorf("cupom inativo")
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("cupom expirado")
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return nil, fmt.Errorf("cupom esgotado")
	}
	return coupon, nil
}

func (s *Service) redeemCoupon(code string) {
	if code == "" {
		return
	}
	if err := s.rp.Coupon.IncrementUsed(s.ctx, code); err != nil {
		logger.Warning.Printf("Failed to increment coupon %s: %v", code, err)
	}
}

// archiveBoletoSlip stores the issued slip PDF when an object store is wired.
// Best-effort: a missing archive never fails the checkout.
func (s *Service) archiveBoletoSlip(orderID string, boleto *gateway.BoletoCharge) string {
	if s.s3 == nil || boleto.SlipPDF == "" {
		return ""
	}

	pdf, err := s.gw.FetchDocument(s.ctx, boleto.SlipPDF)
	if err != nil {
		logger.Warning.Printf("Failed to fetch boleto slip for %s: %v", orderID, err)
		return ""
	}

	key := fmt.Sprintf("boletos/%s.pdf", orderID)
	if err := s.s3.UploadFile(key, pdf, "application/pdf"); err != nil {
		logger.Warning.Printf("Failed to archive boleto slip for %s: %v", orderID, err)
		return ""
	}
	return key
}

func (s *Service) gatewayFailure(err error) *types.Response {
	logger.Error.Printf("Gateway call failed: %v", err)

	message := "Falha ao processar pagamento, tente novamente"
	if gwErr, ok := err.(*gateway.GatewayError); ok && gwErr.Message != "" {
		message = gwErr.Message
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusBadGateway,
		Message: message,
		Error:   err,
	})
}

func (s *Service) publishEvent(pattern string, trx *models.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(eventsQueue, pattern, trx); err != nil {
		logger.Warning.Printf("Failed to publish %s for %s: %v", pattern, trx.OrderID, err)
	}
}

func planPrice(plan *models.Plan, period enum.BillPeriodEnum) (int64, error) {
	prices := map[string]int64{}
	if err := json.Unmarshal(plan.PeriodPrices, &prices); err != nil {
		return 0, fmt.Errorf("invalid period prices for plan %s: %w", plan.ID, err)
	}

	price, ok := prices[period.ToString()]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("plan %s has no price for period %s", plan.ID, period)
	}
	return price, nil
}
