package gateway

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"endurance-api/internal/pkg/helper"
)

type Config struct {
	BaseURL        string
	APIKey         string
	CallbackSecret string
	Timeout        time.Duration
}

// Client talks to the payment service provider that issues PIX charges, boleto
// slips and card captures.
type Client struct {
	cfg  *Config
	http *helper.HTTPClient
}

func Setup(cfg *Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:  cfg,
		http: helper.NewHTTPClient(cfg.Timeout),
	}
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
}

type ChargeRequest struct {
	OrderID     string   `json:"order_id"`
	AmountCents int64    `json:"amount_cents"`
	Customer    Customer `json:"customer"`
	// ExpiresIn bounds how long a PIX charge can be paid, in seconds.
	ExpiresIn int `json:"expires_in,omitempty"`
}

type PixCharge struct {
	ChargeID  string `json:"charge_id"`
	QRCode    string `json:"qr_code"`
	CopyPaste string `json:"copy_paste"`
}

type BoletoCharge struct {
	ChargeID string `json:"charge_id"`
	URL      string `json:"url"`
	DueDate  string `json:"due_date"`
	SlipPDF  string `json:"slip_pdf,omitempty"`
}

type CardDetails struct {
	Number       string `json:"number" validate:"required"`
	HolderName   string `json:"holder_name" validate:"required"`
	HolderCPF    string `json:"holder_cpf" validate:"omitempty,cpf"`
	ExpiryMonth  int    `json:"expiry_month" validate:"required,gte=1,lte=12"`
	ExpiryYear   int    `json:"expiry_year" validate:"required"`
	CVV          string `json:"cvv" validate:"required,min=3,max=4"`
	Installments int    `json:"installments"`
}

type CardChargeRequest struct {
	ChargeRequest
	Card CardDetails `json:"card"`
}

type CardCharge struct {
	ChargeID string `json:"charge_id"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// GatewayError carries the provider message so services can surface it verbatim.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error (%d): %s", e.StatusCode, e.Message)
}

func (c *Client) CreatePixCharge(ctx context.Context, req *ChargeRequest) (*PixCharge, error) {
	return post[PixCharge](c, ctx, "/v1/charges/pix", req)
}

func (c *Client) IssueBoleto(ctx context.Context, req *ChargeRequest) (*BoletoCharge, error) {
	return post[BoletoCharge](c, ctx, "/v1/charges/boleto", req)
}

func (c *Client) ChargeCard(ctx context.Context, req *CardChargeRequest) (*CardCharge, error) {
	return post[CardCharge](c, ctx, "/v1/charges/card", req)
}

// FetchDocument downloads a provider-hosted document (boleto slip PDF) for
// archiving.
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.Request(&helper.HTTPRequestPayload{
		Method: helper.GET,
		URL:    url,
	}, &helper.HTTPRequestConfig{Ctx: ctx, Headers: c.authHeaders()})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "failed to fetch document"}
	}

	return resp.Raw, nil
}

// VerifySignature checks a callback signature: sha512 over order id, status code,
// amount and the shared secret, same scheme the provider documents.
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	h := sha512.New()
	h.Write([]byte(orderID + statusCode + grossAmount + c.cfg.CallbackSecret))
	return hex.EncodeToString(h.Sum(nil)) == signature
}

func (c *Client) authHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return headers
}

func post[I any](c *Client, ctx context.Context, path string, body any) (*I, error) {
	resp, err := c.http.Request(&helper.HTTPRequestPayload{
		Method: helper.POST,
		URL:    c.cfg.BaseURL + path,
		Body:   body,
	}, &helper.HTTPRequestConfig{Ctx: ctx, Headers: c.authHeaders()})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		message := "payment provider rejected the request"
		if m := helper.GetMapStringValue(resp.Data, "message"); m != nil && *m != "" {
			message = *m
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: message}
	}

	return helper.Decode[I](resp)
}
