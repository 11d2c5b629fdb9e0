package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"endurance-api/internal/pkg/logger"
)

type HTTPMethod string

const (
	GET    HTTPMethod = http.MethodGet
	POST   HTTPMethod = http.MethodPost
	PUT    HTTPMethod = http.MethodPut
	DELETE HTTPMethod = http.MethodDelete
)

func (m HTTPMethod) ToString() string {
	return string(m)
}

type HTTPRequestPayload struct {
	Method HTTPMethod
	URL    string
	Params map[string]string
	Body   any
}

type BasicAuth struct {
	Username string
	Password string
}

type HTTPRequestConfig struct {
	Ctx     context.Context
	Headers http.Header
	Auth    *BasicAuth
}

type HTTPAPIResponse struct {
	StatusCode int
	Headers    http.Header
	Raw        []byte
	Data       map[string]interface{}
}

// Decode unmarshals the raw response body into the given struct type.
func Decode[I any](r *HTTPAPIResponse) (*I, error) {
	var out I
	if err := json.Unmarshal(r.Raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HTTPClient is a thin wrapper over net/http with JSON defaults shared by the
// outbound integrations (CEP lookup, geocoding, payment gateway).
type HTTPClient struct {
	Client *http.Client
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &HTTPClient{
		Client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

func (h *HTTPClient) Request(payload *HTTPRequestPayload, config *HTTPRequestConfig) (*HTTPAPIResponse, error) {
	body, err := handleRequestBody(payload, config)
	if err != nil {
		logger.Debug.Println("Error handling request body:", err.Error())
		return nil, err
	}

	req, err := h.prepareRequest(payload, body, config)
	if err != nil {
		logger.Debug.Println("Error preparing request:", err.Error())
		return nil, err
	}

	return h.executeRequest(req)
}

func handleRequestBody(payload *HTTPRequestPayload, config *HTTPRequestConfig) (io.Reader, error) {
	if payload.Body == nil {
		return nil, nil
	}

	raw, err := json.Marshal(payload.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	if config.Headers == nil {
		config.Headers = http.Header{}
	}
	if config.Headers.Get("Content-Type") == "" {
		config.Headers.Set("Content-Type", "application/json")
	}

	return bytes.NewReader(raw), nil
}

func (h *HTTPClient) prepareRequest(payload *HTTPRequestPayload, body io.Reader, config *HTTPRequestConfig) (*http.Request, error) {
	ctx := config.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, payload.Method.ToString(), payload.URL, body)
	if err != nil {
		return nil, err
	}

	for key, values := range config.Headers {
		req.Header[key] = append(req.Header[key], values...)
	}

	if config.Auth != nil {
		req.SetBasicAuth(config.Auth.Username, config.Auth.Password)
	}

	if len(payload.Params) > 0 {
		q := req.URL.Query()
		for key, value := range payload.Params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

func (h *HTTPClient) executeRequest(req *http.Request) (*HTTPAPIResponse, error) {
	logger.Debug.Printf("Making request to: %s", req.URL.String())

	resp, err := h.Client.Do(req)
	if err != nil {
		logger.Error.Printf("Request failed: %v", err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := map[string]interface{}{}
	// Non-JSON bodies are kept raw; Data stays empty.
	_ = json.Unmarshal(raw, &result)

	logger.Debug.Printf("Request completed with status: %d", resp.StatusCode)

	return &HTTPAPIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
		Data:       result,
	}, nil
}
