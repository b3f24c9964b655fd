// Package payman is a typed HTTP client for the Payman payment network.
package payman

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"paycoffee/server/internal/infra"
)

// ErrMissingCredentials indicates that the client was configured without
// an application client id/secret.
var ErrMissingCredentials = errors.New("payman: client credentials are required")

// Options configures the Payman client.
type Options struct {
	ClientID       string
	ClientSecret   string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the Payman API. Calls are single
// best-effort requests: no retry, no backoff, no idempotency key.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	logger       *infra.Logger
}

// Token is the result of an authorization-code exchange.
type Token struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// CreatePayeeRequest names the receiving account for a payee registration.
type CreatePayeeRequest struct {
	Paytag string `json:"paytag"`
	Name   string `json:"name"`
}

// Payee is a registered receiving account.
type Payee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SendPaymentRequest describes a fund transfer to a payee.
type SendPaymentRequest struct {
	PayeeID string  `json:"payeeId"`
	Amount  float64 `json:"amountDecimal"`
	Memo    string  `json:"memo,omitempty"`
}

// Payment is the network's record of a submitted transfer.
type Payment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://agent.payman.ai/api"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		clientID:     strings.TrimSpace(opts.ClientID),
		clientSecret: strings.TrimSpace(opts.ClientSecret),
		baseURL:      baseURL,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// HasCredentials reports whether the client can perform the code exchange.
func (c *Client) HasCredentials() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ExchangeCode trades an authorization code for a supporter access token
// using the application's client credentials.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingCredentials
	}
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("payman: authorization code is required")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("payman: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	var token Token
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, errors.New("payman: empty access token")
	}
	c.logger.Debug().Int("expires_in", token.ExpiresIn).Msg("payman: exchanged authorization code")
	return &token, nil
}

// CreatePayee registers the receiving account for a paytag. The network
// treats the call as idempotent for an existing paytag.
func (c *Client) CreatePayee(ctx context.Context, accessToken string, payee CreatePayeeRequest) (*Payee, error) {
	if payee.Paytag == "" {
		return nil, errors.New("payman: paytag is required")
	}
	req, err := c.jsonRequest(ctx, accessToken, "/payments/payees", payee)
	if err != nil {
		return nil, err
	}
	var created Payee
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("payee_id", created.ID).Msg("payman: payee ready")
	return &created, nil
}

// SendPayment submits a fund transfer authenticated with the supporter's token.
func (c *Client) SendPayment(ctx context.Context, accessToken string, payment SendPaymentRequest) (*Payment, error) {
	if payment.Amount <= 0 {
		return nil, errors.New("payman: amount must be positive")
	}
	req, err := c.jsonRequest(ctx, accessToken, "/payments/send-payment", payment)
	if err != nil {
		return nil, err
	}
	var sent Payment
	if err := c.do(req, &sent); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("payment_id", sent.ID).Str("status", sent.Status).Msg("payman: payment submitted")
	return &sent, nil
}

func (c *Client) jsonRequest(ctx context.Context, accessToken, path string, payload any) (*http.Request, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("payman: access token is required")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payman: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payman: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payman: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("payman: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
			return fmt.Errorf("payman: %s (%s)", detail.Message, detail.Code)
		}
		return fmt.Errorf("payman: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payman: decode response: %w", err)
	}
	return nil
}
