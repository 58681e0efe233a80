package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/config"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
)

// maxTitleLength is a Chapa protocol constraint on customization titles.
const maxTitleLength = 16

// ErrTitleTooLong is returned before any network call when the
// customization title exceeds the gateway's limit.
var ErrTitleTooLong = errors.New("customization title must be 16 characters or fewer")

// InitializeRequest carries the fields for opening a checkout with the
// gateway.
type InitializeRequest struct {
	AmountCents int64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	TxRef       string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

// CheckoutResult is the outcome of a successful Initialize call.
type CheckoutResult struct {
	CheckoutURL string
}

// VerifyResult is the outcome of a successful Verify call. RawStatus is the
// gateway's own status string, before normalization.
type VerifyResult struct {
	RawStatus string
}

// Client is the interface for the payment gateway.
type Client interface {
	Initialize(ctx context.Context, req InitializeRequest) (*CheckoutResult, error)
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}

// ChapaClient calls the Chapa transaction API. It is stateless and performs
// no persistence.
type ChapaClient struct {
	cfg        config.ChapaConfig
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewChapaClient creates a gateway client. The secret key and base URL come
// from config; the HTTP client enforces the configured timeout.
func NewChapaClient(cfg config.ChapaConfig, logger *zap.SugaredLogger) *ChapaClient {
	return &ChapaClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// initializePayload is the wire format of POST /transaction/initialize.
type initializePayload struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`

	Customization struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"customization"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Initialize opens a checkout for the given transaction reference and
// returns the gateway-issued checkout URL.
func (c *ChapaClient) Initialize(ctx context.Context, req InitializeRequest) (*CheckoutResult, error) {
	if len(req.Title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	payload := initializePayload{
		Amount:      domain.FormatAmount(req.AmountCents),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
	}
	payload.Customization.Title = req.Title
	payload.Customization.Description = req.Description

	var resp initializeResponse
	raw, err := c.post(ctx, c.cfg.BaseURL+"/transaction/initialize", payload, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Status == "failed" {
		c.logger.Errorw("gateway rejected initialize", "tx_ref", req.TxRef, "message", resp.Message)
		return nil, &Error{Kind: KindRejected, Message: resp.Message, RawResponse: raw}
	}

	if resp.Data == nil || resp.Data.CheckoutURL == "" {
		c.logger.Errorw("gateway returned no checkout url", "tx_ref", req.TxRef)
		return nil, &Error{Kind: KindMalformedResponse, Message: "checkout URL not returned by gateway", RawResponse: raw}
	}

	c.logger.Debugw("checkout initialized", "tx_ref", req.TxRef, "checkout_url", resp.Data.CheckoutURL)
	return &CheckoutResult{CheckoutURL: resp.Data.CheckoutURL}, nil
}

// Verify asks the gateway for the state of a transaction.
func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	var resp verifyResponse
	raw, err := c.get(ctx, c.cfg.BaseURL+"/transaction/verify/"+txRef, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Status != "success" {
		c.logger.Errorw("gateway verification failed", "tx_ref", txRef, "message", resp.Message)
		return nil, &Error{Kind: KindVerificationFailed, Message: resp.Message, RawResponse: raw}
	}

	if resp.Data == nil {
		return nil, &Error{Kind: KindMalformedResponse, Message: "verification payload missing data", RawResponse: raw}
	}

	c.logger.Debugw("transaction verified", "tx_ref", txRef, "raw_status", resp.Data.Status)
	return &VerifyResult{RawStatus: resp.Data.Status}, nil
}

func (c *ChapaClient) post(ctx context.Context, url string, payload any, out any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *ChapaClient) get(ctx context.Context, url string, out any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("build request: %v", err)}
	}

	return c.do(req, out)
}

// do executes the request with bearer auth and decodes the JSON body into
// out, returning the raw body for error reporting. The call is traced as a
// New Relic external segment when a transaction is present in the context.
func (c *ChapaClient) do(req *http.Request, out any) (string, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	txn := newrelic.FromContext(req.Context())
	seg := newrelic.StartExternalSegment(txn, req)
	resp, err := c.httpClient.Do(req)
	seg.Response = resp
	seg.End()
	if err != nil {
		c.logger.Errorw("gateway request failed", "url", req.URL.String(), "error", err)
		return "", &Error{Kind: KindTransport, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindTransport, Message: fmt.Sprintf("read response: %v", err)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return string(raw), &Error{Kind: KindTransport, Message: fmt.Sprintf("decode response: %v", err), RawResponse: string(raw)}
	}

	return string(raw), nil
}
