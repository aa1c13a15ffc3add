package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/example/nairacardigans/internal/config"
)

// PaystackService talks to the Paystack transaction API. All amounts cross
// the wire in kobo (minor units).
type PaystackService struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackService constructs a PaystackService from config.
func NewPaystackService(cfg *config.Config) *PaystackService {
	return &PaystackService{
		secretKey: cfg.PaystackSecretKey,
		baseURL:   strings.TrimRight(cfg.PaystackBaseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// InitializeResult is the redirect data returned by a successful initialize call.
type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type paystackInitRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initialize creates a gateway transaction for the given amount in kobo and
// returns the customer redirect URL.
func (s *PaystackService) Initialize(ctx context.Context, email string, amountKobo int64, reference, callbackURL string, metadata map[string]any) (*InitializeResult, error) {
	payload, err := json.Marshal(paystackInitRequest{
		Email:       email,
		Amount:      amountKobo,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, &PaymentGatewayError{Op: "initialize", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, &PaymentGatewayError{Op: "initialize", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &PaymentGatewayError{Op: "initialize", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var parsed paystackInitResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &PaymentGatewayError{Op: "initialize", Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Status {
		return nil, &PaymentGatewayError{Op: "initialize", Err: fmt.Errorf("status %d: %s", resp.StatusCode, parsed.Message)}
	}

	return &InitializeResult{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		AccessCode:       parsed.Data.AccessCode,
		Reference:        parsed.Data.Reference,
	}, nil
}

// VerifyResult is the provider's view of a transaction.
type VerifyResult struct {
	Status     string
	AmountKobo int64
}

// Success reports whether the provider confirmed the charge.
func (r *VerifyResult) Success() bool { return r.Status == "success" }

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	} `json:"data"`
}

// Verify asks the provider for the state of a transaction by reference.
func (s *PaystackService) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, &PaymentGatewayError{Op: "verify", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &PaymentGatewayError{Op: "verify", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var parsed paystackVerifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &PaymentGatewayError{Op: "verify", Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &PaymentGatewayError{Op: "verify", Err: fmt.Errorf("status %d: %s", resp.StatusCode, parsed.Message)}
	}

	return &VerifyResult{Status: parsed.Data.Status, AmountKobo: parsed.Data.Amount}, nil
}

// Signature computes the hex HMAC-SHA512 of a raw webhook body under the
// secret key.
func (s *PaystackService) Signature(body []byte) string {
	mac := hmac.New(sha512.New, []byte(s.secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks a webhook signature header in constant time.
func VerifyWebhookSignature(secretKey string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
