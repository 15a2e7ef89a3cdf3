package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonasWeber/TrackNest/internal/pkg/env"
)

const defaultPaystackAPIBaseURL = "https://api.paystack.co"

// PaystackClient talks to the payment processor's verification API. It is
// the only component allowed to establish payment facts.
type PaystackClient struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

func NewPaystackClientFromEnv() *PaystackClient {
	return &PaystackClient{
		SecretKey:  strings.TrimSpace(env.GetEnv("PAYSTACK_SECRET_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("PAYSTACK_API_BASE_URL", defaultPaystackAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// VerifyTransaction asks the processor for the authoritative state of one
// transaction reference. Any failure to get a well-formed confirmed answer
// surfaces as ErrVerificationFailed; callers must not write state on error.
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (*PaymentResult, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrVerificationFailed)
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return nil, fmt.Errorf("%w: PAYSTACK_SECRET_KEY is not configured", ErrVerificationFailed)
	}

	endpoint := strings.TrimRight(c.APIBaseURL, "/") + "/transaction/verify/" + url.PathEscape(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrVerificationFailed, resp.StatusCode, string(body))
	}

	var raw struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string          `json:"status"`
			Reference string          `json:"reference"`
			Amount    int64           `json:"amount"`
			Currency  string          `json:"currency"`
			PaidAt    string          `json:"paid_at"`
			Metadata  json.RawMessage `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if !raw.Status {
		return nil, fmt.Errorf("%w: %s", ErrVerificationFailed, raw.Message)
	}

	result := &PaymentResult{
		Reference: strings.TrimSpace(raw.Data.Reference),
		Status:    strings.ToLower(strings.TrimSpace(raw.Data.Status)),
		Amount:    raw.Data.Amount,
		Currency:  strings.ToUpper(strings.TrimSpace(raw.Data.Currency)),
		Metadata:  raw.Data.Metadata,
	}
	if result.Reference == "" {
		result.Reference = ref
	}
	// paid_at is empty for transactions that never completed.
	if paidAt := strings.TrimSpace(raw.Data.PaidAt); paidAt != "" {
		t, err := time.Parse(time.RFC3339, paidAt)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid paid_at %q", ErrVerificationFailed, paidAt)
		}
		result.PaidAt = t
	}
	return result, nil
}
