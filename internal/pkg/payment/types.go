package payment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/JonasWeber/TrackNest/app/models"
)

// Gateway is the trust boundary to the external payment processor. Neither
// webhook payloads nor verify-poll requests are trusted for payment facts;
// every ingestion path re-verifies through this interface first.
type Gateway interface {
	VerifyTransaction(ctx context.Context, reference string) (*PaymentResult, error)
}

// PaymentResult is the normalized, processor-confirmed view of one
// transaction as returned by Gateway.VerifyTransaction.
type PaymentResult struct {
	Reference string
	Status    string
	Amount    int64
	Currency  string
	PaidAt    time.Time
	Metadata  json.RawMessage
}

// Succeeded reports whether the processor confirmed the payment. Only
// successful results are ever persisted.
func (r *PaymentResult) Succeeded() bool {
	return r != nil && strings.EqualFold(strings.TrimSpace(r.Status), models.PaymentStatusSuccess)
}

// Window is the derived membership state for one principal, computed by
// Recompute from the non-refunded membership ledger.
type Window struct {
	Principal string     `json:"principal"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Active reports whether the window is active.
func (w *Window) Active() bool {
	return w != nil && w.Status == models.MembershipStatusActive
}

// Outcome summarizes one ingestion for the caller to relay to its client.
type Outcome struct {
	Kind      string             `json:"kind"`
	Reference string             `json:"reference"`
	Principal string             `json:"principal"`
	Window    *Window            `json:"membership,omitempty"`
	Items     []models.OrderItem `json:"items,omitempty"`
}

// Grant is a short-lived, reference-scoped download authorization issued by
// AuthorizeDownload and consumed by the asset-serving boundary.
type Grant struct {
	Token     string    `json:"token"`
	Reference string    `json:"reference"`
	Asset     string    `json:"asset"`
	Variant   string    `json:"variant"`
	ExpiresAt time.Time `json:"expires_at"`
}
