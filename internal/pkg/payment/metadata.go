package payment

import (
	"encoding/json"
	"strings"

	"github.com/JonasWeber/TrackNest/app/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// EventMetadata is the free-form processor metadata attached to a
// transaction at checkout time, parsed into the shape the router needs.
type EventMetadata struct {
	Kind      string             `json:"kind"`
	Principal string             `json:"principal"`
	Plan      string             `json:"plan"`
	Months    int                `json:"months"`
	Items     []models.OrderItem `json:"items"`
}

// ParseEventMetadata decodes and normalizes raw metadata. The returned
// metadata is best-effort even when the error is non-nil so callers that
// only need partial fields (e.g. recorded items) can still read them.
func ParseEventMetadata(raw json.RawMessage) (*EventMetadata, error) {
	meta := &EventMetadata{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, meta); err != nil {
			return meta, &ValidationError{Field: "metadata", Detail: "is not a JSON object"}
		}
	}

	meta.Kind = strings.ToLower(strings.TrimSpace(meta.Kind))
	meta.Principal = strings.ToLower(strings.TrimSpace(meta.Principal))
	meta.Plan = strings.TrimSpace(meta.Plan)
	for i := range meta.Items {
		meta.Items[i].Asset = strings.TrimSpace(meta.Items[i].Asset)
		meta.Items[i].Variant = strings.TrimSpace(meta.Items[i].Variant)
	}

	return meta, meta.Validate()
}

// Validate enforces the per-kind requirements. Missing or malformed fields
// are rejected as data errors, never silently coerced.
func (m *EventMetadata) Validate() error {
	switch m.Kind {
	case models.PaymentKindMembership:
		if err := validate.Var(m.Principal, "required,email"); err != nil {
			return &ValidationError{Field: "principal", Detail: "must be a valid email"}
		}
		if m.Plan == "" {
			return &ValidationError{Field: "plan", Detail: "is required for memberships"}
		}
		if m.Months < 1 {
			return &ValidationError{Field: "months", Detail: "must be at least 1"}
		}
	case models.PaymentKindPurchase:
		if err := validate.Var(m.Principal, "required,email"); err != nil {
			return &ValidationError{Field: "principal", Detail: "must be a valid email"}
		}
		if len(m.Items) == 0 {
			return &ValidationError{Field: "items", Detail: "must not be empty"}
		}
		for _, it := range m.Items {
			if it.Asset == "" || it.Variant == "" {
				return &ValidationError{Field: "items", Detail: "entries need asset and variant"}
			}
		}
	default:
		return &ValidationError{Field: "kind", Detail: "is unknown"}
	}
	return nil
}

// HasItem reports whether the asset/variant pair is part of the metadata's
// recorded item list.
func (m *EventMetadata) HasItem(asset, variant string) bool {
	return containsItem(m.Items, asset, variant)
}

// containsItem matches an asset/variant pair against an item list,
// case-insensitively.
func containsItem(items []models.OrderItem, asset, variant string) bool {
	for _, it := range items {
		if strings.EqualFold(it.Asset, asset) && strings.EqualFold(it.Variant, variant) {
			return true
		}
	}
	return false
}

// WebhookEnvelope is the outer JSON shape of a processor webhook delivery.
type WebhookEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// ParseWebhookEnvelope decodes the webhook body far enough to route it.
func ParseWebhookEnvelope(payload []byte) (*WebhookEnvelope, error) {
	var env WebhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	env.Event = strings.ToLower(strings.TrimSpace(env.Event))
	env.Data.Reference = strings.TrimSpace(env.Data.Reference)
	return &env, nil
}

// IsChargeSuccess reports whether this delivery is the processor's success
// event. All other event types are acknowledged and ignored.
func (e *WebhookEnvelope) IsChargeSuccess() bool {
	return e.Event == "charge.success"
}
