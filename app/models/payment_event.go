package models

import (
	"encoding/json"
	"time"
)

const (
	PaymentKindMembership = "membership"
	PaymentKindPurchase   = "purchase"
)

const (
	PaymentStatusSuccess  = "success"
	PaymentStatusRefunded = "refunded"
)

// PaymentEvent is one row of the append-only payment ledger. The processor
// reference is the idempotency key: exactly one row per reference, a second
// insert attempt is a no-op. The only permitted mutation is the one-shot
// success -> refunded status transition.
type PaymentEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"type:varchar(191);not null;index:ux_payment_events_reference,unique" json:"reference"`
	Principal string    `gorm:"type:varchar(200);not null;index" json:"principal"`
	Kind      string    `gorm:"type:varchar(20);not null;index" json:"kind"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	Currency  string    `gorm:"type:varchar(8);not null;default:''" json:"currency"`
	Plan      string    `gorm:"type:varchar(50);not null;default:''" json:"plan"`
	Months    int       `gorm:"not null;default:0" json:"months"`
	ItemsJSON string    `gorm:"type:longtext" json:"-"`
	Status    string    `gorm:"type:varchar(16);not null;default:'success';index" json:"status"`
	PaidAt    time.Time `gorm:"not null;index" json:"paid_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// OrderItem is one purchased asset/variant pair inside a one-time purchase.
type OrderItem struct {
	Asset   string `json:"asset"`
	Variant string `json:"variant"`
}

// EncodeOrderItems serializes items for storage in a JSON column.
func EncodeOrderItems(items []OrderItem) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeOrderItems deserializes a JSON items column; empty input yields nil.
func DecodeOrderItems(raw string) ([]OrderItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []OrderItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Items decodes the stored item list. Decode errors are treated as an empty
// list; the column is only ever written by EncodeOrderItems.
func (e *PaymentEvent) Items() []OrderItem {
	items, _ := DecodeOrderItems(e.ItemsJSON)
	return items
}
