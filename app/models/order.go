package models

import "time"

const OrderStatusPaid = "paid"

// Order is the base record written unconditionally for every verified payment
// before any kind-specific branching. It shares the ledger key (reference)
// with the payment's PaymentEvent and is read by the download-recovery
// boundary. Rows are created once; only the download counter is updated
// afterwards.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"type:varchar(191);not null;index:ux_orders_reference,unique" json:"reference"`
	Principal string    `gorm:"type:varchar(200);not null;index" json:"principal"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	Currency  string    `gorm:"type:varchar(8);not null;default:''" json:"currency"`
	ItemsJSON string    `gorm:"type:longtext" json:"-"`
	Status    string    `gorm:"type:varchar(16);not null;default:'paid'" json:"status"`
	// DownloadCount is maintained by the periodic counter flush, not by the
	// ingest path.
	DownloadCount int64     `gorm:"not null;default:0" json:"download_count"`
	PaidAt        time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Items decodes the recorded item list of a cart-style purchase.
func (o *Order) Items() []OrderItem {
	items, _ := DecodeOrderItems(o.ItemsJSON)
	return items
}
