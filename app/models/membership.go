package models

import "time"

const (
	MembershipStatusActive  = "active"
	MembershipStatusExpired = "expired"
)

// Membership is the derived window of a principal's subscription: a cache of
// the reconciliation result, never a source of truth. It is fully rebuilt
// from the ledger whenever a membership payment or refund is processed and
// must never be patched incrementally.
type Membership struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Principal string     `gorm:"type:varchar(200);not null;index:ux_memberships_principal,unique" json:"principal"`
	Plan      string     `gorm:"type:varchar(50);not null;default:''" json:"plan"`
	Status    string     `gorm:"type:varchar(16);not null;default:'expired';index" json:"status"`
	StartedAt *time.Time `gorm:"type:timestamp;default:null" json:"started_at,omitempty"`
	ExpiresAt *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
