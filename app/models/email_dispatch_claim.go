package models

import "time"

// EmailDispatchClaim is the claim-once gate for notification emails. The
// unique (kind, reference) index makes the insert the claim: whoever wins the
// insert sends the email, everybody else sees a conflict and stays silent.
// Rows are never updated or deleted.
type EmailDispatchClaim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"type:varchar(50);not null;index:ux_email_dispatch_claims_kind_ref,unique,priority:1" json:"kind"`
	Reference string    `gorm:"type:varchar(191);not null;index:ux_email_dispatch_claims_kind_ref,unique,priority:2" json:"reference"`
	Principal string    `gorm:"type:varchar(200);not null;default:''" json:"principal"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
