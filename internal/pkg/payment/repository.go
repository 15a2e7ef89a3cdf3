package payment

import (
	"github.com/JonasWeber/TrackNest/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the datastore operations used by the payment service.
// Idempotency is expressed as datastore capabilities (conditional insert,
// conditional status transition), never as check-then-write in the caller.
type Repository interface {
	InsertEventIfAbsent(event *models.PaymentEvent) (bool, error)
	MarkEventRefunded(reference string) (*models.PaymentEvent, bool, error)
	ListSettledMembershipEvents(principal string) ([]models.PaymentEvent, error)
	UpsertOrder(order *models.Order) error
	GetOrderByReference(reference string) (*models.Order, error)
	SaveMembership(m *models.Membership) error
	GetMembershipByPrincipal(principal string) (*models.Membership, error)
	ClaimDispatch(claim *models.EmailDispatchClaim) (bool, error)
	ListMembershipPrincipals() ([]string, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// InsertEventIfAbsent appends one ledger row. The unique reference index
// turns a concurrent duplicate into "one winner, one no-op": created=false
// means the reference was already ledgered, which callers treat as success.
func (r *gormRepository) InsertEventIfAbsent(event *models.PaymentEvent) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}

	created := tx.RowsAffected > 0
	if !created {
		// Re-read so the caller sees the winning row, not its own attempt.
		if err := r.db.Where("reference = ?", event.Reference).First(event).Error; err != nil {
			return false, err
		}
	}
	return created, nil
}

// MarkEventRefunded performs the one-shot success -> refunded transition as
// a conditional update. The bool reports whether this call won the
// transition; refunding an already-refunded reference is a no-op success.
func (r *gormRepository) MarkEventRefunded(reference string) (*models.PaymentEvent, bool, error) {
	tx := r.db.Model(&models.PaymentEvent{}).
		Where("reference = ? AND status = ?", reference, models.PaymentStatusSuccess).
		Update("status", models.PaymentStatusRefunded)
	if tx.Error != nil {
		return nil, false, tx.Error
	}

	var event models.PaymentEvent
	if err := r.db.Where("reference = ?", reference).First(&event).Error; err != nil {
		return nil, false, err
	}
	return &event, tx.RowsAffected > 0, nil
}

func (r *gormRepository) ListSettledMembershipEvents(principal string) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	err := r.db.
		Where("principal = ? AND kind = ? AND status = ?", principal, models.PaymentKindMembership, models.PaymentStatusSuccess).
		Order("paid_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// UpsertOrder writes the base order record. Orders are immutable once
// written, so the conflict policy is DoNothing rather than update.
func (r *gormRepository) UpsertOrder(order *models.Order) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoNothing: true,
	}).Create(order).Error; err != nil {
		return err
	}

	return r.db.Where("reference = ?", order.Reference).First(order).Error
}

func (r *gormRepository) GetOrderByReference(reference string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("reference = ?", reference).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// SaveMembership overwrites the derived window for a principal. Full
// overwrite, never merge: the window is a cache of Recompute's output.
func (r *gormRepository) SaveMembership(m *models.Membership) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "principal"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan",
			"status",
			"started_at",
			"expires_at",
			"updated_at",
		}),
	}).Create(m).Error; err != nil {
		return err
	}

	return r.db.Where("principal = ?", m.Principal).First(m).Error
}

func (r *gormRepository) GetMembershipByPrincipal(principal string) (*models.Membership, error) {
	var m models.Membership
	if err := r.db.Where("principal = ?", principal).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ClaimDispatch attempts to win the send-once claim for one notification.
// A conflict on (kind, reference) is the expected outcome on retries.
func (r *gormRepository) ClaimDispatch(claim *models.EmailDispatchClaim) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "kind"},
			{Name: "reference"},
		},
		DoNothing: true,
	}).Create(claim)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) ListMembershipPrincipals() ([]string, error) {
	var principals []string
	err := r.db.Model(&models.Membership{}).
		Distinct().
		Pluck("principal", &principals).Error
	return principals, err
}
