package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/JonasWeber/TrackNest/app/models"
	"github.com/JonasWeber/TrackNest/internal/pkg/env"
	"github.com/JonasWeber/TrackNest/internal/pkg/mail"
	"github.com/JonasWeber/TrackNest/internal/pkg/notifications"
	"gorm.io/gorm"
)

const (
	defaultDownloadWindow = 30 * time.Minute
	defaultGrantTTL       = 5 * time.Minute
)

// Service is the idempotent event router: both the webhook path and the
// verify-poll path converge here after live re-verification, and both drive
// ledger + reconciliation + order writes through the same code.
type Service struct {
	repo    Repository
	gateway Gateway
	mailer  notifications.Mailer
	grants  GrantStore

	downloadWindow time.Duration
	grantTTL       time.Duration
	now            func() time.Time
}

// NewService creates a payment service from injected dependencies.
func NewService(repo Repository, gateway Gateway, mailer notifications.Mailer, grants GrantStore) *Service {
	return &Service{
		repo:           repo,
		gateway:        gateway,
		mailer:         mailer,
		grants:         grants,
		downloadWindow: defaultDownloadWindow,
		grantTTL:       defaultGrantTTL,
		now:            time.Now,
	}
}

// NewServiceFromDB wires the production service from a GORM handle and the
// environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	s := NewService(NewRepository(db), NewPaystackClientFromEnv(), mail.SMTPMailer{}, NewRedisGrantStore())
	s.downloadWindow = time.Duration(env.GetEnvInt("DOWNLOAD_WINDOW_MINUTES", 30)) * time.Minute
	return s
}

// VerifyAndIngest re-verifies a reference with the processor and, when the
// processor confirms success, routes the result through Ingest. This is the
// single entry point shared by webhook and verify-poll handlers.
func (s *Service) VerifyAndIngest(ctx context.Context, reference string) (*Outcome, error) {
	result, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded() {
		return nil, ErrNotSuccessful
	}
	return s.Ingest(ctx, reference, result)
}

// Ingest records one verified successful payment: base order upsert first,
// then the kind-specific ledger insert and reconciliation. Replaying the
// same reference is always safe; the second call produces the same state as
// the first.
func (s *Service) Ingest(ctx context.Context, reference string, result *PaymentResult) (*Outcome, error) {
	if !result.Succeeded() {
		return nil, ErrNotSuccessful
	}
	if result.Reference != "" {
		reference = result.Reference
	}

	meta, metaErr := ParseEventMetadata(result.Metadata)

	// Base order record, written unconditionally before any branching so a
	// crash mid-call always leaves state recoverable by reprocessing the
	// same reference.
	itemsJSON, err := models.EncodeOrderItems(meta.Items)
	if err != nil {
		return nil, err
	}
	order := &models.Order{
		Reference: reference,
		Principal: meta.Principal,
		Amount:    result.Amount,
		Currency:  result.Currency,
		ItemsJSON: itemsJSON,
		Status:    models.OrderStatusPaid,
		PaidAt:    result.PaidAt,
	}
	if err := s.repo.UpsertOrder(order); err != nil {
		return nil, err
	}

	// Validation failures are fatal for this call. The base upsert above is
	// harmless to repeat once the payload is fixed.
	if metaErr != nil {
		return nil, metaErr
	}

	event := &models.PaymentEvent{
		Reference: reference,
		Principal: meta.Principal,
		Kind:      meta.Kind,
		Amount:    result.Amount,
		Currency:  result.Currency,
		Plan:      meta.Plan,
		Months:    meta.Months,
		ItemsJSON: itemsJSON,
		Status:    models.PaymentStatusSuccess,
		PaidAt:    result.PaidAt,
	}
	if _, err := s.repo.InsertEventIfAbsent(event); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Kind:      meta.Kind,
		Reference: reference,
		Principal: meta.Principal,
	}

	switch meta.Kind {
	case models.PaymentKindMembership:
		// A conflict above means the reference was already ledgered; the
		// recomputation is idempotent, so replaying it repairs any prior
		// partial failure.
		win, err := s.reconcilePrincipal(ctx, meta.Principal)
		if err != nil {
			return nil, err
		}
		outcome.Window = win

		s.dispatchReceipt(ctx, DispatchKindMembership, reference, meta.Principal, func() (string, string) {
			return notifications.MembershipReceipt(reference, meta.Plan, meta.Months, win.ExpiresAt)
		})
	case models.PaymentKindPurchase:
		outcome.Items = meta.Items

		s.dispatchReceipt(ctx, DispatchKindPurchase, reference, meta.Principal, func() (string, string) {
			return notifications.PurchaseReceipt(reference, meta.Items, result.Amount, result.Currency)
		})
	}

	return outcome, nil
}

// Refund transitions a ledger row to refunded and fully replays the
// principal's history. A refund of an early event changes the gap/renewal
// pattern for every later event, so incremental patching is unsound.
func (s *Service) Refund(ctx context.Context, reference string) (*Window, error) {
	event, transitioned, err := s.repo.MarkEventRefunded(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !transitioned {
		log.Printf("refund %s: already refunded, replaying reconciliation", reference)
	}

	if event.Kind != models.PaymentKindMembership {
		return nil, nil
	}
	return s.reconcilePrincipal(ctx, event.Principal)
}

// GetMembership returns the current derived window for a principal, or an
// empty expired window when the principal has no membership history.
func (s *Service) GetMembership(ctx context.Context, principal string) (*Window, error) {
	_ = ctx
	m, err := s.repo.GetMembershipByPrincipal(principal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Window{Principal: principal, Status: models.MembershipStatusExpired}, nil
		}
		return nil, err
	}
	return &Window{
		Principal: m.Principal,
		Plan:      m.Plan,
		Status:    m.Status,
		StartedAt: m.StartedAt,
		ExpiresAt: m.ExpiresAt,
	}, nil
}

// ReconcileAll replays every principal with a membership row. The sweeper
// runs this periodically to converge windows whose last write raced a
// concurrent ledger commit, and to flip active windows past their expiry.
func (s *Service) ReconcileAll(ctx context.Context) (int, error) {
	principals, err := s.repo.ListMembershipPrincipals()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, principal := range principals {
		if _, err := s.reconcilePrincipal(ctx, principal); err != nil {
			log.Printf("reconcile %s: %v", principal, err)
			continue
		}
		count++
	}
	return count, nil
}

// reconcilePrincipal loads the settled ledger, recomputes the window and
// overwrites the stored membership row.
func (s *Service) reconcilePrincipal(ctx context.Context, principal string) (*Window, error) {
	_ = ctx
	events, err := s.repo.ListSettledMembershipEvents(principal)
	if err != nil {
		return nil, err
	}

	win := Recompute(events, s.now())
	win.Principal = principal

	stored := &models.Membership{
		Principal: principal,
		Plan:      win.Plan,
		Status:    win.Status,
		StartedAt: win.StartedAt,
		ExpiresAt: win.ExpiresAt,
	}
	if err := s.repo.SaveMembership(stored); err != nil {
		return nil, err
	}
	return &win, nil
}
