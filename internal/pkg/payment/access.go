package payment

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/JonasWeber/TrackNest/app/models"
)

// AuthorizeDownload checks that a principal may still fetch a purchased
// asset: the reference must verify as successfully paid, the recovery window
// after paid_at must not have elapsed, and the requested asset/variant pair
// must be among the order's recorded items. Membership payments carry no
// downloadable items, so a membership reference is always denied. Each denial
// reason is a distinct sentinel so the boundary can render distinct
// user-facing messages.
//
// This is a read path: its only side effects are the audit log line and the
// issued grant, so callers may cancel or retry freely.
func (s *Service) AuthorizeDownload(ctx context.Context, reference, asset, variant string) (*Grant, error) {
	result, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !result.Succeeded() {
		log.Printf("download denied: ref=%s asset=%s reason=not_successful", reference, asset)
		return nil, ErrNotSuccessful
	}

	if s.now().Sub(result.PaidAt) > s.downloadWindow {
		log.Printf("download denied: ref=%s asset=%s reason=window_expired", reference, asset)
		return nil, ErrWindowExpired
	}

	meta, _ := ParseEventMetadata(result.Metadata)
	if meta.Kind == models.PaymentKindMembership {
		log.Printf("download denied: ref=%s asset=%s reason=item_not_in_order", reference, asset)
		return nil, ErrItemNotInOrder
	}

	// The stored order is authoritative for the item check; live metadata
	// covers references whose order row has not landed yet. Single-asset
	// legacy payments record no item list and skip the check.
	items := meta.Items
	if order, oerr := s.repo.GetOrderByReference(reference); oerr == nil {
		items = order.Items()
	}
	if len(items) > 0 && !containsItem(items, asset, variant) {
		log.Printf("download denied: ref=%s asset=%s variant=%s reason=item_not_in_order", reference, asset, variant)
		return nil, ErrItemNotInOrder
	}

	grant := &Grant{
		Token:     uuid.NewString(),
		Reference: reference,
		Asset:     asset,
		Variant:   variant,
		ExpiresAt: s.now().Add(s.grantTTL),
	}
	if err := s.grants.Put(grant); err != nil {
		return nil, err
	}

	log.Printf("download authorized: ref=%s asset=%s variant=%s", reference, asset, variant)
	return grant, nil
}
