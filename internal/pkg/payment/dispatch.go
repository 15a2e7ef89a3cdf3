package payment

import (
	"context"
	"log"

	"github.com/JonasWeber/TrackNest/app/models"
)

const (
	DispatchKindMembership = "membership_receipt"
	DispatchKindPurchase   = "purchase_receipt"
)

// RenderFunc produces the subject and body for a notification. It only runs
// when the claim was won, so lost claims never pay the rendering cost.
type RenderFunc func() (subject, body string)

// ClaimAndSend attempts to win the send-once claim for (kind, reference) and
// sends the rendered notification if it does. A lost claim returns
// sent=false without rendering; a delivery failure after a won claim does
// not revoke the claim, so the notification fires at most once.
func (s *Service) ClaimAndSend(ctx context.Context, kind, reference, principal string, render RenderFunc) (bool, error) {
	_ = ctx
	won, err := s.repo.ClaimDispatch(&models.EmailDispatchClaim{
		Kind:      kind,
		Reference: reference,
		Principal: principal,
	})
	if err != nil || !won {
		return false, err
	}

	subject, body := render()
	if err := s.mailer.Send(principal, subject, body); err != nil {
		return true, err
	}
	return true, nil
}

// dispatchReceipt runs the claim gate for a payment receipt. Failures are
// logged and never escalate: a payment confirmed by the processor must not
// be reported as failed because an email could not be sent.
func (s *Service) dispatchReceipt(ctx context.Context, kind, reference, principal string, render RenderFunc) {
	if _, err := s.ClaimAndSend(ctx, kind, reference, principal, render); err != nil {
		log.Printf("receipt %s for %s: %v", kind, reference, err)
	}
}
