package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeber/TrackNest/internal/pkg/database"
	"github.com/JonasWeber/TrackNest/internal/pkg/env"
	"github.com/JonasWeber/TrackNest/internal/pkg/metrics/counter"
	"github.com/JonasWeber/TrackNest/internal/pkg/payment"
)

// HandlePaymentWebhook ingests asynchronous processor notifications. The
// notification body is never trusted for payment facts: after the signature
// check, the reference is re-verified live against the processor before any
// state is written.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Paystack-Signature"))
	secret := env.GetEnv("PAYSTACK_SECRET_KEY", "")

	if !payment.VerifyWebhookSignature(rawBody, signature, secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	envelope, err := payment.ParseWebhookEnvelope(rawBody)
	if err != nil || envelope.Data.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}
	if !envelope.IsChargeSuccess() {
		// Non-success event types are acknowledged, not errors.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	svc := payment.NewServiceFromDB(database.GetDB())
	outcome, err := svc.VerifyAndIngest(ctx, envelope.Data.Reference)
	if err != nil {
		if errors.Is(err, payment.ErrNotSuccessful) {
			// The processor does not confirm success for this reference yet;
			// acknowledge so the sender can redeliver once it does.
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
		}
		return paymentErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(outcomeResponse(outcome))
}

// HandleVerifyPayment is the client-driven polling path. It enters the same
// router as the webhook; the live processor re-verification is the trust
// anchor, so no signature is involved.
func HandleVerifyPayment(c *fiber.Ctx) error {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_reference"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	svc := payment.NewServiceFromDB(database.GetDB())
	outcome, err := svc.VerifyAndIngest(ctx, reference)
	if err != nil {
		return paymentErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(outcomeResponse(outcome))
}

// HandleRefund is the operator action against a specific reference. It is
// idempotent: refunding an already-refunded reference replays the
// reconciliation and reports success.
func HandleRefund(c *fiber.Ctx) error {
	reference := strings.TrimSpace(c.Params("reference"))
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_reference"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	svc := payment.NewServiceFromDB(database.GetDB())
	window, err := svc.Refund(ctx, reference)
	if err != nil {
		return paymentErrorResponse(c, err)
	}

	resp := fiber.Map{"ok": true, "reference": reference}
	if window != nil {
		resp["membership"] = windowResponse(window)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// HandleDownloadAuthorize issues a short-lived access grant for a purchased
// asset, or a typed denial.
func HandleDownloadAuthorize(c *fiber.Ctx) error {
	reference := strings.TrimSpace(c.Query("reference"))
	asset := strings.TrimSpace(c.Query("asset"))
	variant := strings.TrimSpace(c.Query("variant"))
	if reference == "" || asset == "" || variant == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_parameters"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	svc := payment.NewServiceFromDB(database.GetDB())
	grant, err := svc.AuthorizeDownload(ctx, reference, asset, variant)
	if err != nil {
		return paymentErrorResponse(c, err)
	}

	// Counting failures must not block the download.
	_ = counter.AddOrderDownload(reference)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":         true,
		"token":      grant.Token,
		"reference":  grant.Reference,
		"asset":      grant.Asset,
		"variant":    grant.Variant,
		"expires_at": grant.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// HandleMembershipStatus exposes the derived window for a principal. Callers
// arrive with a resolved principal email; session issuance happens upstream.
func HandleMembershipStatus(c *fiber.Ctx) error {
	principal := strings.ToLower(strings.TrimSpace(c.Query("principal")))
	if principal == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_principal"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc := payment.NewServiceFromDB(database.GetDB())
	window, err := svc.GetMembership(ctx, principal)
	if err != nil {
		return paymentErrorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(windowResponse(window))
}
