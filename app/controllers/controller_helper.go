package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeber/TrackNest/internal/pkg/payment"
)

// paymentErrorResponse maps engine errors to distinct, machine-readable
// denial responses. Denial reasons stay typed all the way to the client so
// it can render specific messages without parsing free text.
func paymentErrorResponse(c *fiber.Ctx, err error) error {
	var verr *payment.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"field":   verr.Field,
			"message": verr.Error(),
		})
	case errors.Is(err, payment.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.Is(err, payment.ErrNotSuccessful):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "not_successful"})
	case errors.Is(err, payment.ErrWindowExpired):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "window_expired"})
	case errors.Is(err, payment.ErrItemNotInOrder):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "item_not_in_order"})
	case errors.Is(err, payment.ErrVerificationFailed):
		// The processor could not confirm the payment; the caller may retry.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "verification_failed"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_error"})
	}
}

func windowResponse(w *payment.Window) fiber.Map {
	resp := fiber.Map{
		"principal":  w.Principal,
		"plan":       w.Plan,
		"status":     w.Status,
		"started_at": formatTimePtr(w.StartedAt),
		"expires_at": formatTimePtr(w.ExpiresAt),
	}
	return resp
}

func outcomeResponse(o *payment.Outcome) fiber.Map {
	resp := fiber.Map{
		"ok":        true,
		"kind":      o.Kind,
		"reference": o.Reference,
		"principal": o.Principal,
	}
	if o.Window != nil {
		resp["membership"] = windowResponse(o.Window)
	}
	if len(o.Items) > 0 {
		resp["items"] = o.Items
	}
	return resp
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
