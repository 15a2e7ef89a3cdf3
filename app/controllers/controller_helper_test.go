package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasWeber/TrackNest/internal/pkg/payment"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestPaymentErrorResponse(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{payment.ErrNotFound, fiber.StatusNotFound, "not_found"},
		{payment.ErrNotSuccessful, fiber.StatusPaymentRequired, "not_successful"},
		{payment.ErrWindowExpired, fiber.StatusForbidden, "window_expired"},
		{payment.ErrItemNotInOrder, fiber.StatusForbidden, "item_not_in_order"},
		{payment.ErrVerificationFailed, fiber.StatusBadGateway, "verification_failed"},
		{&payment.ValidationError{Field: "months", Detail: "must be at least 1"}, fiber.StatusUnprocessableEntity, "validation_failed"},
		{assert.AnError, fiber.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return paymentErrorResponse(c, tt.err)
		})

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tt.wantStatus, resp.StatusCode, "error %v", tt.err)
	}
}
