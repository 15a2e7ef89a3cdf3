package controllers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasWeber/TrackNest/internal/pkg/env"
)

const testWebhookSecret = "sk_test_secret"

func newWebhookTestApp(t *testing.T) *fiber.App {
	t.Helper()
	env.Env = map[string]string{"PAYSTACK_SECRET_KEY": testWebhookSecret}
	t.Cleanup(func() { env.Env = nil })

	app := fiber.New()
	app.Post("/api/payments/webhook", HandlePaymentWebhook)
	return app
}

func signBody(body []byte) string {
	mac := hmac.New(sha512.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandlePaymentWebhook_InvalidSignature(t *testing.T) {
	app := newWebhookTestApp(t)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/payments/webhook", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Paystack-Signature", "deadbeef")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandlePaymentWebhook_MissingSignature(t *testing.T) {
	app := newWebhookTestApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/payments/webhook", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandlePaymentWebhook_NonSuccessEventAcknowledged(t *testing.T) {
	app := newWebhookTestApp(t)

	body := []byte(`{"event":"charge.dispute.create","data":{"reference":"ref_1"}}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/payments/webhook", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Paystack-Signature", signBody(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload, _ := io.ReadAll(resp.Body)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(payload, &parsed))
	assert.Equal(t, true, parsed["ok"])
	assert.Equal(t, true, parsed["ignored"])
}

func TestHandlePaymentWebhook_MalformedBody(t *testing.T) {
	app := newWebhookTestApp(t)

	body := []byte(`not json at all`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/payments/webhook", strings.NewReader(string(body)))
	req.Header.Set("X-Paystack-Signature", signBody(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandlePaymentWebhook_MissingReference(t *testing.T) {
	app := newWebhookTestApp(t)

	body := []byte(`{"event":"charge.success","data":{}}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/payments/webhook", strings.NewReader(string(body)))
	req.Header.Set("X-Paystack-Signature", signBody(body))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleVerifyPayment_MissingReference(t *testing.T) {
	app := fiber.New()
	app.Get("/api/payments/verify", HandleVerifyPayment)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/payments/verify", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleDownloadAuthorize_MissingParameters(t *testing.T) {
	app := fiber.New()
	app.Get("/api/downloads/authorize", HandleDownloadAuthorize)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/downloads/authorize?reference=ref_1&asset=trk_1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
