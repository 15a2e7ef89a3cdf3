package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasWeber/TrackNest/internal/pkg/env"
)

func newAdminTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/refund", AdminKeyMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestAdminKeyMiddleware(t *testing.T) {
	env.Env = map[string]string{"ADMIN_API_KEY": "op-secret"}
	t.Cleanup(func() { env.Env = nil })

	app := newAdminTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/refund", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/refund", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/refund", nil)
	req.Header.Set("X-Admin-Key", "op-secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Bearer form is accepted too.
	req = httptest.NewRequest(fiber.MethodPost, "/refund", nil)
	req.Header.Set("Authorization", "Bearer op-secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminKeyMiddleware_Unconfigured(t *testing.T) {
	env.Env = map[string]string{}
	t.Cleanup(func() { env.Env = nil })

	app := newAdminTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/refund", nil)
	req.Header.Set("X-Admin-Key", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
