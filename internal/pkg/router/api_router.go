package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeber/TrackNest/app/controllers"
	"github.com/JonasWeber/TrackNest/internal/pkg/constants"
	"github.com/JonasWeber/TrackNest/internal/pkg/middleware"
	"github.com/JonasWeber/TrackNest/internal/pkg/ratelimit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, ratelimit.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "TrackNest payment API",
		})
	})

	api.Post(constants.WebhookRoute, controllers.HandlePaymentWebhook)
	api.Get(constants.VerifyRoute, controllers.HandleVerifyPayment)
	api.Get(constants.MembershipStatusRoute, controllers.HandleMembershipStatus)
	api.Get(constants.DownloadAuthorizeRoute, controllers.HandleDownloadAuthorize)

	admin := api.Group(constants.AdminRoute, middleware.AdminKeyMiddleware())
	admin.Post(constants.AdminRefundRoute, controllers.HandleRefund)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
