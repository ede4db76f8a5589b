package router

import (
	"github.com/DanielKramer/PropNest/app/controllers"
	"github.com/DanielKramer/PropNest/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute)
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group(constants.APIv1Route)

	// Account lifecycle
	v1.Post("/account/:uuid/reactivate", controllers.HandleReactivateAccount)
	v1.Post("/account/:uuid/convert", controllers.HandleConvertAccount)
	v1.Get("/account/:uuid/events", controllers.HandleGetAccountEvents)

	// Lease management
	v1.Post("/customers/:uuid/leases", controllers.HandleCreateLease)
	v1.Get("/customers/:uuid/leases", controllers.HandleListLeases)
	v1.Get("/customers/:uuid/leases/:leaseUuid", controllers.HandleGetLease)
	v1.Put("/customers/:uuid/leases/:leaseUuid", controllers.HandleUpdateLease)
	v1.Delete("/customers/:uuid/leases/:leaseUuid", controllers.HandleDeleteLease)

	// Public inbound forms, rate limited per client IP inside the handler
	v1.Post("/forms", controllers.HandleSubmitForm)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
