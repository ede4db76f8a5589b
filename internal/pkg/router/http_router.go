package router

import (
	"github.com/DanielKramer/PropNest/app/controllers"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Initialize account controller with the lifecycle service
	controllers.InitializeAccountController()

	// Initialize form controller with the shared rate limiter
	controllers.InitializeFormController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
