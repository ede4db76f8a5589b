package router

import (
	"github.com/DanielKramer/PropNest/app/controllers"
	"github.com/DanielKramer/PropNest/internal/pkg/constants"
	"github.com/DanielKramer/PropNest/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group(constants.AdminRoute, middleware.RequireAdminKey)

	// Lifecycle maintenance triggers
	adminGroup.Post("/lifecycle/sweep", controllers.HandleRunLifecycleSweep)
	adminGroup.Post("/lifecycle/reminders", controllers.HandleRunTrialReminders)
}
