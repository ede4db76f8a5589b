package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/DanielKramer/PropNest/app/repository"
	"github.com/DanielKramer/PropNest/internal/pkg/cache"
	"github.com/DanielKramer/PropNest/internal/pkg/database"
	"github.com/DanielKramer/PropNest/internal/pkg/env"
	"github.com/DanielKramer/PropNest/internal/pkg/router"
	"github.com/DanielKramer/PropNest/internal/pkg/scheduler"
)

func main() {
	app := NewApplication()

	// Stop the lifecycle scheduler before the process exits
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		scheduler.GetManager().Stop()
		_ = app.Shutdown()
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())
	cache.SetupCache()

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "PropNest",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	// background lifecycle workers
	scheduler.GetManager().Start()

	return app
}
