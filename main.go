package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/coverchain/coverchain/app/repository"
	"github.com/coverchain/coverchain/internal/pkg/cache"
	"github.com/coverchain/coverchain/internal/pkg/chain"
	"github.com/coverchain/coverchain/internal/pkg/database"
	"github.com/coverchain/coverchain/internal/pkg/env"
	"github.com/coverchain/coverchain/internal/pkg/identity"
	"github.com/coverchain/coverchain/internal/pkg/jobqueue"
	"github.com/coverchain/coverchain/internal/pkg/objectstore"
	"github.com/coverchain/coverchain/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	chain.SetupGateway()
	identity.SetupAgent()
	objectstore.SetupGateway()

	// chain-mirror workers
	jobqueue.GetManager().Start()

	app := fiber.New(fiber.Config{
		BodyLimit: 26214400, // 25 MiB, documents only
	})
	app.Use(recover.New(), logger.New(), cors.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
