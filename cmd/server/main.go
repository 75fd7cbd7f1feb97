// Command server starts the UniExpress shipment tracking service.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/config"
	"github.com/universalexpress181/universal-express-sub001/internal/handlers"
	"github.com/universalexpress181/universal-express-sub001/internal/messaging"
	"github.com/universalexpress181/universal-express-sub001/internal/middleware"
	"github.com/universalexpress181/universal-express-sub001/internal/migrate"
	"github.com/universalexpress181/universal-express-sub001/internal/repository"
	"github.com/universalexpress181/universal-express-sub001/internal/service"
)

func main() {
	zapLogger, _ := zap.NewProduction()
	defer func() { _ = zapLogger.Sync() }()

	cfg := config.Load()

	db, err := initDatabase(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("database connection error", zap.Error(err))
	}
	defer db.Close()

	if err := migrate.Up(context.Background(), db); err != nil {
		zapLogger.Fatal("migrate up", zap.Error(err))
	}

	var publisher service.StatusPublisher = service.NoopPublisher{}
	if cfg.RabbitMQEnabled {
		rabbitClient := messaging.NewRabbitMQClient(messaging.NewRabbitMQConfig(), zapLogger)
		if err := rabbitClient.Connect(); err != nil {
			zapLogger.Fatal("rabbitmq connection error", zap.Error(err))
		}
		defer rabbitClient.Close()
		publisher = messaging.NewPublisher(rabbitClient, zapLogger)
	}

	// Repositories
	shipmentRepo := repository.NewShipmentRepository(db)
	trackingRepo := repository.NewTrackingRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)
	requestLogRepo := repository.NewRequestLogRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	shipmentService := service.NewShipmentService(shipmentRepo, trackingRepo, zapLogger)
	bulkService := service.NewBulkService(shipmentRepo, trackingRepo, publisher, zapLogger)
	gatewayService := service.NewGatewayService(apiKeyRepo, requestLogRepo, zapLogger)

	shipmentHandler := handlers.NewShipmentHandler(shipmentService, bulkService, zapLogger)
	apiHandler := handlers.NewAPIHandler(shipmentService, zapLogger)

	sessionStore := session.New()

	app := setupFiberApp()
	app.Use(middleware.AccessBoundary(sessionStore, userRepo, zapLogger))
	setupRoutes(app, shipmentHandler, apiHandler, gatewayService)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zapLogger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("shutdown error", zap.Error(err))
		}
	}()

	zapLogger.Info("shipment service listening", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server startup error", zap.Error(err))
	}
}

func initDatabase(cfg *config.Config, zapLogger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("database open error: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping error: %v", err)
	}

	zapLogger.Info("database connection successful", zap.String("database", cfg.DBName))
	return db, nil
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "UniExpress Shipment Service v1.0",
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID,x-api-key",
	}))

	return app
}

func setupRoutes(app *fiber.App, shipmentHandler *handlers.ShipmentHandler, apiHandler *handlers.APIHandler, gateway *service.GatewayService) {
	app.Get("/healthz", shipmentHandler.HealthCheck)
	app.Get("/track/:awb", shipmentHandler.Track)

	app.Post("/shipment/create", shipmentHandler.CreateShipment)
	app.Post("/shipment/bulk", shipmentHandler.BulkCreate)
	app.Post("/admin/shipments/bulk-status", shipmentHandler.BulkStatus)

	v1 := app.Group("/v1", middleware.APIKeyAuth(gateway))
	v1.Post("/shipment/create", apiHandler.CreateShipments)
	v1.Post("/shipment/track/bulk", apiHandler.TrackBulk)
	v1.Get("/shipment/track", apiHandler.TrackOne)

	app.Use("*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route not found",
		})
	})
}
