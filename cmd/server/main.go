package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/heinNell/Asset-Management/internal/app"
	"github.com/heinNell/Asset-Management/internal/config"
	"github.com/heinNell/Asset-Management/internal/fleet"
	"github.com/heinNell/Asset-Management/internal/handler"
	internalRedis "github.com/heinNell/Asset-Management/internal/redis"
	"github.com/heinNell/Asset-Management/internal/repository/postgres"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic first, so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server := wireServer(db, redisClient, nrApp, cfg)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	vehicleRepo := postgres.NewVehicleRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	inspectionRepo := postgres.NewInspectionRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Services.
	notificationService := fleet.NewNotificationService()
	vehicleService := fleet.NewVehicleService(vehicleRepo, cacheStore, cfg.Fleet)
	inspectionService := fleet.NewInspectionService(inspectionRepo, uow, lockStore, notificationService, cfg.Fleet)
	assignmentService := fleet.NewAssignmentService(uow, vehicleRepo, assignmentRepo, lockStore, cacheStore, inspectionService, notificationService, cfg.Fleet)

	// Handlers.
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	inspectionHandler := handler.NewInspectionHandler(inspectionService)

	router := app.NewRouter(app.RouterDeps{
		VehicleHandler:    vehicleHandler,
		AssignmentHandler: assignmentHandler,
		InspectionHandler: inspectionHandler,
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
