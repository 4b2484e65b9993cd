package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/heinNell/Asset-Management/internal/handler"
	"github.com/heinNell/Asset-Management/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	VehicleHandler    *handler.VehicleHandler
	AssignmentHandler *handler.AssignmentHandler
	InspectionHandler *handler.InspectionHandler
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Vehicle routes.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.POST("", deps.VehicleHandler.Register)
			vehicles.GET("", deps.VehicleHandler.GetAll)
			vehicles.GET("/:id", deps.VehicleHandler.Get)
			vehicles.GET("/:id/service", deps.VehicleHandler.ServiceStatus)
			vehicles.GET("/:id/assignments", deps.AssignmentHandler.GetByVehicle)
			vehicles.GET("/:id/inspections", deps.InspectionHandler.GetByVehicle)
		}

		// Assignment lifecycle routes.
		assignments := v1.Group("/assignments")
		{
			assignments.POST("/checkout", deps.AssignmentHandler.Checkout)
			assignments.POST("/:id/checkin", deps.AssignmentHandler.Checkin)
			assignments.GET("", deps.AssignmentHandler.GetAll)
			assignments.GET("/:id", deps.AssignmentHandler.Get)
		}

		// Inspection routes.
		inspections := v1.Group("/inspections")
		{
			inspections.POST("", deps.InspectionHandler.Submit)
			inspections.GET("/:id", deps.InspectionHandler.Get)
			inspections.POST("/:id/review", deps.InspectionHandler.Review)
		}
	}

	return router
}
