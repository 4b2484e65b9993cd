package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/fleet"
)

// VehicleHandler handles HTTP requests for vehicles.
type VehicleHandler struct {
	vehicleService *fleet.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicleService *fleet.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// RegisterVehicleRequest is the HTTP request body for registering a vehicle.
type RegisterVehicleRequest struct {
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	LicensePlate    string  `json:"license_plate"`
	CurrentOdometer int64   `json:"current_odometer"`
	FuelLevel       float64 `json:"fuel_level"`
	ServiceInterval int64   `json:"service_interval"`
}

// VehicleResponse is the HTTP response for vehicle operations.
type VehicleResponse struct {
	ID                  string  `json:"id"`
	Make                string  `json:"make"`
	Model               string  `json:"model"`
	Year                int     `json:"year"`
	LicensePlate        string  `json:"license_plate"`
	Status              string  `json:"status"`
	CurrentOdometer     int64   `json:"current_odometer"`
	FuelLevel           float64 `json:"fuel_level"`
	CurrentDriverID     string  `json:"current_driver_id,omitempty"`
	NextServiceOdometer int64   `json:"next_service_odometer"`
	ServiceInterval     int64   `json:"service_interval"`
	CreatedAt           string  `json:"created_at"`
}

// ServiceStatusResponse is the derived service-interval view.
type ServiceStatusResponse struct {
	DistanceRemaining      int64 `json:"distance_remaining"`
	IsOverdue              bool  `json:"is_overdue"`
	EstimatedDaysRemaining int   `json:"estimated_days_remaining"`
}

func toVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                  v.ID,
		Make:                v.Make,
		Model:               v.Model,
		Year:                v.Year,
		LicensePlate:        v.LicensePlate,
		Status:              string(v.Status),
		CurrentOdometer:     v.CurrentOdometer,
		FuelLevel:           v.FuelLevel,
		CurrentDriverID:     v.CurrentDriverID,
		NextServiceOdometer: v.NextServiceOdometer,
		ServiceInterval:     v.ServiceInterval,
		CreatedAt:           v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Register handles POST /v1/vehicles
func (h *VehicleHandler) Register(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.vehicleService.Register(c.Request.Context(), fleet.RegisterVehicleRequest{
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		LicensePlate:    req.LicensePlate,
		CurrentOdometer: req.CurrentOdometer,
		FuelLevel:       req.FuelLevel,
		ServiceInterval: req.ServiceInterval,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

// Get handles GET /v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toVehicleResponse(vehicle))
}

// GetAll handles GET /v1/vehicles?status=AVAILABLE
func (h *VehicleHandler) GetAll(c *gin.Context) {
	status := domain.VehicleStatus(c.Query("status"))

	vehicles, err := h.vehicleService.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, toVehicleResponse(v))
	}

	respondJSON(c, http.StatusOK, response)
}

// ServiceStatus handles GET /v1/vehicles/:id/service
func (h *VehicleHandler) ServiceStatus(c *gin.Context) {
	status, err := h.vehicleService.ServiceStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ServiceStatusResponse{
		DistanceRemaining:      status.DistanceRemaining,
		IsOverdue:              status.IsOverdue,
		EstimatedDaysRemaining: status.EstimatedDaysRemaining,
	})
}
