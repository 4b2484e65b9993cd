package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/fleet"
)

// AssignmentHandler handles HTTP requests for the checkout/checkin
// lifecycle.
type AssignmentHandler struct {
	assignmentService *fleet.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *fleet.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// CheckoutRequest is the HTTP request body for checking a vehicle out.
// Odometer readings are pointers so a missing value is distinguishable
// from zero.
type CheckoutRequest struct {
	VehicleID        string  `json:"vehicle_id"`
	DriverID         string  `json:"driver_id"`
	StartingOdometer *int64  `json:"starting_odometer"`
	FuelLevel        float64 `json:"fuel_level"`
	Destination      string  `json:"destination"`
	Purpose          string  `json:"purpose"`
	Signature        string  `json:"signature"`
}

// CheckinRequest is the HTTP request body for checking a vehicle in.
type CheckinRequest struct {
	EndingOdometer    *int64                 `json:"ending_odometer"`
	FuelLevel         float64                `json:"fuel_level"`
	DamageReported    bool                   `json:"damage_reported"`
	DamageDescription string                 `json:"damage_description"`
	DamageSeverity    string                 `json:"damage_severity"`
	ChecklistItems    []ChecklistItemRequest `json:"checklist_items"`
	DamageReports     []DamageReportRequest  `json:"damage_reports"`
	VoiceNotes        []VoiceNoteRequest     `json:"voice_notes"`
	TripNotes         string                 `json:"trip_notes"`
	Signature         string                 `json:"signature"`
}

// AssignmentResponse is the HTTP response for assignment operations.
type AssignmentResponse struct {
	AssignmentID     string  `json:"assignment_id"`
	VehicleID        string  `json:"vehicle_id"`
	DriverID         string  `json:"driver_id"`
	Status           string  `json:"status"`
	StartingOdometer int64   `json:"starting_odometer"`
	EndingOdometer   int64   `json:"ending_odometer,omitempty"`
	StartingFuel     float64 `json:"starting_fuel"`
	EndingFuel       float64 `json:"ending_fuel,omitempty"`
	TotalDistance    int64   `json:"total_distance,omitempty"`
	Destination      string  `json:"destination"`
	Purpose          string  `json:"purpose"`
	TripNotes        string  `json:"trip_notes,omitempty"`
	CheckedOutAt     string  `json:"checked_out_at"`
	CheckedInAt      string  `json:"checked_in_at,omitempty"`

	VehicleStatus string   `json:"vehicle_status,omitempty"`
	InspectionID  string   `json:"inspection_id,omitempty"`
	Condition     string   `json:"condition,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

func toAssignmentResponse(a *domain.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		AssignmentID:     a.ID,
		VehicleID:        a.VehicleID,
		DriverID:         a.DriverID,
		Status:           string(a.Status),
		StartingOdometer: a.StartingOdometer,
		StartingFuel:     a.StartingFuel,
		Destination:      a.Destination,
		Purpose:          a.Purpose,
		TripNotes:        a.TripNotes,
		CheckedOutAt:     a.CheckedOutAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if a.Status == domain.AssignmentStatusCompleted {
		resp.EndingOdometer = a.EndingOdometer
		resp.EndingFuel = a.EndingFuel
		resp.TotalDistance = a.TotalDistance
	}
	if !a.CheckedInAt.IsZero() {
		resp.CheckedInAt = a.CheckedInAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return resp
}

// Checkout handles POST /v1/assignments/checkout
func (h *AssignmentHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	startingOdometer := int64(-1)
	if req.StartingOdometer != nil {
		startingOdometer = *req.StartingOdometer
	}

	result, err := h.assignmentService.Checkout(c.Request.Context(), fleet.CheckoutRequest{
		VehicleID:        req.VehicleID,
		DriverID:         req.DriverID,
		StartingOdometer: startingOdometer,
		FuelLevel:        req.FuelLevel,
		Destination:      req.Destination,
		Purpose:          req.Purpose,
		Signature:        req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := toAssignmentResponse(result.Assignment)
	response.VehicleStatus = string(result.Vehicle.Status)
	response.Warnings = result.Warnings

	respondJSON(c, http.StatusCreated, response)
}

// Checkin handles POST /v1/assignments/:id/checkin
func (h *AssignmentHandler) Checkin(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	endingOdometer := int64(-1)
	if req.EndingOdometer != nil {
		endingOdometer = *req.EndingOdometer
	}

	result, err := h.assignmentService.Checkin(c.Request.Context(), fleet.CheckinRequest{
		AssignmentID:      c.Param("id"),
		EndingOdometer:    endingOdometer,
		FuelLevel:         req.FuelLevel,
		DamageReported:    req.DamageReported,
		DamageDescription: req.DamageDescription,
		DamageSeverity:    domain.DamageSeverity(req.DamageSeverity),
		ChecklistItems:    toChecklistItems(req.ChecklistItems),
		DamageReports:     toDamageInputs(req.DamageReports),
		VoiceNotes:        toVoiceNoteInputs(req.VoiceNotes),
		TripNotes:         req.TripNotes,
		Signature:         req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := toAssignmentResponse(result.Assignment)
	response.VehicleStatus = string(result.Vehicle.Status)
	response.Warnings = result.Warnings
	if result.Inspection != nil {
		response.InspectionID = result.Inspection.ID
		response.Condition = string(result.Inspection.OverallCondition)
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignmentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toAssignmentResponse(assignment))
}

// GetAll handles GET /v1/assignments
func (h *AssignmentHandler) GetAll(c *gin.Context) {
	assignments, err := h.assignmentService.ListRecent(c.Request.Context(), 100)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		response = append(response, toAssignmentResponse(a))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetByVehicle handles GET /v1/vehicles/:id/assignments
func (h *AssignmentHandler) GetByVehicle(c *gin.Context) {
	assignments, err := h.assignmentService.ListByVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		response = append(response, toAssignmentResponse(a))
	}

	respondJSON(c, http.StatusOK, response)
}
