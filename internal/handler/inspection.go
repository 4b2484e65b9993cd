package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heinNell/Asset-Management/internal/domain"
	"github.com/heinNell/Asset-Management/internal/fleet"
)

// InspectionHandler handles HTTP requests for inspections.
type InspectionHandler struct {
	inspectionService *fleet.InspectionService
}

// NewInspectionHandler creates a new InspectionHandler.
func NewInspectionHandler(inspectionService *fleet.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

// ChecklistItemRequest is one checklist entry in an inspection payload.
type ChecklistItemRequest struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Severity string `json:"severity,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// DamageReportRequest is one damage finding in an inspection payload.
type DamageReportRequest struct {
	Component   string `json:"component"`
	HasDamage   bool   `json:"has_damage"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// VoiceNoteRequest is one voice-note reference in an inspection payload.
type VoiceNoteRequest struct {
	Label    string `json:"label,omitempty"`
	MediaURI string `json:"media_uri"`
}

// SubmitInspectionRequest is the HTTP request body for a standalone
// (periodic or damage-report) inspection.
type SubmitInspectionRequest struct {
	VehicleID      string                 `json:"vehicle_id"`
	InspectorID    string                 `json:"inspector_id"`
	Type           string                 `json:"type"`
	Odometer       int64                  `json:"odometer"`
	FuelLevel      float64                `json:"fuel_level"`
	ChecklistItems []ChecklistItemRequest `json:"checklist_items"`
	DamageReports  []DamageReportRequest  `json:"damage_reports"`
	VoiceNotes     []VoiceNoteRequest     `json:"voice_notes"`
}

// ReviewInspectionRequest is the HTTP request body for the reviewer
// update.
type ReviewInspectionRequest struct {
	ReviewerID string `json:"reviewer_id"`
	Notes      string `json:"notes"`
}

// InspectionResponse is the HTTP response for inspection operations.
type InspectionResponse struct {
	ID               string                 `json:"id"`
	VehicleID        string                 `json:"vehicle_id"`
	InspectorID      string                 `json:"inspector_id"`
	Type             string                 `json:"type"`
	Odometer         int64                  `json:"odometer"`
	FuelLevel        float64                `json:"fuel_level"`
	ChecklistItems   []domain.ChecklistItem `json:"checklist_items"`
	DamageReports    []domain.DamageReport  `json:"damage_reports"`
	VoiceNotes       []domain.VoiceNote     `json:"voice_notes,omitempty"`
	OverallCondition string                 `json:"overall_condition"`
	ReviewStatus     string                 `json:"review_status"`
	ReviewedBy       string                 `json:"reviewed_by,omitempty"`
	ReviewNotes      string                 `json:"review_notes,omitempty"`
	CreatedAt        string                 `json:"created_at"`
}

func toInspectionResponse(insp *domain.Inspection) InspectionResponse {
	return InspectionResponse{
		ID:               insp.ID,
		VehicleID:        insp.VehicleID,
		InspectorID:      insp.InspectorID,
		Type:             string(insp.Type),
		Odometer:         insp.Odometer,
		FuelLevel:        insp.FuelLevel,
		ChecklistItems:   insp.ChecklistItems,
		DamageReports:    insp.DamageReports,
		VoiceNotes:       insp.VoiceNotes,
		OverallCondition: string(insp.OverallCondition),
		ReviewStatus:     string(insp.ReviewStatus),
		ReviewedBy:       insp.ReviewedBy,
		ReviewNotes:      insp.ReviewNotes,
		CreatedAt:        insp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toChecklistItems(items []ChecklistItemRequest) []domain.ChecklistItem {
	result := make([]domain.ChecklistItem, 0, len(items))
	for _, item := range items {
		result = append(result, domain.ChecklistItem{
			Name:     item.Name,
			Status:   domain.ChecklistStatus(item.Status),
			Severity: domain.DamageSeverity(item.Severity),
			Notes:    item.Notes,
		})
	}
	return result
}

func toDamageInputs(reports []DamageReportRequest) []fleet.DamageReportInput {
	result := make([]fleet.DamageReportInput, 0, len(reports))
	for _, r := range reports {
		result = append(result, fleet.DamageReportInput{
			Component:   r.Component,
			HasDamage:   r.HasDamage,
			Severity:    domain.DamageSeverity(r.Severity),
			Description: r.Description,
		})
	}
	return result
}

func toVoiceNoteInputs(notes []VoiceNoteRequest) []fleet.VoiceNoteInput {
	result := make([]fleet.VoiceNoteInput, 0, len(notes))
	for _, n := range notes {
		result = append(result, fleet.VoiceNoteInput{
			Label:    n.Label,
			MediaURI: n.MediaURI,
		})
	}
	return result
}

// Submit handles POST /v1/inspections
func (h *InspectionHandler) Submit(c *gin.Context) {
	var req SubmitInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	inspection, err := h.inspectionService.Submit(c.Request.Context(), fleet.InspectionRequest{
		VehicleID:      req.VehicleID,
		InspectorID:    req.InspectorID,
		Type:           domain.InspectionType(req.Type),
		Odometer:       req.Odometer,
		FuelLevel:      req.FuelLevel,
		ChecklistItems: toChecklistItems(req.ChecklistItems),
		DamageReports:  toDamageInputs(req.DamageReports),
		VoiceNotes:     toVoiceNoteInputs(req.VoiceNotes),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toInspectionResponse(inspection))
}

// Get handles GET /v1/inspections/:id
func (h *InspectionHandler) Get(c *gin.Context) {
	inspection, err := h.inspectionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toInspectionResponse(inspection))
}

// GetByVehicle handles GET /v1/vehicles/:id/inspections
func (h *InspectionHandler) GetByVehicle(c *gin.Context) {
	inspections, err := h.inspectionService.ListByVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]InspectionResponse, 0, len(inspections))
	for _, insp := range inspections {
		response = append(response, toInspectionResponse(insp))
	}

	respondJSON(c, http.StatusOK, response)
}

// Review handles POST /v1/inspections/:id/review
func (h *InspectionHandler) Review(c *gin.Context) {
	var req ReviewInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.inspectionService.Review(c.Request.Context(), c.Param("id"), req.ReviewerID, req.Notes); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "reviewed"})
}
