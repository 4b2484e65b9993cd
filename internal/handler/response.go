package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heinNell/Asset-Management/internal/fleet"
	"github.com/heinNell/Asset-Management/internal/repository"
)

// ErrorResponse represents an error response. Field-level failures are
// listed so the UI can attach messages to inputs.
type ErrorResponse struct {
	Error  string             `json:"error"`
	Fields []fleet.FieldError `json:"fields,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	var vErr *fleet.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: vErr.Fields})
		return
	}

	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, fleet.ErrInvalidVehicleID),
		errors.Is(err, fleet.ErrInvalidAssignmentID),
		errors.Is(err, fleet.ErrInvalidInspectionID):
		return http.StatusBadRequest

	// Precondition / conflict errors
	case errors.Is(err, fleet.ErrVehicleNotAvailable),
		errors.Is(err, fleet.ErrAssignmentConflict),
		errors.Is(err, fleet.ErrAssignmentNotActive):
		return http.StatusConflict

	// Maintenance policy block
	case errors.Is(err, fleet.ErrServiceOverdue):
		return http.StatusForbidden

	// Retryable storage timeout
	case errors.Is(err, fleet.ErrStorageTimeout):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}
