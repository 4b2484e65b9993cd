package fleet

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/heinNell/Asset-Management/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationVehicleCheckedOut NotificationType = "VEHICLE_CHECKED_OUT"
	NotificationVehicleCheckedIn  NotificationType = "VEHICLE_CHECKED_IN"
	NotificationDamageReported    NotificationType = "DAMAGE_REPORTED"
	NotificationServiceOverdue    NotificationType = "SERVICE_OVERDUE"
)

// Notification represents a notification to be sent. Delivery is
// fire-and-forget: a failed send never rolls back a lifecycle
// transition.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real deployment this would hold push/SMS/email clients.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyVehicleCheckedOut notifies the fleet desk that a vehicle left.
func (s *NotificationService) NotifyVehicleCheckedOut(ctx context.Context, a *domain.Assignment) error {
	return s.send(ctx, Notification{
		Type:        NotificationVehicleCheckedOut,
		RecipientID: a.DriverID,
		Title:       "Vehicle Checked Out",
		Message:     fmt.Sprintf("Vehicle %s checked out for %s", a.VehicleID, a.Destination),
		Data: map[string]interface{}{
			"assignment_id":     a.ID,
			"vehicle_id":        a.VehicleID,
			"starting_odometer": a.StartingOdometer,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyVehicleCheckedIn notifies the fleet desk that a trip closed.
func (s *NotificationService) NotifyVehicleCheckedIn(ctx context.Context, a *domain.Assignment, v *domain.Vehicle) error {
	return s.send(ctx, Notification{
		Type:        NotificationVehicleCheckedIn,
		RecipientID: a.DriverID,
		Title:       "Vehicle Checked In",
		Message:     fmt.Sprintf("Vehicle %s returned after %d distance units", a.VehicleID, a.TotalDistance),
		Data: map[string]interface{}{
			"assignment_id":  a.ID,
			"vehicle_id":     a.VehicleID,
			"total_distance": a.TotalDistance,
			"vehicle_status": string(v.Status),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyDamageReported flags new damage findings to maintenance staff.
func (s *NotificationService) NotifyDamageReported(ctx context.Context, insp *domain.Inspection) error {
	return s.send(ctx, Notification{
		Type:        NotificationDamageReported,
		RecipientID: insp.InspectorID,
		Title:       "Damage Reported",
		Message:     fmt.Sprintf("Vehicle %s has %d damage report(s), condition %s", insp.VehicleID, len(insp.DamageReports), insp.OverallCondition),
		Data: map[string]interface{}{
			"inspection_id": insp.ID,
			"vehicle_id":    insp.VehicleID,
			"condition":     string(insp.OverallCondition),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyServiceOverdue flags a vehicle that came back past its service
// interval.
func (s *NotificationService) NotifyServiceOverdue(ctx context.Context, v *domain.Vehicle) error {
	return s.send(ctx, Notification{
		Type:        NotificationServiceOverdue,
		RecipientID: "maintenance",
		Title:       "Service Overdue",
		Message:     fmt.Sprintf("Vehicle %s (%s) is past its service interval", v.ID, v.LicensePlate),
		Data: map[string]interface{}{
			"vehicle_id":            v.ID,
			"current_odometer":      v.CurrentOdometer,
			"next_service_odometer": v.NextServiceOdometer,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (mock implementation; failures are
// logged, never surfaced).
func (s *NotificationService) send(ctx context.Context, n Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		n.Type, n.RecipientID, n.Title, n.Message)
	return nil
}
