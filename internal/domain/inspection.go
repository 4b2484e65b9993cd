package domain

import "time"

// InspectionType represents the kind of inspection performed.
type InspectionType string

const (
	InspectionTypePreTrip      InspectionType = "PRE_TRIP"
	InspectionTypePostTrip     InspectionType = "POST_TRIP"
	InspectionTypePeriodic     InspectionType = "PERIODIC"
	InspectionTypeDamageReport InspectionType = "DAMAGE_REPORT"
)

// ChecklistStatus is the outcome of a single checklist item.
type ChecklistStatus string

const (
	ChecklistStatusPass           ChecklistStatus = "PASS"
	ChecklistStatusFail           ChecklistStatus = "FAIL"
	ChecklistStatusNeedsAttention ChecklistStatus = "NEEDS_ATTENTION"
)

// DamageSeverity grades a damage report or a failed checklist item.
type DamageSeverity string

const (
	SeverityMinor    DamageSeverity = "MINOR"
	SeverityModerate DamageSeverity = "MODERATE"
	SeverityMajor    DamageSeverity = "MAJOR"
	SeverityCritical DamageSeverity = "CRITICAL"
)

// VehicleCondition is the overall condition derived from an inspection.
type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "EXCELLENT"
	ConditionGood      VehicleCondition = "GOOD"
	ConditionFair      VehicleCondition = "FAIR"
	ConditionPoor      VehicleCondition = "POOR"
	ConditionDamaged   VehicleCondition = "DAMAGED"
)

// ChecklistItem is a named inspectable aspect of a vehicle.
type ChecklistItem struct {
	Name     string          `json:"name"`
	Status   ChecklistStatus `json:"status"`
	Severity DamageSeverity  `json:"severity,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// DamageReport is a component-level record of physical damage.
type DamageReport struct {
	ID             string         `json:"id"`
	Component      string         `json:"component"`
	HasDamage      bool           `json:"has_damage"`
	Severity       DamageSeverity `json:"severity"`
	Description    string         `json:"description"`
	RepairRequired bool           `json:"repair_required"`
}

// VoiceNote is an opaque reference to a recorded note. Transcription is
// handled elsewhere; the core only assigns a stable id.
type VoiceNote struct {
	ID       string `json:"id"`
	Label    string `json:"label,omitempty"`
	MediaURI string `json:"media_uri"`
}

// ReviewStatus tracks the post-creation reviewer workflow.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusReviewed ReviewStatus = "REVIEWED"
)

// Inspection is a structured record of checklist results and damage
// findings for a vehicle at a point in time. It is created atomically
// and immutable afterwards except for the reviewer status and notes.
type Inspection struct {
	ID          string
	VehicleID   string
	InspectorID string
	Type        InspectionType

	Odometer  int64
	FuelLevel float64

	ChecklistItems []ChecklistItem
	DamageReports  []DamageReport
	VoiceNotes     []VoiceNote

	OverallCondition VehicleCondition

	ReviewStatus ReviewStatus
	ReviewedBy   string
	ReviewNotes  string

	CreatedAt time.Time
}

// HasCriticalDamage reports whether any damage in the inspection is
// graded critical.
func (i *Inspection) HasCriticalDamage() bool {
	for _, d := range i.DamageReports {
		if d.HasDamage && d.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
