package fleet

import "github.com/heinNell/Asset-Management/internal/domain"

// failThreshold is the number of failed checklist items beyond which a
// vehicle is graded FAIR regardless of item severity.
const failThreshold = 3

// AssessCondition derives the overall vehicle condition from damage
// reports and checklist results. The rules are evaluated strictly in
// order and the first match wins; severity of damage dominates the
// checklist failure count and is itself dominated by critical damage.
// Reordering the rules changes observable behavior, so they stay as a
// single ladder.
func AssessCondition(damages []domain.DamageReport, items []domain.ChecklistItem) domain.VehicleCondition {
	var (
		criticalDamage bool
		majorDamage    bool
		moderateDamage bool
		minorDamage    bool
	)
	for _, d := range damages {
		if !d.HasDamage {
			continue
		}
		switch d.Severity {
		case domain.SeverityCritical:
			criticalDamage = true
		case domain.SeverityMajor:
			majorDamage = true
		case domain.SeverityModerate:
			moderateDamage = true
		case domain.SeverityMinor:
			minorDamage = true
		}
	}

	var (
		criticalFail   bool
		failCount      int
		needsAttention bool
	)
	for _, item := range items {
		switch item.Status {
		case domain.ChecklistStatusFail:
			failCount++
			if item.Severity == domain.SeverityCritical {
				criticalFail = true
			}
		case domain.ChecklistStatusNeedsAttention:
			needsAttention = true
		}
	}

	switch {
	case criticalDamage:
		return domain.ConditionDamaged
	case majorDamage:
		return domain.ConditionPoor
	case criticalFail:
		return domain.ConditionPoor
	case failCount > failThreshold:
		return domain.ConditionFair
	case moderateDamage || needsAttention:
		return domain.ConditionFair
	case minorDamage || failCount > 0:
		return domain.ConditionGood
	default:
		return domain.ConditionExcellent
	}
}
