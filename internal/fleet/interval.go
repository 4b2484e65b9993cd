package fleet

import (
	"math"

	"github.com/heinNell/Asset-Management/internal/domain"
)

// DefaultAvgDailyDistance is the fleet-wide fallback for estimating
// days until the next service.
const DefaultAvgDailyDistance = 50.0

// NextServiceStatus computes the distance remaining to the vehicle's
// next service, whether service is overdue, and an informational
// estimate of days remaining at avgDailyDistance (the default when
// <= 0). An overdue vehicle must be refused checkout.
func NextServiceStatus(v *domain.Vehicle, avgDailyDistance float64) domain.ServiceStatus {
	if avgDailyDistance <= 0 {
		avgDailyDistance = DefaultAvgDailyDistance
	}

	remaining := v.NextServiceOdometer - v.CurrentOdometer

	status := domain.ServiceStatus{
		DistanceRemaining: remaining,
		IsOverdue:         remaining <= 0,
	}

	if !status.IsOverdue {
		status.EstimatedDaysRemaining = int(math.Ceil(float64(remaining) / avgDailyDistance))
	}

	return status
}
