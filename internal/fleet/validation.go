package fleet

import "fmt"

// DefaultMileageWarnThreshold is the odometer increase above which a
// reading is flagged as unusually high. The warning never blocks the
// transition; only a decreasing reading does.
const DefaultMileageWarnThreshold = 1000

// OdometerValidation is the outcome of an odometer reading check.
// Errors block the transition, warnings are advisory only.
type OdometerValidation struct {
	Valid    bool
	Errors   []FieldError
	Warnings []string
}

// ValidateOdometer checks a new odometer reading against the previous
// one. A reading below the previous is an error; an increase beyond
// warnThreshold (DefaultMileageWarnThreshold when <= 0) is a warning.
func ValidateOdometer(newReading, previousReading, warnThreshold int64) OdometerValidation {
	if warnThreshold <= 0 {
		warnThreshold = DefaultMileageWarnThreshold
	}

	v := OdometerValidation{Valid: true}

	if newReading < previousReading {
		v.Valid = false
		v.Errors = append(v.Errors, FieldError{
			Field:   "odometer",
			Message: "reading cannot be lower than current reading",
		})
		return v
	}

	if newReading-previousReading > warnThreshold {
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"unusually high mileage increase: %d", newReading-previousReading))
	}

	return v
}

// ValidateFuelLevel reports whether a fuel percentage is within bounds.
func ValidateFuelLevel(pct float64) bool {
	return pct >= 0 && pct <= 100
}

// ValidateCheckout checks the mandatory checkout fields. A missing
// signature is always reported, regardless of other failures.
func ValidateCheckout(req CheckoutRequest) []FieldError {
	var errs []FieldError

	if req.DriverID == "" {
		errs = append(errs, FieldError{Field: "driver_id", Message: "driver is required"})
	}
	if req.StartingOdometer < 0 {
		errs = append(errs, FieldError{Field: "starting_odometer", Message: "starting odometer is required"})
	}
	if req.Destination == "" {
		errs = append(errs, FieldError{Field: "destination", Message: "destination is required"})
	}
	if req.Purpose == "" {
		errs = append(errs, FieldError{Field: "purpose", Message: "trip purpose is required"})
	}
	if req.Signature == "" {
		errs = append(errs, FieldError{Field: "signature", Message: "signature is required"})
	}
	if !ValidateFuelLevel(req.FuelLevel) {
		errs = append(errs, FieldError{Field: "fuel_level", Message: "fuel level must be between 0 and 100"})
	}

	return errs
}

// ValidateCheckin checks the mandatory checkin fields. The damage
// description becomes mandatory once damage is reported.
func ValidateCheckin(req CheckinRequest) []FieldError {
	var errs []FieldError

	if req.EndingOdometer < 0 {
		errs = append(errs, FieldError{Field: "ending_odometer", Message: "ending odometer is required"})
	}
	if req.Signature == "" {
		errs = append(errs, FieldError{Field: "signature", Message: "signature is required"})
	}
	if req.DamageReported && req.DamageDescription == "" && len(req.DamageReports) == 0 {
		errs = append(errs, FieldError{Field: "damage_description", Message: "damage description is required when damage is reported"})
	}
	if !ValidateFuelLevel(req.FuelLevel) {
		errs = append(errs, FieldError{Field: "fuel_level", Message: "fuel level must be between 0 and 100"})
	}

	return errs
}
