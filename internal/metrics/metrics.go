package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/models"
)

var secondsPerHour = decimal.NewFromInt(3600)

// Hours returns the worked duration between start and end in decimal
// hours, rounded to two places.
func Hours(start, end time.Time) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(end.Sub(start) / time.Second))
	return seconds.DivRound(secondsPerHour, 2)
}

// Miles returns the odometer delta for a closed shift.
func Miles(odometerStart, odometerEnd int) int {
	return odometerEnd - odometerStart
}

// DayTotal is the net pay for a shift: earnings + tips - gas cost.
// It may be negative.
func DayTotal(earnings, tips, gasCost decimal.Decimal) decimal.Decimal {
	return earnings.Add(tips).Sub(gasCost)
}

// HourlyPay is day total divided by hours worked. It is nil, not zero,
// when hours is zero or negative so a 0/0 never renders as a real rate.
func HourlyPay(dayTotal, hoursWorked decimal.Decimal) *decimal.Decimal {
	if hoursWorked.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	rate := dayTotal.DivRound(hoursWorked, 2)
	return &rate
}

// Derive recomputes every derived field of s from its raw fields.
// Fields whose inputs are absent (shift still open) are set to nil
// rather than zero. Callers must validate before deriving.
func Derive(s *models.Shift) {
	s.DayTotal = DayTotal(s.Earnings, s.Tips, s.GasCost)

	if s.EndTime == nil {
		s.HoursWorked = nil
		s.MilesDriven = nil
		s.HourlyPay = nil
		return
	}

	hours := Hours(s.StartTime, *s.EndTime)
	s.HoursWorked = &hours
	s.HourlyPay = HourlyPay(s.DayTotal, hours)

	if s.OdometerEnd != nil {
		miles := Miles(s.OdometerStart, *s.OdometerEnd)
		s.MilesDriven = &miles
	} else {
		s.MilesDriven = nil
	}
}

// ValidateShift checks every invariant of the merged shift fields
// before a write, collecting per-field messages.
func ValidateShift(s *models.Shift) error {
	fields := map[string]string{}

	if s.OdometerStart < 0 {
		fields["odometer_start"] = "must be non-negative"
	}
	if s.OdometerEnd != nil && *s.OdometerEnd < s.OdometerStart {
		fields["odometer_end"] = fmt.Sprintf("must be at least odometer_start (%d)", s.OdometerStart)
	}
	if s.EndTime != nil && s.OdometerEnd == nil {
		fields["odometer_end"] = "required once the shift is closed"
	}
	if s.EndTime != nil && !s.EndTime.After(s.StartTime) {
		fields["end_time"] = "must be after start_time"
	}
	if s.Earnings.IsNegative() {
		fields["earnings"] = "must be non-negative"
	}
	if s.Tips.IsNegative() {
		fields["tips"] = "must be non-negative"
	}
	if s.GasCost.IsNegative() {
		fields["gas_cost"] = "must be non-negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ValidateMaintenance checks maintenance item invariants.
func ValidateMaintenance(m *models.MaintenanceItem) error {
	fields := map[string]string{}

	if strings.TrimSpace(m.Name) == "" {
		fields["name"] = "must not be empty"
	}
	if m.MileageInterval <= 0 {
		fields["mileage_interval"] = "must be positive"
	}
	if m.LastServiceMileage < 0 {
		fields["last_service_mileage"] = "must be non-negative"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// SanitizeNotes trims whitespace and collapses empty notes to absent.
func SanitizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Aggregate folds a filtered shift collection into summary statistics.
// Open shifts are skipped. The average rate falls back to zero on an
// empty or zero-hour set since the summary is always rendered.
func Aggregate(shifts []models.Shift) models.ShiftStats {
	stats := models.ShiftStats{
		TotalEarnings: decimal.Zero,
		TotalHours:    decimal.Zero,
		AvgHourlyRate: decimal.Zero,
	}

	for i := range shifts {
		s := &shifts[i]
		if s.Open() {
			continue
		}
		stats.ShiftCount++
		stats.TotalEarnings = stats.TotalEarnings.Add(s.DayTotal)
		if s.HoursWorked != nil {
			stats.TotalHours = stats.TotalHours.Add(*s.HoursWorked)
		}
		if s.MilesDriven != nil {
			stats.TotalMiles += *s.MilesDriven
		}
	}

	if stats.TotalHours.GreaterThan(decimal.Zero) {
		stats.AvgHourlyRate = stats.TotalEarnings.DivRound(stats.TotalHours, 2)
	}
	return stats
}
