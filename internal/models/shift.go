package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shift is one logged work session. Pointer fields are absent while the
// shift is still open; the derived fields (HoursWorked, MilesDriven,
// DayTotal, HourlyPay) are recomputed on every write that touches their
// inputs and stored alongside the raw fields.
type Shift struct {
	ID            int64            `json:"id" db:"id"`
	StartTime     time.Time        `json:"start_time" db:"start_time"`
	EndTime       *time.Time       `json:"end_time,omitempty" db:"end_time"`
	HoursWorked   *decimal.Decimal `json:"hours_worked,omitempty" db:"hours_worked"`
	OdometerStart int              `json:"odometer_start" db:"odometer_start"`
	OdometerEnd   *int             `json:"odometer_end,omitempty" db:"odometer_end"`
	MilesDriven   *int             `json:"miles_driven,omitempty" db:"miles_driven"`
	Earnings      decimal.Decimal  `json:"earnings" db:"earnings"`
	Tips          decimal.Decimal  `json:"tips" db:"tips"`
	GasCost       decimal.Decimal  `json:"gas_cost" db:"gas_cost"`
	DayTotal      decimal.Decimal  `json:"day_total" db:"day_total"`
	HourlyPay     *decimal.Decimal `json:"hourly_pay,omitempty" db:"hourly_pay"`
	Notes         *string          `json:"notes,omitempty" db:"notes"`
}

// Open reports whether the shift has not been ended yet.
func (s *Shift) Open() bool {
	return s.EndTime == nil
}

// StartShiftRequest begins a new shift.
type StartShiftRequest struct {
	OdometerStart int `json:"odometer_start"`
}

// EndShiftRequest closes the currently open shift.
type EndShiftRequest struct {
	OdometerEnd int              `json:"odometer_end"`
	Earnings    *decimal.Decimal `json:"earnings,omitempty"`
	Tips        *decimal.Decimal `json:"tips,omitempty"`
	GasCost     *decimal.Decimal `json:"gas_cost,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

// UpdateShiftRequest edits individual fields of an existing shift.
// Omitted fields keep their stored values; derived fields are always
// recomputed from the merged result.
type UpdateShiftRequest struct {
	StartTime     *time.Time       `json:"start_time,omitempty"`
	EndTime       *time.Time       `json:"end_time,omitempty"`
	OdometerStart *int             `json:"odometer_start,omitempty"`
	OdometerEnd   *int             `json:"odometer_end,omitempty"`
	Earnings      *decimal.Decimal `json:"earnings,omitempty"`
	Tips          *decimal.Decimal `json:"tips,omitempty"`
	GasCost       *decimal.Decimal `json:"gas_cost,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// ShiftStats summarizes a filtered set of closed shifts.
type ShiftStats struct {
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	TotalMiles    int             `json:"total_miles"`
	AvgHourlyRate decimal.Decimal `json:"avg_hourly_rate"`
	ShiftCount    int             `json:"shift_count"`
}

// DutyStatus reports the courier's current duty state.
type DutyStatus struct {
	State          string     `json:"state"`
	Since          time.Time  `json:"since"`
	OpenShiftID    *int64     `json:"open_shift_id,omitempty"`
	OpenShiftStart *time.Time `json:"open_shift_start,omitempty"`
}
