package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsheldon/courierlog/internal/timeframe"
)

const exportTimeFormat = "2006-01-02 15:04:05"

var exportHeader = []string{
	"ID", "Start Time", "End Time", "Hours Worked",
	"Odometer Start", "Odometer End", "Miles Driven",
	"Earnings", "Tips", "Gas Cost", "Day Total", "Hourly Pay", "Notes",
}

// ExportCSV streams the shifts matching rng as CSV. Absent values
// render as empty cells.
func (s *ShiftService) ExportCSV(ctx context.Context, w io.Writer, rng *timeframe.Range) error {
	shifts, err := s.shifts.List(ctx, rng)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for i := range shifts {
		sh := &shifts[i]
		row := []string{
			strconv.FormatInt(sh.ID, 10),
			sh.StartTime.UTC().Format(exportTimeFormat),
			formatTime(sh.EndTime),
			formatDecimalPtr(sh.HoursWorked),
			strconv.Itoa(sh.OdometerStart),
			formatIntPtr(sh.OdometerEnd),
			formatIntPtr(sh.MilesDriven),
			sh.Earnings.StringFixed(2),
			sh.Tips.StringFixed(2),
			sh.GasCost.StringFixed(2),
			sh.DayTotal.StringFixed(2),
			formatDecimalPtr(sh.HourlyPay),
			formatStrPtr(sh.Notes),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(exportTimeFormat)
}

func formatDecimalPtr(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.StringFixed(2)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatStrPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
