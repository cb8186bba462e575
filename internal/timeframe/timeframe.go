package timeframe

import (
	"fmt"
	"time"

	"github.com/rsheldon/courierlog/internal/domain"
)

// Period selects which time window shifts are filtered by.
type Period string

const (
	PeriodAll    Period = "all"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

const dateLayout = "2006-01-02"

// Range is an absolute UTC instant range, inclusive on both ends.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r *Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Resolve converts a logical period selector plus the caller's local
// context into a UTC range. A nil range means no filtering.
//
// Month and custom boundaries are built with time.Date in the caller's
// zone so each boundary picks up the UTC offset in effect on that
// specific calendar date; subtracting a fixed offset for the whole
// window misclassifies shifts logged near a DST transition.
func Resolve(period Period, startDate, endDate string, ref time.Time, loc *time.Location) (*Range, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch period {
	case PeriodAll, "":
		return nil, nil

	case PeriodMonth:
		local := ref.In(loc)
		first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		// First instant of the next month, back one millisecond: the
		// last instant of this month's final local day.
		last := time.Date(local.Year(), local.Month()+1, 1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
		return &Range{Start: first.UTC(), End: last.UTC()}, nil

	case PeriodCustom:
		if startDate == "" {
			return nil, domain.NewValidation("start_date", "required for custom period")
		}
		if endDate == "" {
			return nil, domain.NewValidation("end_date", "required for custom period")
		}
		start, err := time.ParseInLocation(dateLayout, startDate, loc)
		if err != nil {
			return nil, domain.NewValidation("start_date", "must be formatted YYYY-MM-DD")
		}
		end, err := time.ParseInLocation(dateLayout, endDate, loc)
		if err != nil {
			return nil, domain.NewValidation("end_date", "must be formatted YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, domain.NewValidation("end_date", "must not be before start_date")
		}
		dayEnd := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
		return &Range{Start: start.UTC(), End: dayEnd.UTC()}, nil

	default:
		return nil, domain.NewValidation("period", fmt.Sprintf("unknown period %q", period))
	}
}
