package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestHours(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	assert.True(t, d("8").Equal(Hours(start, start.Add(8*time.Hour))))
	assert.True(t, d("7.5").Equal(Hours(start, start.Add(7*time.Hour+30*time.Minute))))
	// 8h20m = 8.3333... rounds to two places
	assert.True(t, d("8.33").Equal(Hours(start, start.Add(8*time.Hour+20*time.Minute))))
}

func TestDayTotal(t *testing.T) {
	assert.True(t, d("95.25").Equal(DayTotal(d("45.50"), d("62.00"), d("12.25"))))
	// Gas can exceed pay on a bad day; the total goes negative.
	assert.True(t, d("-5.00").Equal(DayTotal(d("0"), d("10.00"), d("15.00"))))
}

func TestHourlyPay(t *testing.T) {
	rate := HourlyPay(d("100"), d("8"))
	require.NotNil(t, rate)
	assert.True(t, d("12.5").Equal(*rate))

	assert.Nil(t, HourlyPay(d("100"), decimal.Zero))
	assert.Nil(t, HourlyPay(d("100"), d("-1")))
}

func TestDeriveClosedShift(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	odoEnd := 163120

	shift := &models.Shift{
		StartTime:     start,
		EndTime:       &end,
		OdometerStart: 163000,
		OdometerEnd:   &odoEnd,
		Earnings:      d("45.50"),
		Tips:          d("62.00"),
		GasCost:       d("12.25"),
	}
	Derive(shift)

	require.NotNil(t, shift.HoursWorked)
	assert.True(t, d("8").Equal(*shift.HoursWorked))
	require.NotNil(t, shift.MilesDriven)
	assert.Equal(t, 120, *shift.MilesDriven)
	assert.True(t, d("95.25").Equal(shift.DayTotal))
	require.NotNil(t, shift.HourlyPay)
	assert.True(t, d("11.91").Equal(*shift.HourlyPay))
}

func TestDeriveOpenShift(t *testing.T) {
	shift := &models.Shift{
		StartTime:     time.Now().UTC(),
		OdometerStart: 163000,
		Earnings:      d("10.00"),
		Tips:          d("5.00"),
		GasCost:       d("2.00"),
	}
	Derive(shift)

	assert.Nil(t, shift.HoursWorked)
	assert.Nil(t, shift.MilesDriven)
	assert.Nil(t, shift.HourlyPay)
	assert.True(t, d("13.00").Equal(shift.DayTotal))
}

func TestDeriveClearsStaleFields(t *testing.T) {
	stale := d("99")
	staleMiles := 999
	shift := &models.Shift{
		StartTime:     time.Now().UTC(),
		OdometerStart: 163000,
		HoursWorked:   &stale,
		MilesDriven:   &staleMiles,
		HourlyPay:     &stale,
		Earnings:      decimal.Zero,
		Tips:          decimal.Zero,
		GasCost:       decimal.Zero,
	}
	Derive(shift)

	assert.Nil(t, shift.HoursWorked)
	assert.Nil(t, shift.MilesDriven)
	assert.Nil(t, shift.HourlyPay)
}

func TestValidateShift(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	odoEnd := 163120

	valid := &models.Shift{
		StartTime:     start,
		EndTime:       &end,
		OdometerStart: 163000,
		OdometerEnd:   &odoEnd,
	}
	assert.NoError(t, ValidateShift(valid))

	t.Run("odometer end below start", func(t *testing.T) {
		low := 162999
		shift := &models.Shift{
			StartTime:     start,
			EndTime:       &end,
			OdometerStart: 163000,
			OdometerEnd:   &low,
		}
		err := ValidateShift(shift)
		require.Error(t, err)
		verr, ok := domain.AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, verr.Fields, "odometer_end")
	})

	t.Run("odometer end equal to start is fine", func(t *testing.T) {
		same := 163000
		shift := &models.Shift{
			StartTime:     start,
			EndTime:       &end,
			OdometerStart: 163000,
			OdometerEnd:   &same,
		}
		assert.NoError(t, ValidateShift(shift))
	})

	t.Run("closed without odometer end", func(t *testing.T) {
		shift := &models.Shift{
			StartTime:     start,
			EndTime:       &end,
			OdometerStart: 163000,
		}
		err := ValidateShift(shift)
		require.Error(t, err)
		verr, _ := domain.AsValidation(err)
		assert.Contains(t, verr.Fields, "odometer_end")
	})

	t.Run("end before start", func(t *testing.T) {
		bad := start.Add(-time.Hour)
		shift := &models.Shift{
			StartTime:     start,
			EndTime:       &bad,
			OdometerStart: 163000,
			OdometerEnd:   &odoEnd,
		}
		err := ValidateShift(shift)
		require.Error(t, err)
		verr, _ := domain.AsValidation(err)
		assert.Contains(t, verr.Fields, "end_time")
	})

	t.Run("negative money", func(t *testing.T) {
		shift := &models.Shift{
			StartTime:     start,
			OdometerStart: 163000,
			Earnings:      d("-1"),
			Tips:          d("-1"),
			GasCost:       d("-1"),
		}
		err := ValidateShift(shift)
		require.Error(t, err)
		verr, _ := domain.AsValidation(err)
		assert.Len(t, verr.Fields, 3)
	})
}

func TestValidateMaintenance(t *testing.T) {
	assert.NoError(t, ValidateMaintenance(&models.MaintenanceItem{
		Name:            "Oil Change",
		MileageInterval: 3000,
	}))

	err := ValidateMaintenance(&models.MaintenanceItem{
		Name:               "  ",
		MileageInterval:    0,
		LastServiceMileage: -5,
	})
	require.Error(t, err)
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "mileage_interval")
	assert.Contains(t, verr.Fields, "last_service_mileage")
}

func TestSanitizeNotes(t *testing.T) {
	assert.Nil(t, SanitizeNotes(nil))

	blank := "   "
	assert.Nil(t, SanitizeNotes(&blank))

	padded := "  busy day  "
	got := SanitizeNotes(&padded)
	require.NotNil(t, got)
	assert.Equal(t, "busy day", *got)
}

func closedShift(start time.Time, hours float64, miles int, dayTotal string) models.Shift {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	odoEnd := 163000 + miles
	shift := models.Shift{
		StartTime:     start,
		EndTime:       &end,
		OdometerStart: 163000,
		OdometerEnd:   &odoEnd,
		Earnings:      d(dayTotal),
		Tips:          decimal.Zero,
		GasCost:       decimal.Zero,
	}
	Derive(&shift)
	return shift
}

func TestAggregate(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	shifts := []models.Shift{
		closedShift(start, 8, 120, "100.00"),
		closedShift(start.AddDate(0, 0, 1), 4, 60, "50.00"),
	}

	stats := Aggregate(shifts)
	assert.Equal(t, 2, stats.ShiftCount)
	assert.True(t, d("150.00").Equal(stats.TotalEarnings))
	assert.True(t, d("12").Equal(stats.TotalHours))
	assert.Equal(t, 180, stats.TotalMiles)
	assert.True(t, d("12.5").Equal(stats.AvgHourlyRate))
}

func TestAggregateSkipsOpenShifts(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	open := models.Shift{StartTime: start.AddDate(0, 0, 2), OdometerStart: 163500}
	Derive(&open)

	shifts := []models.Shift{closedShift(start, 8, 120, "100.00"), open}
	stats := Aggregate(shifts)
	assert.Equal(t, 1, stats.ShiftCount)
	assert.Equal(t, 120, stats.TotalMiles)
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	assert.Equal(t, 0, stats.ShiftCount)
	assert.Equal(t, 0, stats.TotalMiles)
	assert.True(t, stats.TotalEarnings.IsZero())
	assert.True(t, stats.TotalHours.IsZero())
	assert.True(t, stats.AvgHourlyRate.IsZero())
}
