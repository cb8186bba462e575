package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rsheldon/courierlog/internal/metrics"
	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/store"
)

const (
	startingOdometer = 163000
	shiftProbability = 0.7
)

// Demo fills the stores with a plausible shift history and the default
// maintenance reminders. The odometer walks forward from a fixed
// starting reading so due-maintenance evaluation has realistic mileage
// to work against.
func Demo(ctx context.Context, shifts store.ShiftStore, items store.MaintenanceStore, days int) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	odometer := startingOdometer
	now := time.Now().UTC()

	for d := days; d >= 1; d-- {
		if rng.Float64() > shiftProbability {
			continue
		}

		day := now.AddDate(0, 0, -d)
		startHour := 7 + rng.Intn(9)
		start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC)

		hours := 7.0 + rng.Float64()*1.75
		end := start.Add(time.Duration(hours * float64(time.Hour)))

		miles := 80 + rng.Intn(82)
		odoStart := odometer
		odoEnd := odoStart + miles
		odometer = odoEnd

		earnings := decimal.NewFromFloat(30 + rng.Float64()*30).Round(2)
		tips := decimal.NewFromFloat(35 + rng.Float64()*50).Round(2)
		perMile := 0.08 + rng.Float64()*0.07
		gas := decimal.NewFromFloat(perMile * float64(miles)).Round(2)

		shift := &models.Shift{
			StartTime:     start,
			EndTime:       &end,
			OdometerStart: odoStart,
			OdometerEnd:   &odoEnd,
			Earnings:      earnings,
			Tips:          tips,
			GasCost:       gas,
		}
		metrics.Derive(shift)

		if err := shifts.CreateOpen(ctx, shift); err != nil {
			return fmt.Errorf("seeding shift: %w", err)
		}
		if err := shifts.Update(ctx, shift); err != nil {
			return fmt.Errorf("closing seeded shift: %w", err)
		}
	}

	defaults := []struct {
		name     string
		interval int
		notes    string
	}{
		{"Oil Change", 3000, "Synthetic"},
		{"Tire Rotation", 5000, ""},
		{"Brake Inspection", 10000, ""},
	}

	for _, def := range defaults {
		last := odometer - (100 + rng.Intn(def.interval-200))
		item := &models.MaintenanceItem{
			Name:               def.name,
			MileageInterval:    def.interval,
			LastServiceMileage: last,
			Enabled:            true,
		}
		if def.notes != "" {
			notes := def.notes
			item.Notes = &notes
		}
		if err := items.Create(ctx, item); err != nil {
			return fmt.Errorf("seeding maintenance: %w", err)
		}
	}

	return nil
}
