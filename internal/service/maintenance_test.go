package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/memstore"
	"github.com/rsheldon/courierlog/internal/models"
)

func newMaintenanceService(t *testing.T) (*MaintenanceService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := NewMaintenanceService(zap.NewNop(), store.Maintenance(), store)
	return svc, store
}

// seedOdometer records one closed shift so CurrentOdometer reads the
// given value.
func seedOdometer(t *testing.T, store *memstore.Store, odometer int) {
	t.Helper()
	start := time.Now().UTC().Add(-24 * time.Hour)
	end := start.Add(8 * time.Hour)
	shift := &models.Shift{
		StartTime:     start,
		EndTime:       &end,
		OdometerStart: odometer - 100,
		OdometerEnd:   &odometer,
	}
	require.NoError(t, store.CreateOpen(context.Background(), shift))
}

func intervalItem(last, interval int) *models.MaintenanceItem {
	return &models.MaintenanceItem{
		Name:               "Oil Change",
		MileageInterval:    interval,
		LastServiceMileage: last,
		Enabled:            true,
	}
}

func TestRemainingMileage(t *testing.T) {
	item := intervalItem(160000, 3000)

	assert.Equal(t, 0, RemainingMileage(item, 163000))
	assert.Equal(t, 1, RemainingMileage(item, 162999))
	// Overdue distance is reported as-is, not clamped.
	assert.Equal(t, -1, RemainingMileage(item, 163001))
}

func TestEvaluateDueBoundary(t *testing.T) {
	cases := []struct {
		name     string
		odometer int
		due      bool
	}{
		{"one mile short", 162999, false},
		{"exactly at threshold", 163000, true},
		{"one mile past", 163001, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := []models.MaintenanceItem{*intervalItem(160000, 3000)}
			due := Evaluate(items, tc.odometer)
			assert.Equal(t, tc.due, len(due) == 1)
			require.NotNil(t, items[0].RemainingMileage)
		})
	}
}

func TestEvaluateSkipsDisabled(t *testing.T) {
	item := *intervalItem(160000, 3000)
	item.Enabled = false

	items := []models.MaintenanceItem{item}
	due := Evaluate(items, 170000)
	assert.Empty(t, due)
	// Remaining is still reported for disabled items.
	require.NotNil(t, items[0].RemainingMileage)
	assert.Equal(t, -7000, *items[0].RemainingMileage)
}

func TestDueReadsFreshOdometer(t *testing.T) {
	ctx := context.Background()
	svc, store := newMaintenanceService(t)

	_, err := svc.Create(ctx, models.CreateMaintenanceRequest{
		Name:               "Oil Change",
		MileageInterval:    3000,
		LastServiceMileage: intPtr(160000),
	})
	require.NoError(t, err)

	seedOdometer(t, store, 162999)
	due, err := svc.Due(ctx)
	require.NoError(t, err)
	assert.Equal(t, 162999, due.CurrentOdometer)
	assert.Empty(t, due.Items)

	// A newer shift moves the odometer past the threshold; the next
	// evaluation must see it without any cache invalidation step.
	start := time.Now().UTC().Add(-time.Hour)
	end := start.Add(30 * time.Minute)
	odoEnd := 163001
	require.NoError(t, store.CreateOpen(ctx, &models.Shift{
		StartTime:     start,
		EndTime:       &end,
		OdometerStart: 162999,
		OdometerEnd:   &odoEnd,
	}))

	due, err = svc.Due(ctx)
	require.NoError(t, err)
	assert.Equal(t, 163001, due.CurrentOdometer)
	require.Len(t, due.Items, 1)
	require.NotNil(t, due.Items[0].RemainingMileage)
	assert.Equal(t, -1, *due.Items[0].RemainingMileage)
}

func TestMaintenanceCRUD(t *testing.T) {
	ctx := context.Background()
	svc, store := newMaintenanceService(t)
	seedOdometer(t, store, 163000)

	created, err := svc.Create(ctx, models.CreateMaintenanceRequest{
		Name:            "Tire Rotation",
		MileageInterval: 5000,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.Enabled)
	require.NotNil(t, created.RemainingMileage)

	newInterval := 6000
	updated, err := svc.Update(ctx, created.ID, models.UpdateMaintenanceRequest{
		MileageInterval: &newInterval,
	})
	require.NoError(t, err)
	assert.Equal(t, 6000, updated.MileageInterval)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].RemainingMileage)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrMaintenanceNotFound)
}

func TestMaintenanceCreateValidation(t *testing.T) {
	svc, _ := newMaintenanceService(t)

	_, err := svc.Create(context.Background(), models.CreateMaintenanceRequest{
		Name:            "",
		MileageInterval: 0,
	})
	require.Error(t, err)
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "mileage_interval")
}

func intPtr(v int) *int { return &v }
