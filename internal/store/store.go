package store

import (
	"context"

	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/timeframe"
)

// ShiftStore is the persistence boundary for shifts. Both the Postgres
// repository and the demo in-memory store implement it.
type ShiftStore interface {
	// CreateOpen inserts a new open shift. The store itself enforces
	// the single-open-shift invariant as an atomic conditional write
	// and returns domain.ErrActiveShiftExists on violation.
	CreateOpen(ctx context.Context, shift *models.Shift) error
	GetByID(ctx context.Context, id int64) (*models.Shift, error)
	Update(ctx context.Context, shift *models.Shift) error
	Delete(ctx context.Context, id int64) error
	// List returns shifts newest-first, restricted to rng when non-nil
	// (inclusive bounds on start_time).
	List(ctx context.Context, rng *timeframe.Range) ([]models.Shift, error)
	// GetActive returns the open shift, or (nil, nil) when none exists.
	GetActive(ctx context.Context) (*models.Shift, error)
	// CurrentOdometer is the most recent closed shift's odometer_end,
	// falling back to the open shift's odometer_start, then zero.
	CurrentOdometer(ctx context.Context) (int, error)
}

// MaintenanceStore is the persistence boundary for maintenance items.
type MaintenanceStore interface {
	Create(ctx context.Context, item *models.MaintenanceItem) error
	GetByID(ctx context.Context, id int64) (*models.MaintenanceItem, error)
	Update(ctx context.Context, item *models.MaintenanceItem) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.MaintenanceItem, error)
}
