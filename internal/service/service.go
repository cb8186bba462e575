package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/store"
)

// Services bundles the application services over a single pair of
// stores. In persistent mode one bundle serves all requests; in demo
// mode each session owns its own bundle over an in-memory store.
type Services struct {
	Shifts      *ShiftService
	Maintenance *MaintenanceService
}

func NewServices(ctx context.Context, logger *zap.Logger, shifts store.ShiftStore, items store.MaintenanceStore) (*Services, error) {
	shiftSvc, err := NewShiftService(ctx, logger, shifts)
	if err != nil {
		return nil, err
	}

	return &Services{
		Shifts:      shiftSvc,
		Maintenance: NewMaintenanceService(logger, items, shifts),
	}, nil
}
