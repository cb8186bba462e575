package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/metrics"
	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/store"
)

// MaintenanceService manages mileage-interval service reminders and
// evaluates which are due against the vehicle's current odometer. The
// odometer is read fresh from the shift history on every evaluation,
// never cached, so a shift edit is visible immediately.
type MaintenanceService struct {
	logger *zap.Logger
	items  store.MaintenanceStore
	shifts store.ShiftStore
}

func NewMaintenanceService(logger *zap.Logger, items store.MaintenanceStore, shifts store.ShiftStore) *MaintenanceService {
	return &MaintenanceService{logger: logger, items: items, shifts: shifts}
}

// RemainingMileage is the distance left before the item is due.
// Negative means overdue; reported as-is, never clamped.
func RemainingMileage(item *models.MaintenanceItem, currentOdometer int) int {
	return item.LastServiceMileage + item.MileageInterval - currentOdometer
}

// Evaluate populates RemainingMileage on every item and returns the
// due subset: enabled items whose remaining mileage has reached zero.
func Evaluate(items []models.MaintenanceItem, currentOdometer int) []models.MaintenanceItem {
	var due []models.MaintenanceItem
	for i := range items {
		remaining := RemainingMileage(&items[i], currentOdometer)
		items[i].RemainingMileage = &remaining
		if items[i].Enabled && remaining <= 0 {
			due = append(due, items[i])
		}
	}
	return due
}

// List returns every reminder with its remaining mileage populated.
func (s *MaintenanceService) List(ctx context.Context) ([]models.MaintenanceItem, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}

	odometer, err := s.shifts.CurrentOdometer(ctx)
	if err != nil {
		return nil, err
	}

	Evaluate(items, odometer)
	return items, nil
}

// Due reports the currently due reminders and the odometer they were
// evaluated against.
func (s *MaintenanceService) Due(ctx context.Context) (models.DueMaintenance, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return models.DueMaintenance{}, err
	}

	odometer, err := s.shifts.CurrentOdometer(ctx)
	if err != nil {
		return models.DueMaintenance{}, err
	}

	due := Evaluate(items, odometer)
	return models.DueMaintenance{CurrentOdometer: odometer, Items: due}, nil
}

// Create adds a new reminder.
func (s *MaintenanceService) Create(ctx context.Context, req models.CreateMaintenanceRequest) (*models.MaintenanceItem, error) {
	item := &models.MaintenanceItem{
		Name:            req.Name,
		MileageInterval: req.MileageInterval,
		Enabled:         true,
		Notes:           metrics.SanitizeNotes(req.Notes),
	}
	if req.LastServiceMileage != nil {
		item.LastServiceMileage = *req.LastServiceMileage
	}
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}

	if err := metrics.ValidateMaintenance(item); err != nil {
		return nil, err
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	if err := s.populateRemaining(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance item created",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name))
	return item, nil
}

// Update edits individual reminder fields.
func (s *MaintenanceService) Update(ctx context.Context, id int64, req models.UpdateMaintenanceRequest) (*models.MaintenanceItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.MileageInterval != nil {
		item.MileageInterval = *req.MileageInterval
	}
	if req.LastServiceMileage != nil {
		item.LastServiceMileage = *req.LastServiceMileage
	}
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}
	if req.Notes != nil {
		item.Notes = metrics.SanitizeNotes(req.Notes)
	}

	if err := metrics.ValidateMaintenance(item); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	if err := s.populateRemaining(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Maintenance item updated", zap.Int64("item_id", id))
	return item, nil
}

// Delete removes a reminder.
func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Maintenance item deleted", zap.Int64("item_id", id))
	return nil
}

func (s *MaintenanceService) populateRemaining(ctx context.Context, item *models.MaintenanceItem) error {
	odometer, err := s.shifts.CurrentOdometer(ctx)
	if err != nil {
		return err
	}
	remaining := RemainingMileage(item, odometer)
	item.RemainingMileage = &remaining
	return nil
}
