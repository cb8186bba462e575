package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/metrics"
	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/state"
	"github.com/rsheldon/courierlog/internal/store"
	"github.com/rsheldon/courierlog/internal/timeframe"
)

// ShiftService owns the shift lifecycle: starting, ending, editing and
// deleting shifts, with every derived field recomputed at write time.
type ShiftService struct {
	logger  *zap.Logger
	shifts  store.ShiftStore
	machine *state.Machine
}

// NewShiftService builds the service and recovers the duty state from
// the store, so a restart with an open shift resumes on_shift.
func NewShiftService(ctx context.Context, logger *zap.Logger, shifts store.ShiftStore) (*ShiftService, error) {
	active, err := shifts.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	var openID *int64
	if active != nil {
		openID = &active.ID
	}

	return &ShiftService{
		logger:  logger,
		shifts:  shifts,
		machine: state.NewMachine(openID),
	}, nil
}

// Start opens a new shift at the given odometer reading. The store
// performs the open-shift uniqueness check atomically; a concurrent
// open shift surfaces as domain.ErrActiveShiftExists.
func (s *ShiftService) Start(ctx context.Context, req models.StartShiftRequest) (*models.Shift, error) {
	if req.OdometerStart < 0 {
		return nil, domain.NewValidation("odometer_start", "must be non-negative")
	}

	shift := &models.Shift{
		StartTime:     time.Now().UTC(),
		OdometerStart: req.OdometerStart,
		Earnings:      decimal.Zero,
		Tips:          decimal.Zero,
		GasCost:       decimal.Zero,
		DayTotal:      decimal.Zero,
	}

	if err := s.shifts.CreateOpen(ctx, shift); err != nil {
		if err == domain.ErrActiveShiftExists {
			s.logger.Warn("Attempted to start shift while one is open")
		}
		return nil, err
	}

	if err := s.machine.ShiftStarted(shift.ID); err != nil {
		// Store won the race against a stale machine; resync to it.
		s.machine.Resync(&shift.ID)
	}

	s.logger.Info("Shift started",
		zap.Int64("shift_id", shift.ID),
		zap.Int("odometer_start", shift.OdometerStart))
	return shift, nil
}

// End closes the currently open shift, computing every derived field.
func (s *ShiftService) End(ctx context.Context, id int64, req models.EndShiftRequest) (*models.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shift.Open() {
		return nil, domain.NewValidation("shift", "shift is already ended")
	}

	now := time.Now().UTC()
	shift.EndTime = &now
	shift.OdometerEnd = &req.OdometerEnd
	if req.Earnings != nil {
		shift.Earnings = *req.Earnings
	}
	if req.Tips != nil {
		shift.Tips = *req.Tips
	}
	if req.GasCost != nil {
		shift.GasCost = *req.GasCost
	}
	if req.Notes != nil {
		shift.Notes = metrics.SanitizeNotes(req.Notes)
	}

	if err := metrics.ValidateShift(shift); err != nil {
		return nil, err
	}
	metrics.Derive(shift)

	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}

	if err := s.machine.ShiftEnded(); err != nil {
		s.machine.Resync(nil)
	}

	s.logger.Info("Shift ended",
		zap.Int64("shift_id", shift.ID),
		zap.String("hours_worked", shift.HoursWorked.String()),
		zap.Int("miles_driven", *shift.MilesDriven))
	return shift, nil
}

// Update edits individual fields of an existing shift and recomputes
// all dependents from the merged result, so a caller editing only tips
// still reads back a fresh day total and hourly pay.
func (s *ShiftService) Update(ctx context.Context, id int64, req models.UpdateShiftRequest) (*models.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartTime != nil {
		shift.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		t := req.EndTime.UTC()
		shift.EndTime = &t
	}
	if req.OdometerStart != nil {
		shift.OdometerStart = *req.OdometerStart
	}
	if req.OdometerEnd != nil {
		shift.OdometerEnd = req.OdometerEnd
	}
	if req.Earnings != nil {
		shift.Earnings = *req.Earnings
	}
	if req.Tips != nil {
		shift.Tips = *req.Tips
	}
	if req.GasCost != nil {
		shift.GasCost = *req.GasCost
	}
	if req.Notes != nil {
		shift.Notes = metrics.SanitizeNotes(req.Notes)
	}

	if err := metrics.ValidateShift(shift); err != nil {
		return nil, err
	}
	metrics.Derive(shift)

	if err := s.shifts.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.Info("Shift updated", zap.Int64("shift_id", shift.ID))
	return shift, nil
}

// Delete removes a shift. No cascade beyond the maintenance evaluator
// reading a fresh odometer on its next call.
func (s *ShiftService) Delete(ctx context.Context, id int64) error {
	if err := s.shifts.Delete(ctx, id); err != nil {
		return err
	}

	if open := s.machine.OpenShiftID(); open != nil && *open == id {
		s.machine.Resync(nil)
	}

	s.logger.Info("Shift deleted", zap.Int64("shift_id", id))
	return nil
}

// List returns shifts newest-first, filtered to rng when non-nil.
func (s *ShiftService) List(ctx context.Context, rng *timeframe.Range) ([]models.Shift, error) {
	return s.shifts.List(ctx, rng)
}

// Active returns the open shift, or nil when off duty.
func (s *ShiftService) Active(ctx context.Context) (*models.Shift, error) {
	return s.shifts.GetActive(ctx)
}

// Stats aggregates the filtered shift set into summary statistics.
func (s *ShiftService) Stats(ctx context.Context, rng *timeframe.Range) (models.ShiftStats, error) {
	shifts, err := s.shifts.List(ctx, rng)
	if err != nil {
		return models.ShiftStats{}, err
	}
	return metrics.Aggregate(shifts), nil
}

// Status reports the duty state. The store is consulted so the machine
// never reports a shift another writer already closed.
func (s *ShiftService) Status(ctx context.Context) (models.DutyStatus, error) {
	active, err := s.shifts.GetActive(ctx)
	if err != nil {
		return models.DutyStatus{}, err
	}

	var openID *int64
	if active != nil {
		openID = &active.ID
	}
	s.machine.Resync(openID)

	status := models.DutyStatus{
		State:       s.machine.Current(),
		Since:       s.machine.Since(),
		OpenShiftID: openID,
	}
	if active != nil {
		t := active.StartTime
		status.OpenShiftStart = &t
	}
	return status, nil
}
