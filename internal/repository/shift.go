package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/timeframe"
)

const shiftColumns = `id, start_time, end_time, hours_worked, odometer_start, odometer_end,
	miles_driven, earnings, tips, gas_cost, day_total, hourly_pay, notes`

// ShiftRepository persists shifts in Postgres.
type ShiftRepository struct {
	db *DB
}

func NewShiftRepository(db *DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// CreateOpen inserts a new open shift. The partial unique index on open
// shifts makes this the atomic check-and-insert: a concurrent open
// shift turns the insert into a unique violation.
func (r *ShiftRepository) CreateOpen(ctx context.Context, shift *models.Shift) error {
	query := `
		INSERT INTO shifts (start_time, odometer_start, earnings, tips, gas_cost, day_total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		shift.StartTime,
		shift.OdometerStart,
		shift.Earnings,
		shift.Tips,
		shift.GasCost,
		shift.DayTotal,
	).Scan(&shift.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrActiveShiftExists
		}
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

// GetByID fetches one shift.
func (r *ShiftRepository) GetByID(ctx context.Context, id int64) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	shift := &models.Shift{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&shift.ID,
		&shift.StartTime,
		&shift.EndTime,
		&shift.HoursWorked,
		&shift.OdometerStart,
		&shift.OdometerEnd,
		&shift.MilesDriven,
		&shift.Earnings,
		&shift.Tips,
		&shift.GasCost,
		&shift.DayTotal,
		&shift.HourlyPay,
		&shift.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, fmt.Errorf("get shift by id: %w", err)
	}
	return shift, nil
}

// Update rewrites every stored field of the shift, derived fields
// included, so reads never see stale deriveds.
func (r *ShiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	query := `
		UPDATE shifts SET
			start_time = $1,
			end_time = $2,
			hours_worked = $3,
			odometer_start = $4,
			odometer_end = $5,
			miles_driven = $6,
			earnings = $7,
			tips = $8,
			gas_cost = $9,
			day_total = $10,
			hourly_pay = $11,
			notes = $12
		WHERE id = $13
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		shift.StartTime,
		shift.EndTime,
		shift.HoursWorked,
		shift.OdometerStart,
		shift.OdometerEnd,
		shift.MilesDriven,
		shift.Earnings,
		shift.Tips,
		shift.GasCost,
		shift.DayTotal,
		shift.HourlyPay,
		shift.Notes,
		shift.ID,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShiftNotFound
	}
	return nil
}

// Delete removes a shift.
func (r *ShiftRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShiftNotFound
	}
	return nil
}

// List returns shifts newest-first, optionally restricted to rng.
func (r *ShiftRepository) List(ctx context.Context, rng *timeframe.Range) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts ORDER BY start_time DESC`
	args := []any{}
	if rng != nil {
		query = `SELECT ` + shiftColumns + ` FROM shifts
			WHERE start_time >= $1 AND start_time <= $2 ORDER BY start_time DESC`
		args = []any{rng.Start, rng.End}
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		var shift models.Shift
		err := rows.Scan(
			&shift.ID,
			&shift.StartTime,
			&shift.EndTime,
			&shift.HoursWorked,
			&shift.OdometerStart,
			&shift.OdometerEnd,
			&shift.MilesDriven,
			&shift.Earnings,
			&shift.Tips,
			&shift.GasCost,
			&shift.DayTotal,
			&shift.HourlyPay,
			&shift.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}

	return shifts, nil
}

// GetActive returns the open shift, or nil when none exists.
func (r *ShiftRepository) GetActive(ctx context.Context) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts
		WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1`

	shift := &models.Shift{}
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&shift.ID,
		&shift.StartTime,
		&shift.EndTime,
		&shift.HoursWorked,
		&shift.OdometerStart,
		&shift.OdometerEnd,
		&shift.MilesDriven,
		&shift.Earnings,
		&shift.Tips,
		&shift.GasCost,
		&shift.DayTotal,
		&shift.HourlyPay,
		&shift.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active shift: %w", err)
	}
	return shift, nil
}

// CurrentOdometer reads the vehicle's current mileage fresh from the
// shift history on every call.
func (r *ShiftRepository) CurrentOdometer(ctx context.Context) (int, error) {
	var odometer int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT odometer_end FROM shifts
		WHERE odometer_end IS NOT NULL ORDER BY start_time DESC LIMIT 1
	`).Scan(&odometer)
	if err == nil {
		return odometer, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("current odometer: %w", err)
	}

	// No closed shift yet: fall back to the newest shift's start
	// reading, then zero.
	err = r.db.Pool.QueryRow(ctx, `
		SELECT odometer_start FROM shifts ORDER BY start_time DESC LIMIT 1
	`).Scan(&odometer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("current odometer: %w", err)
	}
	return odometer, nil
}
