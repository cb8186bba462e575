package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens the connection pool and verifies connectivity.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Ping checks database connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate applies the schema. Statements are idempotent so boot can
// re-run them safely.
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateShifts,
		migrationCreateMaintenanceItems,
		migrationSingleActiveShift,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateShifts = `
CREATE TABLE IF NOT EXISTS shifts (
    id BIGSERIAL PRIMARY KEY,
    start_time TIMESTAMP WITH TIME ZONE NOT NULL,
    end_time TIMESTAMP WITH TIME ZONE,
    hours_worked NUMERIC(10,2),
    odometer_start INT NOT NULL,
    odometer_end INT,
    miles_driven INT,
    earnings NUMERIC(10,2) NOT NULL DEFAULT 0,
    tips NUMERIC(10,2) NOT NULL DEFAULT 0,
    gas_cost NUMERIC(10,2) NOT NULL DEFAULT 0,
    day_total NUMERIC(10,2) NOT NULL DEFAULT 0,
    hourly_pay NUMERIC(10,2),
    notes TEXT
);
CREATE INDEX IF NOT EXISTS idx_shifts_start_time ON shifts(start_time);
CREATE INDEX IF NOT EXISTS idx_shifts_end_time ON shifts(end_time);
`

const migrationCreateMaintenanceItems = `
CREATE TABLE IF NOT EXISTS maintenance_items (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    mileage_interval INT NOT NULL,
    last_service_mileage INT NOT NULL DEFAULT 0,
    enabled BOOLEAN NOT NULL DEFAULT TRUE,
    notes TEXT
);
`

// At most one row may have a NULL end_time. Expressed as a partial
// unique index so two concurrent start-shift inserts cannot both
// commit; the loser surfaces SQLSTATE 23505.
const migrationSingleActiveShift = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_single_active
    ON shifts ((end_time IS NULL)) WHERE end_time IS NULL;
`
