package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/models"
)

const maintenanceColumns = `id, name, mileage_interval, last_service_mileage, enabled, notes`

// MaintenanceRepository persists maintenance reminders in Postgres.
type MaintenanceRepository struct {
	db *DB
}

func NewMaintenanceRepository(db *DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

// Create inserts a new maintenance item.
func (r *MaintenanceRepository) Create(ctx context.Context, item *models.MaintenanceItem) error {
	query := `
		INSERT INTO maintenance_items (name, mileage_interval, last_service_mileage, enabled, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		item.Name,
		item.MileageInterval,
		item.LastServiceMileage,
		item.Enabled,
		item.Notes,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert maintenance item: %w", err)
	}
	return nil
}

// GetByID fetches one maintenance item.
func (r *MaintenanceRepository) GetByID(ctx context.Context, id int64) (*models.MaintenanceItem, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_items WHERE id = $1`

	item := &models.MaintenanceItem{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.MileageInterval,
		&item.LastServiceMileage,
		&item.Enabled,
		&item.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMaintenanceNotFound
		}
		return nil, fmt.Errorf("get maintenance item: %w", err)
	}
	return item, nil
}

// Update rewrites the item's stored fields.
func (r *MaintenanceRepository) Update(ctx context.Context, item *models.MaintenanceItem) error {
	query := `
		UPDATE maintenance_items SET
			name = $1,
			mileage_interval = $2,
			last_service_mileage = $3,
			enabled = $4,
			notes = $5
		WHERE id = $6
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		item.Name,
		item.MileageInterval,
		item.LastServiceMileage,
		item.Enabled,
		item.Notes,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update maintenance item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaintenanceNotFound
	}
	return nil
}

// Delete removes a maintenance item.
func (r *MaintenanceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM maintenance_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete maintenance item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMaintenanceNotFound
	}
	return nil
}

// List returns all maintenance items, oldest first.
func (r *MaintenanceRepository) List(ctx context.Context) ([]models.MaintenanceItem, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_items ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list maintenance items: %w", err)
	}
	defer rows.Close()

	var items []models.MaintenanceItem
	for rows.Next() {
		var item models.MaintenanceItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.MileageInterval,
			&item.LastServiceMileage,
			&item.Enabled,
			&item.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list maintenance items: %w", err)
	}

	return items, nil
}
