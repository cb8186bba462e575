package models

// MaintenanceItem is a recurring mileage-interval service reminder.
// RemainingMileage is derived against the vehicle's current odometer on
// every read and never stored.
type MaintenanceItem struct {
	ID                 int64   `json:"id" db:"id"`
	Name               string  `json:"name" db:"name"`
	MileageInterval    int     `json:"mileage_interval" db:"mileage_interval"`
	LastServiceMileage int     `json:"last_service_mileage" db:"last_service_mileage"`
	Enabled            bool    `json:"enabled" db:"enabled"`
	Notes              *string `json:"notes,omitempty" db:"notes"`
	RemainingMileage   *int    `json:"remaining_mileage,omitempty" db:"-"`
}

// Due reports whether the item needs service at the given odometer
// reading. Disabled items are never due.
func (m *MaintenanceItem) Due(currentOdometer int) bool {
	return m.Enabled && m.LastServiceMileage+m.MileageInterval-currentOdometer <= 0
}

// CreateMaintenanceRequest creates a new reminder.
type CreateMaintenanceRequest struct {
	Name               string  `json:"name"`
	MileageInterval    int     `json:"mileage_interval"`
	LastServiceMileage *int    `json:"last_service_mileage,omitempty"`
	Enabled            *bool   `json:"enabled,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// UpdateMaintenanceRequest edits individual reminder fields.
type UpdateMaintenanceRequest struct {
	Name               *string `json:"name,omitempty"`
	MileageInterval    *int    `json:"mileage_interval,omitempty"`
	LastServiceMileage *int    `json:"last_service_mileage,omitempty"`
	Enabled            *bool   `json:"enabled,omitempty"`
	Notes              *string `json:"notes,omitempty"`
}

// DueMaintenance is the due-items report.
type DueMaintenance struct {
	CurrentOdometer int               `json:"current_odometer"`
	Items           []MaintenanceItem `json:"items"`
}
