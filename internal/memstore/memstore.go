package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/rsheldon/courierlog/internal/domain"
	"github.com/rsheldon/courierlog/internal/models"
	"github.com/rsheldon/courierlog/internal/timeframe"
)

// Store is an in-memory implementation of the store interfaces, used
// for demo sessions and tests. A single mutex covers the open-shift
// check-and-insert, so the uniqueness invariant holds under concurrent
// starts just as the Postgres partial index does.
type Store struct {
	mu          sync.RWMutex
	shifts      map[int64]*models.Shift
	maintenance map[int64]*models.MaintenanceItem
	nextShiftID int64
	nextItemID  int64
}

func New() *Store {
	return &Store{
		shifts:      make(map[int64]*models.Shift),
		maintenance: make(map[int64]*models.MaintenanceItem),
		nextShiftID: 1,
		nextItemID:  1,
	}
}

// CreateOpen inserts a new open shift, failing when one is already open.
func (s *Store) CreateOpen(_ context.Context, shift *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.shifts {
		if existing.EndTime == nil {
			return domain.ErrActiveShiftExists
		}
	}

	shift.ID = s.nextShiftID
	s.nextShiftID++
	s.shifts[shift.ID] = copyShift(shift)
	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shift, ok := s.shifts[id]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	return copyShift(shift), nil
}

func (s *Store) Update(_ context.Context, shift *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shifts[shift.ID]; !ok {
		return domain.ErrShiftNotFound
	}
	s.shifts[shift.ID] = copyShift(shift)
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shifts[id]; !ok {
		return domain.ErrShiftNotFound
	}
	delete(s.shifts, id)
	return nil
}

func (s *Store) List(_ context.Context, rng *timeframe.Range) ([]models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var shifts []models.Shift
	for _, shift := range s.shifts {
		if rng != nil && !rng.Contains(shift.StartTime) {
			continue
		}
		shifts = append(shifts, *copyShift(shift))
	}

	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].StartTime.After(shifts[j].StartTime)
	})
	return shifts, nil
}

func (s *Store) GetActive(_ context.Context) (*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, shift := range s.shifts {
		if shift.EndTime == nil {
			return copyShift(shift), nil
		}
	}
	return nil, nil
}

func (s *Store) CurrentOdometer(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newestClosed, newest *models.Shift
	for _, shift := range s.shifts {
		if newest == nil || shift.StartTime.After(newest.StartTime) {
			newest = shift
		}
		if shift.OdometerEnd == nil {
			continue
		}
		if newestClosed == nil || shift.StartTime.After(newestClosed.StartTime) {
			newestClosed = shift
		}
	}

	if newestClosed != nil {
		return *newestClosed.OdometerEnd, nil
	}
	if newest != nil {
		return newest.OdometerStart, nil
	}
	return 0, nil
}

// Maintenance returns the maintenance-store view of this store. The
// two store interfaces both declare GetByID/Update/Delete, so the
// maintenance side lives on a separate view type sharing the same
// mutex and maps.
func (s *Store) Maintenance() *MaintenanceView {
	return &MaintenanceView{s: s}
}

// MaintenanceView adapts Store to the MaintenanceStore interface.
type MaintenanceView struct {
	s *Store
}

func (v *MaintenanceView) Create(_ context.Context, item *models.MaintenanceItem) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	item.ID = v.s.nextItemID
	v.s.nextItemID++
	v.s.maintenance[item.ID] = copyItem(item)
	return nil
}

func (v *MaintenanceView) GetByID(_ context.Context, id int64) (*models.MaintenanceItem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	item, ok := v.s.maintenance[id]
	if !ok {
		return nil, domain.ErrMaintenanceNotFound
	}
	return copyItem(item), nil
}

func (v *MaintenanceView) Update(_ context.Context, item *models.MaintenanceItem) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.maintenance[item.ID]; !ok {
		return domain.ErrMaintenanceNotFound
	}
	v.s.maintenance[item.ID] = copyItem(item)
	return nil
}

func (v *MaintenanceView) Delete(_ context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.maintenance[id]; !ok {
		return domain.ErrMaintenanceNotFound
	}
	delete(v.s.maintenance, id)
	return nil
}

func (v *MaintenanceView) List(_ context.Context) ([]models.MaintenanceItem, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	var items []models.MaintenanceItem
	for _, item := range v.s.maintenance {
		items = append(items, *copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func copyShift(s *models.Shift) *models.Shift {
	out := *s
	out.EndTime = copyPtr(s.EndTime)
	out.HoursWorked = copyPtr(s.HoursWorked)
	out.OdometerEnd = copyPtr(s.OdometerEnd)
	out.MilesDriven = copyPtr(s.MilesDriven)
	out.HourlyPay = copyPtr(s.HourlyPay)
	out.Notes = copyPtr(s.Notes)
	return &out
}

func copyItem(m *models.MaintenanceItem) *models.MaintenanceItem {
	out := *m
	out.Notes = copyPtr(m.Notes)
	out.RemainingMileage = copyPtr(m.RemainingMileage)
	return &out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
