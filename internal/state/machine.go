package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// Duty states
const (
	StateOffDuty = "off_duty"
	StateOnShift = "on_shift"
)

// Events
const (
	EventStartShift = "start_shift"
	EventEndShift   = "end_shift"
)

// Machine mirrors the courier's duty state for status reporting. The
// store's open-shift uniqueness check stays authoritative; the machine
// is rebuilt from the store on startup and resynced after every
// successful transition.
type Machine struct {
	mu          sync.RWMutex
	fsm         *fsm.FSM
	since       time.Time
	openShiftID *int64
}

// NewMachine creates a duty machine. openShiftID carries the id of an
// already-open shift recovered from the store, if any.
func NewMachine(openShiftID *int64) *Machine {
	initial := StateOffDuty
	if openShiftID != nil {
		initial = StateOnShift
	}

	m := &Machine{
		since:       time.Now().UTC(),
		openShiftID: openShiftID,
	}

	m.fsm = fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: EventStartShift, Src: []string{StateOffDuty}, Dst: StateOnShift},
			{Name: EventEndShift, Src: []string{StateOnShift}, Dst: StateOffDuty},
		},
		fsm.Callbacks{},
	)

	return m
}

// Current returns the current duty state.
func (m *Machine) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// OpenShiftID returns the tracked open shift id, if any.
func (m *Machine) OpenShiftID() *int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.openShiftID
}

// Since returns when the current state was entered.
func (m *Machine) Since() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.since
}

// ShiftStarted transitions to on_shift for the given shift id.
func (m *Machine) ShiftStarted(shiftID int64) error {
	return m.trigger(EventStartShift, &shiftID)
}

// ShiftEnded transitions back to off_duty.
func (m *Machine) ShiftEnded() error {
	return m.trigger(EventEndShift, nil)
}

// Resync forces the machine to match the store's view after an
// out-of-band change (e.g. the open shift was deleted).
func (m *Machine) Resync(openShiftID *int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := StateOffDuty
	if openShiftID != nil {
		want = StateOnShift
	}
	if m.fsm.Current() != want {
		m.fsm.SetState(want)
		m.since = time.Now().UTC()
	}
	m.openShiftID = openShiftID
}

func (m *Machine) trigger(event string, shiftID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}

	m.openShiftID = shiftID
	m.since = time.Now().UTC()
	return nil
}
