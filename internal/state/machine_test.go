package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineLifecycle(t *testing.T) {
	m := NewMachine(nil)
	assert.Equal(t, StateOffDuty, m.Current())
	assert.Nil(t, m.OpenShiftID())

	require.NoError(t, m.ShiftStarted(7))
	assert.Equal(t, StateOnShift, m.Current())
	require.NotNil(t, m.OpenShiftID())
	assert.Equal(t, int64(7), *m.OpenShiftID())

	require.NoError(t, m.ShiftEnded())
	assert.Equal(t, StateOffDuty, m.Current())
	assert.Nil(t, m.OpenShiftID())
}

func TestMachineRejectsInvalidTransitions(t *testing.T) {
	m := NewMachine(nil)
	assert.Error(t, m.ShiftEnded())

	require.NoError(t, m.ShiftStarted(1))
	assert.Error(t, m.ShiftStarted(2))
}

func TestMachineRecoversOpenShift(t *testing.T) {
	id := int64(42)
	m := NewMachine(&id)

	assert.Equal(t, StateOnShift, m.Current())
	require.NotNil(t, m.OpenShiftID())
	assert.Equal(t, id, *m.OpenShiftID())
}

func TestMachineResync(t *testing.T) {
	id := int64(3)
	m := NewMachine(&id)

	// Open shift deleted out from under the machine.
	m.Resync(nil)
	assert.Equal(t, StateOffDuty, m.Current())
	assert.Nil(t, m.OpenShiftID())

	other := int64(9)
	m.Resync(&other)
	assert.Equal(t, StateOnShift, m.Current())
	assert.Equal(t, other, *m.OpenShiftID())
}
