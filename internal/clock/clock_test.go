package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))

	var order []string
	clk.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	clk.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	clk.AfterFunc(3*time.Second, func() { order = append(order, "c") })

	clk.Advance(5 * time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, clk.Pending())
}

func TestFake_AdvanceStopsAtTarget(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))

	fired := false
	clk.AfterFunc(10*time.Second, func() { fired = true })

	clk.Advance(5 * time.Second)

	assert.False(t, fired)
	assert.Equal(t, 1, clk.Pending())
	assert.Equal(t, time.Unix(5, 0), clk.Now())
}

func TestFake_CallbackMayRearm(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			clk.AfterFunc(time.Second, tick)
		}
	}
	clk.AfterFunc(time.Second, tick)

	clk.Advance(10 * time.Second)

	assert.Equal(t, 3, count)
}

func TestFake_Stop(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing pending")

	clk.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.Equal(t, 1, clk.Stopped())
}

func TestSlot_ArmCancelsPrevious(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	slot := NewSlot(clk)

	var fired []string
	slot.Arm(time.Second, func() { fired = append(fired, "first") })
	slot.Arm(time.Second, func() { fired = append(fired, "second") })

	clk.Advance(2 * time.Second)

	assert.Equal(t, []string{"second"}, fired)
	assert.Equal(t, 1, clk.Stopped())
}

func TestSlot_NeverHoldsTwoTimers(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	slot := NewSlot(clk)

	for i := 0; i < 50; i++ {
		slot.Arm(time.Minute, func() {})
	}

	// Every arm beyond the first must have cancelled its predecessor.
	assert.Equal(t, 1, clk.Pending())
	assert.Equal(t, 50, clk.Created())
	assert.Equal(t, 49, clk.Stopped())
}

func TestSlot_Cancel(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	slot := NewSlot(clk)

	slot.Arm(time.Second, func() {})
	slot.Cancel()

	_, armed := slot.Period()
	assert.False(t, armed)
	assert.Equal(t, 0, clk.Pending())

	// Cancel on an empty slot is a no-op.
	slot.Cancel()
}

func TestSlot_CloseDropsLaterArms(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	slot := NewSlot(clk)

	slot.Arm(time.Second, func() {})
	slot.Close()

	_, armed := slot.Period()
	assert.False(t, armed)
	assert.Equal(t, 0, clk.Pending())

	// A closed slot stays empty no matter who arms it afterwards.
	slot.Arm(time.Second, func() {})
	_, armed = slot.Period()
	assert.False(t, armed)
	assert.Equal(t, 0, clk.Pending())
}

func TestSlot_PeriodReflectsLastArm(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	slot := NewSlot(clk)

	slot.Arm(30*time.Second, func() {})
	period, armed := slot.Period()
	require.True(t, armed)
	assert.Equal(t, 30*time.Second, period)

	slot.Arm(5*time.Minute, func() {})
	period, armed = slot.Period()
	require.True(t, armed)
	assert.Equal(t, 5*time.Minute, period)
}
