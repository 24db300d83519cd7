package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) schedule(d time.Duration, fn func()) Timer {
	t := &fakeTimer{fn: fn, delay: d}
	c.timers = append(c.timers, t)
	return t
}

func TestShowSchedulesClear(t *testing.T) {
	clock := &fakeClock{}
	n := New(WithScheduler(clock.schedule))

	note := n.Show(Success, "RB19 added to cart")
	assert.True(t, n.Current().Visible)
	assert.Equal(t, Success, n.Current().Kind)
	assert.Equal(t, note.ID, n.Current().ID)

	require.Len(t, clock.timers, 1)
	assert.Equal(t, DefaultDelay, clock.timers[0].delay)

	clock.timers[0].fn()
	assert.False(t, n.Current().Visible)
	assert.Equal(t, "RB19 added to cart", n.Current().Message)
}

func TestNewerNotificationCancelsPendingClear(t *testing.T) {
	clock := &fakeClock{}
	n := New(WithScheduler(clock.schedule))

	n.Show(Success, "first")
	n.Show(Warning, "second")

	require.Len(t, clock.timers, 2)
	assert.True(t, clock.timers[0].stopped)
	assert.False(t, clock.timers[1].stopped)

	// A stale callback that fired anyway must not hide the newer notification.
	clock.timers[0].fn()
	assert.True(t, n.Current().Visible)
	assert.Equal(t, "second", n.Current().Message)

	clock.timers[1].fn()
	assert.False(t, n.Current().Visible)
}

func TestDismiss(t *testing.T) {
	clock := &fakeClock{}
	n := New(WithScheduler(clock.schedule), WithDelay(time.Second))

	n.Show(Info, "Cart emptied")
	n.Dismiss()
	assert.False(t, n.Current().Visible)
	assert.True(t, clock.timers[0].stopped)
	assert.Equal(t, time.Second, clock.timers[0].delay)
}

func TestRealTimerExpires(t *testing.T) {
	n := New(WithDelay(10 * time.Millisecond))
	n.Show(Error, "boom")

	assert.Eventually(t, func() bool { return !n.Current().Visible }, time.Second, 5*time.Millisecond)
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	clock := &fakeClock{}
	n := New(WithScheduler(clock.schedule))

	var seen []bool
	n.Value().Subscribe(func(note Notification) { seen = append(seen, note.Visible) })
	n.Show(Success, "a")
	clock.timers[0].fn()

	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestSubscriberMayDismiss(t *testing.T) {
	clock := &fakeClock{}
	n := New(WithScheduler(clock.schedule))
	n.Value().Subscribe(func(note Notification) {
		if note.Visible && note.Kind == Error {
			n.Dismiss()
		}
	})

	done := make(chan struct{})
	go func() {
		n.Show(Error, "boom")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Show blocked when a subscriber dismissed the notification")
	}
	assert.False(t, n.Current().Visible)
	assert.True(t, clock.timers[0].stopped)
}
