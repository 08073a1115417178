package notice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fake timers ---

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// fire runs timer i regardless of whether it was stopped, like a timer that
// had already started running when Stop was called.
func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	t := s.timers[i]
	s.mu.Unlock()
	t.f()
}

func newTestBoard() (*Board, *fakeScheduler) {
	s := &fakeScheduler{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewBoard(WithAfterFunc(s.AfterFunc), WithClock(func() time.Time { return now })), s
}

// --- tests ---

func TestShow_AndExpire(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotCart, LevelInfo, "Fries toegevoegd aan bestelling.", 3*time.Second)

	n, ok := b.Get("s1", SlotCart)
	require.True(t, ok)
	assert.Equal(t, "Fries toegevoegd aan bestelling.", n.Message)
	assert.Equal(t, n.ShownAt.Add(3*time.Second), n.ExpiresAt)
	require.Len(t, s.timers, 1)
	assert.Equal(t, 3*time.Second, s.timers[0].d)

	s.fire(0)

	_, ok = b.Get("s1", SlotCart)
	assert.False(t, ok)
}

func TestShow_ReplacingStopsPreviousTimer(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotCart, LevelInfo, "first", 3*time.Second)
	b.Show("s1", SlotCart, LevelInfo, "second", 3*time.Second)

	require.Len(t, s.timers, 2)
	assert.True(t, s.timers[0].stopped)
	assert.False(t, s.timers[1].stopped)
}

func TestStaleTimerDoesNotRemoveNewerMessage(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotContactError, LevelError, "Vul uw naam in.", 5*time.Second)
	b.Show("s1", SlotContactError, LevelError, "Vul een bericht in.", 5*time.Second)

	s.fire(0)

	n, ok := b.Get("s1", SlotContactError)
	require.True(t, ok)
	assert.Equal(t, "Vul een bericht in.", n.Message)

	s.fire(1)
	_, ok = b.Get("s1", SlotContactError)
	assert.False(t, ok)
}

func TestSlotsAndSessionsAreIndependent(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotCart, LevelInfo, "cart", time.Second)
	b.Show("s1", SlotStorage, LevelWarning, "storage", 0)
	b.Show("s2", SlotCart, LevelInfo, "other session", time.Second)

	s.fire(0)

	active := b.Active("s1")
	require.Len(t, active, 1)
	assert.Equal(t, SlotStorage, active[0].Slot)
	assert.Len(t, b.Active("s2"), 1)
}

func TestShow_WithoutTTLStays(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotStorage, LevelWarning, "kept", 0)

	assert.Empty(t, s.timers)
	n, ok := b.Get("s1", SlotStorage)
	require.True(t, ok)
	assert.True(t, n.ExpiresAt.IsZero())
}

func TestActive_SlotOrder(t *testing.T) {
	b, _ := newTestBoard()

	b.Show("s1", SlotContactSuccess, LevelSuccess, "d", 0)
	b.Show("s1", SlotCart, LevelInfo, "a", 0)
	b.Show("s1", SlotContactError, LevelError, "c", 0)

	active := b.Active("s1")
	require.Len(t, active, 3)
	assert.Equal(t, []Slot{SlotCart, SlotContactError, SlotContactSuccess},
		[]Slot{active[0].Slot, active[1].Slot, active[2].Slot})
}

func TestDismiss(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotCart, LevelInfo, "x", time.Second)
	b.Dismiss("s1", SlotCart)

	assert.True(t, s.timers[0].stopped)
	assert.Empty(t, b.Active("s1"))

	b.Dismiss("s1", SlotCart)
}

func TestShutdown(t *testing.T) {
	b, s := newTestBoard()

	b.Show("s1", SlotCart, LevelInfo, "x", time.Second)
	b.Show("s2", SlotContactSuccess, LevelSuccess, "y", time.Second)

	b.Shutdown()

	for _, tm := range s.timers {
		assert.True(t, tm.stopped)
	}
	assert.Empty(t, b.Active("s1"))
	assert.Zero(t, b.Show("s1", SlotCart, LevelInfo, "after", time.Second))
	assert.Empty(t, b.Active("s1"))
}

func TestBoard_RealTimers(t *testing.T) {
	b := NewBoard()
	t.Cleanup(b.Shutdown)

	b.Show("s1", SlotCart, LevelInfo, "short", 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, ok := b.Get("s1", SlotCart)
		return !ok
	}, time.Second, 5*time.Millisecond)
}
