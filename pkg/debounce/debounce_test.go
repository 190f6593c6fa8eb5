package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestScheduleSingleFlight(t *testing.T) {
	s := New(zaptest.NewLogger(t), 30*time.Millisecond)
	defer s.Close()

	var calls atomic.Int32
	var last atomic.Int32
	for i := int32(1); i <= 3; i++ {
		value := i
		s.Schedule("save", func() {
			calls.Add(1)
			last.Store(value)
		})
	}

	assert.True(t, s.Pending("save"))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(3), last.Load())
	assert.False(t, s.Pending("save"))
}

func TestScheduleIndependentKeys(t *testing.T) {
	s := New(zaptest.NewLogger(t), 20*time.Millisecond)
	defer s.Close()

	var calls atomic.Int32
	s.Schedule("a", func() { calls.Add(1) })
	s.Schedule("b", func() { calls.Add(1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCancel(t *testing.T) {
	s := New(zaptest.NewLogger(t), 20*time.Millisecond)
	defer s.Close()

	var calls atomic.Int32
	s.Schedule("save", func() { calls.Add(1) })
	s.Cancel("save")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, s.Pending("save"))
}

func TestCancelAfterBoundaryReschedule(t *testing.T) {
	s := New(zaptest.NewLogger(t), 5*time.Millisecond)
	defer s.Close()

	// re-arm right around the moment the first timer fires, then cancel.
	// a callback from the first timer must never unregister the second
	// one, so the cancelled action may not run
	var cancelled atomic.Int32
	for i := 0; i < 50; i++ {
		s.Schedule("save", func() {})
		time.Sleep(5 * time.Millisecond)
		s.Schedule("save", func() { cancelled.Add(1) })
		s.Cancel("save")
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), cancelled.Load())
}

func TestClose(t *testing.T) {
	s := New(zaptest.NewLogger(t), 20*time.Millisecond)

	var calls atomic.Int32
	s.Schedule("a", func() { calls.Add(1) })
	s.Schedule("b", func() { calls.Add(1) })
	s.Close()

	// scheduling after teardown must not arm anything
	s.Schedule("c", func() { calls.Add(1) })

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
