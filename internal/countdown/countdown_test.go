package countdown_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/countdown"
)

// manualTicker fires only when the test sends on ch.
type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

func newManual() (*manualTicker, countdown.TickerFactory) {
	m := &manualTicker{ch: make(chan time.Time)}
	return m, func(time.Duration) countdown.Ticker { return m }
}

func TestScheduler_CallsOnDoneOnceWhenStepFinishes(t *testing.T) {
	ticker, factory := newManual()
	s := countdown.NewScheduler(time.Second, factory)

	remaining := int32(3)
	done := make(chan struct{})
	var doneCalls int32
	s.Start("a1",
		func() bool { return atomic.AddInt32(&remaining, -1) == 0 },
		func() { atomic.AddInt32(&doneCalls, 1); close(done) },
	)

	for i := 0; i < 3; i++ {
		ticker.ch <- time.Now()
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("onDone was not called")
	}
	s.StopAll()

	assert.Equal(t, int32(1), atomic.LoadInt32(&doneCalls))
	assert.False(t, s.Active("a1"))
	assert.True(t, ticker.stopped.Load())
}

func TestScheduler_StopDoesNotCallOnDone(t *testing.T) {
	ticker, factory := newManual()
	s := countdown.NewScheduler(time.Second, factory)

	var steps, doneCalls int32
	stepped := make(chan struct{}, 1)
	s.Start("a1",
		func() bool { atomic.AddInt32(&steps, 1); stepped <- struct{}{}; return false },
		func() { atomic.AddInt32(&doneCalls, 1) },
	)
	ticker.ch <- time.Now()
	<-stepped

	require.True(t, s.Active("a1"))
	assert.True(t, s.Stop("a1"))
	assert.False(t, s.Stop("a1"))
	s.StopAll()

	assert.Equal(t, int32(1), atomic.LoadInt32(&steps))
	assert.Zero(t, atomic.LoadInt32(&doneCalls))
}

func TestScheduler_RealTicker(t *testing.T) {
	s := countdown.NewScheduler(5*time.Millisecond, nil)
	done := make(chan struct{})
	n := int32(0)

	s.Start("a1", func() bool { return atomic.AddInt32(&n, 1) == 4 }, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not finish")
	}
	s.StopAll()
}
