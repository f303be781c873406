// Package countdown runs one cooperative once-per-interval callback per key,
// used to drive attempt timers.
package countdown

import (
	"context"
	"sync"
	"time"
)

// Ticker is the subset of *time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func RealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Scheduler owns one goroutine per active countdown.
type Scheduler struct {
	interval  time.Duration
	newTicker TickerFactory

	mu    sync.Mutex
	tasks map[string]*task
	wg    sync.WaitGroup
}

type task struct {
	cancel context.CancelFunc
}

func NewScheduler(interval time.Duration, newTicker TickerFactory) *Scheduler {
	if newTicker == nil {
		newTicker = RealTicker
	}
	return &Scheduler{
		interval:  interval,
		newTicker: newTicker,
		tasks:     make(map[string]*task),
	}
}

// Start calls step on every tick until it reports done, then calls onDone
// once. Starting a key that is already running replaces the old countdown.
func (s *Scheduler) Start(key string, step func() (done bool), onDone func()) {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel}

	s.mu.Lock()
	if old, ok := s.tasks[key]; ok {
		old.cancel()
	}
	s.tasks[key] = t
	s.mu.Unlock()

	ticker := s.newTicker(s.interval)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if ctx.Err() != nil {
					return
				}
				if !step() {
					continue
				}
				s.remove(key, t)
				onDone()
				return
			}
		}
	}()
}

// Stop cancels the countdown for key without calling onDone. It reports
// whether a countdown was running.
func (s *Scheduler) Stop(key string) bool {
	s.mu.Lock()
	t, ok := s.tasks[key]
	if ok {
		delete(s.tasks, key)
	}
	s.mu.Unlock()

	if ok {
		t.cancel()
	}
	return ok
}

// Active reports whether key has a running countdown.
func (s *Scheduler) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// StopAll cancels every countdown and waits for their goroutines to exit.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	for key, t := range s.tasks {
		t.cancel()
		delete(s.tasks, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) remove(key string, t *task) {
	s.mu.Lock()
	if s.tasks[key] == t {
		delete(s.tasks, key)
	}
	s.mu.Unlock()
}
