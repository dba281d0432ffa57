package battle

import (
	"sync"
	"time"
)

// IdleTimer calls onIdle after the player has been inactive for a fixed
// duration. Touch restarts the countdown. It is safe for concurrent use.
//
// Every arming of the countdown gets a new generation. onIdle receives the
// generation that fired; a callback that runs late can ask Idle whether the
// player has acted since.
type IdleTimer struct {
	mu      sync.Mutex
	after   time.Duration
	onIdle  func(gen uint64)
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewIdleTimer creates and starts a timer that calls onIdle after duration.
// onIdle runs in its own goroutine and re-arms the timer when it returns,
// so an idle player is struck repeatedly until Stop.
//
// Precondition: after > 0; onIdle must not be nil.
func NewIdleTimer(after time.Duration, onIdle func(gen uint64)) *IdleTimer {
	it := &IdleTimer{after: after, onIdle: onIdle}
	it.mu.Lock()
	it.armLocked()
	it.mu.Unlock()
	return it
}

func (it *IdleTimer) fire(gen uint64) {
	if !it.Idle(gen) {
		return
	}
	it.onIdle(gen)

	it.mu.Lock()
	defer it.mu.Unlock()
	if !it.stopped && it.gen == gen {
		it.armLocked()
	}
}

// Precondition: it.mu must be held.
func (it *IdleTimer) armLocked() {
	if it.timer != nil {
		it.timer.Stop()
	}
	it.gen++
	gen := it.gen
	it.timer = time.AfterFunc(it.after, func() { it.fire(gen) })
}

// Touch restarts the countdown unless the timer has been stopped.
//
// Postcondition: Idle reports false for every earlier generation.
func (it *IdleTimer) Touch() {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.stopped {
		return
	}
	it.armLocked()
}

// Idle reports whether gen is still the current generation, that is, the
// timer has been neither touched nor stopped since gen was armed.
func (it *IdleTimer) Idle(gen uint64) bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return !it.stopped && it.gen == gen
}

// Generation returns the generation of the running countdown.
func (it *IdleTimer) Generation() uint64 {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.gen
}

// Stop prevents further callbacks. Safe to call multiple times.
//
// Postcondition: onIdle will not be called after Stop returns, except for a
// call already in progress, for which Idle now reports false.
func (it *IdleTimer) Stop() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.stopped = true
	it.timer.Stop()
}
