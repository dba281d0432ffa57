package battle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/ruleset"
)

func TestRegistry_StartGetEnd(t *testing.T) {
	f := newFixture(t, ruleset.Warrior)
	reg := battle.NewRegistry()
	s := f.session(rolls(hit))

	require.NoError(t, reg.Start(1, s))
	got, ok := reg.Get(1)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.Error(t, reg.Start(1, f.session(rolls(hit))))

	reg.End(1)
	_, ok = reg.Get(1)
	assert.False(t, ok)
	assert.Zero(t, reg.Len())
}

func TestRegistry_FinishedSessionIsReplaced(t *testing.T) {
	f := newFixture(t, ruleset.Warrior)
	reg := battle.NewRegistry()
	s := f.session(rolls(hit))
	require.NoError(t, reg.Start(1, s))
	_, err := s.Flee()
	require.NoError(t, err)

	next := f.session(rolls(hit))
	require.NoError(t, reg.Start(1, next))
	got, _ := reg.Get(1)
	assert.Same(t, next, got)
}

func TestIdleTimer_FiresRepeatedlyUntilStopped(t *testing.T) {
	var fired atomic.Int32
	it := battle.NewIdleTimer(5*time.Millisecond, func(uint64) { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() >= 2 }, time.Second, time.Millisecond)
	it.Stop()
	n := fired.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, fired.Load(), n+1)
}

func TestIdleTimer_TouchPostpones(t *testing.T) {
	var fired atomic.Int32
	it := battle.NewIdleTimer(200*time.Millisecond, func(uint64) { fired.Add(1) })
	defer it.Stop()
	for range 5 {
		time.Sleep(20 * time.Millisecond)
		it.Touch()
	}
	assert.Zero(t, fired.Load())
}

func TestIdleTimer_TouchSupersedesFiredGeneration(t *testing.T) {
	type tick struct {
		idleBefore, idleAfter bool
	}
	ticks := make(chan tick, 1)
	var it *battle.IdleTimer
	ready := make(chan struct{})
	it = battle.NewIdleTimer(5*time.Millisecond, func(gen uint64) {
		<-ready
		before := it.Idle(gen)
		// The player acts while the callback is still on its way.
		it.Touch()
		select {
		case ticks <- tick{idleBefore: before, idleAfter: it.Idle(gen)}:
		default:
		}
	})
	defer it.Stop()
	close(ready)

	select {
	case got := <-ticks:
		assert.True(t, got.idleBefore)
		assert.False(t, got.idleAfter)
	case <-time.After(time.Second):
		t.Fatal("idle timer never fired")
	}
}

func TestIdleTimer_StopInvalidatesGeneration(t *testing.T) {
	it := battle.NewIdleTimer(time.Hour, func(uint64) {})
	gen := it.Generation()
	assert.True(t, it.Idle(gen))

	it.Touch()
	assert.False(t, it.Idle(gen))
	assert.True(t, it.Idle(gen+1))

	it.Stop()
	assert.False(t, it.Idle(it.Generation()))
}
