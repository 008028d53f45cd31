package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	c := New(2*time.Millisecond, func() { ticks.Add(1) })

	c.Start()
	require.True(t, c.Running())
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	c.Stop()
	assert.False(t, c.Running())

	// A stopped clock must not keep ticking.
	time.Sleep(10 * time.Millisecond)
	n := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, ticks.Load())
}

func TestClockStartIsIdempotent(t *testing.T) {
	var ticks atomic.Int32
	c := New(50*time.Millisecond, func() { ticks.Add(1) })
	defer c.Stop()

	c.Start()
	c.Start()
	assert.True(t, c.Running())
}

func TestClockStopWithoutStart(t *testing.T) {
	c := New(time.Millisecond, func() {})
	assert.NotPanics(t, c.Stop)
}

func TestCountdownSequence(t *testing.T) {
	done := make(chan struct{})

	var seen []int
	tickCh := make(chan int, 8)
	cd := StartCountdown(3, 2*time.Millisecond,
		func(n int) { tickCh <- n },
		func() { close(done) },
	)
	defer cd.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown never finished")
	}
	close(tickCh)
	for n := range tickCh {
		seen = append(seen, n)
	}
	assert.Equal(t, []int{3, 2, 1}, seen)
}

func TestCountdownStopCancelsRemainder(t *testing.T) {
	var ticks atomic.Int32
	doneFired := atomic.Bool{}

	cd := StartCountdown(3, 50*time.Millisecond,
		func(int) { ticks.Add(1) },
		func() { doneFired.Store(true) },
	)

	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	cd.Stop()
	cd.Stop() // idempotent

	time.Sleep(200 * time.Millisecond)
	assert.False(t, doneFired.Load(), "onDone fired after Stop")
	assert.LessOrEqual(t, ticks.Load(), int32(2))
}
