// Package clock provides the periodic driver behind a timer session
// and the one-shot pre-start countdown sequence. Both follow the same
// cancellation discipline: Stop closes the stop channel so the backing
// goroutine exits on its next select.
package clock

import (
	"sync"
	"time"
)

// Clock invokes onTick once per interval from its own goroutine. At
// most one tick is in flight at a time.
type Clock struct {
	mu       sync.Mutex
	interval time.Duration
	running  bool
	stopChan chan struct{}
	onTick   func()
}

func New(interval time.Duration, onTick func()) *Clock {
	return &Clock{
		interval: interval,
		onTick:   onTick,
		stopChan: make(chan struct{}),
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	c.running = true
	c.stopChan = make(chan struct{})
	stop := c.stopChan

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.mu.Lock()
				if !c.running {
					c.mu.Unlock()
					return
				}
				c.mu.Unlock()
				c.onTick()
			}
		}
	}()
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.running = false
	close(c.stopChan)
	c.stopChan = make(chan struct{})
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Countdown runs a short pre-start sequence: onTick(n) for n, n-1, ...
// 1 spaced one interval apart, then onDone one interval after the last
// tick. Stop cancels whatever has not fired yet.
type Countdown struct {
	mu       sync.Mutex
	stopped  bool
	stopChan chan struct{}
}

func StartCountdown(from int, interval time.Duration, onTick func(remaining int), onDone func()) *Countdown {
	cd := &Countdown{stopChan: make(chan struct{})}

	go func() {
		for n := from; n >= 1; n-- {
			onTick(n)
			select {
			case <-cd.stopChan:
				return
			case <-time.After(interval):
			}
		}
		select {
		case <-cd.stopChan:
		default:
			onDone()
		}
	}()

	return cd
}

func (cd *Countdown) Stop() {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	if cd.stopped {
		return
	}
	cd.stopped = true
	close(cd.stopChan)
}
