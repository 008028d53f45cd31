// Package cue maps timer transition events to audible tones and
// haptic pulses. The dispatcher is fire-and-forget: a failing audio
// device is logged and swallowed, never surfaced to the clock.
package cue

import (
	"io"
	"log"
	"sync"

	"wodtimer/internal/engine"
)

// Tone is a request to play a single beep.
type Tone struct {
	FrequencyHz int
	DurationMS  int
}

// Haptic classifies the strength of a vibration pulse.
type Haptic int

const (
	HapticNone Haptic = iota
	HapticLight
	HapticMedium
	HapticHeavy
	HapticSuccess
	HapticError
	HapticWarning
)

// Output plays tones and pulses on the host device. Implementations
// may fail; the dispatcher handles that.
type Output interface {
	PlayTone(Tone) error
	Pulse(Haptic) error
}

// Dispatcher turns engine events into side effects on an Output. The
// sound flag gates tones only; haptics fire regardless.
type Dispatcher struct {
	mu      sync.Mutex
	out     Output
	enabled bool
}

func NewDispatcher(out Output, soundEnabled bool) *Dispatcher {
	return &Dispatcher{out: out, enabled: soundEnabled}
}

func (d *Dispatcher) SetSoundEnabled(on bool) {
	d.mu.Lock()
	d.enabled = on
	d.mu.Unlock()
}

func (d *Dispatcher) SoundEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Fire plays the cue for one event. Never blocks the caller on device
// errors and never panics.
func (d *Dispatcher) Fire(ev engine.Event) {
	tones, haptic := cuesFor(ev)

	d.mu.Lock()
	enabled := d.enabled
	out := d.out
	d.mu.Unlock()

	if out == nil {
		return
	}
	if enabled {
		for _, t := range tones {
			if err := out.PlayTone(t); err != nil {
				log.Printf("cue: tone %dHz failed: %v", t.FrequencyHz, err)
				break
			}
		}
	}
	if haptic != HapticNone {
		if err := out.Pulse(haptic); err != nil {
			log.Printf("cue: haptic failed: %v", err)
		}
	}
}

// cuesFor is the event-to-cue table. Tones listed in play order, so
// multi-tone entries read ascending or descending.
func cuesFor(ev engine.Event) ([]Tone, Haptic) {
	switch ev {
	case engine.EventCountdownTick:
		return []Tone{{440, 150}}, HapticLight
	case engine.EventGo:
		return []Tone{{880, 150}, {880, 300}}, HapticSuccess
	case engine.EventRoundComplete, engine.EventIntervalStart:
		return []Tone{{660, 200}}, HapticMedium
	case engine.EventRestStart:
		return []Tone{{660, 150}, {440, 250}}, HapticMedium
	case engine.EventWorkStart:
		return []Tone{{440, 150}, {880, 250}}, HapticMedium
	case engine.EventFinalCountdown:
		return []Tone{{523, 100}}, HapticNone
	case engine.EventFinished:
		return []Tone{{523, 150}, {659, 150}, {784, 400}}, HapticSuccess
	}
	return nil, HapticNone
}

// Bell is the terminal Output: every tone rings the terminal bell and
// haptics are dropped, since a terminal has nothing to vibrate.
type Bell struct {
	W io.Writer
}

func (b Bell) PlayTone(Tone) error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

func (b Bell) Pulse(Haptic) error {
	return nil
}
