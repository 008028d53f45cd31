// Package engine holds the pure timing state machine behind the
// interval timer. Advance computes the next second of a session with
// no I/O; the session controller owns the clock and applies the side
// effects the returned events ask for.
package engine

// Config is the immutable input for one timer session.
type Config struct {
	Mode         Mode
	TotalSeconds int
	WorkSeconds  int // Tabata/Custom: one work window
	RestSeconds  int // Tabata/Custom: one rest window
	Rounds       int // nominal; actual rounds are derived from elapsed time
	Intervals    int // nominal EMOM interval count
	CountUp      bool
}

// Normalized returns a copy with every numeric field clamped to its
// minimum of 1. Out-of-range values come from a live editing surface,
// so they are corrected rather than rejected.
func (c Config) Normalized() Config {
	if c.TotalSeconds < 1 {
		c.TotalSeconds = 1
	}
	if c.WorkSeconds < 1 {
		c.WorkSeconds = 1
	}
	if c.RestSeconds < 1 {
		c.RestSeconds = 1
	}
	if c.Rounds < 1 {
		c.Rounds = 1
	}
	if c.Intervals < 1 {
		c.Intervals = 1
	}
	return c
}

// State is the mutable per-session timer state. It is advanced once
// per elapsed second and once per explicit user action.
type State struct {
	Running         bool
	Paused          bool
	CurrentSeconds  int
	CurrentRound    int
	CurrentInterval int
	WorkPhase       bool // Tabata/Custom only
	CompletedRounds int  // AMRAP only, user-incremented
	Finished        bool
}

// NewState derives a fresh idle state from a config. Count-down modes
// start at the session cap, count-up modes at zero.
func NewState(c Config) State {
	c = c.Normalized()
	s := State{CurrentRound: 1, CurrentInterval: 1, WorkPhase: true}
	if !c.CountUp {
		s.CurrentSeconds = c.TotalSeconds
	}
	return s
}

// Event marks a transition detected while advancing the state. Side
// effects (tones, haptics) are applied by the caller, never here.
type Event int

const (
	EventCountdownTick Event = iota // pre-start 3, 2, 1
	EventGo                         // pre-start countdown reached zero
	EventRoundComplete              // manual AMRAP round increment
	EventIntervalStart              // EMOM rolled into the next minute
	EventWorkStart                  // rest phase flipped to work
	EventRestStart                  // work phase flipped to rest
	EventFinalCountdown             // 3..1 seconds remaining
	EventFinished
)

type advancer interface {
	advance(s State, c Config) (State, []Event)
}

func advancerFor(m Mode) advancer {
	switch m {
	case ModeEMOM:
		return emomAdvancer{}
	case ModeTabata, ModeCustom:
		return cycleAdvancer{}
	default:
		// AMRAP and For Time are time-only; they differ in count
		// direction, which step handles from the config.
		return plainAdvancer{}
	}
}

// Advance moves the session one second forward and reports the
// transitions that occurred. It is a pure function; calling it with
// the same inputs always yields the same outputs. Events are ordered
// phase/round first, then final-countdown, then finished.
func Advance(s State, c Config) (State, []Event) {
	if s.Finished {
		return s, nil
	}
	c = c.Normalized()
	next, events := advancerFor(c.Mode).advance(s, c)
	if !c.CountUp && !next.Finished && next.CurrentSeconds <= 3 {
		events = append(events, EventFinalCountdown)
	}
	if next.Finished {
		events = append(events, EventFinished)
	}
	return next, events
}

// CompleteRound records a manually finished AMRAP round. Rounds are
// user-reported there, independent of elapsed time.
func CompleteRound(s State) State {
	s.CompletedRounds++
	s.CurrentRound++
	return s
}

// Elapsed returns how many seconds of the session have passed,
// regardless of count direction.
func Elapsed(s State, c Config) int {
	if c.CountUp {
		return s.CurrentSeconds
	}
	return c.TotalSeconds - s.CurrentSeconds
}

// step moves the clock one second in the configured direction and
// flags completion. CurrentSeconds never leaves [0, TotalSeconds].
func step(s State, c Config) State {
	if c.CountUp {
		s.CurrentSeconds++
		if s.CurrentSeconds >= c.TotalSeconds {
			s.CurrentSeconds = c.TotalSeconds
			s.Finished = true
		}
		return s
	}
	s.CurrentSeconds--
	if s.CurrentSeconds <= 0 {
		s.CurrentSeconds = 0
		s.Finished = true
	}
	return s
}

// plainAdvancer covers AMRAP and For Time: the clock moves, nothing
// else is derived.
type plainAdvancer struct{}

func (plainAdvancer) advance(s State, c Config) (State, []Event) {
	return step(s, c), nil
}

// emomAdvancer derives the 1-based minute index from elapsed time.
type emomAdvancer struct{}

func (emomAdvancer) advance(s State, c Config) (State, []Event) {
	next := step(s, c)
	if next.Finished {
		// The final tick closes the last interval; there is no next
		// minute to announce.
		return next, nil
	}
	next.CurrentInterval = Elapsed(next, c)/60 + 1
	if next.CurrentInterval != s.CurrentInterval {
		return next, []Event{EventIntervalStart}
	}
	return next, nil
}

// cycleAdvancer derives round and work/rest phase for Tabata and
// Custom from the position inside the work+rest cycle.
type cycleAdvancer struct{}

func (cycleAdvancer) advance(s State, c Config) (State, []Event) {
	next := step(s, c)
	if next.Finished {
		return next, nil
	}
	cycle := c.WorkSeconds + c.RestSeconds
	elapsed := Elapsed(next, c)
	next.WorkPhase = elapsed%cycle < c.WorkSeconds
	next.CurrentRound = elapsed/cycle + 1
	if next.WorkPhase != s.WorkPhase {
		if next.WorkPhase {
			return next, []Event{EventWorkStart}
		}
		return next, []Event{EventRestStart}
	}
	return next, nil
}
