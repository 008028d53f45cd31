// Package session orchestrates one workout timer session: it owns the
// clock, drives the pre-start countdown, serializes control actions
// against ticks, and reports completion exactly once.
package session

import (
	"sync"
	"time"

	"wodtimer/internal/clock"
	"wodtimer/internal/cue"
	"wodtimer/internal/engine"
)

// Phase is the coarse lifecycle of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountdown
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "Countdown"
	case PhaseRunning:
		return "Running"
	case PhaseFinished:
		return "Finished"
	default:
		return "Idle"
	}
}

// Result is delivered to the completion callback once per finished
// session.
type Result struct {
	Mode            engine.Mode
	DurationSeconds int
	Rounds          int
	FinishedAt      time.Time
}

const countdownFrom = 3

// Option configures a Session at construction time.
type Option func(*Session)

// WithTickInterval overrides the 1s tick cadence. Used by tests to run
// sessions at millisecond speed; the state machine only ever counts
// ticks, so the cadence does not change behavior.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithOnComplete registers the completion callback. It is invoked from
// the clock goroutine, after the finished state is committed.
func WithOnComplete(fn func(Result)) Option {
	return func(s *Session) { s.onComplete = fn }
}

// Snapshot is a consistent copy of the observable session state.
type Snapshot struct {
	Phase     Phase
	Countdown int // remaining pre-start seconds while Phase == PhaseCountdown
	Config    engine.Config
	State     engine.State
}

// Session is the single owner of a logical workout timer. All methods
// are safe for concurrent use and serialize against the clock; control
// calls from an invalid phase are no-ops.
type Session struct {
	mu            sync.Mutex
	cfg           engine.Config
	state         engine.State
	phase         Phase
	countdown     int
	gen           int // bumped on reset; stale clock callbacks check it and bail
	clk           *clock.Clock
	pre           *clock.Countdown
	cues          *cue.Dispatcher
	interval      time.Duration
	onComplete    func(Result)
	completeFired bool
}

func New(mode engine.Mode, cues *cue.Dispatcher, opts ...Option) *Session {
	s := &Session{
		cfg:      engine.DefaultConfig(mode).Normalized(),
		cues:     cues,
		interval: time.Second,
	}
	s.state = engine.NewState(s.cfg)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply replaces the session configuration. Only honored while idle;
// the mode cannot be changed this way (use ChangeMode), and numeric
// fields are clamped rather than rejected.
func (s *Session) Apply(cfg engine.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return
	}
	cfg.Mode = s.cfg.Mode
	s.cfg = cfg.Normalized()
	s.state = engine.NewState(s.cfg)
}

// Start begins the pre-start countdown. Valid from Idle or Finished.
// The main clock starts only once the countdown elapses; the countdown
// runs on its own one-shot schedule so Reset can cancel it cleanly.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle && s.phase != PhaseFinished {
		return
	}
	s.state = engine.NewState(s.cfg)
	s.completeFired = false
	s.phase = PhaseCountdown
	s.countdown = countdownFrom
	gen := s.gen
	s.pre = clock.StartCountdown(countdownFrom, s.interval,
		func(n int) { s.countdownTick(gen, n) },
		func() { s.beginRunning(gen) },
	)
}

func (s *Session) countdownTick(gen, n int) {
	s.mu.Lock()
	if gen != s.gen || s.phase != PhaseCountdown {
		s.mu.Unlock()
		return
	}
	s.countdown = n
	s.mu.Unlock()
	s.cues.Fire(engine.EventCountdownTick)
}

func (s *Session) beginRunning(gen int) {
	s.mu.Lock()
	if gen != s.gen || s.phase != PhaseCountdown {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseRunning
	s.countdown = 0
	s.state.Running = true
	s.pre = nil
	s.clk = clock.New(s.interval, func() { s.tick(gen) })
	s.clk.Start()
	s.mu.Unlock()
	s.cues.Fire(engine.EventGo)
}

// tick advances the state machine by one second. Cues fire only after
// the new state is committed, and the completion callback fires at
// most once per session.
func (s *Session) tick(gen int) {
	s.mu.Lock()
	if gen != s.gen || s.phase != PhaseRunning || s.state.Paused {
		s.mu.Unlock()
		return
	}
	next, events := engine.Advance(s.state, s.cfg)
	s.state = next

	var stopped *clock.Clock
	var result *Result
	if next.Finished {
		s.phase = PhaseFinished
		s.state.Running = false
		stopped = s.clk
		s.clk = nil
		if !s.completeFired {
			s.completeFired = true
			r := s.resultLocked()
			result = &r
		}
	}
	s.mu.Unlock()

	if stopped != nil {
		stopped.Stop()
	}
	for _, ev := range events {
		s.cues.Fire(ev)
	}
	if result != nil && s.onComplete != nil {
		s.onComplete(*result)
	}
}

func (s *Session) resultLocked() Result {
	return Result{
		Mode:            s.cfg.Mode,
		DurationSeconds: engine.Elapsed(s.state, s.cfg),
		Rounds:          roundsFor(s.state, s.cfg),
		FinishedAt:      time.Now(),
	}
}

// roundsFor picks the round figure a finished session reports: manual
// completions for AMRAP, the derived counters elsewhere.
func roundsFor(st engine.State, c engine.Config) int {
	switch c.Mode {
	case engine.ModeAMRAP:
		return st.CompletedRounds
	case engine.ModeEMOM:
		return st.CurrentInterval
	case engine.ModeTabata, engine.ModeCustom:
		return st.CurrentRound
	default:
		return st.CurrentRound
	}
}

// Pause freezes the clock. Valid only while running; idempotent.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.phase != PhaseRunning || s.state.Paused {
		s.mu.Unlock()
		return
	}
	s.state.Paused = true
	stopped := s.clk
	s.clk = nil
	s.mu.Unlock()
	if stopped != nil {
		stopped.Stop()
	}
}

// Resume unfreezes a paused session.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseRunning || !s.state.Paused {
		return
	}
	s.state.Paused = false
	gen := s.gen
	s.clk = clock.New(s.interval, func() { s.tick(gen) })
	s.clk.Start()
}

// CompleteRound records a manual AMRAP round. No-op outside a running,
// unpaused AMRAP session.
func (s *Session) CompleteRound() {
	s.mu.Lock()
	if s.cfg.Mode != engine.ModeAMRAP || s.phase != PhaseRunning || s.state.Paused {
		s.mu.Unlock()
		return
	}
	s.state = engine.CompleteRound(s.state)
	s.mu.Unlock()
	s.cues.Fire(engine.EventRoundComplete)
}

// Reset cancels every pending timer and returns to Idle with a fresh
// state derived from the current config. Valid from any phase.
func (s *Session) Reset() {
	s.mu.Lock()
	clk, pre := s.resetLocked(s.cfg)
	s.mu.Unlock()
	cancel(clk, pre)
}

// ChangeMode is Reset plus swapping in the new mode's default config.
func (s *Session) ChangeMode(m engine.Mode) {
	if !engine.Valid(m) {
		return
	}
	s.mu.Lock()
	clk, pre := s.resetLocked(engine.DefaultConfig(m))
	s.mu.Unlock()
	cancel(clk, pre)
}

// Close tears the session down. No tick or cue fires after it returns
// control to the caller.
func (s *Session) Close() {
	s.Reset()
}

// resetLocked re-derives state from cfg and hands back the timers to
// cancel. The generation bump invalidates callbacks already scheduled
// by the old clock, so cancellation is effective even if a tick is in
// flight.
func (s *Session) resetLocked(cfg engine.Config) (*clock.Clock, *clock.Countdown) {
	s.gen++
	clk, pre := s.clk, s.pre
	s.clk, s.pre = nil, nil
	s.phase = PhaseIdle
	s.countdown = 0
	s.cfg = cfg.Normalized()
	s.state = engine.NewState(s.cfg)
	s.completeFired = false
	return clk, pre
}

func cancel(clk *clock.Clock, pre *clock.Countdown) {
	if pre != nil {
		pre.Stop()
	}
	if clk != nil {
		clk.Stop()
	}
}

// SetSoundEnabled flips the cue dispatcher's sound flag. Never touches
// the clock.
func (s *Session) SetSoundEnabled(on bool) {
	s.cues.SetSoundEnabled(on)
}

func (s *Session) SoundEnabled() bool {
	return s.cues.SoundEnabled()
}

// Mode returns the active mode.
func (s *Session) Mode() engine.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Mode
}

// Config returns a copy of the active configuration.
func (s *Session) Config() engine.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Snapshot returns a consistent copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Phase:     s.phase,
		Countdown: s.countdown,
		Config:    s.cfg,
		State:     s.state,
	}
}
