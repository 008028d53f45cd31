package session

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wodtimer/internal/cue"
	"wodtimer/internal/engine"
)

const tick = 2 * time.Millisecond

// Generous bounds for goroutine scheduling; the assertions poll, so
// tests pass as soon as the condition holds.
const (
	waitFor  = 2 * time.Second
	pollTick = time.Millisecond
)

func newTestSession(t *testing.T, mode engine.Mode, opts ...Option) *Session {
	t.Helper()
	cues := cue.NewDispatcher(cue.Bell{W: io.Discard}, false)
	opts = append([]Option{WithTickInterval(tick)}, opts...)
	s := New(mode, cues, opts...)
	t.Cleanup(s.Close)
	return s
}

func waitForPhase(t *testing.T, s *Session, p Phase) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.Snapshot().Phase == p
	}, waitFor, pollTick, "session never reached phase %v", p)
}

func TestStartRunsAfterCountdown(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)

	s.Start()
	waitForPhase(t, s, PhaseRunning)

	snap := s.Snapshot()
	assert.True(t, snap.State.Running)
	assert.False(t, snap.State.Paused)
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	s.Start()
	waitForPhase(t, s, PhaseRunning)

	s.Start()
	assert.Equal(t, PhaseRunning, s.Snapshot().Phase)
}

func TestPauseIsIdempotentAndFreezesClock(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	s.Start()
	waitForPhase(t, s, PhaseRunning)

	s.Pause()
	s.Pause()
	frozen := s.Snapshot()
	require.True(t, frozen.State.Paused)

	// Wall-clock time passes; the session clock must not.
	time.Sleep(20 * tick)
	assert.Equal(t, frozen.State, s.Snapshot().State)

	s.Resume()
	require.Eventually(t, func() bool {
		return s.Snapshot().State.CurrentSeconds < frozen.State.CurrentSeconds
	}, waitFor, pollTick, "clock did not move after resume")
}

func TestPauseResumeInvalidStatesAreNoops(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)

	s.Pause()
	s.Resume()
	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.State.Paused)

	s.Start()
	waitForPhase(t, s, PhaseRunning)
	s.Resume() // not paused
	assert.False(t, s.Snapshot().State.Paused)
}

func TestResetProducesFreshStateAndCancelsTicks(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	s.Start()
	waitForPhase(t, s, PhaseRunning)

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.State.CurrentSeconds < snap.Config.TotalSeconds
	}, waitFor, pollTick)

	s.Reset()
	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, engine.NewState(snap.Config), snap.State)

	// No previously scheduled tick may fire after reset.
	time.Sleep(20 * tick)
	assert.Equal(t, engine.NewState(snap.Config), s.Snapshot().State)
}

func TestResetDuringCountdownCancelsStart(t *testing.T) {
	// A slow tick keeps the session inside the countdown window long
	// enough to reset out of it deterministically.
	s := newTestSession(t, engine.ModeAMRAP, WithTickInterval(100*time.Millisecond))
	s.Start()
	require.Equal(t, PhaseCountdown, s.Snapshot().Phase)

	s.Reset()
	time.Sleep(20 * tick)

	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, engine.NewState(snap.Config), snap.State)
}

func TestChangeModeWhileRunningResetsToNewDefaults(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	s.Start()
	waitForPhase(t, s, PhaseRunning)

	s.ChangeMode(engine.ModeTabata)

	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, engine.DefaultConfig(engine.ModeTabata), snap.Config)
	assert.Equal(t, engine.NewState(snap.Config), snap.State)

	time.Sleep(20 * tick)
	assert.Equal(t, snap.State, s.Snapshot().State, "old AMRAP clock still ticking after mode change")
}

func TestChangeModeUnknownIsNoop(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	s.ChangeMode(engine.Mode("hiit"))
	assert.Equal(t, engine.ModeAMRAP, s.Mode())
}

func TestApplyOnlyWhileIdle(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)

	cfg := s.Config()
	cfg.TotalSeconds = 90
	s.Apply(cfg)
	assert.Equal(t, 90, s.Config().TotalSeconds)

	s.Start()
	waitForPhase(t, s, PhaseRunning)
	cfg.TotalSeconds = 30
	s.Apply(cfg)
	assert.Equal(t, 90, s.Config().TotalSeconds)
}

func TestApplyClampsAndKeepsMode(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)

	cfg := s.Config()
	cfg.TotalSeconds = 0
	cfg.Mode = engine.ModeTabata
	s.Apply(cfg)

	got := s.Config()
	assert.Equal(t, engine.ModeAMRAP, got.Mode)
	assert.Equal(t, 1, got.TotalSeconds)
}

func TestCompleteRoundCountsIndependentlyOfTime(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)

	s.CompleteRound() // idle: no effect
	assert.Equal(t, 0, s.Snapshot().State.CompletedRounds)

	s.Start()
	waitForPhase(t, s, PhaseRunning)
	s.CompleteRound()
	s.CompleteRound()
	s.CompleteRound()
	assert.Equal(t, 3, s.Snapshot().State.CompletedRounds)

	s.Pause()
	s.CompleteRound() // paused: no effect
	assert.Equal(t, 3, s.Snapshot().State.CompletedRounds)
}

func TestCompleteRoundIgnoredOutsideAMRAP(t *testing.T) {
	s := newTestSession(t, engine.ModeForTime)
	s.Start()
	waitForPhase(t, s, PhaseRunning)

	s.CompleteRound()
	assert.Equal(t, 0, s.Snapshot().State.CompletedRounds)
}

func TestCompletionFiresExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	var got atomic.Value

	s := newTestSession(t, engine.ModeAMRAP, WithOnComplete(func(r Result) {
		calls.Add(1)
		got.Store(r)
	}))

	cfg := s.Config()
	cfg.TotalSeconds = 25
	s.Apply(cfg)

	s.Start()
	waitForPhase(t, s, PhaseRunning)
	s.CompleteRound()
	waitForPhase(t, s, PhaseFinished)

	time.Sleep(20 * tick)
	require.Equal(t, int32(1), calls.Load())

	r := got.Load().(Result)
	assert.Equal(t, engine.ModeAMRAP, r.Mode)
	assert.Equal(t, 25, r.DurationSeconds)
	assert.Equal(t, 1, r.Rounds)
	assert.False(t, r.FinishedAt.IsZero())
}

func TestRestartFromFinished(t *testing.T) {
	var calls atomic.Int32
	s := newTestSession(t, engine.ModeAMRAP, WithOnComplete(func(Result) { calls.Add(1) }))

	cfg := s.Config()
	cfg.TotalSeconds = 3
	s.Apply(cfg)

	s.Start()
	waitForPhase(t, s, PhaseFinished)

	s.Start()
	waitForPhase(t, s, PhaseFinished)

	assert.Equal(t, int32(2), calls.Load(), "each completed session reports once")
}

func TestForTimeFinishesAtCap(t *testing.T) {
	var got atomic.Value
	s := newTestSession(t, engine.ModeForTime, WithOnComplete(func(r Result) { got.Store(r) }))

	cfg := s.Config()
	cfg.TotalSeconds = 3
	s.Apply(cfg)

	s.Start()
	waitForPhase(t, s, PhaseFinished)

	r := got.Load().(Result)
	assert.Equal(t, engine.ModeForTime, r.Mode)
	assert.Equal(t, 3, r.DurationSeconds)
}

func TestSoundToggleDoesNotTouchClock(t *testing.T) {
	s := newTestSession(t, engine.ModeAMRAP)
	s.Start()
	waitForPhase(t, s, PhaseRunning)

	s.SetSoundEnabled(true)
	assert.True(t, s.SoundEnabled())
	s.SetSoundEnabled(false)
	assert.False(t, s.SoundEnabled())

	assert.Equal(t, PhaseRunning, s.Snapshot().Phase)
}
