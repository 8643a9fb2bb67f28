package round

import (
	"time"

	"github.com/oakwood/tworooms/internal/model"
)

// Timer is a record `{duration, remaining, startEpoch, pausedAtEpoch?,
// state}` (§4.4). While running, Remaining is derived on read from
// startEpoch; while paused or stopped it reads a snapshot frozen at the
// last state change, so that a paused timer's remaining value cannot
// silently decrease (§3.7 invariant, §8.1 P5).
//
// Timer is not safe for concurrent use; callers must hold the owning
// game's single-writer lock (§5).
type Timer struct {
	duration        time.Duration
	startEpoch      time.Time
	pausedEpoch     time.Time     // zero when not paused
	frozenRemaining time.Duration // snapshot taken when paused or stopped
	state           model.TimerState
	now             func() time.Time // injectable for deterministic tests
}

// NewTimer returns a stopped timer of the given duration. Callers call
// Start (or, for round 1, use NewPausedTimer instead, per §4.4.1's
// "round-1 timer ignition rule").
func NewTimer(duration time.Duration) *Timer {
	return &Timer{duration: duration, frozenRemaining: duration, state: model.TimerStopped, now: time.Now}
}

// NewPausedTimer returns a timer of the given duration already in state
// Paused with remaining = duration, per §4.4.1: round 1's timer is prepared
// but held paused until both room leaders are elected, rather than left
// Stopped. Resume shifts startEpoch forward by however long election takes,
// so Remaining still reads duration the instant it starts running.
func NewPausedTimer(duration time.Duration) *Timer {
	now := time.Now()
	return &Timer{duration: duration, startEpoch: now, pausedEpoch: now, frozenRemaining: duration, state: model.TimerPaused, now: time.Now}
}

// Start transitions the timer to running from a clean slate, with
// remaining = duration.
func (t *Timer) Start() {
	t.startEpoch = t.now()
	t.pausedEpoch = time.Time{}
	t.state = model.TimerRunning
}

// Pause freezes Remaining at its current value. A no-op if not running.
func (t *Timer) Pause() {
	if t.state != model.TimerRunning {
		return
	}
	t.pausedEpoch = t.now()
	remaining := t.duration - t.pausedEpoch.Sub(t.startEpoch)
	if remaining < 0 {
		remaining = 0
	}
	t.frozenRemaining = remaining
	t.state = model.TimerPaused
}

// Resume shifts startEpoch forward by the pause span so Remaining picks up
// exactly where it left off (§4.4 "resuming shifts startEpoch forward by
// the pause span"). A no-op if not paused.
func (t *Timer) Resume() {
	if t.state != model.TimerPaused {
		return
	}
	pauseSpan := t.now().Sub(t.pausedEpoch)
	t.startEpoch = t.startEpoch.Add(pauseSpan)
	t.pausedEpoch = time.Time{}
	t.state = model.TimerRunning
}

// Stop halts the timer; a stopped timer never fires and Remaining reports
// whatever it was at the moment of stopping.
func (t *Timer) Stop() {
	t.frozenRemaining = t.Remaining()
	t.state = model.TimerStopped
}

// Remaining derives the time left. While running it is
// max(0, duration - (now - startEpoch)); while paused or stopped it is
// frozen at the value it had when the state last changed (§3.7, §8.1 P5).
func (t *Timer) Remaining() time.Duration {
	if t.state != model.TimerRunning {
		return t.frozenRemaining
	}
	elapsed := t.now().Sub(t.startEpoch)
	remaining := t.duration - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether a running timer has hit zero.
func (t *Timer) Expired() bool {
	return t.state == model.TimerRunning && t.Remaining() <= 0
}

// State returns the timer's current run state.
func (t *Timer) State() model.TimerState {
	return t.state
}

// View projects the timer into the read-only shape carried on PublicState.
func (t *Timer) View() model.TimerView {
	return model.TimerView{
		Duration:  t.duration,
		Remaining: t.Remaining(),
		State:     t.state,
	}
}
