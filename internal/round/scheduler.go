package round

import "time"

// Scheduler schedules a one-shot callback after d elapses. Implementations
// (owned by internal/controller) must re-enter the owning game's
// serialized executor before invoking fire, never call fire directly on an
// arbitrary goroutine (§5 "scheduled timer callbacks... re-enter the
// Controller as a fresh unit of work on the game's serialised executor").
type Scheduler interface {
	Schedule(d time.Duration, fire func())
}

// TimeAfterFuncScheduler is a Scheduler backed by
// time.AfterFunc. fire still runs on its own goroutine; callers are
// expected to wrap fire with re-entry into their executor (the Controller
// does this), not to call Schedule directly from inside the core engine's
// exported methods while already holding the game lock the callback would
// need.
type TimeAfterFuncScheduler struct{}

func (TimeAfterFuncScheduler) Schedule(d time.Duration, fire func()) {
	time.AfterFunc(d, fire)
}

// NoopScheduler discards every scheduled callback. Useful in tests that
// drive timer expiry explicitly instead of waiting on wall-clock time.
type NoopScheduler struct{}

func (NoopScheduler) Schedule(time.Duration, func()) {}
