// Package statemachine implements the pure phase-transition decision
// function described in §4.2: given a Game and a Trigger, it reports
// whether the transition is legal and, if so, the next phase. It never
// mutates the Game; the Controller applies the transition and publishes
// the resulting event.
package statemachine

import (
	"errors"
	"fmt"

	"github.com/oakwood/tworooms/internal/model"
)

// ErrIllegalTransition is returned when no edge matches (from, trigger).
var ErrIllegalTransition = errors.New("statemachine: illegal transition")

// ErrGuardFailed is returned when an edge matches but its guard denies it.
var ErrGuardFailed = errors.New("statemachine: guard failed")

// guard inspects g and reports whether the edge it is attached to may fire.
type guard func(g *model.Game) error

type edge struct {
	from    matchFn
	trigger model.Trigger
	to      nextFn
	guard   guard
}

// matchFn reports whether an edge's From applies to phase p.
type matchFn func(p model.Phase) bool

// nextFn computes the destination phase given the current one (needed for
// ROUND_k -> ROUND_{k+1} and ROUND_lastRound -> RESOLUTION, which share a
// trigger but differ by current round).
type nextFn func(g *model.Game, from model.Phase) model.Phase

func exactly(p model.Phase) matchFn {
	return func(q model.Phase) bool { return q == p }
}

func anyRound() matchFn {
	return func(q model.Phase) bool { return model.IsRound(q) }
}

func to(p model.Phase) nextFn {
	return func(*model.Game, model.Phase) model.Phase { return p }
}

// Machine holds the fixed transition table from §4.2. It carries no
// per-game state and is safe for concurrent use across many games.
type Machine struct {
	edges []edge
}

// New returns the Machine implementing the full §4.2 transition table.
func New() *Machine {
	return &Machine{edges: []edge{
		{exactly(model.PhaseLobby), model.TriggerLockRoom, to(model.PhaseLocked), guardLockRoom},
		{exactly(model.PhaseLocked), model.TriggerUnlockRoom, to(model.PhaseLobby), guardUnlockRoom},
		{exactly(model.PhaseLocked), model.TriggerStartRoleSelection, to(model.PhaseRoleSelection), nil},
		{exactly(model.PhaseRoleSelection), model.TriggerCancelRoleSelection, to(model.PhaseLocked), nil},
		{exactly(model.PhaseRoleSelection), model.TriggerConfirmRoles, to(model.PhaseRoleDistribution), nil},
		{exactly(model.PhaseRoleDistribution), model.TriggerRolesDistributed, to(model.PhaseRoomAssignment), guardRolesDistributed},
		{exactly(model.PhaseRoomAssignment), model.TriggerStartGame, to(model.RoundPhase(1)), guardStartGame},
		{anyRound(), model.TriggerRoundComplete, nextRoundOrResolution, guardRoundComplete},
		{anyRound(), model.TriggerInstantWin, to(model.PhaseResolution), nil},
		{exactly(model.PhaseResolution), model.TriggerWinConditionsResolved, to(model.PhaseFinished), nil},
	}}
}

// nextRoundOrResolution implements "ROUND_k -> ROUND_{k+1}" and
// "ROUND_lastRound -> RESOLUTION" as one edge keyed on TriggerRoundComplete,
// since both share the same trigger and guard (§4.2 table).
func nextRoundOrResolution(g *model.Game, from model.Phase) model.Phase {
	k, _ := model.RoundNumber(from)
	if k >= g.Config.TotalRounds {
		return model.PhaseResolution
	}
	return model.RoundPhase(k + 1)
}

// Transition reports the next phase for (g, trigger), or a denial error. It
// does not mutate g. The caller (Controller) is responsible for applying
// the transition atomically, incrementing Game.Version, and publishing the
// {from, to, trigger} event (§4.2 "transition semantics").
func (m *Machine) Transition(g *model.Game, trigger model.Trigger) (model.Phase, error) {
	from := g.State.Public.Phase
	for _, e := range m.edges {
		if e.trigger != trigger || !e.from(from) {
			continue
		}
		if e.guard != nil {
			if err := e.guard(g); err != nil {
				return "", fmt.Errorf("%w: %v", ErrGuardFailed, err)
			}
		}
		return e.to(g, from), nil
	}
	return "", fmt.Errorf("%w: no edge from %s on trigger %s", ErrIllegalTransition, from, trigger)
}

// CanTransition reports whether trigger is legal from g's current phase
// without needing the caller to interpret the error.
func (m *Machine) CanTransition(g *model.Game, trigger model.Trigger) bool {
	_, err := m.Transition(g, trigger)
	return err == nil
}

func guardLockRoom(g *model.Game) error {
	n := g.PlayerCount()
	if n < 6 || n > 30 {
		return fmt.Errorf("player count %d outside 6-30", n)
	}
	return nil
}

func guardUnlockRoom(g *model.Game) error {
	if len(g.State.Private.RoleAssignments) > 0 {
		return fmt.Errorf("role assignments already exist")
	}
	return nil
}

func guardRolesDistributed(g *model.Game) error {
	for id, p := range g.Players {
		if p.CurrentRole == "" {
			return fmt.Errorf("player %s has no assigned role", id)
		}
	}
	return nil
}

func guardStartGame(g *model.Game) error {
	a := len(g.State.Rooms[model.RoomA].Members)
	b := len(g.State.Rooms[model.RoomB].Members)
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff > 1 {
		return fmt.Errorf("room sizes differ by %d, want <= 1", diff)
	}
	return nil
}

// guardRoundComplete enforces "hostage exchange has completed and no
// candidates remain locked" (§4.2). The Round Engine's EndRound clears
// hostage state before invoking this transition, within the same
// serialized mutation, so this guard observes the post-clear state rather
// than blocking the very transition meant to follow a completed exchange.
func guardRoundComplete(g *model.Game) error {
	for _, room := range g.State.Rooms {
		if room.HostagesLocked {
			return fmt.Errorf("room still has hostages locked")
		}
		if len(room.HostageCandidates) > 0 {
			return fmt.Errorf("room still has hostage candidates")
		}
	}
	return nil
}
