package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood/tworooms/internal/model"
)

func gameWithPlayers(n int) *model.Game {
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		g.Players[id] = model.NewPlayer(id, id, i == 0)
	}
	return g
}

func TestLockRoomGuard(t *testing.T) {
	m := New()

	g := gameWithPlayers(5)
	_, err := m.Transition(g, model.TriggerLockRoom)
	require.ErrorIs(t, err, ErrGuardFailed)

	g = gameWithPlayers(6)
	next, err := m.Transition(g, model.TriggerLockRoom)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseLocked, next)

	g = gameWithPlayers(31)
	_, err = m.Transition(g, model.TriggerLockRoom)
	require.ErrorIs(t, err, ErrGuardFailed)
}

func TestIllegalTransition(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	_, err := m.Transition(g, model.TriggerConfirmRoles)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestUnlockRoomGuardBlocksAfterAssignment(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	g.State.Public.Phase = model.PhaseLocked
	g.State.Private.RoleAssignments["a"] = "protagonist"

	_, err := m.Transition(g, model.TriggerUnlockRoom)
	assert.ErrorIs(t, err, ErrGuardFailed)
}

func TestStartGameGuardRoomBalance(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	g.State.Public.Phase = model.PhaseRoomAssignment
	g.State.Rooms[model.RoomA].Members = []string{"a", "b", "c", "d"}
	g.State.Rooms[model.RoomB].Members = []string{"e"}

	_, err := m.Transition(g, model.TriggerStartGame)
	require.ErrorIs(t, err, ErrGuardFailed)

	g.State.Rooms[model.RoomA].Members = []string{"a", "b", "c"}
	g.State.Rooms[model.RoomB].Members = []string{"d", "e", "f"}
	next, err := m.Transition(g, model.TriggerStartGame)
	require.NoError(t, err)
	assert.Equal(t, model.RoundPhase(1), next)
}

func TestRoundCompleteAdvancesToNextRound(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	g.Config.TotalRounds = 3
	g.State.Public.Phase = model.RoundPhase(1)

	next, err := m.Transition(g, model.TriggerRoundComplete)
	require.NoError(t, err)
	assert.Equal(t, model.RoundPhase(2), next)
}

func TestRoundCompleteAtLastRoundGoesToResolution(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	g.Config.TotalRounds = 3
	g.State.Public.Phase = model.RoundPhase(3)

	next, err := m.Transition(g, model.TriggerRoundComplete)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseResolution, next)
}

func TestRoundCompleteGuardBlocksWhileHostagesLocked(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	g.Config.TotalRounds = 3
	g.State.Public.Phase = model.RoundPhase(1)
	g.State.Rooms[model.RoomA].HostagesLocked = true

	_, err := m.Transition(g, model.TriggerRoundComplete)
	assert.ErrorIs(t, err, ErrGuardFailed)
}

func TestInstantWinFromAnyRound(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	g.State.Public.Phase = model.RoundPhase(2)

	next, err := m.Transition(g, model.TriggerInstantWin)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseResolution, next)
}

func TestCanTransition(t *testing.T) {
	m := New()
	g := gameWithPlayers(6)
	assert.True(t, m.CanTransition(g, model.TriggerLockRoom))
	assert.False(t, m.CanTransition(g, model.TriggerStartGame))
}
