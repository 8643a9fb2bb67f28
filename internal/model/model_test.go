package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundPhaseAndNumber(t *testing.T) {
	p := RoundPhase(3)
	assert.Equal(t, Phase("ROUND_3"), p)

	k, ok := RoundNumber(p)
	require.True(t, ok)
	assert.Equal(t, 3, k)

	_, ok = RoundNumber(PhaseLobby)
	assert.False(t, ok)
	assert.True(t, IsRound(RoundPhase(1)))
	assert.False(t, IsRound(PhaseResolution))
}

func TestRoomIDOther(t *testing.T) {
	assert.Equal(t, RoomB, RoomA.Other())
	assert.Equal(t, RoomA, RoomB.Other())
	assert.Equal(t, NoRoom, NoRoom.Other())
}

func TestRoomStateToggleHostageCandidate(t *testing.T) {
	r := NewRoomState()
	added := r.ToggleHostageCandidate("p1")
	assert.True(t, added)
	assert.Contains(t, r.HostageCandidates, "p1")

	removed := r.ToggleHostageCandidate("p1")
	assert.False(t, removed)
	assert.NotContains(t, r.HostageCandidates, "p1")
}

func TestRoomStateClearRoundState(t *testing.T) {
	r := NewRoomState()
	r.LeaderVotes["a"] = "b"
	r.LeaderVotingActive = true
	r.LeaderVotingTieCount = 2
	r.HostageCandidates = []string{"x"}
	r.HostagesLocked = true
	r.ParlayComplete = true

	r.ClearRoundState()

	assert.Empty(t, r.LeaderVotes)
	assert.False(t, r.LeaderVotingActive)
	assert.Zero(t, r.LeaderVotingTieCount)
	assert.Empty(t, r.HostageCandidates)
	assert.False(t, r.HostagesLocked)
	assert.False(t, r.ParlayComplete)
}

func TestJournalAppendIsGapless(t *testing.T) {
	j := NewJournal(10)
	e1 := j.Append(Event{Type: EventGameCreated, Scope: PublicScope()})
	e2 := j.Append(Event{Type: EventPlayerJoined, Scope: PublicScope()})
	assert.Equal(t, int64(1), e1.Sequence)
	assert.Equal(t, int64(2), e2.Sequence)
	assert.Equal(t, int64(2), j.LastSequence())
}

func TestJournalSince(t *testing.T) {
	j := NewJournal(10)
	for i := 0; i < 5; i++ {
		j.Append(Event{Type: EventTimerUpdate, Scope: PublicScope()})
	}
	got := j.Since(3)
	require.Len(t, got, 2)
	assert.Equal(t, int64(4), got[0].Sequence)
	assert.Equal(t, int64(5), got[1].Sequence)
}

func TestJournalRetentionTrims(t *testing.T) {
	j := NewJournal(5) // raised to DefaultJournalRetention
	n := 2*DefaultJournalRetention + 1
	for i := 0; i < n; i++ {
		j.Append(Event{Type: EventTimerUpdate, Scope: PublicScope()})
	}
	assert.LessOrEqual(t, len(j.entries), 2*DefaultJournalRetention)
	assert.Equal(t, int64(n), j.LastSequence())
}

func TestNewGameDefaults(t *testing.T) {
	g := NewGame("game-1", "ABCD23", DefaultJournalRetention)
	assert.Equal(t, PhaseLobby, g.State.Public.Phase)
	assert.Equal(t, int64(0), g.Version)
	assert.Empty(t, g.Players)

	g.Players["host"] = NewPlayer("host", "Alice", true)
	g.Touch()
	assert.Equal(t, int64(1), g.Version)
	assert.True(t, g.IsHost("host"))
	assert.Equal(t, 1, g.PlayerCount())
}

func TestRosterSnapshotIsSortedByID(t *testing.T) {
	g := NewGame("game-1", "ABCD23", DefaultJournalRetention)
	g.Players["b"] = NewPlayer("b", "Bob", false)
	g.Players["a"] = NewPlayer("a", "Alice", true)

	roster := g.RosterSnapshot()
	require.Len(t, roster, 2)
	assert.Equal(t, "a", roster[0].ID)
	assert.Equal(t, "b", roster[1].ID)
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "PUBLIC", PublicScope().String())
	assert.Equal(t, "ROOM_A", RoomScope(RoomA).String())
	assert.Equal(t, "PLAYER:p1", PlayerScope("p1").String())
}
