package model

import (
	"sort"
	"time"
)

// Game is the aggregate root (§3.1). All mutation of a Game must happen
// under the single-writer serialization described in §5; Game itself holds
// no lock, the owner (controller.gameActor) does.
type Game struct {
	ID        string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64

	Config  Config
	Players map[string]*Player

	State *GameState

	Journal *Journal
}

// NewGame returns a freshly created, unlocked game in LOBBY.
func NewGame(id, code string, journalRetention int) *Game {
	now := time.Now()
	return &Game{
		ID:        id,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   0,
		Players:   map[string]*Player{},
		State:     NewGameState(0),
		Journal:   NewJournal(journalRetention),
	}
}

// Touch bumps Version and UpdatedAt. Every mutation to a Game must call it
// exactly once, inside the owning executor's serialized section.
func (g *Game) Touch() {
	g.Version++
	g.UpdatedAt = time.Now()
}

// PlayerCount returns the number of players ever joined to the game
// (includes the host; disconnected players still count, §3.8).
func (g *Game) PlayerCount() int {
	return len(g.Players)
}

// RoomOf returns the room a player currently sits in, or NoRoom if
// unassigned.
func (g *Game) RoomOf(playerID string) RoomID {
	if p, ok := g.Players[playerID]; ok {
		return p.CurrentRoom
	}
	return NoRoom
}

// Room returns the RoomState for r, creating nothing — r must be RoomA or
// RoomB.
func (g *Game) Room(r RoomID) *RoomState {
	return g.State.Rooms[r]
}

// IsHost reports whether playerID is the host of this game.
func (g *Game) IsHost(playerID string) bool {
	p, ok := g.Players[playerID]
	return ok && p.IsHost
}

// HostID returns the id of the game's host, or "" if somehow absent.
func (g *Game) HostID() string {
	return g.State.Private.HostID
}

// Finished reports whether the game has reached its terminal phase.
func (g *Game) Finished() bool {
	return g.State.Public.Phase == PhaseFinished
}

// RosterSnapshot builds the PublicState's Roster from the current Players
// map, ordered by id for a deterministic wire representation.
func (g *Game) RosterSnapshot() []PublicPlayerInfo {
	out := make([]PublicPlayerInfo, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, p.Public())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
