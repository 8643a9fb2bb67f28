package model

import "time"

// TimerState is the run state of a Timer (§4.4).
type TimerState string

const (
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
	TimerStopped TimerState = "stopped"
)

// TimerView is the read-only projection of a round.Timer carried on
// PublicState; Remaining is derived at read time by the owning timer.
type TimerView struct {
	Duration  time.Duration
	Remaining time.Duration
	State     TimerState
}

// PublicPlayerInfo is the roster entry visible to every observer (§3.3).
type PublicPlayerInfo struct {
	ID          string
	DisplayName string
	IsHost      bool
	Connection  ConnectionStatus
	IsLeader    bool
	Room        RoomID
}

// PublicState is the GameState partition visible to every observer.
type PublicState struct {
	Phase           Phase
	CurrentRound    int
	TotalRounds     int
	RoomAssignments map[string]RoomID // player id -> room, empty pre-assignment

	Leaders map[RoomID]string // nullable leader id per room; absent key = no leader

	Timer TimerView

	Paused       bool
	PauseReason  string
	ParlayActive bool

	Roster []PublicPlayerInfo
}

// PrivateState never leaves the server (§3.3).
type PrivateState struct {
	RoleAssignments map[string]string // player id -> character id
	DeckConfig      []string          // the shuffled deck as assigned, for diagnostics
	BuriedCard      string            // character id, empty if none
	HostID          string
	Seed            [32]byte

	UsurpationLog map[int][]string // round number -> usurper ids
	CardShareLog  []CardShareRecord
}

// CardShareRecord notes one card-share/reveal exchange for diagnostics and
// for any ability engine that needs history (§3.3, §4.7).
type CardShareRecord struct {
	Round      int
	InitiatorID string
	TargetID   string
	Kind       string // CARD_SHARE, COLOR_SHARE, PRIVATE_REVEAL, PUBLIC_REVEAL
	At         time.Time
}

// GameState is the full partitioned state of a Game (§3.3).
type GameState struct {
	Public  PublicState
	Rooms   map[RoomID]*RoomState
	Private PrivateState
}

// NewGameState returns a GameState in its pre-lock, pre-assignment shape.
func NewGameState(totalRounds int) *GameState {
	return &GameState{
		Public: PublicState{
			Phase:           PhaseLobby,
			TotalRounds:     totalRounds,
			RoomAssignments: map[string]RoomID{},
			Leaders:         map[RoomID]string{},
			Roster:          []PublicPlayerInfo{},
		},
		Rooms: map[RoomID]*RoomState{
			RoomA: NewRoomState(),
			RoomB: NewRoomState(),
		},
		Private: PrivateState{
			RoleAssignments: map[string]string{},
			UsurpationLog:   map[int][]string{},
		},
	}
}
