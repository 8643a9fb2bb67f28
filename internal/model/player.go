package model

import "time"

// ConnectionStatus is a player's transport-level connection state (§3.4).
type ConnectionStatus string

const (
	Connected    ConnectionStatus = "connected"
	Disconnected ConnectionStatus = "disconnected"
	Reconnecting ConnectionStatus = "reconnecting"
)

// KnownInfo is one piece of information a player has learned through a
// reveal or card-share ability effect (§3.3 per-player private view).
type KnownInfo struct {
	Kind    string
	Subject string // the player id the information concerns, if any
	Detail  string
	At      time.Time
}

// Player is a participant in a Game. A Player is created on join and
// persists for the game's lifetime; disconnection does not remove it (§3.8).
type Player struct {
	ID          string
	DisplayName string
	IsHost      bool

	Connection      ConnectionStatus
	ConnectionToken string
	LastSeen        time.Time
	LastAckedSeq    int64

	CurrentRoom  RoomID
	CurrentRole  string // character id; empty until role distribution
	OriginalRole string // character id at assignment time, never changes after
	IsLeader     bool
	CanBeHostage bool
	Alive        bool

	Conditions     []string
	CollectedCards []string
	KnownInfo      []KnownInfo

	WasSentAsHostage    bool
	UsurpedLeadersCount int
}

// NewPlayer creates a player in its initial, pre-role-assignment state.
func NewPlayer(id, displayName string, isHost bool) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
		IsHost:      isHost,
		Connection:  Connected,
		LastSeen:    time.Now(),
		Alive:       true,
		CanBeHostage: true,
	}
}

// Public projects the fields visible to every observer in the roster (§3.3).
func (p *Player) Public() PublicPlayerInfo {
	return PublicPlayerInfo{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		IsHost:      p.IsHost,
		Connection:  p.Connection,
		IsLeader:    p.IsLeader,
		Room:        p.CurrentRoom,
	}
}
