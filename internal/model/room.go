package model

// RoomID identifies one of the two rooms a game's players are split across.
type RoomID string

const (
	RoomA RoomID = "A"
	RoomB RoomID = "B"
	NoRoom RoomID = ""
)

// Other returns the opposite room to r. Other(NoRoom) is NoRoom.
func (r RoomID) Other() RoomID {
	switch r {
	case RoomA:
		return RoomB
	case RoomB:
		return RoomA
	default:
		return NoRoom
	}
}

// RoomState is the per-room slice of GameState (§3.3).
type RoomState struct {
	Members []string // ordered player ids, membership order is insignificant beyond stability
	LeaderID string  // empty if no leader yet

	LeaderVotes         map[string]string // voter id -> candidate id
	LeaderVotingActive  bool
	LeaderVotingTieCount int

	UsurpVotes map[string]string // voter id -> candidate id, separate ballot from LeaderVotes

	HostageCandidates []string // selected player ids, order-insignificant
	HostagesLocked    bool
	ParlayComplete    bool
}

// NewRoomState returns an empty room ready to receive members.
func NewRoomState() *RoomState {
	return &RoomState{
		Members:    []string{},
		LeaderVotes: map[string]string{},
		UsurpVotes:  map[string]string{},
		HostageCandidates: []string{},
	}
}

// HasMember reports whether playerID is currently seated in this room.
func (r *RoomState) HasMember(playerID string) bool {
	for _, id := range r.Members {
		if id == playerID {
			return true
		}
	}
	return false
}

// RemoveMember removes playerID from Members, if present.
func (r *RoomState) RemoveMember(playerID string) {
	for i, id := range r.Members {
		if id == playerID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return
		}
	}
}

// ClearRoundState resets the fields that are scoped to a single round
// (§4.4.1 "start of round k").
func (r *RoomState) ClearRoundState() {
	r.LeaderVotes = map[string]string{}
	r.UsurpVotes = map[string]string{}
	r.LeaderVotingActive = false
	r.LeaderVotingTieCount = 0
	r.HostageCandidates = []string{}
	r.HostagesLocked = false
	r.ParlayComplete = false
}

// ToggleHostageCandidate adds playerID if absent, removes it if present.
// Returns the resulting membership (true = now a candidate).
func (r *RoomState) ToggleHostageCandidate(playerID string) bool {
	for i, id := range r.HostageCandidates {
		if id == playerID {
			r.HostageCandidates = append(r.HostageCandidates[:i], r.HostageCandidates[i+1:]...)
			return false
		}
	}
	r.HostageCandidates = append(r.HostageCandidates, playerID)
	return true
}
