package model

import "fmt"

// Phase is the top-level state of a Game's state machine (§4.2).
type Phase string

const (
	PhaseLobby            Phase = "LOBBY"
	PhaseLocked           Phase = "LOCKED"
	PhaseRoleSelection    Phase = "ROLE_SELECTION"
	PhaseRoleDistribution Phase = "ROLE_DISTRIBUTION"
	PhaseRoomAssignment   Phase = "ROOM_ASSIGNMENT"
	PhaseResolution       Phase = "RESOLUTION"
	PhaseFinished         Phase = "FINISHED"
)

// RoundPhase builds the ROUND_k phase for round k.
func RoundPhase(k int) Phase {
	return Phase(fmt.Sprintf("ROUND_%d", k))
}

// RoundNumber reports whether p is a ROUND_k phase and, if so, k.
func RoundNumber(p Phase) (int, bool) {
	var k int
	n, err := fmt.Sscanf(string(p), "ROUND_%d", &k)
	if err != nil || n != 1 {
		return 0, false
	}
	return k, true
}

// IsRound reports whether p is any ROUND_k phase.
func IsRound(p Phase) bool {
	_, ok := RoundNumber(p)
	return ok
}

// Trigger names a state-machine edge (§4.2).
type Trigger string

const (
	TriggerLockRoom            Trigger = "lock_room"
	TriggerUnlockRoom          Trigger = "unlock_room"
	TriggerStartRoleSelection  Trigger = "start_role_selection"
	TriggerCancelRoleSelection Trigger = "cancel_role_selection"
	TriggerConfirmRoles        Trigger = "confirm_roles"
	TriggerRolesDistributed    Trigger = "roles_distributed"
	TriggerStartGame           Trigger = "start_game"
	TriggerRoundComplete       Trigger = "round_complete"
	TriggerInstantWin          Trigger = "instant_win"
	TriggerWinConditionsResolved Trigger = "win_conditions_resolved"
)
