package validator

import "time"

// CommandType names one of the typed external commands (§6.1).
type CommandType string

const (
	CmdCreateGame             CommandType = "CREATE_GAME"
	CmdJoinGame               CommandType = "JOIN_GAME"
	CmdLeaveGame              CommandType = "LEAVE_GAME"
	CmdLockRoom               CommandType = "LOCK_ROOM"
	CmdUnlockRoom             CommandType = "UNLOCK_ROOM"
	CmdSelectRoles            CommandType = "SELECT_ROLES"
	CmdSetRounds              CommandType = "SET_ROUNDS"
	CmdConfirmRoles           CommandType = "CONFIRM_ROLES"
	CmdStartGame              CommandType = "START_GAME"
	CmdNominateLeader         CommandType = "NOMINATE_LEADER"
	CmdInitiateNewLeaderVote  CommandType = "INITIATE_NEW_LEADER_VOTE"
	CmdVoteUsurp              CommandType = "VOTE_USURP"
	CmdAbdicate               CommandType = "ABDICATE"
	CmdSelectHostage          CommandType = "SELECT_HOSTAGE"
	CmdLockHostages           CommandType = "LOCK_HOSTAGES"
	CmdCardShare              CommandType = "CARD_SHARE"
	CmdColorShare             CommandType = "COLOR_SHARE"
	CmdPrivateReveal          CommandType = "PRIVATE_REVEAL"
	CmdPublicReveal           CommandType = "PUBLIC_REVEAL"
	CmdActivateAbility        CommandType = "ACTIVATE_ABILITY"
)

// Command is a typed external message submitted by the transport adapter
// on behalf of an authenticated player (§6.1).
type Command struct {
	Type      CommandType
	PlayerID  string
	Payload   map[string]any
	Timestamp time.Time
}

// StringPayload reads a string field from Payload, returning "" if absent
// or of the wrong type.
func (c Command) StringPayload(key string) string {
	v, ok := c.Payload[key].(string)
	if !ok {
		return ""
	}
	return v
}

// StringSlicePayload reads a []string field from Payload.
func (c Command) StringSlicePayload(key string) []string {
	raw, ok := c.Payload[key].([]string)
	if ok {
		return raw
	}
	anySlice, ok := c.Payload[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(anySlice))
	for _, v := range anySlice {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IntPayload reads an int field from Payload.
func (c Command) IntPayload(key string) (int, bool) {
	switch v := c.Payload[key].(type) {
	case int:
		return v, true
	case float64: // typical decoded-JSON shape
		return int(v), true
	default:
		return 0, false
	}
}

// BoolPayload reads a bool field from Payload.
func (c Command) BoolPayload(key string) bool {
	v, _ := c.Payload[key].(bool)
	return v
}
