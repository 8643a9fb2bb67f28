package validator

import (
	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/model"
	"github.com/oakwood/tworooms/internal/round"
)

// ruleRoomMatches rejects a roomId payload that doesn't match a room the
// caller actually sits in, catching cross-room spoofing at validation time
// rather than leaving it to the Round Engine.
func ruleRoomMatches(g *model.Game, cmd Command, _ *catalogue.Catalogue) []Issue {
	room := model.RoomID(cmd.StringPayload("roomId"))
	if room == "" {
		return nil // caller's own room is implied; authCurrentLeader/authRoomMember already checked it
	}
	if g.RoomOf(cmd.PlayerID) != room {
		return []Issue{errorIssue(CodeWrongRoom, "player is not seated in the named room")}
	}
	return nil
}

// ruleNotRound1 blocks a new leader vote for the whole of round 1 (§4.2's
// leader-election sequence assumes round 1 elects the first leader through
// nomination, not a contested re-vote).
func ruleNotRound1(g *model.Game, _ Command, _ *catalogue.Catalogue) []Issue {
	if g.State.Public.CurrentRound <= 1 {
		return []Issue{errorIssue(CodeInvalidState, "a new leader vote cannot be initiated during round 1")}
	}
	return nil
}

// ruleHostageTarget requires a concrete, in-room, non-leader target and
// enforces the §4.4.1/§8.3 hostage count via round.HostageCount, the same
// function the Round Engine consults.
func ruleHostageTarget(g *model.Game, cmd Command, _ *catalogue.Catalogue) []Issue {
	target := cmd.StringPayload("targetPlayerId")
	if target == "" {
		return []Issue{errorIssue(CodeMissingTarget, "targetPlayerId is required")}
	}
	room := g.RoomOf(cmd.PlayerID)
	rs := g.Room(room)
	if rs == nil || !rs.HasMember(target) {
		return []Issue{errorIssue(CodeWrongRoom, "hostage target must be seated in the leader's room")}
	}
	if p, ok := g.Players[target]; ok && p.IsLeader {
		return []Issue{errorIssue(CodeInvalidState, "the room's leader cannot be selected as a hostage")}
	}

	already := false
	for _, id := range rs.HostageCandidates {
		if id == target {
			already = true
			break
		}
	}
	required := round.HostageCount(g.PlayerCount(), g.State.Public.CurrentRound)
	if !already && len(rs.HostageCandidates) >= required {
		return []Issue{errorIssue(CodeLimitReached, "the room has already selected its required number of hostages")}
	}
	return nil
}

// ruleShareTargetSameRoom requires card/color/private-reveal targets to sit
// in the same room as the initiator (§6.1's room-scoped information-sharing
// commands; cross-room leaks are a hostage-exchange event, not a share).
func ruleShareTargetSameRoom(g *model.Game, cmd Command, _ *catalogue.Catalogue) []Issue {
	target := cmd.StringPayload("targetPlayerId")
	if target == "" {
		return []Issue{errorIssue(CodeMissingTarget, "targetPlayerId is required")}
	}
	if g.RoomOf(cmd.PlayerID) != g.RoomOf(target) {
		return []Issue{errorIssue(CodeWrongRoom, "share target must be in the same room as the initiator")}
	}
	return nil
}
