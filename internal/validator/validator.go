package validator

import (
	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/model"
)

// auth names the authorization class a command requires (§6.1's
// Authorization column).
type auth int

const (
	authAnonymous auth = iota
	authSelf
	authHost
	authRoomMember
	authCurrentLeader
	authNone // legal-phase check only, e.g. a brand-new game has no host yet
)

// legalPhase reports whether p satisfies a command's Legal phases column.
type legalPhase func(p model.Phase) bool

func phaseIs(p model.Phase) legalPhase {
	return func(q model.Phase) bool { return q == p }
}

func phaseIn(phases ...model.Phase) legalPhase {
	set := make(map[model.Phase]bool, len(phases))
	for _, p := range phases {
		set[p] = true
	}
	return func(q model.Phase) bool { return set[q] }
}

func anyRoundPhase() legalPhase {
	return model.IsRound
}

func anyPhase() legalPhase {
	return func(model.Phase) bool { return true }
}

// rule inspects (g, cmd) and appends zero or more Issues.
type rule func(g *model.Game, cmd Command, cat *catalogue.Catalogue) []Issue

// spec binds one command type to its legal-phase predicate, its
// authorization class, and any extra action-specific rules (§6.1, §4.3).
type spec struct {
	legal  legalPhase
	auth   auth
	extra  []rule
}

// Validator is phase-indexed and stateless; one instance serves every
// game. The catalogue is consulted only by ROLE_CONFIGURATION rules.
type Validator struct {
	catalogue *catalogue.Catalogue
	specs     map[CommandType]spec
}

// New returns a Validator that checks role-configuration commands against
// cat. cat may be nil if role-configuration commands are never submitted
// (e.g. in tests that only exercise round mechanics).
func New(cat *catalogue.Catalogue) *Validator {
	v := &Validator{catalogue: cat}
	v.specs = map[CommandType]spec{
		CmdCreateGame: {legal: anyPhase(), auth: authAnonymous},
		CmdJoinGame:   {legal: phaseIs(model.PhaseLobby), auth: authAnonymous, extra: []rule{ruleJoinGame}},
		CmdLeaveGame:  {legal: anyPhase(), auth: authSelf},

		CmdLockRoom:   {legal: phaseIs(model.PhaseLobby), auth: authHost, extra: []rule{rulePlayerCountBounds}},
		CmdUnlockRoom: {legal: phaseIs(model.PhaseLocked), auth: authHost},

		CmdSelectRoles:  {legal: phaseIn(model.PhaseLocked, model.PhaseRoleSelection), auth: authHost, extra: []rule{ruleSelectRoles}},
		CmdSetRounds:    {legal: phaseIn(model.PhaseLocked, model.PhaseRoleSelection), auth: authHost, extra: []rule{ruleSetRounds}},
		CmdConfirmRoles: {legal: phaseIs(model.PhaseRoleSelection), auth: authHost, extra: []rule{ruleConfirmRoles}},
		CmdStartGame:    {legal: phaseIs(model.PhaseRoomAssignment), auth: authHost},

		CmdNominateLeader:        {legal: anyRoundPhase(), auth: authRoomMember, extra: []rule{ruleRoomMatches}},
		CmdInitiateNewLeaderVote: {legal: anyRoundPhase(), auth: authRoomMember, extra: []rule{ruleRoomMatches, ruleNotRound1}},
		CmdVoteUsurp:             {legal: anyRoundPhase(), auth: authRoomMember, extra: []rule{ruleRoomMatches}},
		CmdAbdicate:              {legal: anyRoundPhase(), auth: authCurrentLeader, extra: []rule{ruleRoomMatches}},
		CmdSelectHostage:         {legal: anyRoundPhase(), auth: authCurrentLeader, extra: []rule{ruleRoomMatches, ruleHostageTarget}},
		CmdLockHostages:          {legal: anyRoundPhase(), auth: authCurrentLeader, extra: []rule{ruleRoomMatches}},

		CmdCardShare:     {legal: anyRoundPhase(), auth: authRoomMember, extra: []rule{ruleShareTargetSameRoom}},
		CmdColorShare:    {legal: anyRoundPhase(), auth: authRoomMember, extra: []rule{ruleShareTargetSameRoom}},
		CmdPrivateReveal: {legal: anyRoundPhase(), auth: authRoomMember, extra: []rule{ruleShareTargetSameRoom}},
		CmdPublicReveal:  {legal: anyRoundPhase(), auth: authRoomMember},

		CmdActivateAbility: {legal: anyRoundPhase(), auth: authRoomMember},
	}
	return v
}

// Validate runs every applicable predicate for cmd against g and returns
// the combined Result. Unknown command types are rejected as invalid
// state, since no legal phase is defined for them.
func (v *Validator) Validate(g *model.Game, cmd Command) Result {
	s, ok := v.specs[cmd.Type]
	if !ok {
		return Result{Issues: []Issue{errorIssue(CodeInvalidState, "unknown command type")}}
	}

	var issues []Issue

	if s.legal != nil && !s.legal(g.State.Public.Phase) {
		issues = append(issues, errorIssue(CodeInvalidState,
			"command "+string(cmd.Type)+" is not legal in phase "+string(g.State.Public.Phase)))
	}

	if issue, ok := v.checkAuth(g, cmd, s.auth); !ok {
		issues = append(issues, issue)
	}

	for _, r := range s.extra {
		issues = append(issues, r(g, cmd, v.catalogue)...)
	}

	return Result{Issues: issues}
}

func (v *Validator) checkAuth(g *model.Game, cmd Command, a auth) (Issue, bool) {
	switch a {
	case authAnonymous, authNone:
		return Issue{}, true
	case authSelf:
		if _, ok := g.Players[cmd.PlayerID]; !ok {
			return errorIssue(CodeUnauthorized, "unknown player"), false
		}
		return Issue{}, true
	case authHost:
		if !g.IsHost(cmd.PlayerID) {
			return errorIssue(CodeUnauthorized, "command requires host privileges"), false
		}
		return Issue{}, true
	case authRoomMember:
		room := cmd.StringPayload("roomId")
		if room == "" {
			room = string(g.RoomOf(cmd.PlayerID))
		}
		rs := g.Room(model.RoomID(room))
		if rs == nil || !rs.HasMember(cmd.PlayerID) {
			return errorIssue(CodeUnauthorized, "player is not a member of the room"), false
		}
		return Issue{}, true
	case authCurrentLeader:
		room := model.RoomID(cmd.StringPayload("roomId"))
		if room == "" {
			room = g.RoomOf(cmd.PlayerID)
		}
		rs := g.Room(room)
		if rs == nil || rs.LeaderID != cmd.PlayerID {
			return errorIssue(CodeUnauthorized, "command requires the room's current leader"), false
		}
		return Issue{}, true
	default:
		return errorIssue(CodeUnauthorized, "unrecognized authorization class"), false
	}
}
