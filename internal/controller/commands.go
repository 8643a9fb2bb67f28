package controller

import "github.com/oakwood/tworooms/internal/validator"

// Command and CommandType are re-exported from internal/validator so that
// callers of this package never need to import it directly (§4.7, §6.1).
type Command = validator.Command
type CommandType = validator.CommandType

const (
	CmdLeaveGame              = validator.CmdLeaveGame
	CmdLockRoom               = validator.CmdLockRoom
	CmdUnlockRoom             = validator.CmdUnlockRoom
	CmdSelectRoles            = validator.CmdSelectRoles
	CmdSetRounds              = validator.CmdSetRounds
	CmdConfirmRoles           = validator.CmdConfirmRoles
	CmdStartGame              = validator.CmdStartGame
	CmdNominateLeader         = validator.CmdNominateLeader
	CmdInitiateNewLeaderVote  = validator.CmdInitiateNewLeaderVote
	CmdVoteUsurp              = validator.CmdVoteUsurp
	CmdAbdicate               = validator.CmdAbdicate
	CmdSelectHostage          = validator.CmdSelectHostage
	CmdLockHostages           = validator.CmdLockHostages
	CmdCardShare              = validator.CmdCardShare
	CmdColorShare             = validator.CmdColorShare
	CmdPrivateReveal          = validator.CmdPrivateReveal
	CmdPublicReveal           = validator.CmdPublicReveal
	CmdActivateAbility        = validator.CmdActivateAbility
)
