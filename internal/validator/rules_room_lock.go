package validator

import (
	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/model"
)

const (
	minPlayers = 6
	maxPlayers = 30
)

// ruleJoinGame rejects a join once the lobby is already at maxPlayers or
// playerName is blank.
func ruleJoinGame(g *model.Game, cmd Command, _ *catalogue.Catalogue) []Issue {
	var issues []Issue
	if cmd.StringPayload("playerName") == "" {
		issues = append(issues, errorIssue(CodeInvalidState, "playerName is required"))
	}
	if g.PlayerCount() >= maxPlayers {
		issues = append(issues, errorIssue(CodeTooManyPlayers, "lobby is full"))
	}
	return issues
}

// rulePlayerCountBounds enforces the §3.2 player-count bounds at the point
// the host locks the room.
func rulePlayerCountBounds(g *model.Game, _ Command, _ *catalogue.Catalogue) []Issue {
	n := g.PlayerCount()
	switch {
	case n < minPlayers:
		return []Issue{errorIssue(CodeInsufficientPlayers, "at least 6 players are required to lock the room")}
	case n > maxPlayers:
		return []Issue{errorIssue(CodeTooManyPlayers, "at most 30 players may lock the room")}
	}
	return nil
}
