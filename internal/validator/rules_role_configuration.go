package validator

import (
	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/model"
)

// ruleSetRounds enforces totalRounds ∈ {3,5} (§3.2).
func ruleSetRounds(_ *model.Game, cmd Command, _ *catalogue.Catalogue) []Issue {
	n, ok := cmd.IntPayload("totalRounds")
	if !ok || (n != 3 && n != 5) {
		return []Issue{errorIssue(CodeInvalidState, "totalRounds must be 3 or 5")}
	}
	return nil
}

// ruleSelectRoles validates a proposed deck (roles) against the catalogue:
// every primary must be present, every dependency must resolve within the
// deck, and no mutually-exclusive pair may both appear.
func ruleSelectRoles(g *model.Game, cmd Command, cat *catalogue.Catalogue) []Issue {
	return validateDeck(g, cmd.StringSlicePayload("roles"), cat)
}

// ruleConfirmRoles requires that roles were already proposed via
// SELECT_ROLES before confirmation, and re-runs the same deck validation
// ruleSelectRoles performs: a LEAVE_GAME between SELECT_ROLES and
// CONFIRM_ROLES can change playerCount, so the deck size check must be
// re-checked against the current roster rather than trusted from whenever
// it was first proposed (§4.2 "confirm_roles" guard).
func ruleConfirmRoles(g *model.Game, _ Command, cat *catalogue.Catalogue) []Issue {
	if len(g.Config.SelectedRoles) == 0 {
		return []Issue{errorIssue(CodeInvalidState, "no roles have been selected yet")}
	}
	return validateDeck(g, g.Config.SelectedRoles, cat)
}

// validateDeck is the shared ROLE_CONFIGURATION deck check behind both
// SELECT_ROLES and CONFIRM_ROLES: every primary present, deck size matches
// playerCount (or playerCount+1 for a buried card), every `requires`
// dependency resolves within the deck, no `mutuallyExclusive` pair both
// appear, and blue/red team counts don't differ by more than 2.
func validateDeck(g *model.Game, ids []string, cat *catalogue.Catalogue) []Issue {
	if cat == nil {
		return []Issue{errorIssue(CodeInvalidState, "no character catalogue is configured")}
	}

	deck := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := cat.Lookup(id); !ok {
			return []Issue{errorIssue(CodeMissingDependency, "unknown character id: "+id)}
		}
		deck[id] = true
	}

	var issues []Issue

	for _, primary := range cat.Primaries() {
		if !deck[primary.ID] {
			issues = append(issues, errorIssue(CodeMissingPrimary, "deck is missing required character: "+primary.ID))
		}
	}

	n := g.PlayerCount()
	if len(ids) != n && len(ids) != n+1 {
		issues = append(issues, errorIssue(CodeRoleCountMismatch,
			"deck size must equal player count, or player count plus one when a card is buried"))
	}

	for id := range deck {
		c, _ := cat.Lookup(id)
		for _, req := range c.Requires {
			if !deck[req] {
				issues = append(issues, errorIssue(CodeMissingDependency,
					c.ID+" requires "+req+" to be in the deck"))
			}
		}
		for _, excl := range c.MutuallyExclusive {
			if deck[excl] {
				issues = append(issues, errorIssue(CodeMutuallyExclusive,
					c.ID+" and "+excl+" cannot both be in the deck"))
			}
		}
	}

	blue, red := 0, 0
	for id := range deck {
		c, _ := cat.Lookup(id)
		switch c.Team {
		case catalogue.Blue:
			blue++
		case catalogue.Red:
			red++
		}
	}
	if diff := blue - red; diff > 2 || diff < -2 {
		issues = append(issues, warningIssue(CodeTeamImbalance, "blue/red team counts differ by more than 2"))
	}

	return issues
}
