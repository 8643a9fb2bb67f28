package catalogue

// DefaultCharacters returns the stock roster shipped with the server
// binary. It has no bearing on core semantics: any caller may load its
// own entries through Load instead. The four-way split (leader,
// guardian, assassin, traitor) mirrors the role vocabulary of the
// original card game this system replaces; here it is expressed purely
// through Team/Class/Requires/WinConditions rather than as a distinct
// "role type" enum, since the core only ever reasons about those four
// fields.
func DefaultCharacters() []Character {
	return []Character{
		// Primaries. Exactly one per team; the deck check (§4.3)
		// requires both be present.
		{
			ID:          "president",
			DisplayName: "The President",
			Team:        Blue,
			Class:       ClassPrimary,
			Description: "Leads the blue team. Must survive and stay out of the bomber's room at the exchange.",
			Complexity:  1,
			WinConditions: []WinCondition{
				{Type: "TEAM_MAJORITY", Priority: 0},
			},
		},
		{
			ID:          "bomber",
			DisplayName: "The Bomber",
			Team:        Red,
			Class:       ClassPrimary,
			Description: "Leads the red team. Wins by ending the game in the same room as the president.",
			Complexity:  1,
			WinConditions: []WinCondition{
				{Type: "PRIMARY_COLOCATED", Priority: 10, Overrides: true, Parameters: map[string]any{"target": "president"}},
			},
		},

		// Backups. Stand in if the matching primary never reaches the
		// final exchange, per the original game's "no true leader
		// assigned" contingency.
		{
			ID:                "backup_president",
			DisplayName:       "Deputy Chief of Staff",
			Team:              Blue,
			Class:             ClassBackup,
			Description:       "Counts as president if no card marked president was dealt.",
			Complexity:        2,
			MutuallyExclusive: []string{"president"},
		},
		{
			ID:                "backup_bomber",
			DisplayName:       "Second in Command",
			Team:              Red,
			Class:             ClassBackup,
			Description:       "Counts as bomber if no card marked bomber was dealt.",
			Complexity:        2,
			MutuallyExclusive: []string{"bomber"},
		},

		// Guardians: blue-leaning regulars whose abilities protect or
		// verify the president.
		{
			ID:          "bodyguard",
			DisplayName: "Bodyguard",
			Team:        Blue,
			Class:       ClassRegular,
			Description: "May reveal their role to the president's room to vouch for its safety.",
			Complexity:  2,
			Requires:    []string{"president"},
			Abilities: []Ability{
				{Trigger: "ROUND_START", Effect: "REVEAL_TO_ROOM", Targeting: "SELF", UsageLimit: 1, Priority: 5},
			},
		},
		{
			ID:          "negotiator",
			DisplayName: "Negotiator",
			Team:        Blue,
			Class:       ClassRegular,
			Description: "Once per game, forces a re-vote for room leader in their own room.",
			Complexity:  3,
			Abilities: []Ability{
				{Trigger: "MANUAL", Effect: "FORCE_LEADER_REVOTE", Targeting: "OWN_ROOM", UsageLimit: 1, Priority: 1},
			},
		},
		{
			ID:          "analyst",
			DisplayName: "Intelligence Analyst",
			Team:        Blue,
			Class:       ClassRegular,
			Description: "May privately ask one player to reveal their team colour.",
			Complexity:  2,
			Abilities: []Ability{
				{Trigger: "MANUAL", Effect: "REQUEST_TEAM_REVEAL", Targeting: "SINGLE_PLAYER", UsageLimit: 1, Priority: 5},
			},
		},

		// Assassins and traitors: red-leaning regulars, several with
		// their own overriding win conditions, matching the original
		// game's wide spread of minor-faction cards.
		{
			ID:          "assassin",
			DisplayName: "Assassin",
			Team:        Red,
			Class:       ClassRegular,
			Description: "Wins instead of their team if the president is in their own room at the exchange.",
			Complexity:  3,
			WinConditions: []WinCondition{
				{Type: "SELF_COLOCATED", Priority: 15, Overrides: true, Parameters: map[string]any{"target": "president"}},
			},
		},
		{
			ID:          "saboteur",
			DisplayName: "Saboteur",
			Team:        Red,
			Class:       ClassRegular,
			Description: "May lock an extra hostage slot in their room once per round.",
			Complexity:  3,
			Abilities: []Ability{
				{Trigger: "HOSTAGE_SELECTION", Effect: "RESERVE_HOSTAGE_SLOT", Targeting: "OWN_ROOM", UsageLimit: 1, Priority: 10},
			},
		},
		{
			ID:          "double_agent",
			DisplayName: "Double Agent",
			Team:        Red,
			Class:       ClassRegular,
			Description: "Counts as blue for every vote and reveal, but scores with red at resolution.",
			Complexity:  4,
			Abilities: []Ability{
				{Trigger: "SHARE_ROLE", Effect: "MASK_AS_OPPOSING_TEAM", Targeting: "SELF", Priority: 0},
			},
		},
		{
			ID:                "traitor",
			DisplayName:       "Traitor",
			Team:              Grey,
			Class:             ClassRegular,
			Description:       "Scores with whichever team the president is not on, decided at resolution.",
			Complexity:        4,
			MutuallyExclusive: []string{"double_agent"},
			WinConditions: []WinCondition{
				{Type: "OPPOSITE_OF_PRESIDENT_TEAM", Priority: 5},
			},
		},

		// A small cast of neutral and minor-faction regulars, rounding
		// out the deck for larger player counts.
		{
			ID:          "witness",
			DisplayName: "Witness",
			Team:        Blue,
			Class:       ClassRegular,
			Description: "Sees one other player's role at the start of the game.",
			Complexity:  2,
			Abilities: []Ability{
				{Trigger: "GAME_START", Effect: "REVEAL_RANDOM_ROLE", Targeting: "SINGLE_PLAYER", UsageLimit: 1, Priority: 1},
			},
		},
		{
			ID:          "gambler",
			DisplayName: "Gambler",
			Team:        Red,
			Class:       ClassRegular,
			Description: "May swap hostage slots with another player once, before hostages lock.",
			Complexity:  3,
			Abilities: []Ability{
				{Trigger: "HOSTAGE_SELECTION", Effect: "SWAP_HOSTAGE_SLOT", Targeting: "SINGLE_PLAYER", UsageLimit: 1, Priority: 8},
			},
		},
		{
			ID:          "wildcard",
			DisplayName: "Wildcard",
			Team:        Purple,
			Class:       ClassRegular,
			Description: "Wins alone if ending the game alone in a room.",
			Complexity:  5,
			WinConditions: []WinCondition{
				{Type: "SOLO_ROOM", Priority: 20, Overrides: true},
			},
		},
	}
}

// Default loads and validates DefaultCharacters, panicking on failure.
// It exists for callers (cmd/server, tests) that want a ready catalogue
// without supplying their own entries; since DefaultCharacters is
// static, a load failure here can only be a programming error.
func Default() *Catalogue {
	cat, err := Load(DefaultCharacters())
	if err != nil {
		panic("catalogue: built-in default roster is invalid: " + err.Error())
	}
	return cat
}
