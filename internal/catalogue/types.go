// Package catalogue loads and validates the character catalogue (§3.5, §4.1).
// A Catalogue is immutable once loaded and may be shared freely across games.
package catalogue

// TeamColour is the closed enum carried on characters and used by
// win-condition evaluation (glossary).
type TeamColour string

const (
	Blue   TeamColour = "blue"
	Red    TeamColour = "red"
	Grey   TeamColour = "grey"
	Green  TeamColour = "green"
	Purple TeamColour = "purple"
	Black  TeamColour = "black"
	Pink   TeamColour = "pink"
)

func (t TeamColour) valid() bool {
	switch t {
	case Blue, Red, Grey, Green, Purple, Black, Pink:
		return true
	default:
		return false
	}
}

// CharacterClass distinguishes protagonist/antagonist designators from
// ordinary cards (glossary).
type CharacterClass string

const (
	ClassPrimary CharacterClass = "PRIMARY"
	ClassBackup  CharacterClass = "BACKUP"
	ClassRegular CharacterClass = "REGULAR"
)

// Ability is one data-only ability entry on a Character (§3.5). Evaluation
// is delegated entirely to an ability engine; the core never interprets
// these fields itself.
type Ability struct {
	Trigger    string
	Effect     string
	Targeting  string
	UsageLimit int // 0 means unlimited
	Conditions []string
	Parameters map[string]any
	Priority   int // lower fires first when multiple abilities fire on the same event
}

// WinCondition is a typed predicate attached to a Character (§3.5).
type WinCondition struct {
	Type       string
	Priority   int
	Overrides  bool // whether this overrides team victory
	Parameters map[string]any
}

// Character is one entry in the catalogue (§3.5).
type Character struct {
	ID                string
	DisplayName       string
	Team              TeamColour
	Class             CharacterClass
	Description       string
	Complexity        int // 1-5
	Requires          []string // character ids that must also be in the deck
	MutuallyExclusive []string // character ids forbidden alongside this one
	Abilities         []Ability
	WinConditions     []WinCondition
}
