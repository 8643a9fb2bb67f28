package catalogue

import (
	"fmt"
	"sort"
)

// Catalogue is an immutable, validated set of Characters, keyed by id
// (§4.1). It is loaded once at startup and shared read-only thereafter.
type Catalogue struct {
	byID map[string]Character
	ids  []string // sorted by id, for stable iteration
}

// Load validates entries and returns an immutable Catalogue. Validation
// rules (§4.1): non-empty id, unique id, team colour in the closed enum,
// complexity in 1-5, and every id referenced by Requires/MutuallyExclusive
// must also be present in entries.
func Load(entries []Character) (*Catalogue, error) {
	byID := make(map[string]Character, len(entries))
	ids := make([]string, 0, len(entries))

	for _, c := range entries {
		if c.ID == "" {
			return nil, fmt.Errorf("catalogue: entry has empty id")
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("catalogue: duplicate character id %q", c.ID)
		}
		if !c.Team.valid() {
			return nil, fmt.Errorf("catalogue: character %q has invalid team colour %q", c.ID, c.Team)
		}
		if c.Complexity < 1 || c.Complexity > 5 {
			return nil, fmt.Errorf("catalogue: character %q has complexity %d, want 1-5", c.ID, c.Complexity)
		}
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	for _, c := range entries {
		for _, req := range c.Requires {
			if _, ok := byID[req]; !ok {
				return nil, fmt.Errorf("catalogue: character %q requires unknown id %q", c.ID, req)
			}
		}
		for _, ex := range c.MutuallyExclusive {
			if _, ok := byID[ex]; !ok {
				return nil, fmt.Errorf("catalogue: character %q excludes unknown id %q", c.ID, ex)
			}
		}
	}

	sort.Strings(ids)
	return &Catalogue{byID: byID, ids: ids}, nil
}

// Lookup returns the Character with the given id.
func (c *Catalogue) Lookup(id string) (Character, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// All returns every character, in a stable (id-sorted) order.
func (c *Catalogue) All() []Character {
	out := make([]Character, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// FilterByTeam returns every character on the given team, in a stable
// order.
func (c *Catalogue) FilterByTeam(team TeamColour) []Character {
	var out []Character
	for _, id := range c.ids {
		if ch := c.byID[id]; ch.Team == team {
			out = append(out, ch)
		}
	}
	return out
}

// FilterByMaxComplexity returns every character with Complexity <= max.
func (c *Catalogue) FilterByMaxComplexity(max int) []Character {
	var out []Character
	for _, id := range c.ids {
		if ch := c.byID[id]; ch.Complexity <= max {
			out = append(out, ch)
		}
	}
	return out
}

// Primaries returns every PRIMARY-class character. A deck must include
// every one of these (§4.3, §9 "identifying required characters") rather
// than two hard-coded ids.
func (c *Catalogue) Primaries() []Character {
	return c.filterByClass(ClassPrimary)
}

func (c *Catalogue) filterByClass(class CharacterClass) []Character {
	var out []Character
	for _, id := range c.ids {
		if ch := c.byID[id]; ch.Class == class {
			out = append(out, ch)
		}
	}
	return out
}

// Size returns the number of characters in the catalogue.
func (c *Catalogue) Size() int {
	return len(c.ids)
}
