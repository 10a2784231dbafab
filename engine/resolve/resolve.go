// Package resolve maps typed object names to item and NPC IDs.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/labyrinth/types"
)

// Candidate is one thing a typed name may refer to.
type Candidate struct {
	ID   string
	Name string
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// tier reports whether a candidate matches the query at one precedence level.
type tier func(c Candidate, query string) bool

// tiers are tried in order; the first tier with any hit wins.
var tiers = []tier{
	func(c Candidate, q string) bool { return c.ID == q },
	func(c Candidate, q string) bool { return strings.EqualFold(c.Name, q) },
	func(c Candidate, q string) bool { return strings.Contains(strings.ToLower(c.Name), q) },
	func(c Candidate, q string) bool { return strings.Contains(strings.ToLower(c.ID), q) },
}

// Match returns the ID of the best candidate for query. Ties within a
// tier go to the earliest candidate, so callers control precedence by
// the order they build the slice in.
func Match(query string, cands []Candidate) (string, error) {
	if query == "" {
		return "", &NotFoundError{Name: query}
	}
	lower := strings.ToLower(query)
	for i, t := range tiers {
		q := lower
		if i == 0 {
			q = query
		}
		for _, c := range cands {
			if t(c, q) {
				return c.ID, nil
			}
		}
	}
	return "", &NotFoundError{Name: query}
}

// Items builds candidates from items, keeping their order.
func Items(items []*types.Item) []Candidate {
	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		out = append(out, Candidate{ID: it.ID, Name: it.Name})
	}
	return out
}

// Inventory builds candidates from a character's inventory in carry order.
func Inventory(w *types.World, c *types.Character) []Candidate {
	out := make([]Candidate, 0, len(c.Inventory))
	for _, id := range c.Inventory {
		name := id
		if it := w.Items[id]; it != nil {
			name = it.Name
		}
		out = append(out, Candidate{ID: id, Name: name})
	}
	return out
}

// NPCs builds candidates from NPCs, keeping their order.
func NPCs(npcs []*types.NPC) []Candidate {
	out := make([]Candidate, 0, len(npcs))
	for _, n := range npcs {
		out = append(out, Candidate{ID: n.ID, Name: n.Name})
	}
	return out
}
