// Package save implements YAML serialization of game state and the stores
// that hold saved games.
package save

import (
	"log/slog"
	"slices"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Version is written into every snapshot.
const Version = 1

// Snapshot is the YAML save format. Sections appear in field order.
type Snapshot struct {
	Version   int         `yaml:"version"`
	Game      string      `yaml:"game"`
	Turn      int         `yaml:"turn"`
	Player    PlayerState `yaml:"player"`
	Inventory []string    `yaml:"inventory"`
	Flags     []Flag      `yaml:"flags"`
	NPCs      []NPCState  `yaml:"npcs"`
	Items     []ItemState `yaml:"items,omitempty"`
	Progress  []Progress  `yaml:"progress,omitempty"`
	Journal   []string    `yaml:"journal,omitempty"`
	RNG       RNGState    `yaml:"rng"`
}

// PlayerState is the player section.
type PlayerState struct {
	Room      string   `yaml:"room"`
	Health    int      `yaml:"health"`
	Magic     int      `yaml:"magic"`
	Abilities []string `yaml:"abilities,omitempty"`
}

// Flag is one name/value pair of the flags section.
type Flag struct {
	Name  string `yaml:"name"`
	Value bool   `yaml:"value"`
}

// NPCState records where an NPC is and what it is doing.
type NPCState struct {
	ID        string   `yaml:"id"`
	Room      string   `yaml:"room"`
	State     string   `yaml:"state"`
	Inventory []string `yaml:"inventory,omitempty"`
}

// ItemState records one item's location.
type ItemState struct {
	ID       string `yaml:"id"`
	Location string `yaml:"location"`
}

// Progress records the tokens of an unfinished sequence puzzle.
type Progress struct {
	ID     string   `yaml:"id"`
	Tokens []string `yaml:"tokens"`
}

// RNGState is enough to replay the random source.
type RNGState struct {
	Seed     int64 `yaml:"seed"`
	Position int64 `yaml:"position"`
}

// Meta carries the session values that live outside the world.
type Meta struct {
	Turn     int
	Seed     int64
	Position int64
}

// Capture snapshots the world and player.
func Capture(w *types.World, p *types.Player, m Meta) *Snapshot {
	s := &Snapshot{
		Version: Version,
		Game:    w.Name,
		Turn:    m.Turn,
		Player: PlayerState{
			Room:      p.Room,
			Health:    p.Health,
			Magic:     p.MagicPoints,
			Abilities: slices.Clone(p.Abilities),
		},
		Inventory: append([]string{}, p.Inventory...),
		Flags:     []Flag{},
		NPCs:      []NPCState{},
		Journal:   slices.Clone(p.Journal),
		RNG:       RNGState{Seed: m.Seed, Position: m.Position},
	}

	names := make([]string, 0, len(w.Flags))
	for name := range w.Flags {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		s.Flags = append(s.Flags, Flag{Name: name, Value: w.Flags[name]})
	}

	for _, n := range w.NPCs {
		s.NPCs = append(s.NPCs, NPCState{
			ID:        n.ID,
			Room:      n.Room,
			State:     n.State,
			Inventory: slices.Clone(n.Inventory),
		})
	}
	for _, id := range w.ItemOrder {
		s.Items = append(s.Items, ItemState{ID: id, Location: w.Items[id].Location})
	}

	ids := make([]string, 0, len(w.Progress))
	for id, tokens := range w.Progress {
		if len(tokens) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.Progress = append(s.Progress, Progress{ID: id, Tokens: slices.Clone(w.Progress[id])})
	}
	return s
}

// Encode renders a snapshot as YAML.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, oops.Wrapf(err, "encoding save")
	}
	return data, nil
}

// Decode parses a YAML snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, oops.Wrapf(err, "decoding save")
	}
	if s.Player.Room == "" {
		return nil, oops.Errorf("save has no player room")
	}
	return &s, nil
}

// Apply restores a snapshot onto w and p. A snapshot that names a room w
// does not have is rejected before anything changes.
//
// Items the snapshot does not mention keep their current location, so a
// save taken against older content still loads.
func Apply(s *Snapshot, w *types.World, p *types.Player) error {
	if state.Room(w, s.Player.Room) == nil {
		return oops.Errorf("save references unknown room %q", s.Player.Room)
	}

	p.Room = s.Player.Room
	p.Health = s.Player.Health
	p.MagicPoints = s.Player.Magic
	p.Abilities = slices.Clone(s.Player.Abilities)
	p.Journal = slices.Clone(s.Journal)

	w.Flags = make(map[string]bool, len(s.Flags))
	for _, f := range s.Flags {
		w.Flags[f.Name] = f.Value
	}
	w.Progress = make(map[string][]string, len(s.Progress))
	for _, pr := range s.Progress {
		w.Progress[pr.ID] = slices.Clone(pr.Tokens)
	}

	for _, is := range s.Items {
		it := state.Item(w, is.ID)
		if it == nil {
			slog.Warn("save mentions unknown item", "item", is.ID)
			continue
		}
		if !validLocation(w, is.Location) {
			slog.Warn("save puts item in unknown location", "item", is.ID, "location", is.Location)
			continue
		}
		it.Location = is.Location
	}

	// The player's list is restored first and wins any item that a
	// hand-edited save also gives to an NPC.
	claimed := map[string]bool{}
	p.Inventory = held(w, s.Inventory, p.Capacity, claimed)

	restored := map[string]bool{}
	for _, ns := range s.NPCs {
		n := state.NPC(w, ns.ID)
		if n == nil {
			slog.Warn("save mentions unknown npc", "npc", ns.ID)
			continue
		}
		if state.Room(w, ns.Room) != nil {
			n.Room = ns.Room
		} else {
			slog.Warn("save puts npc in unknown room", "npc", ns.ID, "room", ns.Room)
		}
		if ns.State != "" {
			n.State = ns.State
		}
		n.Inventory = held(w, ns.Inventory, n.Capacity, claimed)
		restored[n.ID] = true
	}
	for _, n := range w.NPCs {
		if restored[n.ID] {
			continue
		}
		n.Inventory = slices.DeleteFunc(n.Inventory, func(id string) bool {
			it := w.Items[id]
			return claimed[id] || it == nil || it.Location != types.LocInventory
		})
	}

	if moved := state.ReleaseOrphans(w, &p.Character); len(moved) > 0 {
		slog.Debug("returned unheld items to their origin", "items", moved)
	}
	state.SyncPuzzles(w)
	return nil
}

func validLocation(w *types.World, loc string) bool {
	switch loc {
	case types.LocHidden, types.LocInventory, types.LocPlaced:
		return true
	}
	return state.Room(w, loc) != nil
}

// held filters a saved inventory list down to known, unclaimed items
// within capacity, and marks what it keeps as carried. Anything dropped
// here is returned to its origin by ReleaseOrphans.
func held(w *types.World, ids []string, capacity int, claimed map[string]bool) []string {
	out := []string{}
	for _, id := range ids {
		if state.Item(w, id) == nil {
			slog.Warn("save mentions unknown item", "item", id)
			continue
		}
		if claimed[id] {
			continue
		}
		if len(out) >= capacity {
			slog.Warn("save overfills an inventory", "item", id, "capacity", capacity)
			continue
		}
		claimed[id] = true
		out = append(out, id)
		w.Items[id].Location = types.LocInventory
	}
	return out
}
