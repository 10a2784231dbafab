package script

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Ensure is an idempotent repair step. Applying it to a world that is
// already correct changes nothing.
type Ensure interface {
	Apply(w *types.World)
}

// EnsureItem keeps an item present and in its home room. The item may
// also be carried or sit in one of the Keep locations. A gated item stays
// hidden until its Gate flag is set. A Loose item is only recreated when
// missing; once it exists it may be anywhere.
type EnsureItem struct {
	Item  types.Item
	Home  string
	Gate  string
	Keep  []string
	Loose bool
}

// Apply implements Ensure.
func (e EnsureItem) Apply(w *types.World) {
	open := e.Gate == "" || state.Flag(w, e.Gate)
	it := state.Item(w, e.Item.ID)
	if it == nil {
		fresh := e.Item
		fresh.Properties = maps.Clone(e.Item.Properties)
		fresh.Location = types.LocHidden
		if open {
			fresh.Location = e.Home
		}
		fresh.Origin = e.Home
		state.AddItem(w, &fresh)
		slog.Info("recreated missing item", "item", fresh.ID, "location", fresh.Location)
		return
	}

	if it.Location == types.LocInventory {
		return
	}
	want := it.Location
	switch {
	case !open:
		want = types.LocHidden
	case e.Loose:
	case it.Location != e.Home && !slices.Contains(e.Keep, it.Location):
		want = e.Home
	}
	if want != it.Location {
		slog.Info("re-homed item", "item", it.ID, "from", it.Location, "to", want)
		it.Location = want
	}
}

// EnsureNPC keeps an NPC present and pins it to its home room.
type EnsureNPC struct {
	NPC  types.NPC
	Home string
}

// Apply implements Ensure.
func (e EnsureNPC) Apply(w *types.World) {
	n := state.NPC(w, e.NPC.ID)
	if n == nil {
		fresh := e.NPC
		fresh.Room = e.Home
		fresh.Home = e.Home
		fresh.Inventory = nil
		state.AddNPC(w, &fresh)
		slog.Info("recreated missing npc", "npc", fresh.ID, "room", e.Home)
		return
	}
	n.Home = e.Home
	if n.Room != e.Home {
		slog.Info("re-homed npc", "npc", n.ID, "from", n.Room, "to", e.Home)
		n.Room = e.Home
	}
}
