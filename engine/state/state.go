// Package state is the world store: lookup, placement and flag primitives
// over types.World. It keeps the ordered indexes and item-location
// invariants intact; it has no game behavior of its own.
package state

import "github.com/nathoo/labyrinth/types"

// Defaults applied to new worlds and players.
const (
	DefaultHealth        = 100
	DefaultInventorySize = 10
	DefaultMagicPoints   = 50
	DefaultDayCycle      = "day"
	DefaultWeather       = "clear"
	DefaultPlayerName    = "The Wanderer"
)

// NewWorld creates an empty world with default settings.
func NewWorld(name string) *types.World {
	return &types.World{
		Name:          name,
		Rooms:         map[string]*types.Room{},
		Items:         map[string]*types.Item{},
		Flags:         map[string]bool{},
		Progress:      map[string][]string{},
		PlayerHealth:  DefaultHealth,
		InventorySize: DefaultInventorySize,
		DayCycle:      DefaultDayCycle,
		Weather:       DefaultWeather,
	}
}

// AddRoom registers a room. Re-adding an ID replaces the room but keeps
// its position in RoomOrder.
func AddRoom(w *types.World, r *types.Room) {
	if r.Exits == nil {
		r.Exits = map[string]types.Connection{}
	}
	if _, ok := w.Rooms[r.ID]; !ok {
		w.RoomOrder = append(w.RoomOrder, r.ID)
	}
	w.Rooms[r.ID] = r
}

// AddItem registers an item. The first location it is given becomes its
// origin.
func AddItem(w *types.World, it *types.Item) {
	if it.Properties == nil {
		it.Properties = map[string]string{}
	}
	if it.Location == "" {
		it.Location = types.LocHidden
	}
	if it.Origin == "" {
		it.Origin = it.Location
	}
	if _, ok := w.Items[it.ID]; !ok {
		w.ItemOrder = append(w.ItemOrder, it.ID)
	}
	w.Items[it.ID] = it
}

// AddNPC registers an NPC, replacing any NPC with the same ID in place.
func AddNPC(w *types.World, n *types.NPC) {
	if n.State == "" {
		n.State = types.DefaultNPCState
	}
	if n.Capacity == 0 {
		n.Capacity = DefaultInventorySize
	}
	if n.Behaviors == nil {
		n.Behaviors = map[string]types.Behavior{}
	}
	if n.Dialogue == nil {
		n.Dialogue = map[string]map[string]*types.DialogueNode{}
	}
	for i, existing := range w.NPCs {
		if existing.ID == n.ID {
			w.NPCs[i] = n
			return
		}
	}
	w.NPCs = append(w.NPCs, n)
}

// Room returns the room with the given ID, or nil.
func Room(w *types.World, id string) *types.Room {
	return w.Rooms[id]
}

// Item returns the item with the given ID, or nil.
func Item(w *types.World, id string) *types.Item {
	return w.Items[id]
}

// NPC returns the NPC with the given ID, or nil.
func NPC(w *types.World, id string) *types.NPC {
	for _, n := range w.NPCs {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// ItemName returns the display name of an item, falling back to its ID.
func ItemName(w *types.World, id string) string {
	if it := w.Items[id]; it != nil && it.Name != "" {
		return it.Name
	}
	return id
}

// ItemsAt returns the items whose location equals loc, in definition order.
func ItemsAt(w *types.World, loc string) []*types.Item {
	var out []*types.Item
	for _, id := range w.ItemOrder {
		if it := w.Items[id]; it != nil && it.Location == loc {
			out = append(out, it)
		}
	}
	return out
}

// NPCsIn returns the NPCs currently in a room, in list order.
func NPCsIn(w *types.World, roomID string) []*types.NPC {
	var out []*types.NPC
	for _, n := range w.NPCs {
		if n.Room == roomID {
			out = append(out, n)
		}
	}
	return out
}

// Flag returns the value of a flag. Unset flags are false.
func Flag(w *types.World, name string) bool {
	return w.Flags[name]
}

// SetFlag sets a flag.
func SetFlag(w *types.World, name string, v bool) {
	if w.Flags == nil {
		w.Flags = map[string]bool{}
	}
	w.Flags[name] = v
}

// Progress returns the accumulated tokens recorded for a puzzle.
func Progress(w *types.World, id string) []string {
	return w.Progress[id]
}

// AppendProgress records one more token for a puzzle and returns the
// full sequence.
func AppendProgress(w *types.World, id, token string) []string {
	if w.Progress == nil {
		w.Progress = map[string][]string{}
	}
	w.Progress[id] = append(w.Progress[id], token)
	return w.Progress[id]
}

// ClearProgress forgets the tokens recorded for a puzzle.
func ClearProgress(w *types.World, id string) {
	delete(w.Progress, id)
}

// NewPlayer creates the session's player in the start room, carrying the
// world's starting inventory.
func NewPlayer(w *types.World) *types.Player {
	p := &types.Player{
		Character: types.Character{
			ID:       "player",
			Name:     DefaultPlayerName,
			Room:     w.Start,
			Health:   w.PlayerHealth,
			Capacity: w.InventorySize,
		},
		MagicPoints: DefaultMagicPoints,
	}
	for _, id := range w.StartInventory {
		if w.Items[id] != nil {
			AddToInventory(w, &p.Character, id)
		}
	}
	return p
}
