package state

import (
	"slices"

	"github.com/nathoo/labyrinth/types"
)

// HasItem reports whether the character carries the item.
func HasItem(c *types.Character, itemID string) bool {
	return slices.Contains(c.Inventory, itemID)
}

// AddToInventory puts an item into a character's inventory. It fails,
// leaving everything unchanged, when the inventory is full or the item
// does not exist. Items already carried are left where they are.
func AddToInventory(w *types.World, c *types.Character, itemID string) bool {
	it := w.Items[itemID]
	if it == nil {
		return false
	}
	if HasItem(c, itemID) {
		return true
	}
	if len(c.Inventory) >= c.Capacity {
		return false
	}
	// An item is referenced by exactly one inventory list.
	for _, n := range w.NPCs {
		if &n.Character != c {
			RemoveFromInventory(&n.Character, itemID)
		}
	}
	c.Inventory = append(c.Inventory, itemID)
	it.Location = types.LocInventory
	return true
}

// RemoveFromInventory drops the item from the character's list. It
// reports whether the item was there.
func RemoveFromInventory(c *types.Character, itemID string) bool {
	i := slices.Index(c.Inventory, itemID)
	if i < 0 {
		return false
	}
	c.Inventory = slices.Delete(c.Inventory, i, i+1)
	return true
}

// MoveItem relocates an item to dest, taking it out of c's inventory and
// out of any NPC's. c may be nil.
func MoveItem(w *types.World, c *types.Character, itemID, dest string) bool {
	it := w.Items[itemID]
	if it == nil {
		return false
	}
	if c != nil {
		RemoveFromInventory(c, itemID)
	}
	for _, n := range w.NPCs {
		RemoveFromInventory(&n.Character, itemID)
	}
	it.Location = dest
	return true
}

// ReleaseOrphans returns items tagged "inventory" that no listed
// character carries to their origin. It restores the inventory invariant
// after a character's list is replaced wholesale.
func ReleaseOrphans(w *types.World, holders ...*types.Character) []string {
	held := map[string]bool{}
	for _, c := range holders {
		for _, id := range c.Inventory {
			held[id] = true
		}
	}
	for _, n := range w.NPCs {
		for _, id := range n.Inventory {
			held[id] = true
		}
	}
	var moved []string
	for _, id := range w.ItemOrder {
		it := w.Items[id]
		if it.Location != types.LocInventory || held[id] {
			continue
		}
		dest := it.Origin
		if dest == "" || dest == types.LocInventory {
			dest = types.LocHidden
		}
		it.Location = dest
		moved = append(moved, id)
	}
	return moved
}

// SpendMagic deducts magic points if the player has enough.
func SpendMagic(p *types.Player, cost int) bool {
	if cost < 0 || p.MagicPoints < cost {
		return false
	}
	p.MagicPoints -= cost
	return true
}

// HasAbility reports whether the player has an ability tag.
func HasAbility(p *types.Player, tag string) bool {
	return slices.Contains(p.Abilities, tag)
}

// GrantAbility adds an ability tag once.
func GrantAbility(p *types.Player, tag string) {
	if !HasAbility(p, tag) {
		p.Abilities = append(p.Abilities, tag)
	}
}
