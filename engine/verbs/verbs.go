// Package verbs is the generic verb registry: the handlers that run when
// no room script claimed a command.
package verbs

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nathoo/labyrinth/engine/dialogue"
	"github.com/nathoo/labyrinth/engine/resolve"
	"github.com/nathoo/labyrinth/engine/script"
	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Handler runs a verb. The parsed object is in c.Object.
type Handler func(c *script.Context)

// Registry maps verbs to handlers.
type Registry struct {
	handlers map[string]Handler
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Default returns the registry with every built-in verb.
func Default() *Registry {
	r := New()
	r.Register(Take, "take", "get")
	r.Register(Drop, "drop")
	r.Register(Examine, "examine", "inspect", "look")
	r.Register(Use, "use")
	r.Register(Read, "read")
	r.Register(Talk, "talk")
	r.Register(Answer, "answer")
	return r
}

// Register binds h to one or more verbs.
func (r *Registry) Register(h Handler, verbs ...string) {
	for _, v := range verbs {
		r.handlers[v] = h
	}
}

// Dispatch runs the handler for c.Verb and reports whether there was one.
func (r *Registry) Dispatch(c *script.Context) bool {
	h, ok := r.handlers[c.Verb]
	if !ok {
		return false
	}
	h(c)
	return true
}

// Take picks up an item in the player's room.
func Take(c *script.Context) {
	if c.Object == "" {
		c.Say("Take what?")
		return
	}
	id, err := resolve.Match(c.Object, resolve.Items(state.ItemsAt(c.World, c.Player.Room)))
	if err != nil {
		c.Say("You don't see that here.")
		return
	}
	if !state.AddToInventory(c.World, &c.Player.Character, id) {
		c.Say("You can't carry any more items.")
		return
	}
	slog.Debug("item taken", "item", id, "room", c.Player.Room)
	c.Say("Taken.")
}

// Drop leaves a carried item in the player's room.
func Drop(c *script.Context) {
	if c.Object == "" {
		c.Say("Drop what?")
		return
	}
	id, err := resolve.Match(c.Object, resolve.Inventory(c.World, &c.Player.Character))
	if err != nil {
		c.Say("You don't have that.")
		return
	}
	state.MoveItem(c.World, &c.Player.Character, id, c.Player.Room)
	slog.Debug("item dropped", "item", id, "room", c.Player.Room)
	c.Say("Dropped.")
}

// Examine describes a carried item, an item in the room, an NPC, or
// finally one of the room's features.
func Examine(c *script.Context) {
	if c.Object == "" {
		c.Say("Examine what?")
		return
	}
	if id, err := resolve.Match(c.Object, resolve.Inventory(c.World, &c.Player.Character)); err == nil {
		c.Say(describe(state.Item(c.World, id)))
		return
	}
	if id, err := resolve.Match(c.Object, resolve.Items(state.ItemsAt(c.World, c.Player.Room))); err == nil {
		c.Say(describe(state.Item(c.World, id)))
		return
	}
	if id, err := resolve.Match(c.Object, resolve.NPCs(state.NPCsIn(c.World, c.Player.Room))); err == nil {
		n := state.NPC(c.World, id)
		if n.Description == "" {
			c.Sayf("You see nothing special about %s.", n.Name)
			return
		}
		c.Say(n.Description)
		return
	}
	if room := c.Room(); room != nil {
		for _, f := range room.Features {
			lf := strings.ToLower(f)
			if lf == c.Object || strings.Contains(lf, c.Object) || strings.Contains(c.Object, lf) {
				c.Sayf("You examine the %s closely, but don't notice anything special.", f)
				return
			}
		}
	}
	c.Say("You don't see that here.")
}

func describe(it *types.Item) string {
	if it.Description == "" {
		return fmt.Sprintf("You see nothing special about the %s.", it.Name)
	}
	return it.Description
}

// Use applies a carried item. "use X on Y" uses X; the target only
// matters to room scripts.
func Use(c *script.Context) {
	if c.Object == "" {
		c.Say("Use what?")
		return
	}
	query, _, on := strings.Cut(c.Object, " on ")
	id, err := resolve.Match(query, resolve.Inventory(c.World, &c.Player.Character))
	if err != nil {
		if on {
			c.Sayf("You don't have the %s.", query)
		} else {
			c.Say("You don't have that.")
		}
		return
	}
	it := state.Item(c.World, id)
	if text := it.Properties["use_text"]; text != "" {
		if !spendMagic(c, it) {
			c.Sayf("You don't have enough magic to use the %s.", it.Name)
			return
		}
		c.Say(text)
		if flag := it.Properties["use_flag"]; flag != "" {
			state.SetFlag(c.World, flag, true)
		}
		if ability := it.Properties["grants_ability"]; ability != "" && !state.HasAbility(c.Player, ability) {
			state.GrantAbility(c.Player, ability)
			slog.Info("ability granted", "ability", ability, "item", it.ID)
		}
		return
	}
	if readable(it) {
		c.Say(it.Properties["contents"])
		return
	}
	c.Sayf("You can't use the %s that way.", it.Name)
}

// spendMagic charges an item's magic_cost. Items without a valid cost are
// free.
func spendMagic(c *script.Context, it *types.Item) bool {
	raw := it.Properties["magic_cost"]
	if raw == "" {
		return true
	}
	cost, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring bad magic cost", "item", it.ID, "magic_cost", raw)
		return true
	}
	return state.SpendMagic(c.Player, cost)
}

// Read shows a readable item's contents. Items in the room can be read
// without picking them up.
func Read(c *script.Context) {
	if c.Object == "" {
		c.Say("Read what?")
		return
	}
	id, err := resolve.Match(c.Object, resolve.Inventory(c.World, &c.Player.Character))
	if err != nil {
		id, err = resolve.Match(c.Object, resolve.Items(state.ItemsAt(c.World, c.Player.Room)))
	}
	if err != nil {
		c.Say("You don't see that here.")
		return
	}
	it := state.Item(c.World, id)
	if !readable(it) {
		c.Sayf("You can't read the %s.", it.Name)
		return
	}
	c.Say(it.Properties["contents"])
}

func readable(it *types.Item) bool {
	return it.Properties["readable"] == "true"
}

// Answer only means something where a room script poses a question.
func Answer(c *script.Context) {
	c.Say("There is no one here awaiting an answer.")
}

// Talk opens a conversation with an NPC in the room and keeps prompting
// while the displayed node offers options.
func Talk(c *script.Context) {
	who := strings.TrimPrefix(c.Object, "to ")
	if who == "" {
		c.Say("Talk to whom?")
		return
	}
	id, err := resolve.Match(who, resolve.NPCs(state.NPCsIn(c.World, c.Player.Room)))
	if err != nil {
		c.Say("There's no one here by that name.")
		return
	}
	n := state.NPC(c.World, id)
	nodeID, node := dialogue.Node(c.World, n)
	c.Say(dialogue.Converse(c.World, c.Player, n, ""))
	if node != nil && len(node.Options) > 0 {
		converse(c, n, nodeID, len(node.Options))
	}
}

func converse(c *script.Context, n *types.NPC, nodeID string, options int) {
	c.Ask("Choose an option:", func(c *script.Context, answer string) {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return
		}
		if k, err := strconv.Atoi(answer); err != nil || k < 1 || k > options {
			c.Say(dialogue.Choose(c.World, c.Player, n, nodeID, answer))
			converse(c, n, nodeID, options)
			return
		}
		// Follow before Choose: the option may change the NPC's state and
		// with it the node table.
		next := dialogue.Follow(n, nodeID, answer)
		c.Say(dialogue.Choose(c.World, c.Player, n, nodeID, answer))
		if next == "" {
			return
		}
		if nodes := n.Dialogue[n.State]; nodes != nil {
			if node := nodes[next]; node != nil && len(node.Options) > 0 {
				converse(c, n, next, len(node.Options))
			}
		}
	})
}
