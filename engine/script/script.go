// Package script holds the per-room scripted events that shadow the
// generic verbs: rune sequences, gear chains, riddles, gates and the
// idempotent ensure steps that keep a room's fixtures where they belong.
//
// Everything an event remembers lives in World.Flags or World.Progress,
// so a save taken mid-puzzle restores it exactly.
package script

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Context is what an event sees while it fires.
type Context struct {
	World  *types.World
	Player *types.Player
	Verb   string
	Object string

	out    []string
	prompt *Prompt
}

// Prompt is a question an event is waiting on. The engine routes the next
// input line to Resume.
type Prompt struct {
	Question string
	Resume   func(c *Context, answer string)
}

// NewContext creates a context for one command.
func NewContext(w *types.World, p *types.Player, verb, object string) *Context {
	return &Context{World: w, Player: p, Verb: verb, Object: object}
}

// Say appends narrative lines, skipping empty ones.
func (c *Context) Say(lines ...string) {
	for _, l := range lines {
		if l != "" {
			c.out = append(c.out, l)
		}
	}
}

// Lines appends lines verbatim, blank ones included.
func (c *Context) Lines(lines ...string) {
	c.out = append(c.out, lines...)
}

// Sayf appends one formatted line. An empty format says nothing.
func (c *Context) Sayf(format string, args ...any) {
	if format == "" {
		return
	}
	c.out = append(c.out, fmt.Sprintf(format, args...))
}

// Ask suspends the command until the player answers. Only the last Ask of
// a firing is kept.
func (c *Context) Ask(question string, resume func(c *Context, answer string)) {
	c.prompt = &Prompt{Question: question, Resume: resume}
}

// Output returns everything said so far.
func (c *Context) Output() []string { return c.out }

// Pending returns the open question, if any.
func (c *Context) Pending() *Prompt { return c.prompt }

// Room returns the player's current room.
func (c *Context) Room() *types.Room { return state.Room(c.World, c.Player.Room) }

// Holding reports whether the player carries an item.
func (c *Context) Holding(itemID string) bool {
	return state.HasItem(&c.Player.Character, itemID)
}

// Event is one scripted reaction.
type Event interface {
	Fire(c *Context)
}

// EventFunc adapts a plain function to Event.
type EventFunc func(c *Context)

// Fire calls f.
func (f EventFunc) Fire(c *Context) { f(c) }

// Trigger matches a parsed command. The object matches when it equals one
// of Objects, contains one of Contains, is empty and Empty is set, or Any
// is set.
type Trigger struct {
	Verbs    []string
	Objects  []string
	Contains []string
	Empty    bool
	Any      bool
}

// Verb starts a trigger for the given verbs.
func Verb(verbs ...string) Trigger {
	return Trigger{Verbs: verbs}
}

// Is adds exact object matches.
func (t Trigger) Is(objects ...string) Trigger {
	t.Objects = append(slices.Clone(t.Objects), objects...)
	return t
}

// Has adds substring object matches.
func (t Trigger) Has(parts ...string) Trigger {
	t.Contains = append(slices.Clone(t.Contains), parts...)
	return t
}

// Bare makes the trigger match a verb with no object.
func (t Trigger) Bare() Trigger {
	t.Empty = true
	return t
}

// AnyObject makes the trigger match any object, including none.
func (t Trigger) AnyObject() Trigger {
	t.Any = true
	return t
}

// Match reports whether the command fires the trigger.
func (t Trigger) Match(verb, object string) bool {
	if !slices.Contains(t.Verbs, verb) {
		return false
	}
	if t.Any {
		return true
	}
	if object == "" {
		return t.Empty
	}
	if slices.Contains(t.Objects, object) {
		return true
	}
	for _, part := range t.Contains {
		if strings.Contains(object, part) {
			return true
		}
	}
	return false
}

// Entry binds a trigger to an event in one room.
type Entry struct {
	Room    string
	Trigger Trigger
	Event   Event
}

// Table indexes scripted entries and ensure steps by room ID.
type Table struct {
	entries map[string][]Entry
	ensures map[string][]Ensure
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries: map[string][]Entry{},
		ensures: map[string][]Ensure{},
	}
}

// On registers an event. Entries are tried in registration order.
func (t *Table) On(room string, trig Trigger, ev Event) *Table {
	t.entries[room] = append(t.entries[room], Entry{Room: room, Trigger: trig, Event: ev})
	return t
}

// Ensure registers ensure steps run on every dispatch into room.
func (t *Table) Ensure(room string, steps ...Ensure) *Table {
	t.ensures[room] = append(t.ensures[room], steps...)
	return t
}

// Rooms returns every room ID the table references, sorted.
func (t *Table) Rooms() []string {
	seen := map[string]bool{}
	for id := range t.entries {
		seen[id] = true
	}
	for id := range t.ensures {
		seen[id] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Repair runs a room's ensure steps.
func (t *Table) Repair(w *types.World, room string) {
	if t == nil {
		return
	}
	for _, step := range t.ensures[room] {
		step.Apply(w)
	}
}

// RepairAll runs every room's ensure steps, in room order.
func (t *Table) RepairAll(w *types.World) {
	if t == nil {
		return
	}
	for _, id := range t.Rooms() {
		t.Repair(w, id)
	}
}

// Dispatch runs the ensure steps of the player's room and then the first
// matching scripted entry, falling back to the room's content puzzles. It
// reports whether anything handled the command.
func (t *Table) Dispatch(c *Context) bool {
	room := c.Room()
	if room == nil {
		slog.Error("player is in an unknown room", "room", c.Player.Room)
		return false
	}
	if t != nil {
		t.Repair(c.World, room.ID)
		for _, e := range t.entries[room.ID] {
			if e.Trigger.Match(c.Verb, c.Object) {
				e.Event.Fire(c)
				return true
			}
		}
	}
	return solvePuzzle(c, room)
}

// Check reports table rooms that do not exist in w.
func (t *Table) Check(w *types.World) []string {
	var missing []string
	for _, id := range t.Rooms() {
		if state.Room(w, id) == nil {
			missing = append(missing, id)
		}
	}
	return missing
}

func solvePuzzle(c *Context, room *types.Room) bool {
	for _, p := range room.Puzzles {
		if p.Verb != c.Verb || (c.Object != "" && p.Object != c.Object) {
			continue
		}
		if p.Solved {
			c.Say("You've already solved this puzzle.")
			return true
		}
		var missing []string
		for _, id := range p.Requires {
			if !c.Holding(id) {
				missing = append(missing, state.ItemName(c.World, id))
			}
		}
		if len(missing) > 0 {
			c.Say("You don't have the necessary items to do that.", p.Failure)
			c.Sayf("You still need: %s.", strings.Join(missing, ", "))
			return true
		}

		c.Say(p.Success)
		state.SolvePuzzle(c.World, p)
		slog.Info("puzzle solved", "puzzle", p.ID, "room", room.ID)
		if it := state.Item(c.World, p.Reward); it != nil {
			state.MoveItem(c.World, &c.Player.Character, it.ID, room.ID)
			c.Sayf("Your actions have revealed %s!", it.Name)
		}
		if p.Unlocks != "" && state.Unlock(c.World, room.ID, p.Unlocks) {
			c.Say("You've unlocked a new path!")
		}
		if p.SetsFlag != "" {
			state.SetFlag(c.World, p.SetsFlag, true)
		}
		return true
	}
	return false
}
