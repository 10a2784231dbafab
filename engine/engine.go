// Package engine provides the Step() orchestrator that wires together
// parsing, room scripts, generic verbs and NPC autonomy into a single turn.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/labyrinth/engine/npc"
	"github.com/nathoo/labyrinth/engine/parser"
	"github.com/nathoo/labyrinth/engine/save"
	"github.com/nathoo/labyrinth/engine/script"
	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/engine/verbs"
	"github.com/nathoo/labyrinth/types"
)

// directions maps movement verbs to exit directions.
var directions = map[string]string{
	"n": "north", "north": "north",
	"s": "south", "south": "south",
	"e": "east", "east": "east",
	"w": "west", "west": "west",
	"up":   "up",
	"down": "down",
}

// Options configures a new engine.
type Options struct {
	Scripts *script.Table
	Verbs   *verbs.Registry
	Store   save.Store
	Seed    int64
}

// Engine owns one play session: the world, the player and the turn loop.
type Engine struct {
	World   *types.World
	Player  *types.Player
	RNG     *RNG
	Scripts *script.Table
	Verbs   *verbs.Registry
	Store   save.Store
	Turns   int

	pending *script.Prompt
	owed    bool // an NPC tick is due once the pending prompt chain ends
	quit    bool
}

// New creates an engine with a fresh player in the world's start room.
func New(w *types.World, opts Options) *Engine {
	if opts.Verbs == nil {
		opts.Verbs = verbs.Default()
	}
	e := &Engine{
		World:   w,
		Player:  state.NewPlayer(w),
		RNG:     NewRNG(opts.Seed),
		Scripts: opts.Scripts,
		Verbs:   opts.Verbs,
		Store:   opts.Store,
	}
	if e.Scripts != nil {
		for _, id := range e.Scripts.Check(w) {
			slog.Error("script table references unknown room", "room", id)
		}
		e.Scripts.RepairAll(w)
	}
	return e
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Banner returns the greeting printed ahead of the opening text.
func (e *Engine) Banner() []string {
	return []string{
		fmt.Sprintf("Welcome to %s!", e.World.Name),
		"Type 'help' for a list of commands.",
		"",
	}
}

// Opening returns the text shown before the first command.
func (e *Engine) Opening() []string {
	var out []string
	if e.World.Description != "" {
		out = append(out, e.World.Description, "")
	}
	if e.World.Intro != "" {
		out = append(out, e.World.Intro, "")
	}
	return append(out, e.Describe(e.Player.Room, true)...)
}

// Waiting reports whether the engine is waiting on a prompt answer.
func (e *Engine) Waiting() bool {
	return e.pending != nil
}

// Step processes one line of input and returns the result.
func (e *Engine) Step(input string) types.Result {
	// 1. A pending prompt takes the line verbatim.
	if e.pending != nil {
		pr := e.pending
		e.pending = nil
		c := script.NewContext(e.World, e.Player, "", "")
		pr.Resume(c, strings.TrimSpace(input))
		return e.finish(c, false)
	}

	// 2. Parse.
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return types.Result{Output: []string{"What do you want to do?"}}
	}
	c := script.NewContext(e.World, e.Player, intent.Verb, intent.Object)

	// 3. Session commands bypass everything else and do not take a turn.
	if e.session(c) {
		return e.finish(c, false)
	}

	// 4. Movement.
	if dir, ok := directions[intent.Verb]; ok {
		e.move(c, dir)
		return e.finish(c, true)
	}

	// 5. Room scripts, after pulling NPCs home.
	npc.EnsureCanonical(e.World, nil)
	if e.Scripts.Dispatch(c) {
		return e.finish(c, true)
	}

	// 6. Generic verbs.
	if e.Verbs.Dispatch(c) {
		return e.finish(c, true)
	}

	// 7. Nothing understood the command.
	if intent.Object == "" {
		c.Sayf("Sorry, I don't know the verb \"%s\".", intent.Verb)
	} else {
		c.Sayf("I don't understand \"%s %s\".", intent.Verb, intent.Object)
	}
	return e.finish(c, true)
}

// finish turns a context into a result. A new question suspends the
// command; otherwise the NPC tick runs if this command, or the command
// whose prompts just ended, reached the dispatcher.
func (e *Engine) finish(c *script.Context, turn bool) types.Result {
	res := types.Result{Output: c.Output()}
	if pr := c.Pending(); pr != nil {
		e.pending = pr
		e.owed = e.owed || turn
		res.Prompt = pr.Question
		return res
	}
	if turn || e.owed {
		e.owed = false
		res.Output = append(res.Output, npc.Tick(e.World, e.Player, e.RNG)...)
		e.Turns++
	}
	res.Quit = e.quit
	return res
}

func (e *Engine) move(c *script.Context, dir string) {
	from := e.Player.Room
	conn, ok := state.Exit(e.World, from, dir)
	if !ok {
		c.Say("You can't go that way.")
		return
	}
	if need := state.Requirement(e.World, from, dir); need != "" && !c.Holding(need) {
		c.Sayf("You need %s to go that way.", state.ItemName(e.World, need))
		return
	}
	if state.Room(e.World, conn.Target) == nil {
		slog.Error("exit leads to unknown room", "room", from, "direction", dir, "target", conn.Target)
		c.Say("You can't go that way.")
		return
	}
	e.Player.Room = conn.Target
	slog.Debug("player moved", "from", from, "to", conn.Target)
	e.Scripts.Repair(e.World, conn.Target)
	c.Lines(e.Describe(conn.Target, true)...)
}

// Describe renders a room. With contents it always shows the long
// description and lists items, NPCs and exits; without, a visited room
// shows its short description.
func (e *Engine) Describe(roomID string, contents bool) []string {
	room := state.Room(e.World, roomID)
	if room == nil {
		slog.Error("describing unknown room", "room", roomID)
		return []string{"Error: Room not found."}
	}
	npc.EnsureCanonical(e.World, nil)

	out := []string{fmt.Sprintf("[%s]", room.Name)}
	if room.Visited && !contents {
		out = append(out, room.Short)
	} else {
		out = append(out, room.Long)
		room.Visited = true
	}
	if !contents {
		return out
	}

	if items := state.ItemsAt(e.World, roomID); len(items) > 0 {
		out = append(out, "")
		for _, it := range items {
			out = append(out, fmt.Sprintf("There is %s here.", it.Name))
		}
	}
	if npcs := state.NPCsIn(e.World, roomID); len(npcs) > 0 {
		out = append(out, "")
		for _, n := range npcs {
			out = append(out, fmt.Sprintf("You see %s here.", n.Name))
		}
	}
	exits := "none"
	if dirs := state.Directions(e.World, roomID); len(dirs) > 0 {
		exits = strings.Join(dirs, ", ")
	}
	return append(out, "", "Exits: "+exits)
}
