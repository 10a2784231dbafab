// Package npc runs the once-per-turn NPC update: registered behaviors,
// random wandering, and the canonical-room correction.
package npc

import (
	"fmt"
	"log/slog"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Source is the random source NPC autonomy draws from.
type Source interface {
	Intn(n int) int
}

// An NPC without a behavior draws from [0, wanderRange) each turn and
// moves when the draw is below wanderBelow.
const (
	wanderRange = 11
	wanderBelow = 2
)

// Tick updates every NPC once. NPCs with a home room never wander; the
// canonical pass would pull them straight back.
func Tick(w *types.World, p *types.Player, rng Source) []string {
	var out []string
	for _, n := range append([]*types.NPC(nil), w.NPCs...) {
		if b := n.Behaviors[n.State]; b != nil {
			out = append(out, b(w, p, n)...)
			continue
		}
		if n.Home != "" || n.Room == "" {
			continue
		}
		if rng.Intn(wanderRange) < wanderBelow {
			out = append(out, wander(w, p, n, rng)...)
		}
	}
	return append(out, EnsureCanonical(w, p)...)
}

func wander(w *types.World, p *types.Player, n *types.NPC, rng Source) []string {
	dirs := state.OpenDirections(w, n.Room)
	if len(dirs) == 0 {
		return nil
	}
	dir := dirs[rng.Intn(len(dirs))]
	conn, _ := state.Exit(w, n.Room, dir)
	if state.Room(w, conn.Target) == nil {
		slog.Error("npc exit leads nowhere", "npc", n.ID, "room", n.Room, "direction", dir, "target", conn.Target)
		return nil
	}

	var out []string
	if p.Room == n.Room {
		out = append(out, fmt.Sprintf("%s leaves to the %s.", n.Name, dir))
	}
	slog.Debug("npc wandered", "npc", n.ID, "from", n.Room, "to", conn.Target)
	n.Room = conn.Target
	if p.Room == n.Room {
		out = append(out, fmt.Sprintf("%s enters.", n.Name))
	}
	return out
}

// EnsureCanonical returns every NPC with a home room to it. The lines it
// returns describe moves the player could see; callers that run it as a
// silent repair discard them.
func EnsureCanonical(w *types.World, p *types.Player) []string {
	var out []string
	for _, n := range w.NPCs {
		if n.Home == "" || n.Room == n.Home {
			continue
		}
		if p != nil && p.Room == n.Room {
			out = append(out, fmt.Sprintf("%s leaves.", n.Name))
		}
		slog.Debug("npc returned home", "npc", n.ID, "from", n.Room, "to", n.Home)
		n.Room = n.Home
		if p != nil && p.Room == n.Room {
			out = append(out, fmt.Sprintf("%s enters.", n.Name))
		}
	}
	return out
}
