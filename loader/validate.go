package loader

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nathoo/labyrinth/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks a world for referential integrity. Problems that make
// the world unplayable are errors; the rest are logged as warnings.
func Validate(w *types.World) error {
	ve := check(w)
	for _, msg := range ve.Warnings {
		slog.Warn("content warning", "world", w.Name, "problem", msg)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func check(w *types.World) *ValidationError {
	ve := &ValidationError{}

	if w.Name == "" {
		ve.warnf("world has no title")
	}
	if w.Start == "" {
		ve.errorf("start room is required")
	} else if w.Rooms[w.Start] == nil {
		ve.errorf("start room \"%s\" not found in defined rooms", w.Start)
	}

	for _, roomID := range w.RoomOrder {
		room := w.Rooms[roomID]
		for _, dir := range sortedKeys(room.Exits) {
			conn := room.Exits[dir]
			if w.Rooms[conn.Target] == nil {
				ve.errorf("room \"%s\" exit \"%s\" points to undefined room \"%s\"", roomID, dir, conn.Target)
			}
			if conn.Requires != "" && w.Items[conn.Requires] == nil {
				ve.errorf("room \"%s\" exit \"%s\" requires undefined item \"%s\"", roomID, dir, conn.Requires)
			}
		}
		for _, p := range room.Puzzles {
			if p.Verb == "" {
				ve.errorf("room \"%s\" has a puzzle with no id or verb", roomID)
			}
			if p.Reward != "" && w.Items[p.Reward] == nil {
				ve.errorf("puzzle \"%s\" rewards undefined item \"%s\"", p.ID, p.Reward)
			}
			for _, need := range p.Requires {
				if w.Items[need] == nil {
					ve.errorf("puzzle \"%s\" requires undefined item \"%s\"", p.ID, need)
				}
			}
			if p.Unlocks != "" {
				if _, ok := room.Exits[p.Unlocks]; !ok {
					ve.warnf("puzzle \"%s\" unlocks missing exit \"%s\" of room \"%s\"", p.ID, p.Unlocks, roomID)
				}
			}
		}
	}

	for _, id := range w.ItemOrder {
		loc := w.Items[id].Location
		switch loc {
		case types.LocHidden, types.LocInventory, types.LocPlaced:
		default:
			if w.Rooms[loc] == nil {
				ve.errorf("item \"%s\" location \"%s\" does not match any defined room", id, loc)
			}
		}
	}
	for _, id := range w.StartInventory {
		if w.Items[id] == nil {
			ve.errorf("starting inventory names undefined item \"%s\"", id)
		}
	}
	for _, n := range w.NPCs {
		if w.Rooms[n.Room] == nil {
			ve.errorf("npc \"%s\" is in undefined room \"%s\"", n.ID, n.Room)
		}
		if n.Home != "" && w.Rooms[n.Home] == nil {
			ve.errorf("npc \"%s\" has undefined home \"%s\"", n.ID, n.Home)
		}
	}

	if w.Rooms[w.Start] != nil {
		reached := reachable(w, w.Start)
		for _, id := range w.RoomOrder {
			if !reached[id] {
				ve.warnf("room \"%s\" is not reachable from \"%s\"", id, w.Start)
			}
		}
	}
	return ve
}

// reachable walks exits from start, ignoring requirements.
func reachable(w *types.World, start string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		room := w.Rooms[queue[0]]
		queue = queue[1:]
		for _, conn := range room.Exits {
			if w.Rooms[conn.Target] != nil && !seen[conn.Target] {
				seen[conn.Target] = true
				queue = append(queue, conn.Target)
			}
		}
	}
	return seen
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
