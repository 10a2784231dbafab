package state

import (
	"sort"

	"github.com/nathoo/labyrinth/types"
)

// UnlockFlag is the flag that records a lifted exit requirement.
func UnlockFlag(roomID, dir string) string {
	return "unlocked:" + roomID + ":" + dir
}

// PuzzleFlag is the flag that records a solved content puzzle.
func PuzzleFlag(puzzleID string) string {
	return "puzzle:" + puzzleID
}

// Exit returns the connection leaving roomID in direction dir.
func Exit(w *types.World, roomID, dir string) (types.Connection, bool) {
	r := w.Rooms[roomID]
	if r == nil {
		return types.Connection{}, false
	}
	c, ok := r.Exits[dir]
	return c, ok
}

// Requirement returns the item still needed to use an exit, or "" once it
// is open or has been unlocked.
func Requirement(w *types.World, roomID, dir string) string {
	c, ok := Exit(w, roomID, dir)
	if !ok || Flag(w, UnlockFlag(roomID, dir)) {
		return ""
	}
	return c.Requires
}

// Unlock lifts an exit's item requirement. The unlock lives in the flag
// map so it survives save and load.
func Unlock(w *types.World, roomID, dir string) bool {
	if _, ok := Exit(w, roomID, dir); !ok {
		return false
	}
	SetFlag(w, UnlockFlag(roomID, dir), true)
	return true
}

// Directions returns a room's exit directions in sorted order.
func Directions(w *types.World, roomID string) []string {
	r := w.Rooms[roomID]
	if r == nil {
		return nil
	}
	dirs := make([]string, 0, len(r.Exits))
	for d := range r.Exits {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// OpenDirections returns the sorted directions that need no item.
func OpenDirections(w *types.World, roomID string) []string {
	var open []string
	for _, d := range Directions(w, roomID) {
		if Requirement(w, roomID, d) == "" {
			open = append(open, d)
		}
	}
	return open
}

// SolvePuzzle marks a content puzzle solved. It is a no-op when already
// solved.
func SolvePuzzle(w *types.World, p *types.Puzzle) {
	p.Solved = true
	SetFlag(w, PuzzleFlag(p.ID), true)
}

// SyncPuzzles copies solved state from the flag map onto every puzzle.
// Only a load, which replaces the flag map wholesale, may clear Solved.
func SyncPuzzles(w *types.World) {
	for _, id := range w.RoomOrder {
		for _, p := range w.Rooms[id].Puzzles {
			p.Solved = Flag(w, PuzzleFlag(p.ID))
		}
	}
}
