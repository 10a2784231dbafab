package loader

import (
	"fmt"

	"github.com/nathoo/labyrinth/types"
)

// Defaults for fields content leaves out.
const (
	DefaultWorldDescription = "A fractured realm where ancient magic and steampunk technology coexist."
	DefaultRoomType         = "standard"
	DefaultRoomShort        = "A nondescript area."
	DefaultRoomLong         = "You are in a nondescript area. There doesn't seem to be anything special here."
	DefaultItemType         = "misc"
	DefaultItemDescription  = "A mysterious item."
	DefaultNPCDescription   = "A mysterious figure."
	DefaultNPCRole          = "unknown"
	DefaultPuzzleSuccess    = "You solved the puzzle!"
	DefaultPuzzleFailure    = "That didn't work."
	DefaultDialogue         = "..."
)

// FragmentPrefix starts the ID of every crystal fragment.
const FragmentPrefix = "crystal_fragment_"

// fragment returns crystal fragment n, hidden until something places it.
func fragment(n string) *types.Item {
	return &types.Item{
		ID:          FragmentPrefix + n,
		Name:        "Crystal Fragment " + n,
		Description: "A glowing fragment of the Echo Crystal.",
		Type:        "quest_item",
	}
}

// Fragments returns the IDs of crystal fragments 1 to n.
func Fragments(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, fmt.Sprintf("%s%d", FragmentPrefix, i))
	}
	return ids
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
