// Package dialogue implements the NPC dialogue tree.
//
// Node selection depends only on the NPC's state and whether the player
// has met the NPC before. The "has met" flag is set on every call, so a
// returning player always gets the return_visit node.
package dialogue

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// Node IDs selected by Converse.
const (
	FirstInteraction = "first_interaction"
	ReturnVisit      = "return_visit"
)

// MetFlag names the flag recording that the player has talked to an NPC.
func MetFlag(npcID string) string {
	return "has_met_" + npcID
}

// Node returns the node Converse would select next, without side effects.
func Node(w *types.World, npc *types.NPC) (string, *types.DialogueNode) {
	id := FirstInteraction
	if state.Flag(w, MetFlag(npc.ID)) {
		id = ReturnVisit
	}
	return id, lookup(npc, id)
}

func lookup(npc *types.NPC, nodeID string) *types.DialogueNode {
	if nodes := npc.Dialogue[npc.State]; nodes != nil {
		return nodes[nodeID]
	}
	return nil
}

// Converse runs one dialogue call. An empty option renders the selected
// node; a numeric option applies that option of the selected node.
func Converse(w *types.World, p *types.Player, npc *types.NPC, option string) string {
	nodeID, node := Node(w, npc)
	state.SetFlag(w, MetFlag(npc.ID), true)
	if node == nil {
		return fmt.Sprintf("The %s doesn't respond.", npc.Name)
	}
	if option == "" {
		return Render(npc, node)
	}
	return Choose(w, p, npc, nodeID, option)
}

// Render formats a node's speech and its numbered options.
func Render(npc *types.NPC, node *types.DialogueNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: \"%s\"", npc.Name, node.Text)
	if len(node.Options) > 0 {
		b.WriteString("\n\nWhat do you say?")
		for i, opt := range node.Options {
			fmt.Fprintf(&b, "\n%d: %s", i+1, opt.Text)
		}
	}
	return b.String()
}

// Choose applies option of the named node. Invalid input leaves the NPC
// and world untouched.
func Choose(w *types.World, p *types.Player, npc *types.NPC, nodeID, option string) string {
	node := lookup(npc, nodeID)
	if node == nil {
		return fmt.Sprintf("The %s doesn't respond.", npc.Name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(option))
	if err != nil {
		return "Invalid choice. Please select a number."
	}
	if n < 1 || n > len(node.Options) {
		return fmt.Sprintf("Invalid choice. Please select a number between 1 and %d.", len(node.Options))
	}
	opt := node.Options[n-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s: \"%s\"", npc.Name, opt.Response)

	if opt.UpdatesState != "" {
		slog.Debug("npc state changed", "npc", npc.ID, "from", npc.State, "to", opt.UpdatesState)
		npc.State = opt.UpdatesState
	}
	if opt.RevealsItem != "" {
		if it := state.Item(w, opt.RevealsItem); it != nil {
			state.MoveItem(w, &p.Character, it.ID, npc.Room)
			fmt.Fprintf(&b, "\n\nThe %s reveals %s!", npc.Name, it.Name)
		}
	}
	if opt.Journal != "" {
		p.Journal = append(p.Journal, opt.Journal)
		fmt.Fprintf(&b, "\n\n(New journal entry added: %s)", opt.Journal)
	}
	if opt.LeadsTo != "" {
		if next := lookup(npc, opt.LeadsTo); next != nil {
			b.WriteString("\n\n")
			b.WriteString(Render(npc, next))
		}
	}
	return b.String()
}

// Follow returns the node an option chains into, or "" when the option is
// invalid or ends the exchange. The successor is looked up in the state
// the option leaves the NPC in, matching what Choose renders.
func Follow(npc *types.NPC, nodeID, option string) string {
	node := lookup(npc, nodeID)
	if node == nil {
		return ""
	}
	n, err := strconv.Atoi(strings.TrimSpace(option))
	if err != nil || n < 1 || n > len(node.Options) {
		return ""
	}
	opt := node.Options[n-1]
	st := npc.State
	if opt.UpdatesState != "" {
		st = opt.UpdatesState
	}
	if npc.Dialogue[st][opt.LeadsTo] == nil {
		return ""
	}
	return opt.LeadsTo
}
