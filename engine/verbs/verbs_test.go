package verbs

import (
	"slices"
	"strings"
	"testing"

	"github.com/nathoo/labyrinth/engine/script"
	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

func testWorld() (*types.World, *types.Player) {
	w := state.NewWorld("Test")
	w.Start = "study"
	state.AddRoom(w, &types.Room{ID: "study", Name: "Study", Features: []string{"Oak Desk"}})
	state.AddItem(w, &types.Item{ID: "compass", Name: "Runed Compass", Description: "It points inward.", Location: "study"})
	state.AddItem(w, &types.Item{ID: "note", Name: "Folded Note", Location: "study", Properties: map[string]string{
		"readable": "true",
		"contents": "Meet me at dawn.",
	}})
	state.AddItem(w, &types.Item{ID: "amulet", Name: "Echo Amulet", Location: "study", Properties: map[string]string{
		"use_text":       "The amulet glows.",
		"use_flag":       "used_amulet",
		"magic_cost":     "30",
		"grants_ability": "echo_sight",
	}})
	state.AddItem(w, &types.Item{ID: "rock", Name: "Rock", Location: "study"})
	state.AddNPC(w, &types.NPC{
		Character: types.Character{ID: "owl", Name: "Old Owl", Description: "Feathers and wisdom.", Room: "study"},
		Dialogue: map[string]map[string]*types.DialogueNode{
			"initial": {
				"first_interaction": {Text: "Hoo?", Options: []types.DialogueOption{
					{Text: "Who are you?", Response: "An owl.", LeadsTo: "more"},
					{Text: "Bye.", Response: "Hoo."},
				}},
				"more": {Text: "Anything else?", Options: []types.DialogueOption{
					{Text: "No.", Response: "Fine.", UpdatesState: "done"},
				}},
			},
		},
	})
	return w, state.NewPlayer(w)
}

func run(t *testing.T, w *types.World, p *types.Player, verb, object string) *script.Context {
	t.Helper()
	c := script.NewContext(w, p, verb, object)
	if !Default().Dispatch(c) {
		t.Fatalf("verb %q not registered", verb)
	}
	return c
}

func said(c *script.Context) string {
	return strings.Join(c.Output(), "\n")
}

func TestVerbs_Messages(t *testing.T) {
	tests := []struct {
		name   string
		verb   string
		object string
		want   string
	}{
		{"take nothing", "take", "", "Take what?"},
		{"take missing", "take", "lantern", "You don't see that here."},
		{"drop nothing", "drop", "", "Drop what?"},
		{"drop not held", "drop", "rock", "You don't have that."},
		{"examine nothing", "examine", "", "Examine what?"},
		{"examine room item", "examine", "compass", "It points inward."},
		{"examine undescribed", "inspect", "rock", "You see nothing special about the Rock."},
		{"examine npc", "look", "owl", "Feathers and wisdom."},
		{"examine feature", "examine", "desk", "You examine the Oak Desk closely, but don't notice anything special."},
		{"examine missing", "examine", "dragon", "You don't see that here."},
		{"use nothing", "use", "", "Use what?"},
		{"use not held", "use", "rock", "You don't have that."},
		{"use on not held", "use", "rock on desk", "You don't have the rock."},
		{"read room item", "read", "note", "Meet me at dawn."},
		{"read unreadable", "read", "rock", "You can't read the Rock."},
		{"talk nobody", "talk", "", "Talk to whom?"},
		{"talk stranger", "talk", "to ghost", "There's no one here by that name."},
		{"answer", "answer", "fire", "There is no one here awaiting an answer."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, p := testWorld()
			if got := said(run(t, w, p, tt.verb, tt.object)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTake_FuzzyName(t *testing.T) {
	w, p := testWorld()
	if got := said(run(t, w, p, "take", "compass")); got != "Taken." {
		t.Fatalf("take = %q", got)
	}
	if !state.HasItem(&p.Character, "compass") {
		t.Error("compass not in inventory")
	}
	if w.Items["compass"].Location != types.LocInventory {
		t.Errorf("location = %q", w.Items["compass"].Location)
	}
}

func TestTake_Full(t *testing.T) {
	w, p := testWorld()
	p.Capacity = 1
	run(t, w, p, "take", "rock")
	if got := said(run(t, w, p, "get", "note")); got != "You can't carry any more items." {
		t.Errorf("got %q", got)
	}
	if !slices.Equal(p.Inventory, []string{"rock"}) {
		t.Errorf("inventory = %v", p.Inventory)
	}
}

func TestDrop(t *testing.T) {
	w, p := testWorld()
	run(t, w, p, "take", "rock")
	p.Room = "elsewhere"
	if got := said(run(t, w, p, "drop", "rock")); got != "Dropped." {
		t.Fatalf("drop = %q", got)
	}
	if w.Items["rock"].Location != "elsewhere" {
		t.Errorf("location = %q", w.Items["rock"].Location)
	}
	if len(p.Inventory) != 0 {
		t.Errorf("inventory = %v", p.Inventory)
	}
}

func TestUse_ItemProperties(t *testing.T) {
	w, p := testWorld()
	run(t, w, p, "take", "amulet")
	run(t, w, p, "take", "note")
	run(t, w, p, "take", "rock")

	if got := said(run(t, w, p, "use", "amulet")); got != "The amulet glows." {
		t.Errorf("use amulet = %q", got)
	}
	if !state.Flag(w, "used_amulet") {
		t.Error("use_flag not set")
	}
	if p.MagicPoints != state.DefaultMagicPoints-30 || !state.HasAbility(p, "echo_sight") {
		t.Errorf("magic = %d, abilities = %v", p.MagicPoints, p.Abilities)
	}
	if got := said(run(t, w, p, "use", "amulet")); got != "You don't have enough magic to use the Echo Amulet." {
		t.Errorf("second use = %q", got)
	}
	if got := said(run(t, w, p, "use", "note")); got != "Meet me at dawn." {
		t.Errorf("use note = %q", got)
	}
	if got := said(run(t, w, p, "use", "rock on desk")); got != "You can't use the Rock that way." {
		t.Errorf("use rock = %q", got)
	}
}

func TestTalk_FollowsOptions(t *testing.T) {
	w, p := testWorld()
	c := run(t, w, p, "talk", "to owl")
	if !strings.Contains(said(c), `Old Owl: "Hoo?"`) {
		t.Fatalf("opening = %q", said(c))
	}
	pr := c.Pending()
	if pr == nil {
		t.Fatal("no prompt after options")
	}

	// Invalid input re-asks the same node.
	c = script.NewContext(w, p, "", "")
	pr.Resume(c, "9")
	if got := said(c); got != "Invalid choice. Please select a number between 1 and 2." {
		t.Errorf("invalid = %q", got)
	}
	pr = c.Pending()
	if pr == nil {
		t.Fatal("invalid choice ended the conversation")
	}

	c = script.NewContext(w, p, "", "")
	pr.Resume(c, "1")
	if !strings.Contains(said(c), `Old Owl: "Anything else?"`) {
		t.Errorf("chained = %q", said(c))
	}
	pr = c.Pending()
	if pr == nil {
		t.Fatal("chained node with options did not prompt")
	}

	c = script.NewContext(w, p, "", "")
	pr.Resume(c, "1")
	if got := said(c); got != `Old Owl: "Fine."` {
		t.Errorf("final = %q", got)
	}
	if c.Pending() != nil {
		t.Error("terminal option left a prompt open")
	}
	if n := state.NPC(w, "owl"); n.State != "done" {
		t.Errorf("state = %q", n.State)
	}
}

func TestTalk_ChainsIntoNodeOfNewState(t *testing.T) {
	w, p := testWorld()
	owl := state.NPC(w, "owl")
	owl.Dialogue["initial"]["first_interaction"].Options[1] = types.DialogueOption{
		Text: "Be my friend.", Response: "Gladly.", UpdatesState: "friendly", LeadsTo: "chat",
	}
	owl.Dialogue["friendly"] = map[string]*types.DialogueNode{
		"chat": {Text: "What shall we discuss?", Options: []types.DialogueOption{
			{Text: "Teach me.", Response: "Listen closely."},
		}},
	}

	pr := run(t, w, p, "talk", "owl").Pending()
	c := script.NewContext(w, p, "", "")
	pr.Resume(c, "2")
	if !strings.Contains(said(c), "1: Teach me.") {
		t.Fatalf("chained = %q", said(c))
	}
	pr = c.Pending()
	if pr == nil {
		t.Fatal("options shown after a state change but no prompt followed")
	}

	c = script.NewContext(w, p, "", "")
	pr.Resume(c, "1")
	if got := said(c); got != `Old Owl: "Listen closely."` {
		t.Errorf("final = %q", got)
	}
}

func TestTalk_EmptyAnswerEnds(t *testing.T) {
	w, p := testWorld()
	c := run(t, w, p, "talk", "owl")
	pr := c.Pending()
	c = script.NewContext(w, p, "", "")
	pr.Resume(c, "")
	if len(c.Output()) != 0 || c.Pending() != nil {
		t.Errorf("empty answer: out=%v pending=%v", c.Output(), c.Pending())
	}
}

func TestDispatch_Unknown(t *testing.T) {
	w, p := testWorld()
	if Default().Dispatch(script.NewContext(w, p, "dance", "")) {
		t.Error("unknown verb dispatched")
	}
}
