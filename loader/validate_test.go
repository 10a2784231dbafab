package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// validWorld returns a minimal valid world for testing.
func validWorld() *types.World {
	w := state.NewWorld("Test")
	w.Start = "hall"
	state.AddRoom(w, &types.Room{ID: "hall", Long: "A hall.", Exits: map[string]types.Connection{
		"north": {Target: "attic"},
	}})
	state.AddRoom(w, &types.Room{ID: "attic", Long: "An attic.", Exits: map[string]types.Connection{
		"south": {Target: "hall"},
	}})
	return w
}

func TestValidate_ValidWorld(t *testing.T) {
	if err := Validate(validWorld()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Builtin(t *testing.T) {
	ve := check(BuiltinWorld())
	if len(ve.Errors) > 0 || len(ve.Warnings) > 0 {
		t.Fatalf("built-in world has problems: %v %v", ve.Errors, ve.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *types.World)
		want   string
	}{
		{"missing start", func(w *types.World) { w.Start = "" }, "start room is required"},
		{"unknown start", func(w *types.World) { w.Start = "cellar" }, `start room "cellar"`},
		{"dangling exit", func(w *types.World) {
			w.Rooms["hall"].Exits["east"] = types.Connection{Target: "void"}
		}, `points to undefined room "void"`},
		{"unknown exit requirement", func(w *types.World) {
			w.Rooms["hall"].Exits["north"] = types.Connection{Target: "attic", Requires: "key"}
		}, `requires undefined item "key"`},
		{"unknown item location", func(w *types.World) {
			state.AddItem(w, &types.Item{ID: "lamp", Location: "kitchen"})
		}, `item "lamp" location "kitchen"`},
		{"unknown starting item", func(w *types.World) {
			w.StartInventory = []string{"sword"}
		}, `undefined item "sword"`},
		{"puzzle reward", func(w *types.World) {
			w.Rooms["hall"].Puzzles = []*types.Puzzle{{ID: "p", Verb: "pull", Reward: "gem"}}
		}, `rewards undefined item "gem"`},
		{"puzzle requirement", func(w *types.World) {
			w.Rooms["hall"].Puzzles = []*types.Puzzle{{ID: "p", Verb: "pull", Requires: []string{"rope"}}}
		}, `requires undefined item "rope"`},
		{"puzzle verb", func(w *types.World) {
			w.Rooms["hall"].Puzzles = []*types.Puzzle{{}}
		}, "no id or verb"},
		{"npc room", func(w *types.World) {
			state.AddNPC(w, &types.NPC{Character: types.Character{ID: "cat", Room: "roof"}})
		}, `npc "cat" is in undefined room "roof"`},
		{"npc home", func(w *types.World) {
			state.AddNPC(w, &types.NPC{Character: types.Character{ID: "cat", Room: "hall"}, Home: "roof"})
		}, `undefined home "roof"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWorld()
			tt.mutate(w)
			err := Validate(w)
			if err == nil {
				t.Fatal("expected an error")
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			assertContains(t, ve.Errors, tt.want)
		})
	}
}

func TestValidate_SentinelLocations(t *testing.T) {
	w := validWorld()
	for i, loc := range []string{types.LocHidden, types.LocInventory, types.LocPlaced, "attic"} {
		state.AddItem(w, &types.Item{ID: string(rune('a' + i)), Location: loc})
	}
	if err := Validate(w); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_Warnings(t *testing.T) {
	w := validWorld()
	w.Name = ""
	state.AddRoom(w, &types.Room{ID: "island"})
	w.Rooms["hall"].Puzzles = []*types.Puzzle{{ID: "p", Verb: "pull", Unlocks: "west"}}

	ve := check(w)
	if len(ve.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", ve.Errors)
	}
	assertContains(t, ve.Warnings, "no title")
	assertContains(t, ve.Warnings, `room "island" is not reachable`)
	assertContains(t, ve.Warnings, `unlocks missing exit "west"`)

	// Warnings alone do not fail validation.
	if err := Validate(w); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestValidationError_Format(t *testing.T) {
	ve := &ValidationError{Errors: []string{"first", "second"}}
	msg := ve.Error()
	if !strings.Contains(msg, "2 error(s)") || !strings.Contains(msg, "first\n  second") {
		t.Errorf("Error() = %q", msg)
	}
}

// assertContains checks that at least one string in the slice contains substr.
func assertContains(t *testing.T, msgs []string, substr string) {
	t.Helper()
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return
		}
	}
	t.Errorf("expected a message containing %q, got: %v", substr, msgs)
}
