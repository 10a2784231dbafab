package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathoo/labyrinth/engine"
	"github.com/nathoo/labyrinth/engine/save"
	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// testWorld returns a two-room world for CLI testing.
func testWorld() *types.World {
	w := state.NewWorld("Test Game")
	w.Description = "A place for tests."
	w.Intro = "Welcome to the test."
	w.Start = "hall"
	state.AddRoom(w, &types.Room{
		ID: "hall", Name: "Hall", Short: "The hall.", Long: "A grand hall.",
		Exits: map[string]types.Connection{"north": {Target: "garden"}},
	})
	state.AddRoom(w, &types.Room{
		ID: "garden", Name: "Garden", Short: "The garden.", Long: "A peaceful garden.",
		Exits: map[string]types.Connection{"south": {Target: "hall"}},
	})
	state.AddItem(w, &types.Item{ID: "key", Name: "Rusty Key", Description: "An old key.", Location: "hall"})
	return w
}

func newTestCLI(t *testing.T, dir, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	eng := engine.New(testWorld(), engine.Options{Seed: 1, Store: &save.FileStore{Dir: dir}})
	var out bytes.Buffer
	c := &CLI{
		Engine: eng,
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func TestCLI_BannerAndOpening(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{
		"Welcome to Test Game!",
		"Type 'help' for a list of commands.",
		"A place for tests.",
		"Welcome to the test.",
		"[Hall]",
		"A grand hall.",
		"There is Rusty Key here.",
		"Exits: north",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("opening missing %q:\n%s", want, output)
		}
	}
}

func TestCLI_Navigation(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "north\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "A peaceful garden.") {
		t.Error("expected garden description after going north")
	}
	if c.Engine.Turns != 1 {
		t.Errorf("Turns = %d, want 1", c.Engine.Turns)
	}
}

func TestCLI_QuitConfirmation(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "quit\nn\nlook\nquit\ny\nlook\n")
	c.Run()

	output := out.String()
	if got := strings.Count(output, "Are you sure you want to quit? (y/n):"); got != 2 {
		t.Errorf("quit prompt shown %d times, want 2", got)
	}
	if !strings.Contains(output, "Farewell, wanderer.") {
		t.Error("expected farewell after confirming")
	}
	// The look after confirming is never read.
	if got := strings.Count(output, "A grand hall."); got != 2 {
		t.Errorf("hall described %d times, want 2 (opening and one look)", got)
	}
}

func TestCLI_EndOfInput(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "look")
	c.Run()

	if !strings.HasSuffix(out.String(), "> \n") {
		t.Errorf("expected a final empty prompt line, got %q", out.String())
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	c, out := newTestCLI(t, dir, "north\nsave\nslot1\n/saves\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Enter save file name:") {
		t.Error("expected save name prompt")
	}
	if !strings.Contains(output, "Game saved to slot1.") {
		t.Errorf("expected save confirmation:\n%s", output)
	}
	if !strings.Contains(output, "[Saves: slot1]") {
		t.Errorf("expected slot1 in save listing:\n%s", output)
	}

	c2, out2 := newTestCLI(t, dir, "load slot1\n/quit\n")
	c2.Run()

	loadOutput := out2.String()
	if !strings.Contains(loadOutput, "Game loaded from slot1.") {
		t.Error("expected load confirmation")
	}
	if c2.Engine.Player.Room != "garden" {
		t.Errorf("Room after load = %q, want garden", c2.Engine.Player.Room)
	}
}

func TestCLI_LoadMissing(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "load nothing\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Error: Could not open save file.") {
		t.Error("expected load failure message")
	}
}

func TestCLI_BlankAnswerCancelsSave(t *testing.T) {
	dir := t.TempDir()
	c, out := newTestCLI(t, dir, "save\n\n/saves\n/quit\n")
	c.Run()

	output := out.String()
	if strings.Contains(output, "Game saved") {
		t.Error("blank answer should cancel the save")
	}
	if !strings.Contains(output, "[No saved games.]") {
		t.Errorf("expected no saves:\n%s", output)
	}
}

func TestCLI_MetaCommands(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/help", []string{"Available commands:", "/quit", "/state", "again/g"}},
		{"/state", []string{"[Turn: 0]", "[Location: hall]", "Inventory:"}},
		{"/bogus", []string{"Unknown command: /bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, out := newTestCLI(t, t.TempDir(), tt.input+"\n/quit\n")
			c.Run()
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestCLI_SavesWithoutStore(t *testing.T) {
	eng := engine.New(testWorld(), engine.Options{Seed: 1})
	var out bytes.Buffer
	c := &CLI{Engine: eng, In: strings.NewReader("/saves\n"), Out: &out}
	c.Run()

	if !strings.Contains(out.String(), "Saving is not available.") {
		t.Error("expected unavailable message")
	}
}

func TestCLI_EmptyInput(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "What do you want to do?") {
		t.Error("expected a nudge on empty input")
	}
}

func TestCLI_CommentsAndEcho(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "# walk north\nnorth\n/quit\n")
	c.EchoInput = true
	c.Run()

	output := out.String()
	if strings.Contains(output, "walk north") {
		t.Error("comment lines should be skipped")
	}
	if !strings.Contains(output, "> north\n") {
		t.Errorf("expected echoed input:\n%s", output)
	}
}

func TestCLI_Again(t *testing.T) {
	for _, word := range []string{"again", "g"} {
		t.Run(word, func(t *testing.T) {
			c, out := newTestCLI(t, t.TempDir(), "look\n"+word+"\n/quit\n")
			c.Run()

			// Opening, look and the repeat.
			if got := strings.Count(out.String(), "A grand hall."); got != 3 {
				t.Errorf("hall described %d times, want 3", got)
			}
		})
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, t.TempDir(), "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}
