package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nathoo/labyrinth/engine/save"
	"github.com/nathoo/labyrinth/engine/script"
	"github.com/nathoo/labyrinth/engine/state"
)

// HelpText lists the commands the player can type.
var HelpText = []string{
	"Available commands:",
	"  Movement: north/n, south/s, east/e, west/w, up, down",
	"  Actions: look, inventory/i, take [item], drop [item], use [item], examine [item/npc]",
	"           talk [npc], read [item], activate [item], answer [text]",
	"  Game: help, journal, save, load, quit/exit",
}

// session handles the reserved commands. They never reach the room
// scripts or the verb registry.
func (e *Engine) session(c *script.Context) bool {
	switch {
	case c.Verb == "quit" || c.Verb == "exit":
		if c.Object != "" {
			return false
		}
		c.Ask("Are you sure you want to quit? (y/n):", func(c *script.Context, answer string) {
			if strings.EqualFold(answer, "y") {
				e.quit = true
				c.Say("Farewell, wanderer.")
			}
		})
	case c.Verb == "help" && c.Object == "":
		c.Say(HelpText...)
	case c.Verb == "look" && c.Object == "":
		c.Lines(e.Describe(e.Player.Room, true)...)
	case (c.Verb == "inventory" || c.Verb == "i") && c.Object == "":
		e.inventory(c)
	case c.Verb == "journal" && c.Object == "":
		e.journal(c)
	case c.Verb == "save":
		e.withName(c, "Enter save file name:", e.saveTo)
	case c.Verb == "load":
		e.withName(c, "Enter save file name to load:", e.loadFrom)
	default:
		return false
	}
	return true
}

// withName runs fn with the command's object, or asks for a name first.
// An empty answer cancels.
func (e *Engine) withName(c *script.Context, question string, fn func(c *script.Context, name string)) {
	if c.Object != "" {
		fn(c, c.Object)
		return
	}
	c.Ask(question, func(c *script.Context, name string) {
		if name != "" {
			fn(c, name)
		}
	})
}

func (e *Engine) inventory(c *script.Context) {
	if len(e.Player.Inventory) == 0 {
		c.Say("You are not carrying anything.")
		return
	}
	c.Say("You are carrying:")
	for _, id := range e.Player.Inventory {
		c.Say("  " + state.ItemName(e.World, id))
	}
}

func (e *Engine) journal(c *script.Context) {
	if len(e.Player.Journal) == 0 {
		c.Say("Your journal is empty.")
		return
	}
	c.Say("Journal:")
	for _, entry := range e.Player.Journal {
		c.Say("  - " + entry)
	}
}

func (e *Engine) saveTo(c *script.Context, name string) {
	if err := e.Save(context.Background(), name); err != nil {
		slog.Warn("save failed", "name", name, "error", err)
		c.Say("Error: Could not create save file.")
		return
	}
	c.Sayf("Game saved to %s.", name)
}

func (e *Engine) loadFrom(c *script.Context, name string) {
	if err := e.Load(context.Background(), name); err != nil {
		slog.Warn("load failed", "name", name, "error", err)
		c.Say("Error: Could not open save file.")
		return
	}
	c.Sayf("Game loaded from %s.", name)
	c.Lines(e.Describe(e.Player.Room, true)...)
}

// Save writes the session to the store under name.
func (e *Engine) Save(ctx context.Context, name string) error {
	if e.Store == nil {
		return save.ErrNotFound
	}
	data, err := save.Encode(save.Capture(e.World, e.Player, save.Meta{
		Turn:     e.Turns,
		Seed:     e.RNG.Seed(),
		Position: e.RNG.Position(),
	}))
	if err != nil {
		return err
	}
	if err := e.Store.Write(ctx, name, data); err != nil {
		return err
	}
	slog.Info("game saved", "name", name, "turn", e.Turns)
	return nil
}

// Load replaces the session with the save stored under name. On error the
// session is unchanged.
func (e *Engine) Load(ctx context.Context, name string) error {
	if e.Store == nil {
		return save.ErrNotFound
	}
	data, err := e.Store.Read(ctx, name)
	if err != nil {
		return err
	}
	snap, err := save.Decode(data)
	if err != nil {
		return err
	}
	if err := save.Apply(snap, e.World, e.Player); err != nil {
		return err
	}
	e.Turns = snap.Turn
	e.RestoreRNG(snap.RNG.Seed, snap.RNG.Position)
	e.Scripts.RepairAll(e.World)
	slog.Info("game loaded", "name", name, "turn", e.Turns)
	return nil
}
