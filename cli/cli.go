// Package cli runs the game as a plain line-oriented terminal session.
// It is used for scripted playback and whenever stdout is not a terminal.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/nathoo/labyrinth/engine"
	"github.com/nathoo/labyrinth/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine on stdin and stdout.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop. It prints the banner and the opening, then
// loops: prompt, input, step, output. It returns when the player quits or
// input runs out.
func (c *CLI) Run() {
	for _, line := range c.Engine.Banner() {
		c.printLine(line)
	}
	for _, line := range c.Engine.Opening() {
		c.printLine(line)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			c.printLine("")
			return
		}
		input := strings.TrimSpace(scanner.Text())

		// An open question gets the line as typed, blank or not.
		if c.Engine.Waiting() {
			if c.EchoInput {
				c.printLine(input)
			}
			if c.step(input) {
				return
			}
			continue
		}

		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else if input != "" {
			c.lastCmd = input
		}

		if c.step(input) {
			return
		}
	}
}

// step runs one engine step and reports whether the session ended.
func (c *CLI) step(input string) bool {
	result := c.Engine.Step(input)
	c.printResult(result)
	return result.Quit
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	cmd := strings.Fields(input)[0]
	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/help":
		c.cmdHelp()
	case "/state":
		c.cmdState()
	case "/saves":
		c.cmdSaves()
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdHelp() {
	for _, line := range engine.HelpText {
		c.printLine(line)
	}
	c.printLine("")
	c.printLine("System:")
	c.printLine("  /quit    Exit immediately")
	c.printLine("  /state   Dump the current state")
	c.printLine("  /saves   List saved games")
	c.printLine("  again/g  Repeat your last command")
}

func (c *CLI) cmdState() {
	e := c.Engine
	c.printSystem(fmt.Sprintf("Turn: %d", e.Turns))
	c.printSystem(fmt.Sprintf("Location: %s", e.Player.Room))
	c.printSystem(fmt.Sprintf("Health: %d  Magic: %d", e.Player.Health, e.Player.MagicPoints))
	c.printSystem(fmt.Sprintf("Inventory: %v", e.Player.Inventory))
	var flags []string
	for name, set := range e.World.Flags {
		if set {
			flags = append(flags, name)
		}
	}
	if len(flags) > 0 {
		slices.Sort(flags)
		c.printSystem(fmt.Sprintf("Flags: %v", flags))
	}
}

func (c *CLI) cmdSaves() {
	if c.Engine.Store == nil {
		c.printSystem("Saving is not available.")
		return
	}
	names, err := c.Engine.Store.List(context.Background())
	if err != nil {
		c.printSystem(fmt.Sprintf("Could not list saves: %v", err))
		return
	}
	if len(names) == 0 {
		c.printSystem("No saved games.")
		return
	}
	c.printSystem("Saves: " + strings.Join(names, ", "))
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
	if result.Prompt != "" {
		c.printLine(result.Prompt)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
