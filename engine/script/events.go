package script

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nathoo/labyrinth/engine/state"
	"github.com/nathoo/labyrinth/types"
)

// reveal moves a hidden item into the player's room. Items that are
// already somewhere are left alone, so rewards appear once.
func reveal(c *Context, itemID string) *types.Item {
	it := state.Item(c.World, itemID)
	if it == nil {
		if itemID != "" {
			slog.Error("reward item does not exist", "item", itemID)
		}
		return nil
	}
	if it.Location != types.LocHidden {
		return nil
	}
	it.Location = c.Player.Room
	return it
}

// Sequence is an ordered-token puzzle. Each firing records the token for
// the command's object; once Order tokens are in, they are compared
// positionally and either solve the puzzle or clear the attempt.
type Sequence struct {
	ID    string
	Order []string
	// Alias maps typed objects to tokens. Objects not in Alias are used
	// as typed.
	Alias  map[string]string
	Flag   string
	Reward string

	Step    string // format, receives the token
	Success string
	Failure string
	Done    string
}

// Fire implements Event.
func (s *Sequence) Fire(c *Context) {
	if state.Flag(c.World, s.Flag) {
		c.Say(s.Done)
		return
	}
	token := c.Object
	if a, ok := s.Alias[token]; ok {
		token = a
	}
	if s.Step != "" {
		c.Sayf(s.Step, token)
	}

	seq := state.AppendProgress(c.World, s.ID, token)
	if len(seq) < len(s.Order) {
		return
	}
	state.ClearProgress(c.World, s.ID)
	if !slices.Equal(seq, s.Order) {
		slog.Debug("sequence failed", "puzzle", s.ID, "tokens", seq)
		c.Say(s.Failure)
		return
	}
	state.SetFlag(c.World, s.Flag, true)
	reveal(c, s.Reward)
	slog.Info("puzzle solved", "puzzle", s.ID, "room", c.Player.Room)
	c.Say(s.Success)
}

// ChainStep is one item of a Chain.
type ChainStep struct {
	Item  string
	Label string // "large gear"
	Text  string
}

// Chain is a prerequisite chain: each step's item must be placed after
// the previous one, and Activate completes the chain once every step is
// in.
type Chain struct {
	ID     string
	Steps  []ChainStep
	Flag   string
	Reward string

	Before     string // format, receives the missing step's label
	Placed     string // format, receives the step's label
	Incomplete string
	Success    []string
	Done       string
}

// StepFlag names the flag recording that step item has been placed.
func (ch *Chain) StepFlag(item string) string {
	return ch.ID + ":" + item
}

func (ch *Chain) placed(w *types.World, i int) bool {
	return state.Flag(w, ch.StepFlag(ch.Steps[i].Item))
}

// Place returns the event for placing step i.
func (ch *Chain) Place(i int) Event {
	return EventFunc(func(c *Context) {
		step := ch.Steps[i]
		if ch.placed(c.World, i) {
			c.Sayf(ch.Placed, step.Label)
			return
		}
		if i > 0 && !ch.placed(c.World, i-1) {
			c.Sayf(ch.Before, ch.Steps[i-1].Label)
			return
		}
		if !c.Holding(step.Item) {
			c.Sayf("You don't have the %s.", state.ItemName(c.World, step.Item))
			return
		}
		state.MoveItem(c.World, &c.Player.Character, step.Item, types.LocPlaced)
		state.SetFlag(c.World, ch.StepFlag(step.Item), true)
		c.Say(step.Text)
	})
}

// Activate returns the event that completes the chain.
func (ch *Chain) Activate() Event {
	return EventFunc(func(c *Context) {
		if state.Flag(c.World, ch.Flag) {
			c.Say(ch.Done)
			return
		}
		for i := range ch.Steps {
			if !ch.placed(c.World, i) {
				c.Say(ch.Incomplete)
				return
			}
		}
		state.SetFlag(c.World, ch.Flag, true)
		reveal(c, ch.Reward)
		slog.Info("puzzle solved", "puzzle", ch.ID, "room", c.Player.Room)
		c.Say(ch.Success...)
	})
}

// Riddle is a question with one accepted answer, compared without regard
// to case or surrounding space.
type Riddle struct {
	Flag   string
	Accept string
	Reward string

	Question []string
	Prompt   string
	Correct  []string
	Wrong    string
	Solved   string // spoken by Ask once solved
	Already  string // spoken by Answer once solved
}

func (r *Riddle) check(c *Context, guess string) {
	if !strings.EqualFold(strings.TrimSpace(guess), r.Accept) {
		c.Say(r.Wrong)
		return
	}
	state.SetFlag(c.World, r.Flag, true)
	reveal(c, r.Reward)
	slog.Info("riddle solved", "flag", r.Flag)
	c.Say(r.Correct...)
}

// Ask returns the event that poses the riddle and waits for an answer.
func (r *Riddle) Ask() Event {
	return EventFunc(func(c *Context) {
		if state.Flag(c.World, r.Flag) {
			c.Say(r.Solved)
			return
		}
		c.Say(r.Question...)
		c.Ask(r.Prompt, r.check)
	})
}

// Answer returns the event for answering without being asked. A command
// whose verb is not "answer" is taken as the answer itself.
func (r *Riddle) Answer() Event {
	return EventFunc(func(c *Context) {
		if state.Flag(c.World, r.Flag) {
			c.Say(r.Already)
			return
		}
		guess := c.Object
		if c.Verb != "answer" {
			guess = c.Verb
		}
		r.check(c, guess)
	})
}

// Threshold collects quest parts from the player's inventory. When the
// player holds at least Need parts they are consumed and Reward appears.
type Threshold struct {
	Parts  []string
	Need   int // zero defers to World.RestorationThreshold
	Reward string
	Flag   string

	Success   string
	Shortfall string
	Done      string
}

// Required returns how many parts the threshold needs in w.
func (t *Threshold) Required(w *types.World) int {
	return required(w, t.Need, len(t.Parts))
}

func required(w *types.World, need, total int) int {
	if need <= 0 {
		need = w.RestorationThreshold
	}
	if need <= 0 || need > total {
		need = total
	}
	return need
}

func held(c *Context, parts []string) []string {
	var out []string
	for _, id := range parts {
		if c.Holding(id) {
			out = append(out, id)
		}
	}
	return out
}

// Fire implements Event.
func (t *Threshold) Fire(c *Context) {
	if state.Flag(c.World, t.Flag) {
		c.Say(t.Done)
		return
	}
	have := held(c, t.Parts)
	if len(have) < t.Required(c.World) {
		c.Say(t.Shortfall)
		return
	}
	for _, id := range have {
		state.MoveItem(c.World, &c.Player.Character, id, types.LocPlaced)
	}
	state.SetFlag(c.World, t.Flag, true)
	reveal(c, t.Reward)
	slog.Info("quest parts combined", "flag", t.Flag, "parts", len(have))
	c.Say(t.Success)
}

// Gate is a tool-assisted unlock. A lenient gate succeeds without the
// tool, with different narration; a strict one refuses.
type Gate struct {
	Tool    string
	Strict  bool
	Unlocks []string // directions out of the player's room
	Reward  string
	Flag    string

	WithTool    string
	WithoutTool string
	Missing     string // strict gates only
	Done        string // empty lets the gate run again
}

// Fire implements Event.
func (g *Gate) Fire(c *Context) {
	if g.Done != "" && state.Flag(c.World, g.Flag) {
		c.Say(g.Done)
		return
	}
	tool := c.Holding(g.Tool)
	if !tool {
		if it := state.Item(c.World, g.Tool); it != nil && it.Location == types.LocPlaced {
			tool = true
		}
	}
	switch {
	case tool:
		c.Say(g.WithTool)
	case g.Strict:
		if g.Missing != "" {
			c.Say(g.Missing)
		} else {
			c.Sayf("You need %s to do that.", state.ItemName(c.World, g.Tool))
		}
		return
	default:
		c.Say(g.WithoutTool)
	}
	for _, dir := range g.Unlocks {
		state.Unlock(c.World, c.Player.Room, dir)
	}
	if g.Flag != "" {
		state.SetFlag(c.World, g.Flag, true)
	}
	reveal(c, g.Reward)
}

// Say speaks fixed lines.
func Say(lines ...string) Event {
	return EventFunc(func(c *Context) { c.Say(lines...) })
}

// SetFlag sets a flag silently.
func SetFlag(name string) Event {
	return EventFunc(func(c *Context) { state.SetFlag(c.World, name, true) })
}

// Reveal brings a hidden item into the room and says text when it does.
func Reveal(itemID, text string) Event {
	return EventFunc(func(c *Context) {
		if reveal(c, itemID) != nil {
			c.Say(text)
		}
	})
}

// All fires events in order. A question asked by one event stops the
// rest.
func All(events ...Event) Event {
	return EventFunc(func(c *Context) {
		for _, ev := range events {
			if c.Pending() != nil {
				return
			}
			ev.Fire(c)
		}
	})
}

func pick(c *Context, cond bool, then, els Event) {
	switch {
	case cond && then != nil:
		then.Fire(c)
	case !cond && els != nil:
		els.Fire(c)
	}
}

// IfFlag branches on a flag. Either branch may be nil.
func IfFlag(name string, then, els Event) Event {
	return EventFunc(func(c *Context) {
		pick(c, state.Flag(c.World, name), then, els)
	})
}

// IfHolding branches on the player carrying an item.
func IfHolding(itemID string, then, els Event) Event {
	return EventFunc(func(c *Context) {
		pick(c, c.Holding(itemID), then, els)
	})
}

// IfCollected branches on the player holding enough of parts. A zero need
// defers to World.RestorationThreshold.
func IfCollected(parts []string, need int, then, els Event) Event {
	return EventFunc(func(c *Context) {
		pick(c, len(held(c, parts)) >= required(c.World, need, len(parts)), then, els)
	})
}

// Choice is one option of a Menu.
type Choice struct {
	Text string
	Then Event
}

// Menu is a scripted conversation: a line, numbered choices and a prompt.
// After fires once the player has answered, whatever they chose.
type Menu struct {
	Speaker string
	Line    string
	Header  string // defaults to "What do you say?"
	Choices []Choice
	After   Event
}

// Fire implements Event.
func (m *Menu) Fire(c *Context) {
	if m.Line != "" {
		c.Sayf("%s: \"%s\"", m.Speaker, m.Line)
	}
	header := m.Header
	if header == "" {
		header = "What do you say?"
	}
	var b strings.Builder
	b.WriteString(header)
	for i, ch := range m.Choices {
		fmt.Fprintf(&b, "\n%d: %s", i+1, ch.Text)
	}
	c.Say(b.String())
	c.Ask("Choose an option:", m.resume)
}

func (m *Menu) resume(c *Context, answer string) {
	for i, ch := range m.Choices {
		if strings.TrimSpace(answer) == fmt.Sprint(i+1) && ch.Then != nil {
			ch.Then.Fire(c)
			break
		}
	}
	if m.After != nil && c.Pending() == nil {
		m.After.Fire(c)
	}
}
