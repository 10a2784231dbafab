package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/labyrinth/engine/state"
)

// renderStatusBar produces a full-width inverted status line showing the
// current room, exits, vitals, conditions, inventory and turn count.
func (m Model) renderStatusBar() string {
	e := m.engine
	p := e.Player

	roomName := p.Room
	if r := state.Room(e.World, p.Room); r != nil && r.Name != "" {
		roomName = r.Name
	}
	exitStr := strings.Join(state.Directions(e.World, p.Room), ",")
	if exitStr == "" {
		exitStr = "none"
	}

	left := fmt.Sprintf(" %s | Exits: %s | HP:%d MP:%d", roomName, exitStr, p.Health, p.MagicPoints)
	if e.World.DayCycle != "" || e.World.Weather != "" {
		conditions := strings.TrimSpace(e.World.DayCycle + " " + e.World.Weather)
		candidate := left + " | " + conditions
		if lipgloss.Width(candidate)+12 < m.width {
			left = candidate
		}
	}
	right := fmt.Sprintf("T:%d ", e.Turns)

	// Show inventory items if they fit, otherwise just count.
	if invCount := len(p.Inventory); invCount > 0 {
		names := make([]string, 0, invCount)
		for _, id := range p.Inventory {
			names = append(names, state.ItemName(e.World, id))
		}
		candidate := fmt.Sprintf("Inv: %s | T:%d ", strings.Join(names, ", "), e.Turns)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | T:%d ", invCount, e.Turns)
		}
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
