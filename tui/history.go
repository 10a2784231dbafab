// Package tui provides a Bubble Tea terminal UI for playing the game.
package tui

// History remembers submitted commands for Up/Down recall. While the
// player browses, the line they were typing is kept as a draft and comes
// back when they step past the newest entry.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
	draft   string
}

// NewHistory creates a history that keeps at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Add records a command and stops browsing. Blank lines and immediate
// repeats are not recorded.
func (h *History) Add(cmd string) {
	if cmd != "" && (len(h.entries) == 0 || h.entries[len(h.entries)-1] != cmd) {
		h.entries = append(h.entries, cmd)
		if over := len(h.entries) - h.limit; over > 0 {
			h.entries = h.entries[over:]
		}
	}
	h.Reset()
}

// Older steps back one entry. current is the input line, saved as the
// draft when browsing starts. At the oldest entry it stays put.
func (h *History) Older(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if !h.browsing() {
		h.draft = current
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Newer steps forward one entry. Stepping past the newest entry returns
// the draft and stops browsing; it reports false when not browsing.
func (h *History) Newer() (string, bool) {
	if !h.browsing() {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		draft := h.draft
		h.draft = ""
		return draft, true
	}
	return h.entries[h.pos], true
}

// Reset stops browsing and drops the draft.
func (h *History) Reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

func (h *History) browsing() bool {
	return h.pos < len(h.entries)
}
