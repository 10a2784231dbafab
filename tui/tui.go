package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/nathoo/labyrinth/engine"
	"github.com/nathoo/labyrinth/types"
)

// keyMap holds the bindings the model reacts to. Everything else goes to
// the text input.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
}

// line is one unstyled transcript line. Styling and wrapping happen at
// render time so a resize can reflow everything.
type line struct {
	text string
	kind lineKind
}

// Model is the Bubble Tea model for a play session.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	transcript []line

	width    int
	height   int
	ready    bool
	quitting bool
	lastCmd  string
}

// openingMsg delivers the banner and opening text once the program runs.
type openingMsg []string

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run plays a session in the alternate screen until the player quits.
func Run(eng *engine.Engine) error {
	_, err := tea.NewProgram(New(eng), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Init starts the cursor blinking and queues the opening text.
func (m Model) Init() tea.Cmd {
	opening := append(m.engine.Banner(), m.engine.Opening()...)
	return tea.Batch(textinput.Blink, func() tea.Msg { return openingMsg(opening) })
}

// Update handles resizes, keys and the opening text.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case openingMsg:
		m.narrate(msg)
		m.transcript = append(m.transcript, line{})
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.Older):
			if prev, ok := m.history.Older(m.input.Value()); ok {
				m.setInput(prev)
			}
			return m, nil
		case key.Matches(msg, keys.Newer):
			if next, ok := m.history.Newer(); ok {
				m.setInput(next)
			}
			return m, nil
		case key.Matches(msg, keys.Scroll):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1) // status bar and input line
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.refresh()
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// submit handles the line in the input box.
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.history.Add(input)

	// An open question takes the line as typed, even when blank.
	if m.engine.Waiting() {
		return m.play(input, input)
	}
	if input == "" {
		return m, nil
	}

	switch lower := strings.ToLower(input); {
	case lower == "again" || lower == "g":
		if m.lastCmd == "" {
			m.system(input, []string{"Nothing to repeat."})
			return m, nil
		}
		return m.play(input, m.lastCmd)

	case strings.HasPrefix(input, "/"):
		out, quit := m.handleMeta(input)
		m.system(input, out)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.lastCmd = input
	return m.play(input, input)
}

// play steps the engine with command and records the exchange under the
// echoed typed line.
func (m Model) play(typed, command string) (tea.Model, tea.Cmd) {
	res := m.engine.Step(command)
	m.record(typed, res)
	if res.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) record(typed string, res types.Result) {
	m.transcript = append(m.transcript, line{text: "> " + typed, kind: kindInput})
	m.narrate(res.Output)
	if res.Prompt != "" {
		m.transcript = append(m.transcript, line{text: res.Prompt, kind: kindPrompt})
	} else {
		m.transcript = append(m.transcript, line{})
	}
	m.refresh()
}

// narrate appends engine output, splitting multi-line entries.
func (m *Model) narrate(output []string) {
	for _, text := range output {
		for _, l := range strings.Split(text, "\n") {
			m.transcript = append(m.transcript, line{text: l, kind: classifyLine(l)})
		}
	}
}

func (m *Model) system(typed string, out []string) {
	m.transcript = append(m.transcript, line{text: "> " + typed, kind: kindInput})
	for _, text := range out {
		m.transcript = append(m.transcript, line{text: "[" + text + "]", kind: kindSystem})
	}
	m.transcript = append(m.transcript, line{})
	m.refresh()
}

// refresh reflows the transcript at the current width and scrolls to the
// bottom.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)
	rendered := make([]string, len(m.transcript))
	for i, l := range m.transcript {
		if l.text != "" {
			rendered[i] = render(ansi.Wordwrap(l.text, width, ""), l.kind)
		}
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

// View draws the transcript, the status bar and the input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta runs a slash command and reports whether to exit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	switch cmd := strings.Fields(input)[0]; cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/help":
		return m.cmdHelp(), false
	case "/state":
		return m.cmdState(), false
	case "/saves":
		return m.cmdSaves(), false
	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return append(slices.Clone(engine.HelpText),
		"",
		"System:",
		"  /quit    Exit immediately",
		"  /state   Dump the current state",
		"  /saves   List saved games",
		"  again/g  Repeat your last command",
		"",
		"PgUp/PgDn scroll, Up/Down recall commands",
	)
}

func (m *Model) cmdState() []string {
	e := m.engine
	out := []string{
		fmt.Sprintf("Turn: %d", e.Turns),
		fmt.Sprintf("Location: %s", e.Player.Room),
		fmt.Sprintf("Health: %d  Magic: %d", e.Player.Health, e.Player.MagicPoints),
		fmt.Sprintf("Inventory: %v", e.Player.Inventory),
	}
	var flags []string
	for name, set := range e.World.Flags {
		if set {
			flags = append(flags, name)
		}
	}
	if len(flags) > 0 {
		slices.Sort(flags)
		out = append(out, fmt.Sprintf("Flags: %v", flags))
	}
	if len(e.Player.Abilities) > 0 {
		out = append(out, fmt.Sprintf("Abilities: %v", e.Player.Abilities))
	}
	if n := len(e.Player.Journal); n > 0 {
		out = append(out, fmt.Sprintf("Journal entries: %d", n))
	}
	return out
}

func (m *Model) cmdSaves() []string {
	if m.engine.Store == nil {
		return []string{"Saving is not available."}
	}
	names, err := m.engine.Store.List(context.Background())
	if err != nil {
		return []string{fmt.Sprintf("Could not list saves: %v", err)}
	}
	if len(names) == 0 {
		return []string{"No saved games."}
	}
	return []string{"Saves: " + strings.Join(names, ", ")}
}

// viewportKeyMap leaves Up and Down to the command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
