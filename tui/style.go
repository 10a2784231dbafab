package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleRoomName = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleRoomDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	stylePresent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleEnding = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindRoomDesc lineKind = iota
	kindRoomName
	kindPresent
	kindExits
	kindDialogue
	kindPrompt
	kindEnding
	kindError
	kindInput
	kindSystem
)

// classifyLine determines what kind of output line this is.
func classifyLine(text string) lineKind {
	switch {
	case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
		return kindRoomName
	case strings.HasPrefix(text, "***") && strings.HasSuffix(text, "***"):
		return kindEnding
	case strings.HasPrefix(text, "There is ") && strings.HasSuffix(text, " here."),
		strings.HasPrefix(text, "You see ") && strings.HasSuffix(text, " here."):
		return kindPresent
	case strings.HasPrefix(text, "Exits:"):
		return kindExits
	case strings.HasPrefix(text, "You don't"),
		strings.HasPrefix(text, "You can't"),
		strings.HasPrefix(text, "You need "),
		strings.HasPrefix(text, "Sorry, I don't know"),
		strings.HasPrefix(text, "I don't understand"),
		strings.HasPrefix(text, "Invalid choice"),
		strings.HasPrefix(text, "Error:"):
		return kindError
	case isSpeech(text):
		return kindDialogue
	default:
		return kindRoomDesc
	}
}

// isSpeech reports whether text is an NPC line of the form
// Name: "words".
func isSpeech(text string) bool {
	name, speech, ok := strings.Cut(text, ": \"")
	return ok && name != "" && !strings.Contains(name, "\"") && strings.HasSuffix(speech, "\"")
}

// render applies the style for kind.
func render(text string, kind lineKind) string {
	switch kind {
	case kindRoomName:
		return styleRoomName.Render(text)
	case kindPresent:
		return stylePresent.Render(text)
	case kindExits:
		return styleExits.Render(text)
	case kindDialogue:
		return styleDialogue.Render(text)
	case kindPrompt:
		return stylePrompt.Render(text)
	case kindEnding:
		return styleEnding.Render(text)
	case kindError:
		return styleError.Render(text)
	case kindInput:
		return stylePlayerInput.Render(text)
	case kindSystem:
		return styleSystem.Render(text)
	default:
		return styleRoomDesc.Render(text)
	}
}
