package tui

import (
	"io"

	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/muesli/termenv"
)

// Style colors terminal output. The zero value prints plain text.
type Style struct {
	profile termenv.Profile
}

// NewStyle creates a style for the given color profile.
func NewStyle(p termenv.Profile) Style {
	return Style{profile: p}
}

// DetectStyle picks the color profile of w, honoring NO_COLOR and CLICOLOR_FORCE.
func DetectStyle(w io.Writer) Style {
	return NewStyle(termenv.NewOutput(w).EnvColorProfile())
}

// State renders a state name.
func (s Style) State(id domain.StateID) string {
	return s.paint(string(id), "#fbbf24")
}

// Label renders a highlighted label.
func (s Style) Label(text string) string {
	return s.paint(text, "#60a5fa")
}

// Success renders a message about a completed action.
func (s Style) Success(text string) string {
	return s.paint(text, "#4ade80")
}

// Error renders a rejection or failure.
func (s Style) Error(text string) string {
	return s.paint(text, "#f87171")
}

// Faint renders secondary information.
func (s Style) Faint(text string) string {
	if s.profile == termenv.Ascii {
		return text
	}
	return s.profile.String(text).Faint().String()
}

func (s Style) paint(text, color string) string {
	if s.profile == termenv.Ascii {
		return text
	}
	return s.profile.String(text).Foreground(s.profile.Color(color)).String()
}
