package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fsmkit banner to w.
func PrintBanner(w io.Writer, s Style) {
	lines := []struct {
		text  string
		color string
	}{
		{"   __                     _    _ _   ", "#818cf8"},
		{"  / _|___ _ __ ___  | | _(_) |_ ", "#a78bfa"},
		{" | |_/ __| '_ ` _ \\ | |/ / | __|", "#c084fc"},
		{" |  _\\__ \\ | | | | ||   <| | |_ ", "#e879f9"},
		{" |_| |___/_| |_| |_||_|\\_\\_|\\__|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		if s.profile == termenv.Ascii {
			fmt.Fprintln(w, l.text)
			continue
		}
		fmt.Fprintln(w, s.profile.String(l.text).Foreground(s.profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
