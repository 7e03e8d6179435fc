package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyle_Ascii(t *testing.T) {
	s := NewStyle(termenv.Ascii)
	assert.Equal(t, "WaitingForMoney", s.State("WaitingForMoney"))
	assert.Equal(t, "oops", s.Error("oops"))
	assert.Equal(t, "ok", s.Success("ok"))
	assert.Equal(t, "1.", s.Label("1."))
	assert.Equal(t, "aside", s.Faint("aside"))
}

func TestStyle_Colored(t *testing.T) {
	s := NewStyle(termenv.TrueColor)
	out := s.State("ProductSelected")
	assert.Contains(t, out, "ProductSelected")
	assert.Contains(t, out, "\x1b[")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, NewStyle(termenv.Ascii))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Equal(t, 7, strings.Count(buf.String(), "\n"))
}

func TestRenderer(t *testing.T) {
	render := NewRenderer(80)
	out, err := render("| From | Action |\n|---|---|\n| a | `go` |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "go")
}
