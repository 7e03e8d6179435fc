package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/fsmkit/internal/demo/editor"
	"github.com/aretw0/fsmkit/internal/demo/vending"
	"github.com/aretw0/fsmkit/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func console(input string, out io.Writer) *Console {
	return NewConsole(strings.NewReader(input), out, tui.NewStyle(termenv.Ascii), false)
}

func TestRunVending_Piped(t *testing.T) {
	var out bytes.Buffer
	m, err := vending.New(1)
	require.NoError(t, err)

	err = RunVending(context.Background(), console("2\n1\n1\n2\n3\nx\nu\n4\n", &out), m)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Insert money first.")
	assert.Contains(t, text, "State changed to: ProductSelected")
	assert.Contains(t, text, "Please select a product, money already inserted.")
	assert.Contains(t, text, "State changed to: DispensingProduct")
	assert.Contains(t, text, "Product dispensed, waiting for money again.")
	assert.Contains(t, text, "Invalid option.")
	assert.Contains(t, text, "Undone.")
	assert.Contains(t, text, "Leaving the system.")
	assert.NotContains(t, text, "option:", "no menu when piped")

	assert.Equal(t, vending.DispensingProduct, m.State())
}

func TestRunVending_OutOfStockAndEOF(t *testing.T) {
	var out bytes.Buffer
	m, err := vending.New(0)
	require.NoError(t, err)

	err = RunVending(context.Background(), console("1\n2\n3\ns\n3\n", &out), m)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, HandleExecutionError(err))

	assert.Contains(t, out.String(), "Out of stock.")
	assert.Equal(t, vending.WaitingForMoney, m.State())
	assert.Equal(t, 1, m.Inventory().Dispensed)
}

func TestRunVending_Interactive(t *testing.T) {
	var out bytes.Buffer
	m, err := vending.New(1)
	require.NoError(t, err)

	c := NewConsole(strings.NewReader("4\n"), &out, tui.NewStyle(termenv.Ascii), true)
	require.NoError(t, RunVending(context.Background(), c, m))
	assert.Contains(t, out.String(), "1. Insert money")
	assert.Contains(t, out.String(), "Select an option: Waiting for money (stock 1, credit 0, dispensed 0)")
}

func TestRunVending_Cancelled(t *testing.T) {
	m, err := vending.New(1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = RunVending(ctx, console("1\n", io.Discard), m)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, HandleExecutionError(err))
}

func TestRunEditorDemo(t *testing.T) {
	var out bytes.Buffer
	e, err := editor.New()
	require.NoError(t, err)

	require.NoError(t, RunEditorDemo(context.Background(), console("", &out), e))
	assert.Contains(t, out.String(), `Current text: "Hola Mundo!"`)
	assert.Contains(t, out.String(), `"Hola Mundo!Hola Mundo!"`)
	assert.Contains(t, out.String(), `Final text: "Hola Mundo"`)
	assert.Equal(t, "Hola Mundo", e.Text())
}

func TestRunEditor_Commands(t *testing.T) {
	var out bytes.Buffer
	e, err := editor.New()
	require.NoError(t, err)

	script := "undo\npaste\ntype ab\ncopy\npaste\nundo\nredo\nbogus\nshow\nquit\n"
	require.NoError(t, RunEditor(context.Background(), console(script, &out), e))

	text := out.String()
	assert.Contains(t, text, "Nothing to undo.")
	assert.Contains(t, text, "Nothing to paste, copy something first.")
	assert.Contains(t, text, `Copied to clipboard: "ab"`)
	assert.Contains(t, text, "Unknown command: bogus")
	assert.Equal(t, "abab", e.Text())
}
