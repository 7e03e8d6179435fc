package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/aretw0/fsmkit/internal/demo/editor"
	"github.com/aretw0/fsmkit/pkg/domain"
)

const editorHelp = `Commands:
    type <text>   append text
    copy          copy the whole text
    paste         append the clipboard
    undo / redo
    show          print the text
    quit`

// RunEditorDemo replays the classic toolbar session: type "Hola Mundo!" one
// character at a time, copy, paste and undo twice.
func RunEditorDemo(ctx context.Context, c *Console, e *editor.Editor) error {
	s := c.Style()
	for _, ch := range "Hola Mundo!" {
		if err := e.Type(ctx, string(ch)); err != nil {
			return err
		}
	}
	c.Printf("Current text: %s\n", s.Success(quote(e.Text())))

	steps := []struct {
		title string
		run   func(context.Context) error
	}{
		{"Copying text:", e.Copy},
		{"Pasting text:", e.Paste},
		{"Undoing the last action:", e.Undo},
		{"Undoing again:", e.Undo},
	}
	for _, step := range steps {
		c.Printf("\n%s\n", step.title)
		if err := step.run(ctx); err != nil {
			reportEditor(c, err)
			continue
		}
		c.Println(s.Label(quote(e.Text())))
	}

	c.Printf("\nFinal text: %s\n", quote(e.Text()))
	return nil
}

// RunEditor executes editor commands read from the console.
func RunEditor(ctx context.Context, c *Console, e *editor.Editor) error {
	s := c.Style()
	if c.interactive {
		c.Println(editorHelp)
	}
	for {
		line, err := c.Prompt(ctx, "> ")
		if err != nil {
			return err
		}
		cmd, arg, _ := strings.Cut(line, " ")

		switch cmd {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "type":
			err = e.Type(ctx, arg)
		case "copy":
			err = e.Copy(ctx)
			if err == nil {
				c.Printf("Copied to clipboard: %s\n", s.Label(quote(e.Clipboard())))
				continue
			}
		case "paste":
			err = e.Paste(ctx)
		case "undo":
			err = e.Undo(ctx)
		case "redo":
			err = e.Redo(ctx)
		case "show":
		case "help":
			c.Println(editorHelp)
			continue
		default:
			c.Println(s.Error("Unknown command: " + cmd))
			continue
		}

		if err != nil {
			reportEditor(c, err)
			continue
		}
		c.Println(s.Label(quote(e.Text())))
	}
}

func reportEditor(c *Console, err error) {
	s := c.Style()
	switch {
	case errors.Is(err, domain.ErrNothingToUndo):
		c.Println("Nothing to undo.")
	case errors.Is(err, domain.ErrNothingToRedo):
		c.Println("Nothing to redo.")
	case errors.Is(err, domain.ErrInvalidAction):
		c.Println(s.Error("Nothing to paste, copy something first."))
	default:
		c.Println(s.Error(err.Error()))
	}
}

func quote(s string) string {
	return "\"" + s + "\""
}
