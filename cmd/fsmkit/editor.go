package main

import (
	"os"

	"github.com/aretw0/fsmkit/internal/cli"
	"github.com/aretw0/fsmkit/internal/demo/editor"
	"github.com/aretw0/fsmkit/internal/presentation/tui"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/spf13/cobra"
)

var editorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Edit text with copy, paste, undo and redo",
	Long: `Reads editor commands (type, copy, paste, undo, redo, show, quit) from standard input.
With --demo it replays the "Hola Mundo!" toolbar session instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := editor.New(fsm.WithLogger(logger))
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		interactive := cli.IsTerminal(os.Stdin)
		console := cli.NewConsole(os.Stdin, cmd.OutOrStdout(), tui.DetectStyle(cmd.OutOrStdout()), interactive)

		if demo, _ := cmd.Flags().GetBool("demo"); demo {
			return cli.RunEditorDemo(ctx, console, e)
		}
		return cli.HandleExecutionError(cli.RunEditor(ctx, console, e))
	},
}

func init() {
	rootCmd.AddCommand(editorCmd)
	editorCmd.Flags().Bool("demo", false, "Replay the scripted toolbar session")
}
