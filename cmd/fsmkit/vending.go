package main

import (
	"os"

	"github.com/aretw0/fsmkit/internal/cli"
	"github.com/aretw0/fsmkit/internal/demo/vending"
	"github.com/aretw0/fsmkit/internal/presentation/tui"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/observability"
	"github.com/spf13/cobra"
)

var vendingCmd = &cobra.Command{
	Use:   "vending",
	Short: "Operate a vending machine",
	Long: `Runs the vending machine interactively, or reads menu options line by line
when standard input is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stock := cfg.VendingStock
		if cmd.Flags().Changed("stock") {
			stock, _ = cmd.Flags().GetInt("stock")
		}

		m, err := vending.New(stock,
			fsm.WithLogger(logger),
			fsm.WithLifecycleHooks(observability.LoggingHooks(logger)),
		)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		interactive := cli.IsTerminal(os.Stdin)
		style := tui.DetectStyle(cmd.OutOrStdout())
		if interactive {
			tui.PrintBanner(cmd.OutOrStdout(), style)
		}
		console := cli.NewConsole(os.Stdin, cmd.OutOrStdout(), style, interactive)
		return cli.HandleExecutionError(cli.RunVending(ctx, console, m))
	},
}

func init() {
	rootCmd.AddCommand(vendingCmd)
	vendingCmd.Flags().Int("stock", 3, "Products loaded in the machine (default from FSMKIT_VENDING_STOCK)")
}
