package main

import (
	"fmt"

	"github.com/aretw0/fsmkit/internal/demo/vending"
	"github.com/aretw0/fsmkit/internal/presentation/graph"
	"github.com/aretw0/fsmkit/internal/presentation/tui"
	"github.com/aretw0/fsmkit/pkg/domain"
	"github.com/aretw0/fsmkit/pkg/fsm"
	"github.com/aretw0/fsmkit/pkg/schema"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [table-file]",
	Short: "Export the transition table visualization",
	Long: `Outputs a Mermaid diagram (graph TD) or a markdown table of a transition table file,
or of the built-in vending machine when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Table
		if len(args) > 0 {
			path = args[0]
		}
		table, initial, label, err := loadTable(path)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		var output string
		switch format {
		case "mermaid":
			output = graph.GenerateMermaid(table, initial, label, nil)
		case "markdown":
			output = graph.MarkdownTable(table, initial, label)
			if render, _ := cmd.Flags().GetBool("render"); render {
				output, err = tui.NewRenderer(100)(output)
				if err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unknown format %q (mermaid, markdown)", format)
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format (mermaid, markdown)")
	graphCmd.Flags().Bool("render", false, "Render markdown for the terminal")
}

// loadTable compiles a table file with inert effects, or the vending table
// when path is empty.
func loadTable(path string) (*fsm.Table, domain.StateID, graph.Labeler, error) {
	if path == "" {
		table, err := vending.NewTable(vending.NewStockroom(0))
		return table, vending.WaitingForMoney, vending.Label, err
	}
	def, err := schema.Load(path)
	if err != nil {
		return nil, "", nil, err
	}
	table, err := schema.Inspect(def)
	if err != nil {
		return nil, "", nil, err
	}
	return table, def.Initial, def.Label, nil
}
