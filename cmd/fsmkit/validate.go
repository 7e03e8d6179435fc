package main

import (
	"fmt"

	"github.com/aretw0/fsmkit/pkg/adapters/process"
	"github.com/aretw0/fsmkit/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <table-file>",
	Short: "Check a transition table file for consistency",
	Long: `Reports missing identifiers, duplicate (state, action) pairs and an initial state with no outgoing transition.
With --effects it also reports effect names the effects file does not bind.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		def, err := schema.Load(args[0])
		if err != nil {
			return err
		}
		if err := schema.Validate(def); err != nil {
			problems := schema.ValidationErrors(err)
			if len(problems) == 0 {
				return err
			}
			for _, p := range problems {
				fmt.Fprintf(out, "  - %v\n", p)
			}
			return fmt.Errorf("validation failed: %d problem(s)", len(problems))
		}
		if path, _ := cmd.Flags().GetString("effects"); path != "" {
			effects, err := process.LoadEffects(path)
			if err != nil {
				return err
			}
			reg := process.NewRunner(process.WithRegistry(effects)).Registry()
			if missing := reg.Missing(def.EffectNames()...); len(missing) > 0 {
				for _, name := range missing {
					fmt.Fprintf(out, "  - effect %q is not bound in %s\n", name, path)
				}
				return fmt.Errorf("validation failed: %d unbound effect(s)", len(missing))
			}
		}
		fmt.Fprintf(out, "Table %q is valid: %d transitions.\n", def.Name, len(def.Transitions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("effects", "", "Effects file whose bindings must cover the table's effect names")
}
