package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rulesDiffFlag string

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the registered convention rules",
		Long: `List every registered rule with its identifier, default severity and summary.

Use --diff RULE-ID to print a unified diff of the rule's bad and good
code snippets.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			if rulesDiffFlag != "" {
				rule, ok := registry.Get(rulesDiffFlag)
				if !ok {
					return fmt.Errorf("unknown rule id %q", rulesDiffFlag)
				}

				return ui.DisplayRuleDiff(context.Background(), rule)
			}

			return ui.DisplayRules(context.Background(), registry.Rules())
		},
	}

	cmd.Flags().StringVar(&rulesDiffFlag, "diff", "", "show the bad/good snippet diff for a rule id")

	return cmd
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
