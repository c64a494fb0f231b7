package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/askcmd/internal/app"
)

// NewRulesCommand creates the rules command for inspecting the danger table.
func NewRulesCommand(container *app.Container) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the danger rule table",
	}

	rulesCmd.AddCommand(
		newRulesListCommand(container),
		newRulesCheckCommand(container),
	)

	return rulesCmd
}

func newRulesListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, rule := range container.Classifier.Rules() {
				fmt.Fprintf(out, "%-26s %s\n    %s\n", rule.ID, rule.Message, rule.Pattern)
			}
			return nil
		},
	}
}

func newRulesCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Classify a command without running the pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			verdict := container.Classifier.Classify(strings.Join(args, " "))
			if verdict.Safe() {
				fmt.Fprintln(out, "safe: no danger rule matched")
				return nil
			}
			fmt.Fprintf(out, "flagged by %d rule(s):\n", len(verdict.MatchedRules))
			for i, id := range verdict.MatchedRules {
				fmt.Fprintf(out, "  [%s] %s\n", id, verdict.Reasons[i])
			}
			return nil
		},
	}
}
