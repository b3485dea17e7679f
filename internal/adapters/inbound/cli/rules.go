package cli

import (
	"fmt"

	"github.com/archguard/archguard/internal/adapters/outbound/report"
	"github.com/archguard/archguard/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newRulesCmd(opts *globalOptions) *cobra.Command {
	var (
		rulesPath  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "Show the effective rules for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			proj, err := opts.auditService().Resolve(path, rulesPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				return report.WriteJSON(cmd.OutOrStdout(), proj.Rules.Config())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(proj.Rules))
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file (defaults to .archguard.yaml in the project root)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output rules as JSON")

	return cmd
}
