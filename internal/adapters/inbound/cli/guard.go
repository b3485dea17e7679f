package cli

import (
	"fmt"

	"github.com/archguard/archguard/internal/application"
	"github.com/archguard/archguard/internal/domain"
	"github.com/spf13/cobra"
)

func newGuardCmd(opts *globalOptions) *cobra.Command {
	var (
		rulesPath string
		layer     string
	)

	cmd := &cobra.Command{
		Use:   "guard <file>",
		Short: "Check the imports of a single file",
		Long:  "Check one file for forbidden imports only. Exits non-zero on any violation; files outside every layer pass unless --layer is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			svc := opts.auditService()
			out := cmd.OutOrStdout()

			c, err := svc.Classify(file, rulesPath)
			if err != nil {
				return err
			}
			if layer == "" {
				layer = c.Layer
			}
			if layer == domain.UnknownLayer {
				fmt.Fprintf(out, "skip: %s does not belong to any layer\n", c.File)
				return nil
			}

			result, err := svc.Run(cmd.Context(), application.AuditRequest{
				Target:     file,
				RulesPath:  rulesPath,
				ForceLayer: layer,
				Workers:    1,
			})
			if err != nil {
				return err
			}

			var violations []domain.Violation
			for _, r := range result.Reports {
				violations = append(violations, r.Violations...)
			}

			if len(violations) == 0 {
				fmt.Fprintf(out, "✓ %s (%s): no architecture violations\n", c.File, layer)
				return nil
			}

			fmt.Fprintf(out, "✗ %s (%s): %d architecture violations\n", c.File, layer, len(violations))
			for _, v := range violations {
				fmt.Fprintf(out, "  line %d: %s\n", v.Line, v.Message())
			}
			return fmt.Errorf("%w: %d violations in %s", domain.ErrAuditFailed, len(violations), c.File)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file (defaults to .archguard.yaml in the project root)")
	cmd.Flags().StringVar(&layer, "layer", "", "Check the file as this layer")

	return cmd
}
