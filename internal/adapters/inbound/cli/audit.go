package cli

import (
	"fmt"

	"github.com/archguard/archguard/internal/adapters/outbound/history"
	"github.com/archguard/archguard/internal/adapters/outbound/report"
	"github.com/archguard/archguard/internal/adapters/outbound/tui"
	"github.com/archguard/archguard/internal/application"
	"github.com/archguard/archguard/internal/domain"
	"github.com/spf13/cobra"
)

func newAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		format    string
		rulesPath string
		layer     string
		workers   int
		changed   bool
		ciMode    bool
		strict    bool
		record    bool
	)

	cmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Audit a directory or file against the architecture rules",
		Long:  "Walk the target, classify every source file into a layer and report forbidden imports, code health issues and source files without tests.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			if err := validateFormat(format); err != nil {
				return err
			}

			result, err := opts.auditService().Run(cmd.Context(), application.AuditRequest{
				Target:      path,
				RulesPath:   rulesPath,
				ForceLayer:  layer,
				Workers:     workers,
				ChangedOnly: changed,
			})
			if err != nil {
				return err
			}

			if record {
				if _, err := application.NewHistoryService(history.New()).Record(path, result); err != nil {
					opts.logger.Warn("run not recorded", "error", err)
				}
			}

			switch format {
			case "json":
				if err := report.WriteJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			case "markdown":
				fmt.Fprint(cmd.OutOrStdout(), report.Markdown(result))
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderRun(result))
			}

			if ciMode && (result.Failed() || (strict && result.Warned())) {
				return fmt.Errorf("%w: status %s", domain.ErrAuditFailed, result.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, markdown, json)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file (defaults to .archguard.yaml in the project root)")
	cmd.Flags().StringVar(&layer, "layer", "", "Audit every file as this layer")
	cmd.Flags().IntVar(&workers, "workers", 0, "Files audited in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVar(&changed, "changed", false, "Only audit files changed in the git worktree")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit non-zero when the run fails")
	cmd.Flags().BoolVar(&strict, "strict", false, "With --ci, also fail on warnings")
	cmd.Flags().BoolVar(&record, "record", false, "Append this run to .archguard/history")

	return cmd
}

func validateFormat(format string) error {
	switch format {
	case "text", "markdown", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: text, markdown, json)", format)
	}
}
