package cli

import (
	"errors"
	"log/slog"

	"github.com/archguard/archguard/internal/adapters/outbound/gitinfo"
	"github.com/archguard/archguard/internal/adapters/outbound/rules"
	"github.com/archguard/archguard/internal/adapters/outbound/scanner"
	"github.com/archguard/archguard/internal/application"
	"github.com/archguard/archguard/internal/domain"
	"github.com/archguard/archguard/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// globalOptions carries the persistent flags and what they build.
type globalOptions struct {
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

func (o *globalOptions) auditService() *application.AuditService {
	return application.NewAuditService(scanner.New(), rules.New(), gitinfo.New(), o.logger)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{logger: logging.Discard()}

	cmd := &cobra.Command{
		Use:   "archguard",
		Short: "Enforce architecture rules as data",
		Long:  "archguard classifies source files into architectural layers, flags imports that cross forbidden layer boundaries, and reports oversized files, deep nesting and missing tests.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(cmd.ErrOrStderr(), opts.logFormat, opts.logLevel)
		if err != nil {
			return err
		}
		opts.logger = logger
		return nil
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAuditCmd(opts))
	cmd.AddCommand(newGuardCmd(opts))
	cmd.AddCommand(newRulesCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// ExitCode maps a command error to the process exit status: 1 when the
// audit gate failed, 2 for anything that stopped the audit from running.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrAuditFailed):
		return 1
	default:
		return 2
	}
}
