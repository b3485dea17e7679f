package cli

import (
	"fmt"
	"path/filepath"

	"github.com/archguard/archguard/internal/adapters/outbound/rules"
	"github.com/archguard/archguard/internal/domain"
	"github.com/spf13/cobra"
)

const rulesFileName = ".archguard.yaml"

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .archguard.yaml rule file",
		Long:  "Create a .archguard.yaml with clean-architecture layers (domain, application, infrastructure, interface).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, rulesFileName)
			if err := rules.Write(dest, domain.DefaultRulesConfig(), force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", rulesFileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .archguard.yaml")

	return cmd
}
