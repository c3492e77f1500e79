package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relbench/relbench/internal/projectconfig"
	"github.com/relbench/relbench/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		interactive bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a .relbench.yaml project config",
		Long: `Write a .relbench.yaml with the default tasks, logit models and report
settings into the given directory.

Use --interactive to run a guided wizard that asks for the prediction file
format, logit models, strategy order and report options.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initCommandE(cmd, dir, interactive, force)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run guided configuration wizard")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing .relbench.yaml")

	return cmd
}

func initCommandE(cmd *cobra.Command, dir string, interactive, force bool) error {
	// Create the root directory if it doesn't exist
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	cfg := projectconfig.New()
	if interactive {
		var err error
		cfg, err = wizard.RunConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		if err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := projectconfig.Write(dir, cfg, force)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p) //nolint:errcheck
	return nil
}
