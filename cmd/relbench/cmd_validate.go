package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/relbench/relbench/internal/ingest"
	"github.com/relbench/relbench/internal/logging"
)

func newValidateCommand() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Schema-check every prediction file",
		Long: `Check every file matching the configured task patterns against the
prediction record schema without computing any metrics. Every file is
checked; the command fails if any file is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateCommandE(cmd, projectPath)
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project-path", "p", "", "Directory or blob URL holding the prediction files")
	_ = cmd.MarkFlagRequired("project-path")

	return cmd
}

func validateCommandE(cmd *cobra.Command, projectPath string) error {
	p, err := openProject(cmd, projectPath)
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck

	loader := ingest.NewLoader(p.source,
		ingest.WithWorkers(p.cfg.Loader.Workers),
		ingest.WithLogger(logging.New("validate")),
	)

	out := cmd.OutOrStdout()
	failed := 0
	for _, t := range p.cfg.Tasks {
		fmt.Fprintf(out, "%s (%s)\n", t.Name, t.Pattern) //nolint:errcheck

		checks, err := loader.Check(cmd.Context(), t.Pattern)
		if errors.Is(err, ingest.ErrNoFiles) {
			fmt.Fprintln(out, "  no files found") //nolint:errcheck
			continue
		}
		if err != nil {
			return err
		}

		for _, c := range checks {
			name := filepath.Base(c.Path)
			if c.Err != nil {
				failed++
				fmt.Fprintf(out, "  ❌ %s: %v\n", name, c.Err) //nolint:errcheck
				continue
			}
			fmt.Fprintf(out, "  ✅ %s (%d rows)\n", name, c.Rows) //nolint:errcheck
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d invalid file(s)", failed)
	}
	return nil
}
