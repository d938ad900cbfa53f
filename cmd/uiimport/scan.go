package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/pipeline"
)

func scanCmd(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Report which components of each library the code imports",
		Long: `Scan files for imports and requires of the configured libraries without
rewriting them, and summarize component usage per library.

Examples:
  uiimport scan src
  uiimport scan src --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) == 0 {
				args = []string{"."}
			}
			files, err := pipeline.Expand(args, e.cfg.DiscoverOptions())
			if err != nil {
				return err
			}

			report, err := e.pipeline.Scan(cmd.Context(), files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				renderUsage(out, report)
				printFailures(cmd.ErrOrStderr(), report.Failures)
			}
			if len(report.Failures) > 0 {
				return fmt.Errorf("%d files failed", len(report.Failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print references and usage as JSON")
	return cmd
}
