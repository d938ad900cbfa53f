package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/pipeline"
)

type transformOptions struct {
	write         bool
	diff          bool
	check         bool
	report        bool
	json          bool
	options       string
	stdinFilename string
}

func transformCmd(g *globalOptions) *cobra.Command {
	opts := &transformOptions{}

	cmd := &cobra.Command{
		Use:   "transform [paths...]",
		Short: "Rewrite library imports in files or directories",
		Long: `Rewrite whole-library imports and requires of the configured UI libraries.

Directories are searched for .js, .jsx, .mjs, .cjs, .ts, .tsx, .mts and .cts
files, honoring the include and exclude patterns of the config. Without
--write the command only reports what would change. A single "-" argument
reads one module from stdin and writes the result to stdout.

Examples:
  uiimport transform src --diff              # Show what would change
  uiimport transform src --write --report    # Rewrite and summarize
  uiimport transform . --check               # Exit 2 if anything would change
  uiimport transform - --stdin-filename a.ts < a.ts
  uiimport transform src --options '{"libraryName": "antd", "libraryDirectory": "es", "style": "css"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, g, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write rewritten files in place")
	cmd.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a unified diff of every change")
	cmd.Flags().BoolVar(&opts.check, "check", false, "exit with status 2 if any file would change (never writes)")
	cmd.Flags().BoolVar(&opts.report, "report", false, "print a table of rewrites per file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the batch report as JSON")
	cmd.Flags().StringVar(&opts.options, "options", "", "JSON rule document (or @file) replacing the configured libraries")
	cmd.Flags().StringVar(&opts.stdinFilename, "stdin-filename", "input.tsx", "file name selecting the dialect when reading stdin")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func runTransform(cmd *cobra.Command, g *globalOptions, args []string, opts *transformOptions) error {
	rules, err := parseOptionsFlag(opts.options)
	if err != nil {
		return err
	}
	e, err := g.load(cmd, rules)
	if err != nil {
		return err
	}
	defer e.Close()

	if len(args) == 1 && args[0] == "-" {
		return transformStdin(cmd, e, opts)
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	files, err := pipeline.Expand(args, e.cfg.DiscoverOptions())
	if err != nil {
		return err
	}

	report, err := e.pipeline.TransformFiles(cmd.Context(), files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.diff {
		for _, res := range report.ChangedResults() {
			printDiff(out, pipeline.Diff(displayPath(res.Path), res.Original, res.Output).Unified)
		}
	}

	wrote := false
	if opts.write {
		e.pipeline.WriteChanged(report)
		wrote = true
	}

	if opts.json {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		if opts.report {
			renderReport(out, report)
		}
		printFailures(cmd.ErrOrStderr(), report.Failures)
		printTransformSummary(out, report, wrote)
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d files failed", len(report.Failures))
	}
	if opts.check && report.Changed > 0 {
		return errWouldChange
	}
	return nil
}

func transformStdin(cmd *cobra.Command, e *env, opts *transformOptions) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	res, err := e.pipeline.TransformSource(opts.stdinFilename, src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.diff:
		printDiff(out, pipeline.Diff(opts.stdinFilename, res.Original, res.Output).Unified)
	case opts.json:
		if err := writeJSON(out, res); err != nil {
			return err
		}
	default:
		fmt.Fprint(out, res.Output)
	}

	if opts.check && res.Changed {
		return errWouldChange
	}
	return nil
}
