package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gnana997/uiimport/pkg/pipeline"
)

var (
	addColor  = color.New(color.FgGreen)
	delColor  = color.New(color.FgRed)
	hunkColor = color.New(color.FgCyan)
	headColor = color.New(color.Bold)
	warnColor = color.New(color.FgYellow)
)

// printDiff writes a unified diff with added and removed lines colored.
func printDiff(w io.Writer, unified string) {
	for _, line := range strings.SplitAfter(unified, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			headColor.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			delColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// printFailures lists per-file failures.
func printFailures(w io.Writer, failures []pipeline.FileError) {
	for _, f := range failures {
		delColor.Fprintf(w, "  ✗ %s: %s\n", displayPath(f.FilePath), f.Message)
	}
}

// printTransformSummary writes the one-line batch summary.
func printTransformSummary(w io.Writer, report *pipeline.Report, wrote bool) {
	verb := "would change"
	if wrote {
		verb = "rewritten"
	}
	summary := fmt.Sprintf("%d files checked, %d %s, %d skipped", report.Files, report.Changed, verb, report.Skipped)
	switch {
	case len(report.Failures) > 0:
		delColor.Fprintf(w, "%s, %d failed\n", summary, len(report.Failures))
	case report.Changed > 0:
		warnColor.Fprintln(w, summary)
	default:
		addColor.Fprintln(w, summary)
	}
}

// renderReport writes a table of the rewrites in each changed file.
func renderReport(w io.Writer, report *pipeline.Report) {
	changed := report.ChangedResults()
	if len(changed) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Specifiers", "Properties", "Namespaces", "Styles", "Removed"})
	for _, res := range changed {
		t.AppendRow(table.Row{
			displayPath(res.Path),
			res.Stats.Specifiers,
			res.Stats.Properties,
			res.Stats.NamespaceImports,
			res.Stats.StyleImports,
			res.Stats.RemovedStatements,
		})
	}
	s := report.Stats
	t.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d files", len(changed)),
		s.Specifiers, s.Properties, s.NamespaceImports, s.StyleImports, s.RemovedStatements,
	})
	t.Render()
}

// renderUsage writes one table per library of a scan.
func renderUsage(w io.Writer, report *pipeline.ScanReport) {
	for _, u := range report.Usage {
		headColor.Fprintf(w, "%s", u.Library)
		fmt.Fprintf(w, "  %d files, %d whole-library references, %d sub-path imports\n", u.Files, u.Direct, u.SubPath)
		if len(u.Components) == 0 {
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Component", "Uses"})
		for _, name := range u.SortedComponents() {
			t.AppendRow(table.Row{name, u.Components[name]})
		}
		t.Render()
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
