package pipeline

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines around each hunk.
const diffContext = 3

// FileDiff is a line diff of one file.
type FileDiff struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`

	// Unified is the diff in unified format, empty when nothing changed.
	Unified string `json:"unified,omitempty"`
}

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// Diff computes a unified line diff between before and after.
func Diff(path, before, after string) *FileDiff {
	fd := &FileDiff{Path: path}
	if before == after {
		return fd
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			all = append(all, diffLine{op: d.Type, text: line})
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				fd.Added++
			case diffmatchpatch.DiffDelete:
				fd.Removed++
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(all) {
		writeHunk(&sb, all, h)
	}
	fd.Unified = sb.String()
	return fd
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type hunk struct{ start, end int }

// hunks groups changed lines whose context windows touch.
func hunks(lines []diffLine) []hunk {
	var out []hunk
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(0, i-diffContext)
		end := min(len(lines), i+diffContext+1)
		if n := len(out); n > 0 && start <= out[n-1].end {
			out[n-1].end = end
			continue
		}
		out = append(out, hunk{start: start, end: end})
	}
	return out
}

func writeHunk(sb *strings.Builder, lines []diffLine, h hunk) {
	oldStart, newStart := 1, 1
	for _, l := range lines[:h.start] {
		if l.op != diffmatchpatch.DiffInsert {
			oldStart++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newStart++
		}
	}

	oldLen, newLen := 0, 0
	var body strings.Builder
	for _, l := range lines[h.start:h.end] {
		prefix := " "
		switch l.op {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
			newLen++
		case diffmatchpatch.DiffDelete:
			prefix = "-"
			oldLen++
		default:
			oldLen++
			newLen++
		}
		body.WriteString(prefix)
		body.WriteString(l.text)
		if !strings.HasSuffix(l.text, "\n") {
			body.WriteString("\n\\ No newline at end of file\n")
		}
	}

	if oldLen == 0 {
		oldStart--
	}
	if newLen == 0 {
		newStart--
	}
	fmt.Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldLen, newStart, newLen)
	sb.WriteString(body.String())
}
