package pipeline

import (
	"context"
	"time"

	"github.com/gnana997/uiimport/pkg/transform"
)

// Report summarizes a batch transform.
type Report struct {
	Results  []*FileResult `json:"results"`
	Failures []FileError   `json:"failures,omitempty"`

	Files    int             `json:"files"`
	Changed  int             `json:"changed"`
	Skipped  int             `json:"skipped"`
	Stats    transform.Stats `json:"stats"`
	Duration time.Duration   `json:"duration_ns"`
}

// ChangedResults returns the results whose output differs from the source.
func (r *Report) ChangedResults() []*FileResult {
	var out []*FileResult
	for _, res := range r.Results {
		if res.Changed {
			out = append(out, res)
		}
	}
	return out
}

// TransformFiles transforms paths concurrently. Per-file failures are
// collected in the report and never abort the batch; the returned error is
// only set when ctx is cancelled before every file was submitted.
func (p *Pipeline) TransformFiles(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()
	outcomes, failures, err := runPool(ctx, p.cfg.Workers, paths, p.TransformFile, p.logger)

	report := &Report{Failures: failures, Files: len(paths)}
	for _, o := range outcomes {
		res := o.Value
		report.Results = append(report.Results, res)
		report.Stats.Add(res.Stats)
		if res.Changed {
			report.Changed++
		}
		if res.Skipped {
			report.Skipped++
		}
	}
	report.Duration = time.Since(start)

	p.logger.Info("transformed files",
		"files", report.Files,
		"changed", report.Changed,
		"skipped", report.Skipped,
		"failed", len(report.Failures),
		"duration", report.Duration)
	return report, err
}

// WriteChanged writes every changed result of report. Write failures are
// appended to report.Failures.
func (p *Pipeline) WriteChanged(report *Report) int {
	written := 0
	for _, res := range report.ChangedResults() {
		if err := p.WriteResult(res); err != nil {
			report.Failures = append(report.Failures, FileError{FilePath: res.Path, Err: err, Message: err.Error()})
			continue
		}
		written++
	}
	return written
}
