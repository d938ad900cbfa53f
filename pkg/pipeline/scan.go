package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/gnana997/uiimport/pkg/parser"
	"github.com/gnana997/uiimport/pkg/parser/queries"
)

// ScanResult lists the references to configured libraries in one file.
type ScanResult struct {
	Path       string              `json:"path"`
	References []queries.Reference `json:"references"`
}

// LibraryUsage aggregates the references to one library.
type LibraryUsage struct {
	Library string `json:"library"`
	Files   int    `json:"files"`

	// Direct counts whole-library imports and requires, the ones a
	// transform rewrites. SubPath counts imports of deeper paths.
	Direct  int `json:"direct"`
	SubPath int `json:"sub_path"`

	Components map[string]int `json:"components"`
}

// ScanReport summarizes a batch scan.
type ScanReport struct {
	Files    []*ScanResult   `json:"files"`
	Usage    []*LibraryUsage `json:"usage"`
	Failures []FileError     `json:"failures,omitempty"`
}

// ScanSource lists references to the configured libraries in src without
// rewriting it. Files with syntax errors are still scanned.
func (p *Pipeline) ScanSource(path string, src []byte) (*ScanResult, error) {
	dialect := parser.DetectDialect(path)
	if dialect == parser.DialectUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}

	res := &ScanResult{Path: path}
	if !p.mentionsLibrary(src) {
		return res, nil
	}

	tree, err := p.parsers.Parse(src, dialect)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer tree.Close()

	refs, err := p.queries.References(tree, dialect, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, ref := range refs {
		for _, lib := range p.Libraries() {
			if ref.Targets(lib) {
				res.References = append(res.References, ref)
				break
			}
		}
	}
	return res, nil
}

// ScanFile reads path through the source cache and scans it. Each
// reference carries the text of its statement.
func (p *Pipeline) ScanFile(path string) (*ScanResult, error) {
	mf, err := p.sources.Get(path)
	if err != nil {
		return nil, err
	}
	res, err := p.ScanSource(path, mf.Bytes())
	if err != nil {
		return nil, err
	}
	for i := range res.References {
		loc := res.References[i].Location
		text, err := p.sources.Excerpt(path, loc.StartByte, loc.EndByte)
		if err != nil {
			p.logger.Debug("reference excerpt failed", "path", path, "error", err)
			continue
		}
		res.References[i].Text = text
	}
	return res, nil
}

// Scan scans paths concurrently and aggregates usage per library.
func (p *Pipeline) Scan(ctx context.Context, paths []string) (*ScanReport, error) {
	outcomes, failures, err := runPool(ctx, p.cfg.Workers, paths, p.ScanFile, p.logger)

	report := &ScanReport{Failures: failures}
	for _, o := range outcomes {
		report.Files = append(report.Files, o.Value)
	}
	report.Usage = p.Usage(report.Files)
	return report, err
}

// Usage aggregates scan results per configured library, in rule order.
func (p *Pipeline) Usage(results []*ScanResult) []*LibraryUsage {
	var usage []*LibraryUsage
	for _, lib := range p.Libraries() {
		u := &LibraryUsage{Library: lib, Components: make(map[string]int)}
		for _, res := range results {
			found := false
			for _, ref := range queries.Filter(res.References, lib) {
				found = true
				if !ref.Direct(lib) {
					u.SubPath++
					continue
				}
				u.Direct++
				for _, name := range ref.Names {
					u.Components[name]++
				}
			}
			if found {
				u.Files++
			}
		}
		usage = append(usage, u)
	}
	return usage
}

// SortedComponents returns component names by descending use, then name.
func (u *LibraryUsage) SortedComponents() []string {
	names := make([]string, 0, len(u.Components))
	for name := range u.Components {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := u.Components[names[i]], u.Components[names[j]]
		if ci != cj {
			return ci > cj
		}
		return names[i] < names[j]
	})
	return names
}
