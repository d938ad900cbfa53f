// Package pipeline runs the rewriting engine over files: it reads sources,
// skips files that reference no configured library, parses, rewrites, prints
// and optionally verifies the result, and writes it back.
//
// **Thread Safety:** a Pipeline is safe for concurrent use. Batch operations
// fan out over a worker pool sized like the parser pools.
//
//	p, err := pipeline.New(pipeline.Config{Rules: rules}, logger)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	report, err := p.TransformFiles(ctx, files)
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnana997/uiimport/pkg/parser"
	"github.com/gnana997/uiimport/pkg/parser/queries"
	"github.com/gnana997/uiimport/pkg/printer"
	"github.com/gnana997/uiimport/pkg/transform"
	"github.com/gnana997/uiimport/pkg/util"
)

// ErrUnsupportedFile is returned for paths whose extension maps to no dialect.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Config configures a Pipeline.
type Config struct {
	// Rules are applied in order, each to the previous rule's output.
	Rules []transform.Options

	// Verify re-parses changed output with esbuild before accepting it.
	Verify bool

	// CacheSize bounds the result cache. Zero disables it.
	CacheSize int

	// Workers overrides the worker and parser pool size.
	Workers int
}

// FileResult is the outcome of transforming one file.
type FileResult struct {
	Path    string         `json:"path"`
	Dialect parser.Dialect `json:"-"`

	Changed bool `json:"changed"`

	// Skipped is set when the file references none of the configured
	// libraries and was not parsed into an ast.
	Skipped bool `json:"skipped,omitempty"`
	Cached  bool `json:"cached,omitempty"`

	Stats      transform.Stats            `json:"stats"`
	PerLibrary map[string]transform.Stats `json:"per_library,omitempty"`

	Original string `json:"-"`
	Output   string `json:"-"`
}

// Pipeline owns the parser, query, source and result caches shared by every
// file it processes.
type Pipeline struct {
	cfg     Config
	engines []*transform.Engine

	parsers *parser.ParserManager
	queries *queries.QueryManager
	sources util.SourceCache
	results *ResultCache

	logger *slog.Logger
}

// New validates every rule and builds a pipeline. A nil logger uses
// slog.Default().
func New(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Rules) == 0 {
		return nil, fmt.Errorf("no library rules configured")
	}

	engines := make([]*transform.Engine, 0, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		eng, err := transform.New(rule, logger)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		engines = append(engines, eng)
	}

	results, err := NewResultCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	parsers := parser.NewParserManagerWithSize(cfg.Workers, logger)
	return &Pipeline{
		cfg:     cfg,
		engines: engines,
		parsers: parsers,
		queries: queries.NewQueryManager(parsers, logger),
		sources: util.NewSourceCache(&util.SourceCacheConfig{Logger: logger}),
		results: results,
		logger:  logger,
	}, nil
}

// Libraries returns the configured library names in rule order.
func (p *Pipeline) Libraries() []string {
	names := make([]string, len(p.engines))
	for i, eng := range p.engines {
		names[i] = eng.Options().LibraryName
	}
	return names
}

// Rules returns the configured rules.
func (p *Pipeline) Rules() []transform.Options {
	return p.cfg.Rules
}

// Logger returns the pipeline's logger.
func (p *Pipeline) Logger() *slog.Logger {
	return p.logger
}

// CacheStats reports result cache usage.
func (p *Pipeline) CacheStats() CacheStats {
	return p.results.Stats()
}

// Close releases parsers, compiled queries and mapped files.
func (p *Pipeline) Close() error {
	var errs []error
	if err := p.queries.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.parsers.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := p.sources.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TransformFile reads path through the source cache and transforms it.
func (p *Pipeline) TransformFile(path string) (*FileResult, error) {
	if parser.DetectDialect(path) == parser.DialectUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}
	mf, err := p.sources.Get(path)
	if err != nil {
		return nil, err
	}
	return p.TransformSource(path, mf.Bytes())
}

// TransformSource rewrites src. path selects the dialect and labels the
// result; it is not read.
//
// Files with syntax errors fail with parser.ErrSyntax and callback failures
// with *transform.CallbackError. Neither produces partial output.
func (p *Pipeline) TransformSource(path string, src []byte) (*FileResult, error) {
	dialect := parser.DetectDialect(path)
	if dialect == parser.DialectUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}

	key := resultKey(dialect, src)
	if cached, ok := p.results.Get(key); ok {
		res := *cached
		res.Path = path
		res.Cached = true
		res.Original = string(src)
		return &res, nil
	}

	res, err := p.transform(path, dialect, src)
	if err != nil {
		return nil, err
	}

	stored := *res
	stored.Path = ""
	stored.Original = ""
	p.results.Add(key, &stored)
	return res, nil
}

func (p *Pipeline) transform(path string, dialect parser.Dialect, src []byte) (*FileResult, error) {
	original := string(src)
	res := &FileResult{Path: path, Dialect: dialect, Original: original, Output: original}

	if !p.mentionsLibrary(src) {
		res.Skipped = true
		return res, nil
	}

	tree, err := p.parsers.Parse(src, dialect)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer tree.Close()
	if err := parser.CheckSyntax(tree); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	refs, err := p.queries.References(tree, dialect, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !p.referencesLibrary(refs) {
		res.Skipped = true
		return res, nil
	}

	module := parser.Convert(tree.RootNode(), src)

	for _, eng := range p.engines {
		next, stats, err := eng.Run(module)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, eng.Options().LibraryName, err)
		}
		module = next
		res.Stats.Add(stats)
		if stats.Changed() {
			if res.PerLibrary == nil {
				res.PerLibrary = make(map[string]transform.Stats)
			}
			res.PerLibrary[eng.Options().LibraryName] = stats
		}
	}

	output := printer.Print(module)
	res.Changed = output != original
	res.Output = output

	if res.Changed && p.cfg.Verify {
		if err := Verify(path, dialect, output); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("transformed file",
		"file", path,
		"changed", res.Changed,
		"specifiers", res.Stats.Specifiers,
		"properties", res.Stats.Properties)
	return res, nil
}

// mentionsLibrary is the cheap byte-level prefilter run before parsing.
func (p *Pipeline) mentionsLibrary(src []byte) bool {
	for _, eng := range p.engines {
		if bytes.Contains(src, []byte(eng.Options().LibraryName)) {
			return true
		}
	}
	return false
}

// referencesLibrary reports whether any import or require names a
// configured library exactly.
func (p *Pipeline) referencesLibrary(refs []queries.Reference) bool {
	for _, ref := range refs {
		for _, eng := range p.engines {
			if ref.Direct(eng.Options().LibraryName) {
				return true
			}
		}
	}
	return false
}

// WriteResult replaces the file of a changed result with its output. The
// file's mapping is released first and the new content is written through a
// temporary file and renamed into place.
func (p *Pipeline) WriteResult(res *FileResult) error {
	if !res.Changed {
		return nil
	}
	p.sources.Invalidate(res.Path)
	return writeAtomic(res.Path, []byte(res.Output))
}

func writeAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".uiimport-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set mode of %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
