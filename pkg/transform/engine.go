// Package transform rewrites library-wide imports of a UI component library
// into one import per component.
//
//	import { MessageBox, Slider as S } from 'element-ui'
//
// becomes
//
//	import MessageBox from 'element-ui/lib/message-box'
//	import 'element-ui/lib/message-box/style'
//	import S from 'element-ui/lib/slider'
//	import 'element-ui/lib/slider/style'
//
// `const { A } = require(lib)` declarations are split in place at every
// statement-list level. Rewritten import declarations are collected in a
// pending buffer and prepended to the module once the whole tree is visited.
//
// **Thread Safety:** an Engine is read-only after New and may be shared. Each
// Run owns its pending buffer and statistics.
package transform

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/uiimport/pkg/ast"
	"github.com/gnana997/uiimport/pkg/naming"
)

// Stats counts what one Run rewrote.
type Stats struct {
	Specifiers        int `json:"specifiers"`
	Properties        int `json:"properties"`
	StyleImports      int `json:"style_imports"`
	RemovedStatements int `json:"removed_statements"`
	NamespaceImports  int `json:"namespace_imports"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Specifiers += o.Specifiers
	s.Properties += o.Properties
	s.StyleImports += o.StyleImports
	s.RemovedStatements += o.RemovedStatements
	s.NamespaceImports += o.NamespaceImports
}

// Changed reports whether anything was rewritten.
func (s Stats) Changed() bool {
	return s.Specifiers+s.Properties+s.RemovedStatements+s.NamespaceImports > 0
}

// Engine applies one library rule.
type Engine struct {
	opts   Options
	policy *naming.Policy
	logger *slog.Logger
}

// New validates opts and builds an engine. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		opts:   opts,
		policy: opts.Policy(),
		logger: logger.With("library", opts.LibraryName),
	}, nil
}

// Options returns the rule the engine applies.
func (e *Engine) Options() Options {
	return e.opts
}

// run is the state of one Run call.
type run struct {
	*Engine
	pending []ast.Stmt
	stats   Stats
}

var (
	importPass = walker{h: handlers{importDecl: (*run).importDecl}}
	stmtPass   = walker{h: handlers{varDecl: (*run).varDecl}, descend: true}
)

// Run rewrites m and returns the new module. m itself is not modified; any
// subtree that did not change is shared with the result.
//
// A callback failure aborts the whole module and no partial result is
// returned.
func (e *Engine) Run(m *ast.Module) (*ast.Module, Stats, error) {
	r := &run{Engine: e}

	body, trailing, err := importPass.list(r, m.Body, m.Trailing)
	if err != nil {
		return nil, Stats{}, err
	}
	body, trailing, err = stmtPass.list(r, body, trailing)
	if err != nil {
		return nil, Stats{}, err
	}

	out := r.assemble(&ast.Module{Body: body, Trailing: trailing})

	if r.stats.Changed() {
		e.logger.Debug("rewrote library imports",
			"specifiers", r.stats.Specifiers,
			"properties", r.stats.Properties,
			"namespace_imports", r.stats.NamespaceImports,
			"style_imports", r.stats.StyleImports,
			"removed_statements", r.stats.RemovedStatements,
		)
	}
	return out, r.stats, nil
}

// Apply runs one engine per rule, in order, feeding each the previous output.
func Apply(m *ast.Module, rules ...Options) (*ast.Module, Stats, error) {
	var total Stats
	for _, opts := range rules {
		eng, err := New(opts, nil)
		if err != nil {
			return nil, total, err
		}
		next, stats, err := eng.Run(m)
		if err != nil {
			return nil, total, fmt.Errorf("%s: %w", opts.LibraryName, err)
		}
		m = next
		total.Add(stats)
	}
	return m, total, nil
}

func (r *run) matches(decl *ast.ImportDecl) bool {
	return decl.Source != nil && decl.Source.Value == r.opts.LibraryName
}

// importDecl moves every component specifier of a library import into the
// pending buffer and returns the declaration without them.
func (r *run) importDecl(decl *ast.ImportDecl) ([]ast.Stmt, error) {
	if !r.matches(decl) || decl.SideEffect {
		return []ast.Stmt{decl}, nil
	}

	var kept []*ast.ImportSpecifier
	consumed := 0
	for _, spec := range decl.Specifiers {
		if spec.Kind == ast.SpecifierNamespace && !decl.TypeOnly && r.opts.NamespaceImports != NamespaceIgnore {
			stmts, err := r.namespaceImportFor(decl, spec.Local)
			if err != nil {
				return nil, err
			}
			r.pending = append(r.pending, stmts...)
			r.stats.NamespaceImports++
			consumed++
			continue
		}

		b, ok := classifySpecifier(decl, spec)
		if !ok {
			kept = append(kept, spec)
			continue
		}
		stmts, err := r.importFor(decl, b)
		if err != nil {
			return nil, err
		}
		r.pending = append(r.pending, stmts...)
		r.stats.Specifiers++
		consumed++
	}

	if consumed == 0 {
		return []ast.Stmt{decl}, nil
	}
	return []ast.Stmt{&ast.ImportDecl{
		Trivia:     decl.Trivia,
		Specifiers: kept,
		Source:     decl.Source,
		TypeOnly:   decl.TypeOnly,
		Attributes: decl.Attributes,
	}}, nil
}

// varDecl splits `kind { A, B: c } = require(lib)` declarators into one
// declaration per component. What is left of the original declaration comes
// first; a declaration with no declarators left is dropped.
func (r *run) varDecl(decl *ast.VarDecl) ([]ast.Stmt, error) {
	var (
		kept    []*ast.Declarator
		splits  []ast.Stmt
		changed bool
	)

	for _, d := range decl.Declarators {
		lit := libraryRequire(d, r.opts.LibraryName)
		if lit == nil {
			kept = append(kept, d)
			continue
		}

		pat := d.ID.(*ast.ObjectPat)
		quote := ast.QuoteChar(lit.Raw)
		var rest []ast.PatternProp
		for _, prop := range pat.Props {
			b, ok := classifyProperty(prop, quote)
			if !ok {
				rest = append(rest, prop)
				continue
			}
			stmts, err := r.requireFor(decl, b)
			if err != nil {
				return nil, err
			}
			splits = append(splits, stmts...)
			r.stats.Properties++
		}

		switch {
		case len(rest) == 0:
			changed = true
		case len(rest) == len(pat.Props):
			kept = append(kept, d)
		default:
			changed = true
			kept = append(kept, &ast.Declarator{
				ID:      &ast.ObjectPat{Props: rest},
				TypeAnn: d.TypeAnn,
				Init:    d.Init,
			})
		}
	}

	if !changed {
		return []ast.Stmt{decl}, nil
	}

	var out []ast.Stmt
	if len(kept) > 0 {
		out = append(out, &ast.VarDecl{Trivia: decl.Trivia, Kind: decl.Kind, Declarators: kept})
	} else {
		r.stats.RemovedStatements++
	}
	return append(out, splits...), nil
}
