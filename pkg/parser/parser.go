// Package parser is the source front end: it parses JavaScript and TypeScript
// with tree-sitter and converts the concrete syntax tree into the ast contract
// the rewriting engine works on.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/uiimport/pkg/ast"
)

// ErrSyntax is returned by ParseModule when the source does not parse cleanly.
// Rewriting a file with syntax errors could silently drop code, so such files
// are left alone.
var ErrSyntax = errors.New("source contains syntax errors")

// ParserManager owns one lazily created parser pool per dialect.
//
// **Thread Safety:** Parse and ParseModule may be called from many goroutines.
// Up to PoolSize parses of the same dialect run at once.
//
// **Memory:** callers own the trees returned by Parse and must Close them.
// ParseModule closes its tree itself. Close the manager when done.
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	module, err := manager.ParseModule(src, DetectDialect("src/main.ts"))
type ParserManager struct {
	pools map[Dialect]*parserPool
	mutex sync.RWMutex

	poolSize int
	logger   *slog.Logger

	parses atomic.Int64
}

// NewParserManager creates a manager sized by PoolSize.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithSize(0, logger)
}

// NewParserManagerWithSize creates a manager with at most poolSize parsers per
// dialect. Zero selects the CPU based default.
func NewParserManagerWithSize(poolSize int, logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Dialect]*parserPool),
		poolSize: PoolSize(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the grammar of dialect. Trees with syntax errors
// are still returned.
func (pm *ParserManager) Parse(source []byte, dialect Dialect) (*ts.Tree, error) {
	pool, err := pm.pool(dialect)
	if err != nil {
		return nil, err
	}
	pm.parses.Add(1)

	parser, err := pool.acquire()
	if err != nil {
		return nil, err
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("%s parser returned no tree", dialect)
	}
	return tree, nil
}

// ParseModule parses source and converts it to an ast.Module.
func (pm *ParserManager) ParseModule(source []byte, dialect Dialect) (*ast.Module, error) {
	tree, err := pm.Parse(source, dialect)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return ModuleFromTree(tree, source)
}

// ModuleFromTree converts a tree produced by Parse, rejecting trees with
// syntax errors. The caller keeps ownership of tree.
func ModuleFromTree(tree *ts.Tree, source []byte) (*ast.Module, error) {
	if err := CheckSyntax(tree); err != nil {
		return nil, err
	}
	return Convert(tree.RootNode(), source), nil
}

// CheckSyntax returns an error wrapping ErrSyntax when tree contains ERROR or
// MISSING nodes.
func CheckSyntax(tree *ts.Tree) error {
	root := tree.RootNode()
	if root.HasError() {
		return fmt.Errorf("%w: %s", ErrSyntax, firstError(root))
	}
	return nil
}

// Language returns the tree-sitter grammar of dialect.
func (pm *ParserManager) Language(dialect Dialect) (*ts.Language, error) {
	ptr, err := languagePointer(dialect)
	if err != nil {
		return nil, err
	}
	return ts.NewLanguage(ptr), nil
}

func languagePointer(dialect Dialect) (unsafe.Pointer, error) {
	switch dialect {
	case DialectJavaScript:
		return ts_javascript.Language(), nil
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// pool returns the pool of dialect, creating it on first use.
func (pm *ParserManager) pool(dialect Dialect) (*parserPool, error) {
	pm.mutex.RLock()
	pool, ok := pm.pools[dialect]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if pool, ok = pm.pools[dialect]; ok {
		return pool, nil
	}

	language, err := pm.Language(dialect)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(dialect, language, pm.poolSize, pm.logger)
	pm.pools[dialect] = pool

	pm.logger.Debug("created parser pool", "dialect", dialect.String(), "max_size", pm.poolSize)
	return pool, nil
}

// Close releases every pooled parser.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	closed := 0
	for dialect, pool := range pm.pools {
		closed += pool.close()
		delete(pm.pools, dialect)
	}
	pm.logger.Debug("closed parser manager", "parsers_closed", closed, "parses", pm.parses.Load())
	return nil
}

// ParserStats reports parser usage.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int64
}

// Stats returns usage counters.
func (pm *ParserManager) Stats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	created := 0
	for _, pool := range pm.pools {
		created += pool.createdCount()
	}
	return ParserStats{ParsersCreated: created, ParsesCalled: pm.parses.Load()}
}

// firstError describes the first ERROR or MISSING node under n.
func firstError(n *ts.Node) string {
	if n.IsError() || n.IsMissing() {
		pos := n.StartPosition()
		what := "unexpected input"
		if n.IsMissing() {
			what = "missing " + n.Kind()
		}
		return fmt.Sprintf("%s at %d:%d", what, pos.Row+1, pos.Column+1)
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstError(child)
		}
	}
	return "unexpected input"
}
