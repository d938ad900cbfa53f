// Package queries finds library references in parsed source with tree-sitter
// queries. It is the read-only counterpart of the rewriting engine: scans and
// reports use it to list what would be rewritten without building an ast.
package queries

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uiimport/pkg/parser"
)

// QueryType identifies which query to execute.
type QueryType int

const (
	// QueryTypeImports matches import declarations.
	QueryTypeImports QueryType = iota
	// QueryTypeRequires matches require('...') calls.
	QueryTypeRequires
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeImports:
		return "imports"
	case QueryTypeRequires:
		return "requires"
	default:
		return "unknown"
	}
}

// queryKey uniquely identifies a compiled query (dialect + type).
type queryKey struct {
	dialect parser.Dialect
	qtype   QueryType
}

// QueryManager compiles queries lazily per dialect and caches them.
//
//	qm := NewQueryManager(parserManager, logger)
//	defer qm.Close()
//
//	tree, _ := parserManager.Parse(src, parser.DialectTSX)
//	defer tree.Close()
//	refs, err := qm.References(tree, parser.DialectTSX, src)
type QueryManager struct {
	parserManager *parser.ParserManager
	cache         map[queryKey]*ts.Query
	mutex         sync.RWMutex
	logger        *slog.Logger
}

// NewQueryManager creates a new query manager. Logger can be nil.
func NewQueryManager(pm *parser.ParserManager, logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryManager{
		parserManager: pm,
		cache:         make(map[queryKey]*ts.Query),
		logger:        logger,
	}
}

// GetQuery returns the compiled query for dialect and type, compiling it on
// first access.
func (qm *QueryManager) GetQuery(dialect parser.Dialect, qtype QueryType) (*ts.Query, error) {
	key := queryKey{dialect: dialect, qtype: qtype}

	qm.mutex.RLock()
	query, exists := qm.cache[key]
	qm.mutex.RUnlock()
	if exists {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()
	if query, exists = qm.cache[key]; exists {
		return query, nil
	}

	queryString, err := queryString(qtype)
	if err != nil {
		return nil, err
	}

	language, err := qm.parserManager.Language(dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to get language for %s: %w", dialect, err)
	}

	query, qerr := ts.NewQuery(language, queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", qtype, dialect, qerr.Message)
	}
	qm.cache[key] = query

	qm.logger.Debug("compiled query", "dialect", dialect.String(), "type", qtype.String())
	return query, nil
}

func queryString(qtype QueryType) (string, error) {
	switch qtype {
	case QueryTypeImports:
		return importQuery, nil
	case QueryTypeRequires:
		return requireQuery, nil
	default:
		return "", fmt.Errorf("unknown query type: %d", qtype)
	}
}

// ExecuteQuery runs a compiled query on a parse tree and returns its matches.
func (qm *QueryManager) ExecuteQuery(tree *ts.Tree, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []QueryCapture
		for _, capture := range match.Captures {
			var captureName string
			if int(capture.Index) < len(captureNames) {
				captureName = captureNames[capture.Index]
			}
			category, field := parseCaptureName(captureName)

			node := capture.Node
			captures = append(captures, QueryCapture{
				Name:     captureName,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
				Location: nodeLocation(&node),
			})
		}

		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	return matches, nil
}

// References lists every import declaration and require call in tree,
// ordered by position.
func (qm *QueryManager) References(tree *ts.Tree, dialect parser.Dialect, source []byte) ([]Reference, error) {
	var refs []Reference

	importQ, err := qm.GetQuery(dialect, QueryTypeImports)
	if err != nil {
		return nil, err
	}
	matches, err := qm.ExecuteQuery(tree, importQ, source)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		stmt, src := m.Capture("import.statement"), m.Capture("import.source")
		if stmt == nil || src == nil {
			continue
		}
		refs = append(refs, importReference(stmt, src.Text, source))
	}

	requireQ, err := qm.GetQuery(dialect, QueryTypeRequires)
	if err != nil {
		return nil, err
	}
	matches, err = qm.ExecuteQuery(tree, requireQ, source)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		call, fn, src := m.Capture("require.call"), m.Capture("require.fn"), m.Capture("require.source")
		if call == nil || src == nil || fn == nil || fn.Text != "require" {
			continue
		}
		refs = append(refs, requireReference(call, src.Text, source))
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Location.StartByte < refs[j].Location.StartByte
	})
	return refs, nil
}

// Close releases all compiled queries. The manager cannot be used afterwards.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	qm.logger.Debug("closing QueryManager", "queries_compiled", len(qm.cache))
	for key, query := range qm.cache {
		if query != nil {
			query.Close()
		}
		delete(qm.cache, key)
	}
	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []QueryCapture
}

// Capture returns the first capture named name, or nil.
func (m QueryMatch) Capture(name string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Name == name {
			return &m.Captures[i]
		}
	}
	return nil
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name (e.g., "import.source")
	Name string

	// Category is the part before the dot (e.g., "import")
	Category string

	// Field is the part after the dot, empty if the name has no dot
	Field string

	Node *ts.Node
	Text string

	Location Location
}

// Location represents a position in source code.
type Location struct {
	StartLine   uint32 `json:"line"`   // 1-based line number
	StartColumn uint32 `json:"column"` // 1-based column number
	EndLine     uint32 `json:"-"`
	EndColumn   uint32 `json:"-"`
	StartByte   uint32 `json:"-"` // 0-based byte offset
	EndByte     uint32 `json:"-"`
}

// parseCaptureName splits a capture name like "import.source" into
// ("import", "source"). A name without a dot returns (name, "").
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}

// nodeLocation converts tree-sitter's 0-based coordinates to 1-based
// line/column numbers.
func nodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	end := node.EndPosition()

	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}
