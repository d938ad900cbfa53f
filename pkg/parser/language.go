package parser

import (
	"path/filepath"
	"strings"
)

// Dialect selects the tree-sitter grammar a file is parsed with.
type Dialect int

const (
	// DialectJavaScript covers .js, .jsx, .mjs and .cjs. The JavaScript
	// grammar accepts JSX.
	DialectJavaScript Dialect = iota
	// DialectTypeScript covers .ts, .mts and .cts.
	DialectTypeScript
	// DialectTSX is TypeScript with JSX.
	DialectTSX
	// DialectUnknown marks files the tool does not handle.
	DialectUnknown
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectJavaScript:
		return "javascript"
	case DialectTypeScript:
		return "typescript"
	case DialectTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// DetectDialect picks a dialect from a file extension.
func DetectDialect(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx":
		return DialectTSX
	default:
		return DialectUnknown
	}
}

// ParseDialect converts a dialect name, as accepted on the command line or
// over MCP, into a Dialect.
func ParseDialect(name string) Dialect {
	switch strings.ToLower(name) {
	case "javascript", "js", "jsx":
		return DialectJavaScript
	case "typescript", "ts":
		return DialectTypeScript
	case "tsx":
		return DialectTSX
	default:
		return DialectUnknown
	}
}

// Extensions lists the file extensions with a known dialect.
func Extensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx"}
}
