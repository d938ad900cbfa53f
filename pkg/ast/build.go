package ast

import "strings"

const (
	SingleQuote = '\''
	DoubleQuote = '"'
)

// QuoteChar reports the quote character a raw string literal was written with.
// Literals without raw text default to single quotes.
func QuoteChar(raw string) byte {
	if raw != "" && raw[0] == DoubleQuote {
		return DoubleQuote
	}
	return SingleQuote
}

// Quote wraps value in quote, escaping backslashes, the quote itself and line
// terminators.
func Quote(value string, quote byte) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte(quote)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// NewString builds a string literal rendered with the given quote character.
func NewString(value string, quote byte) *StringLit {
	return &StringLit{Value: value, Raw: Quote(value, quote)}
}

// NewRequire builds `require(source)`.
func NewRequire(source *StringLit) *CallExpr {
	return &CallExpr{
		Callee: &Ident{Name: "require"},
		Args:   []Expr{source},
	}
}

// RequireSource returns the string argument of a `require('...')` call, or nil
// when e is anything else.
func RequireSource(e Expr) *StringLit {
	call, ok := e.(*CallExpr)
	if !ok || len(call.Args) == 0 {
		return nil
	}
	callee, ok := call.Callee.(*Ident)
	if !ok || callee.Name != "require" {
		return nil
	}
	lit, _ := call.Args[0].(*StringLit)
	return lit
}

// HasComment reports whether leading trivia contains anything but whitespace.
func HasComment(leading string) bool {
	return strings.TrimSpace(leading) != ""
}

// Indent returns the indentation of the last line of leading trivia.
func Indent(leading string) string {
	i := strings.LastIndexByte(leading, '\n')
	if i < 0 {
		return ""
	}
	rest := leading[i+1:]
	end := 0
	for end < len(rest) && (rest[end] == ' ' || rest[end] == '\t') {
		end++
	}
	return rest[:end]
}

// WithLeading returns a shallow copy of s with its leading trivia replaced.
// Raw text only covers the statement itself, so the copy keeps it.
func WithLeading(s Stmt, leading string) Stmt {
	switch n := s.(type) {
	case *ImportDecl:
		c := *n
		c.Leading = leading
		return &c
	case *VarDecl:
		c := *n
		c.Leading = leading
		return &c
	case *ExprStmt:
		c := *n
		c.Leading = leading
		return &c
	case *OpaqueStmt:
		c := *n
		c.Leading = leading
		return &c
	}
	return s
}
