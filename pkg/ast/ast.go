// Package ast defines the syntax tree contract shared by the parser front end,
// the import rewriting engine and the printer.
//
// Node kinds are sealed interfaces: only types in this package implement
// Stmt, Expr, Pattern and PatternProp. Parsed nodes keep their original source
// text in a Raw field. Raw is only meaningful while the node is unmodified; code
// that rewrites a node builds a new value and leaves Raw empty so the printer
// regenerates it.
package ast

// Stmt is a statement or module item.
type Stmt interface {
	isStmt()
	trivia() *Trivia
}

// Expr is an expression.
type Expr interface{ isExpr() }

// Pattern is a binding target on the left of a declarator.
type Pattern interface{ isPattern() }

// PatternProp is one property of an object destructuring pattern.
type PatternProp interface{ isPatternProp() }

func (*ImportDecl) isStmt()  {}
func (*VarDecl) isStmt()     {}
func (*ExprStmt) isStmt()    {}
func (*OpaqueStmt) isStmt()  {}
func (*CallExpr) isExpr()    {}
func (*Ident) isExpr()       {}
func (*StringLit) isExpr()   {}
func (*RawExpr) isExpr()     {}
func (*IdentPat) isPattern() {}
func (*ObjectPat) isPattern() {}
func (*AssignPat) isPattern() {}
func (*RawPat) isPattern()   {}

func (*KeyValueProp) isPatternProp()  {}
func (*ShorthandProp) isPatternProp() {}
func (*RestProp) isPatternProp()      {}

// Trivia is the formatting context a statement was found in.
type Trivia struct {
	// Leading is the whitespace and comments between the previous statement
	// (or the start of the enclosing list) and this one.
	Leading string

	// Semicolon records whether the statement was terminated with ';'.
	Semicolon bool
}

func (t *Trivia) trivia() *Trivia { return t }

// TriviaOf returns the trivia of s.
func TriviaOf(s Stmt) *Trivia {
	return s.trivia()
}

// Module is the root of a program. Scripts and ES modules share this shape.
type Module struct {
	Body []Stmt

	// Trailing is the text after the last statement.
	Trailing string
}

// Block is a nested statement list, e.g. a function body or the statements of
// a switch case.
type Block struct {
	Body     []Stmt
	Trailing string
}

// SpecifierKind tags an import specifier.
type SpecifierKind int

const (
	// SpecifierNamed is `{ Imported as Local }` or `{ Local }`.
	SpecifierNamed SpecifierKind = iota
	// SpecifierDefault is `import Local from ...`.
	SpecifierDefault
	// SpecifierNamespace is `import * as Local from ...`.
	SpecifierNamespace
)

func (k SpecifierKind) String() string {
	switch k {
	case SpecifierDefault:
		return "default"
	case SpecifierNamespace:
		return "namespace"
	default:
		return "named"
	}
}

// ImportSpecifier is one binding of an import declaration.
type ImportSpecifier struct {
	Kind SpecifierKind

	// Imported is the exported name for named specifiers when it differs from
	// Local. Empty means the same as Local.
	Imported string

	Local    string
	TypeOnly bool
	Raw      string
}

// ImportedName returns the name the library exports the binding under.
func (s *ImportSpecifier) ImportedName() string {
	if s.Imported != "" {
		return s.Imported
	}
	return s.Local
}

// ImportDecl is an ES import declaration.
type ImportDecl struct {
	Trivia
	Specifiers []*ImportSpecifier
	Source     *StringLit
	TypeOnly   bool

	// SideEffect marks `import 'x'`, which has no import clause at all.
	SideEffect bool

	// Attributes is the raw `with { ... }` / `assert { ... }` clause, if any.
	Attributes string
	Raw        string
}

// VarDecl is a var/let/const declaration.
type VarDecl struct {
	Trivia
	Kind        string
	Declarators []*Declarator
	Raw         string

	// Seps is set instead of Raw when a declarator has nested blocks: the
	// source text before, between and after the declarators, one more entry
	// than Declarators.
	Seps []string
}

// Declarator is one `id = init` entry of a VarDecl.
type Declarator struct {
	ID      Pattern
	TypeAnn string
	Init    Expr
	Raw     string

	// Parts holds the declarator text split around nested statement blocks,
	// e.g. a function expression body. It takes precedence over Raw.
	Parts []Part
}

// Blocks returns the nested statement lists of d in source order.
func (d *Declarator) Blocks() []*Block {
	return partBlocks(d.Parts)
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Trivia
	Expr Expr
}

// Part is a piece of an opaque statement: literal text or a nested block.
type Part struct {
	Text  string
	Block *Block
}

// OpaqueStmt is any statement the engine does not rewrite directly. Its nested
// blocks are still visited.
type OpaqueStmt struct {
	Trivia
	Parts []Part
}

// Blocks returns the nested statement lists of s in source order.
func (s *OpaqueStmt) Blocks() []*Block {
	return partBlocks(s.Parts)
}

func partBlocks(parts []Part) []*Block {
	var blocks []*Block
	for _, p := range parts {
		if p.Block != nil {
			blocks = append(blocks, p.Block)
		}
	}
	return blocks
}

// CallExpr is `Callee(Args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Raw    string
}

// Ident is an identifier reference.
type Ident struct {
	Name string
}

// StringLit is a string literal. Raw includes the quotes as written.
type StringLit struct {
	Value string
	Raw   string
}

// RawExpr is an expression kept as source text.
type RawExpr struct {
	Text string
}

// IdentPat binds a single name.
type IdentPat struct {
	Name string
}

// ObjectPat is `{ a, b: c, d = 1, ...rest }`.
type ObjectPat struct {
	Props []PatternProp
	Raw   string
}

// AssignPat is `Left = Default` inside a destructuring pattern.
type AssignPat struct {
	Left    Pattern
	Default Expr
	Raw     string
}

// RawPat is a pattern kept as source text (array patterns and the like).
type RawPat struct {
	Text string
}

// KeyValueProp is `Key: Value`.
type KeyValueProp struct {
	Key string

	// KeyIsIdent is false for string, numeric and computed keys.
	KeyIsIdent bool

	Value Pattern
	Raw   string
}

// ShorthandProp is `Key` or `Key = Default`.
type ShorthandProp struct {
	Key     string
	Default Expr
	Raw     string
}

// RestProp is `...rest`.
type RestProp struct {
	Raw string
}
