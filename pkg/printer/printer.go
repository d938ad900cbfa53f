// Package printer renders an ast.Module back to source text.
//
// Nodes that still carry Raw text are written byte for byte, together with the
// trivia recorded around them, so a module that was parsed and not rewritten
// prints identically. Nodes without Raw are regenerated in a fixed style:
// single spaces, `{ a, b }` for braces, the recorded quote for strings.
package printer

import (
	"strings"

	"github.com/gnana997/uiimport/pkg/ast"
)

// Print renders m.
func Print(m *ast.Module) string {
	var p printer
	p.list(m.Body)
	p.WriteString(m.Trailing)
	return p.String()
}

// Stmt renders a single statement without its leading trivia.
func Stmt(s ast.Stmt) string {
	var p printer
	p.stmt(s)
	return p.String()
}

type printer struct {
	strings.Builder
}

func (p *printer) list(body []ast.Stmt) {
	for i, s := range body {
		leading := ast.TriviaOf(s).Leading
		if leading == "" && i > 0 {
			leading = "\n"
		}
		p.WriteString(leading)
		p.stmt(s)
	}
}

func (p *printer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ImportDecl:
		p.importDecl(n)
	case *ast.VarDecl:
		p.varDecl(n)
	case *ast.ExprStmt:
		p.expr(n.Expr)
	case *ast.OpaqueStmt:
		p.parts(n.Parts)
	}
	if ast.TriviaOf(s).Semicolon {
		p.WriteByte(';')
	}
}

func (p *printer) importDecl(n *ast.ImportDecl) {
	if n.Raw != "" {
		p.WriteString(n.Raw)
		return
	}

	p.WriteString("import ")
	if n.TypeOnly {
		p.WriteString("type ")
	}
	if !n.SideEffect {
		p.specifiers(n.Specifiers)
		p.WriteString(" from ")
	}
	p.str(n.Source)
	if n.Attributes != "" {
		p.WriteByte(' ')
		p.WriteString(n.Attributes)
	}
}

func (p *printer) specifiers(specs []*ast.ImportSpecifier) {
	var named []*ast.ImportSpecifier
	first := true
	for _, s := range specs {
		switch s.Kind {
		case ast.SpecifierDefault:
			p.sep(&first)
			p.WriteString(s.Local)
		case ast.SpecifierNamespace:
			p.sep(&first)
			p.WriteString("* as ")
			p.WriteString(s.Local)
		default:
			named = append(named, s)
		}
	}
	if len(named) == 0 && !first {
		return
	}

	p.sep(&first)
	if len(named) == 0 {
		p.WriteString("{}")
		return
	}
	p.WriteString("{ ")
	for i, s := range named {
		if i > 0 {
			p.WriteString(", ")
		}
		p.specifier(s)
	}
	p.WriteString(" }")
}

func (p *printer) specifier(s *ast.ImportSpecifier) {
	if s.Raw != "" {
		p.WriteString(s.Raw)
		return
	}
	if s.TypeOnly {
		p.WriteString("type ")
	}
	if s.Imported != "" && s.Imported != s.Local {
		p.WriteString(s.Imported)
		p.WriteString(" as ")
	}
	p.WriteString(s.Local)
}

func (p *printer) sep(first *bool) {
	if !*first {
		p.WriteString(", ")
	}
	*first = false
}

func (p *printer) parts(parts []ast.Part) {
	for _, part := range parts {
		if part.Block != nil {
			p.list(part.Block.Body)
			p.WriteString(part.Block.Trailing)
			continue
		}
		p.WriteString(part.Text)
	}
}

func (p *printer) varDecl(n *ast.VarDecl) {
	if n.Raw != "" {
		p.WriteString(n.Raw)
		return
	}
	if len(n.Seps) == len(n.Declarators)+1 {
		for i, d := range n.Declarators {
			p.WriteString(n.Seps[i])
			p.declarator(d)
		}
		p.WriteString(n.Seps[len(n.Declarators)])
		return
	}
	p.WriteString(n.Kind)
	p.WriteByte(' ')
	for i, d := range n.Declarators {
		if i > 0 {
			p.WriteString(", ")
		}
		p.declarator(d)
	}
}

func (p *printer) declarator(d *ast.Declarator) {
	if d.Parts != nil {
		p.parts(d.Parts)
		return
	}
	if d.Raw != "" {
		p.WriteString(d.Raw)
		return
	}
	p.pattern(d.ID)
	if d.TypeAnn != "" {
		p.WriteString(": ")
		p.WriteString(d.TypeAnn)
	}
	if d.Init != nil {
		p.WriteString(" = ")
		p.expr(d.Init)
	}
}

func (p *printer) pattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case *ast.IdentPat:
		p.WriteString(n.Name)
	case *ast.ObjectPat:
		if n.Raw != "" {
			p.WriteString(n.Raw)
			return
		}
		if len(n.Props) == 0 {
			p.WriteString("{}")
			return
		}
		p.WriteString("{ ")
		for i, prop := range n.Props {
			if i > 0 {
				p.WriteString(", ")
			}
			p.prop(prop)
		}
		p.WriteString(" }")
	case *ast.AssignPat:
		if n.Raw != "" {
			p.WriteString(n.Raw)
			return
		}
		p.pattern(n.Left)
		p.WriteString(" = ")
		p.expr(n.Default)
	case *ast.RawPat:
		p.WriteString(n.Text)
	}
}

func (p *printer) prop(prop ast.PatternProp) {
	switch n := prop.(type) {
	case *ast.KeyValueProp:
		if n.Raw != "" {
			p.WriteString(n.Raw)
			return
		}
		p.WriteString(n.Key)
		p.WriteString(": ")
		p.pattern(n.Value)
	case *ast.ShorthandProp:
		if n.Raw != "" {
			p.WriteString(n.Raw)
			return
		}
		p.WriteString(n.Key)
		if n.Default != nil {
			p.WriteString(" = ")
			p.expr(n.Default)
		}
	case *ast.RestProp:
		p.WriteString(n.Raw)
	}
}

func (p *printer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.CallExpr:
		if n.Raw != "" {
			p.WriteString(n.Raw)
			return
		}
		p.expr(n.Callee)
		p.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				p.WriteString(", ")
			}
			p.expr(a)
		}
		p.WriteByte(')')
	case *ast.Ident:
		p.WriteString(n.Name)
	case *ast.StringLit:
		p.str(n)
	case *ast.RawExpr:
		p.WriteString(n.Text)
	}
}

func (p *printer) str(s *ast.StringLit) {
	if s.Raw != "" {
		p.WriteString(s.Raw)
		return
	}
	p.WriteString(ast.Quote(s.Value, ast.SingleQuote))
}
