package parser

import (
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uiimport/pkg/ast"
)

// Convert builds an ast.Module from a tree-sitter program node.
//
// Import declarations, variable declarations and expression statements are
// converted into their ast shapes. Every other statement becomes an
// ast.OpaqueStmt whose nested statement lists (blocks and switch case bodies)
// are converted recursively, so requires inside function bodies stay
// reachable. Declarators holding function bodies keep their blocks as parts. Whitespace and comments
// between statements end up in the leading trivia of the next statement.
//
// Every node keeps its source text in Raw; printing an unmodified module
// reproduces source exactly.
func Convert(root *ts.Node, source []byte) *ast.Module {
	c := &converter{src: source}
	body, trailing := c.list(root, 0, uint(len(source)))
	return &ast.Module{Body: body, Trailing: trailing}
}

type converter struct {
	src []byte
}

func (c *converter) text(n *ts.Node) string {
	return string(c.src[n.StartByte():n.EndByte()])
}

func (c *converter) slice(start, end uint) string {
	return string(c.src[start:end])
}

// isTrivia reports node kinds that live between statements.
func isTrivia(n *ts.Node) bool {
	switch n.Kind() {
	case "comment", "hash_bang_line", "html_comment":
		return true
	}
	return false
}

// list converts the statements of parent found between start and end.
func (c *converter) list(parent *ts.Node, start, end uint) ([]ast.Stmt, string) {
	var body []ast.Stmt
	pos := start
	for i := uint(0); i < parent.NamedChildCount(); i++ {
		child := parent.NamedChild(i)
		if child == nil || isTrivia(child) || child.StartByte() < start || child.EndByte() > end {
			continue
		}
		s := c.stmt(child)
		ast.TriviaOf(s).Leading = c.slice(pos, child.StartByte())
		body = append(body, s)
		pos = child.EndByte()
	}
	return body, c.slice(pos, end)
}

// region is a nested statement list: the statements of parent between start
// and end.
type region struct {
	parent     *ts.Node
	start, end uint
}

// blockRegion covers the statements between the braces of a statement_block.
func blockRegion(n *ts.Node) region {
	r := region{parent: n, start: n.StartByte(), end: n.EndByte()}
	if count := n.ChildCount(); count > 0 {
		if open := n.Child(0); open.Kind() == "{" {
			r.start = open.EndByte()
		}
		if closing := n.Child(count - 1); closing.Kind() == "}" && !closing.IsMissing() {
			r.end = closing.StartByte()
		}
	}
	return r
}

// caseRegion covers the statements after the colon of a switch case.
func caseRegion(n *ts.Node) region {
	r := region{parent: n, start: n.StartByte(), end: n.EndByte()}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); !child.IsNamed() && child.Kind() == ":" {
			r.start = child.EndByte()
			break
		}
	}
	return r
}

// collectRegions appends the outermost statement lists at or below n in
// source order.
func collectRegions(n *ts.Node, out *[]region) {
	switch n.Kind() {
	case "statement_block":
		*out = append(*out, blockRegion(n))
		return
	case "switch_case", "switch_default":
		if value := n.ChildByFieldName("value"); value != nil {
			collectRegions(value, out)
		}
		*out = append(*out, caseRegion(n))
		return
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			collectRegions(child, out)
		}
	}
}

// stmtEnd returns where a statement's own text ends, excluding a terminating
// semicolon.
func stmtEnd(n *ts.Node) (uint, bool) {
	if count := n.ChildCount(); count > 0 {
		last := n.Child(count - 1)
		if !last.IsNamed() && last.Kind() == ";" && !last.IsMissing() && last.EndByte() > last.StartByte() {
			return last.StartByte(), true
		}
	}
	return n.EndByte(), false
}

func (c *converter) stmt(n *ts.Node) ast.Stmt {
	end, semicolon := stmtEnd(n)
	trivia := ast.Trivia{Semicolon: semicolon}
	raw := c.slice(n.StartByte(), end)

	var regions []region
	collectRegions(n, &regions)

	switch n.Kind() {
	case "import_statement":
		if len(regions) > 0 {
			break
		}
		if decl := c.importDecl(n, raw); decl != nil {
			decl.Trivia = trivia
			return decl
		}
	case "lexical_declaration", "variable_declaration":
		if decl := c.varDecl(n, raw, end, len(regions) > 0); decl != nil {
			decl.Trivia = trivia
			return decl
		}
	case "expression_statement":
		if len(regions) == 0 && n.NamedChildCount() == 1 {
			expr := n.NamedChild(0)
			return &ast.ExprStmt{Trivia: trivia, Expr: c.expr(expr)}
		}
	}
	return &ast.OpaqueStmt{Trivia: trivia, Parts: c.parts(n.StartByte(), end, regions)}
}

// parts splits the source between start and end around regions, converting
// each region into a nested block.
func (c *converter) parts(start, end uint, regions []region) []ast.Part {
	parts := make([]ast.Part, 0, 2*len(regions)+1)
	pos := start
	for _, r := range regions {
		body, trailing := c.list(r.parent, r.start, r.end)
		parts = append(parts,
			ast.Part{Text: c.slice(pos, r.start)},
			ast.Part{Block: &ast.Block{Body: body, Trailing: trailing}},
		)
		pos = r.end
	}
	return append(parts, ast.Part{Text: c.slice(pos, end)})
}

// importDecl converts an import statement. `import x = require('y')` and
// other forms without a string source return nil.
func (c *converter) importDecl(n *ts.Node, raw string) *ast.ImportDecl {
	source := n.ChildByFieldName("source")
	if source == nil || source.Kind() != "string" {
		return nil
	}

	decl := &ast.ImportDecl{Source: c.str(source), Raw: raw, SideEffect: true}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch {
		case !child.IsNamed() && (child.Kind() == "type" || child.Kind() == "typeof"):
			decl.TypeOnly = true
		case child.Kind() == "import_clause":
			decl.SideEffect = false
			decl.Specifiers = c.importClause(child)
		case child.Kind() == "import_attribute" || child.Kind() == "import_assertion":
			decl.Attributes = c.text(child)
		case child.Kind() == "import_require_clause":
			return nil
		}
	}
	return decl
}

func (c *converter) importClause(n *ts.Node) []*ast.ImportSpecifier {
	var specs []*ast.ImportSpecifier
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			specs = append(specs, &ast.ImportSpecifier{
				Kind:  ast.SpecifierDefault,
				Local: c.text(child),
				Raw:   c.text(child),
			})
		case "namespace_import":
			local := ""
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if id := child.NamedChild(j); id.Kind() == "identifier" {
					local = c.text(id)
				}
			}
			specs = append(specs, &ast.ImportSpecifier{
				Kind:  ast.SpecifierNamespace,
				Local: local,
				Raw:   c.text(child),
			})
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if spec := child.NamedChild(j); spec.Kind() == "import_specifier" {
					specs = append(specs, c.importSpecifier(spec))
				}
			}
		}
	}
	return specs
}

func (c *converter) importSpecifier(n *ts.Node) *ast.ImportSpecifier {
	spec := &ast.ImportSpecifier{Kind: ast.SpecifierNamed, Raw: c.text(n)}

	name := n.ChildByFieldName("name")
	imported := ""
	if name != nil {
		if name.Kind() == "string" {
			imported = c.str(name).Value
		} else {
			imported = c.text(name)
		}
	}
	if alias := n.ChildByFieldName("alias"); alias != nil {
		spec.Local = c.text(alias)
		spec.Imported = imported
	} else {
		spec.Local = imported
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if !child.IsNamed() && (child.Kind() == "type" || child.Kind() == "typeof") {
			spec.TypeOnly = true
		}
	}
	return spec
}

// varDecl converts a declaration. When nested is set some declarator holds a
// statement block; the declaration then keeps separators instead of Raw so
// its blocks stay reachable.
func (c *converter) varDecl(n *ts.Node, raw string, end uint, nested bool) *ast.VarDecl {
	first := n.Child(0)
	if first == nil || first.IsNamed() {
		return nil
	}
	decl := &ast.VarDecl{Kind: c.text(first), Raw: raw}
	pos := n.StartByte()
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		d := &ast.Declarator{Raw: c.text(child)}
		if name := child.ChildByFieldName("name"); name != nil {
			d.ID = c.pattern(name)
		}
		if typ := child.ChildByFieldName("type"); typ != nil {
			d.TypeAnn = strings.TrimSpace(strings.TrimPrefix(c.text(typ), ":"))
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Init = c.expr(value)
		}
		if nested {
			var regions []region
			collectRegions(child, &regions)
			if len(regions) > 0 {
				d.Parts = c.parts(child.StartByte(), child.EndByte(), regions)
			}
			decl.Seps = append(decl.Seps, c.slice(pos, child.StartByte()))
			pos = child.EndByte()
		}
		decl.Declarators = append(decl.Declarators, d)
	}
	if len(decl.Declarators) == 0 {
		return nil
	}
	if nested {
		decl.Raw = ""
		decl.Seps = append(decl.Seps, c.slice(pos, end))
	}
	return decl
}

func (c *converter) pattern(n *ts.Node) ast.Pattern {
	switch n.Kind() {
	case "identifier":
		return &ast.IdentPat{Name: c.text(n)}
	case "object_pattern":
		pat := &ast.ObjectPat{Raw: c.text(n)}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if isTrivia(child) {
				continue
			}
			pat.Props = append(pat.Props, c.prop(child))
		}
		return pat
	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil {
			break
		}
		return &ast.AssignPat{Left: c.pattern(left), Default: c.expr(right), Raw: c.text(n)}
	}
	return &ast.RawPat{Text: c.text(n)}
}

func (c *converter) prop(n *ts.Node) ast.PatternProp {
	raw := c.text(n)
	switch n.Kind() {
	case "shorthand_property_identifier_pattern":
		return &ast.ShorthandProp{Key: raw, Raw: raw}
	case "object_assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left != nil && right != nil && left.Kind() == "shorthand_property_identifier_pattern" {
			return &ast.ShorthandProp{Key: c.text(left), Default: c.expr(right), Raw: raw}
		}
	case "pair_pattern":
		key := n.ChildByFieldName("key")
		value := n.ChildByFieldName("value")
		if key != nil && value != nil {
			return &ast.KeyValueProp{
				Key:        c.text(key),
				KeyIsIdent: key.Kind() == "property_identifier",
				Value:      c.pattern(value),
				Raw:        raw,
			}
		}
	case "rest_pattern":
		return &ast.RestProp{Raw: raw}
	}
	// Anything else is carried as an unclassifiable property.
	return &ast.KeyValueProp{Key: raw, Raw: raw}
}

func (c *converter) expr(n *ts.Node) ast.Expr {
	switch n.Kind() {
	case "identifier":
		return &ast.Ident{Name: c.text(n)}
	case "string":
		return c.str(n)
	case "call_expression":
		fn := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")
		if fn == nil || args == nil || args.Kind() != "arguments" {
			break
		}
		call := &ast.CallExpr{Callee: c.expr(fn), Raw: c.text(n)}
		for i := uint(0); i < args.NamedChildCount(); i++ {
			if arg := args.NamedChild(i); !isTrivia(arg) {
				call.Args = append(call.Args, c.expr(arg))
			}
		}
		return call
	}
	return &ast.RawExpr{Text: c.text(n)}
}

// str converts a string node, decoding escape sequences into Value.
func (c *converter) str(n *ts.Node) *ast.StringLit {
	var b strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(c.text(child))
		case "escape_sequence":
			b.WriteString(unescape(c.text(child)))
		}
	}
	return &ast.StringLit{Value: b.String(), Raw: c.text(n)}
}

func unescape(seq string) string {
	switch seq {
	case `\'`:
		return "'"
	case `\"`:
		return `"`
	}
	if v, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return v
	}
	return strings.TrimPrefix(seq, `\`)
}
