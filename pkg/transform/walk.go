package transform

import "github.com/gnana997/uiimport/pkg/ast"

// handlers is the per-node-kind dispatch table of a pass. A nil entry keeps
// the statement as is.
type handlers struct {
	importDecl func(*run, *ast.ImportDecl) ([]ast.Stmt, error)
	varDecl    func(*run, *ast.VarDecl) ([]ast.Stmt, error)
	exprStmt   func(*run, *ast.ExprStmt) ([]ast.Stmt, error)
}

func (h handlers) dispatch(r *run, s ast.Stmt) ([]ast.Stmt, error) {
	switch n := s.(type) {
	case *ast.ImportDecl:
		if h.importDecl != nil {
			return h.importDecl(r, n)
		}
	case *ast.VarDecl:
		if h.varDecl != nil {
			return h.varDecl(r, n)
		}
	case *ast.ExprStmt:
		if h.exprStmt != nil {
			return h.exprStmt(r, n)
		}
	}
	return []ast.Stmt{s}, nil
}

// walker applies a handler table to a statement list. With descend set it
// first rewrites the nested blocks of every opaque statement.
type walker struct {
	h       handlers
	descend bool
}

// list rebuilds body. The returned trailing text absorbs comments of dropped
// statements that had no successor.
func (w walker) list(r *run, body []ast.Stmt, trailing string) ([]ast.Stmt, string, error) {
	out := make([]ast.Stmt, 0, len(body))
	carry := ""

	// When the head of the list is dropped, the first surviving statement
	// takes over its leading whitespace.
	head, headDropped := "", false

	for _, s := range body {
		if w.descend {
			child, err := w.children(r, s)
			if err != nil {
				return nil, "", err
			}
			s = child
		}

		repl, err := w.h.dispatch(r, s)
		if err != nil {
			return nil, "", err
		}

		leading := ast.TriviaOf(s).Leading
		if len(repl) == 0 {
			if len(out) == 0 && !headDropped {
				head, headDropped = leading, true
			}
			if ast.HasComment(leading) {
				carry += leading
			}
			continue
		}

		if !(len(repl) == 1 && repl[0] == s) {
			placeReplacements(repl, leading)
		}
		switch first := ast.TriviaOf(repl[0]).Leading; {
		case carry != "":
			repl[0] = ast.WithLeading(repl[0], carry+first)
			carry = ""
		case len(out) == 0 && headDropped && !ast.HasComment(first):
			repl[0] = ast.WithLeading(repl[0], head)
		}
		out = append(out, repl...)
	}

	return out, carry + trailing, nil
}

// placeReplacements gives the first replacement the leading trivia of the
// statement it replaces and puts the rest on new lines at the same indent.
// Only freshly built statements are touched.
func placeReplacements(repl []ast.Stmt, leading string) {
	next := "\n" + ast.Indent(leading)
	for i, s := range repl {
		t := ast.TriviaOf(s)
		switch {
		case i == 0:
			t.Leading = leading
		case t.Leading == "":
			t.Leading = next
		}
	}
}

// children rewrites the nested blocks of an opaque statement, or of the
// declarators of a declaration, and returns a new statement when any of them
// changed.
func (w walker) children(r *run, s ast.Stmt) (ast.Stmt, error) {
	switch n := s.(type) {
	case *ast.OpaqueStmt:
		parts, err := w.parts(r, n.Parts)
		if err != nil || parts == nil {
			return s, err
		}
		return &ast.OpaqueStmt{Trivia: n.Trivia, Parts: parts}, nil

	case *ast.VarDecl:
		var decls []*ast.Declarator
		for i, d := range n.Declarators {
			if d.Parts == nil {
				continue
			}
			parts, err := w.parts(r, d.Parts)
			if err != nil {
				return nil, err
			}
			if parts == nil {
				continue
			}
			if decls == nil {
				decls = append([]*ast.Declarator(nil), n.Declarators...)
			}
			c := *d
			c.Parts = parts
			decls[i] = &c
		}
		if decls == nil {
			return s, nil
		}
		c := *n
		c.Declarators = decls
		return &c, nil
	}
	return s, nil
}

// parts rewrites the blocks among parts. It returns nil when none changed.
func (w walker) parts(r *run, parts []ast.Part) ([]ast.Part, error) {
	var out []ast.Part
	for i, p := range parts {
		if p.Block == nil {
			continue
		}
		body, trailing, err := w.list(r, p.Block.Body, p.Block.Trailing)
		if err != nil {
			return nil, err
		}
		if sameStmts(body, p.Block.Body) && trailing == p.Block.Trailing {
			continue
		}
		if out == nil {
			out = append([]ast.Part(nil), parts...)
		}
		out[i] = ast.Part{Block: &ast.Block{Body: body, Trailing: trailing}}
	}
	return out, nil
}

func sameStmts(a, b []ast.Stmt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
