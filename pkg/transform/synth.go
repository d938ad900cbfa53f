package transform

import "github.com/gnana997/uiimport/pkg/ast"

func (r *run) componentPath(name string) (string, error) {
	path, err := r.policy.ComponentPath(name)
	if err != nil {
		return "", &CallbackError{Callback: "customName", Component: name, Err: err}
	}
	return path, nil
}

func (r *run) stylePath(name string) (string, bool, error) {
	path, ok, err := r.policy.StylePath(name)
	if err != nil {
		return "", false, &CallbackError{Callback: "style", Component: name, Err: err}
	}
	return path, ok && path != "", nil
}

// importFor builds the component import for b, followed by its style import
// when one resolves.
func (r *run) importFor(decl *ast.ImportDecl, b Binding) ([]ast.Stmt, error) {
	path, err := r.componentPath(b.External)
	if err != nil {
		return nil, err
	}

	spec := b.Specifier
	if r.opts.TransformToDefaultImport {
		spec = &ast.ImportSpecifier{Kind: ast.SpecifierDefault, Local: b.Local}
	}
	out := []ast.Stmt{&ast.ImportDecl{
		Trivia:     ast.Trivia{Semicolon: decl.Semicolon},
		Specifiers: []*ast.ImportSpecifier{spec},
		Source:     ast.NewString(path, b.Quote),
	}}

	style, err := r.styleImport(decl, b.External, b.Quote)
	if err != nil {
		return nil, err
	}
	return append(out, style...), nil
}

// namespaceImportFor rewrites `import * as local from lib`.
func (r *run) namespaceImportFor(decl *ast.ImportDecl, local string) ([]ast.Stmt, error) {
	quote := ast.QuoteChar(decl.Source.Raw)
	full := r.opts.NamespaceImports == NamespaceFull

	path, err := r.policy.NamespacePath(local, full)
	if err != nil {
		return nil, &CallbackError{Callback: "customName", Component: local, Err: err}
	}
	out := []ast.Stmt{&ast.ImportDecl{
		Trivia:     ast.Trivia{Semicolon: decl.Semicolon},
		Specifiers: []*ast.ImportSpecifier{{Kind: ast.SpecifierDefault, Local: local}},
		Source:     ast.NewString(path, quote),
	}}
	if !full {
		return out, nil
	}

	style, err := r.styleImport(decl, local, quote)
	if err != nil {
		return nil, err
	}
	return append(out, style...), nil
}

func (r *run) styleImport(decl *ast.ImportDecl, name string, quote byte) ([]ast.Stmt, error) {
	path, ok, err := r.stylePath(name)
	if err != nil || !ok {
		return nil, err
	}
	r.stats.StyleImports++
	return []ast.Stmt{&ast.ImportDecl{
		Trivia:     ast.Trivia{Semicolon: decl.Semicolon},
		Source:     ast.NewString(path, quote),
		SideEffect: true,
	}}, nil
}

// requireFor builds `kind target = require(path)` for b, followed by a
// `require(stylePath)` statement when a style resolves.
func (r *run) requireFor(decl *ast.VarDecl, b Binding) ([]ast.Stmt, error) {
	path, err := r.componentPath(b.External)
	if err != nil {
		return nil, err
	}

	id := b.Target
	if !r.opts.TransformToDefaultImport {
		id = &ast.ObjectPat{Props: []ast.PatternProp{b.Property}}
	}
	out := []ast.Stmt{&ast.VarDecl{
		Trivia: ast.Trivia{Semicolon: decl.Semicolon},
		Kind:   decl.Kind,
		Declarators: []*ast.Declarator{{
			ID:   id,
			Init: ast.NewRequire(ast.NewString(path, b.Quote)),
		}},
	}}

	stylePath, ok, err := r.stylePath(b.External)
	if err != nil {
		return nil, err
	}
	if ok {
		r.stats.StyleImports++
		out = append(out, &ast.ExprStmt{
			Trivia: ast.Trivia{Semicolon: decl.Semicolon},
			Expr:   ast.NewRequire(ast.NewString(stylePath, b.Quote)),
		})
	}
	return out, nil
}
