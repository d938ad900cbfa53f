package transform

import "github.com/gnana997/uiimport/pkg/ast"

// Binding describes one component pulled out of a library-wide import or
// require.
type Binding struct {
	// External is the name the library exports the component under.
	External string

	// Local is the binding name in the rewritten program. It is empty when the
	// require form binds a nested pattern.
	Local string

	// Quote is the quote character of the literal that named the library.
	Quote byte

	// Specifier is the originating import specifier (import form only).
	Specifier *ast.ImportSpecifier

	// Property and Target are the originating destructuring property and the
	// pattern it binds (require form only).
	Property ast.PatternProp
	Target   ast.Pattern
}

// classifySpecifier decides whether spec of a matching import names a
// component. Default, namespace and type-only specifiers never do, and neither
// does `{ default as X }`.
func classifySpecifier(decl *ast.ImportDecl, spec *ast.ImportSpecifier) (Binding, bool) {
	if decl.TypeOnly || spec.TypeOnly || spec.Kind != ast.SpecifierNamed {
		return Binding{}, false
	}
	external := spec.ImportedName()
	if external == "default" {
		return Binding{}, false
	}
	return Binding{
		External:  external,
		Local:     spec.Local,
		Quote:     ast.QuoteChar(decl.Source.Raw),
		Specifier: spec,
	}, true
}

// libraryRequire returns the library literal when d is
// `{ ... } = require(libraryName)`.
func libraryRequire(d *ast.Declarator, libraryName string) *ast.StringLit {
	if _, ok := d.ID.(*ast.ObjectPat); !ok || d.Init == nil {
		return nil
	}
	lit := ast.RequireSource(d.Init)
	if lit == nil || lit.Value != libraryName {
		return nil
	}
	return lit
}

// classifyProperty decides whether a destructuring property names a
// component. Identifier-keyed key/value properties and shorthand properties
// do; rest elements and string or computed keys do not.
func classifyProperty(prop ast.PatternProp, quote byte) (Binding, bool) {
	switch p := prop.(type) {
	case *ast.KeyValueProp:
		if !p.KeyIsIdent || p.Value == nil {
			return Binding{}, false
		}
		target := p.Value
		if assign, ok := target.(*ast.AssignPat); ok {
			target = assign.Left
		}
		b := Binding{External: p.Key, Quote: quote, Property: p, Target: target}
		if id, ok := target.(*ast.IdentPat); ok {
			b.Local = id.Name
		}
		return b, true
	case *ast.ShorthandProp:
		return Binding{
			External: p.Key,
			Local:    p.Key,
			Quote:    quote,
			Property: p,
			Target:   &ast.IdentPat{Name: p.Key},
		}, true
	}
	return Binding{}, false
}
