package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnana997/uiimport/pkg/ast"
)

func TestClassifySpecifier(t *testing.T) {
	decl := &ast.ImportDecl{Source: &ast.StringLit{Value: "ui", Raw: `"ui"`}}

	tests := []struct {
		name     string
		spec     *ast.ImportSpecifier
		wantOK   bool
		external string
		local    string
	}{
		{"plain", &ast.ImportSpecifier{Kind: ast.SpecifierNamed, Local: "Button"}, true, "Button", "Button"},
		{"renamed", &ast.ImportSpecifier{Kind: ast.SpecifierNamed, Imported: "Button", Local: "Btn"}, true, "Button", "Btn"},
		{"default", &ast.ImportSpecifier{Kind: ast.SpecifierDefault, Local: "UI"}, false, "", ""},
		{"namespace", &ast.ImportSpecifier{Kind: ast.SpecifierNamespace, Local: "UI"}, false, "", ""},
		{"type only", &ast.ImportSpecifier{Kind: ast.SpecifierNamed, Local: "Props", TypeOnly: true}, false, "", ""},
		{"named default", &ast.ImportSpecifier{Kind: ast.SpecifierNamed, Imported: "default", Local: "UI"}, false, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := classifySpecifier(decl, tc.spec)
			assert.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.external, b.External)
			assert.Equal(t, tc.local, b.Local)
			assert.Equal(t, byte(ast.DoubleQuote), b.Quote)
			assert.Same(t, tc.spec, b.Specifier)
		})
	}
}

func TestClassifyProperty(t *testing.T) {
	nested := &ast.ObjectPat{Props: []ast.PatternProp{&ast.ShorthandProp{Key: "Item"}}}

	tests := []struct {
		name     string
		prop     ast.PatternProp
		wantOK   bool
		external string
		local    string
	}{
		{"shorthand", &ast.ShorthandProp{Key: "Button"}, true, "Button", "Button"},
		{"shorthand with default", &ast.ShorthandProp{Key: "Button", Default: &ast.RawExpr{Text: "null"}}, true, "Button", "Button"},
		{"renamed", &ast.KeyValueProp{Key: "Button", KeyIsIdent: true, Value: &ast.IdentPat{Name: "Btn"}}, true, "Button", "Btn"},
		{"renamed with default", &ast.KeyValueProp{Key: "Button", KeyIsIdent: true, Value: &ast.AssignPat{Left: &ast.IdentPat{Name: "Btn"}}}, true, "Button", "Btn"},
		{"nested pattern", &ast.KeyValueProp{Key: "Menu", KeyIsIdent: true, Value: nested}, true, "Menu", ""},
		{"string key", &ast.KeyValueProp{Key: "'menu'", Value: &ast.IdentPat{Name: "M"}}, false, "", ""},
		{"rest", &ast.RestProp{Raw: "...rest"}, false, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, ok := classifyProperty(tc.prop, ast.SingleQuote)
			assert.Equal(t, tc.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.external, b.External)
			assert.Equal(t, tc.local, b.Local)
			assert.NotNil(t, b.Target)
		})
	}
}

func TestLibraryRequire(t *testing.T) {
	obj := &ast.ObjectPat{}
	match := &ast.Declarator{ID: obj, Init: ast.NewRequire(ast.NewString("ui", ast.SingleQuote))}
	assert.NotNil(t, libraryRequire(match, "ui"))
	assert.Nil(t, libraryRequire(match, "other"))

	ident := &ast.Declarator{ID: &ast.IdentPat{Name: "UI"}, Init: ast.NewRequire(ast.NewString("ui", ast.SingleQuote))}
	assert.Nil(t, libraryRequire(ident, "ui"))

	noInit := &ast.Declarator{ID: obj}
	assert.Nil(t, libraryRequire(noInit, "ui"))
}

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		lead, header, rest string
	}{
		{"", "", ""},
		{"\n", "", "\n"},
		{"// doc\n", "", "// doc\n"},
		{"// license\n\n", "// license\n", "\n"},
		{"// license\n\n// doc\n", "// license\n", "\n// doc\n"},
		{"#!/usr/bin/env node\n", "#!/usr/bin/env node\n", "\n"},
	}
	for _, tc := range tests {
		header, rest := splitHeader(tc.lead)
		assert.Equal(t, tc.header, header, "lead %q", tc.lead)
		assert.Equal(t, tc.rest, rest, "lead %q", tc.lead)
	}
}
