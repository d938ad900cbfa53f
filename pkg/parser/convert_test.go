package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uiimport/pkg/ast"
	"github.com/gnana997/uiimport/pkg/printer"
)

func parseModule(t *testing.T, src string, dialect Dialect) *ast.Module {
	t.Helper()
	manager := NewParserManager(testLogger())
	t.Cleanup(func() { manager.Close() })

	m, err := manager.ParseModule([]byte(src), dialect)
	require.NoError(t, err)
	return m
}

func TestConvert_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		src     string
	}{
		{"empty", DialectJavaScript, ""},
		{"comments only", DialectJavaScript, "// nothing here\n/* really */\n"},
		{"imports", DialectJavaScript, "import Vue from 'vue'\nimport { Button, Select as S } from \"element-ui\";\nimport * as Icons from 'icons';\nimport 'normalize.css'\n"},
		{"shebang", DialectJavaScript, "#!/usr/bin/env node\nconst { Button } = require('antd')\n"},
		{"odd spacing", DialectJavaScript, "import   {Button}from'antd' ;  // trailing\n\n\nfoo( 1 )\n"},
		{"nested functions", DialectJavaScript, "function setup() {\n  const { Button } = require('antd');\n  if (x) {\n    require('antd/style');\n  }\n  return Button;\n}\n"},
		{"class", DialectJavaScript, "class A {\n  render() {\n    const { Input } = require('antd');\n  }\n}\n"},
		{"typescript", DialectTypeScript, "import type { ButtonProps } from 'antd';\nimport { type FormInstance, Form } from 'antd';\nconst size: number = 1;\nexport default function f(): void {\n  let { Table }: any = require('antd');\n}\n"},
		{"tsx", DialectTSX, "import { Button } from 'antd';\nexport const App = () => {\n  return <Button>ok</Button>;\n};\n"},
		{"attributes", DialectJavaScript, "import data from './data.json' with { type: 'json' };\n"},
		{"switch", DialectJavaScript, "switch (a) {\n  case 1:\n    const { Button } = require('antd');\n    break;\n  // fallthrough\n  case 2: case 3:\n  default: {\n    foo();\n  }\n}\n"},
		{"declarator blocks", DialectJavaScript, "const { Button } = require('antd'),\n  f = function () { return 1 },\n  g = () => {\n    let x;\n  };\n"},
		{"declarator block without semicolon", DialectTypeScript, "let h = () => { return 2 }\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := parseModule(t, tc.src, tc.dialect)
			assert.Equal(t, tc.src, printer.Print(m))
		})
	}
}

func TestConvert_ImportShapes(t *testing.T) {
	m := parseModule(t, `import UI, { Button, Select as S } from "element-ui";
import * as Icons from 'icons'
import 'normalize.css';
`, DialectJavaScript)
	require.Len(t, m.Body, 3)

	decl := m.Body[0].(*ast.ImportDecl)
	assert.True(t, decl.Semicolon)
	assert.Equal(t, "element-ui", decl.Source.Value)
	assert.Equal(t, `"element-ui"`, decl.Source.Raw)
	assert.False(t, decl.SideEffect)
	require.Len(t, decl.Specifiers, 3)
	assert.Equal(t, ast.SpecifierDefault, decl.Specifiers[0].Kind)
	assert.Equal(t, "UI", decl.Specifiers[0].Local)
	assert.Equal(t, "Button", decl.Specifiers[1].ImportedName())
	assert.Equal(t, "Select", decl.Specifiers[2].Imported)
	assert.Equal(t, "S", decl.Specifiers[2].Local)

	ns := m.Body[1].(*ast.ImportDecl)
	assert.False(t, ns.Semicolon)
	require.Len(t, ns.Specifiers, 1)
	assert.Equal(t, ast.SpecifierNamespace, ns.Specifiers[0].Kind)
	assert.Equal(t, "Icons", ns.Specifiers[0].Local)

	side := m.Body[2].(*ast.ImportDecl)
	assert.True(t, side.SideEffect)
	assert.Empty(t, side.Specifiers)
	assert.Equal(t, "\n", side.Leading)
}

func TestConvert_EmptyImportClause(t *testing.T) {
	m := parseModule(t, "import {} from 'element-ui';\n", DialectJavaScript)
	require.Len(t, m.Body, 1)

	decl := m.Body[0].(*ast.ImportDecl)
	assert.False(t, decl.SideEffect)
	assert.Empty(t, decl.Specifiers)
}

func TestConvert_TypeOnly(t *testing.T) {
	m := parseModule(t, "import type { ButtonProps } from 'antd';\nimport { type FormInstance, Form } from 'antd';\n", DialectTypeScript)
	require.Len(t, m.Body, 2)

	assert.True(t, m.Body[0].(*ast.ImportDecl).TypeOnly)

	mixed := m.Body[1].(*ast.ImportDecl)
	assert.False(t, mixed.TypeOnly)
	require.Len(t, mixed.Specifiers, 2)
	assert.True(t, mixed.Specifiers[0].TypeOnly)
	assert.Equal(t, "FormInstance", mixed.Specifiers[0].Local)
	assert.False(t, mixed.Specifiers[1].TypeOnly)
}

func TestConvert_RequirePattern(t *testing.T) {
	m := parseModule(t, "var { Button, Input: In, Select = Fallback, Table: T = null, ...rest } = require('antd'), x = 1;\n", DialectJavaScript)
	require.Len(t, m.Body, 1)

	decl := m.Body[0].(*ast.VarDecl)
	assert.Equal(t, "var", decl.Kind)
	assert.True(t, decl.Semicolon)
	require.Len(t, decl.Declarators, 2)

	d := decl.Declarators[0]
	src := ast.RequireSource(d.Init)
	require.NotNil(t, src)
	assert.Equal(t, "antd", src.Value)

	pat := d.ID.(*ast.ObjectPat)
	require.Len(t, pat.Props, 5)

	assert.Equal(t, "Button", pat.Props[0].(*ast.ShorthandProp).Key)

	kv := pat.Props[1].(*ast.KeyValueProp)
	assert.Equal(t, "Input", kv.Key)
	assert.True(t, kv.KeyIsIdent)
	assert.Equal(t, "In", kv.Value.(*ast.IdentPat).Name)

	withDefault := pat.Props[2].(*ast.ShorthandProp)
	assert.Equal(t, "Select", withDefault.Key)
	assert.NotNil(t, withDefault.Default)

	assigned := pat.Props[3].(*ast.KeyValueProp)
	assert.Equal(t, "T", assigned.Value.(*ast.AssignPat).Left.(*ast.IdentPat).Name)

	assert.IsType(t, &ast.RestProp{}, pat.Props[4])

	assert.IsType(t, &ast.IdentPat{}, decl.Declarators[1].ID)
}

func TestConvert_NestedBlocks(t *testing.T) {
	src := "export function setup() {\n  const { Button } = require('antd');\n  return Button;\n}\n"
	m := parseModule(t, src, DialectJavaScript)
	require.Len(t, m.Body, 1)

	op := m.Body[0].(*ast.OpaqueStmt)
	blocks := op.Blocks()
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Body, 2)

	decl := blocks[0].Body[0].(*ast.VarDecl)
	assert.Equal(t, "\n  ", decl.Leading)
	assert.Equal(t, "antd", ast.RequireSource(decl.Declarators[0].Init).Value)
	assert.Equal(t, "\n", blocks[0].Trailing)
}

func TestConvert_ExpressionRequire(t *testing.T) {
	m := parseModule(t, "require('antd/es/button/style')\n", DialectJavaScript)
	require.Len(t, m.Body, 1)

	stmt := m.Body[0].(*ast.ExprStmt)
	assert.False(t, stmt.Semicolon)
	assert.Equal(t, "antd/es/button/style", ast.RequireSource(stmt.Expr).Value)
}

func TestConvert_Escapes(t *testing.T) {
	m := parseModule(t, `import a from 'it\'s';`+"\n", DialectJavaScript)
	decl := m.Body[0].(*ast.ImportDecl)
	assert.Equal(t, "it's", decl.Source.Value)
	assert.Equal(t, `'it\'s'`, decl.Source.Raw)
}

func TestConvert_SwitchCases(t *testing.T) {
	src := "switch (a) {\n  case 1:\n    const { Button } = require('antd');\n    break;\n  default:\n    foo();\n}\n"
	m := parseModule(t, src, DialectJavaScript)
	require.Len(t, m.Body, 1)

	blocks := m.Body[0].(*ast.OpaqueStmt).Blocks()
	require.Len(t, blocks, 2)

	require.Len(t, blocks[0].Body, 2)
	decl := blocks[0].Body[0].(*ast.VarDecl)
	assert.Equal(t, "\n    ", decl.Leading)
	assert.Equal(t, "antd", ast.RequireSource(decl.Declarators[0].Init).Value)

	require.Len(t, blocks[1].Body, 1)
	assert.IsType(t, &ast.ExprStmt{}, blocks[1].Body[0])
}

func TestConvert_DeclaratorBlocks(t *testing.T) {
	src := "const { Button } = require('antd'), f = function () {\n  const { Input } = require('antd');\n};\n"
	m := parseModule(t, src, DialectJavaScript)
	require.Len(t, m.Body, 1)

	decl := m.Body[0].(*ast.VarDecl)
	assert.Empty(t, decl.Raw)
	assert.Equal(t, []string{"const ", ", ", ""}, decl.Seps)
	require.Len(t, decl.Declarators, 2)

	assert.Equal(t, "antd", ast.RequireSource(decl.Declarators[0].Init).Value)
	assert.Nil(t, decl.Declarators[0].Parts)

	blocks := decl.Declarators[1].Blocks()
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Body, 1)
	assert.IsType(t, &ast.VarDecl{}, blocks[0].Body[0])
}
