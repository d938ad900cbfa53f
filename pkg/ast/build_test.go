package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteChar(t *testing.T) {
	assert.Equal(t, byte(DoubleQuote), QuoteChar(`"element-ui"`))
	assert.Equal(t, byte(SingleQuote), QuoteChar(`'element-ui'`))
	assert.Equal(t, byte(SingleQuote), QuoteChar(""), "missing raw text defaults to single quotes")
}

func TestQuote(t *testing.T) {
	tests := []struct {
		value string
		quote byte
		want  string
	}{
		{"element-ui/lib/slider", SingleQuote, `'element-ui/lib/slider'`},
		{"element-ui/lib/slider", DoubleQuote, `"element-ui/lib/slider"`},
		{`it's`, SingleQuote, `'it\'s'`},
		{`it's`, DoubleQuote, `"it's"`},
		{`a\b`, SingleQuote, `'a\\b'`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Quote(tc.value, tc.quote))
	}
}

func TestRequireSource(t *testing.T) {
	lit := NewString("element-ui", SingleQuote)
	assert.Same(t, lit, RequireSource(NewRequire(lit)))

	notRequire := &CallExpr{Callee: &Ident{Name: "load"}, Args: []Expr{lit}}
	assert.Nil(t, RequireSource(notRequire))

	noArgs := &CallExpr{Callee: &Ident{Name: "require"}}
	assert.Nil(t, RequireSource(noArgs))

	assert.Nil(t, RequireSource(&Ident{Name: "require"}))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "", Indent(""))
	assert.Equal(t, "  ", Indent("\n  "))
	assert.Equal(t, "\t", Indent("\n// note\n\t"))
}

func TestOpaqueStmtBlocks(t *testing.T) {
	inner := &Block{}
	s := &OpaqueStmt{Parts: []Part{{Text: "function f() {"}, {Block: inner}, {Text: "}"}}}
	assert.Equal(t, []*Block{inner}, s.Blocks())
}

func TestWithLeading(t *testing.T) {
	orig := &ImportDecl{
		Trivia: Trivia{Leading: "\n", Semicolon: true},
		Source: NewString("vue", SingleQuote),
		Raw:    "import Vue from 'vue'",
	}

	got := WithLeading(orig, "// header\n")

	assert.NotSame(t, orig, got)
	assert.Equal(t, "\n", orig.Leading, "original is not modified")
	assert.Equal(t, "// header\n", TriviaOf(got).Leading)
	assert.True(t, TriviaOf(got).Semicolon)
	assert.Equal(t, orig.Raw, got.(*ImportDecl).Raw)
}
