package parser

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestParse_Dialects(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	tests := []struct {
		dialect Dialect
		source  string
	}{
		{DialectJavaScript, "import { Button } from 'element-ui';\nconst App = () => <Button />;\n"},
		{DialectTypeScript, "import type { ButtonProps } from 'antd';\nconst size: number = 1;\n"},
		{DialectTSX, "import { Button } from 'antd';\nexport const App = (): JSX.Element => <Button type=\"primary\" />;\n"},
	}
	for _, tc := range tests {
		t.Run(tc.dialect.String(), func(t *testing.T) {
			tree, err := manager.Parse([]byte(tc.source), tc.dialect)
			require.NoError(t, err)
			defer tree.Close()

			root := tree.RootNode()
			assert.Equal(t, "program", root.Kind())
			assert.False(t, root.HasError(), root.ToSexp())
		})
	}
}

func TestParse_UnknownDialect(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	_, err := manager.Parse([]byte("x"), DialectUnknown)
	assert.Error(t, err)
}

func TestParseModule_SyntaxError(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	_, err := manager.ParseModule([]byte("import { Button from 'element-ui'"), DialectJavaScript)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParserManager_LazyPools(t *testing.T) {
	manager := NewParserManagerWithSize(2, testLogger())
	defer manager.Close()

	assert.Equal(t, 0, manager.Stats().ParsersCreated)

	for i := 0; i < 3; i++ {
		tree, err := manager.Parse([]byte("const x = 1;"), DialectTypeScript)
		require.NoError(t, err)
		tree.Close()
	}

	stats := manager.Stats()
	assert.Equal(t, 1, stats.ParsersCreated, "sequential parses reuse one parser")
	assert.Equal(t, int64(3), stats.ParsesCalled)

	tree, err := manager.Parse([]byte("let y = 2"), DialectJavaScript)
	require.NoError(t, err)
	tree.Close()
	assert.Equal(t, 2, manager.Stats().ParsersCreated, "each dialect has its own pool")
}

func TestDetectDialect(t *testing.T) {
	tests := map[string]Dialect{
		"src/main.js":      DialectJavaScript,
		"src/App.jsx":      DialectJavaScript,
		"lib/index.mjs":    DialectJavaScript,
		"lib/index.cjs":    DialectJavaScript,
		"src/main.ts":      DialectTypeScript,
		"src/types.mts":    DialectTypeScript,
		"src/App.tsx":      DialectTSX,
		"src/App.TSX":      DialectTSX,
		"src/App.vue":      DialectUnknown,
		"README.md":        DialectUnknown,
		"no-extension":     DialectUnknown,
		"styles/theme.css": DialectUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectDialect(path), path)
	}
}

func TestParseDialect(t *testing.T) {
	assert.Equal(t, DialectJavaScript, ParseDialect("js"))
	assert.Equal(t, DialectJavaScript, ParseDialect("JavaScript"))
	assert.Equal(t, DialectTypeScript, ParseDialect("ts"))
	assert.Equal(t, DialectTSX, ParseDialect("tsx"))
	assert.Equal(t, DialectUnknown, ParseDialect("python"))
}

func TestExtensionsHaveDialects(t *testing.T) {
	for _, ext := range Extensions() {
		assert.NotEqual(t, DialectUnknown, DetectDialect("file"+ext), ext)
	}
}

func TestPoolSize(t *testing.T) {
	size := PoolSize(0)
	assert.GreaterOrEqual(t, size, minPoolSize)
	assert.LessOrEqual(t, size, maxPoolSize)
	assert.Equal(t, 3, PoolSize(3))
	assert.Equal(t, size, PoolSize(-1))
}
