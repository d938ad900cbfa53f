package queries

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uiimport/pkg/parser"
)

func setupTest(t *testing.T) (*parser.ParserManager, *QueryManager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	pm := parser.NewParserManager(logger)
	qm := NewQueryManager(pm, logger)
	t.Cleanup(func() {
		qm.Close()
		pm.Close()
	})
	return pm, qm
}

func references(t *testing.T, src string, dialect parser.Dialect) []Reference {
	t.Helper()
	pm, qm := setupTest(t)

	tree, err := pm.Parse([]byte(src), dialect)
	require.NoError(t, err)
	defer tree.Close()

	refs, err := qm.References(tree, dialect, []byte(src))
	require.NoError(t, err)
	return refs
}

func TestQueryCompilation(t *testing.T) {
	_, qm := setupTest(t)

	for _, dialect := range []parser.Dialect{parser.DialectJavaScript, parser.DialectTypeScript, parser.DialectTSX} {
		for _, qtype := range []QueryType{QueryTypeImports, QueryTypeRequires} {
			t.Run(dialect.String()+"/"+qtype.String(), func(t *testing.T) {
				query, err := qm.GetQuery(dialect, qtype)
				require.NoError(t, err)
				assert.NotNil(t, query)
			})
		}
	}
}

func TestQueryCache(t *testing.T) {
	_, qm := setupTest(t)

	first, err := qm.GetQuery(parser.DialectTypeScript, QueryTypeImports)
	require.NoError(t, err)
	second, err := qm.GetQuery(parser.DialectTypeScript, QueryTypeImports)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGetQuery_Errors(t *testing.T) {
	_, qm := setupTest(t)

	_, err := qm.GetQuery(parser.DialectUnknown, QueryTypeImports)
	assert.Error(t, err)

	_, err = qm.GetQuery(parser.DialectJavaScript, QueryType(42))
	assert.Error(t, err)
}

func TestExecuteQuery_NilInputs(t *testing.T) {
	pm, qm := setupTest(t)

	query, err := qm.GetQuery(parser.DialectJavaScript, QueryTypeImports)
	require.NoError(t, err)
	_, err = qm.ExecuteQuery(nil, query, nil)
	assert.Error(t, err)

	tree, err := pm.Parse([]byte("let a"), parser.DialectJavaScript)
	require.NoError(t, err)
	defer tree.Close()
	_, err = qm.ExecuteQuery(tree, nil, nil)
	assert.Error(t, err)
}

func TestReferences_Imports(t *testing.T) {
	refs := references(t, `import Vue from 'vue';
import { Button, Select as S } from 'element-ui';
import * as Icons from '@element-ui/icons';
import 'element-ui/lib/theme-chalk/index.css';
`, parser.DialectJavaScript)
	require.Len(t, refs, 4)

	assert.Equal(t, "vue", refs[0].Source)
	assert.True(t, refs[0].Default)

	assert.Equal(t, "element-ui", refs[1].Source)
	assert.Equal(t, ReferenceImport, refs[1].Kind)
	assert.Equal(t, []string{"Button", "Select"}, refs[1].Names)
	assert.Equal(t, uint32(2), refs[1].Location.StartLine)
	assert.Equal(t, uint32(1), refs[1].Location.StartColumn)

	assert.True(t, refs[2].Namespace)

	assert.True(t, refs[3].SideEffect)
	assert.Empty(t, refs[3].Names)
}

func TestReferences_TypeOnly(t *testing.T) {
	refs := references(t, "import type { FormProps } from 'antd';\nimport { Form } from 'antd';\n", parser.DialectTypeScript)
	require.Len(t, refs, 2)
	assert.True(t, refs[0].TypeOnly)
	assert.False(t, refs[1].TypeOnly)
}

func TestReferences_Requires(t *testing.T) {
	refs := references(t, `const { Button, Input: In, Select = X } = require('antd');
const antd = require("antd");
require('antd/dist/reset.css');
notRequire('antd');
function setup() {
  var { Table } = require('antd');
}
`, parser.DialectJavaScript)
	require.Len(t, refs, 4)

	assert.Equal(t, ReferenceRequire, refs[0].Kind)
	assert.Equal(t, []string{"Button", "Input", "Select"}, refs[0].Names)
	assert.False(t, refs[0].SideEffect)

	assert.True(t, refs[1].Default)

	assert.True(t, refs[2].SideEffect)
	assert.Equal(t, "antd/dist/reset.css", refs[2].Source)

	assert.Equal(t, []string{"Table"}, refs[3].Names)
	assert.Equal(t, uint32(6), refs[3].Location.StartLine)
}

func TestReferences_SourceOrder(t *testing.T) {
	refs := references(t, "const { A } = require('a');\nimport { B } from 'b';\n", parser.DialectJavaScript)
	require.Len(t, refs, 2)
	assert.Equal(t, "a", refs[0].Source)
	assert.Equal(t, "b", refs[1].Source)
}

func TestFilter(t *testing.T) {
	refs := []Reference{
		{Source: "antd"},
		{Source: "antd/es/button"},
		{Source: "antd-mobile"},
		{Source: "vue"},
	}
	got := Filter(refs, "antd")
	require.Len(t, got, 2)
	assert.True(t, got[0].Direct("antd"))
	assert.False(t, got[1].Direct("antd"))
}

func TestParseCaptureName(t *testing.T) {
	tests := []struct {
		name, category, field string
	}{
		{"import.source", "import", "source"},
		{"require.call", "require", "call"},
		{"a.b.c", "a", "b.c"},
		{"plain", "plain", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		category, field := parseCaptureName(tt.name)
		assert.Equal(t, tt.category, category, tt.name)
		assert.Equal(t, tt.field, field, tt.name)
	}
}

func TestConcurrentReferences(t *testing.T) {
	pm, qm := setupTest(t)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			src := []byte(fmt.Sprintf("import { Button%d } from 'antd';\n", id))
			tree, err := pm.Parse(src, parser.DialectTypeScript)
			if err != nil {
				errs <- err
				return
			}
			defer tree.Close()
			refs, err := qm.References(tree, parser.DialectTypeScript, src)
			if err != nil {
				errs <- err
				return
			}
			if len(refs) != 1 || refs[0].Names[0] != fmt.Sprintf("Button%d", id) {
				errs <- fmt.Errorf("unexpected references for %d: %+v", id, refs)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
