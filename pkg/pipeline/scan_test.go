package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uiimport/pkg/parser/queries"
	"github.com/gnana997/uiimport/pkg/transform"
)

func TestScanSource(t *testing.T) {
	p := newPipeline(t, Config{Rules: []transform.Options{transform.DefaultOptions("antd")}})

	res, err := p.ScanSource("app.tsx", []byte(`import React from 'react';
import { Button, Table } from 'antd';
import Input from 'antd/es/input';
const { message } = require('antd');
`))
	require.NoError(t, err)
	require.Len(t, res.References, 3)

	assert.Equal(t, []string{"Button", "Table"}, res.References[0].Names)
	assert.Equal(t, "antd/es/input", res.References[1].Source)
	assert.Equal(t, queries.ReferenceRequire, res.References[2].Kind)
}

func TestScanSource_BrokenFileStillScanned(t *testing.T) {
	p := newPipeline(t, Config{Rules: []transform.Options{transform.DefaultOptions("antd")}})

	res, err := p.ScanSource("app.js", []byte("import { Button } from 'antd';\nconst x = ;\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.References)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.js", "import { Button, Table } from 'antd';\n")
	writeFile(t, dir, "b.ts", "import { Button } from 'antd';\nimport 'antd/dist/reset.css';\n")
	writeFile(t, dir, "c.js", "import Vue from 'vue';\n")

	files, err := DiscoverFiles(dir, DiscoverOptions{})
	require.NoError(t, err)

	p := newPipeline(t, Config{Rules: []transform.Options{transform.DefaultOptions("antd"), transform.DefaultOptions("element-ui")}})
	report, err := p.Scan(context.Background(), files)
	require.NoError(t, err)

	require.Len(t, report.Files, 3)
	require.Len(t, report.Usage, 2)

	antd := report.Usage[0]
	assert.Equal(t, "antd", antd.Library)
	assert.Equal(t, 2, antd.Files)
	assert.Equal(t, 2, antd.Direct)
	assert.Equal(t, 1, antd.SubPath)
	assert.Equal(t, map[string]int{"Button": 2, "Table": 1}, antd.Components)
	assert.Equal(t, []string{"Button", "Table"}, antd.SortedComponents())

	assert.Zero(t, report.Usage[1].Files)
}

func TestScanFile_ReferenceText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", "// app\nconst { Button } = require('antd');\nimport { Table } from 'antd';\n")

	p := newPipeline(t, Config{Rules: []transform.Options{transform.DefaultOptions("antd")}})
	res, err := p.ScanFile(path)
	require.NoError(t, err)

	require.Len(t, res.References, 2)
	assert.Contains(t, res.References[0].Text, "require('antd')")
	assert.Equal(t, uint32(2), res.References[0].Location.StartLine)
	assert.True(t, strings.HasPrefix(res.References[1].Text, "import { Table } from 'antd'"))
}
