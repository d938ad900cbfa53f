package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const both = `
_prefix = "my-ui/lib/"

def customName(name):
    return _prefix + name.lower()

def style(name):
    if name == "Loading":
        return False
    if name == "Icon":
        return None
    return _prefix + "theme/" + name + ".css"
`

func writeModule(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.star")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestLoad(t *testing.T) {
	m, err := Load(writeModule(t, both))
	require.NoError(t, err)

	assert.Contains(t, m.Exports, "customName")
	assert.Contains(t, m.Exports, "style")
	assert.NotContains(t, m.Exports, "_prefix")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.star"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, "failed to read file")
}

func TestLoad_SyntaxError(t *testing.T) {
	_, err := LoadSource("bad.star", []byte("def customName(name)\n    return name\n"))

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "bad.star", loadErr.File)
	assert.Contains(t, err.Error(), "extension bad.star")
}

func TestModule_CustomName(t *testing.T) {
	m, err := LoadSource("rules.star", []byte(both))
	require.NoError(t, err)

	fn, err := m.CustomName()
	require.NoError(t, err)

	path, err := fn("MessageBox")
	require.NoError(t, err)
	assert.Equal(t, "my-ui/lib/messagebox", path)
}

func TestModule_Style(t *testing.T) {
	m, err := LoadSource("rules.star", []byte(both))
	require.NoError(t, err)

	fn, err := m.Style()
	require.NoError(t, err)

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"Slider", "my-ui/lib/theme/Slider.css", true},
		{"Loading", "", false},
		{"Icon", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, ok, err := fn(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, path)
		})
	}
}

func TestModule_MissingFunction(t *testing.T) {
	m, err := LoadSource("only_style.star", []byte("def style(name):\n    return False\n"))
	require.NoError(t, err)

	_, err = m.CustomName()
	assert.ErrorIs(t, err, ErrMissingFunction)
}

func TestModule_NotAFunction(t *testing.T) {
	m, err := LoadSource("const.star", []byte(`customName = "fixed"`))
	require.NoError(t, err)

	_, err = m.CustomName()
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, "not a function")
}

func TestModule_BadReturnType(t *testing.T) {
	m, err := LoadSource("num.star", []byte("def customName(name):\n    return 42\n"))
	require.NoError(t, err)

	fn, err := m.CustomName()
	require.NoError(t, err)

	_, err = fn("Button")
	assert.Error(t, err)
}

func TestModule_RuntimeError(t *testing.T) {
	m, err := LoadSource("fail.star", []byte("def style(name):\n    fail(\"no style for \" + name)\n"))
	require.NoError(t, err)

	fn, err := m.Style()
	require.NoError(t, err)

	_, _, err = fn("Button")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no style for Button")
}
