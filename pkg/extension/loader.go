// Package extension loads Starlark modules that supply the function-valued
// options of a library rule (customName and style).
//
// A module is a .star file exporting one or both of:
//
//	def customName(name):
//	    return "my-ui/lib/" + name.lower()
//
//	def style(name):
//	    if name == "Loading":
//	        return False
//	    return "my-ui/lib/theme/" + name + ".css"
//
// Modules are executed once and frozen, so the returned callbacks are safe to
// call from several goroutines.
package extension

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.starlark.net/starlark"

	"github.com/gnana997/uiimport/pkg/naming"
)

const (
	// CustomNameFunction is the exported name of the component path callback.
	CustomNameFunction = "customName"
	// StyleFunction is the exported name of the style path callback.
	StyleFunction = "style"
)

// ErrMissingFunction is returned when a module does not export a requested callback.
var ErrMissingFunction = errors.New("function not exported")

// Module is an executed, frozen Starlark module.
type Module struct {
	// Path is the file the module was loaded from.
	Path string

	// Exports holds the module globals not starting with an underscore.
	Exports starlark.StringDict
}

// Load reads and executes a .star file.
func Load(path string) (*Module, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from project configuration
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: fmt.Sprintf("failed to read file: %v", err),
		}
	}
	return LoadSource(path, content)
}

// LoadSource executes src as if it had been read from path.
func LoadSource(path string, src []byte) (*Module, error) {
	thread := &starlark.Thread{
		Name:  "load:" + filepath.Base(path),
		Print: func(_ *starlark.Thread, _ string) {},
	}

	globals, err := starlark.ExecFile(thread, path, src, nil) //nolint:staticcheck // SA1019: ExecFileOptions needs explicit dialect options
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: fmt.Sprintf("Starlark execution error: %v", err),
		}
	}
	globals.Freeze()

	exports := make(starlark.StringDict, len(globals))
	for name, value := range globals {
		if !strings.HasPrefix(name, "_") {
			exports[name] = value
		}
	}

	return &Module{Path: path, Exports: exports}, nil
}

func (m *Module) function(name string) (starlark.Callable, error) {
	v, ok := m.Exports[name]
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", m.Path, name, ErrMissingFunction)
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, &LoadError{
			File:    m.Path,
			Message: fmt.Sprintf("%s is a %s, not a function", name, v.Type()),
		}
	}
	return fn, nil
}

func (m *Module) call(fn starlark.Callable, name string) (starlark.Value, error) {
	thread := &starlark.Thread{
		Name:  "call:" + filepath.Base(m.Path),
		Print: func(_ *starlark.Thread, _ string) {},
	}
	return starlark.Call(thread, fn, starlark.Tuple{starlark.String(name)}, nil)
}

// CustomName returns the module's customName export as a naming callback.
// The function must return a string.
func (m *Module) CustomName() (naming.CustomNameFunc, error) {
	fn, err := m.function(CustomNameFunction)
	if err != nil {
		return nil, err
	}
	return func(name string) (string, error) {
		v, err := m.call(fn, name)
		if err != nil {
			return "", err
		}
		s, ok := starlark.AsString(v)
		if !ok {
			return "", fmt.Errorf("%s(%q) returned %s, want string", CustomNameFunction, name, v.Type())
		}
		return s, nil
	}, nil
}

// Style returns the module's style export as a naming callback. A string
// result is the stylesheet path; False, None or "" mean no stylesheet.
func (m *Module) Style() (naming.StyleFunc, error) {
	fn, err := m.function(StyleFunction)
	if err != nil {
		return nil, err
	}
	return func(name string) (string, bool, error) {
		v, err := m.call(fn, name)
		if err != nil {
			return "", false, err
		}
		if s, ok := starlark.AsString(v); ok {
			return s, s != "", nil
		}
		switch v {
		case starlark.None, starlark.False:
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s(%q) returned %s, want string or False", StyleFunction, name, v.Type())
	}, nil
}

// LoadError represents an error loading an extension module.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("extension %s: %s", filepath.Base(e.File), e.Message)
}
