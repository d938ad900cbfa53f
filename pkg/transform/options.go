package transform

import (
	"errors"
	"fmt"

	"github.com/gnana997/uiimport/pkg/naming"
)

// ErrLibraryNameRequired is returned by New when Options.LibraryName is empty.
var ErrLibraryNameRequired = errors.New("libraryName is required")

// NamespaceMode controls how `import * as X from lib` is rewritten.
type NamespaceMode int

const (
	// NamespaceMinimal rewrites to `import X from '{lib}/{dir}/X'` with no
	// case conversion and no style import.
	NamespaceMinimal NamespaceMode = iota
	// NamespaceIgnore leaves namespace imports untouched.
	NamespaceIgnore
	// NamespaceFull treats X as a component name: full path policy plus style.
	NamespaceFull
)

func (m NamespaceMode) String() string {
	switch m {
	case NamespaceIgnore:
		return "ignore"
	case NamespaceFull:
		return "full"
	default:
		return "minimal"
	}
}

// ParseNamespaceMode converts a configuration value into a NamespaceMode.
// The empty string selects NamespaceMinimal.
func ParseNamespaceMode(s string) (NamespaceMode, error) {
	switch s {
	case "", "minimal":
		return NamespaceMinimal, nil
	case "ignore":
		return NamespaceIgnore, nil
	case "full":
		return NamespaceFull, nil
	}
	return NamespaceMinimal, fmt.Errorf("unknown namespaceImports value %q (want ignore, minimal or full)", s)
}

// Options configures one library rule.
//
// Go zero values do not match the plugin defaults (style on, camel2dash on,
// default imports on); start from DefaultOptions.
type Options struct {
	// LibraryName is the module specifier that triggers rewriting.
	LibraryName string

	// LibraryDirectory defaults to "lib".
	LibraryDirectory string

	Style                 naming.StyleMode
	StyleFunc             naming.StyleFunc
	StyleLibraryDirectory string

	Camel2DashComponentName  bool
	CustomName               naming.CustomNameFunc
	TransformToDefaultImport bool

	NamespaceImports NamespaceMode
}

// DefaultOptions returns the defaults for libraryName.
func DefaultOptions(libraryName string) Options {
	return Options{
		LibraryName:              libraryName,
		LibraryDirectory:         naming.DefaultLibraryDirectory,
		Style:                    naming.StyleDefault,
		Camel2DashComponentName:  true,
		TransformToDefaultImport: true,
		NamespaceImports:         NamespaceMinimal,
	}
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	if o.LibraryName == "" {
		return ErrLibraryNameRequired
	}
	switch o.NamespaceImports {
	case NamespaceMinimal, NamespaceIgnore, NamespaceFull:
	default:
		return fmt.Errorf("invalid namespace mode %d", o.NamespaceImports)
	}
	return nil
}

// Policy returns the naming policy described by o.
func (o Options) Policy() *naming.Policy {
	return &naming.Policy{
		LibraryName:           o.LibraryName,
		LibraryDirectory:      o.LibraryDirectory,
		StyleLibraryDirectory: o.StyleLibraryDirectory,
		Style:                 o.Style,
		StyleFunc:             o.StyleFunc,
		CustomName:            o.CustomName,
		Camel2Dash:            o.Camel2DashComponentName,
	}
}

// CallbackError wraps a failure of a user-supplied naming callback.
type CallbackError struct {
	Callback  string
	Component string
	Err       error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s(%q): %v", e.Callback, e.Component, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }
