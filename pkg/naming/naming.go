// Package naming turns a component's exported name into the module paths the
// rewritten imports point at.
package naming

import "strings"

// DefaultLibraryDirectory is used when no library directory is configured.
const DefaultLibraryDirectory = "lib"

// CustomNameFunc maps an exported component name to its full module path.
type CustomNameFunc func(name string) (string, error)

// StyleFunc maps an exported component name to a stylesheet module path.
// ok=false means the component has no stylesheet to import.
type StyleFunc func(name string) (path string, ok bool, err error)

// StyleMode is the non-function form of the style option.
type StyleMode int

const (
	// StyleNone disables style imports.
	StyleNone StyleMode = iota
	// StyleDefault imports "<component path>/style".
	StyleDefault
	// StyleCSS is the legacy "css" value. It resolves to the same path as StyleDefault.
	StyleCSS
)

// Policy is the path generation policy of one library rule. A Policy is never
// mutated after construction.
type Policy struct {
	LibraryName           string
	LibraryDirectory      string
	StyleLibraryDirectory string
	Style                 StyleMode
	StyleFunc             StyleFunc
	CustomName            CustomNameFunc
	Camel2Dash            bool
}

// ComponentName converts an exported name into its file name.
//
//	MessageBox -> message-box
//	HTMLButton -> hTMLButton
func (p *Policy) ComponentName(name string) string {
	if !p.Camel2Dash {
		return name
	}
	return CamelToDash(name)
}

// CamelToDash inserts a hyphen before every uppercase letter that directly
// follows a lowercase letter, lowercases that letter, then lowercases a leading
// uppercase letter.
func CamelToDash(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	prevLower := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		upper := c >= 'A' && c <= 'Z'
		switch {
		case upper && prevLower:
			b.WriteByte('-')
			b.WriteByte(c + 'a' - 'A')
		case upper && i == 0:
			b.WriteByte(c + 'a' - 'A')
		default:
			b.WriteByte(c)
		}
		prevLower = c >= 'a' && c <= 'z'
	}
	return b.String()
}

func (p *Policy) libraryDirectory() string {
	if p.LibraryDirectory == "" {
		return DefaultLibraryDirectory
	}
	return p.LibraryDirectory
}

// ComponentPath returns the module path of a component.
func (p *Policy) ComponentPath(name string) (string, error) {
	if p.CustomName != nil {
		return p.CustomName(name)
	}
	return p.LibraryName + "/" + p.libraryDirectory() + "/" + p.ComponentName(name), nil
}

// StylePath returns the stylesheet module path of a component. ok is false when
// no style import should be emitted.
func (p *Policy) StylePath(name string) (string, bool, error) {
	if p.StyleFunc != nil {
		return p.StyleFunc(name)
	}
	if p.StyleLibraryDirectory != "" {
		return p.LibraryName + "/" + p.StyleLibraryDirectory + "/" + p.ComponentName(name), true, nil
	}
	if p.Style == StyleNone {
		return "", false, nil
	}
	path, err := p.ComponentPath(name)
	if err != nil {
		return "", false, err
	}
	return path + "/style", true, nil
}

// NamespacePath returns the module path for `import * as local from lib`.
// The minimal form uses local verbatim as the last path segment; the full
// form runs it through ComponentPath.
func (p *Policy) NamespacePath(local string, full bool) (string, error) {
	if full {
		return p.ComponentPath(local)
	}
	return p.LibraryName + "/" + p.libraryDirectory() + "/" + local, nil
}
