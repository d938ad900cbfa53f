package queries

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// ReferenceKind distinguishes import declarations from require calls.
type ReferenceKind int

const (
	ReferenceImport ReferenceKind = iota
	ReferenceRequire
)

func (k ReferenceKind) String() string {
	if k == ReferenceRequire {
		return "require"
	}
	return "import"
}

// MarshalText renders the kind as its name in JSON reports.
func (k ReferenceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Reference is one place a module source is referenced.
type Reference struct {
	Kind   ReferenceKind `json:"kind"`
	Source string        `json:"source"`

	// Names holds the imported (not local) names of named specifiers or
	// destructured properties.
	Names []string `json:"names,omitempty"`

	Default    bool `json:"default,omitempty"`
	Namespace  bool `json:"namespace,omitempty"`
	SideEffect bool `json:"side_effect,omitempty"`
	TypeOnly   bool `json:"type_only,omitempty"`

	Location Location `json:"location"`

	// Text is the referencing statement, filled in when the file was read
	// through a source cache.
	Text string `json:"text,omitempty"`
}

// Targets reports whether the reference names library itself or one of its
// sub paths.
func (r Reference) Targets(library string) bool {
	return r.Source == library || strings.HasPrefix(r.Source, library+"/")
}

// Direct reports whether the reference names exactly library, i.e. a
// whole-library import a rewrite would split up.
func (r Reference) Direct(library string) bool {
	return r.Source == library
}

// Filter returns the references targeting library.
func Filter(refs []Reference, library string) []Reference {
	var out []Reference
	for _, r := range refs {
		if r.Targets(library) {
			out = append(out, r)
		}
	}
	return out
}

func importReference(stmt *QueryCapture, source string, src []byte) Reference {
	ref := Reference{
		Kind:       ReferenceImport,
		Source:     source,
		SideEffect: true,
		Location:   stmt.Location,
	}

	n := stmt.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch {
		case !child.IsNamed() && (child.Kind() == "type" || child.Kind() == "typeof"):
			ref.TypeOnly = true
		case child.Kind() == "import_clause":
			ref.SideEffect = false
			clauseNames(child, src, &ref)
		}
	}
	return ref
}

func clauseNames(clause *ts.Node, src []byte, ref *Reference) {
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "identifier":
			ref.Default = true
		case "namespace_import":
			ref.Namespace = true
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				if name := spec.ChildByFieldName("name"); name != nil {
					ref.Names = append(ref.Names, unquote(name.Utf8Text(src)))
				}
			}
		}
	}
}

func requireReference(call *QueryCapture, source string, src []byte) Reference {
	ref := Reference{
		Kind:       ReferenceRequire,
		Source:     source,
		SideEffect: true,
		Location:   call.Location,
	}

	parent := call.Node.Parent()
	if parent == nil || parent.Kind() != "variable_declarator" {
		return ref
	}
	name := parent.ChildByFieldName("name")
	if name == nil {
		return ref
	}
	ref.SideEffect = false
	if name.Kind() != "object_pattern" {
		ref.Default = true
		return ref
	}
	for i := uint(0); i < name.NamedChildCount(); i++ {
		prop := name.NamedChild(i)
		switch prop.Kind() {
		case "shorthand_property_identifier_pattern":
			ref.Names = append(ref.Names, prop.Utf8Text(src))
		case "object_assignment_pattern":
			if left := prop.ChildByFieldName("left"); left != nil {
				ref.Names = append(ref.Names, left.Utf8Text(src))
			}
		case "pair_pattern":
			if key := prop.ChildByFieldName("key"); key != nil {
				ref.Names = append(ref.Names, unquote(key.Utf8Text(src)))
			}
		}
	}
	return ref
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
