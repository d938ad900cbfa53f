package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/uiimport/catalogs"
	"github.com/gnana997/uiimport/pkg/extension"
	"github.com/gnana997/uiimport/pkg/naming"
	"github.com/gnana997/uiimport/pkg/transform"
)

//go:embed rule-schema.json
var ruleSchema []byte

// Rule is one library rule as written in a config file or JSON document.
// Unset fields fall back to the preset, then to transform.DefaultOptions.
type Rule struct {
	// Preset names an embedded rule to start from.
	Preset string `yaml:"preset,omitempty" json:"preset,omitempty"`

	LibraryName      string  `yaml:"libraryName,omitempty" json:"libraryName,omitempty"`
	LibraryDirectory *string `yaml:"libraryDirectory,omitempty" json:"libraryDirectory,omitempty"`

	// Style is true, false, "css" or the path of a Starlark module
	// exporting style(name).
	Style                 any     `yaml:"style,omitempty" json:"style,omitempty"`
	StyleLibraryDirectory *string `yaml:"styleLibraryDirectory,omitempty" json:"styleLibraryDirectory,omitempty"`

	Camel2DashComponentName *bool `yaml:"camel2DashComponentName,omitempty" json:"camel2DashComponentName,omitempty"`

	// CustomName is the path of a Starlark module exporting customName(name).
	CustomName string `yaml:"customName,omitempty" json:"customName,omitempty"`

	TransformToDefaultImport *bool  `yaml:"transformToDefaultImport,omitempty" json:"transformToDefaultImport,omitempty"`
	NamespaceImports         string `yaml:"namespaceImports,omitempty" json:"namespaceImports,omitempty"`
}

// overlay returns r with every field set in o replacing r's.
func (r Rule) overlay(o Rule) Rule {
	if o.LibraryName != "" {
		r.LibraryName = o.LibraryName
	}
	if o.LibraryDirectory != nil {
		r.LibraryDirectory = o.LibraryDirectory
	}
	if o.Style != nil {
		r.Style = o.Style
	}
	if o.StyleLibraryDirectory != nil {
		r.StyleLibraryDirectory = o.StyleLibraryDirectory
	}
	if o.Camel2DashComponentName != nil {
		r.Camel2DashComponentName = o.Camel2DashComponentName
	}
	if o.CustomName != "" {
		r.CustomName = o.CustomName
	}
	if o.TransformToDefaultImport != nil {
		r.TransformToDefaultImport = o.TransformToDefaultImport
	}
	if o.NamespaceImports != "" {
		r.NamespaceImports = o.NamespaceImports
	}
	r.Preset = ""
	return r
}

// Expand applies the rule's preset, if any.
func (r Rule) Expand() (Rule, error) {
	if r.Preset == "" {
		return r, nil
	}
	presets, err := Presets()
	if err != nil {
		return Rule{}, err
	}
	base, ok := presets[r.Preset]
	if !ok {
		return Rule{}, fmt.Errorf("unknown preset %q (available: %s)", r.Preset, strings.Join(PresetNames(), ", "))
	}
	return base.overlay(r), nil
}

// Options converts the rule into engine options. Module paths are resolved
// against baseDir and loaded through modules.
func (r Rule) Options(baseDir string, modules *ModuleCache) (transform.Options, error) {
	r, err := r.Expand()
	if err != nil {
		return transform.Options{}, err
	}
	if r.LibraryName == "" {
		return transform.Options{}, transform.ErrLibraryNameRequired
	}
	if modules == nil {
		modules = NewModuleCache()
	}

	opts := transform.DefaultOptions(r.LibraryName)
	if r.LibraryDirectory != nil {
		opts.LibraryDirectory = *r.LibraryDirectory
	}
	if r.StyleLibraryDirectory != nil {
		opts.StyleLibraryDirectory = *r.StyleLibraryDirectory
	}
	if r.Camel2DashComponentName != nil {
		opts.Camel2DashComponentName = *r.Camel2DashComponentName
	}
	if r.TransformToDefaultImport != nil {
		opts.TransformToDefaultImport = *r.TransformToDefaultImport
	}

	mode, err := transform.ParseNamespaceMode(r.NamespaceImports)
	if err != nil {
		return transform.Options{}, fmt.Errorf("%s: %w", r.LibraryName, err)
	}
	opts.NamespaceImports = mode

	switch style := r.Style.(type) {
	case nil:
	case bool:
		if style {
			opts.Style = naming.StyleDefault
		} else {
			opts.Style = naming.StyleNone
		}
	case string:
		switch style {
		case "css":
			opts.Style = naming.StyleCSS
		case "":
			return transform.Options{}, fmt.Errorf("%s: style must not be empty", r.LibraryName)
		default:
			mod, err := modules.Load(resolvePath(baseDir, style))
			if err != nil {
				return transform.Options{}, err
			}
			if opts.StyleFunc, err = mod.Style(); err != nil {
				return transform.Options{}, err
			}
			opts.Style = naming.StyleDefault
		}
	default:
		return transform.Options{}, fmt.Errorf("%s: style must be a boolean or string, got %T", r.LibraryName, r.Style)
	}

	if r.CustomName != "" {
		mod, err := modules.Load(resolvePath(baseDir, r.CustomName))
		if err != nil {
			return transform.Options{}, err
		}
		if opts.CustomName, err = mod.CustomName(); err != nil {
			return transform.Options{}, err
		}
	}
	return opts, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ModuleCache loads each Starlark module once, so a file exporting both
// customName and style is executed a single time.
type ModuleCache struct {
	mu      sync.Mutex
	modules map[string]*extension.Module
}

// NewModuleCache creates an empty cache.
func NewModuleCache() *ModuleCache {
	return &ModuleCache{modules: make(map[string]*extension.Module)}
}

// Load returns the module at path, executing it on first use.
func (c *ModuleCache) Load(path string) (*extension.Module, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mod, ok := c.modules[path]; ok {
		return mod, nil
	}
	mod, err := extension.Load(path)
	if err != nil {
		return nil, err
	}
	c.modules[path] = mod
	return mod, nil
}

var loadPresets = sync.OnceValues(func() (map[string]Rule, error) {
	presets := make(map[string]Rule)
	if err := yaml.Unmarshal(catalogs.PresetsYAML, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse embedded presets: %w", err)
	}
	return presets, nil
})

// Presets returns the embedded library rules keyed by preset name.
func Presets() (map[string]Rule, error) {
	return loadPresets()
}

// PresetNames returns the embedded preset names, sorted.
func PresetNames() []string {
	presets, err := Presets()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaError lists the JSON Schema violations of a rule document.
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return "invalid rule document: " + strings.Join(e.Errors, "; ")
}

// ParseRules decodes a JSON rule document: a single rule object or an array
// of them. The document is validated against the embedded schema first.
func ParseRules(data []byte) ([]Rule, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(ruleSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid rule document: %w", err)
	}
	if !result.Valid() {
		serr := &SchemaError{}
		for _, verr := range result.Errors() {
			serr.Errors = append(serr.Errors, verr.String())
		}
		return nil, serr
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var rules []Rule
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("invalid rule document: %w", err)
		}
		return rules, nil
	}
	var rule Rule
	if err := json.Unmarshal(data, &rule); err != nil {
		return nil, fmt.Errorf("invalid rule document: %w", err)
	}
	return []Rule{rule}, nil
}

// RuleOptions converts rules in order, labelling failures with the rule index.
func RuleOptions(rules []Rule, baseDir string) ([]transform.Options, error) {
	if len(rules) == 0 {
		return nil, ErrNoLibraries
	}
	modules := NewModuleCache()
	opts := make([]transform.Options, 0, len(rules))
	for i, rule := range rules {
		o, err := rule.Options(baseDir, modules)
		if err != nil {
			return nil, fmt.Errorf("library %d: %w", i, err)
		}
		opts = append(opts, o)
	}
	return opts, nil
}
