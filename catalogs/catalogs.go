// Package catalogs provides the embedded library rule presets.
package catalogs

import _ "embed"

// PresetsYAML holds the built-in library rules, keyed by preset name.
//
//go:embed presets.yaml
var PresetsYAML []byte
