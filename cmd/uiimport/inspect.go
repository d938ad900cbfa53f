package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/config"
	"github.com/gnana997/uiimport/pkg/naming"
	"github.com/gnana997/uiimport/pkg/pipeline"
	"github.com/gnana997/uiimport/pkg/transform"
)

func inspectCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <library|preset> [Component...]",
		Short: "Show a library rule and how component imports are rewritten",
		Long: `Print the effective rule for a configured library (or a built-in preset)
and, for each component name given, the module paths its import is rewritten
to.

Examples:
  uiimport inspect antd DatePicker Button
  uiimport inspect element-ui MessageBox`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, source, err := findRule(g, args[0])
			if err != nil {
				return err
			}
			return printRule(cmd.OutOrStdout(), rule, source, args[1:])
		},
	}
}

// findRule looks the name up among the configured libraries, then the
// presets.
func findRule(g *globalOptions, name string) (transform.Options, string, error) {
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return transform.Options{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	for _, r := range cfg.Libraries {
		expanded, err := r.Expand()
		if err != nil {
			return transform.Options{}, "", err
		}
		if expanded.LibraryName == name {
			opts, err := r.Options(cfg.BaseDir, nil)
			source := "config"
			if cfg.Path == "" {
				source = "built-in presets"
			}
			return opts, source, err
		}
	}

	opts, err := config.Rule{Preset: name}.Options("", nil)
	if err != nil {
		return transform.Options{}, "", fmt.Errorf("%s is neither a configured library nor a preset (presets: %s)",
			name, strings.Join(config.PresetNames(), ", "))
	}
	return opts, "preset " + name, nil
}

func printRule(w io.Writer, opts transform.Options, source string, components []string) error {
	headColor.Fprintf(w, "%s", opts.LibraryName)
	fmt.Fprintf(w, "  [%s]\n\n", source)

	fmt.Fprintln(w, "Rule")
	dir := opts.LibraryDirectory
	if dir == "" {
		dir = naming.DefaultLibraryDirectory
	}
	rows := [][2]string{
		{"libraryDirectory", dir},
		{"style", styleLabel(opts)},
		{"camel2DashComponentName", fmt.Sprint(opts.Camel2DashComponentName)},
		{"transformToDefaultImport", fmt.Sprint(opts.TransformToDefaultImport)},
		{"namespaceImports", opts.NamespaceImports.String()},
	}
	if opts.StyleLibraryDirectory != "" {
		rows = append(rows, [2]string{"styleLibraryDirectory", opts.StyleLibraryDirectory})
	}
	if opts.CustomName != nil {
		rows = append(rows, [2]string{"customName", "module"})
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-26s %s\n", row[0], row[1])
	}

	if len(components) == 0 {
		return nil
	}

	p, err := pipeline.New(pipeline.Config{Rules: []transform.Options{opts}}, nil)
	if err != nil {
		return err
	}
	defer p.Close()

	src := fmt.Sprintf("import { %s } from '%s';\n", strings.Join(components, ", "), opts.LibraryName)
	res, err := p.TransformSource("inspect.js", []byte(src))
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite")
	delColor.Fprintf(w, "  - %s", src)
	for _, line := range strings.SplitAfter(res.Output, "\n") {
		if line != "" {
			addColor.Fprintf(w, "  + %s", line)
		}
	}
	return nil
}

func styleLabel(opts transform.Options) string {
	switch {
	case opts.StyleFunc != nil:
		return "module"
	case opts.Style == naming.StyleNone:
		return "false"
	case opts.Style == naming.StyleCSS:
		return "css"
	default:
		return "true"
	}
}
