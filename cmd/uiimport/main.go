// Package main provides the uiimport CLI entry point.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/config"
	"github.com/gnana997/uiimport/pkg/pipeline"
	"github.com/gnana997/uiimport/pkg/transform"
	"github.com/gnana997/uiimport/pkg/util"
)

const version = "0.1.0-dev"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitChanged = 2
)

// errWouldChange is returned by transform --check when a file would be
// rewritten.
var errWouldChange = errors.New("files would be rewritten")

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errWouldChange):
		return exitChanged
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "uiimport",
		Short: "Rewrite UI component library imports into per-component imports",
		Long: `uiimport rewrites whole-library imports of UI component libraries

  import { Button, DatePicker } from 'antd';

into one import per component plus its stylesheet

  import Button from 'antd/lib/button';
  import 'antd/lib/button/style';

so bundlers only ship the components a module uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if g.noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "config file (default is "+config.DefaultPath+", then built-in presets)")
	flags.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&g.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		transformCmd(g),
		scanCmd(g),
		watchCmd(g),
		serveCmd(g),
		presetsCmd(),
		inspectCmd(g),
		initCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uiimport %s\n", version)
		},
	}
}

// env is the state shared by the commands that run the pipeline.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
}

// load resolves the configuration and builds the logger and pipeline. rules
// replaces the configured libraries when non-empty.
func (g *globalOptions) load(cmd *cobra.Command, rules []transform.Options) (*env, error) {
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lc, err := cfg.LoggerConfig(g.logLevel, g.logFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger := util.NewLogger(lc)
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path, "libraries", len(cfg.Libraries))
	}

	pc, err := cfg.PipelineConfig(rules)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(pc, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, pipeline: p}, nil
}

func (e *env) Close() error {
	return e.pipeline.Close()
}

// parseOptionsFlag decodes an --options value: a JSON rule document, or
// @path to read one from a file.
func parseOptionsFlag(value string) ([]transform.Options, error) {
	if value == "" {
		return nil, nil
	}
	data := []byte(value)
	baseDir := "."
	if value[0] == '@' {
		path := value[1:]
		var err error
		if data, err = os.ReadFile(path); err != nil { //nolint:gosec // G304: path is a user flag
			return nil, fmt.Errorf("failed to read options: %w", err)
		}
		baseDir = filepath.Dir(path)
	}
	rules, err := config.ParseRules(data)
	if err != nil {
		return nil, err
	}
	return config.RuleOptions(rules, baseDir)
}

// displayPath shortens absolute paths below the working directory.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || filepath.IsAbs(rel) || len(rel) >= 2 && rel[:2] == ".." {
		return path
	}
	return rel
}
