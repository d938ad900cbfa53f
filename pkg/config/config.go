// Package config loads the project configuration: the library rules to
// apply, file discovery patterns and the pipeline and logger settings.
//
// The configuration is resolved with a fallback chain:
//  1. An explicit path (the --config flag)
//  2. .uiimport/config.yaml in the current directory
//  3. The built-in presets
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/uiimport/pkg/pipeline"
	"github.com/gnana997/uiimport/pkg/transform"
	"github.com/gnana997/uiimport/pkg/util"
)

const (
	// Dir is the project configuration directory.
	Dir = ".uiimport"

	// DefaultPath is the project configuration file.
	DefaultPath = Dir + "/config.yaml"

	// DefaultCacheSize bounds the result cache when the file does not set
	// cache_size.
	DefaultCacheSize = 1024
)

// ErrNoLibraries is returned when a configuration names no library rules.
var ErrNoLibraries = errors.New("no libraries configured")

// Config holds the contents of .uiimport/config.yaml.
type Config struct {
	Version   string   `yaml:"version,omitempty"`
	Libraries []Rule   `yaml:"libraries"`
	Include   []string `yaml:"include,omitempty"`
	Exclude   []string `yaml:"exclude,omitempty"`

	// CacheSize bounds the result cache. 0 disables it.
	CacheSize int  `yaml:"cache_size"`
	Workers   int  `yaml:"workers,omitempty"`
	Verify    bool `yaml:"verify,omitempty"`

	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`

	// Path is the file the configuration was read from. Empty for the
	// built-in default.
	Path string `yaml:"-"`

	// BaseDir resolves relative module paths: the project root for a file
	// under .uiimport/, otherwise the file's directory.
	BaseDir string `yaml:"-"`
}

// Default returns a configuration applying every embedded preset.
func Default() (*Config, error) {
	names := PresetNames()
	if len(names) == 0 {
		_, err := Presets()
		return nil, fmt.Errorf("no presets available: %w", err)
	}
	cfg := &Config{CacheSize: DefaultCacheSize}
	for _, name := range names {
		cfg.Libraries = append(cfg.Libraries, Rule{Preset: name})
	}
	return cfg, nil
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user configuration
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes YAML read from path.
func Parse(data []byte, path string) (*Config, error) {
	cfg := &Config{CacheSize: DefaultCacheSize}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(cfg.Libraries) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLibraries)
	}

	cfg.Path = path
	dir := filepath.Dir(path)
	if filepath.Base(dir) == Dir {
		dir = filepath.Dir(dir)
	}
	cfg.BaseDir = dir
	return cfg, nil
}

// Resolve applies the fallback chain. A missing explicit file is an error; a
// missing .uiimport/config.yaml is not.
func Resolve(flagValue string) (*Config, error) {
	if flagValue != "" {
		return Load(flagValue)
	}
	cfg, err := Load(DefaultPath)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return Default()
}

// Options converts the library rules into engine options.
func (c *Config) Options() ([]transform.Options, error) {
	return RuleOptions(c.Libraries, c.BaseDir)
}

// PipelineConfig builds the pipeline configuration. rules overrides the
// configured libraries when non-empty.
func (c *Config) PipelineConfig(rules []transform.Options) (pipeline.Config, error) {
	if len(rules) == 0 {
		var err error
		if rules, err = c.Options(); err != nil {
			return pipeline.Config{}, err
		}
	}
	return pipeline.Config{
		Rules:     rules,
		Verify:    c.Verify,
		CacheSize: c.CacheSize,
		Workers:   c.Workers,
	}, nil
}

// DiscoverOptions returns the file discovery patterns. An empty exclude list
// selects pipeline.DefaultExclude.
func (c *Config) DiscoverOptions() pipeline.DiscoverOptions {
	exclude := c.Exclude
	if len(exclude) == 0 {
		exclude = pipeline.DefaultExclude
	}
	return pipeline.DiscoverOptions{Include: c.Include, Exclude: exclude}
}

// LoggerConfig returns the logger settings. Non-empty level and format
// arguments (from flags) override the file.
func (c *Config) LoggerConfig(level, format string, out io.Writer) (util.LoggerConfig, error) {
	cfg := util.DefaultLoggerConfig()
	if out != nil {
		cfg.Output = out
	}

	if level == "" {
		level = c.LogLevel
	}
	if level != "" {
		l, err := util.ParseLogLevel(level)
		if err != nil {
			return cfg, err
		}
		cfg.Level = l
	}

	if format == "" {
		format = c.LogFormat
	}
	if format != "" {
		f, err := util.ParseLogFormat(format)
		if err != nil {
			return cfg, err
		}
		cfg.Format = f
	}
	return cfg, nil
}

// Write saves c as YAML to path, creating the parent directory.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // G306: config is not secret
}
