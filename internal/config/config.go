// Package config provides configuration management for fraglog using koanf.
// Configuration is loaded with priority: environment variables (FRAGLOG_*) >
// changelog config file (<changelog dir>/config.yml, or config.json) > defaults.
// A missing config file is not an error; defaults are used for every key.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
// Nested keys use a double underscore: FRAGLOG_UNRELEASED__HEADING.
const EnvPrefix = "FRAGLOG_"

// Config holds every option that influences how a changelog directory is
// read and rendered.
type Config struct {
	// ProjectURL is the base URL used to link issue/PR numbers
	// (e.g. https://github.com/org/repo). Empty disables issue links.
	ProjectURL string `koanf:"project_url" yaml:"project_url,omitempty" json:"project_url,omitempty"`
	// Wrap is the maximum line width for rendered entries.
	Wrap int `koanf:"wrap" yaml:"wrap" json:"wrap"`
	// Heading is the first line of the rendered document.
	Heading string `koanf:"heading" yaml:"heading" json:"heading"`
	// BulletStyle is "-" or "*".
	BulletStyle string `koanf:"bullet_style" yaml:"bullet_style" json:"bullet_style"`
	// EmptyMsg is rendered instead of any release when there are no entries.
	EmptyMsg string `koanf:"empty_msg" yaml:"empty_msg" json:"empty_msg"`
	// EmptyReleaseMsg is rendered for a release that has no entries.
	EmptyReleaseMsg string `koanf:"empty_release_msg" yaml:"empty_release_msg" json:"empty_release_msg"`

	PrologueFilename string `koanf:"prologue_filename" yaml:"prologue_filename" json:"prologue_filename"`
	EpilogueFilename string `koanf:"epilogue_filename" yaml:"epilogue_filename" json:"epilogue_filename"`

	// SortReleasesBy lists release ordering criteria, tried in order.
	// Valid values: "version", "date".
	SortReleasesBy []string `koanf:"sort_releases_by" yaml:"sort_releases_by" json:"sort_releases_by"`
	// ReleaseDateFormats are Go time layouts tried against the first line of
	// a release summary.
	ReleaseDateFormats []string `koanf:"release_date_formats" yaml:"release_date_formats" json:"release_date_formats"`

	Unreleased        UnreleasedConfig        `koanf:"unreleased" yaml:"unreleased" json:"unreleased"`
	ChangeSets        ChangeSetsConfig        `koanf:"change_sets" yaml:"change_sets" json:"change_sets"`
	ChangeSetSections ChangeSetSectionsConfig `koanf:"change_set_sections" yaml:"change_set_sections" json:"change_set_sections"`

	// Categories are the recognized category directory names, in display order.
	Categories []string `koanf:"categories" yaml:"categories" json:"categories"`

	Components ComponentsConfig `koanf:"components" yaml:"components" json:"components"`
}

// UnreleasedConfig configures the unreleased release.
type UnreleasedConfig struct {
	Folder  string `koanf:"folder" yaml:"folder" json:"folder"`
	Heading string `koanf:"heading" yaml:"heading" json:"heading"`
}

// ChangeSetsConfig configures the files that make up a change set.
type ChangeSetsConfig struct {
	SummaryFilename string `koanf:"summary_filename" yaml:"summary_filename" json:"summary_filename"`
	EntryExt        string `koanf:"entry_ext" yaml:"entry_ext" json:"entry_ext"`
}

// ChangeSetSectionsConfig configures entry ordering within a change set.
type ChangeSetSectionsConfig struct {
	// SortEntriesBy is "id" or "entry-text".
	SortEntriesBy string `koanf:"sort_entries_by" yaml:"sort_entries_by" json:"sort_entries_by"`
}

// ComponentsConfig is the component registry plus component rendering options.
type ComponentsConfig struct {
	GeneralEntriesTitle string               `koanf:"general_entries_title" yaml:"general_entries_title" json:"general_entries_title"`
	EntryIndent         int                  `koanf:"entry_indent" yaml:"entry_indent" json:"entry_indent"`
	All                 map[string]Component `koanf:"all" yaml:"all,omitempty" json:"all,omitempty"`
}

// Component is one registered sub-module of the host project.
type Component struct {
	Name string `koanf:"name" yaml:"name" json:"name"`
	// Path is relative to the project root; rendered as a relative link.
	Path string `koanf:"path" yaml:"path,omitempty" json:"path,omitempty"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Path is the config file. A relative path is resolved against ChangelogDir.
	Path string
	// ChangelogDir is the changelog directory (default: .changelog)
	ChangelogDir string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipEnv disables FRAGLOG_* overrides
	SkipEnv bool
}

// Load loads configuration for the changelog directory dir.
// Priority: Environment variables > config file > Defaults
func Load(dir string) (*Config, error) {
	return LoadWithOptions(LoadOptions{ChangelogDir: dir})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	loadDefaults(k)

	path := ResolvePath(opts.ChangelogDir, opts.Path)
	if err := loadFileConfig(k, path, getWarningWriter(opts.WarningWriter)); err != nil {
		return nil, err
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k); err != nil {
			return nil, err
		}
	}

	return finalizeConfig(k, path)
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	k := koanf.New(".")
	loadDefaults(k)
	var cfg Config
	// Defaults are static and always decode.
	_ = k.Unmarshal("", &cfg)
	return &cfg
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadFileConfig loads the config file if one exists. A YAML path that does
// not exist falls back to a sibling config.json.
func loadFileConfig(k *koanf.Koanf, path string, warningWriter io.Writer) error {
	if fileExists(path) {
		if isJSONPath(path) {
			return loadJSONConfig(k, path)
		}
		return loadYAMLConfig(k, path)
	}

	jsonPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	if !isJSONPath(path) && fileExists(jsonPath) {
		fmt.Fprintf(warningWriter, "Warning: %s not found, using %s\n", path, jsonPath)
		return loadJSONConfig(k, jsonPath)
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadJSONConfig loads a JSON config file
func loadJSONConfig(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf, path string) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed (%s): %w", path, err)
	}

	cfg.ProjectURL = strings.TrimRight(cfg.ProjectURL, "/")
	cfg.ChangeSets.EntryExt = strings.TrimPrefix(cfg.ChangeSets.EntryExt, ".")

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: FRAGLOG_UNRELEASED__HEADING -> unreleased.heading
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// HasCategory reports whether id is a configured category.
func (c *Config) HasCategory(id string) bool {
	return c.CategoryIndex(id) >= 0
}

// CategoryIndex returns the display position of the category id, or -1.
func (c *Config) CategoryIndex(id string) int {
	for i, cat := range c.Categories {
		if cat == id {
			return i
		}
	}
	return -1
}

// Component returns the registered component with the given id.
func (c *Config) Component(id string) (Component, bool) {
	comp, ok := c.Components.All[id]
	return comp, ok
}

// SortsByDate reports whether release date is one of the sort criteria.
func (c *Config) SortsByDate() bool {
	for _, s := range c.SortReleasesBy {
		if s == SortByDate {
			return true
		}
	}
	return false
}
