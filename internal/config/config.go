package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Well-known names the bundler operates on. The target runtime only accepts
// a single TypeScript file, so these are fixed rather than configurable.
const (
	SourceExt      = ".ts"
	DeclarationExt = ".d.ts"
	IndexFile      = "index" + SourceExt
	NodeModulesDir = "node_modules"

	BundleFile = "bundle.ts"
)

// DefaultResourceSuffix matches the string-table documents that sit next to
// source files and get merged into one output document.
const DefaultResourceSuffix = "strings.json"

// Config is the build configuration for a single bundle invocation. It is
// assembled from command-line flags and, optionally, a project YAML file;
// flags win over file values. All paths are absolute after Finalize.
type Config struct {
	// Entry is the source file traversal starts from (required).
	Entry string `yaml:"entry"`

	// OutputDir receives both artifacts; created if absent (required).
	OutputDir string `yaml:"output"`

	// Root is the project root. Package-style specifiers resolve against
	// <root>/node_modules. Defaults to the working directory.
	Root string `yaml:"root"`

	// IgnoredNamespaces are import specifiers supplied by the target runtime.
	// They are never resolved to files and their import statements survive
	// stripping untouched.
	IgnoredNamespaces []string `yaml:"ignore"`

	// ResourceSuffix selects the resource documents to merge, matched against
	// the end of the file name. Defaults to DefaultResourceSuffix.
	ResourceSuffix string `yaml:"resource_suffix"`

	// ResourceInclude and ResourceExclude are glob patterns applied to
	// resource file names after the suffix match. Empty include means all.
	ResourceInclude []string `yaml:"resource_include"`
	ResourceExclude []string `yaml:"resource_exclude"`
}

// Load reads a project configuration file.
func Load(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %v: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file %v: %w", path, err)
	}
	return &c, nil
}

// Finalize validates required fields, fills in defaults and resolves all
// paths to absolute ones against the working directory.
func (c *Config) Finalize() error {
	if c.Entry == "" {
		return fmt.Errorf("entry file is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.ResourceSuffix == "" {
		c.ResourceSuffix = DefaultResourceSuffix
	}
	if c.Root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		c.Root = wd
	}

	for _, p := range []*string{&c.Entry, &c.OutputDir, &c.Root} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	return nil
}

// IgnoredSet returns the ignored namespaces as a set for exact-match lookups.
func (c *Config) IgnoredSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.IgnoredNamespaces))
	for _, ns := range c.IgnoredNamespaces {
		set[ns] = struct{}{}
	}
	return set
}
