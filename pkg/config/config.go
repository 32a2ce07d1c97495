package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for jsprune.
type Config struct {
	// Pruning behavior
	Prune PruneConfig `koanf:"prune" toml:"prune"`

	// File exclusion patterns for directory inputs
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// PruneConfig controls the pruning passes.
type PruneConfig struct {
	Passes     int      `koanf:"passes" toml:"passes"`
	FixedPoint bool     `koanf:"fixed_point" toml:"fixed_point"`
	Keep       []string `koanf:"keep" toml:"keep"`       // extern names that are always reachable
	Strict     bool     `koanf:"strict" toml:"strict"`   // reject ES3-invalid trailing commas
	Workers    int      `koanf:"workers" toml:"workers"` // parallel parsers, 0 = 2x NumCPU
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
	Minify  bool   `koanf:"minify" toml:"minify"`
	Gzip    bool   `koanf:"gzip" toml:"gzip"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Prune: PruneConfig{
			Passes: 2,
			Strict: true,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.test.js",
				"*.spec.js",
			},
			Dirs: []string{
				"node_modules",
				".git",
				".jsprune",
				"dist",
				"build",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".jsprune/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"jsprune.toml",
		"jsprune.yaml",
		"jsprune.yml",
		"jsprune.json",
		".jsprune.toml",
		".jsprune.yaml",
		".jsprune.yml",
		".jsprune.json",
	}

	searchDirs := []string{".", ".jsprune"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate checks option ranges.
func (c *Config) Validate() error {
	if c.Prune.Passes < 1 {
		return fmt.Errorf("prune.passes must be at least 1, got %d", c.Prune.Passes)
	}
	switch c.Output.Format {
	case "", "text", "json", "markdown", "toon":
	default:
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}
	if c.Prune.Workers < 0 {
		return fmt.Errorf("prune.workers must not be negative, got %d", c.Prune.Workers)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %d", c.Cache.TTL)
	}
	return nil
}

// ShouldExclude checks if a path should be excluded from a directory scan.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
