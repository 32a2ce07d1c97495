package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Prune.Passes != 2 {
		t.Errorf("Prune.Passes = %d, want 2", cfg.Prune.Passes)
	}
	if cfg.Prune.FixedPoint {
		t.Error("Prune.FixedPoint should be false by default")
	}
	if !cfg.Prune.Strict {
		t.Error("Prune.Strict should be true by default")
	}
	if len(cfg.Prune.Keep) != 0 {
		t.Errorf("Prune.Keep = %v, want empty", cfg.Prune.Keep)
	}

	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if cfg.Output.Minify || cfg.Output.Gzip {
		t.Error("Output.Minify and Output.Gzip should be false by default")
	}

	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "jsprune.toml")

	content := `
[prune]
passes = 3
keep = ["init", "onLoad"]
strict = false

[exclude]
dirs = ["vendor", "custom_exclude"]

[cache]
enabled = false

[output]
format = "json"
minify = true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Prune.Passes)
	assert.Equal(t, []string{"init", "onLoad"}, cfg.Prune.Keep)
	assert.False(t, cfg.Prune.Strict)
	assert.Equal(t, []string{"vendor", "custom_exclude"}, cfg.Exclude.Dirs)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Minify)

	// untouched keys keep their defaults
	assert.Equal(t, 24, cfg.Cache.TTL)
	assert.True(t, cfg.Exclude.Gitignore)
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "jsprune.yaml")

	content := `
prune:
  fixed_point: true
output:
  format: markdown
  gzip: true
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.True(t, cfg.Prune.FixedPoint)
	assert.Equal(t, 2, cfg.Prune.Passes)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.True(t, cfg.Output.Gzip)
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "jsprune.json")

	content := `{
  "prune": {"passes": 4},
  "output": {"format": "toon"}
}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Prune.Passes)
	assert.Equal(t, "toon", cfg.Output.Format)
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/jsprune.toml")
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "jsprune.toml")

	require.NoError(t, os.WriteFile(configPath, []byte("[prune\ninvalid toml"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero passes", "[prune]\npasses = 0\n"},
		{"unknown format", "[output]\nformat = \"xml\"\n"},
		{"negative ttl", "[cache]\nttl = -1\n"},
		{"negative workers", "[prune]\nworkers = -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "jsprune.toml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))
			_, err := Load(configPath)
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	require.NoError(t, os.Chdir(tmpDir))

	cfg := LoadOrDefault()
	require.NotNil(t, cfg)
	assert.Equal(t, 2, cfg.Prune.Passes)
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".jsprune"), 0755))
	content := "[prune]\npasses = 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".jsprune", "jsprune.toml"), []byte(content), 0644))

	require.NoError(t, os.Chdir(tmpDir))

	cfg := LoadOrDefault()
	assert.Equal(t, 7, cfg.Prune.Passes)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/pkg/index.js", true},
		{filepath.Join("src", "dist", "bundle.js"), true},
		{".git/objects/file", true},
		{"jquery.min.js", true},
		{"widget.test.js", true},

		{"app.js", false},
		{filepath.Join("lib", "util.js"), false},
		{filepath.Join("lib", "dist_helpers.js"), false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := cfg.ShouldExclude(tt.path)
			if got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
