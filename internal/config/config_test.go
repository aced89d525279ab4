package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join(".sharpitect", "graph.db"), cfg.Database.Path)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
	assert.Equal(t, ".cs", cfg.Watch.Extension)
	assert.Equal(t, []string{"bin", "obj"}, cfg.Watch.ExcludeDirs)
	assert.False(t, cfg.Analysis.VisitLocals)
	assert.True(t, cfg.Analysis.CascadeEnabled)
	assert.Equal(t, 20.0, cfg.Serve.RateLimitPerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
}

func TestLoad_FallsBackToDefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(old)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Watch.DebounceMS, cfg.Watch.DebounceMS)
	assert.Equal(t, Default().Database.Path, cfg.Database.Path)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  path: custom/graph.db
watch:
  debounce_ms: 1000
analysis:
  visit_locals: true
`), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "custom/graph.db", cfg.Database.Path)
	assert.Equal(t, 1000, cfg.Watch.DebounceMS)
	assert.True(t, cfg.Analysis.VisitLocals)
	// Unset fields still fall back to defaults.
	assert.Equal(t, Default().Watch.Extension, cfg.Watch.Extension)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(old)

	t.Setenv("SHARPITECT_WATCH_DEBOUNCE_MS", "250")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Watch.DebounceMS)
}

func TestWriteDefaultFile_WritesLoadableYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".sharpitect", "config.yaml")

	require.NoError(t, WriteDefaultFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestWriteDefaultFile_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, WriteDefaultFile(path))

	err := WriteDefaultFile(path)
	assert.Error(t, err)
}
