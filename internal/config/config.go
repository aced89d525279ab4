// Package config loads sharpitect's configuration, modeled on the teacher's
// viper+yaml+godotenv trio.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable named or implied by spec.md.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Watch    WatchConfig    `yaml:"watch"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Serve    ServeConfig    `yaml:"serve"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig configures the Graph Repository's embedded store.
type DatabaseConfig struct {
	Path string `yaml:"path"` // default ./.sharpitect/graph.db, spec.md §6
}

// WatchConfig configures the File Change Watcher (spec.md §4.6).
type WatchConfig struct {
	DebounceMS  int      `yaml:"debounce_ms"`
	Extension   string   `yaml:"extension"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// AnalysisConfig configures extraction policy.
type AnalysisConfig struct {
	VisitLocals     bool `yaml:"visit_locals"`     // spec.md §4.1, off by default
	CascadeEnabled  bool `yaml:"cascade_enabled"`  // spec.md §4.8, on by default
}

// ServeConfig configures the `serve` tool-invocation process.
type ServeConfig struct {
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
}

// LoggingConfig configures the library-tier logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns spec-mandated defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(".sharpitect", "graph.db")},
		Watch: WatchConfig{
			DebounceMS:  500,
			Extension:   ".cs",
			ExcludeDirs: []string{"bin", "obj"},
		},
		Analysis: AnalysisConfig{
			VisitLocals:    false,
			CascadeEnabled: true,
		},
		Serve:   ServeConfig{RateLimitPerSecond: 20},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

// Load reads configuration from cfgPath (or the default
// .sharpitect/config.yaml), environment variables (SHARPITECT_* and an
// optional .env file), falling back to Default() for anything unset.
func Load(cfgPath string) (*Config, error) {
	_ = godotenv.Load() // optional local .env, ignored if absent

	v := viper.New()
	v.SetEnvPrefix("SHARPITECT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	def := Default()
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("watch.debounce_ms", def.Watch.DebounceMS)
	v.SetDefault("watch.extension", def.Watch.Extension)
	v.SetDefault("watch.exclude_dirs", def.Watch.ExcludeDirs)
	v.SetDefault("analysis.visit_locals", def.Analysis.VisitLocals)
	v.SetDefault("analysis.cascade_enabled", def.Analysis.CascadeEnabled)
	v.SetDefault("serve.rate_limit_per_second", def.Serve.RateLimitPerSecond)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.json", def.Logging.JSON)

	if cfgPath == "" {
		cfgPath = filepath.Join(".sharpitect", "config.yaml")
	}
	if _, err := os.Stat(cfgPath); err == nil {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{Path: v.GetString("database.path")},
		Watch: WatchConfig{
			DebounceMS:  v.GetInt("watch.debounce_ms"),
			Extension:   v.GetString("watch.extension"),
			ExcludeDirs: v.GetStringSlice("watch.exclude_dirs"),
		},
		Analysis: AnalysisConfig{
			VisitLocals:    v.GetBool("analysis.visit_locals"),
			CascadeEnabled: v.GetBool("analysis.cascade_enabled"),
		},
		Serve: ServeConfig{
			RateLimitPerSecond: v.GetFloat64("serve.rate_limit_per_second"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("logging.level"),
			JSON:  v.GetBool("logging.json"),
		},
	}
	return cfg, nil
}

// WriteDefaultFile marshals Default() to YAML and writes it to path,
// creating parent directories as needed, refusing to clobber an existing
// file (used by the CLI's "config init" to scaffold an editable
// .sharpitect/config.yaml, the on-disk counterpart to the viper-merged
// config Load produces).
func WriteDefaultFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
