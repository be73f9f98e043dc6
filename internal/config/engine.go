// Package config layers engine-level tuning (cache capacities, worker
// counts, hash algorithm, conflict policy, subprocess timeout) from
// flags, environment, and an optional ~/.rebatch.yaml, and separately
// provides a YAML codec for authoring a reusable Pipeline
// (pipeline_file.go). Neither concern touches the out-of-scope GUI
// settings-persistence collaborator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"rebatch/internal/model"
)

// EngineConfig is the full set of engine-level knobs, independent of
// any one pipeline or batch.
type EngineConfig struct {
	Cache struct {
		Tier1Capacity int `mapstructure:"tier1_capacity"`
		Tier2Capacity int `mapstructure:"tier2_capacity"`
	} `mapstructure:"cache"`

	WorkerCount int `mapstructure:"worker_count"`

	HashAlgorithm string `mapstructure:"hash_algorithm"`

	// SubprocessTimeout is decoded but not passed to the metadata
	// extractors, which use their own fixed 30s timeout
	// (metadata.NewRegistry).
	SubprocessTimeout time.Duration `mapstructure:"subprocess_timeout"`

	ConflictPolicy model.ConflictPolicy `mapstructure:"conflict_policy"`

	Atomic bool `mapstructure:"atomic"`

	LogLevel string `mapstructure:"log_level"`
}

// DefaultEngineConfig returns the configuration used when no file, env
// var, or flag overrides a given field.
func DefaultEngineConfig() EngineConfig {
	var cfg EngineConfig
	cfg.Cache.Tier1Capacity = 1000
	cfg.Cache.Tier2Capacity = 2000
	cfg.WorkerCount = 0 // 0 means "derive from runtime.NumCPU at construction"
	cfg.HashAlgorithm = "sha256"
	cfg.SubprocessTimeout = 30 * time.Second
	cfg.ConflictPolicy = model.ConflictAbort
	cfg.Atomic = false
	cfg.LogLevel = "info"
	return cfg
}

// Loader resolves EngineConfig from, in increasing precedence: built-in
// defaults, ~/.rebatch.yaml, REBATCH_*-prefixed environment variables,
// then CLI flag overrides applied explicitly by the caller.
//
// Grounded on quantmind-br-gendocs/internal/config's Loader: a single
// *viper.Viper instance with AutomaticEnv, a dotted-key env replacer,
// and a mapstructure decode into a typed struct rather than repeated
// v.GetString/v.GetInt calls scattered through callers.
type Loader struct {
	v *viper.Viper
}

// NewLoader builds a Loader with defaults pre-populated and
// REBATCH_-prefixed environment variables enabled.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("REBATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(dotUnderscoreReplacer())

	applyDefaults(v)

	return &Loader{v: v}
}

// Load reads ~/.rebatch.yaml if present, merges environment overrides
// (already automatic via viper), applies cliOverrides as the final,
// highest-precedence layer, and decodes into an EngineConfig.
func (l *Loader) Load(cliOverrides map[string]any) (EngineConfig, error) {
	if path := rebatchConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			l.v.SetConfigFile(path)
			if err := l.v.MergeInConfig(); err != nil {
				return EngineConfig{}, fmt.Errorf("reading %s: %w", path, err)
			}
		}
	}

	for key, value := range cliOverrides {
		l.v.Set(key, value)
	}

	cfg := DefaultEngineConfig()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("decoding engine config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	d := DefaultEngineConfig()
	v.SetDefault("cache.tier1_capacity", d.Cache.Tier1Capacity)
	v.SetDefault("cache.tier2_capacity", d.Cache.Tier2Capacity)
	v.SetDefault("worker_count", d.WorkerCount)
	v.SetDefault("hash_algorithm", d.HashAlgorithm)
	v.SetDefault("subprocess_timeout", d.SubprocessTimeout)
	v.SetDefault("conflict_policy", string(d.ConflictPolicy))
	v.SetDefault("atomic", d.Atomic)
	v.SetDefault("log_level", d.LogLevel)
}

// rebatchConfigPath returns ~/.rebatch.yaml, or "" if the home
// directory can't be resolved.
func rebatchConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rebatch.yaml")
}
