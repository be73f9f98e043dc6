package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rebatch/internal/model"
)

func TestDefaultEngineConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultEngineConfig()

	if cfg.Cache.Tier1Capacity != 1000 {
		t.Errorf("Cache.Tier1Capacity = %d, want 1000", cfg.Cache.Tier1Capacity)
	}
	if cfg.HashAlgorithm != "sha256" {
		t.Errorf("HashAlgorithm = %q, want sha256", cfg.HashAlgorithm)
	}
	if cfg.ConflictPolicy != model.ConflictAbort {
		t.Errorf("ConflictPolicy = %q, want abort", cfg.ConflictPolicy)
	}
	if cfg.SubprocessTimeout != 30*time.Second {
		t.Errorf("SubprocessTimeout = %v, want 30s", cfg.SubprocessTimeout)
	}
}

func withHome(t *testing.T, dir string) {
	t.Helper()
	old := os.Getenv("HOME")
	os.Setenv("HOME", dir)
	t.Cleanup(func() { os.Setenv("HOME", old) })
}

func TestLoaderNoFileUsesDefaults(t *testing.T) {
	withHome(t, t.TempDir())

	loader := NewLoader()
	cfg, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerCount != 0 {
		t.Errorf("WorkerCount = %d, want 0 (default)", cfg.WorkerCount)
	}
	if cfg.HashAlgorithm != "sha256" {
		t.Errorf("HashAlgorithm = %q, want default sha256", cfg.HashAlgorithm)
	}
}

func TestLoaderReadsRebatchYAML(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	content := "worker_count: 4\nhash_algorithm: sha1\nconflict_policy: auto_suffix\n"
	if err := os.WriteFile(filepath.Join(home, ".rebatch.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	loader := NewLoader()
	cfg, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("WorkerCount = %d, want 4 (from file)", cfg.WorkerCount)
	}
	if cfg.HashAlgorithm != "sha1" {
		t.Errorf("HashAlgorithm = %q, want sha1 (from file)", cfg.HashAlgorithm)
	}
	if cfg.ConflictPolicy != model.ConflictAutoSuffix {
		t.Errorf("ConflictPolicy = %q, want auto_suffix (from file)", cfg.ConflictPolicy)
	}
}

func TestLoaderEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	content := "hash_algorithm: sha1\n"
	if err := os.WriteFile(filepath.Join(home, ".rebatch.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	os.Setenv("REBATCH_HASH_ALGORITHM", "blake2b")
	t.Cleanup(func() { os.Unsetenv("REBATCH_HASH_ALGORITHM") })

	loader := NewLoader()
	cfg, err := loader.Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HashAlgorithm != "blake2b" {
		t.Errorf("HashAlgorithm = %q, want blake2b (env should override file)", cfg.HashAlgorithm)
	}
}

func TestLoaderCLIOverridesEverything(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	os.Setenv("REBATCH_HASH_ALGORITHM", "blake2b")
	t.Cleanup(func() { os.Unsetenv("REBATCH_HASH_ALGORITHM") })

	loader := NewLoader()
	cfg, err := loader.Load(map[string]any{"hash_algorithm": "sha256"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HashAlgorithm != "sha256" {
		t.Errorf("HashAlgorithm = %q, want sha256 (CLI flag should win)", cfg.HashAlgorithm)
	}
}
