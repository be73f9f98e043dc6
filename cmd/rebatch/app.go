// Command rebatch is the CLI binding for the rename engine: preview,
// execute, undo, and history maintenance, wiring internal/discovery,
// internal/metadata, internal/preview, internal/execution, and
// internal/history behind cobra subcommands.
package main

import (
	"fmt"
	"path/filepath"

	"rebatch/internal/cache"
	"rebatch/internal/config"
	"rebatch/internal/discovery"
	"rebatch/internal/execution"
	"rebatch/internal/fsutil"
	"rebatch/internal/history"
	"rebatch/internal/logging"
	"rebatch/internal/metadata"
	"rebatch/internal/model"
	"rebatch/internal/preview"
)

// app bundles the collaborators every subcommand needs, built by newApp
// inside each subcommand's RunE from the layered engine config.
type app struct {
	cfg     config.EngineConfig
	log     *logging.Logger
	store   *cache.Store
	fs      fsutil.Filesystem
	engine  *execution.Engine
	loader  *metadata.Loader
	preview *preview.Engine
	history history.Store
	walker  *discovery.Walker
}

func newApp(cacheDBPath, historyDBPath string, extensions []string, recursive bool, cliOverrides map[string]any) (*app, error) {
	loader := config.NewLoader()
	cfg, err := loader.Load(cliOverrides)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logging.New(cfg.LogLevel)

	store, err := cache.Open(cacheDBPath, cache.Options{
		MetadataCapacity: cfg.Cache.Tier1Capacity,
		HashCapacity:     cfg.Cache.Tier2Capacity,
		Algorithm:        model.HashAlgorithm(cfg.HashAlgorithm),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("opening cache store at %s: %w", cacheDBPath, err)
	}

	histStore, err := history.OpenSQLiteStore(historyDBPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening history store at %s: %w", historyDBPath, err)
	}

	fs := fsutil.OSFilesystem{}
	engine := execution.NewEngine(fs, store, log, cfg.ConflictPolicy, cfg.Atomic)
	engine.Workers = cfg.WorkerCount

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		fs:      fs,
		engine:  engine,
		loader:  metadata.NewLoader(store, log),
		preview: preview.NewEngine(store, fs, fsutil.CurrentPlatform()),
		history: histStore,
		walker:  discovery.NewWalker(extensions, recursive),
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
}

func defaultCachePath(root string) string {
	return filepath.Join(root, ".rebatch-cache.db")
}

func defaultHistoryPath(root string) string {
	return filepath.Join(root, ".rebatch-history.db")
}
