package main

import (
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	root := "/data/photos"
	if got, want := defaultCachePath(root), filepath.Join(root, ".rebatch-cache.db"); got != want {
		t.Errorf("defaultCachePath() = %q, want %q", got, want)
	}
	if got, want := defaultHistoryPath(root), filepath.Join(root, ".rebatch-history.db"); got != want {
		t.Errorf("defaultHistoryPath() = %q, want %q", got, want)
	}
}

func TestNewHistoryPruneCommandFlagDefaults(t *testing.T) {
	cmd := newHistoryPruneCommand()

	olderThan := cmd.Flags().Lookup("older-than-days")
	if olderThan == nil || olderThan.DefValue != "90" {
		t.Errorf("older-than-days default = %v, want 90", olderThan)
	}
	keepLast := cmd.Flags().Lookup("keep-last")
	if keepLast == nil || keepLast.DefValue != "10" {
		t.Errorf("keep-last default = %v, want 10", keepLast)
	}
}

func TestNewHistoryCommandHasSubcommands(t *testing.T) {
	cmd := newHistoryCommand()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	if !names["list"] || !names["prune"] {
		t.Errorf("expected list and prune subcommands, got %v", names)
	}
}
