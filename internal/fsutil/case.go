// Package fsutil provides the filesystem-facing collaborators the core
// consumes: case-(in)sensitivity probing, path normalization for the
// cache key, and the unique temp names the execution engine's two-step
// rename (case-only changes and cycle-breaking) goes through.
package fsutil

import (
	"os"
	"strings"
)

// CaseInsensitive determines whether the filesystem containing root is
// case insensitive. It says nothing about case preservation (all
// modern filesystems preserve case); if an error is returned the
// determination could not be made and its value should be ignored.
//
// Grounded on mutagen-io/mutagen's filesystem.CaseInsensitive: create a
// uniquely-named temporary file, then probe for it under a
// case-flipped name. If the flipped name resolves, the filesystem
// folds case.
func CaseInsensitive(root string) (bool, error) {
	return insensitiveTo(root, "rebatch_case_probe", "REBATCH_CASE_PROBE")
}

func insensitiveTo(root, create, check string) (bool, error) {
	file, err := os.CreateTemp(root, create)
	if err != nil {
		return false, err
	}
	name := file.Name()
	defer os.Remove(name)
	defer file.Close()

	flipped := strings.Replace(name, create, check, 1)
	if _, err := os.Stat(flipped); err == nil {
		return true, nil
	}
	return false, nil
}
