package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Filesystem is the `fs.*` collaborator the core consumes per spec §6:
// rename, existence checks, and case-sensitivity probing, kept behind
// an interface so the execution engine never imports "os" directly and
// tests can swap in a fake.
type Filesystem interface {
	Rename(src, dst string) error
	Exists(path string) bool
	IsCaseInsensitive(path string) (bool, error)
}

// OSFilesystem is the real, os-backed implementation used by cmd/rebatch.
type OSFilesystem struct{}

func (OSFilesystem) Rename(src, dst string) error {
	return os.Rename(src, dst)
}

func (OSFilesystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (OSFilesystem) IsCaseInsensitive(path string) (bool, error) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = parentDir(path)
	}
	return CaseInsensitive(dir)
}

func parentDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			if i == 0 {
				return path[:1]
			}
			return path[:i]
		}
	}
	return "."
}

// UniqueTempName returns a sibling path in the same directory as
// target that does not currently exist, suitable as the intermediate
// hop of a two-step rename. It uses the same directory as target so
// the final rename stays within one filesystem (required for an atomic
// os.Rename). Collisions are vanishingly unlikely (a fresh UUID per
// attempt) but are still checked to keep the guarantee absolute.
func UniqueTempName(fs Filesystem, target string) string {
	dir := parentDir(target)
	for {
		candidate := filepath.Join(dir, fmt.Sprintf(".rebatch-tmp-%s", uuid.NewString()))
		if !fs.Exists(candidate) {
			return candidate
		}
	}
}
