// Package discovery provides a minimal filesystem-walk adapter that
// stands in for the out-of-scope GUI/scan collaborator: given a root
// directory, it produces the model.FileDescriptor set a batch operates
// over.
package discovery

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"rebatch/internal/model"
)

// Walker discovers files under a root directory, optionally filtered
// by extension and recursion depth.
//
// Grounded on whatsoevan-backupbozo's getAllFiles (files.go): a single
// filepath.WalkDir pass that accumulates non-directory entries and
// tolerates per-entry errors rather than aborting the whole walk.
type Walker struct {
	// Extensions, if non-empty, restricts discovery to these lower-cased,
	// dot-less extensions. An empty set matches everything.
	Extensions map[string]bool

	// Recursive controls whether subdirectories are descended into. When
	// false, only root's direct children are considered.
	Recursive bool
}

// NewWalker builds a Walker matching the given extensions (lower-cased,
// without a leading dot; empty means "all extensions").
func NewWalker(extensions []string, recursive bool) *Walker {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Walker{Extensions: set, Recursive: recursive}
}

// Discover walks root and returns one FileDescriptor per matching file,
// plus the set of per-entry errors encountered (stat failures,
// permission errors) that didn't abort the walk. Selected defaults to
// true for every discovered descriptor; callers narrow the working set
// afterward.
func (w *Walker) Discover(ctx context.Context, root string) ([]*model.FileDescriptor, []error) {
	var descriptors []*model.FileDescriptor
	var walkErrors []error

	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			walkErrors = append(walkErrors, pathError{path: path, cause: err})
			return nil // continue walking; one bad entry shouldn't stop discovery
		}
		if entry.IsDir() {
			if !w.Recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !w.matches(entry.Name()) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			walkErrors = append(walkErrors, pathError{path: path, cause: err})
			return nil
		}

		descriptors = append(descriptors, model.NewFileDescriptor(path, info.ModTime(), info.Size(), true))
		return nil
	})

	return descriptors, walkErrors
}

func (w *Walker) matches(name string) bool {
	if len(w.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return w.Extensions[ext]
}

type pathError struct {
	path  string
	cause error
}

func (e pathError) Error() string { return e.path + ": " + e.cause.Error() }
func (e pathError) Unwrap() error { return e.cause }
