// Package model holds the data shared across every rename-pipeline
// component: file descriptors, metadata/hash entries, module
// configuration, preview rows, rename operations and batches.
package model

import (
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// MetadataStatus tracks how far metadata extraction has gotten for a
// descriptor's path.
type MetadataStatus int

const (
	MetadataAbsent MetadataStatus = iota
	MetadataFast
	MetadataExtended
	MetadataFailed
)

func (s MetadataStatus) String() string {
	switch s {
	case MetadataAbsent:
		return "absent"
	case MetadataFast:
		return "fast"
	case MetadataExtended:
		return "extended"
	case MetadataFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// HashStatus tracks hash computation progress for a descriptor's path.
type HashStatus int

const (
	HashAbsent HashStatus = iota
	HashPresent
	HashFailed
)

func (s HashStatus) String() string {
	switch s {
	case HashAbsent:
		return "absent"
	case HashPresent:
		return "present"
	case HashFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileDescriptor is an immutable record for a source file, created by
// the discovery collaborator and shared by reference throughout the
// pipeline. The core never duplicates or mutates its identity fields
// (AbsolutePath, BaseName, Extension, ModifiedTime, Size); the status
// fields are updated atomically as extraction/hashing progress.
type FileDescriptor struct {
	AbsolutePath string // normalized
	BaseName     string
	Extension    string // lower-cased, without dot
	ModifiedTime time.Time
	Size         int64
	Selected     bool

	metadataStatus atomic.Int32
	hashStatus     atomic.Int32
}

// NewFileDescriptor builds a descriptor from a raw path and stat
// results. baseName/extension are derived from path; extension is
// lower-cased and has its leading dot stripped.
func NewFileDescriptor(path string, modTime time.Time, size int64, selected bool) *FileDescriptor {
	norm := NormalizePath(path)
	base := filepath.Base(norm)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(base)), ".")
	name := strings.TrimSuffix(base, filepath.Ext(base))

	fd := &FileDescriptor{
		AbsolutePath: norm,
		BaseName:     name,
		Extension:    ext,
		ModifiedTime: modTime,
		Size:         size,
		Selected:     selected,
	}
	fd.metadataStatus.Store(int32(MetadataAbsent))
	fd.hashStatus.Store(int32(HashAbsent))
	return fd
}

// MetadataStatus returns the current metadata extraction status.
func (fd *FileDescriptor) MetadataStatus() MetadataStatus {
	return MetadataStatus(fd.metadataStatus.Load())
}

// SetMetadataStatus atomically updates the metadata extraction status.
func (fd *FileDescriptor) SetMetadataStatus(s MetadataStatus) {
	fd.metadataStatus.Store(int32(s))
}

// HashStatus returns the current hash computation status.
func (fd *FileDescriptor) HashStatus() HashStatus {
	return HashStatus(fd.hashStatus.Load())
}

// SetHashStatus atomically updates the hash computation status.
func (fd *FileDescriptor) SetHashStatus(s HashStatus) {
	fd.hashStatus.Store(int32(s))
}

// Dir returns the parent directory of the descriptor's path.
func (fd *FileDescriptor) Dir() string {
	return filepath.Dir(fd.AbsolutePath)
}

// NormalizePath produces the canonical cache/lookup key for a path:
// absolute, cleaned, with platform-native separators. Case-folding is
// applied by callers that already know the target filesystem is
// case-insensitive (see fsutil.NormalizeForLookup) — this function
// never folds case on its own, since doing so unconditionally would
// break lookups on case-sensitive filesystems.
func NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Clean(abs)
}
