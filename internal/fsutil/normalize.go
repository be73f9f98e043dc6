package fsutil

import "strings"

// NormalizeForLookup case-folds path when the target filesystem is
// case-insensitive, so it can be used as a cache/duplicate-detection
// key. Callers must have already determined insensitive via
// CaseInsensitive; this function does not probe the filesystem itself
// since it would be far too expensive to call per lookup.
func NormalizeForLookup(path string, insensitive bool) string {
	if insensitive {
		return strings.ToLower(path)
	}
	return path
}
