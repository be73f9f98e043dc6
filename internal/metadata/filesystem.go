package metadata

import (
	"context"
	"fmt"
	"os"
)

// FilesystemExtractor reports mtime as a last-resort date source — the
// teacher's FilesystemExtractor kept verbatim in spirit (lowest
// confidence, always applicable, no subprocess).
type FilesystemExtractor struct{}

func (f *FilesystemExtractor) Name() string { return "fs" }

func (f *FilesystemExtractor) CanHandle(extension string) bool { return true }

func (f *FilesystemExtractor) Extract(ctx context.Context, path string, mode Mode, fields map[string]string) (dateCandidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return dateCandidate{}, fmt.Errorf("stat %s: %w", path, err)
	}
	fields["mtime"] = info.ModTime().Format("2006-01-02T15:04:05Z07:00")
	return dateCandidate{date: info.ModTime(), confidence: ConfidenceLow, source: "filesystem mtime"}, nil
}
