package metadata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEXIFExtractorCanHandle(t *testing.T) {
	extractor := &EXIFExtractor{}

	testCases := []struct {
		extension string
		expected  bool
	}{
		{"jpg", true},
		{"jpeg", true},
		{"heic", true},
		{"heif", true},
		{"png", false},
		{"mp4", false},
		{"txt", false},
	}

	for _, tc := range testCases {
		if got := extractor.CanHandle(tc.extension); got != tc.expected {
			t.Errorf("EXIF CanHandle(%s) = %v, expected %v", tc.extension, got, tc.expected)
		}
	}
}

func TestVideoExtractorCanHandle(t *testing.T) {
	extractor := &VideoExtractor{}

	testCases := []struct {
		extension string
		expected  bool
	}{
		{"mp4", true},
		{"mov", true},
		{"mkv", true},
		{"webm", true},
		{"avi", true},
		{"jpg", false},
		{"heic", false},
	}

	for _, tc := range testCases {
		if got := extractor.CanHandle(tc.extension); got != tc.expected {
			t.Errorf("Video CanHandle(%s) = %v, expected %v", tc.extension, got, tc.expected)
		}
	}
}

func TestFilesystemExtractorAlwaysHandles(t *testing.T) {
	extractor := &FilesystemExtractor{}
	for _, ext := range []string{"jpg", "heic", "mp4", "png", "txt", ""} {
		if !extractor.CanHandle(ext) {
			t.Errorf("Filesystem extractor should handle any extension, failed for %q", ext)
		}
	}
}

func TestFilesystemExtractorExtract(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test_filesystem.txt")

	testTime := time.Date(2023, 6, 15, 10, 30, 45, 0, time.UTC)
	if err := os.WriteFile(testFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := os.Chtimes(testFile, testTime, testTime); err != nil {
		t.Fatalf("failed to set file times: %v", err)
	}

	extractor := &FilesystemExtractor{}
	fields := make(map[string]string)
	candidate, err := extractor.Extract(context.Background(), testFile, Fast, fields)
	if err != nil {
		t.Fatalf("filesystem extraction should not error: %v", err)
	}
	if candidate.confidence != ConfidenceLow {
		t.Errorf("expected low confidence, got %v", candidate.confidence)
	}
	if candidate.date.Sub(testTime).Abs() > time.Second {
		t.Errorf("expected date close to %v, got %v", testTime, candidate.date)
	}
	if fields["mtime"] == "" {
		t.Error("expected mtime field to be populated")
	}
}

func TestRegistryFallsBackToFilesystem(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test_fallback.unknown")

	testTime := time.Date(2023, 4, 20, 14, 15, 30, 0, time.UTC)
	if err := os.WriteFile(testFile, []byte("unknown file type"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := os.Chtimes(testFile, testTime, testTime); err != nil {
		t.Fatalf("failed to set file times: %v", err)
	}

	registry := NewRegistry()
	entry, err := registry.Extract(context.Background(), testFile, Fast)
	if err != nil {
		t.Fatalf("registry extraction should not error for unknown file: %v", err)
	}
	if entry.Fields["date.source"] != "filesystem mtime" {
		t.Errorf("expected filesystem fallback source, got %q", entry.Fields["date.source"])
	}
	if entry.Fields["date.confidence"] != "low" {
		t.Errorf("unknown file should have low confidence, got %q", entry.Fields["date.confidence"])
	}
}

func TestEXIFExtractorInvalidFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "fake.jpg")
	if err := os.WriteFile(testFile, []byte("not a real jpeg"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	extractor := &EXIFExtractor{}
	fields := make(map[string]string)
	_, err := extractor.Extract(context.Background(), testFile, Fast, fields)
	if err == nil {
		t.Error("expected error for invalid JPEG file")
	}
}

func TestDeviceProbeSkipsKnownDevices(t *testing.T) {
	probe := NewDeviceProbe()
	path := "/photos/IMG_0001.jpg"

	if probe.SkipsExtended(path) {
		t.Error("device should not be known to skip before any observation")
	}

	probe.Observe(path, map[string]string{"exif:Make": "Apple", "exif:Model": "iPhone"})
	if !probe.SkipsExtended(path) {
		t.Error("known no-extended device should skip extended extraction")
	}

	other := "/photos/IMG_0002.jpg"
	if probe.SkipsExtended(other) {
		t.Error("skip state should be per-path, not global")
	}
}

func TestConfidenceOrdering(t *testing.T) {
	if !(ConfidenceHigh > ConfidenceMedium && ConfidenceMedium > ConfidenceLow && ConfidenceLow > ConfidenceNone) {
		t.Error("confidence levels should be strictly ordered none < low < medium < high")
	}
}
