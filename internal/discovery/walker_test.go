package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestDiscoverRecursiveFiltersExtension(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(root, "a.jpg"))
	writeFile(t, filepath.Join(root, "b.txt"))
	writeFile(t, filepath.Join(sub, "c.JPG"))

	w := NewWalker([]string{"jpg"}, true)
	descriptors, errs := w.Discover(context.Background(), root)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors (case-insensitive extension match), got %d", len(descriptors))
	}
	for _, d := range descriptors {
		if d.Extension != "jpg" {
			t.Errorf("descriptor extension = %q, want jpg", d.Extension)
		}
		if !d.Selected {
			t.Error("expected discovered descriptors to default Selected=true")
		}
	}
}

func TestDiscoverNonRecursiveSkipsSubdirectories(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(root, "a.jpg"))
	writeFile(t, filepath.Join(sub, "b.jpg"))

	w := NewWalker(nil, false)
	descriptors, _ := w.Discover(context.Background(), root)
	if len(descriptors) != 1 {
		t.Fatalf("expected 1 descriptor from non-recursive walk, got %d", len(descriptors))
	}
	if filepath.Base(descriptors[0].AbsolutePath) != "a.jpg" {
		t.Errorf("discovered %q, want a.jpg", descriptors[0].AbsolutePath)
	}
}

func TestDiscoverEmptyExtensionSetMatchesAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"))
	writeFile(t, filepath.Join(root, "b.txt"))

	w := NewWalker(nil, true)
	descriptors, _ := w.Discover(context.Background(), root)
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descriptors))
	}
}
