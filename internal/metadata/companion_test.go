package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"rebatch/internal/model"
)

func TestDiscoverCompanionsSubtitle(t *testing.T) {
	dir := t.TempDir()
	principal := filepath.Join(dir, "clip.mp4")
	sidecar := filepath.Join(dir, "clip.srt")

	if err := os.WriteFile(principal, []byte("video"), 0644); err != nil {
		t.Fatalf("write principal: %v", err)
	}
	if err := os.WriteFile(sidecar, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n"), 0644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	companions, err := DiscoverCompanions(principal)
	if err != nil {
		t.Fatalf("DiscoverCompanions: %v", err)
	}
	if len(companions) != 1 {
		t.Fatalf("expected 1 companion, got %d", len(companions))
	}
	if companions[0].Path != sidecar {
		t.Errorf("expected companion %s, got %s", sidecar, companions[0].Path)
	}
}

func TestDiscoverCompanionsCameraXML(t *testing.T) {
	dir := t.TempDir()
	principal := filepath.Join(dir, "clip.mp4")
	xmlFile := filepath.Join(dir, "clipM01.XML")
	unrelatedXML := filepath.Join(dir, "clip.xml")

	xmlContent := `<?xml version="1.0"?><NonRealTimeMeta><Device Make="ACME"/></NonRealTimeMeta>`

	if err := os.WriteFile(principal, []byte("video"), 0644); err != nil {
		t.Fatalf("write principal: %v", err)
	}
	if err := os.WriteFile(xmlFile, []byte(xmlContent), 0644); err != nil {
		t.Fatalf("write camera xml: %v", err)
	}
	if err := os.WriteFile(unrelatedXML, []byte(`<?xml version="1.0"?><Unrelated/>`), 0644); err != nil {
		t.Fatalf("write unrelated xml: %v", err)
	}

	companions, err := DiscoverCompanions(principal)
	if err != nil {
		t.Fatalf("DiscoverCompanions: %v", err)
	}
	if len(companions) != 1 {
		t.Fatalf("expected exactly 1 recognized companion, got %d", len(companions))
	}
	if companions[0].Path != xmlFile {
		t.Errorf("expected camera xml companion %s, got %s", xmlFile, companions[0].Path)
	}
}

func TestMergeCompanionNamespacesFields(t *testing.T) {
	dir := t.TempDir()
	xmlFile := filepath.Join(dir, "clipM01.XML")
	xmlContent := `<?xml version="1.0"?><NonRealTimeMeta><Device Make="ACME">Handycam</Device></NonRealTimeMeta>`
	if err := os.WriteFile(xmlFile, []byte(xmlContent), 0644); err != nil {
		t.Fatalf("write camera xml: %v", err)
	}

	principal := &model.MetadataEntry{Fields: map[string]string{}}
	if err := MergeCompanion(principal, Companion{Path: xmlFile, Suffix: "M01"}); err != nil {
		t.Fatalf("MergeCompanion: %v", err)
	}

	found := false
	for k := range principal.Fields {
		if filepath.Base(xmlFile) != "" && len(k) > 0 && k[:len("companion:")] == "companion:" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected namespaced companion fields, got %v", principal.Fields)
	}
}
