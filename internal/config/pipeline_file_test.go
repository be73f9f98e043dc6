package config

import (
	"path/filepath"
	"testing"

	"rebatch/internal/model"
)

func TestDecodePipelineRoundTrip(t *testing.T) {
	original := model.Pipeline{
		Modules: []model.ModuleConfig{
			model.CounterConfig{Start: 1, Step: 1, PadWidth: 3, Scope: model.ScopePerFolder},
			model.LiteralTextConfig{Text: " - "},
			model.OriginalNameConfig{Greeklish: true},
		},
		Transform: model.NameTransformConfig{
			CasePolicy:      model.CaseLower,
			SeparatorPolicy: model.SeparatorUnderscore,
			Trim:            true,
		},
	}

	data, err := EncodePipeline(original)
	if err != nil {
		t.Fatalf("EncodePipeline: %v", err)
	}

	decoded, err := DecodePipeline(data)
	if err != nil {
		t.Fatalf("DecodePipeline: %v\n%s", err, data)
	}

	if len(decoded.Modules) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(decoded.Modules))
	}
	counter, ok := decoded.Modules[0].(model.CounterConfig)
	if !ok {
		t.Fatalf("module 0 decoded as %T, want CounterConfig", decoded.Modules[0])
	}
	if counter.PadWidth != 3 || counter.Scope != model.ScopePerFolder {
		t.Errorf("counter config = %+v, want PadWidth=3 Scope=per_folder", counter)
	}

	literal, ok := decoded.Modules[1].(model.LiteralTextConfig)
	if !ok || literal.Text != " - " {
		t.Errorf("module 1 = %+v, want LiteralTextConfig{Text: \" - \"}", decoded.Modules[1])
	}

	name, ok := decoded.Modules[2].(model.OriginalNameConfig)
	if !ok || !name.Greeklish {
		t.Errorf("module 2 = %+v, want OriginalNameConfig{Greeklish: true}", decoded.Modules[2])
	}

	if decoded.Transform != original.Transform {
		t.Errorf("Transform = %+v, want %+v", decoded.Transform, original.Transform)
	}
}

func TestDecodePipelineRejectsTransformInModules(t *testing.T) {
	yamlDoc := `
modules:
  - kind: name_transform
    case_policy: lower
transform:
  case_policy: lower
`
	if _, err := DecodePipeline([]byte(yamlDoc)); err == nil {
		t.Error("expected an error when name_transform appears as a modules entry")
	}
}

func TestDecodePipelineRejectsUnknownKind(t *testing.T) {
	yamlDoc := `
modules:
  - kind: does_not_exist
transform:
  case_policy: as_is
`
	if _, err := DecodePipeline([]byte(yamlDoc)); err == nil {
		t.Error("expected an error for an unrecognized module kind")
	}
}

func TestSavePipelineFileAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".rebatch.yaml")

	pipeline := model.Pipeline{
		Modules: []model.ModuleConfig{
			model.MetadataConfig{
				FieldKey:   "date_taken",
				DateFormat: "2006-01-02",
				Fallback:   model.FallbackPolicy{UseFallback: true, FallbackText: "unknown"},
			},
			model.RemoveTextConfig{Pattern: "_old", UseRegex: false},
		},
		Transform: model.NameTransformConfig{CasePolicy: model.CaseTitle, SeparatorPolicy: model.SeparatorDash},
	}

	if err := SavePipelineFile(path, pipeline); err != nil {
		t.Fatalf("SavePipelineFile: %v", err)
	}

	loaded, err := LoadPipelineFile(path)
	if err != nil {
		t.Fatalf("LoadPipelineFile: %v", err)
	}
	if len(loaded.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(loaded.Modules))
	}
	meta, ok := loaded.Modules[0].(model.MetadataConfig)
	if !ok || meta.FieldKey != "date_taken" || meta.DateFormat != "2006-01-02" {
		t.Errorf("module 0 = %+v, want metadata config for date_taken", loaded.Modules[0])
	}
	if !meta.Fallback.UseFallback || meta.Fallback.FallbackText != "unknown" {
		t.Errorf("fallback = %+v, want UseFallback=true FallbackText=unknown", meta.Fallback)
	}
}
