package main

import (
	"path/filepath"
	"testing"

	"rebatch/internal/config"
	"rebatch/internal/model"
)

func TestLoadPipelineEmptyPathReturnsPassthrough(t *testing.T) {
	pipeline, err := loadPipeline("")
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if len(pipeline.Modules) != 1 {
		t.Fatalf("expected one module, got %d", len(pipeline.Modules))
	}
	if _, ok := pipeline.Modules[0].(model.OriginalNameConfig); !ok {
		t.Fatalf("expected OriginalNameConfig, got %T", pipeline.Modules[0])
	}
	if pipeline.Transform.CasePolicy != model.CaseAsIs {
		t.Fatalf("expected CaseAsIs, got %v", pipeline.Transform.CasePolicy)
	}
}

func TestLoadPipelineFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")

	want := model.Pipeline{
		Modules: []model.ModuleConfig{
			model.LiteralTextConfig{Text: "roll"},
		},
		Transform: model.NameTransformConfig{
			CasePolicy:      model.CaseLower,
			SeparatorPolicy: model.SeparatorUnderscore,
		},
	}
	if err := config.SavePipelineFile(path, want); err != nil {
		t.Fatalf("SavePipelineFile: %v", err)
	}

	got, err := loadPipeline(path)
	if err != nil {
		t.Fatalf("loadPipeline: %v", err)
	}
	if len(got.Modules) != 1 {
		t.Fatalf("expected one module, got %d", len(got.Modules))
	}
	lit, ok := got.Modules[0].(model.LiteralTextConfig)
	if !ok {
		t.Fatalf("expected LiteralTextConfig, got %T", got.Modules[0])
	}
	if lit.Text != "roll" {
		t.Fatalf("expected text %q, got %q", "roll", lit.Text)
	}
	if got.Transform.CasePolicy != model.CaseLower {
		t.Fatalf("expected CaseLower, got %v", got.Transform.CasePolicy)
	}
}

func TestLoadPipelineMissingFile(t *testing.T) {
	_, err := loadPipeline(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing pipeline file")
	}
}
