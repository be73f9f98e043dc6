package main

import (
	"fmt"

	"rebatch/internal/config"
	"rebatch/internal/model"
)

// loadPipeline reads pipelinePath if set, otherwise falls back to a
// pass-through pipeline (a single OriginalName module, identity
// transform) so `rebatch preview` still does something useful against
// a bare directory.
func loadPipeline(pipelinePath string) (model.Pipeline, error) {
	if pipelinePath == "" {
		return model.Pipeline{
			Modules:   []model.ModuleConfig{model.OriginalNameConfig{}},
			Transform: model.NameTransformConfig{CasePolicy: model.CaseAsIs, SeparatorPolicy: model.SeparatorKeep},
		}, nil
	}

	pipeline, err := config.LoadPipelineFile(pipelinePath)
	if err != nil {
		return model.Pipeline{}, fmt.Errorf("loading pipeline %s: %w", pipelinePath, err)
	}
	return pipeline, nil
}
