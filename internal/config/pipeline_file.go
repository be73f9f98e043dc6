package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rebatch/internal/model"
)

// pipelineFile is the on-disk shape of a .rebatch.yaml pipeline: a
// discriminated union list (one "kind" key per module) that
// model.Pipeline itself can't carry directly since its Modules field is
// a polymorphic interface slice tagged yaml:"-".
//
// Grounded on jra3-linear-fuse/internal/config's plain-struct-plus-
// yaml.v3 approach; the discriminated-union decode (kind -> concrete
// ModuleConfig) has no teacher precedent in that file, so it's built
// directly against model.ModuleKind's closed set.
type pipelineFile struct {
	Modules   []yaml.Node               `yaml:"modules"`
	Transform model.NameTransformConfig `yaml:"transform"`
}

type moduleKindProbe struct {
	Kind model.ModuleKind `yaml:"kind"`
}

// LoadPipelineFile reads a Pipeline from a YAML file a CLI user authors
// by hand, standing in for the GUI's module-list editor.
func LoadPipelineFile(path string) (model.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Pipeline{}, fmt.Errorf("reading pipeline file %s: %w", path, err)
	}
	return DecodePipeline(data)
}

// DecodePipeline parses a pipeline YAML document from raw bytes.
func DecodePipeline(data []byte) (model.Pipeline, error) {
	var raw pipelineFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return model.Pipeline{}, fmt.Errorf("parsing pipeline: %w", err)
	}

	modules := make([]model.ModuleConfig, 0, len(raw.Modules))
	for i, node := range raw.Modules {
		module, err := decodeModule(node)
		if err != nil {
			return model.Pipeline{}, fmt.Errorf("module %d: %w", i, err)
		}
		modules = append(modules, module)
	}

	pipeline := model.Pipeline{Modules: modules, Transform: raw.Transform}
	if err := pipeline.Validate(); err != nil {
		return model.Pipeline{}, err
	}
	return pipeline, nil
}

func decodeModule(node yaml.Node) (model.ModuleConfig, error) {
	var probe moduleKindProbe
	if err := node.Decode(&probe); err != nil {
		return nil, fmt.Errorf("reading kind: %w", err)
	}

	switch probe.Kind {
	case model.KindCounter:
		var cfg model.CounterConfig
		return cfg, node.Decode(&cfg)
	case model.KindMetadata:
		var cfg model.MetadataConfig
		return cfg, node.Decode(&cfg)
	case model.KindLiteralText:
		var cfg model.LiteralTextConfig
		return cfg, node.Decode(&cfg)
	case model.KindOriginalName:
		var cfg model.OriginalNameConfig
		return cfg, node.Decode(&cfg)
	case model.KindRemoveText:
		var cfg model.RemoveTextConfig
		return cfg, node.Decode(&cfg)
	case model.KindNameTransform:
		return nil, fmt.Errorf("name_transform must be the pipeline's top-level transform key, not a modules entry")
	default:
		return nil, fmt.Errorf("unrecognized module kind %q", probe.Kind)
	}
}

// SavePipelineFile writes pipeline to path as YAML, round-tripping
// through the same discriminated-union shape LoadPipelineFile reads.
func SavePipelineFile(path string, pipeline model.Pipeline) error {
	data, err := EncodePipeline(pipeline)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// EncodePipeline serializes pipeline to its YAML document form.
func EncodePipeline(pipeline model.Pipeline) ([]byte, error) {
	raw := pipelineFile{Transform: pipeline.Transform}
	for i, module := range pipeline.Modules {
		node, err := encodeModule(module)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		raw.Modules = append(raw.Modules, node)
	}
	return yaml.Marshal(raw)
}

func encodeModule(module model.ModuleConfig) (yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(module); err != nil {
		return yaml.Node{}, err
	}
	kindNode := yaml.Node{}
	if err := kindNode.Encode(module.Kind()); err != nil {
		return yaml.Node{}, err
	}
	node.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "kind"},
		&kindNode,
	}, node.Content...)
	return node, nil
}
