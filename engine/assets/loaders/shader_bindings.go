package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/lava/engine/renderer/metadata"
)

/**
 * @brief Declarative form of per-stage descriptor bindings, the TOML
 * shape of a .shadercfg file. Stands in for live SPIR-V reflection:
 * offline tooling reflects the compiled stages and emits this file.
 *
 * Example:
 *
 *	name = "world"
 *
 *	[[stage]]
 *	stage = "vertex"
 *	[[stage.binding]]
 *	slot = 0
 *	kind = "uniform_buffer"
 *
 *	[[stage]]
 *	stage = "fragment"
 *	[[stage.binding]]
 *	slot = 1
 *	kind = "combined_image_sampler"
 *	array_dims = [4]
 */
type ShaderBindingsConfig struct {
	Name   string        `toml:"name"`
	Stages []StageConfig `toml:"stage"`
}

type StageConfig struct {
	Stage    string          `toml:"stage"`
	Bindings []BindingConfig `toml:"binding"`
}

type BindingConfig struct {
	Slot      uint32   `toml:"slot"`
	Kind      string   `toml:"kind"`
	ArrayDims []uint32 `toml:"array_dims"`
}

type ShaderBindingsLoader struct{}

func (sl *ShaderBindingsLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ShaderBindingsConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("shader bindings loader: failed to parse %s: %w", path, err)
	}

	stages, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("shader bindings loader: %s: %w", path, err)
	}

	return &metadata.Resource{
		Name:     cfg.Name,
		FullPath: path,
		Data:     stages,
	}, nil
}

func (sl *ShaderBindingsLoader) Unload(*metadata.Resource) error {
	return nil
}

/** @brief Turns the declarative config into the reflection contract consumed by the binding core. */
func (cfg *ShaderBindingsConfig) Resolve() ([]metadata.ReflectedStageBindings, error) {
	stages := make([]metadata.ReflectedStageBindings, 0, len(cfg.Stages))
	for i := range cfg.Stages {
		sc := &cfg.Stages[i]
		stage, err := metadata.ShaderStageFromString(sc.Stage)
		if err != nil {
			return nil, err
		}

		bindings := make([]metadata.ReflectedBinding, 0, len(sc.Bindings))
		for j := range sc.Bindings {
			bc := &sc.Bindings[j]
			kind, err := metadata.DescriptorKindFromString(bc.Kind)
			if err != nil {
				return nil, err
			}
			bindings = append(bindings, metadata.ReflectedBinding{
				Slot:      bc.Slot,
				Kind:      kind,
				ArrayDims: bc.ArrayDims,
			})
		}
		stages = append(stages, metadata.ReflectedStageBindings{
			Stage:    stage,
			Bindings: bindings,
		})
	}
	return stages, nil
}
