package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/lava/engine/renderer/metadata"
)

const worldShaderConfig = `
name = "world"

[[stage]]
stage = "vertex"
[[stage.binding]]
slot = 0
kind = "uniform_buffer"

[[stage]]
stage = "fragment"
[[stage.binding]]
slot = 0
kind = "uniform_buffer"
[[stage.binding]]
slot = 1
kind = "combined_image_sampler"
array_dims = [4]
`

func writeShaderConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.shadercfg")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestShaderBindingsLoaderLoad(t *testing.T) {
	path := writeShaderConfig(t, worldShaderConfig)

	loader := &ShaderBindingsLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypeShaderBindings, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resource.Name != "world" {
		t.Errorf("resource name = %q, want %q", resource.Name, "world")
	}

	stages, ok := resource.Data.([]metadata.ReflectedStageBindings)
	if !ok {
		t.Fatalf("resource data has type %T, want []metadata.ReflectedStageBindings", resource.Data)
	}
	if len(stages) != 2 {
		t.Fatalf("stages = %d, want 2", len(stages))
	}

	vertex := stages[0]
	if vertex.Stage != metadata.ShaderStageVertex {
		t.Errorf("first stage = %d, want vertex", vertex.Stage)
	}
	if len(vertex.Bindings) != 1 || vertex.Bindings[0].Kind != metadata.DescriptorKindUniformBuffer {
		t.Errorf("vertex stage bindings = %+v, want one uniform buffer at slot 0", vertex.Bindings)
	}

	fragment := stages[1]
	if fragment.Stage != metadata.ShaderStageFragment {
		t.Errorf("second stage = %d, want fragment", fragment.Stage)
	}
	if len(fragment.Bindings) != 2 {
		t.Fatalf("fragment bindings = %d, want 2", len(fragment.Bindings))
	}
	cis := fragment.Bindings[1]
	if cis.Slot != 1 || cis.Kind != metadata.DescriptorKindCombinedImageSampler {
		t.Errorf("fragment binding 1 = %+v, want combined image sampler at slot 1", cis)
	}
	if got := cis.ElementCount(); got != 4 {
		t.Errorf("fragment binding 1 element count = %d, want 4", got)
	}
}

func TestShaderBindingsLoaderRejectsUnknownStage(t *testing.T) {
	path := writeShaderConfig(t, `
name = "broken"

[[stage]]
stage = "raygen"
[[stage.binding]]
slot = 0
kind = "uniform_buffer"
`)

	loader := &ShaderBindingsLoader{}
	if _, err := loader.Load(path, metadata.ResourceTypeShaderBindings, nil); err == nil {
		t.Errorf("unknown stage name should fail")
	}
}

func TestShaderBindingsLoaderRejectsUnknownKind(t *testing.T) {
	path := writeShaderConfig(t, `
name = "broken"

[[stage]]
stage = "fragment"
[[stage.binding]]
slot = 0
kind = "acceleration_structure"
`)

	loader := &ShaderBindingsLoader{}
	if _, err := loader.Load(path, metadata.ResourceTypeShaderBindings, nil); err == nil {
		t.Errorf("unknown descriptor kind should fail")
	}
}

func TestShaderBindingsLoaderRejectsMalformedTOML(t *testing.T) {
	path := writeShaderConfig(t, `name = "world`)

	loader := &ShaderBindingsLoader{}
	if _, err := loader.Load(path, metadata.ResourceTypeShaderBindings, nil); err == nil {
		t.Errorf("malformed TOML should fail")
	}
}

func TestShaderBindingsLoaderMissingFile(t *testing.T) {
	loader := &ShaderBindingsLoader{}
	if _, err := loader.Load(filepath.Join(t.TempDir(), "nope.shadercfg"), metadata.ResourceTypeShaderBindings, nil); err == nil {
		t.Errorf("missing file should fail")
	}
}
