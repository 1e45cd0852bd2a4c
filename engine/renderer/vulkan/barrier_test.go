package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/renderer/metadata"
)

func TestShaderStagesToPipelineStages(t *testing.T) {
	cases := []struct {
		name   string
		stages vk.ShaderStageFlags
		want   vk.PipelineStageFlags
	}{
		{
			"vertex",
			vk.ShaderStageFlags(vk.ShaderStageVertexBit),
			vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit),
		},
		{
			"vertex and fragment",
			vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit) | vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		},
		{
			"compute",
			vk.ShaderStageFlags(vk.ShaderStageComputeBit),
			vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit),
		},
		{
			"tessellation pair",
			vk.ShaderStageFlags(vk.ShaderStageTessellationControlBit) | vk.ShaderStageFlags(vk.ShaderStageTessellationEvaluationBit),
			vk.PipelineStageFlags(vk.PipelineStageTessellationControlShaderBit) | vk.PipelineStageFlags(vk.PipelineStageTessellationEvaluationShaderBit),
		},
		{"none", 0, 0},
	}
	for _, tc := range cases {
		if got := ShaderStagesToPipelineStages(tc.stages); got != tc.want {
			t.Errorf("%s: got %#x, want %#x", tc.name, got, tc.want)
		}
	}
}

func TestDescriptorTypeToAccessFlags(t *testing.T) {
	read := vk.AccessFlags(vk.AccessShaderReadBit)
	readWrite := read | vk.AccessFlags(vk.AccessShaderWriteBit)

	if got := DescriptorTypeToAccessFlags(vk.DescriptorTypeSampledImage); got != read {
		t.Errorf("sampled image access = %#x, want shader read", got)
	}
	if got := DescriptorTypeToAccessFlags(vk.DescriptorTypeCombinedImageSampler); got != read {
		t.Errorf("combined image sampler access = %#x, want shader read", got)
	}
	if got := DescriptorTypeToAccessFlags(vk.DescriptorTypeStorageImage); got != readWrite {
		t.Errorf("storage image access = %#x, want shader read|write", got)
	}
	if got := DescriptorTypeToAccessFlags(vk.DescriptorTypeUniformBuffer); got != 0 {
		t.Errorf("uniform buffer access = %#x, want 0", got)
	}
}

func TestProcessBarriersSkipsBuffers(t *testing.T) {
	_, cache, _, pool := newTestPool(t, 2)
	transitioner := &fakeTransitioner{}
	id := registerTestShape(t, cache, vertexFragmentStages())

	set, err := pool.Allocate(id, []DescriptorBinding{uniformBufferRequest(0)}, vk.CommandBuffer(nil), BarrierModeManual)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := ProcessBarriers(transitioner, cache, set); err != nil {
		t.Fatalf("ProcessBarriers: %v", err)
	}
	if len(transitioner.transitions) != 0 {
		t.Errorf("buffer bindings should request no transitions, got %d", len(transitioner.transitions))
	}
}

func TestProcessBarriersFirstImageOnly(t *testing.T) {
	_, cache, _, pool := newTestPool(t, 2)
	transitioner := &fakeTransitioner{}
	id := registerTestShape(t, cache, vertexFragmentStages())

	request := sampledImageRequest(1, 4)
	set, err := pool.Allocate(id, []DescriptorBinding{request}, vk.CommandBuffer(nil), BarrierModeManual)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := ProcessBarriers(transitioner, cache, set); err != nil {
		t.Fatalf("ProcessBarriers: %v", err)
	}
	if len(transitioner.transitions) != 1 {
		t.Fatalf("transitions = %d, want 1 for an arrayed binding", len(transitioner.transitions))
	}

	tr := transitioner.transitions[0]
	if tr.image != request.Images()[0].Image {
		t.Errorf("transition should target the first array element's image")
	}
	if tr.pipelineStages != vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit) {
		t.Errorf("pipeline stages = %#x, want fragment shader", tr.pipelineStages)
	}
	if tr.accessFlags != vk.AccessFlags(vk.AccessShaderReadBit) {
		t.Errorf("access flags = %#x, want shader read", tr.accessFlags)
	}
	if tr.targetLayout != vk.ImageLayoutShaderReadOnlyOptimal {
		t.Errorf("target layout = %d, want shader read only optimal", tr.targetLayout)
	}
	if tr.aspectMask != vk.ImageAspectFlags(vk.ImageAspectColorBit) {
		t.Errorf("aspect mask = %#x, want color", tr.aspectMask)
	}
}

func TestProcessBarriersStorageImageAccess(t *testing.T) {
	_, cache, _, pool := newTestPool(t, 2)
	transitioner := &fakeTransitioner{}
	id := registerTestShape(t, cache, []metadata.ReflectedStageBindings{
		{
			Stage: metadata.ShaderStageCompute,
			Bindings: []metadata.ReflectedBinding{
				{Slot: 0, Kind: metadata.DescriptorKindStorageImage},
			},
		},
	})

	image := NewVulkanImage("storage-target", vk.NullImage, vk.NullImageView, vk.FormatR8g8b8a8Unorm, 16, 16)
	request := NewImageBinding(0, 0, []ImageBinding{
		{Image: image, DescriptorInfo: vk.DescriptorImageInfo{ImageLayout: vk.ImageLayoutGeneral}},
	})
	set, err := pool.Allocate(id, []DescriptorBinding{request}, vk.CommandBuffer(nil), BarrierModeManual)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := ProcessBarriers(transitioner, cache, set); err != nil {
		t.Fatalf("ProcessBarriers: %v", err)
	}
	if len(transitioner.transitions) != 1 {
		t.Fatalf("transitions = %d, want 1", len(transitioner.transitions))
	}

	tr := transitioner.transitions[0]
	if tr.pipelineStages != vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit) {
		t.Errorf("pipeline stages = %#x, want compute shader", tr.pipelineStages)
	}
	want := vk.AccessFlags(vk.AccessShaderReadBit) | vk.AccessFlags(vk.AccessShaderWriteBit)
	if tr.accessFlags != want {
		t.Errorf("access flags = %#x, want shader read|write", tr.accessFlags)
	}
	if tr.targetLayout != vk.ImageLayoutGeneral {
		t.Errorf("target layout = %d, want general", tr.targetLayout)
	}
}

func TestProcessBarriersEmptyImageListFails(t *testing.T) {
	_, cache, _, pool := newTestPool(t, 2)
	id := registerTestShape(t, cache, vertexFragmentStages())

	request := NewImageBinding(1, 0, []ImageBinding{})
	set, err := pool.Allocate(id, []DescriptorBinding{request}, vk.CommandBuffer(nil), BarrierModeManual)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := ProcessBarriers(&fakeTransitioner{}, cache, set); err == nil {
		t.Errorf("an image binding without resources should fail")
	}
}

func TestProcessBarriersDepthAspect(t *testing.T) {
	_, cache, _, pool := newTestPool(t, 2)
	transitioner := &fakeTransitioner{}
	id := registerTestShape(t, cache, []metadata.ReflectedStageBindings{
		{
			Stage: metadata.ShaderStageFragment,
			Bindings: []metadata.ReflectedBinding{
				{Slot: 0, Kind: metadata.DescriptorKindSampledImage},
			},
		},
	})

	depth := NewVulkanImage("shadow-map", vk.NullImage, vk.NullImageView, vk.FormatD32Sfloat, 1024, 1024)
	request := NewImageBinding(0, 0, []ImageBinding{
		{Image: depth, DescriptorInfo: vk.DescriptorImageInfo{ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal}},
	})
	set, err := pool.Allocate(id, []DescriptorBinding{request}, vk.CommandBuffer(nil), BarrierModeManual)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := ProcessBarriers(transitioner, cache, set); err != nil {
		t.Fatalf("ProcessBarriers: %v", err)
	}
	if got := transitioner.transitions[0].aspectMask; got != vk.ImageAspectFlags(vk.ImageAspectDepthBit) {
		t.Errorf("aspect mask = %#x, want depth", got)
	}
}
