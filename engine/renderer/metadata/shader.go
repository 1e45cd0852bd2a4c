package metadata

import (
	"fmt"
	"strings"
)

/** @brief Shader stages available in the system. Values match the Vulkan stage bits. */
type ShaderStage uint32

const (
	ShaderStageVertex                 ShaderStage = 0x00000001
	ShaderStageTessellationControl    ShaderStage = 0x00000002
	ShaderStageTessellationEvaluation ShaderStage = 0x00000004
	ShaderStageGeometry               ShaderStage = 0x00000008
	ShaderStageFragment               ShaderStage = 0x00000010
	ShaderStageCompute                ShaderStage = 0x00000020
)

func ShaderStageFromString(s string) (ShaderStage, error) {
	switch strings.ToLower(s) {
	case "vertex", "vert":
		return ShaderStageVertex, nil
	case "tessellation_control", "tesc":
		return ShaderStageTessellationControl, nil
	case "tessellation_evaluation", "tese":
		return ShaderStageTessellationEvaluation, nil
	case "geometry", "geom":
		return ShaderStageGeometry, nil
	case "fragment", "frag":
		return ShaderStageFragment, nil
	case "compute", "comp":
		return ShaderStageCompute, nil
	}
	return 0, fmt.Errorf("string %s is not a valid ShaderStage", s)
}

/** @brief The closed set of descriptor resource types understood by the binding core. */
type DescriptorKind uint32

const (
	DescriptorKindSampler              DescriptorKind = 0
	DescriptorKindCombinedImageSampler DescriptorKind = 1
	DescriptorKindSampledImage         DescriptorKind = 2
	DescriptorKindStorageImage         DescriptorKind = 3
	DescriptorKindUniformBuffer        DescriptorKind = 6
	DescriptorKindStorageBuffer        DescriptorKind = 7
)

func DescriptorKindFromString(s string) (DescriptorKind, error) {
	switch strings.ToLower(s) {
	case "sampler":
		return DescriptorKindSampler, nil
	case "combined_image_sampler":
		return DescriptorKindCombinedImageSampler, nil
	case "sampled_image":
		return DescriptorKindSampledImage, nil
	case "storage_image":
		return DescriptorKindStorageImage, nil
	case "uniform_buffer":
		return DescriptorKindUniformBuffer, nil
	case "storage_buffer":
		return DescriptorKindStorageBuffer, nil
	}
	return 0, fmt.Errorf("string %s is not a valid DescriptorKind", s)
}

/**
 * @brief A single resource binding extracted by shader reflection for one stage.
 *
 * ArrayDims mirrors the reflected array dimensions of the binding. The
 * element count is the product of all dimensions, 1 when the binding is
 * not arrayed. A single dimension of 0 marks a variable-length binding
 * whose count is only known at descriptor set allocation time.
 */
type ReflectedBinding struct {
	/** @brief The binding slot within the descriptor set. */
	Slot uint32
	/** @brief The reflected resource type. */
	Kind DescriptorKind
	/** @brief The reflected array dimensions. Empty for scalar bindings. */
	ArrayDims []uint32
}

/** @brief The resolved element count for the binding (0 means variable-length). */
func (rb *ReflectedBinding) ElementCount() uint32 {
	count := uint32(1)
	for _, dim := range rb.ArrayDims {
		count *= dim
	}
	return count
}

/**
 * @brief All bindings of one descriptor set as seen by a single shader stage.
 * The binding core merges these across stages into one shape per pipeline.
 */
type ReflectedStageBindings struct {
	Stage    ShaderStage
	Bindings []ReflectedBinding
}
