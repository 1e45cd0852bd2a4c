package vulkan

import (
	"fmt"
	"hash/fnv"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/renderer/metadata"
)

/**
 * @brief Describes which binding slots a descriptor set layout uses,
 * their descriptor type, element count and the union of shader stages
 * referencing them. Built incrementally by merging the per-stage
 * bindings produced by shader reflection, then treated as immutable
 * once registered with the shape cache.
 */
type VulkanDescriptorShape struct {
	/** @brief Binding table indexed by slot. Only entries flagged in usedBindings are meaningful. */
	Bindings [VULKAN_SHADER_MAX_BINDINGS]vk.DescriptorSetLayoutBinding
	/** @brief Bitset of populated slots. */
	usedBindings uint32
	/** @brief Smallest upper bound covering all used slots, cached for iteration. */
	maxUsedBinding uint32
	/** @brief True when one slot declared count 0 (variable-length). */
	hasVariableBinding bool
}

/**
 * @brief Records one binding slot, or merges stage flags into an
 * already recorded one. A count of 0 marks the slot as variable-length.
 * Redefining a used slot with a different type or count is a
 * configuration error and fails.
 */
func (shape *VulkanDescriptorShape) AddBinding(slot uint32, descriptorType vk.DescriptorType, count uint32, stages vk.ShaderStageFlags) error {
	if slot >= VULKAN_SHADER_MAX_BINDINGS {
		err := fmt.Errorf("descriptor shape: binding %d out of range (max %d)", slot, VULKAN_SHADER_MAX_BINDINGS)
		return err
	}

	if shape.IsBindingUsed(slot) {
		src := &shape.Bindings[slot]
		if src.DescriptorType != descriptorType || src.DescriptorCount != count {
			err := fmt.Errorf("descriptor shape: incompatible bindings at index %d", slot)
			return err
		}
		src.StageFlags |= stages
		return nil
	}

	shape.usedBindings |= 1 << slot
	shape.Bindings[slot] = vk.DescriptorSetLayoutBinding{
		Binding:         slot,
		DescriptorType:  descriptorType,
		DescriptorCount: count,
		StageFlags:      stages,
	}

	if slot+1 > shape.maxUsedBinding {
		shape.maxUsedBinding = slot + 1
	}

	if count == 0 {
		shape.hasVariableBinding = true
	}
	return nil
}

/** @brief Applies every used slot of other onto this shape. Used to combine per-stage shapes. */
func (shape *VulkanDescriptorShape) Merge(other *VulkanDescriptorShape) error {
	for slot := uint32(0); slot < other.maxUsedBinding; slot++ {
		if !other.IsBindingUsed(slot) {
			continue
		}
		b := other.Bindings[slot]
		if err := shape.AddBinding(b.Binding, b.DescriptorType, b.DescriptorCount, b.StageFlags); err != nil {
			return err
		}
	}
	return nil
}

/** @brief Folds the reflected bindings of one shader stage into the shape. */
func (shape *VulkanDescriptorShape) AddStage(stage metadata.ReflectedStageBindings) error {
	stageFlag, err := ShaderStageToVulkan(stage.Stage)
	if err != nil {
		return err
	}
	for i := range stage.Bindings {
		rb := &stage.Bindings[i]
		descriptorType, err := DescriptorKindToVulkan(rb.Kind)
		if err != nil {
			return err
		}
		if err := shape.AddBinding(rb.Slot, descriptorType, rb.ElementCount(), vk.ShaderStageFlags(stageFlag)); err != nil {
			return err
		}
	}
	return nil
}

/** @brief Builds one pipeline-wide shape from independently reflected stages. */
func NewDescriptorShapeFromStages(stages []metadata.ReflectedStageBindings) (*VulkanDescriptorShape, error) {
	shape := &VulkanDescriptorShape{}
	for _, stage := range stages {
		if err := shape.AddStage(stage); err != nil {
			return nil, err
		}
	}
	return shape, nil
}

func (shape *VulkanDescriptorShape) IsBindingUsed(slot uint32) bool {
	return shape.usedBindings&(1<<slot) != 0
}

func (shape *VulkanDescriptorShape) MaxUsedBinding() uint32 {
	return shape.maxUsedBinding
}

func (shape *VulkanDescriptorShape) HasVariableBinding() bool {
	return shape.hasVariableBinding
}

/**
 * @brief Value equality over used slots only: identical occupancy and,
 * per used slot, identical (type, count, stage union). Table capacity
 * and unused entries never participate.
 */
func (shape *VulkanDescriptorShape) Equal(other *VulkanDescriptorShape) bool {
	if shape.maxUsedBinding != other.maxUsedBinding || shape.usedBindings != other.usedBindings {
		return false
	}
	for slot := uint32(0); slot < shape.maxUsedBinding; slot++ {
		if !shape.IsBindingUsed(slot) {
			continue
		}
		a, b := &shape.Bindings[slot], &other.Bindings[slot]
		if a.DescriptorType != b.DescriptorType ||
			a.DescriptorCount != b.DescriptorCount ||
			a.StageFlags != b.StageFlags {
			return false
		}
	}
	return true
}

/** @brief FNV-1a over the (slot, type, count, stages) tuples of used slots. Consistent with Equal. */
func (shape *VulkanDescriptorShape) Hash() uint64 {
	h := fnv.New64a()
	var scratch [4]byte
	writeU32 := func(v uint32) {
		scratch[0] = byte(v)
		scratch[1] = byte(v >> 8)
		scratch[2] = byte(v >> 16)
		scratch[3] = byte(v >> 24)
		h.Write(scratch[:])
	}
	for slot := uint32(0); slot < shape.maxUsedBinding; slot++ {
		if !shape.IsBindingUsed(slot) {
			continue
		}
		b := &shape.Bindings[slot]
		writeU32(b.Binding)
		writeU32(uint32(b.DescriptorType))
		writeU32(b.DescriptorCount)
		writeU32(uint32(b.StageFlags))
	}
	return h.Sum64()
}

/** @brief Maps the reflection stage flag to the Vulkan shader stage bit. */
func ShaderStageToVulkan(stage metadata.ShaderStage) (vk.ShaderStageFlagBits, error) {
	switch stage {
	case metadata.ShaderStageVertex:
		return vk.ShaderStageVertexBit, nil
	case metadata.ShaderStageTessellationControl:
		return vk.ShaderStageTessellationControlBit, nil
	case metadata.ShaderStageTessellationEvaluation:
		return vk.ShaderStageTessellationEvaluationBit, nil
	case metadata.ShaderStageGeometry:
		return vk.ShaderStageGeometryBit, nil
	case metadata.ShaderStageFragment:
		return vk.ShaderStageFragmentBit, nil
	case metadata.ShaderStageCompute:
		return vk.ShaderStageComputeBit, nil
	}
	return 0, fmt.Errorf("unknown shader stage %d", stage)
}

/** @brief Maps the reflection descriptor kind to the Vulkan descriptor type. */
func DescriptorKindToVulkan(kind metadata.DescriptorKind) (vk.DescriptorType, error) {
	switch kind {
	case metadata.DescriptorKindSampler:
		return vk.DescriptorTypeSampler, nil
	case metadata.DescriptorKindCombinedImageSampler:
		return vk.DescriptorTypeCombinedImageSampler, nil
	case metadata.DescriptorKindSampledImage:
		return vk.DescriptorTypeSampledImage, nil
	case metadata.DescriptorKindStorageImage:
		return vk.DescriptorTypeStorageImage, nil
	case metadata.DescriptorKindUniformBuffer:
		return vk.DescriptorTypeUniformBuffer, nil
	case metadata.DescriptorKindStorageBuffer:
		return vk.DescriptorTypeStorageBuffer, nil
	}
	return 0, fmt.Errorf("unknown descriptor kind %d", kind)
}
