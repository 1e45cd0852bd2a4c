package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/core"
)

/**
 * @brief Validates write requests against cached shapes and flushes
 * them into native storage in one batched update per set.
 */
type VulkanWriteEngine struct {
	device DeviceAPI
	shapes *VulkanShapeCache

	/**
	 * @brief When true, a used slot left without any write request
	 * fails validation. Off by default: partially-unbound sets are
	 * tolerated as long as every bound slot checks out.
	 */
	EnforceCompleteBinding bool
}

func NewWriteEngine(device DeviceAPI, shapes *VulkanShapeCache) *VulkanWriteEngine {
	return &VulkanWriteEngine{
		device: device,
		shapes: shapes,
	}
}

/** @brief Classifies a descriptor type as image-backed or buffer-backed. Unknown types fail. */
func isImageDescriptor(descriptorType vk.DescriptorType) (bool, error) {
	switch descriptorType {
	case vk.DescriptorTypeUniformBuffer, vk.DescriptorTypeStorageBuffer,
		vk.DescriptorTypeUniformBufferDynamic, vk.DescriptorTypeStorageBufferDynamic:
		return false, nil
	case vk.DescriptorTypeCombinedImageSampler, vk.DescriptorTypeSampledImage,
		vk.DescriptorTypeStorageImage, vk.DescriptorTypeSampler:
		return true, nil
	}
	return false, fmt.Errorf("descriptor write: unsupported resource type %d", descriptorType)
}

/**
 * @brief Checks every write request of the set against its shape:
 * the target slot must exist and the payload arm must agree with the
 * slot's descriptor type. Unbound-slot remainders are tolerated unless
 * EnforceCompleteBinding is set.
 */
func (we *VulkanWriteEngine) Validate(set *VulkanDescriptorSet) error {
	shape, err := we.shapes.ShapeOf(set.LayoutID)
	if err != nil {
		return err
	}

	var unboundResources [VULKAN_SHADER_MAX_BINDINGS]int64
	for slot := uint32(0); slot < VULKAN_SHADER_MAX_BINDINGS; slot++ {
		if shape.IsBindingUsed(slot) {
			unboundResources[slot] = int64(shape.Bindings[slot].DescriptorCount)
		}
	}

	for i := range set.Bindings {
		binding := &set.Bindings[i]
		if !shape.IsBindingUsed(binding.Slot) {
			return fmt.Errorf("descriptor write: descriptor set doesn't have %d slot", binding.Slot)
		}

		imageRequired, err := isImageDescriptor(shape.Bindings[binding.Slot].DescriptorType)
		if err != nil {
			return err
		}
		if imageRequired != binding.IsImagePayload() {
			required, supplied := "image", "buffer"
			if !imageRequired {
				required, supplied = supplied, required
			}
			return fmt.Errorf("descriptor write: slot %d %s required but %s bound", binding.Slot, required, supplied)
		}

		unboundResources[binding.Slot] -= int64(binding.Count)
	}

	if we.EnforceCompleteBinding {
		for slot := uint32(0); slot < VULKAN_SHADER_MAX_BINDINGS; slot++ {
			if unboundResources[slot] > 0 {
				return fmt.Errorf("descriptor write: slot %d has %d unbound resources", slot, unboundResources[slot])
			}
		}
	}
	return nil
}

/**
 * @brief Validates the set, then writes every request into native
 * storage with a single batched update call. Descriptor infos are
 * gathered into two exactly-sized flat arrays first; each native write
 * record references a contiguous sub-range of one of them, so the
 * arrays must not grow between gathering and the update call.
 */
func (we *VulkanWriteEngine) WriteSet(set *VulkanDescriptorSet) error {
	if !set.IsValid() {
		err := fmt.Errorf("descriptor write: %w (frame slot %d)", core.ErrInvalidSetHandle, set.FrameSlot)
		core.LogError(err.Error())
		return err
	}
	if err := we.Validate(set); err != nil {
		core.LogError(err.Error())
		return err
	}

	shape, err := we.shapes.ShapeOf(set.LayoutID)
	if err != nil {
		return err
	}

	// First pass: size the flat descriptor info arrays.
	numImageInfos, numBufferInfos := 0, 0
	for i := range set.Bindings {
		binding := &set.Bindings[i]
		imageBacked, _ := isImageDescriptor(shape.Bindings[binding.Slot].DescriptorType)
		if imageBacked {
			numImageInfos += int(binding.Count)
		} else {
			numBufferInfos += int(binding.Count)
		}
	}

	imageInfos := make([]vk.DescriptorImageInfo, numImageInfos)
	bufferInfos := make([]vk.DescriptorBufferInfo, numBufferInfos)
	writes := make([]vk.WriteDescriptorSet, 0, len(set.Bindings))
	numImageInfos, numBufferInfos = 0, 0

	// Second pass: one write record per request, pointing into the flat arrays.
	for i := range set.Bindings {
		binding := &set.Bindings[i]
		bindingInfo := &shape.Bindings[binding.Slot]

		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set.Handle,
			DstBinding:      binding.Slot,
			DstArrayElement: binding.ArrayElement,
			DescriptorCount: binding.Count,
			DescriptorType:  bindingInfo.DescriptorType,
		}

		imageBacked, _ := isImageDescriptor(bindingInfo.DescriptorType)
		if imageBacked {
			start := numImageInfos
			for j := range binding.Images() {
				imageInfos[numImageInfos] = binding.Images()[j].DescriptorInfo
				numImageInfos++
			}
			write.PImageInfo = imageInfos[start:numImageInfos]
		} else {
			start := numBufferInfos
			for j := range binding.Buffers() {
				bufferInfos[numBufferInfos] = binding.Buffers()[j].DescriptorInfo
				numBufferInfos++
			}
			write.PBufferInfo = bufferInfos[start:numBufferInfos]
		}
		write.Deref()
		writes = append(writes, write)
	}

	we.device.UpdateDescriptorSets(writes)
	core.MetricsWritesBatched(len(writes))
	return nil
}
