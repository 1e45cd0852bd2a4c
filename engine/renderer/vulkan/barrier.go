package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/core"
)

/**
 * @brief The external barrier primitive: requests that image finish its
 * previous use and become available for the given stage/access pattern
 * and layout. Fire-and-forget, no result consumed by this core.
 */
type ImageTransitioner interface {
	ApplyImageTransition(commandBuffer vk.CommandBuffer, image *VulkanImage,
		pipelineStages vk.PipelineStageFlags, accessFlags vk.AccessFlags,
		targetLayout vk.ImageLayout, aspectMask vk.ImageAspectFlags)
}

var shaderStagePipelineStages = [...]struct {
	shader   vk.ShaderStageFlagBits
	pipeline vk.PipelineStageFlagBits
}{
	{vk.ShaderStageVertexBit, vk.PipelineStageVertexShaderBit},
	{vk.ShaderStageTessellationControlBit, vk.PipelineStageTessellationControlShaderBit},
	{vk.ShaderStageTessellationEvaluationBit, vk.PipelineStageTessellationEvaluationShaderBit},
	{vk.ShaderStageGeometryBit, vk.PipelineStageGeometryShaderBit},
	{vk.ShaderStageFragmentBit, vk.PipelineStageFragmentShaderBit},
	{vk.ShaderStageComputeBit, vk.PipelineStageComputeShaderBit},
}

/**
 * @brief Maps a union of shader stage bits to the pipeline stages that
 * execute them. Stages outside the table contribute nothing.
 */
func ShaderStagesToPipelineStages(stages vk.ShaderStageFlags) vk.PipelineStageFlags {
	var pipelineStages vk.PipelineStageFlags
	for _, m := range shaderStagePipelineStages {
		if stages&vk.ShaderStageFlags(m.shader) != 0 {
			pipelineStages |= vk.PipelineStageFlags(m.pipeline)
		}
	}
	return pipelineStages
}

/**
 * @brief Maps a descriptor type to the access pattern its bindings
 * imply. Sampled images and combined image samplers read; storage
 * images read and write; everything else contributes no access.
 */
func DescriptorTypeToAccessFlags(descriptorType vk.DescriptorType) vk.AccessFlags {
	switch descriptorType {
	case vk.DescriptorTypeSampledImage, vk.DescriptorTypeCombinedImageSampler:
		return vk.AccessFlags(vk.AccessShaderReadBit)
	case vk.DescriptorTypeStorageImage:
		return vk.AccessFlags(vk.AccessShaderReadBit) | vk.AccessFlags(vk.AccessShaderWriteBit)
	}
	return 0
}

/**
 * @brief Derives and requests the image transitions a set's bindings
 * need before the consuming command is recorded. Only the first
 * resource of an arrayed binding drives the barrier; array elements
 * backed by images in different states are under-synchronized. Buffer
 * bindings are skipped entirely.
 */
func ProcessBarriers(transitioner ImageTransitioner, shapes *VulkanShapeCache, set *VulkanDescriptorSet) error {
	shape, err := shapes.ShapeOf(set.LayoutID)
	if err != nil {
		core.LogError(err.Error())
		return err
	}

	for i := range set.Bindings {
		binding := &set.Bindings[i]
		if !binding.IsImagePayload() {
			continue
		}

		bindingInfo := &shape.Bindings[binding.Slot]
		if _, err := isImageDescriptor(bindingInfo.DescriptorType); err != nil {
			core.LogError(err.Error())
			return err
		}

		images := binding.Images()
		if len(images) == 0 {
			err := fmt.Errorf("descriptor barrier: slot %d has no image resources", binding.Slot)
			core.LogError(err.Error())
			return err
		}

		first := &images[0]
		transitioner.ApplyImageTransition(
			set.CommandBuffer,
			first.Image,
			ShaderStagesToPipelineStages(bindingInfo.StageFlags),
			DescriptorTypeToAccessFlags(bindingInfo.DescriptorType),
			first.DescriptorInfo.ImageLayout,
			first.Image.AspectMask())
		core.MetricsBarrierRecorded()
	}
	return nil
}

/**
 * @brief Default ImageTransitioner: records a pipeline barrier from the
 * image's tracked state to the requested one, then updates the tracked
 * state. Skips recording when nothing changes.
 */
type VulkanImageTransitioner struct{}

func (VulkanImageTransitioner) ApplyImageTransition(commandBuffer vk.CommandBuffer, image *VulkanImage,
	pipelineStages vk.PipelineStageFlags, accessFlags vk.AccessFlags,
	targetLayout vk.ImageLayout, aspectMask vk.ImageAspectFlags) {

	old := image.State
	if old.Layout == targetLayout && old.PipelineStages == pipelineStages && old.AccessFlags == accessFlags {
		return
	}

	srcStages := old.PipelineStages
	if srcStages == 0 {
		srcStages = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	}

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       old.AccessFlags,
		DstAccessMask:       accessFlags,
		OldLayout:           old.Layout,
		NewLayout:           targetLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image.Handle,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: aspectMask,
			LevelCount: vk.RemainingMipLevels,
			LayerCount: vk.RemainingArrayLayers,
		},
	}
	barrier.Deref()

	vk.CmdPipelineBarrier(commandBuffer, srcStages, pipelineStages, 0,
		0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})

	image.State = VulkanImageState{
		PipelineStages: pipelineStages,
		AccessFlags:    accessFlags,
		Layout:         targetLayout,
	}
}
