package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
)

/**
 * @brief Tracked synchronization state of an image: the stage/access
 * pattern and layout of its last recorded use.
 */
type VulkanImageState struct {
	PipelineStages vk.PipelineStageFlags
	AccessFlags    vk.AccessFlags
	Layout         vk.ImageLayout
}

/**
 * @brief A reference to an image owned elsewhere. The binding core
 * never creates or destroys the native handles; it only reads them for
 * descriptor writes and mutates the tracked barrier state.
 */
type VulkanImage struct {
	Name   string
	Handle vk.Image
	View   vk.ImageView
	Format vk.Format
	Width  uint32
	Height uint32

	/** @brief Last known synchronization state, updated by the image transitioner. */
	State VulkanImageState
}

func NewVulkanImage(name string, handle vk.Image, view vk.ImageView, format vk.Format, width, height uint32) *VulkanImage {
	if name == "" {
		name = uuid.New().String()
	}
	return &VulkanImage{
		Name:   name,
		Handle: handle,
		View:   view,
		Format: format,
		Width:  width,
		Height: height,
		State: VulkanImageState{
			Layout: vk.ImageLayoutUndefined,
		},
	}
}

/** @brief Derives the aspect mask for barrier purposes from the image format. */
func (vi *VulkanImage) AspectMask() vk.ImageAspectFlags {
	switch vi.Format {
	case vk.FormatD16Unorm, vk.FormatD32Sfloat, vk.FormatX8D24UnormPack32:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	case vk.FormatD16UnormS8Uint, vk.FormatD24UnormS8Uint, vk.FormatD32SfloatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit) | vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	case vk.FormatS8Uint:
		return vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
}
