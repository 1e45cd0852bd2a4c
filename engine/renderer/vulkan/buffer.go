package vulkan

import (
	vk "github.com/goki/vulkan"
)

/**
 * @brief A reference to a buffer owned elsewhere. Carried by buffer
 * bindings purely for descriptor writes; no synchronization is derived
 * for buffers.
 */
type VulkanBuffer struct {
	Name      string
	Handle    vk.Buffer
	TotalSize vk.DeviceSize
}
