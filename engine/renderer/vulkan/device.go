package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

/**
 * @brief The native descriptor operations this core depends on. The
 * shape cache and descriptor pool talk to Vulkan exclusively through
 * this seam so that higher layers can supply a test double.
 *
 * All calls are synchronous and result-checked; a returned error is a
 * configuration bug, never a recoverable runtime condition.
 */
type DeviceAPI interface {
	CreateDescriptorSetLayout(info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error)
	DestroyDescriptorSetLayout(layout vk.DescriptorSetLayout)
	CreateDescriptorPool(info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error)
	DestroyDescriptorPool(pool vk.DescriptorPool)
	ResetDescriptorPool(pool vk.DescriptorPool) error
	/**
	 * @brief Allocates exactly one set from pool against layout.
	 * variableCounts, when non-empty, is chained through
	 * VkDescriptorSetVariableDescriptorCountAllocateInfo.
	 */
	AllocateDescriptorSet(pool vk.DescriptorPool, layout vk.DescriptorSetLayout, variableCounts []uint32) (vk.DescriptorSet, error)
	UpdateDescriptorSets(writes []vk.WriteDescriptorSet)
}

/** @brief DeviceAPI implementation over the goki/vulkan bindings. */
type VulkanDevice struct {
	LogicalDevice vk.Device
	Allocator     *vk.AllocationCallbacks
}

func NewVulkanDevice(logicalDevice vk.Device, allocator *vk.AllocationCallbacks) *VulkanDevice {
	return &VulkanDevice{
		LogicalDevice: logicalDevice,
		Allocator:     allocator,
	}
}

func (d *VulkanDevice) CreateDescriptorSetLayout(info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error) {
	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(d.LogicalDevice, info, d.Allocator, &layout); !VulkanResultIsSuccess(res) {
		return vk.NullDescriptorSetLayout, fmt.Errorf("vkCreateDescriptorSetLayout failed with %s", VulkanResultString(res, true))
	}
	return layout, nil
}

func (d *VulkanDevice) DestroyDescriptorSetLayout(layout vk.DescriptorSetLayout) {
	vk.DestroyDescriptorSetLayout(d.LogicalDevice, layout, d.Allocator)
}

func (d *VulkanDevice) CreateDescriptorPool(info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error) {
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(d.LogicalDevice, info, d.Allocator, &pool); !VulkanResultIsSuccess(res) {
		return vk.NullDescriptorPool, fmt.Errorf("vkCreateDescriptorPool failed with %s", VulkanResultString(res, true))
	}
	return pool, nil
}

func (d *VulkanDevice) DestroyDescriptorPool(pool vk.DescriptorPool) {
	vk.DestroyDescriptorPool(d.LogicalDevice, pool, d.Allocator)
}

func (d *VulkanDevice) ResetDescriptorPool(pool vk.DescriptorPool) error {
	if res := vk.ResetDescriptorPool(d.LogicalDevice, pool, 0); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkResetDescriptorPool failed with %s", VulkanResultString(res, true))
	}
	return nil
}

func (d *VulkanDevice) AllocateDescriptorSet(pool vk.DescriptorPool, layout vk.DescriptorSetLayout, variableCounts []uint32) (vk.DescriptorSet, error) {
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}

	if len(variableCounts) > 0 {
		countInfo := vk.DescriptorSetVariableDescriptorCountAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetVariableDescriptorCountAllocateInfo,
			DescriptorSetCount: uint32(len(variableCounts)),
			PDescriptorCounts:  variableCounts,
		}
		countInfo.Deref()
		allocateInfo.PNext = unsafe.Pointer(&countInfo)
	}

	var set vk.DescriptorSet
	if res := vk.AllocateDescriptorSets(d.LogicalDevice, &allocateInfo, &set); !VulkanResultIsSuccess(res) {
		return vk.NullDescriptorSet, fmt.Errorf("vkAllocateDescriptorSets failed with %s", VulkanResultString(res, true))
	}
	return set, nil
}

func (d *VulkanDevice) UpdateDescriptorSets(writes []vk.WriteDescriptorSet) {
	vk.UpdateDescriptorSets(d.LogicalDevice, uint32(len(writes)), writes, 0, nil)
}
