package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/core"
)

/**
 * @brief Owns one native descriptor pool per in-flight frame slot.
 * Sets are never freed individually: BeginFrame bulk-resets the slot
 * that is about to be reused, invalidating every handle previously
 * allocated from it. Capacities are fixed (const.go) and never checked
 * against demand up front; exhausting a pool is a configuration error.
 *
 * Not internally locked; allocation and reset must happen on the
 * recording timeline that owns the current frame slot.
 */
type VulkanDescriptorPool struct {
	device DeviceAPI
	shapes *VulkanShapeCache
	frames *FrameCycle

	pools       []vk.DescriptorPool
	generations []uint64
}

func NewDescriptorPool(device DeviceAPI, shapes *VulkanShapeCache, frames *FrameCycle) (*VulkanDescriptorPool, error) {
	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: VULKAN_POOL_UNIFORM_BUFFERS},
		{Type: vk.DescriptorTypeStorageBuffer, DescriptorCount: VULKAN_POOL_STORAGE_BUFFERS},
		{Type: vk.DescriptorTypeSampler, DescriptorCount: VULKAN_POOL_SAMPLERS},
		{Type: vk.DescriptorTypeSampledImage, DescriptorCount: VULKAN_POOL_SAMPLED_IMAGES},
		{Type: vk.DescriptorTypeStorageImage, DescriptorCount: VULKAN_POOL_STORAGE_IMAGES},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: VULKAN_POOL_COMBINED_IMAGE_SAMPLERS},
	}

	pool := &VulkanDescriptorPool{
		device:      device,
		shapes:      shapes,
		frames:      frames,
		pools:       make([]vk.DescriptorPool, frames.SlotCount()),
		generations: make([]uint64, frames.SlotCount()),
	}

	for slot := range pool.pools {
		poolInfo := vk.DescriptorPoolCreateInfo{
			SType:         vk.StructureTypeDescriptorPoolCreateInfo,
			Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateUpdateAfterBindBit),
			MaxSets:       VULKAN_DESCRIPTOR_MAX_SETS,
			PoolSizeCount: uint32(len(poolSizes)),
			PPoolSizes:    poolSizes,
		}
		poolInfo.Deref()

		p, err := device.CreateDescriptorPool(&poolInfo)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		pool.pools[slot] = p
	}

	core.LogDebug("descriptor pool: created %d frame slots", frames.SlotCount())
	return pool, nil
}

/**
 * @brief Resets the pool of the frame slot that is about to become
 * current. Must be called exactly once per frame, after the frame
 * pacer has guaranteed the GPU finished the slot's previous frame, and
 * before any allocation targeting the slot. All handles previously
 * allocated from the slot become invalid; their storage may be reused.
 */
func (dp *VulkanDescriptorPool) BeginFrame() error {
	slot := dp.frames.CurrentSlot()
	if err := dp.device.ResetDescriptorPool(dp.pools[slot]); err != nil {
		core.LogError(err.Error())
		return err
	}
	dp.generations[slot]++
	core.MetricsFrameReset()
	return nil
}

/**
 * @brief Allocates one set from the current frame slot against a
 * cached layout and attaches the supplied write requests. When the
 * shape declares a variable-length slot and exactly one request with
 * count > 1 is supplied, that count is passed through the native
 * variable descriptor count allocation path.
 */
func (dp *VulkanDescriptorPool) Allocate(layoutID DescriptorLayoutID, bindings []DescriptorBinding, commandBuffer vk.CommandBuffer, barrierMode BarrierMode) (*VulkanDescriptorSet, error) {
	shape, err := dp.shapes.ShapeOf(layoutID)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	layout, err := dp.shapes.LayoutOf(layoutID)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	var variableCounts []uint32
	if shape.HasVariableBinding() && len(bindings) == 1 && bindings[0].Count > 1 {
		if bindings[0].Count > VULKAN_MAX_VARIABLE_DESCRIPTORS {
			err := fmt.Errorf("descriptor pool: variable count %d exceeds layout upper bound %d",
				bindings[0].Count, VULKAN_MAX_VARIABLE_DESCRIPTORS)
			core.LogError(err.Error())
			return nil, err
		}
		variableCounts = []uint32{bindings[0].Count}
	}

	slot := dp.frames.CurrentSlot()
	set, err := dp.device.AllocateDescriptorSet(dp.pools[slot], layout, variableCounts)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	core.MetricsSetAllocated()
	return &VulkanDescriptorSet{
		FrameSlot:     slot,
		LayoutID:      layoutID,
		Handle:        set,
		Bindings:      bindings,
		CommandBuffer: commandBuffer,
		BarrierMode:   barrierMode,
		generation:    dp.generations[slot],
		pool:          dp,
	}, nil
}

/**
 * @brief Resets every slot's pool unconditionally, invalidating all
 * outstanding handles. Used for full teardown or reinitialization.
 */
func (dp *VulkanDescriptorPool) ResetAllSlots() error {
	for slot := range dp.pools {
		if err := dp.device.ResetDescriptorPool(dp.pools[slot]); err != nil {
			core.LogError(err.Error())
			return err
		}
		dp.generations[slot]++
	}
	return nil
}

/** @brief Destroys the native pools. Outstanding handles must already be abandoned. */
func (dp *VulkanDescriptorPool) Destroy() {
	for slot := range dp.pools {
		dp.device.DestroyDescriptorPool(dp.pools[slot])
		dp.pools[slot] = vk.NullDescriptorPool
	}
}

func (dp *VulkanDescriptorPool) slotGeneration(slot uint32) uint64 {
	return dp.generations[slot]
}
