package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/core"
)

/** @brief Stable identifier of a registered shape. Only meaningful to the cache that issued it. */
type DescriptorLayoutID uint32

/**
 * @brief Deduplicates descriptor shapes by value and owns the one
 * native layout created per distinct shape. Append-only: a registered
 * shape's id and layout stay alive until Teardown.
 *
 * Not internally locked. Registration must be externally serialized;
 * lookups of already registered ids are safe to share between readers
 * as long as nothing registers concurrently.
 */
type VulkanShapeCache struct {
	device DeviceAPI

	// hash -> candidate ids, equality-resolved on collision
	lookup  map[uint64][]DescriptorLayoutID
	shapes  []*VulkanDescriptorShape
	layouts []vk.DescriptorSetLayout
}

func NewShapeCache(device DeviceAPI) *VulkanShapeCache {
	return &VulkanShapeCache{
		device: device,
		lookup: make(map[uint64][]DescriptorLayoutID),
	}
}

/**
 * @brief Returns the id of an already registered shape equal in value,
 * or registers the shape and creates its native layout. All slots are
 * created update-after-bind so that sets recycled by pool resets may be
 * rewritten while earlier submissions are still in flight.
 */
func (sc *VulkanShapeCache) RegisterOrGet(shape *VulkanDescriptorShape) (DescriptorLayoutID, error) {
	hash := shape.Hash()
	for _, id := range sc.lookup[hash] {
		if sc.shapes[id].Equal(shape) {
			return id, nil
		}
	}

	layout, err := sc.createLayout(shape)
	if err != nil {
		core.LogError(err.Error())
		return 0, err
	}

	id := DescriptorLayoutID(len(sc.shapes))
	sc.lookup[hash] = append(sc.lookup[hash], id)
	sc.shapes = append(sc.shapes, shape)
	sc.layouts = append(sc.layouts, layout)

	core.LogDebug("shape cache: registered layout %d (%d bindings)", id, shape.MaxUsedBinding())
	return id, nil
}

/** @brief The registered shape for id. The shape is immutable; callers must not modify it. */
func (sc *VulkanShapeCache) ShapeOf(id DescriptorLayoutID) (*VulkanDescriptorShape, error) {
	if int(id) >= len(sc.shapes) {
		return nil, fmt.Errorf("shape cache: unknown layout id %d", id)
	}
	return sc.shapes[id], nil
}

/** @brief The native layout for id. */
func (sc *VulkanShapeCache) LayoutOf(id DescriptorLayoutID) (vk.DescriptorSetLayout, error) {
	if int(id) >= len(sc.layouts) {
		return vk.NullDescriptorSetLayout, fmt.Errorf("shape cache: unknown layout id %d", id)
	}
	return sc.layouts[id], nil
}

/** @brief The number of distinct shapes registered so far. */
func (sc *VulkanShapeCache) Size() int {
	return len(sc.shapes)
}

func (sc *VulkanShapeCache) createLayout(shape *VulkanDescriptorShape) (vk.DescriptorSetLayout, error) {
	bindings := make([]vk.DescriptorSetLayoutBinding, 0, shape.MaxUsedBinding())
	bindingFlags := make([]vk.DescriptorBindingFlags, 0, shape.MaxUsedBinding())

	variableSlots := 0
	for slot := uint32(0); slot < shape.MaxUsedBinding(); slot++ {
		if !shape.IsBindingUsed(slot) {
			continue
		}
		binding := shape.Bindings[slot]
		flags := vk.DescriptorBindingFlags(vk.DescriptorBindingUpdateAfterBindBit)
		if binding.DescriptorCount == 0 {
			// Variable-length slot: the layout carries the upper bound,
			// the concrete count arrives at allocation time.
			binding.DescriptorCount = VULKAN_MAX_VARIABLE_DESCRIPTORS
			flags |= vk.DescriptorBindingFlags(vk.DescriptorBindingVariableDescriptorCountBit)
			variableSlots++
		}
		bindings = append(bindings, binding)
		bindingFlags = append(bindingFlags, flags)
	}

	if variableSlots > 1 {
		return vk.NullDescriptorSetLayout,
			fmt.Errorf("shape cache: %d variable-length bindings declared, only one per set is supported", variableSlots)
	}

	bindingFlagsInfo := vk.DescriptorSetLayoutBindingFlagsCreateInfo{
		SType:         vk.StructureTypeDescriptorSetLayoutBindingFlagsCreateInfo,
		BindingCount:  uint32(len(bindingFlags)),
		PBindingFlags: bindingFlags,
	}
	bindingFlagsInfo.Deref()

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		PNext:        unsafe.Pointer(&bindingFlagsInfo),
		Flags:        vk.DescriptorSetLayoutCreateFlags(vk.DescriptorSetLayoutCreateUpdateAfterBindPoolBit),
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	layoutInfo.Deref()

	return sc.device.CreateDescriptorSetLayout(&layoutInfo)
}

/**
 * @brief Destroys every cached native layout and clears all tables.
 * Only legal once no descriptor set handle references this cache.
 */
func (sc *VulkanShapeCache) Teardown() {
	for _, layout := range sc.layouts {
		sc.device.DestroyDescriptorSetLayout(layout)
	}
	sc.lookup = make(map[uint64][]DescriptorLayoutID)
	sc.shapes = nil
	sc.layouts = nil
}
