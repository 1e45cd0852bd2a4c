package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/lava/engine/core"
	"github.com/spaghettifunk/lava/engine/renderer/metadata"
)

/**
 * @brief Owns the shared binding state of the renderer: the shape
 * cache, the frame-sliced descriptor pool, the write engine and the
 * image transitioner, all wired against one device. Everything here is
 * an explicit dependency rather than ambient state so that pieces can
 * be substituted in tests.
 *
 * The context is bound to a single recording timeline; see the notes
 * on the individual components for what may be shared read-only.
 */
type VulkanContext struct {
	Device       DeviceAPI
	Frames       *FrameCycle
	Shapes       *VulkanShapeCache
	Pool         *VulkanDescriptorPool
	Writes       *VulkanWriteEngine
	Transitioner ImageTransitioner
}

func NewContext(device DeviceAPI, frames *FrameCycle, transitioner ImageTransitioner) (*VulkanContext, error) {
	if err := core.MetricsInitialize(); err != nil {
		return nil, err
	}

	shapes := NewShapeCache(device)
	pool, err := NewDescriptorPool(device, shapes, frames)
	if err != nil {
		return nil, err
	}

	return &VulkanContext{
		Device:       device,
		Frames:       frames,
		Shapes:       shapes,
		Pool:         pool,
		Writes:       NewWriteEngine(device, shapes),
		Transitioner: transitioner,
	}, nil
}

/**
 * @brief Registers the merged shape of a pipeline's reflected stages,
 * deduplicated against all previously registered shapes.
 */
func (vc *VulkanContext) RegisterShape(stages []metadata.ReflectedStageBindings) (DescriptorLayoutID, error) {
	shape, err := NewDescriptorShapeFromStages(stages)
	if err != nil {
		core.LogError(err.Error())
		return 0, err
	}
	return vc.Shapes.RegisterOrGet(shape)
}

/**
 * @brief Allocates a set for the current frame, writes its resources
 * and, for BarrierModeAuto, derives and records the image transitions
 * it needs. The returned handle stays usable until its frame slot is
 * reset.
 */
func (vc *VulkanContext) CreateDescriptorSet(layoutID DescriptorLayoutID, bindings []DescriptorBinding, commandBuffer vk.CommandBuffer, barrierMode BarrierMode) (*VulkanDescriptorSet, error) {
	set, err := vc.Pool.Allocate(layoutID, bindings, commandBuffer, barrierMode)
	if err != nil {
		return nil, err
	}
	if err := vc.Writes.WriteSet(set); err != nil {
		return nil, err
	}
	if set.BarrierMode == BarrierModeAuto {
		if err := ProcessBarriers(vc.Transitioner, vc.Shapes, set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

/**
 * @brief Rotates to the next frame slot and recycles its descriptor
 * storage. The caller must have ensured GPU work consuming the slot's
 * previous sets has completed.
 */
func (vc *VulkanContext) BeginFrame() error {
	vc.Frames.Advance()
	return vc.Pool.BeginFrame()
}

/** @brief Tears down pools and cached layouts. All set handles must be abandoned first. */
func (vc *VulkanContext) Shutdown() error {
	if err := vc.Pool.ResetAllSlots(); err != nil {
		return err
	}
	vc.Pool.Destroy()
	vc.Shapes.Teardown()
	core.LogDebug("vulkan context: shut down")
	return nil
}
