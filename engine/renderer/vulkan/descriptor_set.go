package vulkan

import (
	vk "github.com/goki/vulkan"
)

/** @brief Controls whether consuming a set derives image barriers automatically. */
type BarrierMode int

const (
	/** @brief Derive and record image transitions before the set is consumed. */
	BarrierModeAuto BarrierMode = iota
	/** @brief The caller records all transitions itself. */
	BarrierModeManual
)

/** @brief One image resource attached to a binding: the image reference plus its descriptor info. */
type ImageBinding struct {
	Image *VulkanImage
	/** @brief Sampler/view/layout as written into the descriptor. */
	DescriptorInfo vk.DescriptorImageInfo
}

/** @brief One buffer resource attached to a binding: the buffer reference plus its descriptor info. */
type BufferBinding struct {
	Buffer *VulkanBuffer
	/** @brief Offset/range as written into the descriptor. */
	DescriptorInfo vk.DescriptorBufferInfo
}

/**
 * @brief A resource-binding write request against one slot of a set.
 * The payload is a tagged union: exactly one of images or buffers is
 * populated, checked against the slot's descriptor type at write time.
 * Construct through NewImageBinding or NewBufferBinding.
 */
type DescriptorBinding struct {
	/** @brief The target binding slot. */
	Slot uint32
	/** @brief The starting array element within the slot. */
	ArrayElement uint32
	/** @brief The number of descriptors written. */
	Count uint32

	images  []ImageBinding
	buffers []BufferBinding
}

func NewImageBinding(slot, arrayElement uint32, images []ImageBinding) DescriptorBinding {
	return DescriptorBinding{
		Slot:         slot,
		ArrayElement: arrayElement,
		Count:        uint32(len(images)),
		images:       images,
	}
}

func NewBufferBinding(slot, arrayElement uint32, buffers []BufferBinding) DescriptorBinding {
	return DescriptorBinding{
		Slot:         slot,
		ArrayElement: arrayElement,
		Count:        uint32(len(buffers)),
		buffers:      buffers,
	}
}

/** @brief The image arm of the payload, nil when the binding holds buffers. */
func (db *DescriptorBinding) Images() []ImageBinding {
	return db.images
}

/** @brief The buffer arm of the payload, nil when the binding holds images. */
func (db *DescriptorBinding) Buffers() []BufferBinding {
	return db.buffers
}

func (db *DescriptorBinding) IsImagePayload() bool {
	return db.images != nil
}

/**
 * @brief A lightweight handle to one allocated descriptor set. Created
 * by the frame-sliced pool; implicitly invalidated when its frame slot
 * is reset. There is no per-handle destruction.
 */
type VulkanDescriptorSet struct {
	/** @brief The frame slot the set was allocated from. */
	FrameSlot uint32
	/** @brief The layout the set was allocated against. */
	LayoutID DescriptorLayoutID
	/** @brief The native set handle. Storage may be silently reused after a slot reset. */
	Handle vk.DescriptorSet
	/** @brief The write requests supplied at allocation time, in order. */
	Bindings []DescriptorBinding
	/** @brief Command buffer barriers are recorded into when BarrierMode is auto. */
	CommandBuffer vk.CommandBuffer
	/** @brief How barriers for this set's resources are handled. */
	BarrierMode BarrierMode

	/** @brief The owning pool's slot generation at allocation time. */
	generation uint64
	pool       *VulkanDescriptorPool
}

/**
 * @brief Reports whether the owning frame slot has been reset since
 * this handle was allocated. A stale handle's storage may already back
 * another set and must not be written or bound.
 */
func (set *VulkanDescriptorSet) IsValid() bool {
	return set.pool != nil && set.pool.slotGeneration(set.FrameSlot) == set.generation
}
