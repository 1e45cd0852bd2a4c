package vulkan

import "fmt"

/**
 * @brief Tracks which of the in-flight frame slots is current. Owned by
 * the frame-pacing layer: it guarantees the GPU has finished consuming
 * a slot's previous frame before the slot is advanced to, then calls
 * Advance followed by the descriptor pool's BeginFrame.
 */
type FrameCycle struct {
	slotCount   uint32
	currentSlot uint32
}

func NewFrameCycle(slotCount uint32) (*FrameCycle, error) {
	if slotCount == 0 {
		return nil, fmt.Errorf("frame cycle: slot count must be at least 1")
	}
	return &FrameCycle{slotCount: slotCount}, nil
}

/** @brief The number of concurrently in-flight frame slots. */
func (fc *FrameCycle) SlotCount() uint32 {
	return fc.slotCount
}

/** @brief The slot owned by the frame currently being recorded. */
func (fc *FrameCycle) CurrentSlot() uint32 {
	return fc.currentSlot
}

/** @brief Rotates to the next frame slot. */
func (fc *FrameCycle) Advance() {
	fc.currentSlot = (fc.currentSlot + 1) % fc.slotCount
}
