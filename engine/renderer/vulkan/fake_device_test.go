package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// fakeDevice implements DeviceAPI without touching a real Vulkan
// driver. Handles are fabricated pointer values (desktop platforms
// only, where Vulkan handles are actual pointers).
type fakeDevice struct {
	layoutInfos      []vk.DescriptorSetLayoutCreateInfo
	layoutsCreated   int
	layoutsDestroyed int

	poolsCreated   int
	poolsDestroyed int
	resetsByPool   map[vk.DescriptorPool]int

	allocations        int
	failAllocations    bool
	lastVariableCounts []uint32

	updateCalls int
	lastWrites  []vk.WriteDescriptorSet
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		resetsByPool: make(map[vk.DescriptorPool]int),
	}
}

func fakeHandle(n int) unsafe.Pointer {
	var base unsafe.Pointer
	return unsafe.Add(base, n+1)
}

func (fd *fakeDevice) CreateDescriptorSetLayout(info *vk.DescriptorSetLayoutCreateInfo) (vk.DescriptorSetLayout, error) {
	fd.layoutInfos = append(fd.layoutInfos, *info)
	fd.layoutsCreated++
	return vk.DescriptorSetLayout(fakeHandle(fd.layoutsCreated)), nil
}

func (fd *fakeDevice) DestroyDescriptorSetLayout(layout vk.DescriptorSetLayout) {
	fd.layoutsDestroyed++
}

func (fd *fakeDevice) CreateDescriptorPool(info *vk.DescriptorPoolCreateInfo) (vk.DescriptorPool, error) {
	fd.poolsCreated++
	return vk.DescriptorPool(fakeHandle(fd.poolsCreated)), nil
}

func (fd *fakeDevice) DestroyDescriptorPool(pool vk.DescriptorPool) {
	fd.poolsDestroyed++
}

func (fd *fakeDevice) ResetDescriptorPool(pool vk.DescriptorPool) error {
	fd.resetsByPool[pool]++
	return nil
}

func (fd *fakeDevice) AllocateDescriptorSet(pool vk.DescriptorPool, layout vk.DescriptorSetLayout, variableCounts []uint32) (vk.DescriptorSet, error) {
	if fd.failAllocations {
		return vk.NullDescriptorSet, fmt.Errorf("vkAllocateDescriptorSets failed with VK_ERROR_OUT_OF_POOL_MEMORY")
	}
	fd.allocations++
	fd.lastVariableCounts = variableCounts
	return vk.DescriptorSet(fakeHandle(fd.allocations)), nil
}

func (fd *fakeDevice) UpdateDescriptorSets(writes []vk.WriteDescriptorSet) {
	fd.updateCalls++
	fd.lastWrites = writes
}

// bindingFlagsOf decodes the binding flags chained onto a captured
// layout create info.
func bindingFlagsOf(info *vk.DescriptorSetLayoutCreateInfo) []vk.DescriptorBindingFlags {
	if info.PNext == nil {
		return nil
	}
	flagsInfo := (*vk.DescriptorSetLayoutBindingFlagsCreateInfo)(info.PNext)
	return flagsInfo.PBindingFlags
}

// fakeTransition records one ApplyImageTransition request.
type fakeTransition struct {
	image          *VulkanImage
	pipelineStages vk.PipelineStageFlags
	accessFlags    vk.AccessFlags
	targetLayout   vk.ImageLayout
	aspectMask     vk.ImageAspectFlags
}

type fakeTransitioner struct {
	transitions []fakeTransition
}

func (ft *fakeTransitioner) ApplyImageTransition(commandBuffer vk.CommandBuffer, image *VulkanImage,
	pipelineStages vk.PipelineStageFlags, accessFlags vk.AccessFlags,
	targetLayout vk.ImageLayout, aspectMask vk.ImageAspectFlags) {
	ft.transitions = append(ft.transitions, fakeTransition{
		image:          image,
		pipelineStages: pipelineStages,
		accessFlags:    accessFlags,
		targetLayout:   targetLayout,
		aspectMask:     aspectMask,
	})
}
