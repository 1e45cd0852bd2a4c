package vulkan

/**
 * @brief Max number of bindings in a single descriptor set layout
 * @todo TODO: make configurable
 */
const VULKAN_SHADER_MAX_BINDINGS uint32 = 32

/**
 * @brief Element count substituted into the native layout for a
 * variable-length binding. The concrete count is supplied at
 * allocation time and must not exceed this.
 */
const VULKAN_MAX_VARIABLE_DESCRIPTORS uint32 = 255

/** @brief Max number of descriptor sets allocated from one frame slot's pool. */
const VULKAN_DESCRIPTOR_MAX_SETS uint32 = 2048

/** @brief Per-kind pool capacities for each frame slot's pool. */
const (
	VULKAN_POOL_UNIFORM_BUFFERS         uint32 = 2048
	VULKAN_POOL_STORAGE_BUFFERS         uint32 = 512
	VULKAN_POOL_SAMPLERS                uint32 = 128
	VULKAN_POOL_SAMPLED_IMAGES          uint32 = 512
	VULKAN_POOL_STORAGE_IMAGES          uint32 = 512
	VULKAN_POOL_COMBINED_IMAGE_SAMPLERS uint32 = 2048
)
