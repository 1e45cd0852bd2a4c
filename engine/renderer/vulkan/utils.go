package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

type vulkanResultInfo struct {
	name     string
	extended string
}

// From: https://www.khronos.org/registry/vulkan/specs/1.3-extensions/man/html/VkResult.html
var vulkanResults = map[vk.Result]vulkanResultInfo{
	vk.Success:                {"VK_SUCCESS", "Command successfully completed"},
	vk.NotReady:               {"VK_NOT_READY", "A fence or query has not yet completed"},
	vk.Timeout:                {"VK_TIMEOUT", "A wait operation has not completed in the specified time"},
	vk.Incomplete:             {"VK_INCOMPLETE", "A return array was too small for the result"},
	vk.ErrorOutOfHostMemory:   {"VK_ERROR_OUT_OF_HOST_MEMORY", "A host memory allocation has failed."},
	vk.ErrorOutOfDeviceMemory: {"VK_ERROR_OUT_OF_DEVICE_MEMORY", "A device memory allocation has failed."},
	vk.ErrorInitializationFailed: {"VK_ERROR_INITIALIZATION_FAILED",
		"Initialization of an object could not be completed for implementation-specific reasons."},
	vk.ErrorDeviceLost: {"VK_ERROR_DEVICE_LOST", "The logical or physical device has been lost."},
	vk.ErrorFragmentedPool: {"VK_ERROR_FRAGMENTED_POOL",
		"A pool allocation has failed due to fragmentation of the pool's memory."},
	vk.ErrorOutOfPoolMemory: {"VK_ERROR_OUT_OF_POOL_MEMORY", "A pool memory allocation has failed."},
	vk.ErrorFragmentation:   {"VK_ERROR_FRAGMENTATION", "A descriptor pool creation has failed due to fragmentation."},
	vk.ErrorUnknown: {"VK_ERROR_UNKNOWN",
		"An unknown error has occurred; either the application has provided invalid input, or an implementation failure has occurred."},
}

func VulkanResultString(result vk.Result, getExtended bool) string {
	info, ok := vulkanResults[result]
	if !ok {
		return fmt.Sprintf("VK_RESULT(%d)", result)
	}
	if getExtended {
		return fmt.Sprintf("%s %s", info.name, info.extended)
	}
	return info.name
}

func VulkanResultIsSuccess(result vk.Result) bool {
	return result >= vk.Success
}
