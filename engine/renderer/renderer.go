package renderer

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lava/engine/assets"
	"github.com/spaghettifunk/lava/engine/config"
	"github.com/spaghettifunk/lava/engine/core"
	"github.com/spaghettifunk/lava/engine/renderer/vulkan"
)

/**
 * @brief The renderer frontend: owns the descriptor binding context
 * and the shader-config assets, and keeps named shader binding layouts
 * registered with the shape cache. Pipeline recording, swapchain and
 * submission live outside this module.
 */
type Renderer struct {
	context *vulkan.VulkanContext
	assets  *assets.AssetManager

	// shader config name -> cached layout id
	layouts map[string]vulkan.DescriptorLayoutID
}

func New(cfg *config.Config, device vulkan.DeviceAPI) (*Renderer, error) {
	core.LogSetLevel(cfg.LogLevel)

	frames, err := vulkan.NewFrameCycle(cfg.Renderer.FramesInFlight)
	if err != nil {
		return nil, err
	}

	context, err := vulkan.NewContext(device, frames, vulkan.VulkanImageTransitioner{})
	if err != nil {
		return nil, err
	}
	context.Writes.EnforceCompleteBinding = cfg.Renderer.StrictBinding

	assetManager, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	if err := assetManager.Initialize(cfg.Assets.Dir); err != nil {
		return nil, err
	}

	return &Renderer{
		context: context,
		assets:  assetManager,
		layouts: make(map[string]vulkan.DescriptorLayoutID),
	}, nil
}

func (r *Renderer) Context() *vulkan.VulkanContext {
	return r.context
}

/**
 * @brief Loads the named .shadercfg, merges its per-stage bindings
 * into one shape and registers it. The returned id is stable for the
 * renderer's lifetime; re-registering an unchanged config is a cache
 * hit.
 */
func (r *Renderer) RegisterShaderBindings(name string) (vulkan.DescriptorLayoutID, error) {
	stages, err := r.assets.LoadShaderBindings(name)
	if err != nil {
		core.LogError(err.Error())
		return 0, err
	}

	id, err := r.context.RegisterShape(stages)
	if err != nil {
		return 0, err
	}
	r.layouts[name] = id
	return id, nil
}

/** @brief The cached layout id for a previously registered shader config. */
func (r *Renderer) LayoutID(name string) (vulkan.DescriptorLayoutID, bool) {
	id, ok := r.layouts[name]
	return id, ok
}

/**
 * @brief Advances the frame cycle, recycles the new slot's descriptor
 * storage and re-registers any shader configs modified on disk since
 * the previous frame.
 */
func (r *Renderer) BeginFrame() error {
	if err := r.context.BeginFrame(); err != nil {
		return err
	}

	for _, path := range r.assets.PendingReloads() {
		for name := range r.layouts {
			if assets.ShaderConfigPath(name) != path {
				continue
			}
			core.LogInfo("shader config %s changed, re-registering", name)
			if _, err := r.RegisterShaderBindings(name); err != nil {
				return err
			}
		}
	}
	return nil
}

/** @brief Allocates, writes and (for auto mode) synchronizes one descriptor set. */
func (r *Renderer) CreateDescriptorSet(layoutID vulkan.DescriptorLayoutID, bindings []vulkan.DescriptorBinding, commandBuffer vk.CommandBuffer, barrierMode vulkan.BarrierMode) (*vulkan.VulkanDescriptorSet, error) {
	return r.context.CreateDescriptorSet(layoutID, bindings, commandBuffer, barrierMode)
}

func (r *Renderer) Shutdown() error {
	r.assets.Shutdown()
	return r.context.Shutdown()
}
