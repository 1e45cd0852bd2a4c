package metadata

/** @brief The types of assets the asset manager knows how to load. */
type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	/** @brief A .shadercfg file declaring per-stage descriptor bindings. */
	ResourceTypeShaderBindings
)

/** @brief A loaded asset. Data holds the loader-specific payload. */
type Resource struct {
	Name     string
	FullPath string
	Data     interface{}
}
