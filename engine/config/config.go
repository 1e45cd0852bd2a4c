package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

/**
 * @brief Engine configuration, loaded from a TOML file. Pool and
 * layout capacities are compile-time constants and deliberately not
 * configurable here.
 */
type Config struct {
	AppName string `toml:"app_name"`
	Debug   bool   `toml:"debug"`
	/** @brief Log level: debug, info, warn, error. */
	LogLevel string `toml:"log_level"`

	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`
}

type RendererConfig struct {
	/** @brief Number of concurrently in-flight frame slots. */
	FramesInFlight uint32 `toml:"frames_in_flight"`
	/** @brief Fail descriptor writes that leave declared slots unbound. */
	StrictBinding bool `toml:"strict_binding"`
}

type AssetsConfig struct {
	/** @brief Directory watched for shader binding configs. */
	Dir string `toml:"dir"`
}

func Default() *Config {
	return &Config{
		AppName:  "lava",
		LogLevel: "debug",
		Renderer: RendererConfig{
			FramesInFlight: 3,
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if cfg.Renderer.FramesInFlight == 0 {
		return nil, fmt.Errorf("config: renderer.frames_in_flight must be at least 1")
	}
	return cfg, nil
}
