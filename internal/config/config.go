// If you are AI: This file defines the configuration structure for the
// display channel daemon. It uses strict YAML decoding and explicit
// defaults.

package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the complete daemon configuration.
// All fields must have explicit defaults or be required.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Channel  ChannelConfig `yaml:"channel"`
	AuxPath  string       `yaml:"aux_config_path,omitempty"` // Path to the sidecar's own config file, if any
}

// ServerConfig defines the daemon's listening ports.
type ServerConfig struct {
	HealthPort  int `yaml:"health_port"`  // Port for health endpoint
	UIPort      int `yaml:"ui_port"`      // Port for the UI-signal websocket
	ChannelPort int `yaml:"channel_port"` // Port for the display-channel message listener
}

// ChannelConfig defines display-channel-level policy.
type ChannelConfig struct {
	MonitorsMax       int      `yaml:"monitors_max"`           // Hard cap on monitor head count advertised to the server
	AdaptiveStreaming bool     `yaml:"adaptive_streaming"`     // Advertise stream-report and run the QoS reporter
	Capabilities      []string `yaml:"capabilities,omitempty"` // Extra capability names; parsed but not advertised (the daemon logs a warning when set)

	PixmapCacheID      uint64 `yaml:"pixmap_cache_id,omitempty"`       // Cache identity reported in display-init
	GlzDictionaryID    uint64 `yaml:"glz_dictionary_id,omitempty"`     // GLZ dictionary identity reported in display-init
	CacheSizeBytes     uint32 `yaml:"cache_size_bytes,omitempty"`      // Pixmap cache size in bytes; reported in display-init as bytes/4 pixels
	GlzWindowSizeBytes uint32 `yaml:"glz_window_size_bytes,omitempty"` // GLZ dictionary window size in bytes; reported in display-init as bytes/4 pixels
}

// adaptiveStreamingDisableEnv, when set to any non-empty value, forces
// adaptive streaming off regardless of what the config file says.
const adaptiveStreamingDisableEnv = "DISPLAYCHANNEL_DISABLE_ADAPTIVE_STREAMING"

// Load reads configuration from a YAML file.
// Returns an error if the file cannot be read or decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields

	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.setDefaults()
	if os.Getenv(adaptiveStreamingDisableEnv) != "" {
		cfg.Channel.AdaptiveStreaming = false
	}

	return &cfg, nil
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Server.HealthPort == 0 {
		c.Server.HealthPort = 8080
	}
	if c.Server.UIPort == 0 {
		c.Server.UIPort = 8081
	}
	if c.Server.ChannelPort == 0 {
		c.Server.ChannelPort = 5930
	}
	if c.Channel.MonitorsMax == 0 {
		c.Channel.MonitorsMax = 1
	}
	if c.Channel.PixmapCacheID == 0 {
		c.Channel.PixmapCacheID = 1
	}
	if c.Channel.GlzDictionaryID == 0 {
		c.Channel.GlzDictionaryID = 1
	}
	if c.Channel.CacheSizeBytes == 0 {
		c.Channel.CacheSizeBytes = 16 << 20 // 16MiB, divides evenly by 4
	}
	if c.Channel.GlzWindowSizeBytes == 0 {
		c.Channel.GlzWindowSizeBytes = 4 << 20 // 4MiB, divides evenly by 4
	}
}
