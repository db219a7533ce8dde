// If you are AI: This file validates configuration values and returns descriptive errors.

package config

import (
	"fmt"

	"displaychannel/internal/monitors"
)

// Validate checks that all configuration values are within acceptable ranges.
// Returns an error describing the first validation failure found.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Channel.Validate(); err != nil {
		return fmt.Errorf("channel config: %w", err)
	}
	return nil
}

// Validate checks server configuration values.
func (s *ServerConfig) Validate() error {
	if s.HealthPort <= 0 || s.HealthPort > 65535 {
		return fmt.Errorf("health_port must be between 1 and 65535, got %d", s.HealthPort)
	}
	if s.UIPort <= 0 || s.UIPort > 65535 {
		return fmt.Errorf("ui_port must be between 1 and 65535, got %d", s.UIPort)
	}
	if s.ChannelPort <= 0 || s.ChannelPort > 65535 {
		return fmt.Errorf("channel_port must be between 1 and 65535, got %d", s.ChannelPort)
	}
	if s.HealthPort == s.UIPort {
		return fmt.Errorf("health_port and ui_port must be different, both are %d", s.HealthPort)
	}
	if s.HealthPort == s.ChannelPort {
		return fmt.Errorf("health_port and channel_port must be different, both are %d", s.HealthPort)
	}
	if s.UIPort == s.ChannelPort {
		return fmt.Errorf("ui_port and channel_port must be different, both are %d", s.UIPort)
	}
	return nil
}

// Validate checks channel configuration values. monitors_max is clamped
// rather than rejected elsewhere (internal/monitors.Apply); here it is
// checked against [monitors.MinAllowed, monitors.HardMax] so an
// out-of-range config value is caught at startup instead of silently
// clamped at runtime.
func (c *ChannelConfig) Validate() error {
	if c.MonitorsMax < monitors.MinAllowed || c.MonitorsMax > monitors.HardMax {
		return fmt.Errorf("monitors_max must be between %d and %d, got %d", monitors.MinAllowed, monitors.HardMax, c.MonitorsMax)
	}
	if c.CacheSizeBytes%4 != 0 {
		return fmt.Errorf("cache_size_bytes must be a multiple of 4 (reported as bytes/4 pixels), got %d", c.CacheSizeBytes)
	}
	if c.GlzWindowSizeBytes%4 != 0 {
		return fmt.Errorf("glz_window_size_bytes must be a multiple of 4 (reported as bytes/4 pixels), got %d", c.GlzWindowSizeBytes)
	}
	return nil
}
