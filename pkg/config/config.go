// Package config provides configuration loading and defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// EncodeConfig carries the pass-through encoder settings handed to the
// mux sink. The core never interprets these beyond forwarding them.
type EncodeConfig struct {
	VideoBitrate     int    `yaml:"video_bitrate"`      // bits per second
	KeyFrameInterval int    `yaml:"key_frame_interval"` // frames between sync samples
	Profile          string `yaml:"profile"`
	AudioSampleRate  int    `yaml:"audio_sample_rate"`
	AudioBitrate     int    `yaml:"audio_bitrate"`
}

// Config represents the full configuration for vidpump.
type Config struct {
	// Input/Output
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`

	// Output geometry
	TargetWidth  int    `yaml:"target_width"`  // 0 = keep source dimensions
	TargetHeight int    `yaml:"target_height"` // 0 = keep source dimensions
	Orientation  string `yaml:"orientation"`   // "", "identity", "front", "back", or EXIF 1-8

	// Encoding
	Encode EncodeConfig `yaml:"encode"`

	// Pump behavior
	IdleYieldMs int `yaml:"idle_yield_ms"` // sleep when no sink is ready

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Encode: EncodeConfig{
			VideoBitrate:     2_000_000,
			KeyFrameInterval: 30,
			Profile:          "main",
			AudioSampleRate:  44100,
			AudioBitrate:     128_000,
		},
		IdleYieldMs: 2,
		LogLevel:    "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
