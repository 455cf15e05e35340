// Package config handles dracotool configuration loading and management.
package config

import "github.com/Faultbox/dracodec/pkg/draco"

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Decode  DecodeConfig  `yaml:"decode"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DecodeConfig caps counts read from untrusted files. Zero means unlimited.
type DecodeConfig struct {
	MaxFaces      int `yaml:"max_faces"`
	MaxPoints     int `yaml:"max_points"`
	MaxComponents int `yaml:"max_components"`
}

// OutputConfig controls how decoded meshes are printed.
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "yaml"
	Rows   int    `yaml:"rows"`   // Faces/values printed per listing, 0 = all
}

// Limits converts the decode settings to decoder limits.
func (d DecodeConfig) Limits() draco.Limits {
	return draco.Limits{
		MaxFaces:      d.MaxFaces,
		MaxPoints:     d.MaxPoints,
		MaxComponents: d.MaxComponents,
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	limits := draco.DefaultLimits()
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Decode: DecodeConfig{
			MaxFaces:      limits.MaxFaces,
			MaxPoints:     limits.MaxPoints,
			MaxComponents: limits.MaxComponents,
		},
		Output: OutputConfig{
			Format: "text",
			Rows:   20,
		},
	}
}
