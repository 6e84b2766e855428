// Package config loads the viewer's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Resources ResourcesConfig `yaml:"resources"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Log       LogConfig       `yaml:"log"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// ResourcesConfig lists asset locations. Relative entries are resolved
// against Root.
type ResourcesConfig struct {
	Root         string `yaml:"root"`
	Shaders      string `yaml:"shaders"`
	Objects      string `yaml:"objects"`
	Skybox       string `yaml:"skybox"`
	SkyboxExt    string `yaml:"skybox_ext"`
	SettingsFile string `yaml:"settings_file"`
	WatchShaders bool   `yaml:"watch_shaders"`
}

type PipelineConfig struct {
	BlurPasses int     `yaml:"blur_passes"`
	Exposure   float32 `yaml:"exposure"`
	Bloom      bool    `yaml:"bloom"`
	HDR        bool    `yaml:"hdr"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1600,
			Height: 1200,
			Title:  "Planets",
			VSync:  true,
		},
		Resources: ResourcesConfig{
			Root:         "resources",
			Shaders:      "shaders",
			Objects:      "objects",
			Skybox:       "textures/skybox",
			SkyboxExt:    ".jpg",
			SettingsFile: "program_state.txt",
		},
		Pipeline: PipelineConfig{
			BlurPasses: 20,
			Exposure:   1.0,
			Bloom:      true,
			HDR:        true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error: the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Pipeline.BlurPasses < 0 {
		return fmt.Errorf("blur_passes must not be negative, got %d", c.Pipeline.BlurPasses)
	}
	if c.Pipeline.Exposure <= 0 {
		return fmt.Errorf("exposure must be positive, got %g", c.Pipeline.Exposure)
	}
	return nil
}

// Path resolves a resource entry against Root.
func (r ResourcesConfig) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.Root, p)
}

func (r ResourcesConfig) ShaderPath(name string) string {
	return filepath.Join(r.Path(r.Shaders), name)
}

func (r ResourcesConfig) SettingsPath() string {
	return r.Path(r.SettingsFile)
}

func (r ResourcesConfig) ObjectPath(body string) string {
	return filepath.Join(r.Path(r.Objects), body, "scene.gltf")
}
