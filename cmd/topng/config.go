package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mdiff/npzview/npz"
	"github.com/mdiff/npzview/raster"
)

// Config mirrors the renderer knobs plus the tool-level paths. A partial
// YAML file works: absent fields keep their defaults.
type Config struct {
	Input    string   `yaml:"input"`
	Output   string   `yaml:"output"`
	Key      string   `yaml:"key"`
	Side     int      `yaml:"side"`
	Scale    string   `yaml:"scale"`
	Bits     int      `yaml:"bits"`
	PerSlice bool     `yaml:"per_slice"`
	VMin     *float64 `yaml:"vmin"`
	VMax     *float64 `yaml:"vmax"`
	Invert   bool     `yaml:"invert"`
	Prefix   string   `yaml:"prefix"`
	LogLevel string   `yaml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		Input:    "data/samples.npz",
		Key:      npz.DefaultKey,
		Side:     1200,
		Scale:    "nearest",
		Bits:     8,
		Prefix:   "sample_",
		LogLevel: "info",
	}
}

func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Side <= 0 {
		return fmt.Errorf("side must be positive, got %d", c.Side)
	}
	if c.Bits != 8 && c.Bits != 16 {
		return fmt.Errorf("bits must be 8 or 16, got %d", c.Bits)
	}
	switch c.Scale {
	case "nearest", "bilinear", "catmullrom":
	default:
		return fmt.Errorf("unknown scale kernel %q", c.Scale)
	}
	return nil
}

func (c *Config) renderer() *raster.Renderer {
	r := raster.NewRenderer()
	r.Side = c.Side
	r.Scale = c.Scale
	r.Bits = c.Bits
	r.Key = c.Key
	r.Prefix = c.Prefix
	r.PerSlice = c.PerSlice
	r.Invert = c.Invert
	if c.VMin != nil {
		r.VMin = *c.VMin
	}
	if c.VMax != nil {
		r.VMax = *c.VMax
	}
	return r
}
