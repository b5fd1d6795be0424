// Package config handles meshslice configuration loading and management.
package config

import (
	"fmt"
	"runtime"

	"github.com/chazu/meshslice/pkg/export"
	"github.com/chazu/meshslice/pkg/slicer"
	"github.com/chazu/meshslice/pkg/stl"
)

// Config holds all settings.
type Config struct {
	Slice   SliceConfig   `yaml:"slice"`
	Kernel  KernelConfig  `yaml:"kernel"`
	STL     STLConfig     `yaml:"stl"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// SliceConfig holds slice engine settings.
type SliceConfig struct {
	Workers   int    `yaml:"workers"`   // 0 = one per CPU
	TieBreak  string `yaml:"tie_break"` // below | above
	Normalize bool   `yaml:"normalize"` // center the model and scale it to a unit diagonal
}

// KernelConfig holds procedural geometry settings.
type KernelConfig struct {
	MeshCells int `yaml:"mesh_cells"`
}

// STLConfig holds STL reader settings.
type STLConfig struct {
	Remap string `yaml:"remap"` // none | yzx
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Format    string `yaml:"format"` // text | svg | dxf
	SVGSize   int    `yaml:"svg_size"`
	SVGMargin int    `yaml:"svg_margin"`
	SVGStroke string `yaml:"svg_stroke"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Slice: SliceConfig{
			Workers:  0,
			TieBreak: "below",
		},
		Kernel: KernelConfig{
			MeshCells: 200,
		},
		STL: STLConfig{
			Remap: "none",
		},
		Export: ExportConfig{
			Format:    "text",
			SVGSize:   1000,
			SVGMargin: 10,
			SVGStroke: "black",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Resolve fills in values that depend on the machine. A zero worker count
// becomes the number of CPUs; after that the count is fixed for the run.
func (c *Config) Resolve() {
	if c.Slice.Workers <= 0 {
		c.Slice.Workers = runtime.NumCPU()
	}
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := c.TieBreak(); err != nil {
		return err
	}
	if _, err := c.Remap(); err != nil {
		return err
	}
	if _, err := c.Format(); err != nil {
		return err
	}
	if c.Kernel.MeshCells < 0 {
		return fmt.Errorf("config: kernel.mesh_cells must not be negative, got %d", c.Kernel.MeshCells)
	}
	return nil
}

// TieBreak returns the parsed slice.tie_break setting.
func (c *Config) TieBreak() (slicer.TieBreak, error) {
	return slicer.ParseTieBreak(c.Slice.TieBreak)
}

// Remap returns the parsed stl.remap setting.
func (c *Config) Remap() (stl.Remap, error) {
	return stl.ParseRemap(c.STL.Remap)
}

// Format returns the parsed export.format setting.
func (c *Config) Format() (export.Format, error) {
	return export.ParseFormat(c.Export.Format)
}

// SVGOptions returns the SVG layout settings.
func (c *Config) SVGOptions() export.SVGOptions {
	return export.SVGOptions{
		Size:   c.Export.SVGSize,
		Margin: c.Export.SVGMargin,
		Stroke: c.Export.SVGStroke,
	}
}
