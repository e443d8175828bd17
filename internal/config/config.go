// Package config holds the pitchmark configuration and its RC-format
// serialization.
package config

import (
	"fmt"
	"strings"
)

// Notify holds desktop notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Tools holds the default tool options applied at startup.
type Tools struct {
	Color              string
	StrokeWidth        float64
	Dashed             bool
	RingTilt           float64
	SpotlightSize      float64
	SpotlightIntensity float64
	LensRadius         float64
	LensZoom           float64
}

// Mask holds chroma-key settings.
type Mask struct {
	Enabled     bool
	Sensitivity float64
	ShowOverlay bool
}

// Config holds the application configuration.
type Config struct {
	SaveDir string
	Video   string
	Notify  Notify
	Tools   Tools
	Mask    Mask
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Tools: Tools{
			Color:              "#FFD700",
			StrokeWidth:        4,
			RingTilt:           55,
			SpotlightSize:      60,
			SpotlightIntensity: 0.8,
			LensRadius:         70,
			LensZoom:           2,
		},
		Mask: Mask{
			Sensitivity: 50,
			ShowOverlay: false,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// Parse(cfg.String()) reproduces the configuration.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Video != "" {
		fmt.Fprintf(&sb, "video = %s\n", c.Video)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[tools]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Tools.Color)
	fmt.Fprintf(&sb, "stroke_width = %g\n", c.Tools.StrokeWidth)
	fmt.Fprintf(&sb, "dashed = %v\n", c.Tools.Dashed)
	fmt.Fprintf(&sb, "ring_tilt = %g\n", c.Tools.RingTilt)
	fmt.Fprintf(&sb, "spotlight_size = %g\n", c.Tools.SpotlightSize)
	fmt.Fprintf(&sb, "spotlight_intensity = %g\n", c.Tools.SpotlightIntensity)
	fmt.Fprintf(&sb, "lens_radius = %g\n", c.Tools.LensRadius)
	fmt.Fprintf(&sb, "lens_zoom = %g\n", c.Tools.LensZoom)
	sb.WriteString("\n")

	sb.WriteString("[mask]\n")
	fmt.Fprintf(&sb, "enabled = %v\n", c.Mask.Enabled)
	fmt.Fprintf(&sb, "sensitivity = %g\n", c.Mask.Sensitivity)
	fmt.Fprintf(&sb, "show_overlay = %v\n", c.Mask.ShowOverlay)
	sb.WriteString("\n")

	return sb.String()
}
