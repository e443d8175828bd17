package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
save_dir = /tmp/clips
video = /home/user/match.mp4

[notify]
save = true
copy = false

[tools]
color = #00FF80
stroke_width = 6
dashed = true
lens_zoom = 3

[mask]
enabled = true
sensitivity = 65
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/clips" {
		t.Errorf("Expected save_dir '/tmp/clips', got '%s'", cfg.SaveDir)
	}
	if cfg.Video != "/home/user/match.mp4" {
		t.Errorf("Unexpected video path '%s'", cfg.Video)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy {
		t.Errorf("Unexpected notify settings: %+v", cfg.Notify)
	}
	if cfg.Tools.Color != "#00FF80" || cfg.Tools.StrokeWidth != 6 || !cfg.Tools.Dashed {
		t.Errorf("Unexpected tools settings: %+v", cfg.Tools)
	}
	if cfg.Tools.LensZoom != 3 {
		t.Errorf("Expected lens_zoom 3, got %v", cfg.Tools.LensZoom)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Tools.RingTilt != 55 {
		t.Errorf("Expected default ring_tilt, got %v", cfg.Tools.RingTilt)
	}
	if !cfg.Mask.Enabled || cfg.Mask.Sensitivity != 65 {
		t.Errorf("Unexpected mask settings: %+v", cfg.Mask)
	}
}

func TestParseInvalidValues(t *testing.T) {
	cases := []string{
		"[notify]\nsave = maybe\n",
		"[tools]\nstroke_width = wide\n",
		"[tools]\ncolor = red\n",
		"[mask]\nsensitivity = high\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Expected parse error for %q", input)
		}
	}
}

func TestParseIgnoresUnknown(t *testing.T) {
	input := `
legacy_key = whatever

[future_section]
anything = goes

[tools]
color = #123456
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Tools.Color != "#123456" {
		t.Errorf("Known key lost among unknown ones: %+v", cfg.Tools)
	}
}

func TestCircular(t *testing.T) {
	input := `save_dir = /home/user/clips

[notify]
save = true
copy = true

[tools]
color = #FF3366
stroke_width = 5
dashed = true
ring_tilt = 40
spotlight_size = 80
spotlight_intensity = 0.6
lens_radius = 90
lens_zoom = 2.5

[mask]
enabled = true
sensitivity = 72
show_overlay = true
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare
	if *cfg != *cfg2 {
		t.Errorf("Round trip mismatch:\n%+v\nvs\n%+v", cfg, cfg2)
	}
}
