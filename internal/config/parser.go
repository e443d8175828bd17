package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration from an io.Reader. Unknown keys and sections are
// ignored so older binaries can read newer files.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch currentSection {
		case "":
			err = setRootField(cfg, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "tools":
			err = setToolsField(&cfg.Tools, key, value)
		case "mask":
			err = setMaskField(&cfg.Mask, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "video":
		cfg.Video = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setToolsField(t *Tools, key, value string) error {
	switch key {
	case "color":
		if !strings.HasPrefix(value, "#") {
			return fmt.Errorf("invalid color for key %s: must start with #", key)
		}
		t.Color = value
	case "dashed":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		t.Dashed = b
	case "stroke_width":
		return setFloat(&t.StrokeWidth, key, value)
	case "ring_tilt":
		return setFloat(&t.RingTilt, key, value)
	case "spotlight_size":
		return setFloat(&t.SpotlightSize, key, value)
	case "spotlight_intensity":
		return setFloat(&t.SpotlightIntensity, key, value)
	case "lens_radius":
		return setFloat(&t.LensRadius, key, value)
	case "lens_zoom":
		return setFloat(&t.LensZoom, key, value)
	}
	return nil
}

func setMaskField(m *Mask, key, value string) error {
	switch key {
	case "enabled":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		m.Enabled = b
	case "show_overlay":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		m.ShowOverlay = b
	case "sensitivity":
		return setFloat(&m.Sensitivity, key, value)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = f
	return nil
}
