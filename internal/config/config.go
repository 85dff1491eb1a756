// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Display DisplayConfig `yaml:"display"`
	HUD     HUDConfig     `yaml:"hud"`
	Ingest  IngestConfig  `yaml:"ingest"`
	Preview PreviewConfig `yaml:"preview"`
	Log     LogConfig     `yaml:"log"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
	Scale  int `yaml:"scale"` // viewer window scale only
}

// ---- HUD ----

type HUDConfig struct {
	CompassThickness int      `yaml:"compass_thickness"`
	DegreeSuffix     *string  `yaml:"degree_suffix"` // nil = default, "" = none
	BatteryLabel     string   `yaml:"battery_label"`
	BlendScope       string   `yaml:"blend_scope"`
	LostAlpha        *float64 `yaml:"lost_alpha"`
	LockedColor      string   `yaml:"locked_color"`
	UnlockedColor    string   `yaml:"unlocked_color"`
}

// ---- INGEST ----

type IngestConfig struct {
	Source       string            `yaml:"source"`
	StaleAfterMs int               `yaml:"stale_after_ms"`
	Options      map[string]string `yaml:"options"` // source-specific, e.g. broker, prefix, seed
}

// ---- PREVIEW ----

type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Queue   int    `yaml:"queue"`
}

// ---- LOG ----

type LogConfig struct {
	Dir   string `yaml:"dir"`
	Name  string `yaml:"name"`
	Level string `yaml:"level"`
}

// Load reads and decodes a YAML file. Unknown keys are rejected. The result
// is neither validated nor normalized.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes. An empty document yields the zero Config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Default returns a validated, normalized configuration with no file input.
func Default() *Config {
	cfg := &Config{}
	Normalize(cfg)
	return cfg
}

// Options flattens the HUD section into the key/value form accepted by
// hud.FromMap. Unset fields are omitted.
func (h HUDConfig) Options() map[string]string {
	out := map[string]string{}
	if h.CompassThickness > 0 {
		out["compass_thickness"] = strconv.Itoa(h.CompassThickness)
	}
	if h.DegreeSuffix != nil {
		out["degree_suffix"] = *h.DegreeSuffix
		if *h.DegreeSuffix == "" {
			out["degree_suffix"] = "none"
		}
	}
	if h.BatteryLabel != "" {
		out["battery_label"] = h.BatteryLabel
	}
	if h.BlendScope != "" {
		out["blend_scope"] = h.BlendScope
	}
	if h.LostAlpha != nil {
		out["lost_alpha"] = strconv.FormatFloat(*h.LostAlpha, 'f', -1, 64)
	}
	if h.LockedColor != "" {
		out["locked_color"] = h.LockedColor
	}
	if h.UnlockedColor != "" {
		out["unlocked_color"] = h.UnlockedColor
	}
	return out
}
