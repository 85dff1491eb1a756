package hud

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"casque-hud/internal/compass"
	"casque-hud/internal/gradient"
)

// BlendScope selects which pixels the silhouette overlay pass touches.
type BlendScope string

const (
	// BlendFrame blends the overlay across the whole frame, so a degraded link
	// dims every annotation slightly and not just the silhouette.
	BlendFrame BlendScope = "frame"
	// BlendSilhouette limits the blend to the silhouette bounding box.
	BlendSilhouette BlendScope = "silhouette"
)

// ParseBlendScope accepts "frame" or "silhouette" (case-insensitive).
func ParseBlendScope(s string) (BlendScope, error) {
	switch BlendScope(strings.ToLower(strings.TrimSpace(s))) {
	case BlendFrame:
		return BlendFrame, nil
	case BlendSilhouette:
		return BlendSilhouette, nil
	}
	return "", fmt.Errorf("hud: unknown blend scope %q", s)
}

// Palette holds the fixed colors used by the non-gradient zones.
type Palette struct {
	Locked     color.RGBA
	Unlocked   color.RGBA
	Reticle    color.RGBA
	BatteryOn  color.RGBA
	BatteryOff color.RGBA
	Outline    color.RGBA
}

// Ramps holds the value-to-color gradients of the silhouette.
type Ramps struct {
	Thermal    gradient.Gradient
	Humidity   gradient.Gradient
	AirQuality gradient.Gradient
}

// Config controls the compositor layout and colors.
type Config struct {
	Compass compass.Layout

	ReticleRadius  int
	CrossHalf      int
	CrossThickness int
	LockBox        int
	LockThickness  int

	BatteryLeft    int // x of the first cell
	BatteryBottom  int // distance from the frame bottom to the cell tops
	BatteryCellW   int
	BatteryCellH   int
	BatterySpacing int
	BatteryLabel   string

	SilhouetteRight  int // distance from the frame right edge to the silhouette center
	SilhouetteBottom int // distance from the frame bottom to the silhouette center

	BlendScope BlendScope
	LostAlpha  float64

	Palette Palette
	Ramps   Ramps
}

// DefaultConfig returns the stock visor configuration.
func DefaultConfig() Config {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	return Config{
		Compass:          compass.DefaultLayout(),
		ReticleRadius:    5,
		CrossHalf:        5,
		CrossThickness:   2,
		LockBox:          100,
		LockThickness:    2,
		BatteryLeft:      50,
		BatteryBottom:    80,
		BatteryCellW:     30,
		BatteryCellH:     50,
		BatterySpacing:   10,
		BatteryLabel:     "BATTERIE",
		SilhouetteRight:  200,
		SilhouetteBottom: 300,
		BlendScope:       BlendFrame,
		LostAlpha:        0.5,
		Palette: Palette{
			Locked:     gradient.Green,
			Unlocked:   gradient.Red,
			Reticle:    gradient.Green,
			BatteryOn:  gradient.Green,
			BatteryOff: color.RGBA{R: 50, G: 50, B: 50, A: 255},
			Outline:    white,
		},
		Ramps: Ramps{
			Thermal:    gradient.Thermal,
			Humidity:   gradient.Humidity,
			AirQuality: gradient.AirQuality,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["compass_thickness"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Compass.Thickness = parsed
		}
	}
	if v, ok := cfg["compass_top"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Compass.Top = parsed
		}
	}
	if v, ok := cfg["compass_margin"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Compass.Margin = parsed
		}
	}
	if v, ok := cfg["degree_suffix"]; ok {
		switch strings.ToLower(v) {
		case "", "none":
			c.Compass.DegreeSuffix = ""
		default:
			c.Compass.DegreeSuffix = v
		}
	}
	if v, ok := cfg["battery_label"]; ok {
		c.BatteryLabel = v
	}
	if v, ok := cfg["blend_scope"]; ok {
		if parsed, err := ParseBlendScope(v); err == nil {
			c.BlendScope = parsed
		}
	}
	if v, ok := cfg["lost_alpha"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.LostAlpha = parsed
		}
	}
	if v, ok := cfg["locked_color"]; ok {
		if parsed, err := ParseHexColor(v); err == nil {
			c.Palette.Locked = parsed
		}
	}
	if v, ok := cfg["unlocked_color"]; ok {
		if parsed, err := ParseHexColor(v); err == nil {
			c.Palette.Unlocked = parsed
		}
	}
	return c
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("hud: color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("hud: color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
