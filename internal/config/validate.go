// internal/config/validate.go
package config

import (
	"fmt"
	"slices"
	"strings"

	"casque-hud/internal/hud"
	"casque-hud/internal/ingest"
)

// LogLevels lists the accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted wherever Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ---- display ----
	d := cfg.Display
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("display: size %dx%d must not be negative", d.Width, d.Height)
	}
	if d.FPS < 0 || d.FPS > 240 {
		return fmt.Errorf("display: fps %d outside 0..240", d.FPS)
	}
	if d.Scale < 0 || d.Scale > 8 {
		return fmt.Errorf("display: scale %d outside 0..8", d.Scale)
	}

	// ---- hud ----
	h := cfg.HUD
	if h.CompassThickness < 0 {
		return fmt.Errorf("hud: compass_thickness %d must not be negative", h.CompassThickness)
	}
	if h.BlendScope != "" {
		if _, err := hud.ParseBlendScope(h.BlendScope); err != nil {
			return err
		}
	}
	if h.LostAlpha != nil && (*h.LostAlpha < 0 || *h.LostAlpha > 1) {
		return fmt.Errorf("hud: lost_alpha %v outside 0..1", *h.LostAlpha)
	}
	for name, value := range map[string]string{"locked_color": h.LockedColor, "unlocked_color": h.UnlockedColor} {
		if value == "" {
			continue
		}
		if _, err := hud.ParseHexColor(value); err != nil {
			return fmt.Errorf("hud: %s: %w", name, err)
		}
	}

	// ---- ingest ----
	in := cfg.Ingest
	if in.Source != "" && in.Source != "none" && !slices.Contains(ingest.Names(), in.Source) {
		return fmt.Errorf("ingest: unknown source %q (have %v)", in.Source, ingest.Names())
	}
	if in.StaleAfterMs < 0 {
		return fmt.Errorf("ingest: stale_after_ms %d must not be negative", in.StaleAfterMs)
	}

	// ---- preview ----
	if cfg.Preview.Queue < 0 {
		return fmt.Errorf("preview: queue %d must not be negative", cfg.Preview.Queue)
	}

	// ---- log ----
	if lvl := strings.ToLower(cfg.Log.Level); lvl != "" && !slices.Contains(LogLevels, lvl) {
		return fmt.Errorf("log: level %q not one of %v", cfg.Log.Level, LogLevels)
	}
	return nil
}
