// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"casque-hud/internal/hud"
)

const sample = `
display:
  width: 1280
  height: 720
  fps: 25
hud:
  compass_thickness: 1
  degree_suffix: ""
  battery_label: BATTERY
  blend_scope: silhouette
  lost_alpha: 0.4
ingest:
  source: mqtt
  stale_after_ms: 1500
  options:
    broker: tcp://10.0.0.2:1883
    prefix: casque
preview:
  enabled: true
  addr: 127.0.0.1:9000
log:
  level: DEBUG
`

func TestLoadValidateNormalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hud.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	Normalize(cfg)

	if cfg.Display.Width != 1280 || cfg.Display.Height != 720 || cfg.Display.FPS != 25 || cfg.Display.Scale != 1 {
		t.Fatalf("display = %+v", cfg.Display)
	}
	if cfg.Ingest.Source != "mqtt" || cfg.Ingest.Options["broker"] != "tcp://10.0.0.2:1883" {
		t.Fatalf("ingest = %+v", cfg.Ingest)
	}
	if !cfg.Preview.Enabled || cfg.Preview.Addr != "127.0.0.1:9000" || cfg.Preview.Queue != 2 {
		t.Fatalf("preview = %+v", cfg.Preview)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Dir != "logs" {
		t.Fatalf("log = %+v", cfg.Log)
	}

	h := hud.FromMap(cfg.HUD.Options())
	if h.Compass.Thickness != 1 || h.Compass.DegreeSuffix != "" {
		t.Fatalf("compass = %+v", h.Compass)
	}
	if h.BatteryLabel != "BATTERY" || h.BlendScope != hud.BlendSilhouette || h.LostAlpha != 0.4 {
		t.Fatalf("hud = %+v", h)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("display:\n  widht: 10\n"))
	if err == nil || !strings.Contains(err.Error(), "widht") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("empty config should validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejects(t *testing.T) {
	alpha := 1.5
	cases := map[string]*Config{
		"negative width": {Display: DisplayConfig{Width: -1}},
		"fps":            {Display: DisplayConfig{FPS: 1000}},
		"blend scope":    {HUD: HUDConfig{BlendScope: "mask"}},
		"lost alpha":     {HUD: HUDConfig{LostAlpha: &alpha}},
		"color":          {HUD: HUDConfig{LockedColor: "green"}},
		"source":         {Ingest: IngestConfig{Source: "kafka"}},
		"stale":          {Ingest: IngestConfig{StaleAfterMs: -5}},
		"level":          {Log: LogConfig{Level: "verbose"}},
	}
	for name, cfg := range cases {
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "WARN"}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Log.Level != "WARN" || cfg.Display.Width != 0 {
		t.Fatal("Validate must not mutate the config")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Display.Width != 640 || cfg.Display.Height != 480 || cfg.Display.FPS != 30 {
		t.Fatalf("display defaults = %+v", cfg.Display)
	}
	if cfg.Ingest.Source != "sim" || cfg.Ingest.StaleAfterMs != 3000 {
		t.Fatalf("ingest defaults = %+v", cfg.Ingest)
	}
	if len(cfg.HUD.Options()) != 0 {
		t.Fatalf("default hud options = %v", cfg.HUD.Options())
	}
}
