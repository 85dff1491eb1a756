// internal/config/normalize.go
package config

import "strings"

// Normalize fills defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Display
	if d.Width == 0 {
		d.Width = 640
	}
	if d.Height == 0 {
		d.Height = 480
	}
	if d.FPS == 0 {
		d.FPS = 30
	}
	if d.Scale == 0 {
		d.Scale = 1
	}

	in := &cfg.Ingest
	if in.Source == "" {
		in.Source = "sim"
	}
	if in.StaleAfterMs == 0 {
		in.StaleAfterMs = 3000
	}

	p := &cfg.Preview
	if p.Addr == "" {
		p.Addr = ":8080"
	}
	if p.Queue == 0 {
		p.Queue = 2
	}

	l := &cfg.Log
	if l.Dir == "" {
		l.Dir = "logs"
	}
	if l.Name == "" {
		l.Name = "hud"
	}
	l.Level = strings.ToLower(l.Level)
	if l.Level == "" {
		l.Level = "info"
	}
}
