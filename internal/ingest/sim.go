package ingest

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"casque-hud/internal/telemetry"
	"casque-hud/pkg/core"
)

// SimConfig controls the synthetic telemetry generator.
type SimConfig struct {
	Seed         int64
	Interval     time.Duration
	TargetChance float64
	LostChance   float64
}

// DefaultSimConfig returns the bench demo settings.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Seed:         1337,
		Interval:     time.Second / 30,
		TargetChance: 0.01,
		LostChance:   0.005,
	}
}

// SimConfigFromMap populates the config from a string map (flag-style key/value pairs).
func SimConfigFromMap(cfg map[string]string) SimConfig {
	c := DefaultSimConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["interval"]; ok {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			c.Interval = parsed
		}
	}
	if v, ok := cfg["target_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.TargetChance = parsed
		}
	}
	if v, ok := cfg["lost_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.LostChance = parsed
		}
	}
	return c
}

// Sim produces a plausible drifting telemetry stream: a battery that drains
// and recharges, a slowly turning head, oscillating temperatures and
// humidities, and rare target locks and link drops. A given seed always
// yields the same sequence.
type Sim struct {
	cfg  SimConfig
	rng  *core.RNG
	snap telemetry.Snapshot
	tick int

	batteryDir float64
	headingDir float64
	tempDir    float64

	log *slog.Logger
}

// NewSim returns a generator starting from the default snapshot.
func NewSim(cfg SimConfig) *Sim {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSimConfig().Interval
	}
	s := &Sim{cfg: cfg, log: slog.Default().With("source", "sim", "seed", cfg.Seed)}
	s.Reset(cfg.Seed)
	return s
}

// Reset rewinds the generator to its first sample under seed.
func (s *Sim) Reset(seed int64) {
	s.rng = core.NewRNG(seed)
	s.snap = telemetry.Default()
	s.tick = 0
	s.batteryDir, s.headingDir, s.tempDir = 1, 1, 1
}

// Name implements Source.
func (s *Sim) Name() string { return "sim" }

// Step advances one interval and returns the new snapshot.
func (s *Sim) Step() telemetry.Snapshot {
	t := float64(s.tick) * s.cfg.Interval.Seconds()
	s.tick++
	v := &s.snap

	v.BatteryLevel += s.batteryDir * 0.01
	if v.BatteryLevel >= telemetry.BatteryMax {
		v.BatteryLevel = telemetry.BatteryMax
		s.batteryDir = -1
	} else if v.BatteryLevel <= 0 {
		v.BatteryLevel = 0
		s.batteryDir = 1
	}

	v.Orientation = telemetry.NormalizeHeading(v.Orientation + s.headingDir*0.5)
	if s.rng.Chance(0.01) {
		s.headingDir = -s.headingDir
	}

	v.CasqueTemp += s.tempDir * 0.05
	v.BackpackTemp += s.tempDir * 0.05
	v.TempExt += s.tempDir * 0.03
	if v.CasqueTemp > 50 || v.CasqueTemp < 20 {
		s.tempDir = -s.tempDir
	}

	v.CasqueHumidity = 50 + 30*math.Sin(t/5)
	v.HumidityExt = 50 + 30*math.Cos(t/6)
	v.BackpackHumidity = 50 + 20*math.Sin(t/7)

	v.AirQualityExt = airLevel(math.Sin(t / 10))
	v.AirQualityInt = airLevel(math.Cos(t / 8))

	v.TargetFound = s.rng.Chance(s.cfg.TargetChance)
	v.LostConnection = s.rng.Chance(s.cfg.LostChance)
	return s.snap
}

// airLevel buckets an oscillation in [-1,1] into the 0/1/2 air quality scale.
func airLevel(osc float64) float64 {
	return min(math.Floor((osc+1)*1.5), telemetry.AirQualityMax)
}

// Run publishes one step per interval into store until ctx is done.
func (s *Sim) Run(ctx context.Context, store *telemetry.Store) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	s.log.Info("generating", "interval", s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next := s.Step()
			_ = store.Update(func(snap *telemetry.Snapshot) error {
				*snap = next
				return nil
			})
		}
	}
}

func init() {
	Register("sim", func(cfg map[string]string) Source {
		return NewSim(SimConfigFromMap(cfg))
	})
}
