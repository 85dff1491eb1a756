package telemetry

import "math"

// Domain bounds for snapshot fields.
const (
	BatteryMax    = 4.0
	PercentMax    = 100.0
	AirQualityMax = 2.0
)

// Snapshot bundles the latest sensor and status values that drive the HUD.
// It is a plain value: callers pass it by copy and the compositor never keeps
// a reference past a render call.
type Snapshot struct {
	Orientation      float64 `json:"orientation"`
	BatteryLevel     float64 `json:"battery_level"`
	CasqueTemp       float64 `json:"casque_temp"`
	CasqueHumidity   float64 `json:"casque_humidity"`
	TempExt          float64 `json:"temp_ext"`
	HumidityExt      float64 `json:"humidity_ext"`
	BackpackTemp     float64 `json:"backpack_temp"`
	BackpackHumidity float64 `json:"backpack_humidity"`
	AirQualityExt    float64 `json:"air_quality_ext"`
	AirQualityInt    float64 `json:"air_quality_int"`
	TargetFound      bool    `json:"target_found"`
	LostConnection   bool    `json:"lost_connection"`
}

// Default returns the resting snapshot shown before any telemetry arrives.
func Default() Snapshot {
	return Snapshot{
		Orientation:      0,
		BatteryLevel:     BatteryMax,
		CasqueTemp:       25,
		CasqueHumidity:   50,
		TempExt:          25,
		HumidityExt:      50,
		BackpackTemp:     25,
		BackpackHumidity: 50,
		AirQualityExt:    0,
		AirQualityInt:    0,
	}
}

// Clamped returns a copy with every numeric field forced into its domain and
// the heading normalized to [0,360).
func (s Snapshot) Clamped() Snapshot {
	s.Orientation = NormalizeHeading(s.Orientation)
	s.BatteryLevel = clamp(s.BatteryLevel, 0, BatteryMax)
	s.CasqueTemp = clamp(s.CasqueTemp, 0, PercentMax)
	s.CasqueHumidity = clamp(s.CasqueHumidity, 0, PercentMax)
	s.TempExt = clamp(s.TempExt, 0, PercentMax)
	s.HumidityExt = clamp(s.HumidityExt, 0, PercentMax)
	s.BackpackTemp = clamp(s.BackpackTemp, 0, PercentMax)
	s.BackpackHumidity = clamp(s.BackpackHumidity, 0, PercentMax)
	s.AirQualityExt = clamp(s.AirQualityExt, 0, AirQualityMax)
	s.AirQualityInt = clamp(s.AirQualityInt, 0, AirQualityMax)
	return s
}

// BatteryCells returns how many whole charge cells are lit.
func (s Snapshot) BatteryCells() int {
	return int(math.Floor(clamp(s.BatteryLevel, 0, BatteryMax)))
}

// NormalizeHeading maps any finite angle into [0,360). Non-finite input maps to 0.
func NormalizeHeading(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
