package telemetry

import (
	"strconv"

	"casque-hud/internal/core"
)

// Parameters renders the snapshot as labelled readout groups for text panels.
func (s Snapshot) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "Navigation",
			Params: []core.Parameter{
				floatParam(KeyOrientation, "Heading", s.Orientation, "deg"),
				floatParam(KeyBatteryLevel, "Battery", s.BatteryLevel, "/4"),
			},
		},
		{
			Name: "Helmet",
			Params: []core.Parameter{
				floatParam(KeyCasqueTemp, "Temp", s.CasqueTemp, "C"),
				floatParam(KeyCasqueHumidity, "Humidity", s.CasqueHumidity, "%"),
				floatParam(KeyAirQualityInt, "Air", s.AirQualityInt, ""),
			},
		},
		{
			Name: "Backpack",
			Params: []core.Parameter{
				floatParam(KeyBackpackTemp, "Temp", s.BackpackTemp, "C"),
				floatParam(KeyBackpackHumidity, "Humidity", s.BackpackHumidity, "%"),
			},
		},
		{
			Name: "Exterior",
			Params: []core.Parameter{
				floatParam(KeyTempExt, "Temp", s.TempExt, "C"),
				floatParam(KeyHumidityExt, "Humidity", s.HumidityExt, "%"),
				floatParam(KeyAirQualityExt, "Air", s.AirQualityExt, ""),
			},
		},
		{
			Name: "Status",
			Params: []core.Parameter{
				boolParam(KeyTargetFound, "Target", s.TargetFound),
				boolParam(KeyLostConnection, "Link lost", s.LostConnection),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func floatParam(key, label string, value float64, unit string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', 1, 64),
		Unit:  unit,
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}
