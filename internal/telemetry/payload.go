package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Field keys as they appear on the bus and in JSON payloads.
const (
	KeyOrientation      = "orientation"
	KeyBatteryLevel     = "battery_level"
	KeyCasqueTemp       = "casque_temp"
	KeyCasqueHumidity   = "casque_humidity"
	KeyTempExt          = "temp_ext"
	KeyHumidityExt      = "humidity_ext"
	KeyBackpackTemp     = "backpack_temp"
	KeyBackpackHumidity = "backpack_humidity"
	KeyAirQualityExt    = "air_quality_ext"
	KeyAirQualityInt    = "air_quality_int"
	KeyTargetFound      = "target_found"
	KeyLostConnection   = "lost_connection"
)

var (
	// ErrUnknownField is returned when a payload names a field the snapshot does not carry.
	ErrUnknownField = errors.New("telemetry: unknown field")
	// ErrBadValue is returned when a payload value has the wrong shape for its field.
	ErrBadValue = errors.New("telemetry: bad value")
)

// Keys lists every snapshot field key in display order.
func Keys() []string {
	return []string{
		KeyOrientation, KeyBatteryLevel,
		KeyCasqueTemp, KeyCasqueHumidity,
		KeyTempExt, KeyHumidityExt,
		KeyBackpackTemp, KeyBackpackHumidity,
		KeyAirQualityExt, KeyAirQualityInt,
		KeyTargetFound, KeyLostConnection,
	}
}

// ApplyJSON merges a JSON object keyed by field names into s. Keys that are
// absent leave the current value untouched. On error s is left unchanged.
func ApplyJSON(s *Snapshot, data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrBadValue, err)
	}
	next := *s
	for key, value := range raw {
		if err := SetField(&next, key, value); err != nil {
			return err
		}
	}
	*s = next
	return nil
}

// SetField decodes one field value and stores it in s. The value may be a bare
// JSON scalar (23.5, true) or an object of the form {"value": 23.5}.
func SetField(s *Snapshot, key string, value []byte) error {
	value = unwrapValue(value)
	switch key {
	case KeyTargetFound, KeyLostConnection:
		b, err := decodeBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadValue, key, err)
		}
		if key == KeyTargetFound {
			s.TargetFound = b
		} else {
			s.LostConnection = b
		}
		return nil
	}

	ptr := s.floatField(key)
	if ptr == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadValue, key, err)
	}
	*ptr = f
	return nil
}

func (s *Snapshot) floatField(key string) *float64 {
	switch key {
	case KeyOrientation:
		return &s.Orientation
	case KeyBatteryLevel:
		return &s.BatteryLevel
	case KeyCasqueTemp:
		return &s.CasqueTemp
	case KeyCasqueHumidity:
		return &s.CasqueHumidity
	case KeyTempExt:
		return &s.TempExt
	case KeyHumidityExt:
		return &s.HumidityExt
	case KeyBackpackTemp:
		return &s.BackpackTemp
	case KeyBackpackHumidity:
		return &s.BackpackHumidity
	case KeyAirQualityExt:
		return &s.AirQualityExt
	case KeyAirQualityInt:
		return &s.AirQualityInt
	}
	return nil
}

func unwrapValue(value []byte) []byte {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var wrapped struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || wrapped.Value == nil {
		return trimmed
	}
	return wrapped.Value
}

// decodeBool accepts JSON booleans and the 0/1 integers that microcontroller
// publishers tend to send.
func decodeBool(value []byte) (bool, error) {
	var b bool
	if err := json.Unmarshal(value, &b); err == nil {
		return b, nil
	}
	var f float64
	if err := json.Unmarshal(value, &f); err != nil {
		return false, err
	}
	return f != 0, nil
}
