package ui

import (
	"image"
	"strings"

	"casque-hud/internal/core"
	"casque-hud/internal/telemetry"
)

// Line is one row of the readout panel.
type Line struct {
	Text   string
	Header bool
	Alert  bool
}

// Lines flattens a parameter snapshot into panel rows: a header per group
// followed by one "label  value unit" row per parameter. Bool readouts that
// are on are flagged as alerts, except the target lock.
func Lines(snap core.ParameterSnapshot) []Line {
	var out []Line
	for _, group := range snap.Groups {
		out = append(out, Line{Text: strings.ToUpper(group.Name), Header: true})
		for _, p := range group.Params {
			value := p.Value
			alert := false
			if p.Type == core.ParamTypeBool {
				on := value == "true"
				value = "off"
				if on {
					value = "ON"
					alert = p.Key != telemetry.KeyTargetFound
				}
			}
			text := p.Label + "  " + value
			if p.Unit != "" {
				text += " " + p.Unit
			}
			out = append(out, Line{Text: text, Alert: alert})
		}
	}
	return out
}

// Toggle is a clickable on/off switch shown under the readouts.
type Toggle struct {
	Label string
	On    func() bool
	Flip  func()
}

// toggleRects lays out one button per toggle below the readout rows.
func toggleRects(width, rows, toggles int) []image.Rectangle {
	out := make([]image.Rectangle, toggles)
	top := panelPadding + rows*rowHeight + sectionGap
	for i := range out {
		y := top + i*lineHeight + (lineHeight-buttonSize)/2
		out[i] = image.Rect(width-panelPadding-2*buttonSize, y, width-panelPadding, y+buttonSize)
	}
	return out
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding = 12
	rowHeight    = 16
	lineHeight   = 36
	buttonSize   = 24
	sectionGap   = 14
	baseline     = 12
)
