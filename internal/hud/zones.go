package hud

import (
	"image"

	"casque-hud/internal/core"
	"casque-hud/internal/render"
	"casque-hud/internal/telemetry"
)

// Silhouette geometry, relative to its center.
const (
	bodyAxisX   = 100
	bodyAxisY   = 200
	bodyStroke  = 2
	trunkStroke = 3
	limbStroke  = 2
	badgeRadius = 20
	// Exterior air badge offset from the center.
	badgeExtDX = bodyAxisX + 30
	badgeExtDY = -bodyAxisY / 2
)

// DrawCrosshair draws the center reticle and the lock box whose color reports
// whether a target is locked.
func DrawCrosshair(frame *image.RGBA, locked bool, cfg Config) {
	cx, cy := render.SizeOf(frame).Center()
	p := cfg.Palette
	render.FillCircle(frame, cx, cy, cfg.ReticleRadius, p.Reticle)
	render.Line(frame, cx-cfg.CrossHalf, cy, cx+cfg.CrossHalf, cy, cfg.CrossThickness, p.Reticle)
	render.Line(frame, cx, cy-cfg.CrossHalf, cx, cy+cfg.CrossHalf, cfg.CrossThickness, p.Reticle)

	box := p.Unlocked
	if locked {
		box = p.Locked
	}
	half := cfg.LockBox / 2
	render.StrokeRect(frame, cx-half, cy-half, cx+half, cy+half, cfg.LockThickness, box)
}

// BatteryCells returns the rectangles of the charge cells for a frame of the
// given size, left to right. Corners are inclusive.
func BatteryCells(size core.Size, cfg Config) []image.Rectangle {
	y := size.H - cfg.BatteryBottom
	cells := make([]image.Rectangle, int(telemetry.BatteryMax))
	for i := range cells {
		x := cfg.BatteryLeft + i*(cfg.BatteryCellW+cfg.BatterySpacing)
		cells[i] = image.Rect(x, y, x+cfg.BatteryCellW, y+cfg.BatteryCellH)
	}
	return cells
}

// DrawBattery draws the battery bank with the first lit cells in the "on"
// color and the rest "off".
func DrawBattery(frame *image.RGBA, lit int, cfg Config) {
	size := render.SizeOf(frame)
	cells := BatteryCells(size, cfg)
	first, last := cells[0], cells[len(cells)-1]
	p := cfg.Palette

	render.StrokeRect(frame, first.Min.X-5, first.Min.Y-30, last.Max.X+5, last.Max.Y+5, 2, p.Outline)
	render.Text(frame, first.Min.X, first.Min.Y-10, cfg.BatteryLabel, p.Outline, true)
	for i, r := range cells {
		c := p.BatteryOff
		if i < lit {
			c = p.BatteryOn
		}
		render.FillRect(frame, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, c)
	}
}

// SilhouetteCenter returns the anchor of the status silhouette.
func SilhouetteCenter(size core.Size, cfg Config) (int, int) {
	return size.W - cfg.SilhouetteRight, size.H - cfg.SilhouetteBottom
}

// SilhouetteBounds returns the frame region the silhouette can touch.
func SilhouetteBounds(size core.Size, cfg Config) image.Rectangle {
	cx, cy := SilhouetteCenter(size, cfg)
	body := image.Rect(cx-bodyAxisX-1, cy-bodyAxisY-1, cx+bodyAxisX+2, cy+bodyAxisY+2)
	bx, by := cx+badgeExtDX, cy+badgeExtDY
	badge := image.Rect(bx-badgeRadius, by-badgeRadius, bx+badgeRadius+1, by+badgeRadius+1)
	frame := image.Rect(0, 0, size.W, size.H)
	return body.Union(badge).Intersect(frame)
}

// DrawSilhouette paints the status silhouette. Colors come from the snapshot
// through the configured ramps; s is expected to be clamped already.
func DrawSilhouette(overlay *image.RGBA, s telemetry.Snapshot, cfg Config) {
	cx, cy := SilhouetteCenter(render.SizeOf(overlay), cfg)
	r := cfg.Ramps
	white := cfg.Palette.Outline

	// Outline: upper half tracks exterior humidity, lower half exterior temperature.
	render.StrokeEllipseArc(overlay, cx, cy, bodyAxisX, bodyAxisY, 180, 360, bodyStroke, r.Humidity.At(s.HumidityExt))
	render.StrokeEllipseArc(overlay, cx, cy, bodyAxisX, bodyAxisY, 0, 180, bodyStroke, r.Thermal.At(s.TempExt))

	// Head.
	hx0, hy0, hx1, hy1 := cx-20, cy-bodyAxisY/2, cx+20, cy-bodyAxisY/2+40
	render.FillRect(overlay, hx0, hy0, hx1, hy1, r.Humidity.At(s.CasqueHumidity))
	render.StrokeRect(overlay, hx0, hy0, hx1, hy1, trunkStroke, r.Thermal.At(s.CasqueTemp))

	// Torso.
	tx0, ty0, tx1, ty1 := cx-20, cy-30, cx+20, cy+60
	render.FillRect(overlay, tx0, ty0, tx1, ty1, r.Humidity.At(s.HumidityExt))
	render.StrokeRect(overlay, tx0, ty0, tx1, ty1, trunkStroke, r.Thermal.At(s.BackpackTemp))

	// Arms then legs.
	render.StrokeRect(overlay, cx+20, cy-30, cx+60, cy+30, limbStroke, white)
	render.StrokeRect(overlay, cx-60, cy-30, cx-20, cy+30, limbStroke, white)
	render.StrokeRect(overlay, cx, cy+60, cx+20, cy+120, limbStroke, white)
	render.StrokeRect(overlay, cx-20, cy+60, cx, cy+120, limbStroke, white)

	render.FillCircle(overlay, cx+badgeExtDX, cy+badgeExtDY, badgeRadius, r.AirQuality.At(s.AirQualityExt))
	render.FillCircle(overlay, cx, cy, badgeRadius, r.AirQuality.At(s.AirQualityInt))
}
