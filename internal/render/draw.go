package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// All primitives overwrite pixels (draw.Src) and clip silently to the frame.
// Corner coordinates are inclusive. Strokes of thickness t straddle the
// nominal edge, with the extra pixel of an even width going right/down.

// FillRect fills the inclusive rectangle (x0,y0)-(x1,y1).
func FillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r := image.Rect(x0, y0, x1+1, y1+1).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// StrokeRect outlines the inclusive rectangle (x0,y0)-(x1,y1).
func StrokeRect(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.RGBA) {
	if thickness < 1 {
		thickness = 1
	}
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	lo := (thickness - 1) / 2
	hi := thickness / 2
	ox0, oy0, ox1, oy1 := x0-lo, y0-lo, x1+hi, y1+hi
	FillRect(img, ox0, oy0, ox1, oy0+thickness-1, c) // top
	FillRect(img, ox0, oy1-thickness+1, ox1, oy1, c) // bottom
	FillRect(img, ox0, oy0, ox0+thickness-1, oy1, c) // left
	FillRect(img, ox1-thickness+1, oy0, ox1, oy1, c) // right
}

// VLine draws a vertical segment from y0 to y1 centered on column x.
func VLine(img *image.RGBA, x, y0, y1, thickness int, c color.RGBA) {
	if thickness < 1 {
		thickness = 1
	}
	lo := (thickness - 1) / 2
	FillRect(img, x-lo, y0, x-lo+thickness-1, y1, c)
}

// Line draws a segment using Bresenham stepping and a square brush.
func Line(img *image.RGBA, x0, y0, x1, y1, thickness int, c color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		stamp(img, x0, y0, thickness, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle fills the disc of radius r centered at (cx,cy).
func FillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	if r < 0 {
		return
	}
	rr := float64(r) * float64(r)
	for dy := -r; dy <= r; dy++ {
		span := int(math.Sqrt(rr - float64(dy*dy)))
		FillRect(img, cx-span, cy+dy, cx+span, cy+dy, c)
	}
}

// StrokeEllipseArc outlines the part of the axis-aligned ellipse with semi-axes
// (ax,ay) between startDeg and endDeg. Angles follow image coordinates: 0° is
// +x and angles grow towards +y, so 0..180 is the lower half and 180..360 the
// upper half.
func StrokeEllipseArc(img *image.RGBA, cx, cy, ax, ay int, startDeg, endDeg float64, thickness int, c color.RGBA) {
	if ax < 0 || ay < 0 {
		return
	}
	if endDeg < startDeg {
		startDeg, endDeg = endDeg, startDeg
	}
	radius := max(ax, ay, 1)
	// One sample per pixel of arc length along the larger axis.
	step := 180 / (math.Pi * float64(radius))
	lastX, lastY := math.MinInt, math.MinInt
	for deg := startDeg; ; deg += step {
		if deg > endDeg {
			deg = endDeg
		}
		rad := deg * math.Pi / 180
		x := cx + int(math.Round(float64(ax)*math.Cos(rad)))
		y := cy + int(math.Round(float64(ay)*math.Sin(rad)))
		if x != lastX || y != lastY {
			stamp(img, x, y, thickness, c)
			lastX, lastY = x, y
		}
		if deg >= endDeg {
			return
		}
	}
}

func stamp(img *image.RGBA, x, y, thickness int, c color.RGBA) {
	if thickness <= 1 {
		if (image.Point{X: x, Y: y}).In(img.Bounds()) {
			img.SetRGBA(x, y, c)
		}
		return
	}
	lo := (thickness - 1) / 2
	FillRect(img, x-lo, y-lo, x-lo+thickness-1, y-lo+thickness-1, c)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
