// Package gradient maps bounded scalar readings onto two-color ramps.
package gradient

import (
	"image/color"
	"math"
)

// Interpolate returns the color at value on the linear ramp from low (at min)
// to high (at max). The ratio is clamped to [0,1]; a degenerate domain where
// max == min yields low. Channels are interpolated independently and rounded.
func Interpolate(value, min, max float64, low, high color.RGBA) color.RGBA {
	t := ratio(value, min, max)
	return color.RGBA{
		R: lerpComponent(low.R, high.R, t),
		G: lerpComponent(low.G, high.G, t),
		B: lerpComponent(low.B, high.B, t),
		A: 0xff,
	}
}

// Gradient is a named two-stop ramp over a fixed domain.
type Gradient struct {
	Min  float64
	Max  float64
	Low  color.RGBA
	High color.RGBA
}

// At returns the ramp color for value.
func (g Gradient) At(value float64) color.RGBA {
	return Interpolate(value, g.Min, g.Max, g.Low, g.High)
}

// Endpoint colors shared by the stock ramps.
var (
	Green     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Red       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	LightBlue = color.RGBA{R: 173, G: 216, B: 230, A: 255}
	Navy      = color.RGBA{R: 0, G: 0, B: 139, A: 255}
)

// Stock ramps for temperature (°C), relative humidity (%) and air quality index.
var (
	Thermal    = Gradient{Min: 0, Max: 100, Low: Green, High: Red}
	Humidity   = Gradient{Min: 0, Max: 100, Low: LightBlue, High: Navy}
	AirQuality = Gradient{Min: 0, Max: 2, Low: Green, High: Blue}
)

func ratio(value, min, max float64) float64 {
	span := max - min
	if span == 0 || math.IsNaN(span) || math.IsNaN(value) {
		return 0
	}
	return clamp01((value - min) / span)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpComponent(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a)*(1-t) + float64(b)*t)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
