// Package compass draws the heading ticker strip shown across the top of the
// visor: one tick per pixel column covering a fixed angular window centered on
// the current heading, plus N/E/S/O letters when they fall inside the window.
package compass

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"casque-hud/internal/render"
	"casque-hud/internal/telemetry"
)

// TickClass ranks tick marks by height.
type TickClass uint8

const (
	TickShort TickClass = iota
	TickMedium
	TickTall
)

// Layout fixes the band geometry. Positions are absolute pixel offsets from the
// frame edges so the strip moves with the frame size but never rescales.
type Layout struct {
	Margin       int     // horizontal inset on each side
	Top          int     // y of the tick baseline
	Window       float64 // visible degrees
	Thickness    int
	TallHeight   int
	MediumHeight int
	ShortHeight  int
	// LabelOffset is the baseline of numeric labels below Top.
	LabelOffset int
	// CardinalOffset is the baseline of cardinal letters below Top.
	CardinalOffset int
	DegreeSuffix   string
	Color          color.RGBA
}

// DefaultLayout returns the stock visor layout.
func DefaultLayout() Layout {
	return Layout{
		Margin:         50,
		Top:            50,
		Window:         120,
		Thickness:      3,
		TallHeight:     25,
		MediumHeight:   15,
		ShortHeight:    8,
		LabelOffset:    40,
		CardinalOffset: 50,
		DegreeSuffix:   "°",
		Color:          color.RGBA{G: 255, A: 255},
	}
}

// BandWidth returns the number of tick columns for a frame of the given width.
// It is zero when the margins leave no room.
func (l Layout) BandWidth(frameWidth int) int {
	return max(frameWidth-2*l.Margin, 0)
}

func (l Layout) height(c TickClass) int {
	switch c {
	case TickTall:
		return l.TallHeight
	case TickMedium:
		return l.MediumHeight
	default:
		return l.ShortHeight
	}
}

// Tick is one column of the strip.
type Tick struct {
	X      int // frame column
	Degree int // integer heading the column represents, in [0,360)
	Class  TickClass
	// Label is set on the first column of each run of a tall degree, where the
	// numeric label is anchored.
	Label bool
}

// Mark is a visible cardinal letter.
type Mark struct {
	Label  string
	Degree float64
	Delta  float64 // signed offset from the heading in (-180,180]
	X      int     // frame column of the letter's anchor point
}

var cardinals = []struct {
	label  string
	degree float64
}{
	{"N", 0},
	{"E", 90},
	{"S", 180},
	{"O", 270},
}

// Classify returns the tick class for an integer degree.
func Classify(deg int) TickClass {
	switch {
	case deg%10 == 0:
		return TickTall
	case deg%5 == 0:
		return TickMedium
	default:
		return TickShort
	}
}

// Ticks lays out every column of the strip for heading on a frame of the
// given width.
func Ticks(heading float64, frameWidth int, l Layout) []Tick {
	band := l.BandWidth(frameWidth)
	if band == 0 {
		return nil
	}
	heading = telemetry.NormalizeHeading(heading)
	start := heading - l.Window/2
	ticks := make([]Tick, band)
	prev := -1
	for px := range band {
		// Multiply before dividing so whole-degree columns land exactly.
		deg := start + float64(px)*l.Window/float64(band)
		d := int(telemetry.NormalizeHeading(deg))
		class := Classify(d)
		ticks[px] = Tick{
			X:      l.Margin + px,
			Degree: d,
			Class:  class,
			Label:  class == TickTall && d != prev,
		}
		prev = d
	}
	return ticks
}

// Delta returns the signed shortest rotation from heading to target, in
// (-180,180].
func Delta(target, heading float64) float64 {
	d := telemetry.NormalizeHeading(target - heading)
	if d > 180 {
		d -= 360
	}
	return d
}

// Cardinals returns the cardinal letters visible in the window for heading.
func Cardinals(heading float64, frameWidth int, l Layout) []Mark {
	band := l.BandWidth(frameWidth)
	if band == 0 {
		return nil
	}
	heading = telemetry.NormalizeHeading(heading)
	half := l.Window / 2
	centerX := frameWidth / 2
	var marks []Mark
	for _, c := range cardinals {
		delta := Delta(c.degree, heading)
		if math.Abs(delta) > half {
			continue
		}
		marks = append(marks, Mark{
			Label:  c.label,
			Degree: c.degree,
			Delta:  delta,
			X:      centerX + int(delta/half*float64(band)/2),
		})
	}
	return marks
}

// Render draws the strip onto frame. Any heading is accepted; it is
// normalized first. Pixels are overwritten, never blended.
func Render(frame *image.RGBA, heading float64, l Layout) {
	if frame == nil {
		return
	}
	width := frame.Bounds().Dx()
	for _, t := range Ticks(heading, width, l) {
		render.VLine(frame, t.X, l.Top, l.Top+l.height(t.Class), l.Thickness, l.Color)
		if t.Label {
			text := fmt.Sprintf("%d%s", t.Degree, l.DegreeSuffix)
			render.Text(frame, t.X-10, l.Top+l.LabelOffset, text, l.Color, false)
		}
	}
	for _, m := range Cardinals(heading, width, l) {
		render.Text(frame, m.X-10, l.Top+l.CardinalOffset, m.Label, l.Color, true)
	}
}
