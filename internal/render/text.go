package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Face is the bitmap font used for every HUD label.
var Face font.Face = basicfont.Face7x13

// Text draws s with its baseline origin at (x,y). Bold text is struck twice
// one pixel apart.
func Text(img *image.RGBA, x, y int, s string, c color.RGBA, bold bool) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
	if bold {
		d.Dot = fixed.P(x+1, y)
		d.DrawString(s)
	}
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(Face, s).Ceil()
}
