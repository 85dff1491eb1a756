package render

import (
	"image"
	"image/color"
	"testing"

	"casque-hud/internal/core"
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

func countColor(img *image.RGBA, c color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestNewFrameFillsBackground(t *testing.T) {
	bg := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	img := NewFrame(core.Size{W: 7, H: 5}, bg)
	if got := countColor(img, bg); got != 35 {
		t.Fatalf("expected 35 background pixels, got %d", got)
	}
	if size := SizeOf(img); size != (core.Size{W: 7, H: 5}) {
		t.Fatalf("unexpected size %+v", size)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	img := NewFrame(core.Size{W: 4, H: 4}, black)
	cp := Clone(img)
	cp.SetRGBA(1, 1, white)
	if img.RGBAAt(1, 1) != black {
		t.Fatal("writing to clone modified original")
	}
}

func TestFillRectClipsToBounds(t *testing.T) {
	img := NewFrame(core.Size{W: 10, H: 10}, black)
	FillRect(img, -5, -5, 2, 2, white)
	if got := countColor(img, white); got != 9 {
		t.Fatalf("expected 3x3 clipped fill, got %d pixels", got)
	}
	FillRect(img, 20, 20, 30, 30, green)
	if got := countColor(img, green); got != 0 {
		t.Fatalf("fill outside frame touched %d pixels", got)
	}
}

func TestStrokeRectLeavesInteriorUntouched(t *testing.T) {
	img := NewFrame(core.Size{W: 20, H: 20}, black)
	StrokeRect(img, 5, 5, 14, 14, 2, white)
	if img.RGBAAt(5, 5) != white || img.RGBAAt(14, 14) != white {
		t.Fatal("corners should be stroked")
	}
	if img.RGBAAt(6, 6) != white {
		t.Fatal("thickness 2 should cover one pixel inside the edge")
	}
	if img.RGBAAt(9, 9) != black {
		t.Fatal("interior should stay untouched")
	}
}

func TestVLineThickness(t *testing.T) {
	img := NewFrame(core.Size{W: 10, H: 10}, black)
	VLine(img, 5, 2, 4, 3, white)
	if got := countColor(img, white); got != 9 {
		t.Fatalf("expected 3 columns x 3 rows, got %d", got)
	}
	for _, x := range []int{4, 5, 6} {
		if img.RGBAAt(x, 3) != white {
			t.Fatalf("column %d not drawn", x)
		}
	}
}

func TestLineEndpoints(t *testing.T) {
	img := NewFrame(core.Size{W: 10, H: 10}, black)
	Line(img, 1, 1, 8, 6, 1, white)
	if img.RGBAAt(1, 1) != white || img.RGBAAt(8, 6) != white {
		t.Fatal("line endpoints must be drawn")
	}
}

func TestFillCircleIsSymmetric(t *testing.T) {
	img := NewFrame(core.Size{W: 41, H: 41}, black)
	FillCircle(img, 20, 20, 10, green)
	for _, p := range [][2]int{{20, 20}, {10, 20}, {30, 20}, {20, 10}, {20, 30}} {
		if img.RGBAAt(p[0], p[1]) != green {
			t.Fatalf("point %v should be inside the disc", p)
		}
	}
	if img.RGBAAt(12, 12) != black {
		t.Fatal("corner of bounding square should be outside the disc")
	}
}

func TestStrokeEllipseArcHalves(t *testing.T) {
	img := NewFrame(core.Size{W: 100, H: 100}, black)
	StrokeEllipseArc(img, 50, 50, 20, 40, 180, 360, 1, white)
	for y := 51; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if img.RGBAAt(x, y) == white {
				t.Fatalf("upper arc drew below center at (%d,%d)", x, y)
			}
		}
	}
	if img.RGBAAt(50, 10) != white {
		t.Fatal("upper arc should reach the top of the ellipse")
	}

	StrokeEllipseArc(img, 50, 50, 20, 40, 0, 180, 1, green)
	if img.RGBAAt(50, 90) != green {
		t.Fatal("lower arc should reach the bottom of the ellipse")
	}
}

func TestBlendHalfDropsLowBit(t *testing.T) {
	dst := NewFrame(core.Size{W: 2, H: 1}, white)
	src := Clone(dst)
	Blend(dst, src, 0.5, dst.Bounds())
	got := dst.RGBAAt(0, 0)
	if got.R != 254 || got.G != 254 || got.B != 254 || got.A != 255 {
		t.Fatalf("half blend of white over white = %v, want 254 with opaque alpha", got)
	}
}

func TestBlendOpaqueCopiesSource(t *testing.T) {
	dst := NewFrame(core.Size{W: 3, H: 3}, black)
	src := NewFrame(core.Size{W: 3, H: 3}, white)
	Blend(dst, src, 1, dst.Bounds())
	if got := countColor(dst, white); got != 9 {
		t.Fatalf("opaque blend copied %d pixels, want 9", got)
	}
}

func TestBlendRespectsRegion(t *testing.T) {
	dst := NewFrame(core.Size{W: 4, H: 4}, black)
	src := NewFrame(core.Size{W: 4, H: 4}, white)
	Blend(dst, src, 0.5, image.Rect(0, 0, 2, 2))
	if got := dst.RGBAAt(3, 3); got != black {
		t.Fatalf("pixel outside region changed to %v", got)
	}
	if got := dst.RGBAAt(1, 1); got.R != 127 {
		t.Fatalf("pixel inside region = %v, want R=127", got)
	}
}

func TestBlendZeroAlphaIsNoop(t *testing.T) {
	dst := NewFrame(core.Size{W: 2, H: 2}, black)
	src := NewFrame(core.Size{W: 2, H: 2}, white)
	Blend(dst, src, 0, dst.Bounds())
	if got := countColor(dst, black); got != 4 {
		t.Fatalf("zero alpha changed %d pixels", 4-got)
	}
}

func TestTextDrawsGlyphs(t *testing.T) {
	img := NewFrame(core.Size{W: 40, H: 20}, black)
	Text(img, 2, 14, "N", green, false)
	if countColor(img, green) == 0 {
		t.Fatal("expected glyph pixels")
	}
	if w := TextWidth("N"); w != 7 {
		t.Fatalf("TextWidth(N) = %d, want 7", w)
	}
}

func TestNoSignalBands(t *testing.T) {
	img := NoSignal(core.Size{W: 8, H: 8})
	if img.RGBAAt(0, 0) != noSignalPalette[0] {
		t.Fatalf("top band = %v", img.RGBAAt(0, 0))
	}
	if img.RGBAAt(7, 7) != noSignalPalette[len(noSignalPalette)-1] {
		t.Fatalf("bottom band = %v", img.RGBAAt(7, 7))
	}
}
