package render

import (
	"image"
	"image/color"

	"casque-hud/internal/core"
)

// NewFrame allocates an opaque frame of the given size filled with bg.
func NewFrame(size core.Size, bg color.RGBA) *image.RGBA {
	w, h := size.W, size.H
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Fill(img, bg)
	return img
}

// SizeOf returns the frame dimensions; a nil frame has the zero size.
func SizeOf(img *image.RGBA) core.Size {
	if img == nil {
		return core.Size{}
	}
	b := img.Bounds()
	return core.Size{W: b.Dx(), H: b.Dy()}
}

// Fill paints every pixel of img with c using exponential copy.
func Fill(img *image.RGBA, c color.RGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]
	row[0], row[1], row[2], row[3] = c.R, c.G, c.B, c.A
	rowBytes := w * 4
	for filled := 4; filled < rowBytes; filled *= 2 {
		copy(row[filled:rowBytes], row[:filled])
	}
	for y := b.Min.Y + 1; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		copy(img.Pix[off:off+rowBytes], row[:rowBytes])
	}
}

// Clone returns an independent copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette,
// writing into buf in row-major order. Values past the palette end use the
// last entry; an empty palette clears to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

var noSignalPalette = []color.RGBA{
	{R: 12, G: 14, B: 18, A: 255},
	{R: 20, G: 24, B: 30, A: 255},
	{R: 28, G: 34, B: 42, A: 255},
	{R: 36, G: 44, B: 54, A: 255},
}

// NoSignal builds the dim banded backdrop shown when no camera feed is attached.
func NoSignal(size core.Size) *image.RGBA {
	img := NewFrame(size, noSignalPalette[0])
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cells := make([]uint8, w*h)
	bands := len(noSignalPalette)
	for y := 0; y < h; y++ {
		band := uint8(y * bands / h)
		row := cells[y*w : (y+1)*w]
		for x := range row {
			row[x] = band
		}
	}
	fillPaletteRGBA(img.Pix, cells, noSignalPalette)
	return img
}
