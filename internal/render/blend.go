package render

import (
	"image"
	"math"
)

// Blend mixes src into dst inside region: dst = src*alpha + dst*(1-alpha).
// Weights are 8.8 fixed point and each term is truncated separately, so a
// half blend of two equal channels drops the low bit (255 -> 254). Alpha 1
// copies src exactly and alpha 0 leaves dst untouched. The alpha channel of
// dst is preserved. src and dst must share bounds.
func Blend(dst, src *image.RGBA, alpha float64, region image.Rectangle) {
	region = region.Intersect(dst.Bounds()).Intersect(src.Bounds())
	if region.Empty() || alpha <= 0 || math.IsNaN(alpha) {
		return
	}
	rowBytes := region.Dx() * 4
	if alpha >= 1 {
		for y := region.Min.Y; y < region.Max.Y; y++ {
			off := dst.PixOffset(region.Min.X, y)
			soff := src.PixOffset(region.Min.X, y)
			copy(dst.Pix[off:off+rowBytes], src.Pix[soff:soff+rowBytes])
		}
		return
	}

	a := uint32(math.Round(alpha * 256))
	inv := 256 - a
	for y := region.Min.Y; y < region.Max.Y; y++ {
		d := dst.Pix[dst.PixOffset(region.Min.X, y):][:rowBytes]
		s := src.Pix[src.PixOffset(region.Min.X, y):][:rowBytes]
		for i := 0; i < rowBytes; i += 4 {
			d[i+0] = uint8((uint32(s[i+0])*a)>>8 + (uint32(d[i+0])*inv)>>8)
			d[i+1] = uint8((uint32(s[i+1])*a)>>8 + (uint32(d[i+1])*inv)>>8)
			d[i+2] = uint8((uint32(s[i+2])*a)>>8 + (uint32(d[i+2])*inv)>>8)
		}
	}
}
