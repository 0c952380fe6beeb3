// Package preview renders label boxes onto images for visual inspection.
package preview

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// White is the default box color for preview overlays.
var White = color.NRGBA{255, 255, 255, 255}

// DrawLabels returns a copy of img with every label's rectangle drawn on it
// in white. lineWidth is the stroke width in pixels; values below 1 are
// treated as 1. The input image is never modified.
func DrawLabels(img image.Image, boxes []types.Box, lineWidth int) *image.NRGBA {
	return DrawLabelsColor(img, boxes, lineWidth, White)
}

// DrawLabelsColor is DrawLabels with a caller-chosen box color.
func DrawLabelsColor(img image.Image, boxes []types.Box, lineWidth int, c color.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	if lineWidth < 1 {
		lineWidth = 1
	}

	for _, b := range boxes {
		drawBox(out, b, w, h, c, lineWidth)
	}
	return out
}

func boxToPixels(b types.Box, w, h int) (int, int, int, int) {
	fx0, fy0, fx1, fy1 := b.PixelRect(w, h)
	x0 := int(clamp(fx0, 0, float64(w)) + 0.5)
	y0 := int(clamp(fy0, 0, float64(h)) + 0.5)
	x1 := int(clamp(fx1, 0, float64(w)) + 0.5)
	y1 := int(clamp(fy1, 0, float64(h)) + 0.5)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func drawBox(img *image.NRGBA, b types.Box, w, h int, c color.NRGBA, stroke int) {
	x0, y0, x1, y1 := boxToPixels(b, w, h)
	for s := 0; s < stroke; s++ {
		drawHLine(img, y0+s, x0, x1, c)
		drawHLine(img, y1-1-s, x0, x1, c)
		drawVLine(img, x0+s, y0, y1, c)
		drawVLine(img, x1-1-s, y0, y1, c)
	}
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
