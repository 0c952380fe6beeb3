// Package projector maps mosaic-frame label boxes into the local normalized
// frame of a crop region. It is pure geometry: no randomness, no state.
package projector

import (
	"math"

	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// Projected is a label re-expressed in a crop's local frame together with
// the fraction of the original box area that survived the crop.
type Projected struct {
	Box      types.Box
	Retained float64
}

// Project converts every box that intersects reg into the region's local
// normalized frame. The retained fraction uses the original (unclipped)
// box area as denominator, so it reflects how much of the true object is
// visible in the crop. Boxes with no intersection, or degenerate after
// clipping, are omitted.
func Project(boxes []types.Box, mosaicW, mosaicH int, reg types.Region) []Projected {
	out := make([]Projected, 0, len(boxes))
	rx0, ry0 := float64(reg.X0), float64(reg.Y0)
	rx1, ry1 := float64(reg.X1), float64(reg.Y1)
	rw, rh := float64(reg.Width()), float64(reg.Height())

	for _, b := range boxes {
		x0, y0, x1, y1 := b.PixelRect(mosaicW, mosaicH)

		origArea := (x1 - x0) * (y1 - y0)
		if origArea <= 0 {
			continue
		}

		// Clip to the region.
		cx0 := math.Max(x0, rx0)
		cy0 := math.Max(y0, ry0)
		cx1 := math.Min(x1, rx1)
		cy1 := math.Min(y1, ry1)
		if cx1 <= cx0 || cy1 <= cy0 {
			continue
		}

		retained := (cx1 - cx0) * (cy1 - cy0) / origArea

		out = append(out, Projected{
			Box: types.Box{
				Class: b.Class,
				Cx:    ((cx0+cx1)/2 - rx0) / rw,
				Cy:    ((cy0+cy1)/2 - ry0) / rh,
				W:     (cx1 - cx0) / rw,
				H:     (cy1 - cy0) / rh,
			},
			Retained: retained,
		})
	}
	return out
}
