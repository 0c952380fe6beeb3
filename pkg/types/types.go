package types

import "image"

// Box is a single object-detection label: a class id plus a center-based
// rectangle normalized to [0,1] relative to the image it belongs to
// (mosaic frame or crop frame, depending on context).
type Box struct {
	Class int     `json:"class"`
	Cx    float64 `json:"cx"`
	Cy    float64 `json:"cy"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// Area returns the normalized area of the box.
func (b Box) Area() float64 {
	return b.W * b.H
}

// FlippedH returns the box mirrored along the vertical axis of its frame.
func (b Box) FlippedH() Box {
	b.Cx = 1 - b.Cx
	return b
}

// PixelRect returns the box corners in pixel coordinates of an imgW x imgH
// frame. Corners are floats; callers decide how to round or clip.
func (b Box) PixelRect(imgW, imgH int) (x0, y0, x1, y1 float64) {
	fw, fh := float64(imgW), float64(imgH)
	x0 = (b.Cx - b.W/2) * fw
	y0 = (b.Cy - b.H/2) * fh
	x1 = (b.Cx + b.W/2) * fw
	y1 = (b.Cy + b.H/2) * fh
	return x0, y0, x1, y1
}

// Region is an axis-aligned crop window in mosaic pixel coordinates.
// The window spans [X0,X1) x [Y0,Y1).
type Region struct {
	X0, Y0, X1, Y1 int
}

// Width returns the region width in pixels.
func (r Region) Width() int {
	return r.X1 - r.X0
}

// Height returns the region height in pixels.
func (r Region) Height() int {
	return r.Y1 - r.Y0
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X0, r.Y0, r.X1, r.Y1)
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}
