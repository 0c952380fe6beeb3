// Package sampler draws random crop regions from the usable part of a
// mosaic image.
package sampler

import (
	"fmt"
	"math/rand"

	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// Sampler produces uniformly distributed crop regions. Width and height are
// drawn independently from their configured ranges, then the top-left corner
// is drawn so the region lies entirely inside the usable area.
type Sampler struct {
	usable                 types.Region
	minW, maxW, minH, maxH int
	rng                    *rand.Rand
}

// New creates a Sampler. It fails if the crop-size range does not fit the
// usable area in either dimension; this check runs once here so Sample can
// never fail.
func New(usable types.Region, minW, maxW, minH, maxH int, rng *rand.Rand) (*Sampler, error) {
	if usable.Empty() {
		return nil, fmt.Errorf("usable area %v is empty", usable)
	}
	if minW < 1 || minH < 1 {
		return nil, fmt.Errorf("crop size must be at least 1x1, got min %dx%d", minW, minH)
	}
	if minW > maxW || minH > maxH {
		return nil, fmt.Errorf("crop size range inverted: width [%d,%d], height [%d,%d]", minW, maxW, minH, maxH)
	}
	if maxW > usable.Width() || maxH > usable.Height() {
		return nil, fmt.Errorf("max crop size %dx%d exceeds usable area %dx%d",
			maxW, maxH, usable.Width(), usable.Height())
	}
	return &Sampler{
		usable: usable,
		minW:   minW, maxW: maxW,
		minH: minH, maxH: maxH,
		rng: rng,
	}, nil
}

// Sample returns a random region inside the usable area.
func (s *Sampler) Sample() types.Region {
	w := s.minW + s.rng.Intn(s.maxW-s.minW+1)
	h := s.minH + s.rng.Intn(s.maxH-s.minH+1)
	x0 := s.usable.X0 + s.rng.Intn(s.usable.Width()-w+1)
	y0 := s.usable.Y0 + s.rng.Intn(s.usable.Height()-h+1)
	return types.Region{X0: x0, Y0: y0, X1: x0 + w, Y1: y0 + h}
}
