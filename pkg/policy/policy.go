// Package policy decides which projected labels survive a crop and whether
// the crop as a whole is usable as a training image.
package policy

import (
	"github.com/menta2k/mosaic-dataset/pkg/projector"
	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// partialEps absorbs floating-point noise when deciding whether a label was
// clipped at all.
const partialEps = 1e-9

// Policy holds the acceptance thresholds for labels and images.
type Policy struct {
	// MinAreaFraction is the minimum retained-area fraction for a label to
	// be kept. A label exactly at the threshold is kept.
	MinAreaFraction float64
	// MinLabels is the minimum number of kept labels for a crop to be
	// accepted.
	MinLabels int
	// RejectPartial rejects any crop that clips a label, regardless of the
	// area threshold.
	RejectPartial bool
}

// Filter returns the labels whose retained fraction meets the area
// threshold, in input order.
func (p Policy) Filter(projected []projector.Projected) []types.Box {
	kept := make([]types.Box, 0, len(projected))
	for _, pr := range projected {
		if pr.Retained >= p.MinAreaFraction {
			kept = append(kept, pr.Box)
		}
	}
	return kept
}

// Accept reports whether a crop with the given kept labels is usable.
func (p Policy) Accept(kept []types.Box) bool {
	return len(kept) >= p.MinLabels
}

// HasPartial reports whether any projected label was clipped by the crop
// boundary.
func HasPartial(projected []projector.Projected) bool {
	for _, pr := range projected {
		if pr.Retained < 1-partialEps {
			return true
		}
	}
	return false
}
