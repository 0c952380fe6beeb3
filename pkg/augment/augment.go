// Package augment applies randomized photometric augmentation to cropped
// training images: horizontal flip, brightness, contrast and a Gaussian
// vignette. The flip keeps label boxes consistent with the mirrored pixels;
// the photometric stages leave labels untouched.
package augment

import (
	"image"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"

	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// Config holds the augmentation toggles and parameter ranges. A disabled
// stage is the identity transform. Brightness and contrast are expressed as
// percentages in [-100,100] as understood by the imaging package.
type Config struct {
	FlipEnabled bool    `json:"flip_enabled"`
	FlipProb    float64 `json:"flip_prob"`

	BrightnessEnabled bool    `json:"brightness_enabled"`
	BrightnessMin     float64 `json:"brightness_min"`
	BrightnessMax     float64 `json:"brightness_max"`

	ContrastEnabled bool    `json:"contrast_enabled"`
	ContrastMin     float64 `json:"contrast_min"`
	ContrastMax     float64 `json:"contrast_max"`

	// Vignette strength is a multiplier on the base Gaussian sigma (half
	// the larger image dimension). Smaller sigma means darker corners.
	// The focus center is drawn from the configured relative ranges.
	VignetteEnabled  bool    `json:"vignette_enabled"`
	VignetteSigmaMin float64 `json:"vignette_sigma_min"`
	VignetteSigmaMax float64 `json:"vignette_sigma_max"`
	VignetteCxMin    float64 `json:"vignette_cx_min"`
	VignetteCxMax    float64 `json:"vignette_cx_max"`
	VignetteCyMin    float64 `json:"vignette_cy_min"`
	VignetteCyMax    float64 `json:"vignette_cy_max"`
}

// DefaultConfig returns augmentation settings suitable for overhead imagery.
func DefaultConfig() Config {
	return Config{
		FlipEnabled:       true,
		FlipProb:          0.5,
		BrightnessEnabled: true,
		BrightnessMin:     -10,
		BrightnessMax:     10,
		ContrastEnabled:   true,
		ContrastMin:       -10,
		ContrastMax:       10,
		VignetteEnabled:   true,
		VignetteSigmaMin:  0.5,
		VignetteSigmaMax:  1.25,
		VignetteCxMin:     0.4,
		VignetteCxMax:     0.6,
		VignetteCyMin:     0.4,
		VignetteCyMax:     0.6,
	}
}

// Augmenter applies randomized augmentation using its own random stream, so
// independent instances never interfere and a seeded stream reproduces the
// same sequence of draws.
type Augmenter struct {
	cfg Config
	rng *rand.Rand
}

// New creates an Augmenter with the given configuration and random stream.
func New(cfg Config, rng *rand.Rand) *Augmenter {
	return &Augmenter{cfg: cfg, rng: rng}
}

// Apply runs the augmentation pipeline on img and its labels. The order is
// fixed: flip, brightness, contrast, vignette. The input image and label
// slice are never modified; the result is always a fresh buffer.
func (a *Augmenter) Apply(img image.Image, boxes []types.Box) (*image.NRGBA, []types.Box) {
	out := imaging.Clone(img)
	outBoxes := append([]types.Box(nil), boxes...)

	if a.cfg.FlipEnabled && a.rng.Float64() < a.cfg.FlipProb {
		out, outBoxes = FlipHorizontal(out, outBoxes)
	}
	if a.cfg.BrightnessEnabled {
		out = imaging.AdjustBrightness(out, a.uniform(a.cfg.BrightnessMin, a.cfg.BrightnessMax))
	}
	if a.cfg.ContrastEnabled {
		out = imaging.AdjustContrast(out, a.uniform(a.cfg.ContrastMin, a.cfg.ContrastMax))
	}
	if a.cfg.VignetteEnabled {
		out = Vignette(out,
			a.uniform(a.cfg.VignetteSigmaMin, a.cfg.VignetteSigmaMax),
			a.uniform(a.cfg.VignetteCxMin, a.cfg.VignetteCxMax),
			a.uniform(a.cfg.VignetteCyMin, a.cfg.VignetteCyMax))
	}
	return out, outBoxes
}

func (a *Augmenter) uniform(lo, hi float64) float64 {
	return lo + a.rng.Float64()*(hi-lo)
}

// FlipHorizontal mirrors the image along its vertical axis and mirrors each
// label's horizontal center to match. Applying it twice restores the
// original pixels and centers exactly, since 1-(1-cx) == cx.
func FlipHorizontal(img image.Image, boxes []types.Box) (*image.NRGBA, []types.Box) {
	flipped := imaging.FlipH(img)
	outBoxes := make([]types.Box, len(boxes))
	for i, b := range boxes {
		outBoxes[i] = b.FlippedH()
	}
	return flipped, outBoxes
}

// Vignette darkens the image with a 2D Gaussian falloff around a focus
// point given in relative coordinates. sigmaMult scales the base sigma of
// half the larger image dimension. The attenuation is 1 at the focus and
// decreases monotonically with distance, so the result needs no extra
// clamping. The input image is not modified.
func Vignette(img image.Image, sigmaMult, cxRel, cyRel float64) *image.NRGBA {
	out := imaging.Clone(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	if w == 0 || h == 0 {
		return out
	}

	sigma := sigmaMult * float64(max(w, h)) / 2
	if sigma <= 0 {
		return out
	}
	cx := cxRel * float64(w)
	cy := cyRel * float64(h)
	denom := 2 * sigma * sigma

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		i := y * out.Stride
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			m := math.Exp(-(dx*dx + dy*dy) / denom)
			out.Pix[i+0] = uint8(float64(out.Pix[i+0])*m + 0.5)
			out.Pix[i+1] = uint8(float64(out.Pix[i+1])*m + 0.5)
			out.Pix[i+2] = uint8(float64(out.Pix[i+2])*m + 0.5)
			i += 4
		}
	}
	return out
}
