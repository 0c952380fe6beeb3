package mosaicdataset

import (
	"fmt"

	"github.com/menta2k/mosaic-dataset/pkg/augment"
)

// Config holds every parameter of a dataset. It is validated once by Create;
// after that the dataset treats it as immutable.
type Config struct {
	// Crop size ranges in pixels. Each generated image's width and height
	// are drawn uniformly from these ranges. Set min == max for a fixed
	// output size.
	MinCropWidth  int `json:"min_crop_width"`
	MaxCropWidth  int `json:"max_crop_width"`
	MinCropHeight int `json:"min_crop_height"`
	MaxCropHeight int `json:"max_crop_height"`

	// Usable sub-area of the mosaic, as ratios of its size (0 is top/left,
	// 1 is bottom/right). Restricting the area lets one mosaic serve
	// several dataset splits.
	XRatioMin float64 `json:"x_ratio_min"`
	XRatioMax float64 `json:"x_ratio_max"`
	YRatioMin float64 `json:"y_ratio_min"`
	YRatioMax float64 `json:"y_ratio_max"`

	// MinLabelArea is the minimum fraction of a label's original area that
	// must survive the crop for the label to be kept.
	MinLabelArea float64 `json:"min_label_area"`

	// MinLabels is the minimum number of kept labels per generated image.
	MinLabels int `json:"min_labels"`

	// RejectPartial discards any crop that clips a label, regardless of
	// MinLabelArea.
	RejectPartial bool `json:"reject_partial"`

	// MaxRetries bounds the crop search per GetImage call.
	MaxRetries int `json:"max_retries"`

	// Seed initializes the dataset's random stream. Zero seeds from the
	// current time.
	Seed int64 `json:"seed"`

	Augment augment.Config `json:"augment"`
}

// DefaultConfig returns a configuration suitable for typical survey
// mosaics: 640x480 crops, the full mosaic usable, at least one label per
// image with half its area visible.
func DefaultConfig() Config {
	return Config{
		MinCropWidth:  640,
		MaxCropWidth:  640,
		MinCropHeight: 480,
		MaxCropHeight: 480,
		XRatioMin:     0,
		XRatioMax:     1,
		YRatioMin:     0,
		YRatioMax:     1,
		MinLabelArea:  0.5,
		MinLabels:     1,
		MaxRetries:    1000,
		Augment:       augment.DefaultConfig(),
	}
}

// Validate checks the configuration for self-consistency. Compatibility
// with the mosaic's pixel size is checked separately by Create, once the
// mosaic is loaded.
func (c Config) Validate() error {
	if c.MinCropWidth < 1 || c.MinCropHeight < 1 {
		return fmt.Errorf("crop size must be at least 1x1, got min %dx%d", c.MinCropWidth, c.MinCropHeight)
	}
	if c.MinCropWidth > c.MaxCropWidth {
		return fmt.Errorf("crop width range inverted: [%d,%d]", c.MinCropWidth, c.MaxCropWidth)
	}
	if c.MinCropHeight > c.MaxCropHeight {
		return fmt.Errorf("crop height range inverted: [%d,%d]", c.MinCropHeight, c.MaxCropHeight)
	}
	if err := validateRatioRange("x_ratio", c.XRatioMin, c.XRatioMax); err != nil {
		return err
	}
	if err := validateRatioRange("y_ratio", c.YRatioMin, c.YRatioMax); err != nil {
		return err
	}
	if c.MinLabelArea < 0 || c.MinLabelArea > 1 {
		return fmt.Errorf("min_label_area must be in [0,1], got %g", c.MinLabelArea)
	}
	if c.MinLabels < 0 {
		return fmt.Errorf("min_labels must be non-negative, got %d", c.MinLabels)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1, got %d", c.MaxRetries)
	}
	return validateAugment(c.Augment)
}

func validateRatioRange(name string, lo, hi float64) error {
	if lo < 0 || hi > 1 {
		return fmt.Errorf("%s range [%g,%g] outside [0,1]", name, lo, hi)
	}
	if lo >= hi {
		return fmt.Errorf("%s range [%g,%g] is empty", name, lo, hi)
	}
	return nil
}

func validateAugment(a augment.Config) error {
	if a.FlipEnabled && (a.FlipProb < 0 || a.FlipProb > 1) {
		return fmt.Errorf("flip_prob must be in [0,1], got %g", a.FlipProb)
	}
	if a.BrightnessEnabled && a.BrightnessMin > a.BrightnessMax {
		return fmt.Errorf("brightness range inverted: [%g,%g]", a.BrightnessMin, a.BrightnessMax)
	}
	if a.ContrastEnabled && a.ContrastMin > a.ContrastMax {
		return fmt.Errorf("contrast range inverted: [%g,%g]", a.ContrastMin, a.ContrastMax)
	}
	if a.VignetteEnabled {
		if a.VignetteSigmaMin <= 0 || a.VignetteSigmaMin > a.VignetteSigmaMax {
			return fmt.Errorf("vignette sigma range invalid: [%g,%g]", a.VignetteSigmaMin, a.VignetteSigmaMax)
		}
		if a.VignetteCxMin < 0 || a.VignetteCxMax > 1 || a.VignetteCxMin > a.VignetteCxMax {
			return fmt.Errorf("vignette center x range invalid: [%g,%g]", a.VignetteCxMin, a.VignetteCxMax)
		}
		if a.VignetteCyMin < 0 || a.VignetteCyMax > 1 || a.VignetteCyMin > a.VignetteCyMax {
			return fmt.Errorf("vignette center y range invalid: [%g,%g]", a.VignetteCyMin, a.VignetteCyMax)
		}
	}
	return nil
}
