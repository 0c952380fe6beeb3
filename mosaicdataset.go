// Package mosaicdataset generates random labeled training images from a
// single large annotated mosaic image.
//
// A mosaic is one big composite (aerial survey, microscopy scan, ...) whose
// objects are annotated once, in normalized center-based boxes. The dataset
// samples random crop windows from it, re-expresses every label in the
// crop's own coordinate frame, keeps only crops with enough sufficiently
// visible labels, and applies randomized photometric augmentation. Each
// accepted crop is one training image.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		mosaicdataset "github.com/menta2k/mosaic-dataset"
//	)
//
//	func main() {
//		ds := mosaicdataset.New()
//
//		cfg := mosaicdataset.DefaultConfig()
//		cfg.MinLabels = 2
//		cfg.Seed = 42
//
//		if err := ds.Create("mosaic.png", "mosaic.txt", cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		res, err := ds.GetImage()
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("crop %dx%d with %d labels",
//			res.Image.Bounds().Dx(), res.Image.Bounds().Dy(), len(res.Labels))
//	}
//
// The package consists of small single-purpose components:
//
// 1. Sampler (pkg/sampler): draws random crop regions inside the usable area
// 2. Projector (pkg/projector): maps mosaic labels into a crop's local frame
// 3. Policy (pkg/policy): decides which labels and crops are kept
// 4. Augmenter (pkg/augment): flip, brightness, contrast and vignette
// 5. Labels (pkg/labels): reads and writes the one-label-per-line text format
// 6. Preview (pkg/preview): draws label boxes for visual inspection
//
// Every dataset instance owns its random stream, so a fixed Seed reproduces
// the exact same image sequence and independent instances never interfere.
package mosaicdataset

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/mosaic-dataset/pkg/augment"
	"github.com/menta2k/mosaic-dataset/pkg/labels"
	"github.com/menta2k/mosaic-dataset/pkg/policy"
	"github.com/menta2k/mosaic-dataset/pkg/preview"
	"github.com/menta2k/mosaic-dataset/pkg/projector"
	"github.com/menta2k/mosaic-dataset/pkg/sampler"
	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// Version of the mosaic dataset library
const Version = "1.0.0"

// Result is one generated training image: the augmented pixel buffer, its
// labels in the crop's normalized frame, and the mosaic region it came
// from. Ownership transfers to the caller.
type Result struct {
	Image  *image.NRGBA
	Labels []types.Box
	Region types.Region
}

// DataSet generates labeled training images from a mosaic. A zero DataSet
// is unconfigured; Create must succeed before GetImage can be used.
type DataSet struct {
	cfg     Config
	mosaic  *image.NRGBA
	labels  []types.Box
	sampler *sampler.Sampler
	policy  policy.Policy
	aug     *augment.Augmenter
	rng     *rand.Rand
	ready   bool
}

// New creates an unconfigured DataSet.
func New() *DataSet {
	return &DataSet{}
}

// Create validates cfg, loads the mosaic image and its label file, and
// moves the dataset to the ready state. Configuration problems (including a
// crop-size range that does not fit the usable mosaic area) are reported as
// ErrConfig; unreadable or malformed input files as ErrLoad.
func (d *DataSet) Create(mosaicPath, labelsPath string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	img, err := imaging.Open(mosaicPath)
	if err != nil {
		return fmt.Errorf("%w: mosaic %s: %v", ErrLoad, mosaicPath, err)
	}
	boxes, err := labels.Load(labelsPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	mosaic := imaging.Clone(img)
	smp, err := newSampler(cfg, mosaic.Bounds().Dx(), mosaic.Bounds().Dy(), rng)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	d.cfg = cfg
	d.mosaic = mosaic
	d.labels = boxes
	d.sampler = smp
	d.policy = policy.Policy{
		MinAreaFraction: cfg.MinLabelArea,
		MinLabels:       cfg.MinLabels,
		RejectPartial:   cfg.RejectPartial,
	}
	d.rng = rng
	d.aug = augment.New(cfg.Augment, rng)
	d.ready = true
	return nil
}

// GetImage samples crop regions until one passes the acceptance policy,
// then augments it and returns the result. The search is bounded by the
// configured MaxRetries; exhausting it returns ErrExhaustedRetries.
func (d *DataSet) GetImage() (*Result, error) {
	if !d.ready {
		return nil, ErrNotConfigured
	}

	mw := d.mosaic.Bounds().Dx()
	mh := d.mosaic.Bounds().Dy()

	for attempt := 0; attempt < d.cfg.MaxRetries; attempt++ {
		reg := d.sampler.Sample()
		projected := projector.Project(d.labels, mw, mh, reg)

		if d.policy.RejectPartial && policy.HasPartial(projected) {
			continue
		}
		kept := d.policy.Filter(projected)
		if !d.policy.Accept(kept) {
			continue
		}

		crop := imaging.Crop(d.mosaic, reg.Rect())
		img, outBoxes := d.aug.Apply(crop, kept)
		return &Result{Image: img, Labels: outBoxes, Region: reg}, nil
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrExhaustedRetries, d.cfg.MaxRetries)
}

// SetRegionRatio changes the usable sub-area of the mosaic without
// reloading it. This is how one mosaic serves several dataset splits: point
// the ratios at disjoint bands and sample each separately.
func (d *DataSet) SetRegionRatio(xMin, xMax, yMin, yMax float64) error {
	if !d.ready {
		return ErrNotConfigured
	}
	cfg := d.cfg
	cfg.XRatioMin, cfg.XRatioMax = xMin, xMax
	cfg.YRatioMin, cfg.YRatioMax = yMin, yMax
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	smp, err := newSampler(cfg, d.mosaic.Bounds().Dx(), d.mosaic.Bounds().Dy(), d.rng)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	d.cfg = cfg
	d.sampler = smp
	return nil
}

// Preview renders the full mosaic with all its labels drawn on it.
func (d *DataSet) Preview(lineWidth int) (*image.NRGBA, error) {
	if !d.ready {
		return nil, ErrNotConfigured
	}
	return preview.DrawLabels(d.mosaic, d.labels, lineWidth), nil
}

// Labels returns the mosaic-frame labels loaded by Create.
func (d *DataSet) Labels() []types.Box {
	return d.labels
}

// MosaicSize returns the mosaic dimensions in pixels, or zeros before
// Create.
func (d *DataSet) MosaicSize() (int, int) {
	if !d.ready {
		return 0, 0
	}
	return d.mosaic.Bounds().Dx(), d.mosaic.Bounds().Dy()
}

// Reset discards all loaded state and returns the dataset to the
// unconfigured state. Create may then be called again.
func (d *DataSet) Reset() {
	*d = DataSet{}
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}

func newSampler(cfg Config, mosaicW, mosaicH int, rng *rand.Rand) (*sampler.Sampler, error) {
	usable := types.Region{
		X0: int(cfg.XRatioMin * float64(mosaicW)),
		Y0: int(cfg.YRatioMin * float64(mosaicH)),
		X1: int(cfg.XRatioMax * float64(mosaicW)),
		Y1: int(cfg.YRatioMax * float64(mosaicH)),
	}
	return sampler.New(usable,
		cfg.MinCropWidth, cfg.MaxCropWidth,
		cfg.MinCropHeight, cfg.MaxCropHeight, rng)
}
