package mosaicdataset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/menta2k/mosaic-dataset/pkg/labels"
	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// writeTestMosaic creates an 800x600 mosaic with a grid of labeled bright
// squares and returns the image and label file paths.
func writeTestMosaic(t testing.TB) (string, string) {
	t.Helper()

	width, height := 800, 600
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{48, 80, 96, 255})
		}
	}

	var boxes []types.Box
	for gy := 0; gy < 6; gy++ {
		for gx := 0; gx < 8; gx++ {
			cx := (float64(gx) + 0.5) / 8
			cy := (float64(gy) + 0.5) / 6
			px := int(cx * float64(width))
			py := int(cy * float64(height))
			for y := py - 15; y < py+15; y++ {
				for x := px - 15; x < px+15; x++ {
					img.Set(x, y, color.NRGBA{220, 220, 200, 255})
				}
			}
			boxes = append(boxes, types.Box{
				Class: gx % 3,
				Cx:    cx,
				Cy:    cy,
				W:     30.0 / float64(width),
				H:     30.0 / float64(height),
			})
		}
	}

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "mosaic.png")
	lblPath := filepath.Join(dir, "mosaic.txt")
	if err := imaging.Save(img, imgPath); err != nil {
		t.Fatalf("Failed to save test mosaic: %v", err)
	}
	if err := labels.Save(lblPath, boxes); err != nil {
		t.Fatalf("Failed to save test labels: %v", err)
	}
	return imgPath, lblPath
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinCropWidth, cfg.MaxCropWidth = 200, 200
	cfg.MinCropHeight, cfg.MaxCropHeight = 150, 150
	cfg.MinLabels = 1
	cfg.MinLabelArea = 0.5
	cfg.MaxRetries = 100
	cfg.Seed = 42
	return cfg
}

func TestGetImageBeforeCreate(t *testing.T) {
	ds := New()
	if _, err := ds.GetImage(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestCreateInvalidConfig(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted crop width range", func(c *Config) { c.MinCropWidth = 300; c.MaxCropWidth = 200 }},
		{"zero crop height", func(c *Config) { c.MinCropHeight = 0 }},
		{"area fraction above 1", func(c *Config) { c.MinLabelArea = 1.5 }},
		{"negative area fraction", func(c *Config) { c.MinLabelArea = -0.1 }},
		{"negative min labels", func(c *Config) { c.MinLabels = -1 }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
		{"empty x ratio range", func(c *Config) { c.XRatioMin = 0.5; c.XRatioMax = 0.5 }},
		{"y ratio out of bounds", func(c *Config) { c.YRatioMax = 1.5 }},
		{"bad flip probability", func(c *Config) { c.Augment.FlipProb = 1.5 }},
		{"bad vignette sigma", func(c *Config) { c.Augment.VignetteSigmaMin = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := New().Create(imgPath, lblPath, cfg)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("Expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestCreateCropLargerThanUsableArea(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	cfg := testConfig()
	cfg.MaxCropWidth = 900 // mosaic is only 800 wide

	err := New().Create(imgPath, lblPath, cfg)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Expected ErrConfig for oversized crop, got %v", err)
	}
}

func TestCreateMissingFiles(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	if err := New().Create(filepath.Join(t.TempDir(), "nope.png"), lblPath, testConfig()); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad for missing mosaic, got %v", err)
	}
	if err := New().Create(imgPath, filepath.Join(t.TempDir(), "nope.txt"), testConfig()); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad for missing labels, got %v", err)
	}
}

func TestCreateMalformedLabels(t *testing.T) {
	imgPath, _ := writeTestMosaic(t)
	badPath := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(badPath, []byte("0 0.5 not-a-number 0.1 0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New().Create(imgPath, badPath, testConfig()); !errors.Is(err, ErrLoad) {
		t.Errorf("Expected ErrLoad for malformed labels, got %v", err)
	}
}

func TestGetImage(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	ds := New()
	if err := ds.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		res, err := ds.GetImage()
		if err != nil {
			t.Fatalf("GetImage %d failed: %v", i, err)
		}

		bounds := res.Image.Bounds()
		if bounds.Dx() != 200 || bounds.Dy() != 150 {
			t.Errorf("Expected 200x150 crop, got %dx%d", bounds.Dx(), bounds.Dy())
		}
		if len(res.Labels) < 1 {
			t.Error("Accepted image has fewer labels than MinLabels")
		}

		// Frame consistency: every label denormalizes inside the crop
		for _, b := range res.Labels {
			x0, y0, x1, y1 := b.PixelRect(bounds.Dx(), bounds.Dy())
			if x0 < -1e-9 || y0 < -1e-9 || x1 > float64(bounds.Dx())+1e-9 || y1 > float64(bounds.Dy())+1e-9 {
				t.Errorf("Label rect (%g,%g)-(%g,%g) outside %dx%d crop",
					x0, y0, x1, y1, bounds.Dx(), bounds.Dy())
			}
		}
	}
}

func TestGetImageDeterministicWithSeed(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	ds1, ds2 := New(), New()
	if err := ds1.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := ds2.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		r1, err1 := ds1.GetImage()
		r2, err2 := ds2.GetImage()
		if err1 != nil || err2 != nil {
			t.Fatalf("GetImage failed: %v / %v", err1, err2)
		}
		if r1.Region != r2.Region {
			t.Fatalf("Image %d: regions differ: %v vs %v", i, r1.Region, r2.Region)
		}
		if !bytes.Equal(r1.Image.Pix, r2.Image.Pix) {
			t.Fatalf("Image %d: pixels differ under the same seed", i)
		}
	}
}

func TestGetImageExhaustedRetries(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	cfg := testConfig()
	cfg.MinLabels = 1000 // impossible: the mosaic only has 48 labels
	cfg.MaxRetries = 25

	ds := New()
	if err := ds.Create(imgPath, lblPath, cfg); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err := ds.GetImage()
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("Expected ErrExhaustedRetries, got %v", err)
	}

	// The dataset stays usable for further calls
	if _, err := ds.GetImage(); !errors.Is(err, ErrExhaustedRetries) {
		t.Error("Expected repeated calls to keep failing the same way")
	}
}

func TestSetRegionRatio(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	ds := New()
	if err := ds.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Restrict sampling to the bottom third of the mosaic
	if err := ds.SetRegionRatio(0, 1, 2.0/3.0, 1); err != nil {
		t.Fatalf("SetRegionRatio failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		res, err := ds.GetImage()
		if err != nil {
			t.Fatalf("GetImage failed: %v", err)
		}
		if res.Region.Y0 < 400 {
			t.Errorf("Region %v starts above the configured band", res.Region)
		}
	}

	// A band too small for the crop is a configuration error
	if err := ds.SetRegionRatio(0, 0.1, 0, 1); !errors.Is(err, ErrConfig) {
		t.Errorf("Expected ErrConfig for band narrower than crop, got %v", err)
	}
}

func TestSetRegionRatioBeforeCreate(t *testing.T) {
	if err := New().SetRegionRatio(0, 1, 0, 1); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	ds := New()
	if err := ds.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pvw, err := ds.Preview(2)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if pvw.Bounds().Dx() != 800 || pvw.Bounds().Dy() != 600 {
		t.Errorf("Expected 800x600 preview, got %dx%d", pvw.Bounds().Dx(), pvw.Bounds().Dy())
	}
}

func TestReset(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	ds := New()
	if err := ds.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ds.Reset()

	if _, err := ds.GetImage(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured after Reset, got %v", err)
	}

	// Create works again after Reset
	if err := ds.Create(imgPath, lblPath, testConfig()); err != nil {
		t.Errorf("Create after Reset failed: %v", err)
	}
}

func TestRejectPartial(t *testing.T) {
	imgPath, lblPath := writeTestMosaic(t)

	cfg := testConfig()
	cfg.RejectPartial = true
	cfg.MinLabelArea = 0 // partial rejection works independently of the area threshold
	cfg.MaxRetries = 1000

	ds := New()
	if err := ds.Create(imgPath, lblPath, cfg); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		res, err := ds.GetImage()
		if err != nil {
			t.Fatalf("GetImage failed: %v", err)
		}
		// With partial crops rejected, every label must be fully inside the
		// region, which means its full 30x30 pixel extent survives.
		for _, b := range res.Labels {
			w := b.W * float64(res.Image.Bounds().Dx())
			h := b.H * float64(res.Image.Bounds().Dy())
			if w < 29.5 || h < 29.5 {
				t.Errorf("Clipped label %gx%g px in a reject-partial crop", w, h)
			}
		}
	}
}

func BenchmarkGetImage(b *testing.B) {
	imgPath, lblPath := writeTestMosaic(b)

	ds := New()
	if err := ds.Create(imgPath, lblPath, testConfig()); err != nil {
		b.Fatalf("Create failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ds.GetImage(); err != nil {
			b.Fatal(err)
		}
	}
}
