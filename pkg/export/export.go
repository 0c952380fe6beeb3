// Package export writes generated dataset items to disk: the crop image,
// its label file, and optionally a preview with the boxes burned in.
package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	mosaicdataset "github.com/menta2k/mosaic-dataset"
	"github.com/menta2k/mosaic-dataset/internal/utils"
	"github.com/menta2k/mosaic-dataset/pkg/labels"
	"github.com/menta2k/mosaic-dataset/pkg/preview"
)

// Writer writes sequentially numbered dataset items. Image and label files
// share a name and differ only in extension, which is what detection
// training pipelines expect.
type Writer struct {
	ImageDir   string
	LabelDir   string
	PreviewDir string // empty disables previews
	Prefix     string // defaults to "IMG"
	Format     string // jpg, png or webp; defaults to png
	Quality    int    // jpeg/webp quality, defaults to 90
	Lossless   bool   // webp only

	n int
}

// Init creates the output directories.
func (w *Writer) Init() error {
	if w.Prefix == "" {
		w.Prefix = "IMG"
	}
	if w.Format == "" {
		w.Format = "png"
	}
	if w.Quality == 0 {
		w.Quality = 90
	}
	for _, dir := range []string{w.ImageDir, w.LabelDir, w.PreviewDir} {
		if dir == "" {
			continue
		}
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return nil
}

// Write stores one generated item and advances the sequence number.
func (w *Writer) Write(res *mosaicdataset.Result) error {
	n := w.n
	w.n++
	imgName := utils.SequentialName(w.Prefix, n, strings.ToLower(w.Format))

	imgPath := filepath.Join(w.ImageDir, imgName)
	if err := w.saveImage(res.Image, imgPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", imgPath, err)
	}

	lblPath := filepath.Join(w.LabelDir, utils.SequentialName(w.Prefix, n, "txt"))
	if err := labels.Save(lblPath, res.Labels); err != nil {
		return err
	}

	if w.PreviewDir != "" {
		pvw := preview.DrawLabels(res.Image, res.Labels, 1)
		pvwPath := filepath.Join(w.PreviewDir, imgName)
		if err := w.saveImage(pvw, pvwPath); err != nil {
			return fmt.Errorf("failed to save preview %s: %w", pvwPath, err)
		}
	}
	return nil
}

// Count returns the number of items written so far.
func (w *Writer) Count() int {
	return w.n
}

func (w *Writer) saveImage(img image.Image, path string) error {
	switch strings.ToLower(w.Format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: w.Lossless, Quality: float32(w.Quality)}
		return webp.Encode(f, img, opts)
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(w.Quality))
	default: // png
		return imaging.Save(img, path)
	}
}
