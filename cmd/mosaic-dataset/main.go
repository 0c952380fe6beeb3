package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	mosaicdataset "github.com/menta2k/mosaic-dataset"
	"github.com/menta2k/mosaic-dataset/internal/config"
	"github.com/menta2k/mosaic-dataset/internal/utils"
	"github.com/menta2k/mosaic-dataset/pkg/export"
)

func main() {
	var mosaic, lbls, outDir, ext, cfgPath, prefix string
	var count, width, height, minLabels, maxIter, quality int
	var minArea float64
	var seed int64
	var rejectPartial, preview, lossless bool

	flag.StringVar(&mosaic, "mosaic", "", "input mosaic image (jpg/png/webp)")
	flag.StringVar(&lbls, "labels", "", "mosaic label file (defaults to mosaic path with .txt extension)")
	flag.StringVar(&outDir, "out", "dataset", "output directory (images/, labels/ and preview/ are created inside)")
	flag.StringVar(&cfgPath, "config", "", "JSON config file; flags override paths and count only")

	flag.IntVar(&count, "count", 100, "number of images to generate")
	flag.IntVar(&width, "width", 640, "output image width")
	flag.IntVar(&height, "height", 480, "output image height")
	flag.IntVar(&minLabels, "min-labels", 1, "minimum labels per output image")
	flag.Float64Var(&minArea, "min-area", 0.5, "minimum retained area fraction per label (0-1)")
	flag.IntVar(&maxIter, "max-iter", 1000, "crop search attempts per image")
	flag.BoolVar(&rejectPartial, "reject-partial", false, "reject crops that clip any label")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")

	flag.StringVar(&ext, "ext", "png", "output format: png|jpg|webp")
	flag.IntVar(&quality, "quality", 90, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	flag.StringVar(&prefix, "prefix", "IMG", "output filename prefix")
	flag.BoolVar(&preview, "preview", false, "also write preview images with boxes drawn")

	flag.Parse()

	var cfg *config.Config
	if cfgPath != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		cfg = config.Default()
		cfg.Count = count
		cfg.Output = config.OutputConfig{
			ImageDir: filepath.Join(outDir, "images"),
			LabelDir: filepath.Join(outDir, "labels"),
			Prefix:   prefix,
			Format:   ext,
			Quality:  quality,
			Lossless: lossless,
		}
		if preview {
			cfg.Output.PreviewDir = filepath.Join(outDir, "preview")
		}
		cfg.Dataset.MinCropWidth = width
		cfg.Dataset.MaxCropWidth = width
		cfg.Dataset.MinCropHeight = height
		cfg.Dataset.MaxCropHeight = height
		cfg.Dataset.MinLabels = minLabels
		cfg.Dataset.MinLabelArea = minArea
		cfg.Dataset.MaxRetries = maxIter
		cfg.Dataset.RejectPartial = rejectPartial
		cfg.Dataset.Seed = seed
	}

	if mosaic != "" {
		cfg.Mosaic = mosaic
	}
	if lbls != "" {
		cfg.Labels = lbls
	} else if cfg.Labels == "" && cfg.Mosaic != "" {
		cfg.Labels = utils.SiblingWithExtension(cfg.Mosaic, ".txt")
	}

	if cfg.Mosaic == "" {
		log.Fatalf("usage: %s -mosaic mosaic.png [-labels mosaic.txt] [-out dataset] [-count 100]", filepath.Base(os.Args[0]))
	}
	if !utils.FileExists(cfg.Mosaic) {
		log.Fatalf("mosaic image not found: %s", cfg.Mosaic)
	}
	if !utils.FileExists(cfg.Labels) {
		log.Fatalf("labels file not found: %s", cfg.Labels)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ds := mosaicdataset.New()
	if err := ds.Create(cfg.Mosaic, cfg.Labels, cfg.Dataset); err != nil {
		log.Fatal(err)
	}
	mw, mh := ds.MosaicSize()
	log.Printf("loaded mosaic %s (%dx%d, %d labels)", cfg.Mosaic, mw, mh, len(ds.Labels()))

	writer := &export.Writer{
		ImageDir:   cfg.Output.ImageDir,
		LabelDir:   cfg.Output.LabelDir,
		PreviewDir: cfg.Output.PreviewDir,
		Prefix:     cfg.Output.Prefix,
		Format:     cfg.Output.Format,
		Quality:    cfg.Output.Quality,
		Lossless:   cfg.Output.Lossless,
	}
	if err := writer.Init(); err != nil {
		log.Fatal(err)
	}

	for i := 0; i < cfg.Count; i++ {
		res, err := ds.GetImage()
		if err != nil {
			if errors.Is(err, mosaicdataset.ErrExhaustedRetries) {
				log.Fatalf("image %d: %v (relax -min-labels/-min-area or shrink the crop size)", i, err)
			}
			log.Fatalf("image %d: %v", i, err)
		}
		if err := writer.Write(res); err != nil {
			log.Fatal(err)
		}
		if (i+1)%100 == 0 || i+1 == cfg.Count {
			log.Printf("wrote %d/%d images", i+1, cfg.Count)
		}
	}
	log.Printf("done: %d images in %s", writer.Count(), cfg.Output.ImageDir)
}
