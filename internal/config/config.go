package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	mosaicdataset "github.com/menta2k/mosaic-dataset"
)

// Config holds a full dataset generation run: where the mosaic lives, how
// many images to produce, where to put them, and the dataset parameters.
type Config struct {
	Mosaic  string              `json:"mosaic"`
	Labels  string              `json:"labels"`
	Count   int                 `json:"count"`
	Output  OutputConfig        `json:"output"`
	Dataset mosaicdataset.Config `json:"dataset"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	ImageDir   string `json:"image_dir"`
	LabelDir   string `json:"label_dir"`
	PreviewDir string `json:"preview_dir"`
	Prefix     string `json:"prefix"`
	Format     string `json:"format"`
	Quality    int    `json:"quality"`
	Lossless   bool   `json:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Count: 100,
		Output: OutputConfig{
			ImageDir:   "./dataset/images",
			LabelDir:   "./dataset/labels",
			PreviewDir: "",
			Prefix:     "IMG",
			Format:     "png",
			Quality:    90,
		},
		Dataset: mosaicdataset.DefaultConfig(),
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mosaic == "" {
		return fmt.Errorf("mosaic path cannot be empty")
	}
	if c.Labels == "" {
		return fmt.Errorf("labels path cannot be empty")
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be positive")
	}
	if c.Output.ImageDir == "" || c.Output.LabelDir == "" {
		return fmt.Errorf("output image and label directories cannot be empty")
	}

	switch c.Output.Format {
	case "", "png", "jpg", "jpeg", "webp":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}

	if c.Output.Quality < 0 || c.Output.Quality > 100 {
		return fmt.Errorf("output quality must be between 0 and 100")
	}

	return c.Dataset.Validate()
}
