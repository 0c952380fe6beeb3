// Package labels reads and writes object-detection label files.
//
// The on-disk format is one label per line, whitespace-separated:
//
//	class cx cy w h
//
// with the four geometry fields normalized to [0,1] relative to the image
// the file describes.
package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/menta2k/mosaic-dataset/pkg/types"
)

// Parse reads labels from r. Blank lines are skipped; any malformed line
// aborts the parse with an error naming the line number.
func Parse(r io.Reader) ([]types.Box, error) {
	var boxes []types.Box
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 fields, got %d", lineNo, len(fields))
		}

		class, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid class id %q: %w", lineNo, fields[0], err)
		}
		if class < 0 {
			return nil, fmt.Errorf("line %d: class id must be non-negative, got %d", lineNo, class)
		}

		var geom [4]float64
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid value %q: %w", lineNo, f, err)
			}
			geom[i] = v
		}

		box := types.Box{Class: class, Cx: geom[0], Cy: geom[1], W: geom[2], H: geom[3]}
		if err := validate(box); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		boxes = append(boxes, box)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return boxes, nil
}

// Load reads labels from a file.
func Load(path string) ([]types.Box, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open labels file: %w", err)
	}
	defer f.Close()

	boxes, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return boxes, nil
}

// Write emits labels to w, one per line.
func Write(w io.Writer, boxes []types.Box) error {
	for _, b := range boxes {
		if _, err := fmt.Fprintf(w, "%d %.6f %.6f %.6f %.6f\n", b.Class, b.Cx, b.Cy, b.W, b.H); err != nil {
			return fmt.Errorf("failed to write label: %w", err)
		}
	}
	return nil
}

// Save writes labels to a file, overwriting any existing content.
func Save(path string, boxes []types.Box) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create labels file: %w", err)
	}
	defer f.Close()

	if err := Write(f, boxes); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func validate(b types.Box) error {
	if b.Cx < 0 || b.Cx > 1 || b.Cy < 0 || b.Cy > 1 {
		return fmt.Errorf("box center (%.4f, %.4f) outside [0,1]", b.Cx, b.Cy)
	}
	if b.W <= 0 || b.W > 1 || b.H <= 0 || b.H > 1 {
		return fmt.Errorf("box size %.4fx%.4f outside (0,1]", b.W, b.H)
	}
	return nil
}
