package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}

// SiblingWithExtension returns the path next to base that shares its name
// but carries a different extension. Mosaic images and their label files
// are stored this way: same directory, same name, different extension.
func SiblingWithExtension(base, ext string) string {
	withoutExt := strings.TrimSuffix(base, filepath.Ext(base))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return withoutExt + ext
}

// SequentialName builds a zero-padded sequential filename like
// IMG_00042.png.
func SequentialName(prefix string, index int, ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s_%05d%s", prefix, index, ext)
}
