// Package imagesize reads image dimensions from local files without
// decoding pixel data. It backs the image size lookup of the markdown
// renderer when no GetImageSize hook answers.
package imagesize

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	// Decoders registered with the image package.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidSize is returned for images that report a non-positive size.
var ErrInvalidSize = errors.New("image has no size")

// File returns the width and height of the image at path.
func File(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	width, height, err := Reader(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	return width, height, nil
}

// Reader returns the width and height of the image read from r.
func Reader(r io.Reader) (int, int, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%s: %w", format, ErrInvalidSize)
	}
	return cfg.Width, cfg.Height, nil
}
