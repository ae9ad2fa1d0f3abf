package utils

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
)

// ProcessImage decodes the raster image at inputPath, scales it down so its
// width does not exceed maxWidth (aspect ratio preserved, never upscales),
// and re-encodes it as JPEG at the given quality into outputPath. The source
// file is left untouched. On any failure no output file remains on disk.
func ProcessImage(inputPath, outputPath string, maxWidth, quality int) error {
	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", inputPath, err)
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if err := imaging.Save(img, outputPath, imaging.JPEGQuality(quality)); err != nil {
		// do not leave a half-formed derivative behind
		_ = os.Remove(outputPath)
		return fmt.Errorf("encode %s: %w", outputPath, err)
	}
	return nil
}
