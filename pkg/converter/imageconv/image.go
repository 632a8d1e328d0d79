// Package imageconv implements raster image conversion, compression, resizing
// and rotation on top of the disintegration/imaging library.
package imageconv

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Register decoders for formats imaging does not handle natively.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

// losslessFormats are targets whose encoders take no quality parameter.
var losslessFormats = map[imaging.Format]bool{
	imaging.PNG:  true,
	imaging.GIF:  true,
	imaging.BMP:  true,
	imaging.TIFF: true,
}

// RasterConverter converts between raster image formats. The target format is
// taken from the request's output path extension; the option set selects the
// transformation (resize, fit to maximum bounds, rotate) applied before
// encoding.
type RasterConverter struct{}

// NewRasterConverter returns a converter for the (image, image) pair.
func NewRasterConverter() *RasterConverter { return &RasterConverter{} }

// Pair implements converter.Converter.
func (c *RasterConverter) Pair() (kind.FileKind, kind.FileKind) {
	return kind.ImageRaster, kind.ImageRaster
}

// ValidateOptions implements converter.Converter. Quality is required and
// must lie in [1, 100]; dimensions and bounds must be non-negative.
func (c *RasterConverter) ValidateOptions(opts converter.OptionSet) error {
	if opts.Quality < converter.MinQuality || opts.Quality > converter.MaxQuality {
		return fmt.Errorf("%w: quality must be between %d and %d, got %d",
			converter.ErrInvalidOption, converter.MinQuality, converter.MaxQuality, opts.Quality)
	}
	if opts.Width < 0 || opts.Height < 0 {
		return fmt.Errorf("%w: width and height must be non-negative", converter.ErrInvalidOption)
	}
	if opts.MaxWidth < 0 || opts.MaxHeight < 0 {
		return fmt.Errorf("%w: max width and max height must be non-negative", converter.ErrInvalidOption)
	}
	return nil
}

// Convert implements converter.Converter.
func (c *RasterConverter) Convert(ctx context.Context, req converter.ConversionRequest, writePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := targetFormat(req.OutputPath)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(req.InputPath)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", req.InputPath, err)
	}

	opts := req.Options
	if opts.Width > 0 || opts.Height > 0 {
		w, h := fitDimensions(img.Bounds().Dx(), img.Bounds().Dy(), opts.Width, opts.Height, opts.MaintainAspect)
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}
	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		maxW, maxH := opts.MaxWidth, opts.MaxHeight
		if maxW == 0 {
			maxW = img.Bounds().Dx()
		}
		if maxH == 0 {
			maxH = img.Bounds().Dy()
		}
		if img.Bounds().Dx() > maxW || img.Bounds().Dy() > maxH {
			img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
		}
	}
	if opts.Angle != 0 {
		img = rotate(img, opts.Angle)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var warnings []string
	encodeOpts := []imaging.EncodeOption{imaging.JPEGQuality(opts.Quality)}
	if losslessFormats[format] {
		warnings = append(warnings, fmt.Sprintf("quality ignored for lossless format %s", strings.ToLower(filepath.Ext(req.OutputPath))))
		if format == imaging.PNG {
			encodeOpts = append(encodeOpts, imaging.PNGCompressionLevel(png.BestCompression))
		}
	}

	out, err := os.Create(writePath)
	if err != nil {
		return nil, converter.WrapFSError(err)
	}
	if err := imaging.Encode(out, img, format, encodeOpts...); err != nil {
		out.Close()
		return nil, fmt.Errorf("encoding %s: %w", req.OutputPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, converter.WrapFSError(err)
	}
	return warnings, nil
}

// targetFormat maps the output extension to an encodable format. WebP is
// decode only in the Go ecosystem, so .webp targets are rejected up front.
func targetFormat(outputPath string) (imaging.Format, error) {
	ext := strings.ToLower(filepath.Ext(outputPath))
	if ext == ".webp" {
		return 0, fmt.Errorf("%w: webp is supported as a source format only", converter.ErrUnsupportedConversion)
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return 0, fmt.Errorf("%w: no image encoder for %q", converter.ErrUnsupportedConversion, ext)
	}
	return format, nil
}

// fitDimensions computes the final resize dimensions. A missing dimension is
// derived from the source aspect ratio, rounded to nearest with a floor of 1.
// With aspect preservation disabled a missing dimension falls back to the
// source size.
func fitDimensions(srcW, srcH, w, h int, maintainAspect bool) (int, int) {
	switch {
	case w > 0 && h > 0:
		return w, h
	case w > 0:
		if maintainAspect {
			return w, scaled(srcH, w, srcW)
		}
		return w, srcH
	case h > 0:
		if maintainAspect {
			return scaled(srcW, h, srcH), h
		}
		return srcW, h
	default:
		return srcW, srcH
	}
}

func scaled(side, num, den int) int {
	if den == 0 {
		return 1
	}
	v := int(math.Round(float64(side) * float64(num) / float64(den)))
	if v < 1 {
		return 1
	}
	return v
}

// rotate turns the image counter clockwise by angle degrees over a white
// background, matching the behavior users expect from photo tooling.
func rotate(img image.Image, angle float64) image.Image {
	return imaging.Rotate(img, angle, color.White)
}
