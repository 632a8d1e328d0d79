package imageconv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sujal-Gaha/file-forge/internal/testutil"
	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
)

func TestPair(t *testing.T) {
	source, target := NewRasterConverter().Pair()
	assert.Equal(t, kind.ImageRaster, source)
	assert.Equal(t, kind.ImageRaster, target)
}

func TestValidateOptionsQuality(t *testing.T) {
	c := NewRasterConverter()

	for _, q := range []int{1, 50, 100} {
		assert.NoError(t, c.ValidateOptions(converter.OptionSet{Quality: q}), "quality %d", q)
	}
	for _, q := range []int{0, -1, 101} {
		err := c.ValidateOptions(converter.OptionSet{Quality: q})
		assert.ErrorIs(t, err, converter.ErrInvalidOption, "quality %d", q)
	}
}

func TestValidateOptionsDimensions(t *testing.T) {
	c := NewRasterConverter()

	err := c.ValidateOptions(converter.OptionSet{Quality: 80, Width: -1})
	assert.ErrorIs(t, err, converter.ErrInvalidOption)

	err = c.ValidateOptions(converter.OptionSet{Quality: 80, MaxHeight: -5})
	assert.ErrorIs(t, err, converter.ErrInvalidOption)

	assert.NoError(t, c.ValidateOptions(converter.OptionSet{Quality: 80, Width: 800, MaxWidth: 400}))
}

func convertImage(t *testing.T, req converter.ConversionRequest) []string {
	t.Helper()
	warnings, err := NewRasterConverter().Convert(context.Background(), req, req.OutputPath)
	require.NoError(t, err)
	return warnings
}

func TestConvertPNGToJPEG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.jpg")
	testutil.WriteTestImage(t, input, 32, 24)

	warnings := convertImage(t, converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: output,
		Options:    converter.OptionSet{Quality: 90},
	})

	assert.Empty(t, warnings, "jpeg is lossy, no quality warning expected")
	img, err := imaging.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

func TestConvertLosslessTargetWarnsAboutQuality(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.jpg")
	output := filepath.Join(dir, "out.png")
	testutil.WriteTestImage(t, input, 16, 16)

	warnings := convertImage(t, converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: output,
		Options:    converter.OptionSet{Quality: 90},
	})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "quality ignored")
	assert.FileExists(t, output)
}

func TestConvertWebPTargetUnsupported(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	testutil.WriteTestImage(t, input, 8, 8)

	_, err := NewRasterConverter().Convert(context.Background(), converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: filepath.Join(dir, "out.webp"),
		Options:    converter.OptionSet{Quality: 90},
	}, filepath.Join(dir, "scratch"))

	assert.ErrorIs(t, err, converter.ErrUnsupportedConversion)
}

func TestConvertResizeComputesMissingDimension(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testutil.WriteTestImage(t, input, 1600, 1200)

	convertImage(t, converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: output,
		Options:    converter.OptionSet{Quality: 90, Width: 800, MaintainAspect: true},
	})

	img, err := imaging.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy(), "height follows the source aspect ratio")
}

func TestConvertFitBoundsNeverUpscales(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testutil.WriteTestImage(t, input, 100, 50)

	convertImage(t, converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: output,
		Options:    converter.OptionSet{Quality: 90, MaxWidth: 400, MaxHeight: 400},
	})

	img, err := imaging.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx(), "images inside the bounds stay untouched")
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestConvertFitBoundsScalesDown(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testutil.WriteTestImage(t, input, 800, 400)

	convertImage(t, converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: output,
		Options:    converter.OptionSet{Quality: 90, MaxWidth: 200, MaxHeight: 200},
	})

	img, err := imaging.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestConvertRotateSwapsDimensions(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.png")
	output := filepath.Join(dir, "out.png")
	testutil.WriteTestImage(t, input, 30, 10)

	convertImage(t, converter.ConversionRequest{
		InputPath:  input,
		TargetKind: kind.ImageRaster,
		OutputPath: output,
		Options:    converter.OptionSet{Quality: 90, Angle: 90},
	})

	img, err := imaging.Open(output)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestFitDimensions(t *testing.T) {
	cases := []struct {
		name         string
		srcW, srcH   int
		w, h         int
		aspect       bool
		wantW, wantH int
	}{
		{"both explicit", 1600, 1200, 640, 480, true, 640, 480},
		{"width only with aspect", 1600, 1200, 800, 0, true, 800, 600},
		{"height only with aspect", 1600, 1200, 0, 300, true, 400, 300},
		{"width only without aspect", 1600, 1200, 800, 0, false, 800, 1200},
		{"rounding floors at one", 2000, 1, 0, 1, true, 2000, 1},
		{"tiny result clamps to one", 2000, 1, 1, 0, true, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotW, gotH := fitDimensions(tc.srcW, tc.srcH, tc.w, tc.h, tc.aspect)
			assert.Equal(t, tc.wantW, gotW)
			assert.Equal(t, tc.wantH, gotH)
		})
	}
}
