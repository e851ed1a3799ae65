package imageio_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/tiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/wickseg/imageio"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 51, A: 255})
		}
	}
	return img
}

func TestReadImagePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, imageio.SaveImage(testImage(6, 4), path))

	img, err := imageio.ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
}

func TestReadImageTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.tif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, testImage(5, 3), nil))
	require.NoError(t, f.Close())

	img, err := imageio.ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

func TestReadImageUnsupported(t *testing.T) {
	_, err := imageio.ReadImage("mask.bmp")
	assert.Error(t, err)
}

func TestFitToMultiple(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{64, 64, 64, 64},
		{66, 31, 64, 28},
		{2, 9, 4, 8},
	}
	for _, tt := range tests {
		img := imageio.FitToMultiple(testImage(tt.w, tt.h), 4)
		assert.Equal(t, tt.wantW, img.Bounds().Dx())
		assert.Equal(t, tt.wantH, img.Bounds().Dy())
	}
}

func TestToTensor(t *testing.T) {
	x := imageio.ToTensor(testImage(3, 2))
	assert.Equal(t, []int64{1, 3, 2, 3}, x.MustSize())

	vals := x.Float64Values()
	assert.InDelta(t, 1.0, vals[0], 1e-6)  // R
	assert.InDelta(t, 0.0, vals[6], 1e-6)  // G
	assert.InDelta(t, 0.2, vals[12], 1e-6) // B
}

func TestMaskRoundTrip(t *testing.T) {
	logit := ts.MustOfSlice([]float32{-5, 5, 0.5, -0.5}).MustView([]int64{1, 1, 2, 2}, true)

	probs, h, w := imageio.Probabilities(logit)
	require.Len(t, probs, 4)
	assert.Equal(t, 2, h)
	assert.Equal(t, 2, w)

	mask := imageio.Binarize(probs, h, w, 0.5)
	assert.Equal(t, []uint8{0, 0xff, 0xff, 0}, mask.Pix)

	x := imageio.MaskTensor(mask)
	assert.Equal(t, []int64{1, 2, 2}, x.MustSize())
	assert.Equal(t, []float64{0, 1, 1, 0}, x.Float64Values())
}

func TestOverlay(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	mask := image.NewGray(image.Rect(0, 0, 2, 1))
	mask.Pix[1] = 0xff

	out := imageio.Overlay(img, mask, color.RGBA{R: 255, A: 255})

	r0, _, _, _ := out.At(0, 0).RGBA()
	r1, _, _, _ := out.At(1, 0).RGBA()
	assert.Zero(t, r0)
	assert.NotZero(t, r1)
}

func TestSaveHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, imageio.SaveHistogram([]float64{0.1, 0.2, 0.9, 0.95}, 10, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestResizeMask(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 2, 2))
	mask.Pix[0] = 0xff

	same := imageio.ResizeMask(mask, 2, 2)
	assert.Same(t, mask, same)

	big := imageio.ResizeMask(mask, 4, 4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), big.Bounds())
	assert.Equal(t, uint8(0xff), big.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), big.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0), big.GrayAt(3, 3).Y)
}
