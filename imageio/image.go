// Package imageio converts between image files and model tensors.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/tiff"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/sugarme/gotch/ts"
	"golang.org/x/image/draw"
)

// ReadImage reads image from file.
func ReadImage(filename string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return imaging.Open(filename)
	case ".tiff", ".tif":
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return tiff.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported image format: %q", ext)
	}
}

// SaveImage saves img to filename. Format is chosen by extension.
func SaveImage(img image.Image, filename string) error {
	return imaging.Save(img, filename)
}

// FitToMultiple resizes img so that both sides are the nearest multiple of m
// not larger than the original, and at least m. img is returned unchanged
// when it already fits.
func FitToMultiple(img image.Image, m int) image.Image {
	b := img.Bounds()
	w, h := fit(b.Dx(), m), fit(b.Dy(), m)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}

func fit(n, m int) int {
	if n < m {
		return m
	}
	return n - n%m
}

// ToTensor converts img to a float tensor of shape [1 3 H W] with RGB
// values scaled to [0, 1].
func ToTensor(img image.Image) *ts.Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	data := make([]float32, 3*plane)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			i := y*w + x
			data[i] = float32(r) / 0xffff
			data[plane+i] = float32(g) / 0xffff
			data[2*plane+i] = float32(bl) / 0xffff
		}
	}

	return ts.MustOfSlice(data).MustView([]int64{1, 3, int64(h), int64(w)}, true)
}

// MaskTensor converts a ground truth mask image to a binary tensor of shape
// [1 H W]. Pixels brighter than mid gray are foreground.
func MaskTensor(img image.Image) *ts.Tensor {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]float32, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y > 127 {
				data[y*w+x] = 1
			}
		}
	}

	return ts.MustOfSlice(data).MustView([]int64{1, int64(h), int64(w)}, true)
}

// Probabilities applies sigmoid to logits of shape [1 1 H W] and returns the
// per pixel values in row major order with height and width.
func Probabilities(logit *ts.Tensor) (probs []float64, h, w int) {
	size := logit.MustSize()
	if len(size) < 2 {
		panic(fmt.Sprintf("expected logit with at least 2 dims, got %v", size))
	}
	h, w = int(size[len(size)-2]), int(size[len(size)-1])

	sig := logit.MustSigmoid(false)
	probs = sig.Float64Values()
	sig.MustDrop()

	return probs[:h*w], h, w
}

// Binarize turns per pixel probabilities into a black and white mask.
func Binarize(probs []float64, h, w int, threshold float64) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for i, p := range probs {
		if p >= threshold {
			mask.Pix[i] = 0xff
		}
	}
	return mask
}

// Overlay paints mask foreground over img with colour c.
func Overlay(img image.Image, mask *image.Gray, c color.Color) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	alpha := image.NewAlpha(mask.Bounds())
	for i, v := range mask.Pix {
		// half transparent so the image stays visible
		alpha.Pix[i] = v / 2
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, alpha, mask.Bounds().Min, draw.Over)

	return dst
}

// ResizeMask scales mask to w x h with nearest neighbour sampling so that it
// stays binary.
func ResizeMask(mask *image.Gray, w, h int) *image.Gray {
	b := mask.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return mask
	}

	scaled := imaging.Resize(mask, w, h, imaging.NearestNeighbor)
	out := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), scaled, image.Point{}, draw.Src)

	return out
}
