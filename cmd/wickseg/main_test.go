package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"

	"github.com/sugarme/wickseg/imageio"
	"github.com/sugarme/wickseg/unet"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeImage(t *testing.T, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imageio.SaveImage(img, path))
	return path
}

func TestConfigCmd(t *testing.T) {
	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "pool_kernel: 2")
	assert.Contains(t, out, "mid_kernel: 2")
	assert.Contains(t, out, "device: cpu")
}

func TestConfigCmdInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  encoder:\n    kernel: 0\n"), 0o644))

	_, err := run(t, "config", "--config", path)
	assert.Error(t, err)
}

func TestSummaryCmd(t *testing.T) {
	out, err := run(t, "summary")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 19)
	assert.True(t, strings.HasPrefix(lines[0], "decoder.deconv1.bias"))
	assert.Contains(t, out, "encoder.conv1.weight")
	assert.Contains(t, out, "[40 3 5 5]")
	assert.True(t, strings.HasPrefix(lines[18], "total parameters: "))
}

func TestSummaryCSV(t *testing.T) {
	out, err := run(t, "summary", "--csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 19)
	assert.Equal(t, "name,shape,params", lines[0])
	assert.Contains(t, out, "encoder.conv1.weight,[40 3 5 5],3000")
	assert.Contains(t, out, "decoder.deconv4.bias,[1],1")
}

func TestSortedVars(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	unet.DefaultWickUnet(vs.Root())

	vars := sortedVars(vs)
	require.Len(t, vars, 18)
	for i := 1; i < len(vars); i++ {
		assert.Less(t, vars[i-1].name, vars[i].name)
	}

	var total int64
	for _, v := range vars {
		total += numel(v.shape)
	}
	// conv: 3*40*25+40 + 40*60*25+60 + 60*120*25+120 + 120*160*25+160 + 160*240*25+240
	// deconv: 240*120*25+120 + 120*60*4+60 + 60*2*4+2 + 2*1*25+1
	assert.Equal(t, int64(1_683_620+749_513), total)
}

func TestCheckCmd(t *testing.T) {
	out, err := run(t, "check", "--batch", "1", "--size", "32", "--iters", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "00: [1 3 32 32] -> [1 240 8 8] -> [1 1 32 32]")
	assert.Contains(t, out, "01: ")

	_, err = run(t, "check", "--iters", "0")
	assert.Error(t, err)
}

func TestInitAndPredict(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "w.ot")
	_, err := run(t, "init", "--out", weights)
	require.NoError(t, err)
	_, err = os.Stat(weights)
	require.NoError(t, err)

	input := writeImage(t, "in.png", 30, 22)
	mask := filepath.Join(dir, "mask.png")
	overlay := filepath.Join(dir, "overlay.png")
	hist := filepath.Join(dir, "hist.png")

	out, err := run(t, "predict", input,
		"--weights", weights,
		"--out", mask,
		"--overlay", overlay,
		"--hist", hist,
		"--target", input,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "dice: ")
	assert.Contains(t, out, "iou: ")

	got, err := imageio.ReadImage(mask)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Bounds().Dx())
	assert.Equal(t, 22, got.Bounds().Dy())

	for _, p := range []string{overlay, hist} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestPredictErrors(t *testing.T) {
	_, err := run(t, "predict", filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	input := writeImage(t, "in.png", 16, 16)
	_, err = run(t, "predict", input, "--threshold", "1")
	assert.Error(t, err)

	target := writeImage(t, "target.png", 8, 8)
	_, err = run(t, "predict", input, "--out", filepath.Join(t.TempDir(), "m.png"), "--target", target)
	assert.Error(t, err)
}
