package imageio

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveHistogram plots the distribution of mask probabilities to filename.
func SaveHistogram(probs []float64, bins int, filename string) error {
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = "Mask probabilities"
	p.X.Label.Text = "p(foreground)"
	p.Y.Label.Text = "pixels"

	h, err := plotter.NewHist(plotter.Values(probs), bins)
	if err != nil {
		return err
	}
	p.Add(h)

	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
