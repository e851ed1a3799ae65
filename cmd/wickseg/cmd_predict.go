package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/spf13/cobra"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"
	"go.uber.org/zap"

	"github.com/sugarme/wickseg/config"
	"github.com/sugarme/wickseg/imageio"
	"github.com/sugarme/wickseg/metric"
)

type predictOptions struct {
	out       string
	overlay   string
	hist      string
	target    string
	threshold float64
	bins      int
}

func newPredictCmd(a *app) *cobra.Command {
	var opts predictOptions

	cmd := &cobra.Command{
		Use:   "predict IMAGE",
		Short: "Segment a single png, jpeg or tiff image",
		Long: `Runs the model on one image and writes a binary mask of the same size.

The image is resized so its sides are divisible by the encoder reduction
before the forward pass; the mask is scaled back afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = c.Threshold
			}
			if opts.threshold <= 0 || opts.threshold >= 1 {
				return fmt.Errorf("threshold must be in (0, 1), got %v", opts.threshold)
			}
			if a.weights == "" {
				a.logger.Warn("no weights given; predicting with random initialisation")
			}
			return a.predict(cmd, c, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.out, "out", "o", "mask.png", "output mask image")
	flags.StringVar(&opts.overlay, "overlay", "", "optional image with the mask painted over the input")
	flags.StringVar(&opts.hist, "hist", "", "optional histogram plot of mask probabilities")
	flags.StringVar(&opts.target, "target", "", "optional ground truth mask to score against")
	flags.Float64Var(&opts.threshold, "threshold", 0.5, "foreground probability threshold")
	flags.IntVar(&opts.bins, "bins", 50, "histogram bins")

	return cmd
}

func (a *app) predict(cmd *cobra.Command, c config.Config, path string, opts predictOptions) error {
	_, net, err := a.buildModel(c)
	if err != nil {
		return err
	}

	img, err := imageio.ReadImage(path)
	if err != nil {
		return err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	fitted := imageio.FitToMultiple(img, int(net.Encoder().Reduction()))
	a.logger.Debug("image loaded",
		zap.String("path", path),
		zap.Int("width", w), zap.Int("height", h),
		zap.Int("fitted_width", fitted.Bounds().Dx()), zap.Int("fitted_height", fitted.Bounds().Dy()),
	)

	x := imageio.ToTensor(fitted).MustTo(c.GotchDevice(), true)
	var probs []float64
	var ph, pw int
	ts.NoGrad(func() {
		logit := net.Forward(x).MustTo(gotch.CPU, true)
		probs, ph, pw = imageio.Probabilities(logit)
		logit.MustDrop()
	})
	x.MustDrop()

	mask := imageio.ResizeMask(imageio.Binarize(probs, ph, pw, opts.threshold), w, h)
	if err := imageio.SaveImage(mask, opts.out); err != nil {
		return err
	}
	a.logger.Info("mask saved", zap.String("path", opts.out))

	if opts.overlay != "" {
		overlay := imageio.Overlay(img, mask, color.RGBA{R: 255, A: 255})
		if err := imageio.SaveImage(overlay, opts.overlay); err != nil {
			return err
		}
		a.logger.Info("overlay saved", zap.String("path", opts.overlay))
	}

	if opts.hist != "" {
		if err := imageio.SaveHistogram(probs, opts.bins, opts.hist); err != nil {
			return err
		}
		a.logger.Info("histogram saved", zap.String("path", opts.hist))
	}

	if opts.target != "" {
		return a.score(cmd, mask, opts.target)
	}
	return nil
}

// score compares mask with the ground truth mask stored at path.
func (a *app) score(cmd *cobra.Command, mask *image.Gray, path string) error {
	target, err := imageio.ReadImage(path)
	if err != nil {
		return err
	}
	if !target.Bounds().Size().Eq(mask.Bounds().Size()) {
		return fmt.Errorf("target %s is %v, mask is %v", path, target.Bounds().Size(), mask.Bounds().Size())
	}

	pred := imageio.MaskTensor(mask)
	truth := imageio.MaskTensor(target)
	dice := metric.DiceCoeff(pred, truth)
	iou := metric.IoU(pred, truth)
	pred.MustDrop()
	truth.MustDrop()

	a.logger.Info("scored", zap.String("target", path), zap.Float64("dice", dice), zap.Float64("iou", iou))
	fmt.Fprintf(cmd.OutOrStdout(), "dice: %0.4f\niou: %0.4f\n", dice, iou)
	return nil
}
