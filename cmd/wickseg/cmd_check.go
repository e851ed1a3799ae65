package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"
	"go.uber.org/zap"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		batch int64
		size  int64
		iters int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Forward random batches and report tensor shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadConfig()
			if err != nil {
				return err
			}
			if batch <= 0 || size <= 0 || iters <= 0 {
				return fmt.Errorf("batch, size and iters must be positive")
			}
			_, net, err := a.buildModel(c)
			if err != nil {
				return err
			}
			if r := net.Encoder().Reduction(); size%r != 0 {
				a.logger.Warn("image size not divisible by encoder reduction; output will be truncated",
					zap.Int64("size", size), zap.Int64("reduction", r))
			}

			device := c.GotchDevice()
			inChannels := c.Model.Encoder.Channels[0]
			image := ts.MustRand([]int64{batch, inChannels, size, size}, gotch.Float, device)
			defer image.MustDrop()

			for i := 0; i < iters; i++ {
				start := time.Now()
				ts.NoGrad(func() {
					features, logit := net.ForwardAll(image, false)
					a.logger.Info("forward",
						zap.Int("iter", i),
						zap.Int64s("input", image.MustSize()),
						zap.Int64s("features", features.MustSize()),
						zap.Int64s("logit", logit.MustSize()),
						zap.Duration("elapsed", time.Since(start)),
					)
					fmt.Fprintf(cmd.OutOrStdout(), "%02d: %v -> %v -> %v\n", i, image.MustSize(), features.MustSize(), logit.MustSize())
					features.MustDrop()
					logit.MustDrop()
				})
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&batch, "batch", 2, "batch size")
	cmd.Flags().Int64Var(&size, "size", 64, "square image size")
	cmd.Flags().IntVar(&iters, "iters", 1, "number of forward passes")

	return cmd
}
