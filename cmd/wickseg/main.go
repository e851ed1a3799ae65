// Command wickseg builds, inspects and runs the WickUnet segmentation model.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sugarme/gotch/nn"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sugarme/wickseg/config"
	"github.com/sugarme/wickseg/unet"
)

// app holds global flags and the logger shared by subcommands.
type app struct {
	verbose    bool
	configPath string
	weights    string
	cuda       bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "wickseg",
		Short: "WickUnet image segmentation model",
		Long: `wickseg builds the WickUnet encoder-decoder network on libtorch.

The architecture is read from an optional YAML file (--config); every field
missing from the file keeps its default value.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if a.verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&a.configPath, "config", "c", "", "path to YAML config file")
	flags.StringVarP(&a.weights, "weights", "w", "", "path to a '.ot' weight file to load")
	flags.BoolVar(&a.cuda, "cuda", false, "run on CUDA if available")

	root.AddCommand(
		newSummaryCmd(a),
		newCheckCmd(a),
		newInitCmd(a),
		newPredictCmd(a),
		newConfigCmd(a),
	)

	return root
}

// loadConfig reads the config file if given and applies flag overrides.
func (a *app) loadConfig() (config.Config, error) {
	c := config.Default()
	if a.configPath != "" {
		var err error
		if c, err = config.Load(a.configPath); err != nil {
			return c, err
		}
	}
	if a.cuda {
		c.Device = config.DeviceCuda
	}
	return c, c.Validate()
}

// buildModel creates the model on the configured device and loads weights
// when a weight file is given.
func (a *app) buildModel(c config.Config) (*nn.VarStore, *unet.WickUnet, error) {
	device := c.GotchDevice()
	vs := nn.NewVarStore(device)
	net, err := unet.NewWickUnet(vs.Root(), c.Model)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("model created", zap.String("device", c.Device), zap.Int("variables", len(vs.Variables())))

	if a.weights != "" {
		if err := vs.Load(a.weights); err != nil {
			return nil, nil, fmt.Errorf("loading weights %s: %w", a.weights, err)
		}
		a.logger.Info("weights loaded", zap.String("path", a.weights))
	}

	return vs, net, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
