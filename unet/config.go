package unet

import (
	"fmt"

	"github.com/sugarme/wickseg/base"
	"github.com/sugarme/wickseg/encoder"
)

const numDecoderStages = 4

// DecoderConfig holds the WickDecoder architecture.
type DecoderConfig struct {
	// Channels lists the input channels followed by the output channels of
	// deconv1..deconv4.
	Channels []int64 `yaml:"channels"`
	Kernel   int64   `yaml:"kernel"`
	Padding  int64   `yaml:"padding"`
	// MidKernel is kernel and stride of the two upsampling layers. It should
	// match the encoder pool kernel to restore the input size.
	MidKernel int64 `yaml:"mid_kernel"`
}

// DefaultDecoderConfig returns the default WickDecoder architecture.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		Channels:  []int64{240, 120, 60, 2, 1},
		Kernel:    5,
		Padding:   2,
		MidKernel: 2,
	}
}

// DecoderOption modifies a DecoderConfig.
type DecoderOption func(*DecoderConfig)

// WithChannels overrides the decoder channel sequence.
func WithChannels(channels ...int64) DecoderOption {
	return func(c *DecoderConfig) {
		c.Channels = append([]int64(nil), channels...)
	}
}

// WithKernel overrides the size preserving kernel.
func WithKernel(k int64) DecoderOption {
	return func(c *DecoderConfig) {
		c.Kernel = k
	}
}

// WithPadding overrides the padding of the size preserving layers.
func WithPadding(p int64) DecoderOption {
	return func(c *DecoderConfig) {
		c.Padding = p
	}
}

// WithMidKernel overrides kernel and stride of the upsampling layers.
func WithMidKernel(k int64) DecoderOption {
	return func(c *DecoderConfig) {
		c.MidKernel = k
	}
}

// NewDecoderConfig applies opts to the default decoder config.
func NewDecoderConfig(opts ...DecoderOption) DecoderConfig {
	c := DefaultDecoderConfig()
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Validate checks that c describes a buildable decoder.
func (c DecoderConfig) Validate() error {
	if len(c.Channels) != numDecoderStages+1 {
		return fmt.Errorf("%w: decoder expects %d channels, got %d", base.ErrInvalidConfig, numDecoderStages+1, len(c.Channels))
	}
	for i, ch := range c.Channels {
		if ch <= 0 {
			return fmt.Errorf("%w: decoder channel %d is %d", base.ErrInvalidConfig, i, ch)
		}
	}
	if c.Kernel <= 0 {
		return fmt.Errorf("%w: decoder kernel must be positive, got %d", base.ErrInvalidConfig, c.Kernel)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: decoder padding must not be negative, got %d", base.ErrInvalidConfig, c.Padding)
	}
	if c.MidKernel <= 0 {
		return fmt.Errorf("%w: decoder mid kernel must be positive, got %d", base.ErrInvalidConfig, c.MidKernel)
	}
	return nil
}

// Config is the full WickUnet architecture.
type Config struct {
	Encoder encoder.Config `yaml:"encoder"`
	Decoder DecoderConfig  `yaml:"decoder"`
}

// DefaultConfig returns the default WickUnet architecture.
func DefaultConfig() Config {
	return Config{
		Encoder: encoder.DefaultConfig(),
		Decoder: DefaultDecoderConfig(),
	}
}

// Validate checks both halves and that the encoder output width feeds the
// decoder input width.
func (c Config) Validate() error {
	if err := c.Encoder.Validate(); err != nil {
		return err
	}
	if err := c.Decoder.Validate(); err != nil {
		return err
	}
	encOut := c.Encoder.Channels[len(c.Encoder.Channels)-1]
	if decIn := c.Decoder.Channels[0]; encOut != decIn {
		return fmt.Errorf("%w: encoder outputs %d channels but decoder expects %d", base.ErrInvalidConfig, encOut, decIn)
	}
	return nil
}
