package encoder

import (
	"fmt"

	"github.com/sugarme/wickseg/base"
)

// numStages is the number of convolutions in the WickEncoder.
const numStages = 5

// Config holds the WickEncoder architecture.
type Config struct {
	// Channels lists the input channels followed by the output channels of
	// conv1..conv5.
	Channels   []int64 `yaml:"channels"`
	Kernel     int64   `yaml:"kernel"`
	Padding    int64   `yaml:"padding"`
	PoolKernel int64   `yaml:"pool_kernel"`
}

// DefaultConfig returns the default WickEncoder architecture.
func DefaultConfig() Config {
	return Config{
		Channels:   []int64{3, 40, 60, 120, 160, 240},
		Kernel:     5,
		Padding:    2,
		PoolKernel: 2,
	}
}

// Option modifies a Config.
type Option func(*Config)

// WithChannels overrides the channel sequence.
func WithChannels(channels ...int64) Option {
	return func(c *Config) {
		c.Channels = append([]int64(nil), channels...)
	}
}

// WithKernel overrides the convolution kernel size.
func WithKernel(k int64) Option {
	return func(c *Config) {
		c.Kernel = k
	}
}

// WithPadding overrides the convolution padding.
func WithPadding(p int64) Option {
	return func(c *Config) {
		c.Padding = p
	}
}

// WithPoolKernel overrides the pooling window, which is also its stride.
func WithPoolKernel(k int64) Option {
	return func(c *Config) {
		c.PoolKernel = k
	}
}

// NewConfig applies opts to the default config.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Validate checks that c describes a buildable encoder.
func (c Config) Validate() error {
	if len(c.Channels) != numStages+1 {
		return fmt.Errorf("%w: encoder expects %d channels, got %d", base.ErrInvalidConfig, numStages+1, len(c.Channels))
	}
	for i, ch := range c.Channels {
		if ch <= 0 {
			return fmt.Errorf("%w: encoder channel %d is %d", base.ErrInvalidConfig, i, ch)
		}
	}
	if c.Kernel <= 0 {
		return fmt.Errorf("%w: encoder kernel must be positive, got %d", base.ErrInvalidConfig, c.Kernel)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: encoder padding must not be negative, got %d", base.ErrInvalidConfig, c.Padding)
	}
	if c.PoolKernel <= 0 {
		return fmt.Errorf("%w: encoder pool kernel must be positive, got %d", base.ErrInvalidConfig, c.PoolKernel)
	}
	return nil
}

// Reduction is the total spatial downsampling factor of two pooling steps.
func (c Config) Reduction() int64 {
	return c.PoolKernel * c.PoolKernel
}
