// Package config loads the wickseg YAML configuration.
package config

import (
	"fmt"
	"os"

	"github.com/sugarme/gotch"
	"gopkg.in/yaml.v3"

	"github.com/sugarme/wickseg/base"
	"github.com/sugarme/wickseg/unet"
)

const (
	DeviceCPU  = "cpu"
	DeviceCuda = "cuda"
)

// Config is the top level wickseg configuration.
type Config struct {
	Model unet.Config `yaml:"model"`
	// Device is "cpu" or "cuda". CUDA falls back to CPU when unavailable.
	Device string `yaml:"device"`
	// Threshold is the foreground probability cut off for predicted masks.
	Threshold float64 `yaml:"threshold"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Model:     unet.DefaultConfig(),
		Device:    DeviceCPU,
		Threshold: 0.5,
	}
}

// Load reads a YAML file at path. Fields missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the model architecture and runtime settings.
func (c Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	switch c.Device {
	case DeviceCPU, DeviceCuda:
	default:
		return fmt.Errorf("%w: unknown device %q", base.ErrInvalidConfig, c.Device)
	}
	if c.Threshold <= 0 || c.Threshold >= 1 {
		return fmt.Errorf("%w: threshold must be in (0, 1), got %v", base.ErrInvalidConfig, c.Threshold)
	}
	return nil
}

// GotchDevice resolves Device to a gotch device.
func (c Config) GotchDevice() gotch.Device {
	if c.Device == DeviceCuda {
		return gotch.CudaIfAvailable()
	}
	return gotch.CPU
}
