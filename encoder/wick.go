package encoder

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/wickseg/base"
)

var _ Encoder = (*WickEncoder)(nil)

// WickEncoder downsamples an RGB image into a compressed feature map
// through two convolution pairs separated by max pooling.
type WickEncoder struct {
	Conv1 *nn.Conv2D
	Conv2 *nn.Conv2D
	Conv3 *nn.Conv2D
	Conv4 *nn.Conv2D
	Conv5 *nn.Conv2D

	pool   nn.Func
	config Config
}

// NewWickEncoder creates a WickEncoder with variables rooted at p.
func NewWickEncoder(p *nn.Path, config Config) (*WickEncoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ch := config.Channels
	k, pad := config.Kernel, config.Padding

	return &WickEncoder{
		Conv1:  base.Conv2d(p.Sub("conv1"), ch[0], ch[1], k, pad, 1),
		Conv2:  base.Conv2d(p.Sub("conv2"), ch[1], ch[2], k, pad, 1),
		Conv3:  base.Conv2d(p.Sub("conv3"), ch[2], ch[3], k, pad, 1),
		Conv4:  base.Conv2d(p.Sub("conv4"), ch[3], ch[4], k, pad, 1),
		Conv5:  base.Conv2d(p.Sub("conv5"), ch[4], ch[5], k, pad, 1),
		pool:   base.MaxPool2d(config.PoolKernel),
		config: config,
	}, nil
}

// DefaultWickEncoder creates a WickEncoder with the default architecture.
func DefaultWickEncoder(p *nn.Path) *WickEncoder {
	e, err := NewWickEncoder(p, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

// ForwardT implements ts.ModuleT for WickEncoder.
func (e *WickEncoder) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	c1 := e.Conv1.Forward(x).MustRelu(true) // [B  40 H   W  ]
	c2 := e.Conv2.Forward(c1)                // [B  60 H   W  ]
	c1.MustDrop()
	p1 := e.pool.Forward(c2) // [B  60 H/2 W/2]
	c2.MustDrop()

	c3 := e.Conv3.Forward(p1).MustRelu(true) // [B 120 H/2 W/2]
	p1.MustDrop()
	c4 := e.Conv4.Forward(c3) // [B 160 H/2 W/2]
	c3.MustDrop()
	p2 := e.pool.Forward(c4) // [B 160 H/4 W/4]
	c4.MustDrop()

	out := e.Conv5.Forward(p2).MustRelu(true) // [B 240 H/4 W/4]
	p2.MustDrop()

	return out
}

// Forward implements ts.Module for WickEncoder.
func (e *WickEncoder) Forward(x *ts.Tensor) *ts.Tensor {
	return e.ForwardT(x, false)
}

// OutChannels implements Encoder.
func (e *WickEncoder) OutChannels() int64 {
	return e.config.Channels[numStages]
}

// Reduction implements Encoder.
func (e *WickEncoder) Reduction() int64 {
	return e.config.Reduction()
}

// Config returns the architecture e was built with.
func (e *WickEncoder) Config() Config {
	return e.config
}
