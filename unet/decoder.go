package unet

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/wickseg/base"
)

// WickDecoder upsamples an encoded feature map back to a single channel
// logit mask.
type WickDecoder struct {
	Deconv1 *nn.ConvTranspose2D
	Deconv2 *nn.ConvTranspose2D
	Deconv3 *nn.ConvTranspose2D
	Head    *base.SegmentationHead // deconv4

	config DecoderConfig
}

// NewWickDecoder creates a WickDecoder with variables rooted at p.
func NewWickDecoder(p *nn.Path, config DecoderConfig) (*WickDecoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ch := config.Channels
	k, pad, mid := config.Kernel, config.Padding, config.MidKernel

	return &WickDecoder{
		Deconv1: base.ConvTranspose2d(p.Sub("deconv1"), ch[0], ch[1], k, pad, 1),
		// kernel and stride match the encoder pooling
		Deconv2: base.ConvTranspose2d(p.Sub("deconv2"), ch[1], ch[2], mid, 0, mid),
		Deconv3: base.ConvTranspose2d(p.Sub("deconv3"), ch[2], ch[3], mid, 0, mid),
		Head:    base.NewSegmentationHead(p.Sub("deconv4"), ch[3], ch[4], k, pad),
		config:  config,
	}, nil
}

// DefaultWickDecoder creates a WickDecoder with the default architecture.
func DefaultWickDecoder(p *nn.Path) *WickDecoder {
	d, err := NewWickDecoder(p, DefaultDecoderConfig())
	if err != nil {
		panic(err)
	}
	return d
}

// ForwardT implements ts.ModuleT for WickDecoder.
func (d *WickDecoder) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	z1 := d.Deconv1.Forward(x).MustRelu(true) // [B 120 H/4 W/4]
	z2 := d.Deconv2.Forward(z1).MustRelu(true) // [B  60 H/2 W/2]
	z1.MustDrop()
	z3 := d.Deconv3.Forward(z2) // [B   2 H   W  ]
	z2.MustDrop()
	logit := d.Head.ForwardT(z3, train) // [B   1 H   W  ]
	z3.MustDrop()

	return logit
}

// Forward implements ts.Module for WickDecoder.
func (d *WickDecoder) Forward(x *ts.Tensor) *ts.Tensor {
	return d.ForwardT(x, false)
}

// Config returns the architecture d was built with.
func (d *WickDecoder) Config() DecoderConfig {
	return d.config
}
