package unet

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/wickseg/encoder"
)

// WickUnet is an encoder-decoder segmentation model producing a single
// channel logit mask of the input size.
type WickUnet struct {
	encoder *encoder.WickEncoder
	decoder *WickDecoder
}

// NewWickUnet creates a WickUnet with encoder and decoder variables under
// p/"encoder" and p/"decoder".
func NewWickUnet(p *nn.Path, config Config) (*WickUnet, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	enc, err := encoder.NewWickEncoder(p.Sub("encoder"), config.Encoder)
	if err != nil {
		return nil, err
	}
	dec, err := NewWickDecoder(p.Sub("decoder"), config.Decoder)
	if err != nil {
		return nil, err
	}

	return &WickUnet{
		encoder: enc,
		decoder: dec,
	}, nil
}

// DefaultWickUnet creates WickUnet with default values.
func DefaultWickUnet(p *nn.Path) *WickUnet {
	n, err := NewWickUnet(p, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return n
}

// ForwardT implements ts.ModuleT for WickUnet.
func (n *WickUnet) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	features := n.encoder.ForwardT(x, train)
	logit := n.decoder.ForwardT(features, train)
	features.MustDrop()

	return logit
}

// Forward implements ts.Module for WickUnet.
func (n *WickUnet) Forward(x *ts.Tensor) *ts.Tensor {
	return n.ForwardT(x, false)
}

// ForwardAll returns the encoded features along with the logits.
// Caller owns both tensors.
func (n *WickUnet) ForwardAll(x *ts.Tensor, train bool) (features, logit *ts.Tensor) {
	features = n.encoder.ForwardT(x, train)
	logit = n.decoder.ForwardT(features, train)

	return features, logit
}

// Encoder returns the model's encoder.
func (n *WickUnet) Encoder() *encoder.WickEncoder {
	return n.encoder
}

// Decoder returns the model's decoder.
func (n *WickUnet) Decoder() *WickDecoder {
	return n.decoder
}

// Config returns the architecture n was built with.
func (n *WickUnet) Config() Config {
	return Config{
		Encoder: n.encoder.Config(),
		Decoder: n.decoder.Config(),
	}
}
