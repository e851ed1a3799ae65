package base

import (
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"
)

// SegmentationHead projects decoder features to mask logits.
// No activation is applied; callers apply sigmoid or a logit loss.
type SegmentationHead struct {
	Proj *nn.ConvTranspose2D
}

// Forward implements ts.Module for SegmentationHead.
func (h *SegmentationHead) Forward(x *ts.Tensor) *ts.Tensor {
	return h.Proj.Forward(x)
}

// ForwardT implements ts.ModuleT for SegmentationHead.
func (h *SegmentationHead) ForwardT(x *ts.Tensor, train bool) *ts.Tensor {
	return h.Proj.Forward(x)
}

// NewSegmentationHead creates a size preserving transposed convolution head
// with cOut classes.
func NewSegmentationHead(p *nn.Path, cIn, cOut, ksize, padding int64) *SegmentationHead {
	return &SegmentationHead{
		Proj: ConvTranspose2d(p, cIn, cOut, ksize, padding, 1),
	}
}
