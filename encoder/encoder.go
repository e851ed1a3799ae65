package encoder

import (
	"github.com/sugarme/gotch/ts"
)

// Encoder is encoder interface for a image segmentation model.
type Encoder interface {
	ts.ModuleT

	// OutChannels is the channel count of the encoded feature map.
	OutChannels() int64
	// Reduction is the factor by which height and width are divided.
	Reduction() int64
}
