package base_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/nn"
	"github.com/sugarme/gotch/ts"

	"github.com/sugarme/wickseg/base"
)

func TestLayerSizes(t *testing.T) {
	vs := nn.NewVarStore(gotch.CPU)
	root := vs.Root()

	conv := base.Conv2d(root.Sub("conv"), 3, 4, 5, 2, 1)
	up := base.ConvTranspose2d(root.Sub("up"), 4, 2, 2, 0, 2)
	head := base.NewSegmentationHead(root.Sub("head"), 2, 1, 5, 2)
	pool := base.MaxPool2d(2)

	assert.Equal(t, []int64{4, 3, 5, 5}, conv.Ws.MustSize())
	assert.Equal(t, []int64{4, 2, 2, 2}, up.Ws.MustSize())
	assert.Equal(t, []int64{2, 1, 5, 5}, head.Proj.Ws.MustSize())

	x := ts.MustRand([]int64{1, 3, 9, 10}, gotch.Float, gotch.CPU)
	ts.NoGrad(func() {
		c := conv.Forward(x)
		assert.Equal(t, []int64{1, 4, 9, 10}, c.MustSize())
		p := pool.Forward(c)
		assert.Equal(t, []int64{1, 4, 4, 5}, p.MustSize())
		u := up.Forward(p)
		assert.Equal(t, []int64{1, 2, 8, 10}, u.MustSize())
		h := head.ForwardT(u, false)
		assert.Equal(t, []int64{1, 1, 8, 10}, h.MustSize())

		for _, r := range []*ts.Tensor{c, p, u, h} {
			r.MustDrop()
		}
	})
}

func TestMaxPool2d(t *testing.T) {
	x := ts.MustOfSlice([]float32{
		1, 2, 0, 0,
		3, 4, 0, 5,
		-1, -2, 7, 6,
		-3, -4, 8, 1,
	}).MustView([]int64{1, 1, 4, 4}, true)

	out := base.MaxPool2d(2).Forward(x)
	assert.Equal(t, []float64{4, 5, -1, 8}, out.Float64Values())
}
