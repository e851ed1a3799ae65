// Package metric scores predicted segmentation masks against ground truth.
package metric

import (
	"github.com/sugarme/gotch"
	"github.com/sugarme/gotch/ts"
)

func sum(x *ts.Tensor) float64 {
	s := x.MustSum(gotch.Double, false)
	v := s.Float64Values()[0]
	s.MustDrop()
	return v
}

// overlap returns intersection and the sizes of two binary masks.
func overlap(pred, target *ts.Tensor) (inter, p, t float64) {
	pd := pred.MustTotype(gotch.Double, false)
	td := target.MustTotype(gotch.Double, false)
	prod := pd.MustMul(td, false)

	inter, p, t = sum(prod), sum(pd), sum(td)

	prod.MustDrop()
	pd.MustDrop()
	td.MustDrop()

	return inter, p, t
}

// DiceCoeff computes the Dice coefficient 2|P∩T| / (|P|+|T|) of binary
// masks pred and target of the same shape. Two empty masks score 1.
func DiceCoeff(pred, target *ts.Tensor) float64 {
	inter, p, t := overlap(pred, target)
	if p+t == 0 {
		return 1
	}
	return 2 * inter / (p + t)
}

// IoU computes intersection over union |P∩T| / |P∪T| of binary masks.
// Two empty masks score 1.
func IoU(pred, target *ts.Tensor) float64 {
	inter, p, t := overlap(pred, target)
	union := p + t - inter
	if union == 0 {
		return 1
	}
	return inter / union
}

// JaccardIndex computes the mean IoU over label values 0..classes-1.
// Classes absent from both pred and target are left out of the mean.
func JaccardIndex(pred, target *ts.Tensor, classes int64) float64 {
	pv := pred.Float64Values()
	tv := target.Float64Values()

	var total float64
	var counted int
	for c := int64(0); c < classes; c++ {
		label := float64(c)
		var inter, union int
		for i := range pv {
			inP, inT := pv[i] == label, tv[i] == label
			if inP && inT {
				inter++
			}
			if inP || inT {
				union++
			}
		}
		if union == 0 {
			continue
		}
		total += float64(inter) / float64(union)
		counted++
	}

	if counted == 0 {
		return 1
	}
	return total / float64(counted)
}
