package engine

import (
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

// resolveAxis mirrors tensor.resolveAxis (which is unexported) so that
// negative axes are handled the same way as in StdEng.
//
// For example, for dims=2 and axis=-1 this returns 1 (the last dim).
func resolveAxis(axis, dims int) int {
	res := axis % dims
	if (res < 0 && dims > 0) || (res > 0 && dims < 0) {
		return res + dims
	}
	return res
}

// Sum accelerates two float64 reductions:
//   - a 1D vector summed along its only axis, yielding a scalar;
//   - a 2D row-major matrix summed along the last axis, yielding a
//     vector of row sums.
//
// The input is left untouched. All other inputs go to StdEng.Sum.
func (e *Eng) Sum(a tensor.Tensor, along ...int) (tensor.Tensor, error) {
	ad, ok := a.(*tensor.Dense)
	if !ok || ad.Dtype() != tensor.Float64 || ad.RequiresIterator() {
		return e.StdEng.Sum(a, along...)
	}
	data, ok := ad.Data().([]float64)
	if !ok {
		return e.StdEng.Sum(a, along...)
	}

	switch ad.Dims() {
	case 1:
		if len(along) > 1 || (len(along) == 1 && resolveAxis(along[0], 1) != 0) {
			return e.StdEng.Sum(a, along...)
		}
		n := ad.Shape()[0]
		if len(data) < n {
			return e.StdEng.Sum(a, along...)
		}
		return tensor.New(tensor.FromScalar(floats.Sum(data[:n]))), nil

	case 2:
		if len(along) != 1 || resolveAxis(along[0], 2) != 1 {
			return e.StdEng.Sum(a, along...)
		}
		if !isRowMajorContiguous2D(ad) {
			return e.StdEng.Sum(a, along...)
		}
		shape := ad.Shape()
		rows, cols := shape[0], shape[1]
		if len(data) < rows*cols {
			return e.StdEng.Sum(a, along...)
		}
		out := make([]float64, rows)
		for i := range out {
			out[i] = floats.Sum(data[i*cols : (i+1)*cols])
		}
		return tensor.New(
			tensor.WithShape(rows),
			tensor.WithBacking(out),
			tensor.WithEngine(e),
		), nil
	}
	return e.StdEng.Sum(a, along...)
}
