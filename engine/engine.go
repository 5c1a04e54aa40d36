// Package engine provides a tensor.Engine whose float64 MatMul goes
// straight to the registered gonum BLAS implementation.
package engine

import "gorgonia.org/tensor"

// Eng is a tensor.Engine implementation that delegates everything to
// tensor.StdEng except MatMul, which has a BLAS fast path for dense
// row-major float64 matrices.
type Eng struct {
	tensor.StdEng
}

// New constructs a new Eng.
func New() *Eng {
	return &Eng{
		StdEng: tensor.StdEng{},
	}
}

// Compile-time check that *Eng satisfies tensor.Engine.
var _ tensor.Engine = (*Eng)(nil)
