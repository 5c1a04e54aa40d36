package backend

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// gonumBackend multiplies mat.Dense values with (*mat.Dense).Mul, which
// dispatches to whatever blas64 implementation is registered.
type gonumBackend struct{}

func (gonumBackend) Name() string    { return "gonum" }
func (gonumBackend) Library() string { return "gonum.org/v1/gonum" }

func (gonumBackend) Operands(n int, rnd *rand.Rand) (Pair, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return emptyPair{}, nil
	}
	a := mat.NewDense(n, n, RandomData(n, rnd))
	b := mat.NewDense(n, n, RandomData(n, rnd))
	return &gonumPair{a: a, b: b}, nil
}

type gonumPair struct {
	a, b *mat.Dense
}

func (p *gonumPair) Dims() (r, c int) { return p.a.Dims() }
func (p *gonumPair) Close() error     { return nil }

func (p *gonumPair) Mul() (mat.Matrix, error) {
	var c mat.Dense
	c.Mul(p.a, p.b)
	return &c, nil
}
