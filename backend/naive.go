package backend

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// naiveBackend is the textbook triple loop over row-major slices. It is
// slow on purpose and serves as the reference the library backends are
// checked against.
type naiveBackend struct{}

func (naiveBackend) Name() string    { return "naive" }
func (naiveBackend) Library() string { return "builtin" }

func (naiveBackend) Operands(n int, rnd *rand.Rand) (Pair, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return emptyPair{}, nil
	}
	return &naivePair{n: n, a: RandomData(n, rnd), b: RandomData(n, rnd)}, nil
}

type naivePair struct {
	n    int
	a, b []float64
}

func (p *naivePair) Dims() (r, c int) { return p.n, p.n }
func (p *naivePair) Close() error     { return nil }

func (p *naivePair) Mul() (mat.Matrix, error) {
	n := p.n
	c := make([]float64, n*n)
	for i := 0; i < n; i++ {
		row := c[i*n : (i+1)*n]
		for k := 0; k < n; k++ {
			aik := p.a[i*n+k]
			bk := p.b[k*n : (k+1)*n]
			for j := range row {
				row[j] += aik * bk[j]
			}
		}
	}
	return &denseView{rows: n, cols: n, data: c}, nil
}
