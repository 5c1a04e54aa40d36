package backend

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/csotherden/gorgonia-matbench/engine"
)

// tensorBackend multiplies gorgonia tensor.Dense values through
// engine.Eng.
type tensorBackend struct{}

func (tensorBackend) Name() string    { return "tensor" }
func (tensorBackend) Library() string { return "gorgonia.org/tensor" }

func (tensorBackend) Operands(n int, rnd *rand.Rand) (Pair, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return emptyPair{}, nil
	}
	eng := engine.New()
	newMatrix := func() *tensor.Dense {
		return tensor.New(
			tensor.WithShape(n, n),
			tensor.WithBacking(RandomData(n, rnd)),
			tensor.WithEngine(eng),
		)
	}
	a := newMatrix()
	b := newMatrix()
	return &tensorPair{eng: eng, a: a, b: b}, nil
}

type tensorPair struct {
	eng  *engine.Eng
	a, b *tensor.Dense
}

func (p *tensorPair) Dims() (r, c int) {
	s := p.a.Shape()
	return s[0], s[1]
}

func (p *tensorPair) Close() error { return nil }

func (p *tensorPair) Mul() (mat.Matrix, error) {
	m := p.a.Shape()[0]
	n := p.b.Shape()[1]
	c := tensor.New(
		tensor.WithShape(m, n),
		tensor.WithBacking(make([]float64, m*n)),
		tensor.WithEngine(p.eng),
	)
	if err := p.eng.MatMul(p.a, p.b, c); err != nil {
		return nil, errors.Wrap(err, "tensor: MatMul")
	}
	view, err := newDenseView(c)
	if err != nil {
		return nil, errors.Wrap(err, "tensor")
	}
	return view, nil
}

// shapedData is satisfied by tensor.Tensor and gorgonia.Value.
type shapedData interface {
	Shape() tensor.Shape
	Data() interface{}
}

// denseView exposes a 2D float64 tensor.Dense as a mat.Matrix.
type denseView struct {
	rows, cols int
	data       []float64
}

func newDenseView(t shapedData) (*denseView, error) {
	shape := t.Shape()
	if len(shape) != 2 {
		return nil, errors.Errorf("expected a matrix, got shape %v", shape)
	}
	data, ok := t.Data().([]float64)
	if !ok {
		return nil, errors.Errorf("expected []float64 backing, got %T", t.Data())
	}
	return &denseView{rows: shape[0], cols: shape[1], data: data}, nil
}

func (v *denseView) Dims() (r, c int) { return v.rows, v.cols }

func (v *denseView) At(i, j int) float64 {
	if uint(i) >= uint(v.rows) || uint(j) >= uint(v.cols) {
		panic(mat.ErrIndexOutOfRange)
	}
	return v.data[i*v.cols+j]
}

func (v *denseView) T() mat.Matrix { return mat.Transpose{Matrix: v} }
