package backend

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// gorgoniaBackend builds an expression graph c = a×b once per operand
// pair and executes it on a tape machine for every Mul. The machine is
// reset before each run so the previous product stays bound until then.
type gorgoniaBackend struct{}

func (gorgoniaBackend) Name() string    { return "gorgonia" }
func (gorgoniaBackend) Library() string { return "gorgonia.org/gorgonia" }

func (gorgoniaBackend) Operands(n int, rnd *rand.Rand) (Pair, error) {
	if err := checkSize(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return emptyPair{}, nil
	}

	g := G.NewGraph()
	newNode := func(name string) *G.Node {
		value := tensor.New(
			tensor.WithShape(n, n),
			tensor.WithBacking(RandomData(n, rnd)),
		)
		return G.NewMatrix(g, tensor.Float64,
			G.WithShape(n, n),
			G.WithName(name),
			G.WithValue(value),
		)
	}
	a := newNode("a")
	b := newNode("b")

	c, err := G.Mul(a, b)
	if err != nil {
		return nil, errors.Wrap(err, "gorgonia: building a×b")
	}
	return &gorgoniaPair{n: n, c: c, vm: G.NewTapeMachine(g)}, nil
}

type gorgoniaPair struct {
	n  int
	c  *G.Node
	vm G.VM
}

func (p *gorgoniaPair) Dims() (r, c int) { return p.n, p.n }

// Close releases the tape machine.
func (p *gorgoniaPair) Close() error {
	return errors.Wrap(p.vm.Close(), "gorgonia: closing tape machine")
}

func (p *gorgoniaPair) Mul() (mat.Matrix, error) {
	p.vm.Reset()
	if err := p.vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "gorgonia: running a×b")
	}
	v := p.c.Value()
	if v == nil {
		return nil, errors.New("gorgonia: a×b produced no value")
	}
	// The view aliases the tape machine's output buffer, which the next
	// RunAll overwrites.
	view, err := newDenseView(v)
	if err != nil {
		return nil, errors.Wrap(err, "gorgonia")
	}
	return view, nil
}
