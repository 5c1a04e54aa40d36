// Package backend wraps the dense linear-algebra libraries the benchmark
// can drive. Each Backend knows how to build a pair of random square
// operands in its own array type and multiply them with its own operator.
package backend

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Default is the backend used when none is requested.
const Default = "tensor"

// Backend is a dense linear-algebra library.
type Backend interface {
	// Name is the registry key.
	Name() string
	// Library is the Go module path of the numerical library.
	Library() string
	// Operands returns two independent n×n matrices filled with uniform
	// values in [0,1) drawn from rnd.
	Operands(n int, rnd *rand.Rand) (Pair, error)
}

// Pair holds the two operands of a multiplication and whatever the
// library needs to multiply them. Close releases those resources.
type Pair interface {
	io.Closer
	// Dims returns the shape of the left operand.
	Dims() (r, c int)
	// Mul computes the product of the pair. The result may share storage
	// with the pair and is only valid until the next call to Mul; callers
	// that keep it must copy it (mat.DenseCopyOf).
	Mul() (mat.Matrix, error)
}

var registry = map[string]Backend{}

func register(b Backend) {
	if _, dup := registry[b.Name()]; dup {
		panic("backend: duplicate registration of " + b.Name())
	}
	registry[b.Name()] = b
}

func init() {
	register(tensorBackend{})
	register(gonumBackend{})
	register(gorgoniaBackend{})
	register(naiveBackend{})
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	b, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("backend: unknown backend %q (available: %v)", name, Names())
	}
	return b, nil
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RandomData returns n*n values drawn uniformly from [0,1), laid out
// row-major.
func RandomData(n int, rnd *rand.Rand) []float64 {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = rnd.Float64()
	}
	return data
}

func checkSize(n int) error {
	if n < 0 {
		return errors.Errorf("backend: negative matrix size %d", n)
	}
	return nil
}

// emptyPair stands in for the 0×0 case. None of the libraries accept
// zero-length matrices, so the product is produced without them.
type emptyPair struct{}

func (emptyPair) Dims() (r, c int)         { return 0, 0 }
func (emptyPair) Mul() (mat.Matrix, error) { return emptyMatrix{}, nil }
func (emptyPair) Close() error             { return nil }

type emptyMatrix struct{}

func (emptyMatrix) Dims() (r, c int) { return 0, 0 }
func (emptyMatrix) At(i, j int) float64 {
	panic(mat.ErrIndexOutOfRange)
}
func (m emptyMatrix) T() mat.Matrix { return m }
