// Package bench times dense square matrix multiplication.
//
// A Runner draws two random n×n matrices from a backend, multiplies them
// a fixed number of times and prints the mean wall-clock duration per
// multiplication as
//
//	Size {n}: {mean}ns
//
// There is no warm-up, no variance report and no outlier rejection.
package bench

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/csotherden/gorgonia-matbench/backend"
)

// Matrix sizes used by the Go benchmarks.
const (
	SmallMat  = 10
	MediumMat = 100
	LargeMat  = 1000
	HugeMat   = 10000
)

// DefaultIterations is the number of timed multiplications per size.
const DefaultIterations = 10

// DefaultSizes are benchmarked in this order.
var DefaultSizes = []int{SmallMat, MediumMat, LargeMat, HugeMat}

// Result holds the timings for one matrix size.
type Result struct {
	Size    int
	Samples []time.Duration
	// Mean is the arithmetic mean of Samples in nanoseconds.
	Mean float64
}

// Runner benchmarks one backend.
type Runner struct {
	backend    backend.Backend
	iterations int
	out        io.Writer
	log        zerolog.Logger
	rnd        *rand.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithIterations sets the number of timed multiplications per size.
func WithIterations(n int) Option {
	return func(r *Runner) { r.iterations = n }
}

// WithOutput sets where result lines are printed.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithLogger sets the logger for progress and per-sample records.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithRand sets the source of the matrix contents. Without it the
// generator is seeded from the clock and runs are not reproducible.
func WithRand(rnd *rand.Rand) Option {
	return func(r *Runner) { r.rnd = rnd }
}

// New returns a Runner for b.
func New(b backend.Backend, opts ...Option) *Runner {
	r := &Runner{
		backend:    b,
		iterations: DefaultIterations,
		out:        os.Stdout,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		r.rnd = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return r
}

// Run times r.iterations multiplications of two fresh random n×n
// matrices and prints the mean. A product whose shape is not n×n means
// the library is broken and Run panics. The operands are closed before
// Run returns.
func (r *Runner) Run(n int) (res Result, err error) {
	if n < 0 {
		return Result{}, errors.Errorf("bench: negative size %d", n)
	}
	if r.iterations < 1 {
		return Result{}, errors.Errorf("bench: iterations must be positive, got %d", r.iterations)
	}

	log := r.log.With().Str("backend", r.backend.Name()).Int("size", n).Logger()
	log.Info().Int("iterations", r.iterations).Msg("benchmarking")

	pair, err := r.backend.Operands(n, r.rnd)
	if err != nil {
		return Result{}, errors.Wrapf(err, "bench: operands for size %d", n)
	}
	defer func() {
		if cerr := pair.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "bench: releasing operands for size %d", n)
		}
	}()

	samples := make([]time.Duration, 0, r.iterations)
	for i := 0; i < r.iterations; i++ {
		start := time.Now()
		c, err := pair.Mul()
		elapsed := time.Since(start)
		if err != nil {
			return Result{}, errors.Wrapf(err, "bench: multiply size %d", n)
		}
		samples = append(samples, elapsed)

		if rows, cols := c.Dims(); rows != n || cols != n {
			ar, ac := pair.Dims()
			panic(errors.Errorf("bench: %s product of %dx%d operands is %dx%d",
				r.backend.Name(), ar, ac, rows, cols))
		}
		log.Debug().Int("iteration", i).Dur("elapsed", elapsed).Msg("sample")
	}

	res = Result{Size: n, Samples: samples, Mean: Mean(samples)}
	if _, err := fmt.Fprintf(r.out, "Size %d: %sns\n", n, strconv.FormatFloat(res.Mean, 'f', -1, 64)); err != nil {
		return res, errors.Wrap(err, "bench: writing result")
	}
	return res, nil
}

// RunAll runs every size in order and stops at the first error.
func (r *Runner) RunAll(sizes []int) ([]Result, error) {
	results := make([]Result, 0, len(sizes))
	for _, n := range sizes {
		res, err := r.Run(n)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Mean returns the arithmetic mean of samples in nanoseconds, or 0 for
// no samples.
func Mean(samples []time.Duration) float64 {
	if len(samples) == 0 {
		return 0
	}
	ns := make([]float64, len(samples))
	for i, d := range samples {
		ns[i] = float64(d.Nanoseconds())
	}
	return stat.Mean(ns, nil)
}
