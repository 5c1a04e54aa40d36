// Command matbench times dense float64 matrix multiplication.
//
// It prints the configuration of the selected backend, a blank line, then
// one "Size {n}: {mean}ns" line per matrix size:
//
//	matbench
//	matbench --backend gonum --sizes 10,100
//	matbench backends
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/csotherden/gorgonia-matbench/backend"
	"github.com/csotherden/gorgonia-matbench/bench"
)

type options struct {
	backend    string
	sizes      []int
	iterations int
	seed       uint64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:           "matbench",
		Short:         "Time dense matrix multiplication at several sizes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.backend, "backend", backend.Default,
		"numerical backend ("+strings.Join(backend.Names(), ", ")+")")
	flags.IntSliceVar(&opts.sizes, "sizes", bench.DefaultSizes, "matrix sizes, benchmarked in the given order")
	flags.IntVar(&opts.iterations, "iterations", bench.DefaultIterations, "timed multiplications per size")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed for the matrix contents (0 seeds from the clock)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(&cobra.Command{
		Use:   "backends",
		Short: "List available backends",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range backend.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	})

	return cmd
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid --log-level %q", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

func run(stdout, stderr io.Writer, opts options) error {
	log, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	b, err := backend.Lookup(opts.backend)
	if err != nil {
		return err
	}

	seed := opts.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debug().Uint64("seed", seed).Str("backend", b.Name()).Ints("sizes", opts.sizes).Msg("starting")

	if _, err := backend.Describe(b).WriteTo(stdout); err != nil {
		return errors.Wrap(err, "writing configuration")
	}
	if _, err := fmt.Fprintln(stdout); err != nil {
		return errors.Wrap(err, "writing separator")
	}

	runner := bench.New(b,
		bench.WithIterations(opts.iterations),
		bench.WithOutput(stdout),
		bench.WithLogger(log),
		bench.WithRand(rand.New(rand.NewSource(seed))),
	)
	_, err = runner.RunAll(opts.sizes)
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "matbench:", err)
		os.Exit(1)
	}
}
