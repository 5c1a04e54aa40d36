package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootPrintsConfigThenResults(t *testing.T) {
	out, err := execute(t, "--backend", "naive", "--sizes", "10,1,20", "--iterations", "2", "--seed", "3")
	require.NoError(t, err)

	config, results, found := strings.Cut(out, "\n\n")
	require.True(t, found, "blank separator line missing in %q", out)
	assert.True(t, strings.HasPrefix(config, "backend: naive\n"))

	lines := strings.Split(strings.TrimSuffix(results, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^Size 10: [0-9.]+ns$`, lines[0])
	assert.Regexp(t, `^Size 1: [0-9.]+ns$`, lines[1])
	assert.Regexp(t, `^Size 20: [0-9.]+ns$`, lines[2])
}

func TestRootDefaults(t *testing.T) {
	cmd := newRootCmd()
	flags := cmd.Flags()

	b, err := flags.GetString("backend")
	require.NoError(t, err)
	assert.Equal(t, "tensor", b)

	sizes, err := flags.GetIntSlice("sizes")
	require.NoError(t, err)
	assert.Equal(t, []int{10, 100, 1000, 10000}, sizes)

	iterations, err := flags.GetInt("iterations")
	require.NoError(t, err)
	assert.Equal(t, 10, iterations)
}

func TestRootErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown backend", []string{"--backend", "numpy"}, "unknown backend"},
		{"bad log level", []string{"--log-level", "loud"}, "invalid --log-level"},
		{"positional args", []string{"extra"}, "unknown command"},
		{"zero iterations", []string{"--backend", "naive", "--sizes", "2", "--iterations", "0"}, "iterations must be positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestBackendsCommand(t *testing.T) {
	out, err := execute(t, "backends")
	require.NoError(t, err)
	assert.Equal(t, "gonum\ngorgonia\nnaive\ntensor\n", out)
}

// failingWriter accepts ok writes and fails every write after that.
type failingWriter struct {
	ok int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.ok == 0 {
		return 0, errors.New("disk full")
	}
	w.ok--
	return len(p), nil
}

func TestRunWriteErrors(t *testing.T) {
	opts := options{backend: "naive", sizes: []int{2}, iterations: 1, seed: 1, logLevel: "warn"}

	err := run(&failingWriter{ok: 0}, io.Discard, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing configuration")

	err = run(&failingWriter{ok: 1}, io.Discard, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing separator: disk full")

	err = run(&failingWriter{ok: 2}, io.Discard, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing result")
}
