// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/katalvlaran/lvmarkov/internal/modelfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
states: [hot, cold]
symbols: [low, high]
transition: [[0.7, 0.3], [0.4, 0.6]]
emission:   [[0.9, 0.1], [0.2, 0.8]]
initial:    [0.6, 0.4]
observations:
  - [0, 1]
  - [0]
  - [1, 1, 0]
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	return path
}

// run executes hmmctl with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func TestForwardCommand(t *testing.T) {
	out, _, err := run(t, "--model", writeFixture(t), "forward")
	require.NoError(t, err)
	assert.Contains(t, out, "likelihood: 0.209\n")

	out, _, err = run(t, "--model", writeFixture(t), "forward", "--seq", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "likelihood: 0.62\n")
}

func TestBackwardCommand(t *testing.T) {
	out, _, err := run(t, "--model", writeFixture(t), "backward")
	require.NoError(t, err)
	assert.Contains(t, out, "likelihood: 0.209\n")
	assert.Contains(t, out, ", 1]\n") // B[:,T-1] = 1
}

func TestViterbiCommand(t *testing.T) {
	out, _, err := run(t, "-m", writeFixture(t), "viterbi")
	require.NoError(t, err)
	assert.Contains(t, out, "path: hot cold\n")
	assert.Contains(t, out, "probability: 0.1296\n")
}

func TestEvaluateAndDecodeCommands(t *testing.T) {
	path := writeFixture(t)

	out, _, err := run(t, "--model", path, "evaluate", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "seq 0: 0.209\n")
	assert.Contains(t, out, "seq 1: 0.62\n")
	assert.Contains(t, out, "seq 2: ")

	out, _, err = run(t, "--model", path, "decode")
	require.NoError(t, err)
	assert.Contains(t, out, "seq 0: hot cold (0.1296)\n")
	assert.Contains(t, out, "seq 1: hot (0.54)\n")
}

func TestTrainCommand(t *testing.T) {
	path := writeFixture(t)
	dst := filepath.Join(t.TempDir(), "trained.yaml")

	_, stderr, err := run(t, "--model", path, "--log-level", "debug",
		"train", "--seq", "2", "--iterations", "5", "--out", dst)
	require.NoError(t, err)
	assert.Contains(t, stderr, "baum-welch iteration")
	assert.Contains(t, stderr, "iterations: 5 converged: false")

	doc, err := modelfile.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"hot", "cold"}, doc.States)
	_, err = doc.Model(hmm.WithTolerance(1e-6))
	require.NoError(t, err)

	out, _, err := run(t, "--model", path, "train", "--iterations", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "transition:")
}

// TestSumTolerance loads a hand-written model whose rows are rounded.
func TestSumTolerance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rounded.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
states: [a, b, c]
symbols: [x, y]
transition: [[0.333, 0.333, 0.333], [0.5, 0.25, 0.25], [0.2, 0.3, 0.5]]
emission:   [[0.5, 0.5], [0.1, 0.9], [0.7, 0.3]]
initial:    [0.5, 0.25, 0.25]
observations:
  - [0, 1, 1]
`), 0o644))

	_, _, err := run(t, "--model", path, "forward")
	require.ErrorIs(t, err, hmm.ErrInvalidDistribution)

	out, _, err := run(t, "--model", path, "--sum-tolerance", "0.01", "forward")
	require.NoError(t, err)
	assert.Contains(t, out, "likelihood: ")

	_, _, err = run(t, "--model", path, "--sum-tolerance", "0.01", "train", "--iterations", "2")
	require.NoError(t, err)

	_, _, err = run(t, "--model", path, "--sum-tolerance", "-1", "forward")
	require.Error(t, err)
}

func TestChainCommand(t *testing.T) {
	out, _, err := run(t, "--model", writeFixture(t), "chain", "--steps", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "distribution after 0 steps: [0.600000 0.400000]\n")
	assert.Contains(t, out, "stationary: [0.571429 0.428571]\n")
	assert.Contains(t, out, "absorbing: false\n")
}

func TestCommandErrors(t *testing.T) {
	path := writeFixture(t)

	_, _, err := run(t, "--model", filepath.Join(t.TempDir(), "missing.yaml"), "forward")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "--model", path, "viterbi", "--seq", "7")
	require.ErrorIs(t, err, modelfile.ErrNoSequence)

	_, _, err = run(t, "--model", path, "train", "--iterations", "-1")
	require.ErrorIs(t, err, hmm.ErrInvalidParameter)

	_, _, err = run(t, "--model", path, "--log-level", "loud", "forward")
	require.Error(t, err)
}
