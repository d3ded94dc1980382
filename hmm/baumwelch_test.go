// SPDX-License-Identifier: MIT

package hmm_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBaumWelch_ZeroIterations returns the inputs unchanged.
func TestBaumWelch_ZeroIterations(t *testing.T) {
	m := weather(t)
	res, err := hmm.BaumWelch(m, []int{0, 1, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Empty(t, res.LogLikelihoods)
	assert.False(t, res.Converged)
	assert.NotSame(t, m, res.Model)
	assert.Equal(t, m.Transition().ToSlices(), res.Model.Transition().ToSlices())
	assert.Equal(t, m.Emission().ToSlices(), res.Model.Emission().ToSlices())
	assert.Equal(t, m.Initial(), res.Model.Initial())
}

// TestBaumWelch_OneIteration moves the parameters and keeps rows stochastic.
func TestBaumWelch_OneIteration(t *testing.T) {
	m := weather(t)
	res, err := hmm.BaumWelch(m, []int{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, res.Iterations)
	require.Len(t, res.LogLikelihoods, 1)

	tr, em := res.Model.Transition().ToSlices(), res.Model.Emission().ToSlices()
	requireRowsStochastic(t, tr, 1e-6)
	requireRowsStochastic(t, em, 1e-6)
	requireRowsStochastic(t, [][]float64{res.Model.Initial()}, 1e-6)

	assert.NotEqual(t, m.Transition().ToSlices(), tr)
	assert.NotEqual(t, m.Emission().ToSlices(), em)

	// the caller's model is untouched
	assert.Equal(t, [][]float64{{0.7, 0.3}, {0.4, 0.6}}, m.Transition().ToSlices())

	pf, _, err := hmm.Forward(m, []int{0, 1, 0})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(pf), res.LogLikelihoods[0], 1e-12)
}

// TestBaumWelch_LikelihoodNonDecreasing checks the EM ascent property.
func TestBaumWelch_LikelihoodNonDecreasing(t *testing.T) {
	m := randomModel(t, 5, 2, 3)
	obs := randomObs(6, 30, 3)

	res, err := hmm.BaumWelch(m, obs, 25)
	require.NoError(t, err)
	require.Equal(t, 25, res.Iterations)
	for k := 1; k < len(res.LogLikelihoods); k++ {
		assert.GreaterOrEqualf(t, res.LogLikelihoods[k], res.LogLikelihoods[k-1]-1e-9, "iteration %d", k+1)
	}
	requireRowsStochastic(t, res.Model.Transition().ToSlices(), 1e-6)
	requireRowsStochastic(t, res.Model.Emission().ToSlices(), 1e-6)
	require.NoError(t, res.Model.Validate(hmm.WithTolerance(1e-6)))
}

// TestBaumWelch_LongSequence trains where P(O) is subnormal (about 1150
// symbols) or underflows to 0 (3000 symbols); rows must stay stochastic.
func TestBaumWelch_LongSequence(t *testing.T) {
	for _, length := range []int{1110, 1150, 3000} {
		t.Run(fmt.Sprintf("len=%d", length), func(t *testing.T) {
			m := weather(t)
			_, obs, err := hmm.Sample(m, length, rand.New(rand.NewSource(3)))
			require.NoError(t, err)

			res, err := hmm.BaumWelch(m, obs, 1)
			require.NoError(t, err)
			require.Len(t, res.LogLikelihoods, 1)
			assert.False(t, math.IsInf(res.LogLikelihoods[0], 0) || math.IsNaN(res.LogLikelihoods[0]))
			requireRowsStochastic(t, res.Model.Transition().ToSlices(), 1e-6)
			requireRowsStochastic(t, res.Model.Emission().ToSlices(), 1e-6)
			requireRowsStochastic(t, [][]float64{res.Model.Initial()}, 1e-6)
			require.NoError(t, res.Model.Validate(hmm.WithTolerance(1e-6)))
		})
	}
}

// TestBaumWelch_UnderflowedLikelihoodAscends keeps the EM ascent property after
// the raw likelihood has underflowed to zero.
func TestBaumWelch_UnderflowedLikelihoodAscends(t *testing.T) {
	m := weather(t)
	_, obs, err := hmm.Sample(m, 3000, rand.New(rand.NewSource(8)))
	require.NoError(t, err)

	p, _, err := hmm.Forward(m, obs)
	require.NoError(t, err)
	require.Equal(t, 0.0, p)

	res, err := hmm.BaumWelch(m, obs, 6)
	require.NoError(t, err)
	assert.Less(t, res.LogLikelihoods[0], math.Log(math.SmallestNonzeroFloat64))
	for k := 1; k < len(res.LogLikelihoods); k++ {
		assert.GreaterOrEqualf(t, res.LogLikelihoods[k], res.LogLikelihoods[k-1]-1e-6, "iteration %d", k+1)
	}
	requireRowsStochastic(t, res.Model.Transition().ToSlices(), 1e-6)
	requireRowsStochastic(t, res.Model.Emission().ToSlices(), 1e-6)
}

// TestBaumWelch_Convergence stops as soon as the log-likelihood stalls.
// A one-state model with balanced counts is already a fixed point.
func TestBaumWelch_Convergence(t *testing.T) {
	m, err := hmm.NewModel([][]float64{{1}}, [][]float64{{0.5, 0.5}}, []float64{1})
	require.NoError(t, err)

	res, err := hmm.BaumWelch(m, []int{0, 1}, 100, hmm.WithConvergence(1e-9))
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 2, res.Iterations)
	assert.InDelta(t, math.Log(0.25), res.LogLikelihoods[1], 1e-12)

	res, err = hmm.BaumWelch(m, []int{0, 1}, 7)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 7, res.Iterations)
}

// TestBaumWelch_UnreachableStateKeepsRows: state 1 never carries posterior mass.
func TestBaumWelch_UnreachableStateKeepsRows(t *testing.T) {
	m, err := hmm.NewModel(
		[][]float64{{1, 0}, {0.5, 0.5}},
		[][]float64{{0.5, 0.5}, {0.3, 0.7}},
		[]float64{1, 0},
	)
	require.NoError(t, err)

	res, err := hmm.BaumWelch(m, []int{0, 1, 0}, 1)
	require.NoError(t, err)
	tr, em := res.Model.Transition().ToSlices(), res.Model.Emission().ToSlices()

	assert.Equal(t, []float64{0.5, 0.5}, tr[1])
	assert.Equal(t, []float64{0.3, 0.7}, em[1])
	assert.InDeltaSlice(t, []float64{1, 0}, tr[0], 1e-12)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3}, em[0], 1e-12)
	assert.InDeltaSlice(t, []float64{1, 0}, res.Model.Initial(), 1e-12)
}

// TestBaumWelch_ZeroLikelihood floors instead of failing and leaves the model as is.
func TestBaumWelch_ZeroLikelihood(t *testing.T) {
	m, err := hmm.NewModel(
		[][]float64{{0.5, 0.5}, {0.5, 0.5}},
		[][]float64{{1, 0}, {1, 0}},
		[]float64{0.5, 0.5},
	)
	require.NoError(t, err)

	res, err := hmm.BaumWelch(m, []int{1, 0}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.LogLikelihoods[0], -1))
	assert.Equal(t, m.Transition().ToSlices(), res.Model.Transition().ToSlices())
	assert.Equal(t, m.Emission().ToSlices(), res.Model.Emission().ToSlices())
	assert.Equal(t, m.Initial(), res.Model.Initial())
}

func TestBaumWelch_InvalidInput(t *testing.T) {
	m := weather(t)
	_, err := hmm.BaumWelch(m, []int{0}, -1)
	require.ErrorIs(t, err, hmm.ErrInvalidParameter)
	_, err = hmm.BaumWelch(m, []int{5}, 1)
	require.ErrorIs(t, err, hmm.ErrInvalidIndex)
	_, err = hmm.BaumWelch(nil, []int{0}, 1)
	require.ErrorIs(t, err, hmm.ErrNilModel)
}

func TestBaumWelch_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := hmm.BaumWelch(weather(t), []int{0, 1, 0}, 2, hmm.WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "baum-welch iteration")
	assert.Contains(t, out, "iteration=2")
	assert.Contains(t, out, "baum-welch finished")
	assert.Contains(t, out, "converged=false")
}
