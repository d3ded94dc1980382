// SPDX-License-Identifier: MIT

package hmm_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/stretchr/testify/require"
)

// weather is the two-state, two-symbol fixture used across the tests.
func weather(t testing.TB) *hmm.Model {
	t.Helper()
	m, err := hmm.NewModel(
		[][]float64{{0.7, 0.3}, {0.4, 0.6}},
		[][]float64{{0.9, 0.1}, {0.2, 0.8}},
		[]float64{0.6, 0.4},
	)
	require.NoError(t, err)

	return m
}

// randomDist returns a strictly positive distribution of length n.
func randomDist(rng *rand.Rand, n int) []float64 {
	p := make([]float64, n)
	sum := 0.0
	for i := range p {
		p[i] = 0.05 + rng.Float64()
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}

	return p
}

// randomModel builds a reproducible model with n states and k symbols.
func randomModel(t testing.TB, seed int64, n, k int) *hmm.Model {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	tr := make([][]float64, n)
	em := make([][]float64, n)
	for i := 0; i < n; i++ {
		tr[i] = randomDist(rng, n)
		em[i] = randomDist(rng, k)
	}
	m, err := hmm.NewModel(tr, em, randomDist(rng, n))
	require.NoError(t, err)

	return m
}

// randomObs returns a reproducible symbol sequence.
func randomObs(seed int64, length, k int) []int {
	rng := rand.New(rand.NewSource(seed))
	obs := make([]int, length)
	for i := range obs {
		obs[i] = rng.Intn(k)
	}

	return obs
}

// requireRowsStochastic asserts every row of rows sums to 1 within tol with entries in [0,1].
func requireRowsStochastic(t testing.TB, rows [][]float64, tol float64) {
	t.Helper()
	for i, row := range rows {
		sum := 0.0
		for j, v := range row {
			require.GreaterOrEqualf(t, v, 0.0, "row %d col %d", i, j)
			require.LessOrEqualf(t, v, 1.0, "row %d col %d", i, j)
			sum += v
		}
		require.InDeltaf(t, 1.0, sum, tol, "row %d", i)
	}
}
