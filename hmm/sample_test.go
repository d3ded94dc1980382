// SPDX-License-Identifier: MIT

package hmm_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_Deterministic(t *testing.T) {
	// alternating chain with identity emissions: the draw is forced
	m, err := hmm.NewModel(
		[][]float64{{0, 1}, {1, 0}},
		[][]float64{{1, 0}, {0, 1}},
		[]float64{1, 0},
	)
	require.NoError(t, err)

	states, obs, err := hmm.Sample(m, 5, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1, 0}, states)
	assert.Equal(t, states, obs)
}

func TestSample_Reproducible(t *testing.T) {
	m := randomModel(t, 31, 3, 4)

	s1, o1, err := hmm.Sample(m, 40, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	s2, o2, err := hmm.Sample(m, 40, rand.New(rand.NewSource(9)))
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, o1, o2)
	require.NoError(t, hmm.ValidateObservations(o1, m.Symbols()))
	for _, s := range s1 {
		assert.True(t, s >= 0 && s < m.States())
	}
}

func TestSample_InvalidInput(t *testing.T) {
	m := weather(t)
	_, _, err := hmm.Sample(m, 0, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, hmm.ErrInvalidParameter)
	_, _, err = hmm.Sample(m, 3, nil)
	require.ErrorIs(t, err, hmm.ErrInvalidParameter)
	_, _, err = hmm.Sample(nil, 3, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, hmm.ErrNilModel)
}
