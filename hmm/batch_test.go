// SPDX-License-Identifier: MIT

package hmm_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/lvmarkov/hmm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchSeqs() [][]int {
	seqs := make([][]int, 16)
	for i := range seqs {
		seqs[i] = randomObs(int64(i), 5+i, 3)
	}

	return seqs
}

func TestEvaluateAll_MatchesForward(t *testing.T) {
	m := randomModel(t, 41, 3, 3)
	seqs := batchSeqs()

	got, err := hmm.EvaluateAll(context.Background(), m, seqs, hmm.WithWorkers(3))
	require.NoError(t, err)
	require.Len(t, got, len(seqs))
	for i, seq := range seqs {
		p, _, err := hmm.Forward(m, seq)
		require.NoError(t, err)
		assert.Equalf(t, p, got[i], "sequence %d", i)
	}
}

func TestDecodeAll_MatchesViterbi(t *testing.T) {
	m := randomModel(t, 42, 3, 3)
	seqs := batchSeqs()

	got, err := hmm.DecodeAll(context.Background(), m, seqs)
	require.NoError(t, err)
	require.Len(t, got, len(seqs))
	for i, seq := range seqs {
		path, p, err := hmm.Viterbi(m, seq)
		require.NoError(t, err)
		assert.Equalf(t, path, got[i].Path, "sequence %d", i)
		assert.Equalf(t, p, got[i].Probability, "sequence %d", i)
	}
}

func TestBatch_Errors(t *testing.T) {
	m := weather(t)

	_, err := hmm.EvaluateAll(context.Background(), m, [][]int{{0, 1}, {0, 9}})
	require.ErrorIs(t, err, hmm.ErrInvalidIndex)
	assert.Contains(t, err.Error(), "sequence 1")

	_, err = hmm.DecodeAll(context.Background(), nil, [][]int{{0}})
	require.ErrorIs(t, err, hmm.ErrNilModel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = hmm.EvaluateAll(ctx, m, [][]int{{0}, {1}})
	require.ErrorIs(t, err, context.Canceled)

	out, err := hmm.DecodeAll(context.Background(), m, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
