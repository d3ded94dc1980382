// SPDX-License-Identifier: MIT

package hmm

import (
	"fmt"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Viterbi finds the single most likely hidden state path for obs.
// MAIN DESCRIPTION:
//   - Returns the path (length T) and its joint probability P(path, O | model).
//
// Implementation:
//   - Stage 1: validate model and observations once.
//   - Stage 2: V[:,0] = π ⊙ E[:,O[0]].
//   - Stage 3: for t ≥ 1 and each j, cand = V[:,t-1] ⊙ T[:,j];
//     back[j,t] = MaxIdx(cand); V[j,t] = cand[back[j,t]]·E[j,O[t]].
//   - Stage 4: end state = MaxIdx(V[:,T-1]); walk back-pointers to t = 0.
//
// Behavior highlights:
//   - Ties resolve to the lowest state index, at every step and at the end.
//   - The returned probability never exceeds the Forward likelihood.
//   - When P = 0 the path is still well-formed (all ties, so lowest indices).
//
// Errors:
//   - ErrNilModel, ErrShapeMismatch, ErrInvalidDistribution, ErrInvalidIndex.
//
// Complexity:
//   - Time O(N²·T), Space O(N·T) for the trellis and back-pointers.
func Viterbi(m *Model, obs []int, opts ...Option) ([]int, float64, error) {
	if err := validateInputs(m, obs, applyOptions(opts)); err != nil {
		return nil, 0, fmt.Errorf("viterbi: %w", err)
	}

	return viterbi(m, obs, m.emissionColumns())
}

// viterbi runs the max-product recursion on validated inputs.
func viterbi(m *Model, obs []int, emit [][]float64) ([]int, float64, error) {
	n, steps := m.States(), len(obs)
	trellis, err := matrix.NewDense(n, steps)
	if err != nil {
		return nil, 0, fmt.Errorf("viterbi: %w", err)
	}
	back := make([]int, n*steps) // row-major N×T, back[j*steps+t]

	// Columns of T, so cand = prev ⊙ T[:,j] is a contiguous product.
	tcols := make([][]float64, n)
	for j := range tcols {
		tcols[j], _ = m.transition.Col(j)
	}

	prev := floats.MulTo(make([]float64, n), m.initial, emit[obs[0]])
	if err = trellis.SetCol(0, prev); err != nil {
		return nil, 0, fmt.Errorf("viterbi: %w", err)
	}
	cur := make([]float64, n)
	cand := make([]float64, n)
	var t, j, best int
	for t = 1; t < steps; t++ {
		for j = 0; j < n; j++ {
			floats.MulTo(cand, prev, tcols[j])
			best = floats.MaxIdx(cand)
			back[j*steps+t] = best
			cur[j] = cand[best] * emit[obs[t]][j]
		}
		if err = trellis.SetCol(t, cur); err != nil {
			return nil, 0, fmt.Errorf("viterbi: step %d: %w", t, err)
		}
		prev, cur = cur, prev
	}

	path := make([]int, steps)
	path[steps-1] = floats.MaxIdx(prev)
	p := prev[path[steps-1]]
	for t = steps - 1; t > 0; t-- {
		path[t-1] = back[path[t]*steps+t]
	}

	return path, p, nil
}
