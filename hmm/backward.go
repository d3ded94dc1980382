// SPDX-License-Identifier: MIT

package hmm

import (
	"fmt"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Backward computes the likelihood P(O | model) and the N×T backward table B.
// MAIN DESCRIPTION:
//   - B[i,t] is the probability of emitting O[t+1..T-1] given state i at step t.
//
// Implementation:
//   - Stage 1: validate model and observations once.
//   - Stage 2: B[:,T-1] = 1.
//   - Stage 3: B[:,t] = MatVec(T, E[:,O[t+1]] ⊙ B[:,t+1]) for t = T-2..0.
//   - Stage 4: P = Σ_i π[i]·E[i,O[0]]·B[i,0].
//
// Behavior highlights:
//   - P agrees with Forward up to floating-point rounding.
//
// Errors:
//   - ErrNilModel, ErrShapeMismatch, ErrInvalidDistribution, ErrInvalidIndex.
//
// Complexity:
//   - Time O(N²·T), Space O(N·T).
func Backward(m *Model, obs []int, opts ...Option) (float64, *matrix.Dense, error) {
	if err := validateInputs(m, obs, applyOptions(opts)); err != nil {
		return 0, nil, fmt.Errorf("backward: %w", err)
	}

	return backward(m, obs, m.emissionColumns())
}

// backward runs the recursion on validated inputs.
func backward(m *Model, obs []int, emit [][]float64) (float64, *matrix.Dense, error) {
	n, steps := m.States(), len(obs)
	bwd, err := matrix.NewDense(n, steps)
	if err != nil {
		return 0, nil, fmt.Errorf("backward: %w", err)
	}

	beta := make([]float64, n)
	for i := range beta {
		beta[i] = 1
	}
	if err = bwd.SetCol(steps-1, beta); err != nil {
		return 0, nil, fmt.Errorf("backward: %w", err)
	}
	w := make([]float64, n)
	var t int
	for t = steps - 2; t >= 0; t-- {
		floats.MulTo(w, emit[obs[t+1]], beta)
		if beta, err = matrix.MatVec(m.transition, w); err != nil {
			return 0, nil, fmt.Errorf("backward: step %d: %w", t, err)
		}
		if err = bwd.SetCol(t, beta); err != nil {
			return 0, nil, fmt.Errorf("backward: step %d: %w", t, err)
		}
	}

	floats.MulTo(w, m.initial, emit[obs[0]])

	return floats.Dot(w, beta), bwd, nil
}
