// SPDX-License-Identifier: MIT

package hmm

import (
	"fmt"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Forward computes the likelihood P(O | model) and the N×T forward table F.
// MAIN DESCRIPTION:
//   - F[i,t] is the joint probability of being in state i at step t after
//     emitting O[0..t].
//
// Implementation:
//   - Stage 1: validate model and observations once.
//   - Stage 2: F[:,0] = π ⊙ E[:,O[0]].
//   - Stage 3: F[:,t] = VecMat(F[:,t-1], T) ⊙ E[:,O[t]] for t = 1..T-1.
//   - Stage 4: P = Σ_i F[i,T-1].
//
// Behavior highlights:
//   - A symbol no state can emit yields P = 0; that is a result, not an error.
//   - The model is never mutated; F is freshly allocated per call.
//
// Errors:
//   - ErrNilModel, ErrShapeMismatch, ErrInvalidDistribution, ErrInvalidIndex.
//
// Complexity:
//   - Time O(N²·T), Space O(N·T).
func Forward(m *Model, obs []int, opts ...Option) (float64, *matrix.Dense, error) {
	if err := validateInputs(m, obs, applyOptions(opts)); err != nil {
		return 0, nil, fmt.Errorf("forward: %w", err)
	}

	return forward(m, obs, m.emissionColumns())
}

// forward runs the recursion on validated inputs.
func forward(m *Model, obs []int, emit [][]float64) (float64, *matrix.Dense, error) {
	n, steps := m.States(), len(obs)
	fwd, err := matrix.NewDense(n, steps)
	if err != nil {
		return 0, nil, fmt.Errorf("forward: %w", err)
	}

	alpha := floats.MulTo(make([]float64, n), m.initial, emit[obs[0]])
	if err = fwd.SetCol(0, alpha); err != nil {
		return 0, nil, fmt.Errorf("forward: %w", err)
	}
	var t int
	for t = 1; t < steps; t++ {
		if alpha, err = matrix.VecMat(alpha, m.transition); err != nil {
			return 0, nil, fmt.Errorf("forward: step %d: %w", t, err)
		}
		floats.Mul(alpha, emit[obs[t]])
		if err = fwd.SetCol(t, alpha); err != nil {
			return 0, nil, fmt.Errorf("forward: step %d: %w", t, err)
		}
	}

	return floats.Sum(alpha), fwd, nil
}
