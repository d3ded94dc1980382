// SPDX-License-Identifier: MIT

package hmm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Posterior holds the E-step quantities of one observation sequence.
//
//   - Likelihood: P(O | model) as computed by Forward (not floored; may underflow to 0).
//   - LogLikelihood: ln P(O | model) from the normalized recursion; finite
//     even when Likelihood underflows, -Inf only for an impossible sequence.
//   - Forward, Backward: the N×T tables.
//   - Gamma: N×T, Gamma[i,t] = P(state i at t | O).
//   - Xi: T-1 matrices of N×N, Xi[t][i,j] = P(state i at t, state j at t+1 | O).
type Posterior struct {
	Likelihood    float64
	LogLikelihood float64
	Forward       *matrix.Dense
	Backward      *matrix.Dense
	Gamma         *matrix.Dense
	Xi            []*matrix.Dense
}

// Posteriors runs Forward and Backward and derives gamma and xi.
// MAIN DESCRIPTION:
//   - gamma[i,t] = F[i,t]·B[i,t] / P
//   - xi[t][i,j] = F[i,t]·T[i,j]·E[j,O[t+1]]·B[j,t+1] / P
//
// Implementation:
//   - Stage 1: validate; raw Forward and Backward tables for the caller.
//   - Stage 2: gamma and xi from the normalized recursion (see estep), so
//     they stay accurate after P has left the normal float64 range.
//
// Behavior highlights:
//   - A step with zero probability mass is divided by Options.ProbabilityFloor
//     instead of zero; an impossible sequence yields all-zero gamma and xi.
//   - For T = 1, Xi is empty.
//
// Errors:
//   - ErrNilModel, ErrShapeMismatch, ErrInvalidDistribution, ErrInvalidIndex.
//
// Complexity:
//   - Time O(N²·T), Space O(N²·T) for xi.
func Posteriors(m *Model, obs []int, opts ...Option) (*Posterior, error) {
	o := applyOptions(opts)
	if err := validateInputs(m, obs, o); err != nil {
		return nil, fmt.Errorf("posteriors: %w", err)
	}
	emit := m.emissionColumns()

	p, fwd, err := forward(m, obs, emit)
	if err != nil {
		return nil, err
	}
	_, bwd, err := backward(m, obs, emit)
	if err != nil {
		return nil, err
	}
	ll, gamma, xi, err := estep(m, obs, emit, o.ProbabilityFloor)
	if err != nil {
		return nil, fmt.Errorf("posteriors: %w", err)
	}

	return &Posterior{
		Likelihood:    p,
		LogLikelihood: ll,
		Forward:       fwd,
		Backward:      bwd,
		Gamma:         gamma,
		Xi:            xi,
	}, nil
}

// estep computes ln P, gamma and xi with per-step normalization.
//
//	â[:,t] = F[:,t] / (c[0]·…·c[t]),      Σ_i â[i,t] = 1
//	b̂[:,t] = B[:,t] / (c[t+1]·…·c[T-1])
//	gamma[:,t]    = â[:,t] ⊙ b̂[:,t]
//	xi[t][i,j]    = â[i,t]·T[i,j]·E[j,O[t+1]]·b̂[j,t+1] / c[t+1]
//	ln P          = Σ_t ln c[t]
//
// Σ_j xi[t][i,j] equals gamma[i,t] by construction, which keeps the
// re-estimated rows stochastic. Inputs must be validated.
func estep(m *Model, obs []int, emit [][]float64, floor float64) (float64, *matrix.Dense, []*matrix.Dense, error) {
	n, steps := m.States(), len(obs)
	gamma, err := matrix.NewDense(n, steps)
	if err != nil {
		return 0, nil, nil, err
	}
	xi := make([]*matrix.Dense, steps-1)
	for t := range xi {
		if xi[t], err = matrix.NewDense(n, n); err != nil {
			return 0, nil, nil, err
		}
	}

	alphas := make([][]float64, steps)
	scales := make([]float64, steps)
	alpha := floats.MulTo(make([]float64, n), m.initial, emit[obs[0]])
	ll := 0.0
	var t, i int
	var c float64
	for t = 0; t < steps; t++ {
		if t > 0 {
			if alpha, err = matrix.VecMat(alphas[t-1], m.transition); err != nil {
				return 0, nil, nil, fmt.Errorf("step %d: %w", t, err)
			}
			floats.Mul(alpha, emit[obs[t]])
		}
		c = floats.Sum(alpha)
		ll += math.Log(c)
		if c <= 0 {
			c = floor
		}
		divide(alpha, c)
		alphas[t], scales[t] = alpha, c
	}
	if math.IsInf(ll, -1) {
		// P(O) = 0: no state carries posterior mass at any step.
		return ll, gamma, xi, nil
	}

	beta := make([]float64, n)
	for i = range beta {
		beta[i] = 1
	}
	w := make([]float64, n)
	row := make([]float64, n)
	var trow []float64
	for t = steps - 1; t >= 0; t-- {
		if t < steps-1 {
			floats.MulTo(w, emit[obs[t+1]], beta)
			divide(w, scales[t+1])
			for i = 0; i < n; i++ {
				trow, _ = m.transition.RowView(i)
				floats.MulTo(row, trow, w)
				floats.Scale(alphas[t][i], row)
				if err = xi[t].SetRow(i, row); err != nil {
					return 0, nil, nil, fmt.Errorf("xi[%d]: %w", t, err)
				}
			}
			if beta, err = matrix.MatVec(m.transition, w); err != nil {
				return 0, nil, nil, fmt.Errorf("step %d: %w", t, err)
			}
		}
		floats.MulTo(row, alphas[t], beta)
		if err = gamma.SetCol(t, row); err != nil {
			return 0, nil, nil, fmt.Errorf("gamma[:,%d]: %w", t, err)
		}
	}

	return ll, gamma, xi, nil
}
