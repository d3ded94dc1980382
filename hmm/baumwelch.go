// SPDX-License-Identifier: MIT

package hmm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Training is the outcome of BaumWelch.
//
//   - Model: the re-estimated (T*, E*, π*); a private copy, never the input.
//   - Iterations: EM iterations actually performed.
//   - LogLikelihoods: ln P(O | model) at the start of each iteration.
//   - Converged: true when WithConvergence stopped the loop early.
type Training struct {
	Model          *Model
	Iterations     int
	LogLikelihoods []float64
	Converged      bool
}

// BaumWelch re-estimates (T, E, π) from a single observation sequence by
// expectation-maximization.
// MAIN DESCRIPTION:
//   - Each iteration recomputes Forward/Backward on the current parameters
//     (E-step) and replaces them with the normalized expected counts (M-step).
//
// Implementation:
//   - Stage 1: validate; iterations < 0 is rejected; clone the model.
//   - Stage 2: repeat: normalized E-step → reestimate. Stop after `iterations`, or
//     earlier when WithConvergence is set and |ln P_k − ln P_{k−1}| < tol.
//
// Behavior highlights:
//   - iterations == 0 returns an unchanged copy of m.
//   - The caller's model is never mutated.
//   - A state with no posterior mass keeps its previous row, so T and E rows
//     remain distributions at every iteration.
//   - The E-step is normalized per time step, so long sequences whose P(O)
//     underflows float64 still train and report a finite log-likelihood.
//   - Progress is logged at Debug per iteration and at Info on completion.
//
// Errors:
//   - ErrInvalidParameter (iterations < 0), plus the Forward validation errors.
//
// Complexity:
//   - Time O(k·N²·T) for k iterations, Space O(N²·T).
func BaumWelch(m *Model, obs []int, iterations int, opts ...Option) (*Training, error) {
	o := applyOptions(opts)
	if iterations < 0 {
		return nil, fmt.Errorf("baum-welch: %w: iterations = %d", ErrInvalidParameter, iterations)
	}
	if err := validateInputs(m, obs, o); err != nil {
		return nil, fmt.Errorf("baum-welch: %w", err)
	}

	work := m.Clone()
	res := &Training{Model: work, LogLikelihoods: make([]float64, 0, iterations)}
	prev := math.NaN()
	var k int
	for k = 0; k < iterations; k++ {
		ll, gamma, xi, err := estep(work, obs, work.emissionColumns(), o.ProbabilityFloor)
		if err != nil {
			return nil, fmt.Errorf("baum-welch: iteration %d: %w", k+1, err)
		}
		res.LogLikelihoods = append(res.LogLikelihoods, ll)
		if err = reestimate(work, obs, gamma, xi); err != nil {
			return nil, fmt.Errorf("baum-welch: iteration %d: %w", k+1, err)
		}
		res.Iterations = k + 1
		o.Logger.Debug("baum-welch iteration", "iteration", k+1, "loglik", ll)

		if o.ConvergenceTolerance > 0 && math.Abs(ll-prev) < o.ConvergenceTolerance {
			res.Converged = true
			break
		}
		prev = ll
	}
	o.Logger.Info("baum-welch finished",
		"states", work.States(),
		"symbols", work.Symbols(),
		"length", len(obs),
		"iterations", res.Iterations,
		"converged", res.Converged,
	)

	return res, nil
}

// reestimate applies the M-step to m in place.
//
//	T[i,j] = Σ_{t<T-1} xi[t][i,j] / Σ_{t<T-1} gamma[i,t]
//	E[i,k] = Σ_{t:O[t]=k} gamma[i,t] / Σ_t gamma[i,t]
//	π[i]   = gamma[i,0] / Σ_i gamma[i,0]
//
// The transition denominator is taken as Σ_t Σ_j xi[t][i,j], which equals
// Σ_{t<T-1} gamma[i,t] and divides the numerator by its own mass.
// A zero denominator leaves the corresponding row unchanged.
func reestimate(m *Model, obs []int, gamma *matrix.Dense, xi []*matrix.Dense) error {
	n, symbols, steps := m.States(), m.Symbols(), len(obs)
	tnum := make([]float64, n)
	enum := make([]float64, symbols)

	var i, t int
	var g, xrow []float64
	var head, all float64
	for i = 0; i < n; i++ {
		g, _ = gamma.RowView(i)
		all = floats.Sum(g)

		for j := range tnum {
			tnum[j] = 0
		}
		for t = 0; t < steps-1; t++ {
			xrow, _ = xi[t].RowView(i)
			floats.Add(tnum, xrow)
		}
		if head = floats.Sum(tnum); head > 0 {
			divide(tnum, head)
			if err := m.transition.SetRow(i, tnum); err != nil {
				return fmt.Errorf("transition row %d: %w", i, err)
			}
		}

		if all > 0 {
			for k := range enum {
				enum[k] = 0
			}
			for t = 0; t < steps; t++ {
				enum[obs[t]] += g[t]
			}
			divide(enum, all)
			if err := m.emission.SetRow(i, enum); err != nil {
				return fmt.Errorf("emission row %d: %w", i, err)
			}
		}
	}

	first, _ := gamma.Col(0)
	if s := floats.Sum(first); s > 0 {
		divide(first, s)
		copy(m.initial, first)
	}

	return nil
}

// divide divides v by d in place; d > 0.
func divide(v []float64, d float64) {
	for k := range v {
		v[k] /= d
	}
}
