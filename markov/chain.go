// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvmarkov/matrix"
	"gonum.org/v1/gonum/floats"
)

// Tolerance is the allowed |Σ − 1| for rows of P and for state vectors.
const Tolerance = 1e-8

// Distribution returns the state distribution after steps transitions from s: s·P^steps.
//
// Errors:
//   - ErrShape, ErrNotStochastic, ErrBadSteps.
//
// Complexity:
//   - Time O(n³·log steps), Space O(n²).
func Distribution(p matrix.Matrix, s []float64, steps int) ([]float64, error) {
	if err := validateChain(p); err != nil {
		return nil, err
	}
	if steps < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadSteps, steps)
	}
	if len(s) != p.Rows() {
		return nil, fmt.Errorf("%w: state vector has length %d, want %d", ErrShape, len(s), p.Rows())
	}
	if !isDistribution(s) {
		return nil, fmt.Errorf("%w: initial state vector", ErrNotStochastic)
	}

	pt, err := matrix.Pow(p, steps)
	if err != nil {
		return nil, fmt.Errorf("markov: %w", err)
	}

	return matrix.VecMat(s, pt)
}

// Stationary returns the steady-state distribution π (π = π·P, Σπ = 1) of a regular chain.
// MAIN DESCRIPTION:
//   - A chain is regular when some power P^k is strictly positive; only
//     k ≤ n² needs to be checked.
//
// Implementation:
//   - Stage 1: validate P; search k = 1..n² for P^k > 0, else ErrNotRegular.
//   - Stage 2: A = Pᵀ − I with its last row replaced by ones; π = A⁻¹·e_last.
//
// Behavior highlights:
//   - For an irreducible P every leading principal minor of I − P is non-zero,
//     so the non-pivoting inverse never meets a zero pivot on regular input.
//
// Errors:
//   - ErrShape, ErrNotStochastic, ErrNotRegular.
//
// Complexity:
//   - Time O(n⁵) worst case (regularity), Space O(n²).
func Stationary(p matrix.Matrix) ([]float64, error) {
	if err := validateChain(p); err != nil {
		return nil, err
	}
	ok, err := isRegular(p)
	if err != nil {
		return nil, fmt.Errorf("markov: %w", err)
	}
	if !ok {
		return nil, ErrNotRegular
	}

	n := p.Rows()
	a, err := matrix.Transpose(p)
	if err != nil {
		return nil, fmt.Errorf("markov: %w", err)
	}
	var i int
	var v float64
	for i = 0; i < n-1; i++ {
		v, _ = a.At(i, i)
		_ = a.Set(i, i, v-1)
	}
	for i = 0; i < n; i++ {
		_ = a.Set(n-1, i, 1) // Σπ = 1 replaces the last balance equation
	}

	inv, err := matrix.Inverse(a)
	if err != nil {
		return nil, fmt.Errorf("markov: %w", err)
	}
	rhs := make([]float64, n)
	rhs[n-1] = 1

	return matrix.MatVec(inv, rhs)
}

// IsAbsorbing reports whether P has at least one absorbing state (P[i,i] = 1)
// and every state can reach some absorbing state.
//
// Errors:
//   - ErrShape, ErrNotStochastic.
//
// Complexity:
//   - Time O(n³) worst case, Space O(n).
func IsAbsorbing(p matrix.Matrix) (bool, error) {
	if err := validateChain(p); err != nil {
		return false, err
	}
	n := p.Rows()
	reach := make([]bool, n)
	found := false
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		v, _ = p.At(i, i)
		if math.Abs(v-1) <= Tolerance {
			reach[i] = true
			found = true
		}
	}
	if !found {
		return false, nil
	}

	// Grow the set of states with a path into an absorbing state to a fixed point.
	for changed := true; changed; {
		changed = false
		for i = 0; i < n; i++ {
			if reach[i] {
				continue
			}
			for j = 0; j < n; j++ {
				if v, _ = p.At(i, j); v > 0 && reach[j] {
					reach[i] = true
					changed = true
					break
				}
			}
		}
	}
	for _, r := range reach {
		if !r {
			return false, nil
		}
	}

	return true, nil
}

// isRegular searches P^k, k = 1..n², for a strictly positive power.
func isRegular(p matrix.Matrix) (bool, error) {
	n := p.Rows()
	pk, err := matrix.Scale(p, 1)
	if err != nil {
		return false, err
	}
	var row []float64
	for k := 1; k <= n*n; k++ {
		positive := true
		for i := 0; i < n && positive; i++ {
			row, _ = pk.RowView(i)
			positive = floats.Min(row) > 0
		}
		if positive {
			return true, nil
		}
		if pk, err = matrix.Mul(pk, p); err != nil {
			return false, err
		}
	}

	return false, nil
}

// validateChain checks that p is non-nil, square and row-stochastic.
func validateChain(p matrix.Matrix) error {
	if err := matrix.ValidateSquareNonNil(p); err != nil {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	n := p.Rows()
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if v, _ = p.At(i, j); math.IsNaN(v) || v < 0 {
				return fmt.Errorf("%w: P[%d,%d] = %g", ErrNotStochastic, i, j, v)
			}
		}
	}
	sums, err := matrix.RowSums(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShape, err)
	}
	for i, s := range sums {
		if math.Abs(s-1) > Tolerance {
			return fmt.Errorf("%w: row %d sums to %g", ErrNotStochastic, i, s)
		}
	}

	return nil
}

// isDistribution reports whether s is non-negative and sums to 1.
func isDistribution(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || v < 0 {
			return false
		}
	}

	return math.Abs(floats.Sum(s)-1) <= Tolerance
}
